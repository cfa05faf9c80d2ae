package db

import (
	"path/filepath"
	"testing"

	"smartenergy/ml"
)

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer store.Close()

	batch := []ml.Prediction{
		{Index: 0, Predicted: 51.2, Timestamp: "2024-06-01T10:00:00Z"},
		{Index: 1, Predicted: 48.9},
	}
	if err := store.SavePredictions(batch); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	records, err := store.QueryRecent(10)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Most recent first.
	if records[0].BatchIndex != 1 || records[0].Timestamp != nil {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].Predicted != 51.2 {
		t.Fatalf("unexpected predicted value: %v", records[1].Predicted)
	}
	if records[1].Timestamp == nil || *records[1].Timestamp != "2024-06-01T10:00:00Z" {
		t.Fatalf("timestamp not persisted: %+v", records[1])
	}
}

func TestStoreQueryLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer store.Close()

	batch := make([]ml.Prediction, 5)
	for i := range batch {
		batch[i] = ml.Prediction{Index: i, Predicted: float64(i)}
	}
	if err := store.SavePredictions(batch); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	records, err := store.QueryRecent(3)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestStoreEmptyBatch(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer store.Close()

	if err := store.SavePredictions(nil); err != nil {
		t.Fatalf("empty batch should be a no-op: %v", err)
	}
}
