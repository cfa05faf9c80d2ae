package ml

import (
	"errors"
	"testing"
)

type fakeModel struct {
	value float64
	err   error
	calls int
}

func (f *fakeModel) Predict(features []float64) (float64, error) {
	f.calls++
	return f.value, f.err
}

func TestPredictBatchOrderAndTimestamps(t *testing.T) {
	predictor := NewPredictor(nil, 0)
	predictor.SetModel(&fakeModel{value: 42.5})

	batch := []RawFeatures{
		{Hour: floatPtr(1), Timestamp: "2024-06-01T01:00:00Z"},
		{Hour: floatPtr(2)},
		{Hour: floatPtr(3), Timestamp: "2024-06-01T03:00:00Z"},
	}

	predictions, err := predictor.PredictBatch(batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(predictions) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(predictions))
	}
	for i, p := range predictions {
		if p.Index != i {
			t.Fatalf("expected index %d, got %d", i, p.Index)
		}
		if p.Predicted != 42.5 {
			t.Fatalf("expected 42.5, got %v", p.Predicted)
		}
	}
	if predictions[0].Timestamp != "2024-06-01T01:00:00Z" {
		t.Fatalf("timestamp not echoed: %v", predictions[0].Timestamp)
	}
	if predictions[1].Timestamp != nil {
		t.Fatalf("expected nil timestamp, got %v", predictions[1].Timestamp)
	}
}

func TestPredictBatchModelNotLoaded(t *testing.T) {
	predictor := NewPredictor(nil, 0)
	if _, err := predictor.PredictBatch([]RawFeatures{{}}); !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}
}

func TestPredictBatchAtomicFailure(t *testing.T) {
	predictor := NewPredictor(nil, 0)
	predictor.SetModel(&fakeModel{err: errors.New("boom")})

	predictions, err := predictor.PredictBatch([]RawFeatures{{}, {}})
	if err == nil {
		t.Fatal("expected error")
	}
	if predictions != nil {
		t.Fatalf("expected no partial results, got %v", predictions)
	}
}

func TestPredictBatchUsesCache(t *testing.T) {
	model := &fakeModel{value: 10}
	predictor := NewPredictor(nil, 8)
	predictor.SetModel(model)

	batch := []RawFeatures{{Hour: floatPtr(9)}}
	if _, err := predictor.PredictBatch(batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := predictor.PredictBatch(batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.calls != 1 {
		t.Fatalf("expected a single model call for identical inputs, got %d", model.calls)
	}
}

func TestDecodeBatchRequest(t *testing.T) {
	features, err := DecodeBatchRequest([]byte(`{"features":[{"hour":12}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(features) != 1 || features[0].Hour == nil || *features[0].Hour != 12 {
		t.Fatalf("unexpected decode result: %+v", features)
	}

	if _, err := DecodeBatchRequest([]byte(`{}`)); !errors.Is(err, ErrMissingFeatures) {
		t.Fatalf("expected ErrMissingFeatures for missing key, got %v", err)
	}
	if _, err := DecodeBatchRequest(nil); !errors.Is(err, ErrMissingFeatures) {
		t.Fatalf("expected ErrMissingFeatures for empty body, got %v", err)
	}

	features, err = DecodeBatchRequest([]byte(`{"features":[]}`))
	if err != nil {
		t.Fatalf("unexpected error for empty batch: %v", err)
	}
	if len(features) != 0 {
		t.Fatalf("expected empty batch, got %d", len(features))
	}
}

func TestLoadFromFileLeavesModelUnset(t *testing.T) {
	predictor := NewPredictor(nil, 0)
	if err := predictor.LoadFromFile("does-not-exist.json"); err == nil {
		t.Fatal("expected error")
	}
	if predictor.Ready() {
		t.Fatal("expected predictor to stay not ready after failed load")
	}
}
