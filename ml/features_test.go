package ml

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestTransformDefaults(t *testing.T) {
	vector := Transform(RawFeatures{})
	if len(vector) != FeatureCount {
		t.Fatalf("expected %d features, got %d", FeatureCount, len(vector))
	}

	// hour=12 gives sin(pi)=0, so the hour multiplier collapses to 1.0 and
	// lag_1h = 50 * 1.0 * 1.0 * 1.1.
	if math.Abs(vector[0]-55.0) > 1e-9 {
		t.Fatalf("expected lag_1h 55.0, got %v", vector[0])
	}
	if math.Abs(vector[1]-55.0*0.95) > 1e-9 {
		t.Fatalf("expected lag_24h %v, got %v", 55.0*0.95, vector[1])
	}
	if math.Abs(vector[2]-55.0*0.9) > 1e-9 {
		t.Fatalf("expected lag_168h %v, got %v", 55.0*0.9, vector[2])
	}
	if vector[3] != 22.0 {
		t.Fatalf("expected default temperature 22.0, got %v", vector[3])
	}
	if vector[4] != 60.0 {
		t.Fatalf("expected default humidity 60.0, got %v", vector[4])
	}
	if vector[13] != 0 {
		t.Fatalf("expected is_weekend 0, got %v", vector[13])
	}
	if vector[14] != 1 {
		t.Fatalf("expected is_business_hour 1, got %v", vector[14])
	}
	if vector[15] != 0 {
		t.Fatalf("expected renewable 0, got %v", vector[15])
	}
}

func TestTransformDeterministic(t *testing.T) {
	raw := RawFeatures{
		Temperature:    floatPtr(28.5),
		Humidity:       floatPtr(71.2),
		Renewable:      floatPtr(12.4),
		Hour:           floatPtr(17),
		DayOfWeek:      floatPtr(5),
		Month:          floatPtr(11),
		IsWeekend:      floatPtr(1),
		IsBusinessHour: floatPtr(0),
	}

	first := Transform(raw)
	second := Transform(raw)
	if len(first) != FeatureCount || len(second) != FeatureCount {
		t.Fatalf("expected %d features", FeatureCount)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("feature %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestTransformMultipliers(t *testing.T) {
	// hour=12 keeps the hour multiplier at 1.0, so the weekend and
	// off-business multipliers show up directly: 50 * 1.0 * 1.2 * 0.8 = 48.
	vector := Transform(RawFeatures{
		Hour:           floatPtr(12),
		IsWeekend:      floatPtr(1),
		IsBusinessHour: floatPtr(0),
	})
	if math.Abs(vector[0]-48.0) > 1e-9 {
		t.Fatalf("expected lag_1h 48.0, got %v", vector[0])
	}
	if math.Abs(vector[12]-60.0) > 1e-9 {
		t.Fatalf("expected avg_same_day 60.0, got %v", vector[12])
	}
	if vector[13] != 1 || vector[14] != 0 {
		t.Fatalf("expected raw flags in output, got %v %v", vector[13], vector[14])
	}
}

func TestCyclicalEncodings(t *testing.T) {
	for hour := 0.0; hour < 24; hour++ {
		vector := Transform(RawFeatures{Hour: floatPtr(hour)})
		if s := vector[5]*vector[5] + vector[6]*vector[6]; math.Abs(s-1) > 1e-9 {
			t.Fatalf("hour encoding not on unit circle at hour %v: %v", hour, s)
		}
	}
	for day := 0.0; day < 7; day++ {
		vector := Transform(RawFeatures{DayOfWeek: floatPtr(day)})
		if s := vector[7]*vector[7] + vector[8]*vector[8]; math.Abs(s-1) > 1e-9 {
			t.Fatalf("day encoding not on unit circle at day %v: %v", day, s)
		}
	}
	for month := 1.0; month <= 12; month++ {
		vector := Transform(RawFeatures{Month: floatPtr(month)})
		if s := vector[9]*vector[9] + vector[10]*vector[10]; math.Abs(s-1) > 1e-9 {
			t.Fatalf("month encoding not on unit circle at month %v: %v", month, s)
		}
	}
}

func TestFeatureNamesMatchVector(t *testing.T) {
	if len(FeatureNames()) != FeatureCount {
		t.Fatalf("feature names out of sync with vector width")
	}
}
