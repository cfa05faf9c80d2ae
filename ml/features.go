package ml

import (
	"math"
)

// baseConsumption anchors the synthetic lag features. The trained model
// expects these exact proxies; there is no real historical window behind them.
const baseConsumption = 50.0

// FeatureCount is the vector width the regression model was trained on.
const FeatureCount = 16

type RawFeatures struct {
	Temperature    *float64 `json:"temperature,omitempty"`
	Humidity       *float64 `json:"humidity,omitempty"`
	Renewable      *float64 `json:"renewable,omitempty"`
	Hour           *float64 `json:"hour,omitempty"`
	DayOfWeek      *float64 `json:"day_of_week,omitempty"`
	Month          *float64 `json:"month,omitempty"`
	IsWeekend      *float64 `json:"is_weekend,omitempty"`
	IsBusinessHour *float64 `json:"is_business_hour,omitempty"`
	Timestamp      any      `json:"timestamp,omitempty"`
}

type Prediction struct {
	Index     int     `json:"index"`
	Predicted float64 `json:"predicted"`
	Timestamp any     `json:"timestamp"`
}

// Transform maps raw inputs to the fixed feature vector. Absent fields fall
// back to documented defaults; there are no error conditions. The order and
// the formulas must match the model's training pipeline exactly.
func Transform(raw RawFeatures) []float64 {
	temperature := valueOr(raw.Temperature, 22.0)
	humidity := valueOr(raw.Humidity, 60.0)
	renewable := valueOr(raw.Renewable, 0.0)
	hour := valueOr(raw.Hour, 12)
	dayOfWeek := valueOr(raw.DayOfWeek, 1)
	month := valueOr(raw.Month, 6)
	isWeekend := valueOr(raw.IsWeekend, 0)
	isBusinessHour := valueOr(raw.IsBusinessHour, 1)

	hourMultiplier := 1.0 + 0.3*math.Sin(2*math.Pi*(hour-6)/12)
	weekendMultiplier := 1.0
	if isWeekend != 0 {
		weekendMultiplier = 1.2
	}
	businessMultiplier := 0.8
	if isBusinessHour != 0 {
		businessMultiplier = 1.1
	}

	lag1h := baseConsumption * hourMultiplier * weekendMultiplier * businessMultiplier
	lag24h := lag1h * 0.95
	lag168h := lag1h * 0.9

	// Rolling windows are passthroughs of the current reading.
	temperatureRolling24h := temperature
	humidityRolling24h := humidity

	hourSin := math.Sin(2 * math.Pi * hour / 24)
	hourCos := math.Cos(2 * math.Pi * hour / 24)
	daySin := math.Sin(2 * math.Pi * dayOfWeek / 7)
	dayCos := math.Cos(2 * math.Pi * dayOfWeek / 7)
	monthSin := math.Sin(2 * math.Pi * month / 12)
	monthCos := math.Cos(2 * math.Pi * month / 12)

	avgSameHour := baseConsumption * hourMultiplier
	avgSameDay := baseConsumption * weekendMultiplier

	return []float64{
		lag1h, lag24h, lag168h,
		temperatureRolling24h, humidityRolling24h,
		hourSin, hourCos, daySin, dayCos, monthSin, monthCos,
		avgSameHour, avgSameDay,
		isWeekend, isBusinessHour, renewable,
	}
}

func FeatureNames() []string {
	return []string{
		"consumption_lag_1h",
		"consumption_lag_24h",
		"consumption_lag_168h",
		"temperature_rolling_24h",
		"humidity_rolling_24h",
		"hour_sin",
		"hour_cos",
		"day_sin",
		"day_cos",
		"month_sin",
		"month_cos",
		"avg_consumption_same_hour",
		"avg_consumption_same_day",
		"is_weekend",
		"is_business_hour",
		"renewable",
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
