package ml

import "errors"

var (
	ErrModelNotLoaded  = errors.New("model not loaded")
	ErrMissingFeatures = errors.New("request body missing features")
)

type Model interface {
	Predict(features []float64) (float64, error)
}
