package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const defaultCacheSize = 1024

// Predictor wraps the loaded model behind a handle that is constructed at
// startup and injected into both entry points. The model reference is set
// once before serving and read-only afterwards, so inference needs no lock.
type Predictor struct {
	model Model
	cache *lru.Cache[string, float64]
	log   *zap.Logger
}

func NewPredictor(log *zap.Logger, cacheSize int) *Predictor {
	if log == nil {
		log = zap.NewNop()
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, float64](cacheSize)
	if err != nil {
		cache = nil
	}
	return &Predictor{cache: cache, log: log}
}

// LoadFromFile loads the model artifact. Failure is logged and leaves the
// model unset; the process keeps running with prediction unavailable.
func (p *Predictor) LoadFromFile(path string) error {
	model, err := LoadModelFile(path)
	if err != nil {
		p.log.Error("failed to load model", zap.String("path", path), zap.Error(err))
		return err
	}
	p.model = model
	p.log.Info("model loaded", zap.String("path", path))
	return nil
}

func (p *Predictor) SetModel(model Model) {
	p.model = model
}

func (p *Predictor) Ready() bool {
	return p.model != nil
}

// DecodeBatchRequest parses a predict request body. ErrMissingFeatures covers
// both an unparsable body and a body without the "features" key.
func DecodeBatchRequest(body []byte) ([]RawFeatures, error) {
	var req struct {
		Features *[]RawFeatures `json:"features"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingFeatures, err)
	}
	if req.Features == nil {
		return nil, ErrMissingFeatures
	}
	return *req.Features, nil
}

// PredictBatch is the shared transform-and-predict routine behind both the
// HTTP handler and the serverless handler. The batch fails atomically: any
// inference error discards all results. Input order is preserved and each
// item's timestamp is echoed unchanged.
func (p *Predictor) PredictBatch(batch []RawFeatures) ([]Prediction, error) {
	if p.model == nil {
		return nil, ErrModelNotLoaded
	}

	predictions := make([]Prediction, 0, len(batch))
	for i, raw := range batch {
		vector := Transform(raw)
		value, err := p.predictVector(vector)
		if err != nil {
			return nil, fmt.Errorf("inference failed for item %d: %w", i, err)
		}
		predictions = append(predictions, Prediction{
			Index:     i,
			Predicted: value,
			Timestamp: raw.Timestamp,
		})
	}
	return predictions, nil
}

// predictVector consults the inference cache first. Caching is safe because
// the transform is deterministic and the model never changes after load.
func (p *Predictor) predictVector(vector []float64) (float64, error) {
	key := ""
	if p.cache != nil {
		key = vectorKey(vector)
		if value, ok := p.cache.Get(key); ok {
			return value, nil
		}
	}

	value, err := p.model.Predict(vector)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("model produced non-finite prediction")
	}

	if p.cache != nil {
		p.cache.Add(key, value)
	}
	return value, nil
}

func vectorKey(vector []float64) string {
	var b strings.Builder
	for _, v := range vector {
		b.WriteString(strconv.FormatFloat(v, 'x', -1, 64))
		b.WriteByte('|')
	}
	return b.String()
}
