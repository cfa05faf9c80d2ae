package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// LoadModelFile reads a serialized forest from disk. The artifact is either
// the forest object itself or a container mapping with a "model" key, so both
// export formats of the training pipeline load the same way.
func LoadModelFile(path string) (Model, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var container struct {
		Model json.RawMessage `json:"model"`
	}
	if err := json.Unmarshal(payload, &container); err == nil && len(container.Model) > 0 {
		payload = container.Model
	}

	var forest RandomForest
	if err := json.Unmarshal(payload, &forest); err != nil {
		return nil, fmt.Errorf("decode model file: %w", err)
	}
	if len(forest.Trees) == 0 {
		return nil, errors.New("model file contains no trees")
	}
	return &forest, nil
}
