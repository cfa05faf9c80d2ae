package ml

import (
	"encoding/json"
	"errors"
	"os"
)

type RandomForest struct {
	Trees []RegressionTree `json:"trees"`
}

type RegressionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

func (rf *RandomForest) Predict(features []float64) (float64, error) {
	if len(rf.Trees) == 0 {
		return 0, errors.New("forest has no trees")
	}
	sum := 0.0
	for _, tree := range rf.Trees {
		value, err := tree.Predict(features)
		if err != nil {
			return 0, err
		}
		sum += value
	}
	return sum / float64(len(rf.Trees)), nil
}

func (t *RegressionTree) Predict(features []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, errors.New("tree has no nodes")
	}
	// A well-formed tree reaches a leaf in at most len(Nodes) hops; anything
	// longer means the artifact carries a link cycle.
	idx := 0
	for steps := 0; steps < len(t.Nodes); steps++ {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
	return 0, errors.New("invalid tree state")
}

func (rf *RandomForest) Save(path string) error {
	if len(rf.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	payload, err := json.Marshal(rf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func (rf *RandomForest) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var forest RandomForest
	if err := json.Unmarshal(payload, &forest); err != nil {
		return err
	}
	rf.Trees = forest.Trees
	return nil
}
