// Command genmodel writes a small handcrafted forest artifact for local
// runs and demos. It does not train anything.
package main

import (
	"flag"
	"log"

	"smartenergy/ml"
)

func main() {
	out := flag.String("o", "random_forest_model.json", "output path for the model artifact")
	flag.Parse()

	// Hand-built stumps over the synthetic lag and flag features. The split
	// points bracket the default lag_1h of 55, so demo predictions move with
	// hour, weekend, and business-hour inputs.
	forest := &ml.RandomForest{Trees: []ml.RegressionTree{
		{Nodes: []ml.TreeNode{
			{FeatureIdx: 0, Threshold: 50, LeftChild: 1, RightChild: 2},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: 44, IsLeaf: true},
			{FeatureIdx: 0, Threshold: 60, LeftChild: 3, RightChild: 4},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: 56, IsLeaf: true},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: 68, IsLeaf: true},
		}},
		{Nodes: []ml.TreeNode{
			{FeatureIdx: 13, Threshold: 0.5, LeftChild: 1, RightChild: 2},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: 52, IsLeaf: true},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: 61, IsLeaf: true},
		}},
		{Nodes: []ml.TreeNode{
			{FeatureIdx: 14, Threshold: 0.5, LeftChild: 1, RightChild: 2},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: 46, IsLeaf: true},
			{FeatureIdx: -1, LeftChild: -1, RightChild: -1, Value: 58, IsLeaf: true},
		}},
	}}

	if err := forest.Save(*out); err != nil {
		log.Fatalf("failed to write model artifact: %v", err)
	}
	log.Printf("wrote %d-tree model artifact to %s", len(forest.Trees), *out)
}
