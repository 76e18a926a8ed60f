package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DecisionTree is a binary tree stored as a flat node array; node 0 is the root.
type DecisionTree struct {
	nodes []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
	Confidence float64 `json:"confidence,omitempty"`
}

// NewDecisionTree wraps nodes after validating them.
func NewDecisionTree(nodes []TreeNode) (*DecisionTree, error) {
	dt := &DecisionTree{nodes: append([]TreeNode(nil), nodes...)}
	if err := dt.validate(); err != nil {
		return nil, err
	}
	return dt, nil
}

func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	if len(dt.nodes) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	if len(features) != len(FeatureNames()) {
		return 0, 0, fmt.Errorf("expected %d features, got %d", len(FeatureNames()), len(features))
	}
	idx := 0
	// a valid tree reaches a leaf in at most len(nodes) steps
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			if node.ClassLabel != 0 && node.ClassLabel != 1 {
				return 0, 0, fmt.Errorf("%w: %d", ErrInvalidLabel, node.ClassLabel)
			}
			return node.ClassLabel, nodeConfidence(node), nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return 0, 0, errors.New("invalid tree state")
}

func (dt *DecisionTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var nodes []TreeNode
	if err := json.Unmarshal(payload, &nodes); err != nil {
		return err
	}
	dt.nodes = nodes
	return dt.validate()
}

// Nodes returns a copy of the node array.
func (dt *DecisionTree) Nodes() []TreeNode {
	return append([]TreeNode(nil), dt.nodes...)
}

func (dt *DecisionTree) validate() error {
	if len(dt.nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	featureCount := len(FeatureNames())
	for i, node := range dt.nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= featureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		if node.LeftChild <= i || node.LeftChild >= len(dt.nodes) ||
			node.RightChild <= i || node.RightChild >= len(dt.nodes) {
			return fmt.Errorf("node %d: invalid children %d/%d", i, node.LeftChild, node.RightChild)
		}
	}
	return nil
}

func nodeConfidence(node TreeNode) float64 {
	if node.Confidence <= 0 || node.Confidence > 1 {
		return 1
	}
	return node.Confidence
}
