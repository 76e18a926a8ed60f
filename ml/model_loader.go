package ml

import (
	"fmt"
)

// Supported artifact formats.
const (
	ModelDecisionTree       = "decision_tree"
	ModelLogisticRegression = "logistic_regression"
)

// LoadModel reads a model artifact from path. Every failure wraps ErrModelUnavailable.
func LoadModel(modelType, path string) (MLModel, error) {
	switch modelType {
	case ModelDecisionTree:
		model := &DecisionTree{}
		if err := model.Load(path); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		return model, nil
	case ModelLogisticRegression:
		model := &LogisticRegression{}
		if err := model.Load(path); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("%w: unsupported model type %q", ErrModelUnavailable, modelType)
	}
}
