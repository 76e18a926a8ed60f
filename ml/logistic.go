package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// LogisticRegression is a linear classifier exported as a weight vector over
// FeatureNames. A sample is class 1 when its probability reaches Threshold.
type LogisticRegression struct {
	FeatureNames []string  `json:"feature_names"`
	Weights      []float64 `json:"weights"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold"`
}

func (lr *LogisticRegression) Predict(features []float64) (int, float64, error) {
	if len(lr.Weights) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	if len(features) != len(lr.Weights) {
		return 0, 0, fmt.Errorf("expected %d features, got %d", len(lr.Weights), len(features))
	}
	z := lr.Intercept
	for i, w := range lr.Weights {
		z += w * features[i]
	}
	p := 1 / (1 + math.Exp(-z))
	if p >= lr.threshold() {
		return 1, p, nil
	}
	return 0, 1 - p, nil
}

func (lr *LogisticRegression) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded LogisticRegression
	if err := json.Unmarshal(payload, &loaded); err != nil {
		return err
	}
	if err := loaded.validate(); err != nil {
		return err
	}
	*lr = loaded
	return nil
}

func (lr *LogisticRegression) threshold() float64 {
	if lr.Threshold <= 0 || lr.Threshold >= 1 {
		return 0.5
	}
	return lr.Threshold
}

func (lr *LogisticRegression) validate() error {
	names := FeatureNames()
	if len(lr.Weights) != len(names) {
		return fmt.Errorf("expected %d weights, got %d", len(names), len(lr.Weights))
	}
	if len(lr.FeatureNames) > 0 {
		if len(lr.FeatureNames) != len(names) {
			return fmt.Errorf("expected %d feature names, got %d", len(names), len(lr.FeatureNames))
		}
		for i, name := range names {
			if lr.FeatureNames[i] != name {
				return fmt.Errorf("feature %d: expected %s, got %s", i, name, lr.FeatureNames[i])
			}
		}
	}
	for i, w := range lr.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weight %d is not finite", i)
		}
	}
	return nil
}
