package ml

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, v any) string {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, payload, 0o644))
	return path
}

func overtimeWeights() []float64 {
	weights := make([]float64, 30)
	weights[18] = 4
	return weights
}

func TestLogisticRegressionPredict(t *testing.T) {
	model := &LogisticRegression{Weights: overtimeWeights(), Intercept: -2}

	features := make([]float64, 30)
	label, confidence, err := model.Predict(features)
	require.NoError(t, err)
	assert.Equal(t, 0, label)
	assert.InDelta(t, 0.8808, confidence, 1e-4)

	features[18] = 1
	label, confidence, err = model.Predict(features)
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.InDelta(t, 0.8808, confidence, 1e-4)

	_, _, err = model.Predict(features[:3])
	assert.Error(t, err)
}

func TestLogisticRegressionThreshold(t *testing.T) {
	model := &LogisticRegression{Weights: make([]float64, 30), Threshold: 0.6}
	label, confidence, err := model.Predict(make([]float64, 30))
	require.NoError(t, err)
	assert.Equal(t, 0, label)
	assert.InDelta(t, 0.5, confidence, 1e-9)
}

func TestLoadModelLogisticRegression(t *testing.T) {
	path := writeJSON(t, LogisticRegression{
		FeatureNames: FeatureNames(),
		Weights:      overtimeWeights(),
		Intercept:    -2,
		Threshold:    0.5,
	})
	model, err := LoadModel(ModelLogisticRegression, path)
	require.NoError(t, err)

	features := make([]float64, 30)
	features[18] = 1
	label, _, err := model.Predict(features)
	require.NoError(t, err)
	assert.Equal(t, 1, label)
}

func TestLoadModelDecisionTree(t *testing.T) {
	model, err := LoadModel(ModelDecisionTree, writeJSON(t, overtimeTree(1)))
	require.NoError(t, err)
	_, ok := model.(*DecisionTree)
	assert.True(t, ok)
}

func TestLoadModelFailures(t *testing.T) {
	names := FeatureNames()
	names[0], names[1] = names[1], names[0]

	tests := []struct {
		name      string
		modelType string
		path      string
	}{
		{"unsupported type", "random_forest", writeJSON(t, overtimeTree(1))},
		{"missing file", ModelDecisionTree, filepath.Join(t.TempDir(), "absent.json")},
		{"bad json", ModelLogisticRegression, writeJSON(t, "not a model")},
		{"weight count", ModelLogisticRegression, writeJSON(t, LogisticRegression{Weights: []float64{1, 2}})},
		{"feature order", ModelLogisticRegression, writeJSON(t, LogisticRegression{FeatureNames: names, Weights: overtimeWeights()})},
		{"empty tree", ModelDecisionTree, writeJSON(t, []TreeNode{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := LoadModel(tt.modelType, tt.path)
			assert.Nil(t, model)
			assert.ErrorIs(t, err, ErrModelUnavailable)
			assert.Equal(t, "model_unavailable", ErrorKind(err))
		})
	}
}

func TestLoadShippedModels(t *testing.T) {
	for modelType, path := range map[string]string{
		ModelLogisticRegression: "../models/attrition_logreg.json",
		ModelDecisionTree:       "../models/attrition_tree.json",
	} {
		model, err := LoadModel(modelType, path)
		require.NoError(t, err, modelType)

		label, confidence, err := model.Predict(make([]float64, 30))
		require.NoError(t, err, modelType)
		assert.Contains(t, []int{0, 1}, label)
		assert.Greater(t, confidence, 0.0)
		assert.LessOrEqual(t, confidence, 1.0)
	}
}
