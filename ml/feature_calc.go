package ml

import (
	"errors"
	"math"
)

// ColumnStats holds the standardization parameters of one column.
type ColumnStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// CalculateMeanStd returns the mean and population standard deviation of values.
func CalculateMeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}

// StandardizeFeature centers value and divides by std. A constant column is
// only centered.
func StandardizeFeature(value float64, stats ColumnStats) float64 {
	if stats.Std == 0 {
		return value - stats.Mean
	}
	return (value - stats.Mean) / stats.Std
}

func StandardizeVector(values []float64, stats []ColumnStats) ([]float64, error) {
	if len(values) != len(stats) {
		return nil, errors.New("values/stats length mismatch")
	}
	result := make([]float64, len(values))
	for i := range values {
		result[i] = StandardizeFeature(values[i], stats[i])
	}
	return result, nil
}
