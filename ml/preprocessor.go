package ml

import (
	"errors"
	"fmt"
)

// Scaler is a standard scaler whose parameters are computed once over the
// historical dataset and then applied unchanged to every single-row input.
type Scaler struct {
	names []string
	stats []ColumnStats
}

// NewScaler creates a scaler for the named columns.
func NewScaler(names []string) *Scaler {
	return &Scaler{names: append([]string(nil), names...)}
}

// ComputeStats fits per-column mean and standard deviation on rows.
func (s *Scaler) ComputeStats(rows [][]float64) error {
	if len(rows) == 0 {
		return errors.New("rows is empty")
	}
	stats := make([]ColumnStats, len(s.names))
	column := make([]float64, len(rows))
	for j := range s.names {
		for i, row := range rows {
			if len(row) != len(s.names) {
				return fmt.Errorf("row %d: expected %d columns, got %d", i, len(s.names), len(row))
			}
			column[i] = row[j]
		}
		mean, std := CalculateMeanStd(column)
		stats[j] = ColumnStats{Mean: mean, Std: std}
	}
	s.stats = stats
	return nil
}

// Normalize returns a standardized copy of vector.
func (s *Scaler) Normalize(vector []float64) ([]float64, error) {
	if s.stats == nil {
		return nil, errors.New("feature stats not computed")
	}
	return StandardizeVector(vector, s.stats)
}

// Fitted reports whether ComputeStats has run.
func (s *Scaler) Fitted() bool { return s.stats != nil }

// FeatureStats returns a copy of the fitted parameters keyed by column name.
func (s *Scaler) FeatureStats() map[string]ColumnStats {
	if s.stats == nil {
		return nil
	}
	copy := make(map[string]ColumnStats, len(s.stats))
	for i, name := range s.names {
		copy[name] = s.stats[i]
	}
	return copy
}
