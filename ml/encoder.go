package ml

import (
	"encoding/json"
	"fmt"
	"math"

	"hrdash/dataset"
)

// Scaling selects how numeric features are standardized before prediction.
type Scaling string

const (
	// ScalingDataset standardizes with mean/std frozen over the historical dataset.
	ScalingDataset Scaling = "dataset"
	// ScalingNone passes encoded values through unchanged.
	ScalingNone Scaling = "none"
)

// ParseScaling validates a scaling mode name. The empty string selects ScalingDataset.
func ParseScaling(s string) (Scaling, error) {
	switch Scaling(s) {
	case "", ScalingDataset:
		return ScalingDataset, nil
	case ScalingNone:
		return ScalingNone, nil
	default:
		return "", fmt.Errorf("unknown scaling mode %q", s)
	}
}

type encoderOptions struct {
	scaling Scaling
}

// EncoderOption configures NewEncoder.
type EncoderOption func(*encoderOptions)

// WithScaling overrides the default ScalingDataset mode.
func WithScaling(s Scaling) EncoderOption {
	return func(o *encoderOptions) { o.scaling = s }
}

// Encoder turns a raw field mapping into the model's feature vector. Label
// domains and scaling parameters are derived once from the reference dataset
// and never change afterwards, so an Encoder is safe for concurrent use.
type Encoder struct {
	domains map[string]*LabelDomain
	scaler  *Scaler
	scaling Scaling
}

// NewEncoder derives the categorical label domains from ds and, unless scaling
// is disabled, fits the standard scaler over every encoded row of ds.
func NewEncoder(ds *dataset.Dataset, opts ...EncoderOption) (*Encoder, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, fmt.Errorf("%w: empty reference dataset", dataset.ErrDataUnavailable)
	}
	o := encoderOptions{scaling: ScalingDataset}
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := ParseScaling(string(o.scaling)); err != nil {
		return nil, err
	}

	enc := &Encoder{
		domains: make(map[string]*LabelDomain),
		scaling: o.scaling,
	}
	for _, field := range CategoricalFields() {
		enc.domains[field] = NewLabelDomain(field, ds.Labels(field))
	}

	if o.scaling == ScalingDataset {
		rows := make([][]float64, 0, ds.Len())
		for i, rec := range ds.Records() {
			row, err := enc.encodeRow(rec.Raw())
			if err != nil {
				return nil, fmt.Errorf("encode reference row %d: %w", i, err)
			}
			rows = append(rows, row)
		}
		scaler := NewScaler(FeatureNames())
		if err := scaler.ComputeStats(rows); err != nil {
			return nil, err
		}
		enc.scaler = scaler
	}
	return enc, nil
}

// Encode validates raw, label-encodes the categorical fields, lays the values
// out in FeatureNames order and applies the frozen scaling. Keys that are not
// feature names are ignored. On error no vector is returned; the error is a
// *FieldError wrapping ErrMissingField, ErrTypeMismatch or ErrUnknownCategory.
func (e *Encoder) Encode(raw map[string]any) ([]float64, error) {
	vector, err := e.encodeRow(raw)
	if err != nil {
		return nil, err
	}
	if e.scaler == nil {
		return vector, nil
	}
	return e.scaler.Normalize(vector)
}

// Encode builds a one-off encoder over ds and encodes raw with it. Since label
// domains are sorted, the result equals what a long-lived Encoder over the same
// dataset would produce.
func Encode(raw map[string]any, ds *dataset.Dataset, opts ...EncoderOption) ([]float64, error) {
	enc, err := NewEncoder(ds, opts...)
	if err != nil {
		return nil, err
	}
	return enc.Encode(raw)
}

func (e *Encoder) encodeRow(raw map[string]any) ([]float64, error) {
	vector := make([]float64, len(dataset.Schema))
	for i, f := range dataset.Schema {
		v, ok := raw[f.Name]
		if !ok || v == nil {
			return nil, &FieldError{Field: f.Name, Err: ErrMissingField}
		}

		if f.Kind == dataset.Categorical {
			label, ok := v.(string)
			if !ok {
				return nil, &FieldError{Field: f.Name, Value: v, Err: ErrTypeMismatch}
			}
			code, ok := e.domains[f.Name].Encode(label)
			if !ok {
				return nil, &FieldError{Field: f.Name, Value: label, Err: ErrUnknownCategory}
			}
			vector[i] = float64(code)
			continue
		}

		n, ok := toNumber(v)
		if !ok {
			return nil, &FieldError{Field: f.Name, Value: v, Err: ErrTypeMismatch}
		}
		vector[i] = n
	}
	return vector, nil
}

// Domain returns the label domain of a categorical field, nil for other fields.
func (e *Encoder) Domain(field string) *LabelDomain {
	return e.domains[field]
}

// Domains returns every categorical field's labels in code order.
func (e *Encoder) Domains() map[string][]string {
	out := make(map[string][]string, len(e.domains))
	for field, d := range e.domains {
		out[field] = d.Labels()
	}
	return out
}

// Stats returns the frozen scaling parameters, nil when scaling is disabled.
func (e *Encoder) Stats() map[string]ColumnStats {
	if e.scaler == nil {
		return nil
	}
	return e.scaler.FeatureStats()
}

// Scaling reports the active scaling mode.
func (e *Encoder) Scaling() Scaling { return e.scaling }

func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
