package prediction

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hrdash/ml"
)

const (
	// LabelLeaving is the class the model emits for employees likely to quit.
	LabelLeaving = 1
	// LabelStaying is the class for employees likely to stay.
	LabelStaying = 0

	MessageHighRisk = "High attrition risk."
	MessageStable   = "Stable employee."
)

// Outcome is one prediction as shown to the user and recorded by sinks.
type Outcome struct {
	ID         uuid.UUID      `json:"id"`
	Label      int            `json:"label"`
	Confidence float64        `json:"confidence"`
	HighRisk   bool           `json:"high_risk"`
	Message    string         `json:"message"`
	Input      map[string]any `json:"input"`
	Features   []float64      `json:"features,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Message returns the user-visible text for a class label.
func Message(label int) string {
	if label == LabelLeaving {
		return MessageHighRisk
	}
	return MessageStable
}

// ErrorMessage renders err for the end user. Encoding errors name the
// offending field; anything else gets a generic text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var fieldErr *ml.FieldError
	if errors.As(err, &fieldErr) {
		switch fieldErr.Kind() {
		case "unknown_category":
			return fmt.Sprintf("%s: %v is not a known value.", fieldErr.Field, fieldErr.Value)
		case "missing_field":
			return fmt.Sprintf("%s is required.", fieldErr.Field)
		case "type_mismatch":
			return fmt.Sprintf("%s has an invalid value.", fieldErr.Field)
		}
	}
	switch {
	case errors.Is(err, ml.ErrModelUnavailable):
		return "The prediction model is unavailable."
	case errors.Is(err, ml.ErrInvalidLabel):
		return "The prediction model returned an invalid result."
	default:
		return "Prediction failed."
	}
}
