package ml

import (
	"strconv"
	"strings"

	"hrdash/dataset"
)

// RawFromStrings converts textual input (HTML forms, CLI flags) into a raw
// mapping. Numeric fields are parsed as floats, categorical values are kept as
// strings, empty values are dropped so Encode reports them as missing, and
// unknown keys are ignored.
func RawFromStrings(values map[string]string) (map[string]any, error) {
	raw := make(map[string]any, len(values))
	for name, value := range values {
		f, ok := dataset.Lookup(name)
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if f.Kind == dataset.Categorical {
			raw[name] = value
			continue
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, &FieldError{Field: name, Value: value, Err: ErrTypeMismatch}
		}
		raw[name] = n
	}
	return raw, nil
}
