package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDataUnavailable is returned when the historical table cannot be loaded.
var ErrDataUnavailable = errors.New("dataset unavailable")

// Record is one employee row. Values are indexed by schema position.
type Record struct {
	numbers   []float64
	labels    []string
	attrition bool
}

// NewRecord builds a record from a field mapping. Numeric values may be any Go
// number type, categorical values must be strings. Absent fields stay zero or
// empty, which keeps hand-built fixtures short.
func NewRecord(values map[string]any, attrition bool) (Record, error) {
	r := Record{
		numbers:   make([]float64, len(Schema)),
		labels:    make([]string, len(Schema)),
		attrition: attrition,
	}
	for name, v := range values {
		i, ok := schemaIndex[name]
		if !ok {
			return Record{}, fmt.Errorf("unknown column %q", name)
		}
		switch Schema[i].Kind {
		case Categorical:
			s, ok := v.(string)
			if !ok {
				return Record{}, fmt.Errorf("column %s: expected string, got %T", name, v)
			}
			r.labels[i] = s
		default:
			f, ok := toFloat(v)
			if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
				return Record{}, fmt.Errorf("column %s: expected number, got %T", name, v)
			}
			r.numbers[i] = f
		}
	}
	return r, nil
}

// MustRecord is NewRecord for fixtures; it panics on error.
func MustRecord(values map[string]any, attrition bool) Record {
	r, err := NewRecord(values, attrition)
	if err != nil {
		panic(err)
	}
	return r
}

// Numeric returns the value of a numeric column, or 0 when the column is unknown.
func (r Record) Numeric(field string) float64 {
	i, ok := schemaIndex[field]
	if !ok || r.numbers == nil {
		return 0
	}
	return r.numbers[i]
}

// Categorical returns the label of a categorical column.
func (r Record) Categorical(field string) string {
	i, ok := schemaIndex[field]
	if !ok || r.labels == nil {
		return ""
	}
	return r.labels[i]
}

// Attrition reports whether the employee left.
func (r Record) Attrition() bool {
	return r.attrition
}

// AttritionLabel returns the label as it appears in the source file.
func (r Record) AttritionLabel() string {
	if r.attrition {
		return "Yes"
	}
	return "No"
}

// Raw returns the row as a field mapping: strings for categorical columns and
// float64 for numeric ones.
func (r Record) Raw() map[string]any {
	raw := make(map[string]any, len(Schema))
	for _, f := range Schema {
		if f.Kind == Categorical {
			raw[f.Name] = r.Categorical(f.Name)
		} else {
			raw[f.Name] = r.Numeric(f.Name)
		}
	}
	return raw
}

// Dataset is the immutable historical table. It is safe for concurrent reads.
type Dataset struct {
	path    string
	records []Record
	labels  map[string][]string
}

// New wraps records in a Dataset. The slice is copied.
func New(records []Record) *Dataset {
	return newDataset("", records)
}

func newDataset(path string, records []Record) *Dataset {
	ds := &Dataset{
		path:    path,
		records: append([]Record(nil), records...),
		labels:  make(map[string][]string),
	}
	for _, name := range CategoricalNames() {
		seen := make(map[string]struct{})
		for _, r := range ds.records {
			seen[r.Categorical(name)] = struct{}{}
		}
		labels := make([]string, 0, len(seen))
		for l := range seen {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		ds.labels[name] = labels
	}
	return ds
}

// Path is the file the dataset was read from, empty for in-memory datasets.
func (d *Dataset) Path() string { return d.path }

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns the rows. Callers must not modify the returned slice.
func (d *Dataset) Records() []Record { return d.records }

// Record returns row i.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Labels returns the sorted distinct labels observed for a categorical column.
func (d *Dataset) Labels(field string) []string {
	labels, ok := d.labels[field]
	if !ok {
		return nil
	}
	return append([]string(nil), labels...)
}

// Range returns the min and max of a numeric column. ok is false for an empty
// dataset or a non-numeric column.
func (d *Dataset) Range(field string) (min, max float64, ok bool) {
	f, known := Lookup(field)
	if !known || f.Kind != Numeric || len(d.records) == 0 {
		return 0, 0, false
	}
	min = d.records[0].Numeric(field)
	max = min
	for _, r := range d.records[1:] {
		v := r.Numeric(field)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
