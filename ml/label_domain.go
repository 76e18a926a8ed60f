package ml

import "sort"

// LabelDomain maps the labels of one categorical field onto 0..k-1 in sorted order.
type LabelDomain struct {
	field  string
	labels []string
	codes  map[string]int
}

// NewLabelDomain sorts and de-duplicates labels before assigning codes.
func NewLabelDomain(field string, labels []string) *LabelDomain {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)

	d := &LabelDomain{
		field:  field,
		labels: make([]string, 0, len(sorted)),
		codes:  make(map[string]int, len(sorted)),
	}
	for _, l := range sorted {
		if _, dup := d.codes[l]; dup {
			continue
		}
		d.codes[l] = len(d.labels)
		d.labels = append(d.labels, l)
	}
	return d
}

// Field returns the categorical field the domain belongs to.
func (d *LabelDomain) Field() string { return d.field }

// Encode returns the integer code of label.
func (d *LabelDomain) Encode(label string) (int, bool) {
	code, ok := d.codes[label]
	return code, ok
}

// Decode returns the label for code.
func (d *LabelDomain) Decode(code int) (string, bool) {
	if code < 0 || code >= len(d.labels) {
		return "", false
	}
	return d.labels[code], true
}

// Labels returns the labels in code order.
func (d *LabelDomain) Labels() []string {
	return append([]string(nil), d.labels...)
}

// Len is the number of distinct labels.
func (d *LabelDomain) Len() int { return len(d.labels) }
