package analytics

import (
	"fmt"
	"math"
	"strings"

	"hrdash/dataset"
)

// All disables a categorical filter.
const All = "All"

// Filter selects the employees shown on the dashboard. Ages are inclusive.
type Filter struct {
	AgeMin  float64 `json:"age_min"`
	AgeMax  float64 `json:"age_max"`
	Gender  string  `json:"gender"`
	JobRole string  `json:"job_role"`
}

// DefaultFilter covers ages 30 to 40, clamped to the ages present in ds.
func DefaultFilter(ds *dataset.Dataset) Filter {
	f := Filter{AgeMin: 30, AgeMax: 40, Gender: All, JobRole: All}
	if lo, hi, ok := ds.Range("Age"); ok {
		f.AgeMin = math.Min(math.Max(f.AgeMin, lo), hi)
		f.AgeMax = math.Max(math.Min(f.AgeMax, hi), lo)
	}
	return f
}

// Normalize trims the categorical filters, maps empty values to All and orders
// the age bounds.
func (f Filter) Normalize() Filter {
	f.Gender = normalizeChoice(f.Gender)
	f.JobRole = normalizeChoice(f.JobRole)
	if f.AgeMin > f.AgeMax {
		f.AgeMin, f.AgeMax = f.AgeMax, f.AgeMin
	}
	return f
}

func normalizeChoice(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return All
	}
	return s
}

// Match reports whether r passes the filter.
func (f Filter) Match(r dataset.Record) bool {
	age := r.Numeric("Age")
	if age < f.AgeMin || age > f.AgeMax {
		return false
	}
	if f.Gender != All && f.Gender != "" && r.Categorical("Gender") != f.Gender {
		return false
	}
	if f.JobRole != All && f.JobRole != "" && r.Categorical("JobRole") != f.JobRole {
		return false
	}
	return true
}

// Apply returns the records of ds matching f, in dataset order.
func (f Filter) Apply(ds *dataset.Dataset) []dataset.Record {
	var out []dataset.Record
	for _, r := range ds.Records() {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f Filter) key() string {
	return fmt.Sprintf("%g|%g|%s|%s", f.AgeMin, f.AgeMax, f.Gender, f.JobRole)
}
