package analytics

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"hrdash/dataset"
)

const (
	// IncomeBins is the bin count of the monthly income histogram.
	IncomeBins = 20
	// DefaultCacheSize bounds the number of cached reports.
	DefaultCacheSize = 128
)

// Report is everything the dashboard shows for one filter.
type Report struct {
	Filter       Filter        `json:"filter"`
	Summary      Summary       `json:"summary"`
	Attrition    []Count       `json:"attrition"`
	OverTime     []CrosstabRow `json:"overtime"`
	Satisfaction []BoxStats    `json:"job_satisfaction"`
	Income       []Bin         `json:"monthly_income"`
}

// Build computes the report for f without caching.
func Build(ds *dataset.Dataset, f Filter) *Report {
	f = f.Normalize()
	records := f.Apply(ds)
	return &Report{
		Filter:       f,
		Summary:      Summarize(records),
		Attrition:    ValueCounts(records),
		OverTime:     Crosstab(records, "OverTime"),
		Satisfaction: Box(records, "JobSatisfaction"),
		Income:       Histogram(records, "MonthlyIncome", IncomeBins),
	}
}

// Reporter builds reports over one immutable dataset and memoizes them per
// filter. It is safe for concurrent use.
type Reporter struct {
	ds    *dataset.Dataset
	cache *lru.Cache[string, *Report]
}

func NewReporter(ds *dataset.Dataset, cacheSize int) (*Reporter, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *Report](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create report cache: %w", err)
	}
	return &Reporter{ds: ds, cache: cache}, nil
}

// Report returns the cached report for f, building it on a miss. Callers must
// not modify the result.
func (r *Reporter) Report(f Filter) *Report {
	f = f.Normalize()
	key := f.key()
	if report, ok := r.cache.Get(key); ok {
		return report
	}
	report := Build(r.ds, f)
	r.cache.Add(key, report)
	return report
}

// Cached is the number of reports currently held.
func (r *Reporter) Cached() int { return r.cache.Len() }

// Dataset returns the dataset reports are built from.
func (r *Reporter) Dataset() *dataset.Dataset { return r.ds }

// FilterOptions lists the choices of the dashboard filter form.
type FilterOptions struct {
	AgeMin   float64  `json:"age_min"`
	AgeMax   float64  `json:"age_max"`
	Genders  []string `json:"genders"`
	JobRoles []string `json:"job_roles"`
	Default  Filter   `json:"default"`
}

// Options returns the filter choices for ds. Gender and job role lists start
// with All.
func Options(ds *dataset.Dataset) FilterOptions {
	opts := FilterOptions{
		Genders:  append([]string{All}, ds.Labels("Gender")...),
		JobRoles: append([]string{All}, ds.Labels("JobRole")...),
		Default:  DefaultFilter(ds),
	}
	if lo, hi, ok := ds.Range("Age"); ok {
		opts.AgeMin, opts.AgeMax = lo, hi
	}
	return opts
}
