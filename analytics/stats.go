package analytics

import (
	"math"
	"sort"

	"hrdash/dataset"
)

// Summary holds the three headline metrics of a filtered subset.
type Summary struct {
	Total            int     `json:"total"`
	Leavers          int     `json:"leavers"`
	AttritionRate    float64 `json:"attrition_rate"`
	AvgMonthlyIncome float64 `json:"avg_monthly_income"`
	Empty            bool    `json:"empty"`
}

// Summarize computes the headcount, the attrition rate in percent and the mean
// monthly income. An empty subset yields zeros.
func Summarize(records []dataset.Record) Summary {
	if len(records) == 0 {
		return Summary{Empty: true}
	}
	s := Summary{Total: len(records)}
	income := 0.0
	for _, r := range records {
		if r.Attrition() {
			s.Leavers++
		}
		income += r.Numeric("MonthlyIncome")
	}
	s.AttritionRate = float64(s.Leavers) / float64(s.Total) * 100
	s.AvgMonthlyIncome = income / float64(s.Total)
	return s
}

type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ValueCounts counts Attrition labels, most frequent first.
func ValueCounts(records []dataset.Record) []Count {
	counts := map[string]int{}
	for _, r := range records {
		counts[r.AttritionLabel()]++
	}
	out := make([]Count, 0, len(counts))
	for label, n := range counts {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// CrosstabRow counts one label of a categorical field split by Attrition.
type CrosstabRow struct {
	Label string `json:"label"`
	No    int    `json:"no"`
	Yes   int    `json:"yes"`
}

// Crosstab counts each label of field against Attrition, rows sorted by label.
func Crosstab(records []dataset.Record, field string) []CrosstabRow {
	rows := map[string]*CrosstabRow{}
	for _, r := range records {
		label := r.Categorical(field)
		row, ok := rows[label]
		if !ok {
			row = &CrosstabRow{Label: label}
			rows[label] = row
		}
		if r.Attrition() {
			row.Yes++
		} else {
			row.No++
		}
	}
	out := make([]CrosstabRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// BoxStats is the five-number summary of one group plus Tukey whiskers.
type BoxStats struct {
	Group      string  `json:"group"`
	Count      int     `json:"count"`
	Min        float64 `json:"min"`
	Q1         float64 `json:"q1"`
	Median     float64 `json:"median"`
	Q3         float64 `json:"q3"`
	Max        float64 `json:"max"`
	LowerWhisk float64 `json:"lower_whisker"`
	UpperWhisk float64 `json:"upper_whisker"`
}

// Box summarizes a numeric field per Attrition group (No, then Yes). Groups
// without records are omitted.
func Box(records []dataset.Record, field string) []BoxStats {
	groups := map[string][]float64{}
	for _, r := range records {
		label := r.AttritionLabel()
		groups[label] = append(groups[label], r.Numeric(field))
	}
	var out []BoxStats
	for _, group := range []string{"No", "Yes"} {
		values := groups[group]
		if len(values) == 0 {
			continue
		}
		sort.Float64s(values)
		b := BoxStats{
			Group:  group,
			Count:  len(values),
			Min:    values[0],
			Q1:     quantile(values, 0.25),
			Median: quantile(values, 0.5),
			Q3:     quantile(values, 0.75),
			Max:    values[len(values)-1],
		}
		iqr := b.Q3 - b.Q1
		lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
		b.LowerWhisk, b.UpperWhisk = b.Max, b.Min
		for _, v := range values {
			if v >= lo && v < b.LowerWhisk {
				b.LowerWhisk = v
			}
			if v <= hi && v > b.UpperWhisk {
				b.UpperWhisk = v
			}
		}
		out = append(out, b)
	}
	return out
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram splits [min, max] of a numeric field into equal-width bins. Every
// bin is half-open except the last, which also holds max. When all values are
// equal a single bin holds them.
func Histogram(records []dataset.Record, field string, bins int) []Bin {
	if len(records) == 0 || bins <= 0 {
		return nil
	}
	// non-finite values have no bin and are left out
	values := make([]float64, 0, len(records))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range records {
		v := r.Numeric(field)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		return nil
	}
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(values)}}
	}

	// hi/n - lo/n stays finite where (hi-lo)/n would overflow
	width := hi/float64(bins) - lo/float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, v := range values {
		out[binIndex(v/width-lo/width, bins)].Count++
	}
	return out
}

func binIndex(pos float64, bins int) int {
	switch {
	case !(pos > 0):
		return 0
	case pos >= float64(bins):
		return bins - 1
	default:
		return int(pos)
	}
}
