package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/dataset"
)

func employee(age float64, attrition bool, extra map[string]any) dataset.Record {
	values := map[string]any{"Age": age, "Gender": "Male", "JobRole": "Sales Executive", "OverTime": "No"}
	for k, v := range extra {
		values[k] = v
	}
	return dataset.MustRecord(values, attrition)
}

func agesDataset() *dataset.Dataset {
	var records []dataset.Record
	for age := 20; age <= 29; age++ {
		records = append(records, employee(float64(age), false, nil))
	}
	return dataset.New(records)
}

func TestFilterAgeRangeIsInclusive(t *testing.T) {
	ds := agesDataset()
	records := Filter{AgeMin: 25, AgeMax: 27, Gender: All, JobRole: All}.Apply(ds)

	require.Len(t, records, 3)
	assert.Equal(t, 25.0, records[0].Numeric("Age"))
	assert.Equal(t, 26.0, records[1].Numeric("Age"))
	assert.Equal(t, 27.0, records[2].Numeric("Age"))
	assert.Equal(t, 3, Summarize(records).Total)
}

func TestFilterCategorical(t *testing.T) {
	ds := dataset.New([]dataset.Record{
		employee(30, false, map[string]any{"Gender": "Female", "JobRole": "Manager"}),
		employee(31, true, map[string]any{"Gender": "Female", "JobRole": "Sales Executive"}),
		employee(32, false, map[string]any{"Gender": "Male", "JobRole": "Manager"}),
	})

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{AgeMin: 18, AgeMax: 60, Gender: All, JobRole: All}, 3},
		{"empty means all", Filter{AgeMin: 18, AgeMax: 60}, 3},
		{"gender", Filter{AgeMin: 18, AgeMax: 60, Gender: "Female", JobRole: All}, 2},
		{"gender and role", Filter{AgeMin: 18, AgeMax: 60, Gender: "Female", JobRole: "Manager"}, 1},
		{"unknown role", Filter{AgeMin: 18, AgeMax: 60, Gender: All, JobRole: "Pilot"}, 0},
		{"reversed ages", Filter{AgeMin: 31, AgeMax: 30}.Normalize(), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.filter.Apply(ds), tt.want)
		})
	}
}

func TestDefaultFilterClampsToDataset(t *testing.T) {
	f := DefaultFilter(agesDataset())
	assert.Equal(t, 29.0, f.AgeMin)
	assert.Equal(t, 29.0, f.AgeMax)
	assert.Equal(t, All, f.Gender)

	wide := dataset.New([]dataset.Record{employee(18, false, nil), employee(60, false, nil)})
	f = DefaultFilter(wide)
	assert.Equal(t, 30.0, f.AgeMin)
	assert.Equal(t, 40.0, f.AgeMax)
}

func TestSummarizeAttritionRate(t *testing.T) {
	records := []dataset.Record{
		employee(30, true, map[string]any{"MonthlyIncome": 4000}),
		employee(31, false, map[string]any{"MonthlyIncome": 5000}),
		employee(32, false, map[string]any{"MonthlyIncome": 6000}),
		employee(33, false, map[string]any{"MonthlyIncome": 7000}),
	}
	s := Summarize(records)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Leavers)
	assert.InDelta(t, 25.0, s.AttritionRate, 1e-9)
	assert.InDelta(t, 5500.0, s.AvgMonthlyIncome, 1e-9)
	assert.False(t, s.Empty)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.Empty)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.AttritionRate)
	assert.Zero(t, s.AvgMonthlyIncome)
}

func TestValueCountsAndCrosstab(t *testing.T) {
	records := []dataset.Record{
		employee(30, true, map[string]any{"OverTime": "Yes"}),
		employee(31, false, map[string]any{"OverTime": "Yes"}),
		employee(32, false, nil),
		employee(33, false, nil),
	}
	assert.Equal(t, []Count{{Label: "No", Count: 3}, {Label: "Yes", Count: 1}}, ValueCounts(records))
	assert.Equal(t, []CrosstabRow{
		{Label: "No", No: 2, Yes: 0},
		{Label: "Yes", No: 1, Yes: 1},
	}, Crosstab(records, "OverTime"))
}

func TestBox(t *testing.T) {
	var records []dataset.Record
	for _, v := range []float64{1, 2, 3, 4, 20} {
		records = append(records, employee(30, false, map[string]any{"JobSatisfaction": v}))
	}
	records = append(records, employee(30, true, map[string]any{"JobSatisfaction": 2}))

	boxes := Box(records, "JobSatisfaction")
	require.Len(t, boxes, 2)

	no := boxes[0]
	assert.Equal(t, "No", no.Group)
	assert.Equal(t, 5, no.Count)
	assert.Equal(t, 1.0, no.Min)
	assert.Equal(t, 2.0, no.Q1)
	assert.Equal(t, 3.0, no.Median)
	assert.Equal(t, 4.0, no.Q3)
	assert.Equal(t, 20.0, no.Max)
	assert.Equal(t, 1.0, no.LowerWhisk)
	assert.Equal(t, 4.0, no.UpperWhisk)

	yes := boxes[1]
	assert.Equal(t, "Yes", yes.Group)
	assert.Equal(t, 2.0, yes.Median)
	assert.Equal(t, 2.0, yes.UpperWhisk)
}

func TestQuantileInterpolates(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, quantile(values, 0.25), 1e-9)
	assert.InDelta(t, 2.5, quantile(values, 0.5), 1e-9)
	assert.InDelta(t, 3.25, quantile(values, 0.75), 1e-9)
}

func TestHistogram(t *testing.T) {
	var records []dataset.Record
	for _, v := range []float64{1000, 1500, 2000, 2999, 3000} {
		records = append(records, employee(30, false, map[string]any{"MonthlyIncome": v}))
	}
	bins := Histogram(records, "MonthlyIncome", 4)
	require.Len(t, bins, 4)
	assert.Equal(t, Bin{Lower: 1000, Upper: 1500, Count: 1}, bins[0])
	assert.Equal(t, 1500.0, bins[1].Lower)
	assert.Equal(t, 1, bins[1].Count)
	assert.Equal(t, 1, bins[2].Count)
	assert.Equal(t, 3000.0, bins[3].Upper)
	assert.Equal(t, 2, bins[3].Count)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, len(records), total)
}

func TestHistogramDegenerate(t *testing.T) {
	assert.Nil(t, Histogram(nil, "MonthlyIncome", 20))

	same := []dataset.Record{
		employee(30, false, map[string]any{"MonthlyIncome": 5000}),
		employee(31, false, map[string]any{"MonthlyIncome": 5000}),
	}
	assert.Equal(t, []Bin{{Lower: 5000, Upper: 5000, Count: 2}}, Histogram(same, "MonthlyIncome", 20))
}

func TestHistogramExtremeRange(t *testing.T) {
	records := []dataset.Record{
		employee(30, false, map[string]any{"MonthlyIncome": -math.MaxFloat64}),
		employee(31, false, map[string]any{"MonthlyIncome": 0}),
		employee(32, false, map[string]any{"MonthlyIncome": math.MaxFloat64}),
	}
	bins := Histogram(records, "MonthlyIncome", 20)
	require.Len(t, bins, 20)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[10].Count)
	assert.Equal(t, 1, bins[19].Count)
}

func TestBinIndexClamps(t *testing.T) {
	assert.Equal(t, 0, binIndex(math.NaN(), 20))
	assert.Equal(t, 0, binIndex(-3, 20))
	assert.Equal(t, 19, binIndex(math.Inf(1), 20))
	assert.Equal(t, 19, binIndex(20, 20))
	assert.Equal(t, 7, binIndex(7.9, 20))
}
