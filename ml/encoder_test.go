package ml

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/dataset"
)

func loadSample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load("../data/employees_sample.csv")
	require.NoError(t, err)
	return ds
}

func featureIndex(t *testing.T, name string) int {
	t.Helper()
	for i, n := range FeatureNames() {
		if n == name {
			return i
		}
	}
	t.Fatalf("unknown feature %s", name)
	return -1
}

func sampleInput(enc *Encoder, overrides map[string]any) map[string]any {
	raw := DefaultInput(enc)
	for k, v := range overrides {
		raw[k] = v
	}
	return raw
}

func TestFeatureNamesOrder(t *testing.T) {
	names := FeatureNames()
	require.Len(t, names, 30)
	assert.Equal(t, "Age", names[0])
	assert.Equal(t, "BusinessTravel", names[1])
	assert.Equal(t, "OverTime", names[18])
	assert.Equal(t, "YearsWithCurrManager", names[29])
	assert.NotContains(t, names, "Attrition")
	assert.NotContains(t, names, "EmployeeNumber")
}

func TestEncodeFemaleIsStableAcrossPasses(t *testing.T) {
	ds := dataset.New([]dataset.Record{
		dataset.MustRecord(map[string]any{"Gender": "Male", "Age": 40}, false),
		dataset.MustRecord(map[string]any{"Gender": "Female", "Age": 31}, true),
		dataset.MustRecord(map[string]any{"Gender": "Male", "Age": 28}, false),
	})
	idx := featureIndex(t, "Gender")

	var codes []float64
	for pass := 0; pass < 3; pass++ {
		enc, err := NewEncoder(ds, WithScaling(ScalingNone))
		require.NoError(t, err)
		raw := sampleInput(enc, map[string]any{"Gender": "Female"})
		vector, err := enc.Encode(raw)
		require.NoError(t, err)
		codes = append(codes, vector[idx])
	}
	assert.Equal(t, []float64{0, 0, 0}, codes)
}

func TestEncodeLaysOutFeatureOrder(t *testing.T) {
	ds := loadSample(t)
	enc, err := NewEncoder(ds, WithScaling(ScalingNone))
	require.NoError(t, err)

	raw := sampleInput(enc, map[string]any{
		"Age":           30,
		"OverTime":      "Yes",
		"MonthlyIncome": 5000.0,
		"JobRole":       "Sales Executive",
	})
	vector, err := enc.Encode(raw)
	require.NoError(t, err)
	require.Len(t, vector, 30)

	assert.Equal(t, 30.0, vector[featureIndex(t, "Age")])
	assert.Equal(t, 5000.0, vector[featureIndex(t, "MonthlyIncome")])
	assert.Equal(t, 1.0, vector[featureIndex(t, "OverTime")])
	// Healthcare Representative, Laboratory Technician, Manager, Manufacturing Director,
	// Research Director, Research Scientist, Sales Executive
	assert.Equal(t, 6.0, vector[featureIndex(t, "JobRole")])
	assert.Equal(t, 800.0, vector[featureIndex(t, "DailyRate")])
}

func TestEncodeIsDeterministic(t *testing.T) {
	ds := loadSample(t)
	first, err := NewEncoder(ds)
	require.NoError(t, err)
	second, err := NewEncoder(ds)
	require.NoError(t, err)

	raw := sampleInput(first, map[string]any{"OverTime": "Yes"})
	a, err := first.Encode(raw)
	require.NoError(t, err)
	b, err := second.Encode(raw)
	require.NoError(t, err)
	c, err := Encode(raw, ds)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestEncodeUsesFrozenDatasetStats(t *testing.T) {
	ds := loadSample(t)
	enc, err := NewEncoder(ds)
	require.NoError(t, err)
	assert.Equal(t, ScalingDataset, enc.Scaling())

	ages := make([]float64, 0, ds.Len())
	for _, rec := range ds.Records() {
		ages = append(ages, rec.Numeric("Age"))
	}
	mean, std := CalculateMeanStd(ages)
	require.NotZero(t, std)

	stats := enc.Stats()
	assert.InDelta(t, mean, stats["Age"].Mean, 1e-9)
	assert.InDelta(t, std, stats["Age"].Std, 1e-9)

	raw := sampleInput(enc, map[string]any{"Age": 45})
	for i := 0; i < 2; i++ {
		vector, err := enc.Encode(raw)
		require.NoError(t, err)
		assert.InDelta(t, (45-mean)/std, vector[featureIndex(t, "Age")], 1e-9)
	}
	assert.Equal(t, stats, enc.Stats())
}

func TestEncodeScaledDatasetRowsAreCentered(t *testing.T) {
	ds := loadSample(t)
	enc, err := NewEncoder(ds)
	require.NoError(t, err)

	sums := make([]float64, 30)
	for _, rec := range ds.Records() {
		vector, err := enc.Encode(rec.Raw())
		require.NoError(t, err)
		for i, v := range vector {
			sums[i] += v
		}
	}
	for i, sum := range sums {
		assert.InDelta(t, 0, sum/float64(ds.Len()), 1e-9, FeatureNames()[i])
	}
}

func TestEncodeErrors(t *testing.T) {
	ds := loadSample(t)
	enc, err := NewEncoder(ds)
	require.NoError(t, err)

	missing := DefaultInput(enc)
	delete(missing, "JobLevel")
	nilValue := DefaultInput(enc)
	nilValue["Department"] = nil

	tests := []struct {
		name  string
		raw   map[string]any
		field string
		want  error
	}{
		{"unknown category", sampleInput(enc, map[string]any{"Gender": "Unknown"}), "Gender", ErrUnknownCategory},
		{"unseen job role", sampleInput(enc, map[string]any{"JobRole": "Human Resources"}), "JobRole", ErrUnknownCategory},
		{"category is case sensitive", sampleInput(enc, map[string]any{"OverTime": "yes"}), "OverTime", ErrUnknownCategory},
		{"missing field", missing, "JobLevel", ErrMissingField},
		{"nil value", nilValue, "Department", ErrMissingField},
		{"string for number", sampleInput(enc, map[string]any{"Age": "thirty"}), "Age", ErrTypeMismatch},
		{"number for category", sampleInput(enc, map[string]any{"Gender": 1}), "Gender", ErrTypeMismatch},
		{"not a number", sampleInput(enc, map[string]any{"MonthlyIncome": math.NaN()}), "MonthlyIncome", ErrTypeMismatch},
		{"infinite", sampleInput(enc, map[string]any{"DailyRate": math.Inf(1)}), "DailyRate", ErrTypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vector, err := enc.Encode(tt.raw)
			assert.Nil(t, vector)
			require.ErrorIs(t, err, tt.want)

			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestEncodeFirstInvalidFieldInFeatureOrder(t *testing.T) {
	ds := loadSample(t)
	enc, err := NewEncoder(ds)
	require.NoError(t, err)

	raw := sampleInput(enc, map[string]any{"Gender": "Unknown", "Age": "x"})
	_, err = enc.Encode(raw)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Age", fieldErr.Field)
	assert.Equal(t, "type_mismatch", fieldErr.Kind())
}

func TestEncodeIgnoresExtraKeys(t *testing.T) {
	ds := loadSample(t)
	enc, err := NewEncoder(ds)
	require.NoError(t, err)

	raw := DefaultInput(enc)
	want, err := enc.Encode(raw)
	require.NoError(t, err)

	raw["EmployeeNumber"] = 12
	raw["Attrition"] = "Yes"
	got, err := enc.Encode(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncodeAcceptsNumberTypes(t *testing.T) {
	ds := loadSample(t)
	enc, err := NewEncoder(ds, WithScaling(ScalingNone))
	require.NoError(t, err)

	for _, v := range []any{int64(7), uint8(7), float32(7), 7} {
		vector, err := enc.Encode(sampleInput(enc, map[string]any{"JobLevel": v}))
		require.NoError(t, err)
		assert.Equal(t, 7.0, vector[featureIndex(t, "JobLevel")])
	}
}

func TestNewEncoderRejectsEmptyDataset(t *testing.T) {
	_, err := NewEncoder(dataset.New(nil))
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)

	_, err = NewEncoder(nil)
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

func TestNewEncoderRejectsUnknownScaling(t *testing.T) {
	_, err := NewEncoder(loadSample(t), WithScaling("minmax"))
	assert.Error(t, err)
}

func TestParseScaling(t *testing.T) {
	s, err := ParseScaling("")
	require.NoError(t, err)
	assert.Equal(t, ScalingDataset, s)

	s, err = ParseScaling("none")
	require.NoError(t, err)
	assert.Equal(t, ScalingNone, s)

	_, err = ParseScaling("robust")
	assert.Error(t, err)
}

func TestEncoderDomains(t *testing.T) {
	enc, err := NewEncoder(loadSample(t))
	require.NoError(t, err)

	domains := enc.Domains()
	assert.Len(t, domains, 7)
	assert.Equal(t, []string{"No", "Yes"}, domains["OverTime"])
	assert.Equal(t, []string{"Non-Travel", "Travel_Frequently", "Travel_Rarely"}, domains["BusinessTravel"])
	assert.Nil(t, enc.Domain("Age"))

	raw := DefaultInput(enc)
	assert.Equal(t, "Non-Travel", raw["BusinessTravel"])
	assert.Equal(t, 30.0, raw["Age"])
}
