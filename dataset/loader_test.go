package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = "Age,Attrition,BusinessTravel,DailyRate,Department,DistanceFromHome,Education,EducationField,EmployeeNumber,EnvironmentSatisfaction,Gender,HourlyRate,JobInvolvement,JobLevel,JobRole,JobSatisfaction,MaritalStatus,MonthlyIncome,MonthlyRate,NumCompaniesWorked,OverTime,PercentSalaryHike,PerformanceRating,RelationshipSatisfaction,StockOptionLevel,TotalWorkingYears,TrainingTimesLastYear,WorkLifeBalance,YearsAtCompany,YearsInCurrentRole,YearsSinceLastPromotion,YearsWithCurrManager"

var sampleRows = []string{
	"41,Yes,Travel_Rarely,1102,Sales,1,2,Life Sciences,1,2,Female,94,3,2,Sales Executive,4,Single,5993,19479,8,Yes,11,3,1,0,8,0,1,6,4,0,5",
	"49,No,Travel_Frequently,279,Research & Development,8,1,Life Sciences,2,3,Male,61,2,2,Research Scientist,2,Married,5130,24907,1,No,23,4,4,1,10,3,3,10,7,1,7",
	"37,Yes,Travel_Rarely,1373,Research & Development,2,2,Other,4,4,Male,92,2,1,Laboratory Technician,3,Single,2090,2396,6,Yes,15,3,2,0,7,3,3,0,0,0,0",
}

func sampleCSV(rows ...string) string {
	return sampleHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestReadParsesRows(t *testing.T) {
	ds, err := Read(strings.NewReader(sampleCSV(sampleRows...)))
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	first := ds.Record(0)
	assert.Equal(t, 41.0, first.Numeric("Age"))
	assert.Equal(t, "Sales Executive", first.Categorical("JobRole"))
	assert.Equal(t, 5993.0, first.Numeric("MonthlyIncome"))
	assert.True(t, first.Attrition())
	assert.Equal(t, "Yes", first.AttritionLabel())
	assert.False(t, ds.Record(1).Attrition())

	assert.Equal(t, []string{"Travel_Frequently", "Travel_Rarely"}, ds.Labels("BusinessTravel"))
	assert.Equal(t, []string{"Female", "Male"}, ds.Labels("Gender"))
	assert.Nil(t, ds.Labels("Age"))

	min, max, ok := ds.Range("Age")
	require.True(t, ok)
	assert.Equal(t, 37.0, min)
	assert.Equal(t, 49.0, max)
}

func TestReadStripsByteOrderMark(t *testing.T) {
	ds, err := Read(strings.NewReader("\ufeff" + sampleCSV(sampleRows[0])))
	require.NoError(t, err)
	assert.Equal(t, 41.0, ds.Record(0).Numeric("Age"))
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty file", input: ""},
		{name: "header only", input: sampleHeader + "\n"},
		{name: "missing column", input: strings.Replace(sampleCSV(sampleRows[0]), "OverTime", "Overtime", 1)},
		{name: "missing label column", input: strings.Replace(sampleCSV(sampleRows[0]), "Attrition", "Left", 1)},
		{name: "bad number", input: sampleCSV(strings.Replace(sampleRows[0], "5993", "n/a", 1))},
		{name: "bad label", input: sampleCSV(strings.Replace(sampleRows[0], ",Yes,Travel", ",Maybe,Travel", 1))},
		{name: "short row", input: sampleCSV("41,Yes")},
		{name: "NaN number", input: sampleCSV(strings.Replace(sampleRows[0], "5993", "NaN", 1))},
		{name: "infinite number", input: sampleCSV(strings.Replace(sampleRows[0], "5993", "Inf", 1))},
		{name: "negative infinite number", input: sampleCSV(strings.Replace(sampleRows[0], "41,", "-Inf,", 1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDataUnavailable)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir() + "/missing.csv")
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoadSampleFile(t *testing.T) {
	ds, err := Load("../data/employees_sample.csv")
	require.NoError(t, err)
	assert.Equal(t, 25, ds.Len())
	assert.Equal(t, "../data/employees_sample.csv", ds.Path())
	assert.Equal(t, []string{"No", "Yes"}, ds.Labels("OverTime"))
}

func TestRecordRawRoundTrip(t *testing.T) {
	rec := MustRecord(map[string]any{"Age": 30, "Gender": "Female", "MonthlyIncome": 5000.0}, false)
	raw := rec.Raw()
	assert.Len(t, raw, len(Schema))
	assert.Equal(t, 30.0, raw["Age"])
	assert.Equal(t, "Female", raw["Gender"])
	assert.Equal(t, "", raw["JobRole"])

	_, err := NewRecord(map[string]any{"Gender": 1}, false)
	assert.Error(t, err)
	_, err = NewRecord(map[string]any{"Salary": 1}, false)
	assert.Error(t, err)
}

func TestReadNonFiniteNamesLineAndColumn(t *testing.T) {
	input := sampleCSV(sampleRows[0], strings.Replace(sampleRows[1], "5130", "NaN", 1))
	_, err := Read(strings.NewReader(input))
	require.ErrorIs(t, err, ErrDataUnavailable)
	assert.Contains(t, err.Error(), "line 3 column MonthlyIncome")
	assert.Contains(t, err.Error(), `"NaN"`)
}

func TestZeroRecord(t *testing.T) {
	ds := New([]Record{{}})
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, []string{""}, ds.Labels("Gender"))

	raw := Record{}.Raw()
	assert.Len(t, raw, len(Schema))
	assert.Equal(t, 0.0, raw["Age"])
	assert.Equal(t, "", raw["OverTime"])
}

func TestNewRecordRejectsNonFinite(t *testing.T) {
	_, err := NewRecord(map[string]any{"Age": math.NaN()}, false)
	assert.Error(t, err)
	_, err = NewRecord(map[string]any{"MonthlyIncome": math.Inf(1)}, false)
	assert.Error(t, err)
}
