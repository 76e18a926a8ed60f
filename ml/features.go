package ml

import "hrdash/dataset"

// FieldSpec describes the input control for one feature: slider bounds and
// default for numeric fields, a label choice for categorical ones.
type FieldSpec struct {
	Name    string       `json:"name"`
	Label   string       `json:"label"`
	Kind    dataset.Kind `json:"kind"`
	Min     float64      `json:"min"`
	Max     float64      `json:"max"`
	Default float64      `json:"default"`
}

// FeatureNames returns the 30 model inputs in the order the model was trained on.
func FeatureNames() []string {
	names := make([]string, len(dataset.Schema))
	for i, f := range dataset.Schema {
		names[i] = f.Name
	}
	return names
}

// CategoricalFields returns the label-encoded inputs.
func CategoricalFields() []string {
	return dataset.CategoricalNames()
}

var fieldSpecs = []FieldSpec{
	{Name: "Age", Label: "Age", Min: 18, Max: 60, Default: 30},
	{Name: "BusinessTravel", Label: "Business travel"},
	{Name: "DailyRate", Label: "Daily rate", Min: 100, Max: 1500, Default: 800},
	{Name: "Department", Label: "Department"},
	{Name: "DistanceFromHome", Label: "Distance from home", Min: 1, Max: 30, Default: 10},
	{Name: "Education", Label: "Education", Min: 1, Max: 5, Default: 3},
	{Name: "EducationField", Label: "Education field"},
	{Name: "EnvironmentSatisfaction", Label: "Environment satisfaction", Min: 1, Max: 4, Default: 3},
	{Name: "Gender", Label: "Gender"},
	{Name: "HourlyRate", Label: "Hourly rate", Min: 30, Max: 100, Default: 60},
	{Name: "JobInvolvement", Label: "Job involvement", Min: 1, Max: 4, Default: 3},
	{Name: "JobLevel", Label: "Job level", Min: 1, Max: 5, Default: 2},
	{Name: "JobRole", Label: "Job role"},
	{Name: "JobSatisfaction", Label: "Job satisfaction", Min: 1, Max: 4, Default: 3},
	{Name: "MaritalStatus", Label: "Marital status"},
	{Name: "MonthlyIncome", Label: "Monthly income", Min: 1000, Max: 20000, Default: 5000},
	{Name: "MonthlyRate", Label: "Monthly rate", Min: 2000, Max: 25000, Default: 10000},
	{Name: "NumCompaniesWorked", Label: "Companies worked", Min: 0, Max: 10, Default: 2},
	{Name: "OverTime", Label: "Overtime"},
	{Name: "PercentSalaryHike", Label: "Salary hike (%)", Min: 10, Max: 25, Default: 15},
	{Name: "PerformanceRating", Label: "Performance rating", Min: 1, Max: 4, Default: 3},
	{Name: "RelationshipSatisfaction", Label: "Relationship satisfaction", Min: 1, Max: 4, Default: 3},
	{Name: "StockOptionLevel", Label: "Stock option level", Min: 0, Max: 3, Default: 1},
	{Name: "TotalWorkingYears", Label: "Total working years", Min: 0, Max: 40, Default: 10},
	{Name: "TrainingTimesLastYear", Label: "Trainings last year", Min: 0, Max: 6, Default: 2},
	{Name: "WorkLifeBalance", Label: "Work-life balance", Min: 1, Max: 4, Default: 3},
	{Name: "YearsAtCompany", Label: "Years at company", Min: 0, Max: 40, Default: 5},
	{Name: "YearsInCurrentRole", Label: "Years in current role", Min: 0, Max: 20, Default: 3},
	{Name: "YearsSinceLastPromotion", Label: "Years since last promotion", Min: 0, Max: 15, Default: 2},
	{Name: "YearsWithCurrManager", Label: "Years with current manager", Min: 0, Max: 17, Default: 3},
}

func init() {
	if len(fieldSpecs) != len(dataset.Schema) {
		panic("ml: field specs out of sync with dataset schema")
	}
	for i := range fieldSpecs {
		f, ok := dataset.Lookup(fieldSpecs[i].Name)
		if !ok || dataset.Schema[i].Name != fieldSpecs[i].Name {
			panic("ml: field specs out of sync with dataset schema at " + fieldSpecs[i].Name)
		}
		fieldSpecs[i].Kind = f.Kind
	}
}

// FieldSpecs returns the input controls in feature order.
func FieldSpecs() []FieldSpec {
	return append([]FieldSpec(nil), fieldSpecs...)
}

// DefaultInput returns the raw input the prediction form starts with. Each
// categorical field defaults to the first label of its domain.
func DefaultInput(enc *Encoder) map[string]any {
	raw := make(map[string]any, len(fieldSpecs))
	for _, spec := range fieldSpecs {
		if spec.Kind == dataset.Categorical {
			if labels := enc.Domain(spec.Name).Labels(); len(labels) > 0 {
				raw[spec.Name] = labels[0]
			}
			continue
		}
		raw[spec.Name] = spec.Default
	}
	return raw
}
