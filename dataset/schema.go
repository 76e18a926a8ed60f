// Package dataset loads the historical HR employee table.
package dataset

// Kind is the value domain of a column.
type Kind int

const (
	// Numeric columns hold numbers (ages, rates, years, 1-4 satisfaction scales).
	Numeric Kind = iota
	// Categorical columns hold labels drawn from a finite unordered set.
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind as "numeric" or "categorical".
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Field describes one feature column.
type Field struct {
	Name string
	Kind Kind
}

// LabelColumn holds "Yes"/"No"; it is never a model input.
const LabelColumn = "Attrition"

// Schema lists the feature columns in the order the prediction model consumes them.
var Schema = []Field{
	{"Age", Numeric},
	{"BusinessTravel", Categorical},
	{"DailyRate", Numeric},
	{"Department", Categorical},
	{"DistanceFromHome", Numeric},
	{"Education", Numeric},
	{"EducationField", Categorical},
	{"EnvironmentSatisfaction", Numeric},
	{"Gender", Categorical},
	{"HourlyRate", Numeric},
	{"JobInvolvement", Numeric},
	{"JobLevel", Numeric},
	{"JobRole", Categorical},
	{"JobSatisfaction", Numeric},
	{"MaritalStatus", Categorical},
	{"MonthlyIncome", Numeric},
	{"MonthlyRate", Numeric},
	{"NumCompaniesWorked", Numeric},
	{"OverTime", Categorical},
	{"PercentSalaryHike", Numeric},
	{"PerformanceRating", Numeric},
	{"RelationshipSatisfaction", Numeric},
	{"StockOptionLevel", Numeric},
	{"TotalWorkingYears", Numeric},
	{"TrainingTimesLastYear", Numeric},
	{"WorkLifeBalance", Numeric},
	{"YearsAtCompany", Numeric},
	{"YearsInCurrentRole", Numeric},
	{"YearsSinceLastPromotion", Numeric},
	{"YearsWithCurrManager", Numeric},
}

var schemaIndex = func() map[string]int {
	idx := make(map[string]int, len(Schema))
	for i, f := range Schema {
		idx[f.Name] = i
	}
	return idx
}()

// Lookup returns the schema field with the given name.
func Lookup(name string) (Field, bool) {
	i, ok := schemaIndex[name]
	if !ok {
		return Field{}, false
	}
	return Schema[i], true
}

// CategoricalNames returns the categorical feature columns in schema order.
func CategoricalNames() []string {
	names := make([]string, 0, 7)
	for _, f := range Schema {
		if f.Kind == Categorical {
			names = append(names, f.Name)
		}
	}
	return names
}
