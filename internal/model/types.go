package model

import "time"

// Kind is the closed set of record variants the tracker knows about.
// A record belongs to exactly one kind; meal-like kinds share the meals
// table, exercise records live in their own table.
type Kind string

const (
	KindMeal       Kind = "meal"
	KindSupplement Kind = "supplement"
	KindHydration  Kind = "hydration"
	KindProtein    Kind = "protein"
	KindExercise   Kind = "exercise"
)

func (k Kind) Valid() bool {
	switch k {
	case KindMeal, KindSupplement, KindHydration, KindProtein, KindExercise:
		return true
	}
	return false
}

// MealLike reports whether records of this kind are stored in the meals table.
func (k Kind) MealLike() bool {
	switch k {
	case KindMeal, KindSupplement, KindHydration, KindProtein:
		return true
	case KindExercise:
		return false
	}
	return false
}

// Meal categories. Supplement, hydration, and protein records reuse the
// category column with their kind name.
const (
	CategoryBreakfast  = "breakfast"
	CategoryLunch      = "lunch"
	CategoryDinner     = "dinner"
	CategorySnack      = "snack"
	CategorySupplement = "supplement"
	CategoryHydration  = "hydration"
	CategoryProtein    = "protein"
)

var MealCategories = []string{
	CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack,
	CategorySupplement, CategoryHydration, CategoryProtein,
}

// KindForCategory maps a meals-table category to its record kind.
func KindForCategory(category string) (Kind, bool) {
	switch category {
	case CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack:
		return KindMeal, true
	case CategorySupplement:
		return KindSupplement, true
	case CategoryHydration:
		return KindHydration, true
	case CategoryProtein:
		return KindProtein, true
	}
	return "", false
}

// Nutrients holds the per-record measure fields. Nil means the measure was
// never recorded, which is distinct from an explicit zero.
type Nutrients struct {
	Calories      *float64
	Protein       *float64
	Carbohydrates *float64
	Fat           *float64
	VitaminD      *float64
	Salt          *float64
	Zinc          *float64
	FolicAcid     *float64
}

// MetricNames lists the measure columns, in display order. This is the
// allow-list every query plan field is checked against.
var MetricNames = []string{
	"calories", "protein", "carbohydrates", "fat",
	"vitamin_d", "salt", "zinc", "folic_acid",
}

// Metric returns the named measure and whether it is present.
func (n Nutrients) Metric(name string) (float64, bool) {
	var p *float64
	switch name {
	case "calories":
		p = n.Calories
	case "protein":
		p = n.Protein
	case "carbohydrates":
		p = n.Carbohydrates
	case "fat":
		p = n.Fat
	case "vitamin_d":
		p = n.VitaminD
	case "salt":
		p = n.Salt
	case "zinc":
		p = n.Zinc
	case "folic_acid":
		p = n.FolicAcid
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

func IsMetric(name string) bool {
	for _, m := range MetricNames {
		if m == name {
			return true
		}
	}
	return false
}

// MealRecord is one row of the meals table. Favorite is the only attribute
// that can change after creation.
type MealRecord struct {
	ID       int64
	Date     string // YYYY-MM-DD
	Category string
	Label    string
	Nutrients
	Favorite  bool
	CreatedAt time.Time
}

// ExerciseRecord is one row of the exercises table. Duration is mandatory.
type ExerciseRecord struct {
	ID          int64
	Date        string // YYYY-MM-DD
	Category    string // exercise name (walking, strength, ...)
	Label       string
	DurationMin float64
	CreatedAt   time.Time
}

func Float(v float64) *float64 { return &v }
