package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/koga-04/diet-app/internal/model"
)

type CreateMealInput struct {
	Date      string // YYYY-MM-DD
	Category  string
	Label     string
	Nutrients model.Nutrients
}

type MealFilter struct {
	FromDate string
	ToDate   string
	Category string
	Limit    int
}

func CreateMeal(sqldb *sql.DB, in CreateMealInput) (int64, error) {
	in.Label = strings.TrimSpace(in.Label)
	if in.Label == "" {
		return 0, fmt.Errorf("meal label is required")
	}
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	kind, ok := model.KindForCategory(in.Category)
	if !ok {
		return 0, fmt.Errorf("unknown category %q", in.Category)
	}
	if !kind.MealLike() {
		return 0, fmt.Errorf("category %q is not a meal category", in.Category)
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return 0, err
	}
	if err := validateNutrients(in.Nutrients); err != nil {
		return 0, err
	}

	res, err := sqldb.Exec(`
INSERT INTO meals(date, category, label, calories, protein, carbohydrates, fat, vitamin_d, salt, zinc, folic_acid)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, date, in.Category, in.Label,
		in.Nutrients.Calories, in.Nutrients.Protein, in.Nutrients.Carbohydrates, in.Nutrients.Fat,
		in.Nutrients.VitaminD, in.Nutrients.Salt, in.Nutrients.Zinc, in.Nutrients.FolicAcid)
	if err != nil {
		return 0, fmt.Errorf("insert meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted meal id: %w", err)
	}
	return id, nil
}

const mealColumns = `id, date, category, label, calories, protein, carbohydrates, fat, vitamin_d, salt, zinc, folic_acid, favorite, created_at`

func ListMeals(sqldb *sql.DB, f MealFilter) ([]model.MealRecord, error) {
	queryText := `SELECT ` + mealColumns + ` FROM meals WHERE 1=1`
	args := make([]any, 0)

	if strings.TrimSpace(f.FromDate) != "" {
		from, err := normalizeDate(f.FromDate)
		if err != nil {
			return nil, err
		}
		queryText += ` AND date >= ?`
		args = append(args, from)
	}
	if strings.TrimSpace(f.ToDate) != "" {
		to, err := normalizeDate(f.ToDate)
		if err != nil {
			return nil, err
		}
		queryText += ` AND date <= ?`
		args = append(args, to)
	}
	if strings.TrimSpace(f.Category) != "" {
		queryText += ` AND category = ?`
		args = append(args, strings.ToLower(strings.TrimSpace(f.Category)))
	}
	queryText += ` ORDER BY date DESC, id DESC`
	if f.Limit > 0 {
		queryText += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := sqldb.Query(queryText, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	meals := make([]model.MealRecord, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return meals, nil
}

// LoadAllMeals returns the full meals table, newest first. The declarative
// executor works on this in-memory snapshot.
func LoadAllMeals(sqldb *sql.DB) ([]model.MealRecord, error) {
	return ListMeals(sqldb, MealFilter{})
}

func scanMeal(rows *sql.Rows) (model.MealRecord, error) {
	var m model.MealRecord
	var calories, protein, carbs, fat, vitaminD, salt, zinc, folicAcid sql.NullFloat64
	var favorite int
	var createdRaw string
	if err := rows.Scan(&m.ID, &m.Date, &m.Category, &m.Label,
		&calories, &protein, &carbs, &fat, &vitaminD, &salt, &zinc, &folicAcid,
		&favorite, &createdRaw); err != nil {
		return model.MealRecord{}, fmt.Errorf("scan meal: %w", err)
	}
	m.Calories = nullableFloat(calories)
	m.Protein = nullableFloat(protein)
	m.Carbohydrates = nullableFloat(carbs)
	m.Fat = nullableFloat(fat)
	m.VitaminD = nullableFloat(vitaminD)
	m.Salt = nullableFloat(salt)
	m.Zinc = nullableFloat(zinc)
	m.FolicAcid = nullableFloat(folicAcid)
	m.Favorite = favorite != 0
	m.CreatedAt = parseTimestamp(createdRaw)
	return m, nil
}

// DeleteMeal removes one meal by id. Deleting a missing id is a no-op.
func DeleteMeal(sqldb *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("meal id must be > 0")
	}
	if _, err := sqldb.Exec(`DELETE FROM meals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete meal %d: %w", id, err)
	}
	return nil
}

// SetMealFavorite flips the favorite flag, the only mutable attribute a
// meal has after creation.
func SetMealFavorite(sqldb *sql.DB, id int64, favorite bool) error {
	if id <= 0 {
		return fmt.Errorf("meal id must be > 0")
	}
	fav := 0
	if favorite {
		fav = 1
	}
	res, err := sqldb.Exec(`UPDATE meals SET favorite = ? WHERE id = ?`, fav, id)
	if err != nil {
		return fmt.Errorf("set favorite for meal %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for meal %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("meal %d not found", id)
	}
	return nil
}

func validateNutrients(n model.Nutrients) error {
	for _, name := range model.MetricNames {
		if v, ok := n.Metric(name); ok && v < 0 {
			return fmt.Errorf("%s must be >= 0", name)
		}
	}
	return nil
}

func normalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t.Format("2006-01-02"), nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
