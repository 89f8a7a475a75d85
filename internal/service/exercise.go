package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/koga-04/diet-app/internal/model"
)

type CreateExerciseInput struct {
	Date        string // YYYY-MM-DD
	Category    string // exercise name
	Label       string
	DurationMin float64
}

type ExerciseFilter struct {
	FromDate string
	ToDate   string
	Category string
	Limit    int
}

func CreateExercise(sqldb *sql.DB, in CreateExerciseInput) (int64, error) {
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Category == "" {
		return 0, fmt.Errorf("exercise category is required")
	}
	in.Label = strings.TrimSpace(in.Label)
	if in.Label == "" {
		in.Label = in.Category
	}
	if in.DurationMin <= 0 {
		return 0, fmt.Errorf("duration must be > 0 minutes")
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return 0, err
	}

	res, err := sqldb.Exec(`
INSERT INTO exercises(date, category, label, duration_min) VALUES(?, ?, ?, ?)
`, date, in.Category, in.Label, in.DurationMin)
	if err != nil {
		return 0, fmt.Errorf("insert exercise: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted exercise id: %w", err)
	}
	return id, nil
}

func ListExercises(sqldb *sql.DB, f ExerciseFilter) ([]model.ExerciseRecord, error) {
	queryText := `SELECT id, date, category, label, duration_min, created_at FROM exercises WHERE 1=1`
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
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	items := make([]model.ExerciseRecord, 0)
	for rows.Next() {
		var e model.ExerciseRecord
		var createdRaw string
		if err := rows.Scan(&e.ID, &e.Date, &e.Category, &e.Label, &e.DurationMin, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		e.CreatedAt = parseTimestamp(createdRaw)
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}
	return items, nil
}

// DeleteExercise removes one exercise by id. Missing ids are a no-op.
func DeleteExercise(sqldb *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("exercise id must be > 0")
	}
	if _, err := sqldb.Exec(`DELETE FROM exercises WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete exercise %d: %w", id, err)
	}
	return nil
}
