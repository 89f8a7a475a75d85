package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/koga-04/diet-app/internal/config"
	"github.com/koga-04/diet-app/internal/model"
	"github.com/koga-04/diet-app/internal/planner"
)

// Only the most recent records go into question-style prompts; full-history
// review uses everything.
const adviceHistoryLimit = 30

type AdviceInput struct {
	Question string
	FromDate string
	ToDate   string
}

// Advise builds an advice prompt from the profile and logged history and
// asks the model for free-text guidance. At least one record is required.
func Advise(ctx context.Context, sqldb *sql.DB, gen planner.Generator, profile *config.Profile, in AdviceInput) (string, error) {
	filter := MealFilter{FromDate: in.FromDate, ToDate: in.ToDate}
	ranged := strings.TrimSpace(in.FromDate) != "" || strings.TrimSpace(in.ToDate) != ""
	if !ranged && strings.TrimSpace(in.Question) != "" {
		filter.Limit = adviceHistoryLimit
	}
	meals, err := ListMeals(sqldb, filter)
	if err != nil {
		return "", err
	}
	if len(meals) == 0 {
		if ranged {
			return "", fmt.Errorf("no records in the requested period")
		}
		return "", fmt.Errorf("advice needs at least one logged record")
	}

	prompt := buildAdvicePrompt(profile, meals, in)
	out, err := gen.Generate(ctx, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("generate advice: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func buildAdvicePrompt(profile *config.Profile, meals []model.MealRecord, in AdviceInput) string {
	var b strings.Builder
	b.WriteString("You are an experienced dietary advisor. Based on the client information and records below, give specific, encouraging advice in Markdown.\n\n")

	if desc := profile.Describe(); desc != "" {
		b.WriteString("# Client\n")
		b.WriteString(desc)
		b.WriteString("\n")
	}

	switch {
	case strings.TrimSpace(in.FromDate) != "" || strings.TrimSpace(in.ToDate) != "":
		fmt.Fprintf(&b, "# Records (%s ~ %s)\n", in.FromDate, in.ToDate)
	case strings.TrimSpace(in.Question) != "":
		b.WriteString("# Recent records (for reference)\n")
	default:
		b.WriteString("# All records\n")
	}
	writeRecordTable(&b, meals)
	b.WriteString("\n")

	if q := strings.TrimSpace(in.Question); q != "" {
		fmt.Fprintf(&b, "# Question\n%s\n\nAnswer the question, drawing on the records.\n", q)
	} else {
		b.WriteString("Review the records as a whole and give overall advice.\n")
	}
	return b.String()
}

func writeRecordTable(b *strings.Builder, meals []model.MealRecord) {
	b.WriteString("date | category | food | kcal | protein | carbs | fat | salt\n")
	for _, m := range meals {
		fmt.Fprintf(b, "%s | %s | %s | %s | %s | %s | %s | %s\n",
			m.Date, m.Category, m.Label,
			fmtMeasure(m.Calories), fmtMeasure(m.Protein),
			fmtMeasure(m.Carbohydrates), fmtMeasure(m.Fat), fmtMeasure(m.Salt))
	}
}

func fmtMeasure(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
