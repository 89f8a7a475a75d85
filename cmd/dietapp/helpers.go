package dietapp

import (
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/koga-04/diet-app/internal/app"
	"github.com/koga-04/diet-app/internal/config"
	"github.com/koga-04/diet-app/internal/db"
	"github.com/koga-04/diet-app/internal/llm"
	"github.com/koga-04/diet-app/internal/planner"
	"github.com/koga-04/diet-app/internal/query"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func newTextGenerator(cfg *config.Config) (*llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
	}
	return &llm.Client{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.TextModel}, nil
}

func newVisionGenerator(cfg *config.Config) (*llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
	}
	return &llm.Client{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Model: cfg.VisionModel}, nil
}

func newPlanner(cfg *config.Config) (*planner.Planner, error) {
	gen, err := newTextGenerator(cfg)
	if err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return &planner.Planner{Gen: gen, Location: loc}, nil
}

func loadProfile() (*config.Profile, error) {
	path, err := app.DefaultProfilePath()
	if err != nil {
		return nil, err
	}
	return config.LoadProfile(path)
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func printResult(w io.Writer, res *query.Result) {
	if res.Empty() {
		if res.Description != "" {
			fmt.Fprintln(w, res.Description)
		} else {
			fmt.Fprintln(w, "no matching records")
		}
		return
	}
	fmt.Fprintln(w, strings.ToUpper(strings.Join(res.Columns, "\t")))
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if res.Description != "" {
		fmt.Fprintf(w, "(%s)\n", res.Description)
	}
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func formatMeasure(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
