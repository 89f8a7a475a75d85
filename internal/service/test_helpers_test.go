package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/koga-04/diet-app/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diet_records.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

type stubGenerator struct {
	responses []string
	calls     int
	prompts   []string
	images    [][]byte
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, image []byte) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.images = append(s.images, image)
	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++
	return s.responses[idx], nil
}
