package dietapp

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestRootHelp(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected help output")
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diet.db")
	for i := 0; i < 2; i++ {
		buf := &bytes.Buffer{}
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs([]string{"--db", path, "init"})
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
	}
}

func TestMealAddAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diet.db")

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--db", path, "meal", "add",
		"--date", "2026-03-11", "--category", "lunch", "--name", "soba",
		"--calories", "420"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("meal add: %v", err)
	}

	buf = &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--db", path, "meal", "list", "--from", "2026-03-11", "--to", "2026-03-11"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("meal list: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("soba")) {
		t.Fatalf("expected listed meal, got:\n%s", buf.String())
	}
}
