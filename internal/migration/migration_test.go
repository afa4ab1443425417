package migration

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func setupTestMigrations(t *testing.T, files map[string]string) string {
	t.Helper()

	tempDir := t.TempDir()
	for filename, content := range files {
		if err := os.WriteFile(filepath.Join(tempDir, filename), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test migration %s: %v", filename, err)
		}
	}
	return tempDir
}

func TestCurrentVersionFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, os.DirFS(t.TempDir()))

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("fresh database version = %d, want 0", version)
	}
}

func TestApply(t *testing.T) {
	db := setupTestDB(t)
	dir := setupTestMigrations(t, map[string]string{
		"001_init.sql":   "CREATE TABLE first (id INTEGER);",
		"002_second.sql": "CREATE TABLE second (id INTEGER);",
		"ignore_me.txt":  "not a migration",
	})

	runner := NewRunner(db, os.DirFS(dir))

	applied, err := runner.Apply(nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("version after apply = %d, want 2", version)
	}

	for _, table := range []string{"first", "second"} {
		var count int
		err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s not created", table)
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	dir := setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE first (id INTEGER);",
	})

	runner := NewRunner(db, os.DirFS(dir))

	if _, err := runner.Apply(nil); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}

	applied, err := runner.Apply(nil)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second Apply applied %d migrations, want 0", applied)
	}
}

func TestApplyRejectsDuplicateVersions(t *testing.T) {
	db := setupTestDB(t)
	dir := setupTestMigrations(t, map[string]string{
		"001_first.sql":  "CREATE TABLE first (id INTEGER);",
		"001_second.sql": "CREATE TABLE second (id INTEGER);",
	})

	runner := NewRunner(db, os.DirFS(dir))

	if _, err := runner.Apply(nil); err == nil {
		t.Error("expected error for duplicate migration versions")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db := setupTestDB(t)
	dir := setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE first (id INTEGER);",
	})

	runner := NewRunner(db, os.DirFS(dir))
	if _, err := runner.Apply(nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Simulate a database written by a newer build
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (99)"); err != nil {
		t.Fatal(err)
	}

	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected error for newer database schema")
	}
}
