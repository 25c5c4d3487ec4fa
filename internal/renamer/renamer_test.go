package renamer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
}

func TestRenameMovesFileWithinDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "07.Sales Data v2.3.sql", "select 1;")

	if err := Rename(dir, "07.Sales Data v2.3.sql", "07. Sales_Data V2.3.sql"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "07.Sales Data v2.3.sql")); !os.IsNotExist(err) {
		t.Error("old name should no longer exist")
	}
	data, err := os.ReadFile(filepath.Join(dir, "07. Sales_Data V2.3.sql"))
	if err != nil {
		t.Fatalf("new name missing: %v", err)
	}
	if string(data) != "select 1;" {
		t.Errorf("content changed: %q", data)
	}
}

func TestRenameOverwritesExistingTarget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1.a.sql", "first")
	writeFile(t, dir, "1. a V1.0.sql", "second")

	if err := Rename(dir, "1.a.sql", "1. a V1.0.sql"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "1. a V1.0.sql"))
	if err != nil {
		t.Fatalf("target missing: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("expected last write to win, got %q", data)
	}
}

func TestRenameMissingSource(t *testing.T) {
	dir := t.TempDir()

	err := Rename(dir, "gone.sql", "1. gone V1.0.sql")

	var renameErr *RenameError
	if !errors.As(err, &renameErr) {
		t.Fatalf("expected *RenameError, got %v", err)
	}
	if renameErr.Type != SourceNotFound {
		t.Errorf("expected SOURCE_NOT_FOUND, got %s", renameErr.Type)
	}
	if renameErr.Name != "gone.sql" {
		t.Errorf("expected error to name gone.sql, got %s", renameErr.Name)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected error to unwrap to os.ErrNotExist")
	}
}

func TestRenameRejectsPathSeparators(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.sql", "")

	names := []string{"../a.sql", "sub/a.sql", "", ".", ".."}
	for _, name := range names {
		err := Rename(dir, "a.sql", name)
		var renameErr *RenameError
		if !errors.As(err, &renameErr) || renameErr.Type != InvalidName {
			t.Errorf("Rename to %q: expected INVALID_NAME, got %v", name, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "a.sql")); err != nil {
		t.Errorf("source should be untouched: %v", err)
	}
}

func TestRenameAllowsBackslashInName(t *testing.T) {
	if filepath.Separator == '\\' {
		t.Skip("backslash is the path separator on this platform")
	}
	dir := t.TempDir()
	writeFile(t, dir, `1. foo\bar v2.0.sql`, "select 1;")

	if err := Rename(dir, `1. foo\bar v2.0.sql`, "1. foobar V2.0.sql"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1. foobar V2.0.sql")); err != nil {
		t.Errorf("new name missing: %v", err)
	}
}
