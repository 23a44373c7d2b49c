package namecache

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colleges.csv")
	writeFile(t, path, "College Name,Location,College Type\n"+
		"ABC College,Delhi,Govt\n"+
		"XYZ College,Mumbai\n"+ // ragged row, skipped
		"  DEF College  ,Pune,Private\n"+
		",,\n")

	names := ReadNames(path)
	if len(names) != 2 {
		t.Fatalf("Expected 2 names, got %d: %v", len(names), names)
	}
	for _, want := range []string{"abc college", "def college"} {
		if _, ok := names[want]; !ok {
			t.Errorf("Expected %q in name set", want)
		}
	}
}

func TestReadNamesMissingIdentityColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "other.csv")
	writeFile(t, path, "Name,Location\nABC,Delhi\n")

	if names := ReadNames(path); len(names) != 0 {
		t.Errorf("Expected empty set without identity column, got %v", names)
	}
}

func TestReadNamesMissingFile(t *testing.T) {
	if names := ReadNames(filepath.Join(t.TempDir(), "nope.csv")); len(names) != 0 {
		t.Errorf("Expected empty set for missing file, got %v", names)
	}
}

func TestCacheMemoizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colleges.csv")
	writeFile(t, path, "College Name\nABC College\n")

	c := New()
	first := c.Names(path)
	if len(first) != 1 {
		t.Fatalf("Expected 1 name, got %d", len(first))
	}

	// Rewriting the file must not be visible through the cache.
	writeFile(t, path, "College Name\nABC College\nNew College\n")
	if again := c.Names(path); len(again) != 1 {
		t.Errorf("Expected cached set of 1, got %d", len(again))
	}
}

func TestCacheMissingFileCachesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colleges.csv")

	c := New()
	if set := c.Names(path); len(set) != 0 {
		t.Fatalf("Expected empty set, got %v", set)
	}

	// Creating the file afterwards must not change the cached answer.
	writeFile(t, path, "College Name\nLate College\n")
	if set := c.Names(path); len(set) != 0 {
		t.Errorf("Expected cached empty set, got %v", set)
	}
}

func TestCacheAddAndContains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colleges.csv")

	c := New()
	if c.Contains(path, "ABC College") {
		t.Error("Did not expect name before Add")
	}

	c.Add(path, "  ABC College  ")
	if !c.Contains(path, "abc college") {
		t.Error("Expected case-insensitive membership after Add")
	}
	if !c.Contains(path, "ABC COLLEGE") {
		t.Error("Expected case-insensitive membership after Add")
	}

	c.Add(path, "   ")
	if c.Contains(path, "") {
		t.Error("Empty names must never match")
	}
}
