package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCategory(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "b.yaml", "- name: Quake\n  type: remake\n")
	writeFile(t, tmpDir, "a.yaml", "- name: Doom\n- name: [Grand Theft Auto, GTA]\n")
	writeFile(t, tmpDir, "notes.txt", "ignored")
	writeFile(t, tmpDir, "empty.yaml", "")

	docs, err := LoadCategory(tmpDir)
	if err != nil {
		t.Fatalf("LoadCategory failed: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(docs))
	}

	expected := []struct {
		file string
		name string
	}{
		{"a.yaml", "Doom"},
		{"a.yaml", "Grand Theft Auto"},
		{"b.yaml", "Quake"},
	}
	for i, want := range expected {
		if docs[i].File != want.file {
			t.Errorf("record %d: expected file %s, got %s", i, want.file, docs[i].File)
		}
		if docs[i].DisplayName() != want.name {
			t.Errorf("record %d: expected name %s, got %s", i, want.name, docs[i].DisplayName())
		}
		if docs[i].Index != i {
			t.Errorf("record %d: expected index %d, got %d", i, i, docs[i].Index)
		}
	}

	if docs[2].Line() != 1 {
		t.Errorf("Expected Quake on line 1, got %d", docs[2].Line())
	}
}

func TestLoadCategoryRejectsNonList(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "bad.yaml", "name: Doom\n")

	if _, err := LoadCategory(tmpDir); err == nil {
		t.Error("Expected error for a file whose top level is not a list")
	}
}

func TestLoadCategoryMissingDir(t *testing.T) {
	if _, err := LoadCategory(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error for a missing directory")
	}
}

func TestDisplayNameFallback(t *testing.T) {
	docs, err := ParseRecords("x.yaml", []byte("- type: remake\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := docs[0].DisplayName(); got != "<record 0>" {
		t.Errorf("Expected placeholder name, got %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	if err := WriteJSON(path, map[string]int{"count": 2}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{\n  \"count\": 2\n}\n" {
		t.Errorf("Unexpected JSON output: %q", string(data))
	}
}

func TestCleanDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "_build")
	writeFileDir := filepath.Join(dir, "old")
	if err := os.MkdirAll(writeFileDir, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := CleanDir(dir); err != nil {
		t.Fatalf("CleanDir failed: %v", err)
	}
	if _, err := os.Stat(writeFileDir); !os.IsNotExist(err) {
		t.Error("Expected old content to be removed")
	}

	if err := CleanDir("/"); err == nil {
		t.Error("Expected CleanDir to refuse the root directory")
	}
}
