package runner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestExpandGlobs_NonGlob(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pipeline.julietscript")
	writeFile(t, file, "halt;\n")

	files, err := ExpandGlobs(dir, []string{"pipeline.julietscript"})
	if err != nil {
		t.Fatalf("ExpandGlobs: %v", err)
	}
	if len(files) != 1 || files[0] != file {
		t.Errorf("expected [%s], got %v", file, files)
	}
}

func TestExpandGlobs_NonGlobMissing(t *testing.T) {
	dir := t.TempDir()

	files, err := ExpandGlobs(dir, []string{"missing.julietscript"})
	if err != nil {
		t.Fatalf("ExpandGlobs: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no matches, got %v", files)
	}
}

func TestExpandGlobs_SingleLevel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.julietscript"), "halt;\n")
	writeFile(t, filepath.Join(dir, "b.julietscript"), "halt;\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "not a script\n")

	files, err := ExpandGlobs(dir, []string{"*.julietscript"})
	if err != nil {
		t.Fatalf("ExpandGlobs: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 matches, got %v", files)
	}
	if files[0] != filepath.Join(dir, "a.julietscript") || files[1] != filepath.Join(dir, "b.julietscript") {
		t.Errorf("unexpected matches: %v", files)
	}
}

func TestExpandGlobs_Recursive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "root.julietscript"), "halt;\n")
	writeFile(t, filepath.Join(dir, "nested", "deep", "leaf.julietscript"), "halt;\n")

	files, err := ExpandGlobs(dir, []string{"**/*.julietscript"})
	if err != nil {
		t.Fatalf("ExpandGlobs: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 matches, got %v", files)
	}
}

func TestExpandGlobs_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "scripts.julietscript"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(dir, "real.julietscript"), "halt;\n")

	files, err := ExpandGlobs(dir, []string{"*.julietscript"})
	if err != nil {
		t.Fatalf("ExpandGlobs: %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join(dir, "real.julietscript") {
		t.Errorf("expected only the regular file, got %v", files)
	}
}

func TestExpandGlobs_Deduplicates(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "only.julietscript")
	writeFile(t, file, "halt;\n")

	files, err := ExpandGlobs(dir, []string{"*.julietscript", "only.julietscript", "**/*.julietscript"})
	if err != nil {
		t.Fatalf("ExpandGlobs: %v", err)
	}
	if len(files) != 1 || files[0] != file {
		t.Errorf("expected one deduplicated match, got %v", files)
	}
}

func TestExpandGlobs_SortedOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "zeta.julietscript"), "halt;\n")
	writeFile(t, filepath.Join(dir, "alpha.julietscript"), "halt;\n")
	writeFile(t, filepath.Join(dir, "mid.julietscript"), "halt;\n")

	files, err := ExpandGlobs(dir, []string{"zeta.julietscript", "alpha.julietscript", "mid.julietscript"})
	if err != nil {
		t.Fatalf("ExpandGlobs: %v", err)
	}
	want := []string{
		filepath.Join(dir, "alpha.julietscript"),
		filepath.Join(dir, "mid.julietscript"),
		filepath.Join(dir, "zeta.julietscript"),
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], files[i])
		}
	}
}

func TestExpandGlobs_AbsolutePattern(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "abs.julietscript")
	writeFile(t, file, "halt;\n")

	// Root deliberately points elsewhere; absolute patterns ignore it.
	files, err := ExpandGlobs(t.TempDir(), []string{file})
	if err != nil {
		t.Fatalf("ExpandGlobs: %v", err)
	}
	if len(files) != 1 || files[0] != file {
		t.Errorf("expected [%s], got %v", file, files)
	}
}

func TestExpandGlobs_BadPattern(t *testing.T) {
	dir := t.TempDir()

	_, err := ExpandGlobs(dir, []string{"[unclosed"})
	if err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}
