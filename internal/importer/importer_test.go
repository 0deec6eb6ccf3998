package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/progress"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data", "84.json"),
		`{"number":"84","content":"Capítulo 84 - Máquinas"}`)
	writeFile(t, filepath.Join(root, "data", "02.json"),
		`{"content":"Capítulo 2 - Carnes"}`)
	writeFile(t, filepath.Join(root, "data", "broken.json"), `{not json`)
	writeFile(t, filepath.Join(root, "data", "old.bak.json"),
		`{"number":"99","content":"obsoleto"}`)

	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory error: %v", err)
	}
	defer st.Close()

	res, err := Run(context.Background(), st, root,
		[]string{"data/**/*.json"}, []string{"**/*.bak.json"},
		progress.SilentReporter{}, nil)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Imported != 2 {
		t.Errorf("imported = %d, want 2", res.Imported)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}

	// The chapter number falls back to the file name when absent.
	ch, err := st.GetChapter(context.Background(), "02")
	if err != nil {
		t.Fatalf("GetChapter(02) error: %v", err)
	}
	if ch.RawContent != "Capítulo 2 - Carnes" {
		t.Errorf("content = %q", ch.RawContent)
	}

	// The excluded backup file never reached the store.
	if _, err := st.GetChapter(context.Background(), "99"); err == nil {
		t.Errorf("excluded file was imported")
	}
}

func TestRunNoMatches(t *testing.T) {
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory error: %v", err)
	}
	defer st.Close()

	_, err = Run(context.Background(), st, t.TempDir(),
		[]string{"data/**/*.json"}, nil, progress.SilentReporter{}, nil)
	if err == nil {
		t.Errorf("expected error when no files match")
	}
}

func TestReadChapterEmptyContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "84.json")
	writeFile(t, path, `{"number":"84","content":"   "}`)
	if _, err := readChapter(path); err == nil {
		t.Errorf("expected error for blank content")
	}
}

func TestDiscoverDedupesOverlappingGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data", "84.json"), `{}`)

	paths, err := discover(root, []string{"data/*.json", "data/**/*.json"}, nil)
	if err != nil {
		t.Fatalf("discover error: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("discover returned %d paths, want 1: %v", len(paths), paths)
	}
}
