// Package importer discovers chapter JSON files and loads them into the
// store.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/progress"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/store"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/tariff"
)

// Result summarizes one import run.
type Result struct {
	Imported int
	Skipped  int
}

// Run expands the include globs relative to root, filters excludes, and
// saves every chapter file into the store. A malformed file is logged and
// skipped; it never aborts the batch.
func Run(ctx context.Context, st *store.Store, root string, include, exclude []string, reporter progress.Reporter, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if reporter == nil {
		reporter = progress.SilentReporter{}
	}

	paths, err := discover(root, include, exclude)
	if err != nil {
		return Result{}, err
	}
	if len(paths) == 0 {
		return Result{}, fmt.Errorf("importer: no chapter files match %v", include)
	}

	var res Result
	reporter.Start(len(paths))
	for i, path := range paths {
		reporter.Update(i+1, filepath.Base(path))
		ch, err := readChapter(path)
		if err != nil {
			log.Warn("skipping chapter file", zap.String("path", path), zap.Error(err))
			res.Skipped++
			continue
		}
		if err := st.SaveChapter(ctx, ch); err != nil {
			return res, fmt.Errorf("importer: saving %s: %w", path, err)
		}
		res.Imported++
	}
	reporter.Finish()
	return res, nil
}

// discover returns the sorted relative paths under root matching any
// include glob and no exclude glob.
func discover(root string, include, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pat := range include {
		matches, err := doublestar.Glob(os.DirFS(root), filepath.ToSlash(pat))
		if err != nil {
			return nil, fmt.Errorf("importer: bad include pattern %q: %w", pat, err)
		}
		for _, rel := range matches {
			if seen[rel] || excluded(rel, exclude) {
				continue
			}
			seen[rel] = true
			paths = append(paths, filepath.Join(root, filepath.FromSlash(rel)))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func excluded(rel string, exclude []string) bool {
	for _, pat := range exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// readChapter parses one chapter JSON file. The chapter number falls back
// to the file name ("84.json" -> "84") when the field is absent.
func readChapter(path string) (*tariff.Chapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}

	var ch tariff.Chapter
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	if ch.Number == "" {
		ch.Number = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if strings.TrimSpace(ch.RawContent) == "" {
		return nil, fmt.Errorf("chapter %s has no content", ch.Number)
	}
	return &ch, nil
}
