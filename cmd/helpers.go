package cmd

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/config"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/render"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/store"
)

// newLogger builds the CLI logger; verbose switches to development output.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openStore opens the SQLite store inside the configured data directory.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(filepath.Join(cfg.DataDir, "fiscal.db"))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return st, nil
}

// newRenderer builds a renderer from the configured term tables, falling
// back to the built-in defaults for any table left empty.
func newRenderer(cfg *config.Config) *render.Renderer {
	opts := render.DefaultOptions()
	if len(cfg.Render.ExclusionTerms) > 0 {
		opts.ExclusionTerms = cfg.Render.ExclusionTerms
	}
	if len(cfg.Render.UnitTerms) > 0 {
		opts.UnitTerms = cfg.Render.UnitTerms
	}
	return render.New(opts)
}
