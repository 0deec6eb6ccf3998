package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/config"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/importer"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/progress"
)

var importRoot string

var importCmd = &cobra.Command{
	Use:   "import [glob...]",
	Short: "Load chapter JSON files into the store",
	Long: `Scans for chapter JSON files matching the given glob patterns (or the
configured include patterns when none are given) and saves them into the
local SQLite store. Malformed files are skipped with a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log, err := newLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		include := cfg.Import.Include
		if len(args) > 0 {
			include = args
		}

		res, err := importer.Run(cmd.Context(), st, importRoot, include, cfg.Import.Exclude, progress.NewReporter(), log)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d chapters (%d skipped)\n", res.Imported, res.Skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importRoot, "root", ".", "directory the glob patterns are resolved against")
	rootCmd.AddCommand(importCmd)
}
