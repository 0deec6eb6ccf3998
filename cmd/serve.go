package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/config"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the HTTP server exposing rendered chapters, the assembled
document and live websocket highlight sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
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

		srv := server.New(cfg.Server, st, newRenderer(cfg), log)
		return srv.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
