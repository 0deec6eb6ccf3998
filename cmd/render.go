package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/config"
)

var (
	renderChapters []string
	renderOutput   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render stored chapters into annotated HTML",
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

		chapters, err := st.LoadChapters(cmd.Context(), renderChapters)
		if err != nil {
			return fmt.Errorf("loading chapters: %w", err)
		}
		if len(chapters) == 0 {
			return fmt.Errorf("no chapters in store; run `fiscal import` first")
		}

		markup := newRenderer(cfg).RenderDocument(chapters, log)

		if renderOutput == "" || renderOutput == "-" {
			fmt.Println(markup)
			return nil
		}
		if err := os.WriteFile(renderOutput, []byte(markup), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", renderOutput, err)
		}
		fmt.Printf("Rendered %d chapters to %s\n", len(chapters), renderOutput)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringSliceVar(&renderChapters, "chapters", nil, "chapter numbers to render (default: all)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(renderCmd)
}
