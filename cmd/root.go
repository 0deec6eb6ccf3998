package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fiscal",
	Short: "NCM tariff classification chapter rendering and search",
	Long: `Fiscal renders NCM tariff classification chapters (legal notes)
into structurally annotated HTML — anchored headings, smart
classification-code links, note cross references — and overlays
accent-insensitive multi-term search highlighting scored by how
closely the terms co-occur in the classification hierarchy.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".fiscal.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
