package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the build version, overridable at link time.
var Version = "0.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the fiscal version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fiscal %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
