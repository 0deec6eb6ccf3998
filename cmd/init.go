package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .fiscal.yml configuration interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !initForce {
			if _, err := os.Stat(".fiscal.yml"); err == nil {
				return fmt.Errorf(".fiscal.yml already exists (use --force to overwrite)")
			}
		}
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
