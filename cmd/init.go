package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clinrag/cds-explainer/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize cdsx configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure cdsx and generates a .cdsx.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}
		return cfg.Save(cfgFile)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
