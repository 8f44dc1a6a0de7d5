package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "cdsx",
	Short: "Evidence-grounded clinical decision support explainer",
	Long: `cdsx answers clinician questions about uncomplicated urinary tract
infection using only evidence retrieved from an indexed clinical
guideline. Deterministic guardrails run before any model call: red
flags escalate immediately, and missing critical information blocks
dosing advice. Every recommendation carries citations back to the
guideline chunks it was generated from.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Same contract as python-dotenv: a missing .env is fine.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".cdsx.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
