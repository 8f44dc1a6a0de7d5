package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinrag/cds-explainer/internal/indexer"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the full offline pipeline: ingest, chunk, index",
	Long:  `Runs ingest, chunk and index back to back, producing a fresh evidence index from the configured guideline PDF.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		p := indexer.NewPipeline(cfg, nil)
		n, err := p.Build(context.Background(), store)
		if err != nil {
			return err
		}

		fmt.Printf("Built evidence index with %d chunks -> %s\n", n, cfg.IndexDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
