package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinrag/cds-explainer/internal/indexer"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed chunks and publish the evidence index",
	Long:  `Embeds the chunk stream with the configured embedding model and publishes the vector index atomically. The previous index stays live until the new one is complete.`,
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
		n, err := p.BuildIndex(context.Background(), store)
		if err != nil {
			return err
		}

		fmt.Printf("Indexed %d chunks -> %s\n", n, cfg.IndexDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
