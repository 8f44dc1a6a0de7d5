package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinrag/cds-explainer/internal/indexer"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Split ingested segments into retrievable chunks",
	Long:  `Splits raw segments into overlapping windows with stable content-derived chunk IDs and writes them as JSONL, replacing any previous run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p := indexer.NewPipeline(cfg, nil)
		n, err := p.Chunk(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %d chunks (max_chars=%d overlap=%d) -> %s\n",
			n, cfg.Chunking.MaxChars, cfg.Chunking.Overlap, p.ChunksPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chunkCmd)
}
