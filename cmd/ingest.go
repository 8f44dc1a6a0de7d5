package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinrag/cds-explainer/internal/indexer"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract raw text segments from the source guideline PDF",
	Long:  `Reads the configured guideline PDF page by page and writes the extracted segments as JSONL, replacing any previous run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		p := indexer.NewPipeline(cfg, nil)
		n, err := p.Ingest(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Extracted %d segments from %s -> %s\n", n, cfg.Corpus.SourcePath, p.SegmentsPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
