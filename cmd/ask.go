package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinrag/cds-explainer/internal/explain"
	"github.com/clinrag/cds-explainer/internal/patient"
)

var askPatientFile string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one clinical question for a patient case",
	Long: `Runs the guarded explain flow for a single case and prints the
structured outcome as JSON. The patient context is read from the file
given with --patient, a JSON object like:

  {"age": 25, "sex": "female", "pregnant": "no", "penicillin_allergy": "no",
   "egfr": 95, "symptoms": ["dysuria"], "red_flags": []}`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(askPatientFile)
		if err != nil {
			return fmt.Errorf("reading patient file: %w", err)
		}
		var pc patient.Context
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&pc); err != nil {
			return fmt.Errorf("parsing patient file: %w", err)
		}

		ctx := context.Background()
		store, err := loadStore(ctx, cfg)
		if err != nil {
			return err
		}
		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return err
		}

		engine := explain.NewEngine(store, provider, cfg.Model, cfg.Retrieval.TopK, nil, nil)
		out, err := engine.Explain(ctx, patient.Request{
			Question: strings.Join(args, " "),
			Patient:  pc,
		})
		if err != nil {
			return err
		}

		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding outcome: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askPatientFile, "patient", "", "path to the patient context JSON file (required)")
	askCmd.MarkFlagRequired("patient")
	rootCmd.AddCommand(askCmd)
}
