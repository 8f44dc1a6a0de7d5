package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clinrag/cds-explainer/internal/audit"
	"github.com/clinrag/cds-explainer/internal/db"
	"github.com/clinrag/cds-explainer/internal/explain"
	"github.com/clinrag/cds-explainer/internal/server"
)

var serveAllowAll bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Starts the HTTP server exposing the explain endpoint, the audit trail and a health check. The evidence index must have been built first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		ctx := context.Background()
		store, err := loadStore(ctx, cfg)
		if err != nil {
			return err
		}
		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return err
		}

		database, err := db.Open(filepath.Join(cfg.DataDir, "audit.db"))
		if err != nil {
			return fmt.Errorf("opening audit database: %w", err)
		}
		defer database.Close()
		auditStore := audit.NewStore(database)

		engine := explain.NewEngine(store, provider, cfg.Model, cfg.Retrieval.TopK, auditStore, logger)
		srv := server.New(server.Config{Port: cfg.Port, AllowAll: serveAllowAll}, engine, auditStore, logger)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}
