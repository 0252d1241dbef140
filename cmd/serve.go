package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kfreiman/mockinterview/internal/app"
	"github.com/kfreiman/mockinterview/internal/mcp"
)

var servePort int

// serveCmd starts the MCP server
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"mcp-server"},
	Short:   "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg = cfg.WithPort(servePort)
		}
		logger := createLogger(cfg)

		logger.InfoContext(ctx, "mcp server starting",
			"port", cfg.Port,
			"storage_path", cfg.StoragePath,
			"storage_ttl", cfg.StorageTTL,
			"model", cfg.Model,
			"max_interviewers", cfg.MaxInterviewers,
		)

		a, err := app.New(cfg, logger)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create application",
				"error", err,
			)
			return err
		}
		defer func() {
			if closeErr := a.Close(); closeErr != nil {
				logger.Debug("error closing application", "error", closeErr)
			}
		}()

		srv := mcp.NewServer(a, logger)
		if err := srv.ListenAndServe(ctx); err != nil {
			logger.ErrorContext(ctx, "mcp server stopped",
				"error", err,
			)
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port, overrides PORT")
	rootCmd.AddCommand(serveCmd)
}
