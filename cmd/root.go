// Package cmd implements the mockinterview command line.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog"
	"github.com/spf13/cobra"

	"github.com/kfreiman/mockinterview/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "mockinterview",
	Short: "Mock job interviews with generated interviewer panels",
	Long: `mockinterview runs mock job interviews. It generates a panel of interviewer
personas from a job description, asks questions tailored to a resume, follows
up on answers and evaluates the finished interview.

Settings are read from the environment and an optional .env file.
Run "mockinterview env" to list them.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// loadConfig reads the dotenv file, if any, and then the environment
func loadConfig() (config.Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// createLogger creates a slog logger backed by zerolog and makes it the default
func createLogger(cfg config.Config) *slog.Logger {
	var zerologLogger zerolog.Logger
	if cfg.LogFormat == "json" {
		zerologLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		zerologLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Caller().Logger()
	}

	handler := slogzerolog.Option{
		Level:  cfg.Level(),
		Logger: &zerologLogger,
	}.NewZerologHandler()

	logger := slog.New(handler)

	log.SetFlags(0)
	slog.SetDefault(logger)

	return logger
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables and their defaults",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
