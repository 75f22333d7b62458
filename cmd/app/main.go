// Package main implements the trendlines CLI: detection over point files,
// synthetic data generation and the interactive web page.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/0x0FACED/go-trendlines/pkg/config"
	"github.com/0x0FACED/go-trendlines/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// configPath is the optional YAML configuration file
	configPath string
	// logLevel overrides log.level from the configuration
	logLevel string
	version  = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trendlines",
	Short: "Detect trend lines in labelled point clouds",
	Long: `trendlines chains the points of every label group into polylines that
prefer short, straight continuations, e.g. to trace lineaments through
digitized geological observations.

Configuration is read from --config (YAML) and TRENDLINES_* environment
variables; command flags override both.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the configuration and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// runLogger tags every record of one run with a fresh id.
func runLogger(level string) (*logger.ZapLogger, string) {
	id := uuid.New().String()
	return logger.Stderr(level).With(zap.String("run_id", id)), id
}
