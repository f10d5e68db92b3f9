package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargetime/config"
	"github.com/kilianp07/chargetime/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "chargetime",
	Short: "EV charge time calculator and charge log",
	Long: "chargetime projects when a BYD EV on a home wallbox finishes charging for\n" +
		"every charging current, and keeps a log of the charges you start.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "chargetime.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads the configuration and applies the log level. Logs go to
// stderr so command output stays clean.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Configure(cmd.ErrOrStderr(), cfg.LogLevel)
	return cfg, nil
}
