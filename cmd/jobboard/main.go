package main

import (
	"context"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/maxaizer/jobboard/internal/clients/jobsoid"
	"github.com/maxaizer/jobboard/internal/config"
	"github.com/maxaizer/jobboard/internal/logger"
	"github.com/maxaizer/jobboard/internal/repositories"
	"github.com/maxaizer/jobboard/internal/views"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "jobboard",
	Short: "Job board client for the Jobsoid careers API",
	Long: "jobboard browses open positions of a Jobsoid careers site: list and filter jobs, " +
		"show job details, serve the views over HTTP or run them as a Telegram bot.",
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Setup(cfg.Logger)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Cleanup()
	},
}

func init() {
	defaultPath := "./configs/config.yaml"
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		defaultPath = value
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultPath, "Path to the YAML config file")
}

func newJobsClient() views.JobsAPI {
	client := jobsoid.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	client.SetRateLimit(cfg.API.MaxRequestsPerSecond)

	if cfg.API.LookupCacheTTL <= 0 {
		return client
	}
	return repositories.NewCachedLookups(client, cfg.API.LookupCacheTTL)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
