package main

import (
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobboard/internal/bot"
	"github.com/maxaizer/jobboard/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE:  runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, _ []string) error {

	if err := cfg.Bot.RequireToken(); err != nil {
		return err
	}

	metrics.StartMetricsServer(cfg.Server.MetricsAddr)

	tgbot, err := bot.NewBot(cfg.Bot.Token, newJobsClient(), EventBus.New(), bot.Options{
		SearchDebounce:   cfg.Bot.SearchDebounce,
		SessionTTL:       cfg.Bot.SessionTTL,
		ShareBaseURL:     cfg.Server.PublicURL,
		ApplyURLTemplate: cfg.API.ApplyURLTemplate,
	})
	if err != nil {
		return errors.Wrap(err, "can't create bot")
	}

	ctx := cmd.Context()
	go tgbot.Run(ctx)

	<-ctx.Done()

	log.Info("Shutting down bot...")
	tgbot.Stop()
	log.Info("Bot stopped.")
	return nil
}
