package config

import (
	"errors"
	"github.com/spf13/viper"
	"time"
)

type BotConfig struct {
	Token          string        `mapstructure:"token"`
	SearchDebounce time.Duration `mapstructure:"search_debounce" validate:"gt=0"`
	SessionTTL     time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
}

func (config BotConfig) RequireToken() error {
	if config.Token == "" {
		return errors.New("missing required variable: token")
	}
	return nil
}

func (config BotConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"bot.token":           "TG_TOKEN",
		"bot.search_debounce": "SEARCH_DEBOUNCE",
		"bot.session_ttl":     "SESSION_TTL",
	})
}
