package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"os"
	"time"
)

type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	API    APIConfig    `mapstructure:"api"`
	Bot    BotConfig    `mapstructure:"bot"`
	Server ServerConfig `mapstructure:"server"`
}

var configFile = "./configs/config.yaml"

var validate = validator.New()

func Get() *Config {

	file := configFile
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		file = value
	}

	config, err := Load(file)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

// Load reads file if it exists, applies environment overrides and defaults and
// validates the result.
func Load(file string) (*Config, error) {

	v := viper.New()
	setDefaults(v)

	if err := bindEnvironmentVariables(v); err != nil {
		return nil, err
	}

	if _, err := os.Stat(file); err == nil {
		v.SetConfigFile(file)
		if err = v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", file, err)
		}
	} else {
		log.Debugf("config file %s not found, using defaults and environment", file)
	}

	config := Config{}
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.log_level", string(LevelInfo))
	v.SetDefault("logger.output_file", "./logs/jobboard.log")
	v.SetDefault("logger.app_name", "jobboard")
	v.SetDefault("api.base_url", "https://teknorix.jobsoid.com/api/v1")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.max_requests_per_second", 0)
	v.SetDefault("api.apply_url_template", "https://jobs.teknorix.com/apply/%d")
	v.SetDefault("api.lookup_cache_ttl", 10*time.Minute)
	v.SetDefault("bot.search_debounce", 2*time.Second)
	v.SetDefault("bot.session_ttl", 30*time.Minute)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_addr", ":9090")
	v.SetDefault("server.public_url", "http://localhost:8080")
}

func bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error

	logger, api, bot, server := LoggerConfig{}, APIConfig{}, BotConfig{}, ServerConfig{}

	if err := logger.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := api.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("APIConfig: %w", err))
	}

	if err := bot.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("BotConfig: %w", err))
	}

	if err := server.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("ServerConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

// validate checks every section except the bot token, which only the bot
// command needs (see BotConfig.RequireToken).
func (config Config) validate() error {
	var errs []error

	if err := validate.Struct(config.Logger); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := validate.Struct(config.API); err != nil {
		errs = append(errs, fmt.Errorf("APIConfig: %w", err))
	}

	if err := validate.Struct(config.Bot); err != nil {
		errs = append(errs, fmt.Errorf("BotConfig: %w", err))
	}

	if err := validate.Struct(config.Server); err != nil {
		errs = append(errs, fmt.Errorf("ServerConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func bindAll(v *viper.Viper, bindings map[string]string) error {
	var errs []error
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
