package config

import (
	"github.com/spf13/viper"
	"time"
)

type APIConfig struct {
	BaseURL              string        `mapstructure:"base_url" validate:"required,url"`
	Timeout              time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRequestsPerSecond float32       `mapstructure:"max_requests_per_second" validate:"gte=0"`
	ApplyURLTemplate     string        `mapstructure:"apply_url_template" validate:"required"`
	LookupCacheTTL       time.Duration `mapstructure:"lookup_cache_ttl" validate:"gte=0"`
}

func (config APIConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"api.base_url":                "API_BASE_URL",
		"api.timeout":                 "API_TIMEOUT",
		"api.max_requests_per_second": "API_MAX_REQUESTS_PER_SECOND",
		"api.apply_url_template":      "API_APPLY_URL_TEMPLATE",
		"api.lookup_cache_ttl":        "API_LOOKUP_CACHE_TTL",
	})
}
