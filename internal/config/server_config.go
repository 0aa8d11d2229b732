package config

import "github.com/spf13/viper"

type ServerConfig struct {
	Addr        string `mapstructure:"addr" validate:"required"`
	MetricsAddr string `mapstructure:"metrics_addr" validate:"required"`
	PublicURL   string `mapstructure:"public_url" validate:"required,url"`
}

func (config ServerConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return bindAll(v, map[string]string{
		"server.addr":         "SERVER_ADDR",
		"server.metrics_addr": "METRICS_ADDR",
		"server.public_url":   "PUBLIC_URL",
	})
}
