package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"

	"focusloop/internal/ipc"
)

type Config struct {
	DatabasePath         string `mapstructure:"database_path"`
	SocketPath           string `mapstructure:"socket_path"`
	NotificationsEnabled bool   `mapstructure:"notifications_enabled"`
}

func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/focusloop")
		viper.AddConfigPath("/etc/focusloop/")
	}

	viper.SetEnvPrefix("FOCUSLOOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("database_path", "focusloop.db")
	viper.SetDefault("socket_path", ipc.DefaultSocketPath)
	viper.SetDefault("notifications_enabled", true)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using defaults.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.SocketPath == "" {
		log.Println("Warning: empty socket_path, using default")
		cfg.SocketPath = ipc.DefaultSocketPath
	}
	if cfg.DatabasePath == "" {
		log.Println("Warning: empty database_path, using default")
		cfg.DatabasePath = "focusloop.db"
	}

	log.Printf("Configuration loaded: %+v", cfg)
	return &cfg, nil
}
