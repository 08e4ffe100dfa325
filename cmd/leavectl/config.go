package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	API struct {
		BaseURL string
	}
	Token struct {
		DB string
	}
}

func readConfig() (Config, error) {
	viper.SetConfigName("leavectl")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.config/leavectl")
	viper.AddConfigPath(".")

	viper.SetDefault("api.baseurl", "http://localhost:8081/api")
	viper.SetDefault("token.db", defaultTokenDB())

	viper.SetEnvPrefix("LEAVECTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("can't read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("can't unmarshal config: %w", err)
	}

	return cfg, nil
}

func defaultTokenDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "leavectl-session.db"
	}
	return filepath.Join(home, ".config", "leavectl", "session.db")
}
