package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime configuration values for the bookkeeping core.
type Config struct {
	AppName     string
	AppEnv      string
	DatabaseURL string
	BcryptCost  int
	SessionFile string
}

// Load reads configuration values from environment variables and an optional
// .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CASHBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Cashbook")
	v.SetDefault("app.env", "development")
	v.SetDefault("database.url", "cashbook.db")
	v.SetDefault("bcrypt.cost", bcrypt.DefaultCost)
	v.SetDefault("session.file", "session.json")

	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppEnv:      v.GetString("app.env"),
		DatabaseURL: v.GetString("database.url"),
		BcryptCost:  v.GetInt("bcrypt.cost"),
		SessionFile: v.GetString("session.file"),
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("bcrypt cost %d outside valid range [%d, %d]", cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must not be empty")
	}

	return cfg, nil
}
