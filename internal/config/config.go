package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env               string
	Port              string
	DatabaseURL       string
	RedisURL          string
	SettlementTimeout time.Duration // bound on one settlement round-trip
	CommitRetries     int           // retry budget for the idempotent commit step
	TenantCacheTTL    time.Duration // resolved tenant rows cached in Redis
	StalePendingAfter time.Duration // pending transactions older than this are swept
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	return &Config{
		Env:               env,
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          viper.GetString("REDIS_URL"),
		SettlementTimeout: durationOr("SETTLEMENT_TIMEOUT", 15*time.Second),
		CommitRetries:     intOr("COMMIT_RETRIES", 3),
		TenantCacheTTL:    durationOr("TENANT_CACHE_TTL", 5*time.Minute),
		StalePendingAfter: durationOr("STALE_PENDING_AFTER", time.Minute),
	}, nil
}

func durationOr(key string, def time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return def
}

func intOr(key string, def int) int {
	if n := viper.GetInt(key); n > 0 {
		return n
	}
	return def
}
