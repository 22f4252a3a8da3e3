package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	CronSpec     string
	FetchTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		AppPort:      getEnv("APP_PORT", "9000"),
		PostgresDSN:  getEnv("POSTGRES_DSN", "host=localhost user=cryptohub password=cryptohub dbname=cryptohub port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		CronSpec:     getEnv("CRON_SPEC", "*/30 * * * *"),
		FetchTimeout: time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 15)) * time.Second,
	}

	log.Printf("config loaded: port=%s cron=%s fetch_timeout=%s", cfg.AppPort, cfg.CronSpec, cfg.FetchTimeout)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
