package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	RedisURL            string
	BannedNumbersSource string
	HTTPAddr            string

	BroadcastCapacity int
	WaitTimeout       time.Duration
	ObserverHeartbeat time.Duration
}

func Load() (Config, error) {
	// Optional: load local .env for development. Missing file is fine.
	_ = godotenv.Load()

	capacity := getenvIntDefault("BROADCAST_CAPACITY", 10)
	if capacity < 1 {
		capacity = 1
	}

	waitSecs := getenvIntDefault("WAIT_TIMEOUT_SECS", 30)
	if waitSecs < 1 {
		waitSecs = 1
	}

	heartbeatSecs := getenvIntDefault("OBSERVER_HEARTBEAT_SECS", 5)
	if heartbeatSecs < 1 {
		heartbeatSecs = 1
	}

	cfg := Config{
		RedisURL:            os.Getenv("REDIS_URL"),
		BannedNumbersSource: os.Getenv("BANNED_NUMBERS_SOURCE"),
		HTTPAddr:            getenvDefault("RANDHUB_HTTP_ADDR", "0.0.0.0:8080"),

		BroadcastCapacity: capacity,
		WaitTimeout:       time.Duration(waitSecs) * time.Second,
		ObserverHeartbeat: time.Duration(heartbeatSecs) * time.Second,
	}

	if cfg.RedisURL == "" {
		return Config{}, errors.New("REDIS_URL is required")
	}
	if cfg.BannedNumbersSource == "" {
		return Config{}, errors.New("BANNED_NUMBERS_SOURCE is required")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvIntDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
