package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Token string // Required: credential presented on identify and REST calls

	APIBaseURL string        // Optional: REST base URL (default: https://api.bartab.dev)
	GatewayURL string        // Optional: gateway websocket URL (default: wss://gateway.bartab.dev)
	Shards     int           // Optional: number of gateway connections (default: 1)
	StateFile  string        // Optional: path to SQLite snapshot file, empty disables persistence
	ReadyWait  time.Duration // Optional: how long Connect waits for every shard handshake (default: 30s)
	Env        string        // Environment (dev, staging, prod) (default: dev)
	LogLevel   string        // Log level (debug, info, warn, error) (default: info)
	LogFormat  string        // Log format (json, text) (default: text)
}

func LoadConfig() Config {
	return Config{
		Token:      os.Getenv("SDK_TOKEN"),
		APIBaseURL: getEnvOrDefault("SDK_API_URL", "https://api.bartab.dev"),
		GatewayURL: getEnvOrDefault("SDK_GATEWAY_URL", "wss://gateway.bartab.dev"),
		Shards:     getEnvIntOrDefault("SDK_SHARDS", 1),
		StateFile:  os.Getenv("SDK_STATE_FILE"),
		ReadyWait:  getEnvDurationOrDefault("SDK_READY_WAIT", 30*time.Second),
		Env:        getEnvOrDefault("ENV", "dev"),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:  getEnvOrDefault("LOG_FORMAT", "text"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
