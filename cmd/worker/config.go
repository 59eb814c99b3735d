package main

import (
	"log"
	"os"
	"strconv"
)

// Config holds worker-local settings; the shared container carries the
// rest.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	HealthPort    string
}

func loadConfig() *Config {
	cfg := &Config{
		RedisAddr:     getEnv("REDIS_HOST", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		HealthPort:    getEnv("WORKER_HEALTH_PORT", "9999"),
	}
	log.Printf("worker config: redis=%s db=%d", cfg.RedisAddr, cfg.RedisDB)
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
