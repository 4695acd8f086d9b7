package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

type Config struct {
	Port               string
	Storage            string
	LogLevel           string
	LogDevelopment     bool
	Seed               bool
	SeedFile           string
	SubscriptionBuffer int
	CORSOrigins        []string
}

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found")
	}
}

// Load builds the configuration from the environment, falling back to
// defaults for unset variables.
func Load() *Config {
	return &Config{
		Port:               GetEnv("PORT", "8080"),
		Storage:            GetEnv("STORAGE", StorageMemory),
		LogLevel:           GetEnv("LOG_LEVEL", "info"),
		LogDevelopment:     getBool("LOG_DEVELOPMENT", false),
		Seed:               getBool("SEED", true),
		SeedFile:           GetEnv("SEED_FILE", ""),
		SubscriptionBuffer: getInt("SUBSCRIPTION_BUFFER", 16),
		CORSOrigins:        splitList(GetEnv("CORS_ORIGINS", "*")),
	}
}

func GetEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
