package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// EscalationSweepSpec is the cron spec for the SLA escalation sweep.
	EscalationSweepSpec string
	// EscalationSweepLimit bounds how many overdue tickets one sweep handles.
	EscalationSweepLimit int64
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		JWTSecret:            getEnv("JWT_SECRET", "secret"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:               getEnv("DB_NAME", "go-helpdesk"),
		SkipAuth:             getEnv("SKIP_AUTH", "false") == "true",
		Environment:          getEnv("ENVIRONMENT", "development"),
		AppId:                getEnv("APP_ID", "go-helpdesk"),
		EscalationSweepSpec:  getEnv("ESCALATION_SWEEP_SPEC", "@every 5m"),
		EscalationSweepLimit: getEnvInt64("ESCALATION_SWEEP_LIMIT", 500),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
