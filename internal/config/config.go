package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-level configuration loaded from the environment.
// Operator-tunable settings (mail credentials, check interval) live in the
// settings table instead and are managed through the web interface.
type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	SMTPHost string
	SMTPPort int

	ScanTimeoutSec int // per-profile adapter budget
	ScanDelayMs    int // polite delay between profile scans
	MaxResults     int // candidate cap per search page
	ChromeBin      string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using system env vars")
	}

	cfg := Config{
		Port:           getEnv("PORT", "5000"),
		DBDSN:          getEnv("DB_DSN", "propwatch.db"),
		LogFile:        getEnv("LOG_FILE", "./propwatch.log"),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnvInt("SMTP_PORT", 465),
		ScanTimeoutSec: getEnvInt("SCAN_TIMEOUT_SEC", 60),
		ScanDelayMs:    getEnvInt("SCAN_DELAY_MS", 2000),
		MaxResults:     getEnvInt("MAX_RESULTS_PER_SEARCH", 20),
		ChromeBin:      getEnv("CHROME_BIN", ""),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s SMTP=%s:%d LOG_FILE=%s",
		cfg.Port, cfg.DBDSN, cfg.SMTPHost, cfg.SMTPPort, cfg.LogFile)
	return cfg
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
