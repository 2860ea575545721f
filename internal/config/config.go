package config

import (
	"errors"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	DBType string // file | postgres
	DBDSN  string

	FileSleep      string
	FileHabits     string
	FileMeals      string
	FileWorkouts   string
	FileLife       string
	FileReviews    string
	FileUsers      string

	AuthServiceURL string
	LocalToken     string

	// Import pipeline tunables.
	ImportChunkBytes int // streaming read chunk size
	ImportBatchSize  int // rows per upsert batch
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		// Missing .env is fine; system env vars still apply.
		_ = godotenv.Load()
		cfg = &Config{
			Env:              getEnv("APP_ENV", "development"),
			LogLevel:         getEnv("LOG_LEVEL", "info"),
			HTTPAddr:         getEnv("HTTP_ADDR", ":8088"),
			DBType:           getEnv("STORAGE_BACKEND", "file"),
			DBDSN:            getEnv("POSTGRES_DSN", ""),
			FileSleep:        getEnv("SLEEP_FILE", "data/sleep_logs.json"),
			FileHabits:       getEnv("HABITS_FILE", "data/habit_logs.json"),
			FileMeals:        getEnv("MEALS_FILE", "data/meals.json"),
			FileWorkouts:     getEnv("WORKOUTS_FILE", "data/workouts.json"),
			FileLife:         getEnv("LIFE_FILE", "data/life.json"),
			FileReviews:      getEnv("REVIEWS_FILE", "data/reviews.json"),
			FileUsers:        getEnv("USERS_FILE", "data/users.json"),
			AuthServiceURL:   getEnv("AUTH_SERVICE_URL", ""),
			LocalToken:       getEnv("LOCAL_TOKEN", "MOCK-TOKEN"),
			ImportChunkBytes: getEnvInt("IMPORT_CHUNK_BYTES", 256*1024),
			ImportBatchSize:  getEnvInt("IMPORT_BATCH_SIZE", 150),
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && (c.FileSleep == "" || c.FileHabits == "") {
		return errors.New("file storage requires SLEEP_FILE and HABITS_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	if c.ImportChunkBytes <= 0 || c.ImportBatchSize <= 0 {
		return errors.New("import tunables must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
