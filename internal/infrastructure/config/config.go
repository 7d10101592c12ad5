package config

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Storage
	DBPath        string
	QuestionsPath string // empty = embedded dataset
	QuizLength    int

	// Current-session slot
	SessionBackend string // "sqlite" or "redis"
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionTTL     time.Duration // 0 = no expiry

	LogLevel slog.Level
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:   getenvDefault("SERVER_ADDRESS", "127.0.0.1:8080"),
		ShutdownTimeout: getDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		DBPath:          getenvDefault("DB_PATH", "antigolpes.db"),
		QuestionsPath:   os.Getenv("QUESTIONS_PATH"),
		QuizLength:      getIntDefault("QUIZ_LENGTH", 10),
		SessionBackend:  getenvDefault("SESSION_BACKEND", SessionBackendSQLite),
		RedisAddr:       getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getIntDefault("REDIS_DB", 0),
		SessionTTL:      getDurationDefault("SESSION_TTL", 0),
		LogLevel:        getLevelDefault("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.QuizLength <= 0 {
		log.Fatalf("config: QUIZ_LENGTH must be positive, got %d", cfg.QuizLength)
	}
	switch cfg.SessionBackend {
	case SessionBackendSQLite, SessionBackendRedis:
	default:
		log.Fatalf("config: SESSION_BACKEND=%q must be %q or %q", cfg.SessionBackend, SessionBackendSQLite, SessionBackendRedis)
	}
	return cfg
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getLevelDefault(k string, fallback slog.Level) slog.Level {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		log.Fatalf("config: %s=%q is not a valid log level: %v", k, v, err)
	}
	return level
}
