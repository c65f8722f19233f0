package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/c4-minimax/internal/domain"
	"github.com/iamasit07/c4-minimax/internal/logging"
)

type Config struct {
	Port                 string
	BoardSize            int
	BotDepth             int
	BotDifficulty        string
	AnalysisMaxDepth     int
	AllowedOrigins       []string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	LiveGameTTL          time.Duration
	FrontendURL          string
	JWTSecret            string
	GuestTokenTTL        time.Duration
	Environment          string
	LogLevel             string
	LogFormat            string
}

const MaxBotDepth = 12

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOriginsStr := GetEnv("ALLOWED_ORIGINS", "")

	// Build allowed origins list (Frontend URL + Localhost + CSV values)
	allowedOrigins := []string{
		frontendURL,
		"http://localhost:5173", // Local development
	}
	if allowedOriginsStr != "" {
		extras := strings.Split(allowedOriginsStr, ",")
		for _, origin := range extras {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	AppConfig = &Config{
		Port:                 port,
		BoardSize:            GetEnvAsInt("BOARD_SIZE", domain.DefaultSize),
		BotDepth:             GetEnvAsInt("BOT_DEPTH", 8),
		BotDifficulty:        GetEnv("BOT_DIFFICULTY", "hard"),
		AnalysisMaxDepth:     GetEnvAsInt("ANALYSIS_MAX_DEPTH", 8),
		AllowedOrigins:       allowedOrigins,
		DatabaseURL:          GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", "")),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", ""),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		LiveGameTTL:          GetEnvAsDuration("LIVE_GAME_TTL_MINUTES", 60, time.Minute),
		FrontendURL:          frontendURL,
		JWTSecret:            GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		GuestTokenTTL:        GetEnvAsDuration("GUEST_TOKEN_TTL_HOURS", 24, time.Hour),
		Environment:          GetEnv("ENVIRONMENT", "development"),
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		LogFormat:            GetEnv("LOG_FORMAT", "console"),
	}

	return AppConfig
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.BoardSize < domain.MinSize || c.BoardSize > domain.MaxSize {
		return fmt.Errorf("%w: BOARD_SIZE=%d (allowed %d..%d)", domain.ErrInvalidSize, c.BoardSize, domain.MinSize, domain.MaxSize)
	}
	if c.BotDepth < 1 || c.BotDepth > MaxBotDepth {
		return fmt.Errorf("%w: BOT_DEPTH=%d (allowed 1..%d)", domain.ErrInvalidDepth, c.BotDepth, MaxBotDepth)
	}
	if c.AnalysisMaxDepth < 1 || c.AnalysisMaxDepth > MaxBotDepth {
		return fmt.Errorf("%w: ANALYSIS_MAX_DEPTH=%d (allowed 1..%d)", domain.ErrInvalidDepth, c.AnalysisMaxDepth, MaxBotDepth)
	}
	switch c.BotDifficulty {
	case "easy", "medium", "hard":
	default:
		return fmt.Errorf("%w: BOT_DIFFICULTY=%q", domain.ErrInvalidDifficulty, c.BotDifficulty)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logging.Component("config").Warn().Str("key", key).Str("value", valueStr).
			Msgf("invalid integer value, using default: %d", defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvAsInt(key, defaultValue)) * unit
}
