package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"

	minSecretLength = 16
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port        string
	DataBackend string

	PostgresDSN   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string

	JWTSecret string
	JWTTTL    time.Duration

	AuthRateLimit  int
	AuthRateWindow time.Duration

	CORSOrigins []string
	LogLevel    string
	LogFormat   string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() *Config {
	_ = godotenv.Load()

	backend := strings.ToLower(getenv("DATA_BACKEND", BackendMongo))
	redisDefault := "redis:6379"
	if backend == BackendMemory {
		redisDefault = ""
	}

	return &Config{
		Port:          getenv("PORT", "5000"),
		DataBackend:   backend,
		PostgresDSN:   getenv("POSTGRES_DSN", ""),
		MongoURI:      getenv("MONGO_URI", ""),
		MongoDB:       getenv("MONGO_DB", "flowbit"),
		RedisAddr:     getenv("REDIS_ADDR", redisDefault),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		JWTSecret: getenv("JWT_SECRET", ""),
		JWTTTL:    getenvDuration("JWT_TTL", 30*24*time.Hour),

		AuthRateLimit:  getenvInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getenvDuration("AUTH_RATE_WINDOW", time.Minute),

		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "text"),
	}
}

// Validate reports every problem at once so a broken deployment shows all of them.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendMongo:
		if c.PostgresDSN == "" {
			problems = append(problems, "POSTGRES_DSN is required for the mongo backend")
		}
		if c.MongoURI == "" {
			problems = append(problems, "MONGO_URI is required for the mongo backend")
		}
		if c.MongoDB == "" {
			problems = append(problems, "MONGO_DB cannot be empty")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]",
			c.DataBackend, BackendMongo, BackendMemory))
	}

	if len(c.JWTSecret) < minSecretLength {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d characters", minSecretLength))
	}
	if c.JWTTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid JWT_TTL %v: must be positive", c.JWTTTL))
	}
	if c.AuthRateLimit < 1 {
		problems = append(problems, fmt.Sprintf("invalid AUTH_RATE_LIMIT %d: must be at least 1", c.AuthRateLimit))
	}
	if c.AuthRateWindow < time.Second {
		problems = append(problems, fmt.Sprintf("invalid AUTH_RATE_WINDOW %v: must be at least 1 second", c.AuthRateWindow))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getenvDuration accepts Go durations plus a day suffix ("30d").
func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if days, ok := strings.CutSuffix(v, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil {
			return time.Duration(n) * 24 * time.Hour
		}
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
