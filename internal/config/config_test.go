package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:           "5000",
		DataBackend:    BackendMongo,
		PostgresDSN:    "postgres://flowbit@localhost/flowbit",
		MongoURI:       "mongodb://localhost:27017",
		MongoDB:        "flowbit",
		JWTSecret:      "0123456789abcdef0123",
		JWTTTL:         24 * time.Hour,
		AuthRateLimit:  10,
		AuthRateWindow: time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{name: "valid mongo backend", mutate: func(*Config) {}},
		{
			name: "memory backend needs no DSNs",
			mutate: func(c *Config) {
				c.DataBackend = BackendMemory
				c.PostgresDSN, c.MongoURI = "", ""
			},
		},
		{
			name:        "non-numeric port",
			mutate:      func(c *Config) { c.Port = "abc" },
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.DataBackend = "sqlite" },
			errorString: "invalid data backend 'sqlite'",
		},
		{
			name:        "missing postgres dsn",
			mutate:      func(c *Config) { c.PostgresDSN = "" },
			errorString: "POSTGRES_DSN is required",
		},
		{
			name:        "missing mongo uri",
			mutate:      func(c *Config) { c.MongoURI = "" },
			errorString: "MONGO_URI is required",
		},
		{
			name:        "short secret",
			mutate:      func(c *Config) { c.JWTSecret = "short" },
			errorString: "JWT_SECRET must be at least 16 characters",
		},
		{
			name:        "zero ttl",
			mutate:      func(c *Config) { c.JWTTTL = 0 },
			errorString: "invalid JWT_TTL",
		},
		{
			name:        "zero rate limit",
			mutate:      func(c *Config) { c.AuthRateLimit = 0 },
			errorString: "invalid AUTH_RATE_LIMIT 0",
		},
		{
			name:        "tiny rate window",
			mutate:      func(c *Config) { c.AuthRateWindow = time.Millisecond },
			errorString: "invalid AUTH_RATE_WINDOW",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.JWTSecret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATA_BACKEND", "MONGO_DB", "REDIS_ADDR", "JWT_TTL",
		"AUTH_RATE_LIMIT", "AUTH_RATE_WINDOW", "CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, BackendMongo, cfg.DataBackend)
	assert.Equal(t, "flowbit", cfg.MongoDB)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.AuthRateLimit)
	assert.Equal(t, time.Minute, cfg.AuthRateWindow)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATA_BACKEND", "Memory")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("JWT_TTL", "7d")
	t.Setenv("AUTH_RATE_LIMIT", "3")
	t.Setenv("AUTH_RATE_WINDOW", "90s")
	t.Setenv("CORS_ORIGINS", " https://app.example.com , ,https://admin.example.com")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.DataBackend)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 3, cfg.AuthRateLimit)
	assert.Equal(t, 90*time.Second, cfg.AuthRateWindow)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
}

func TestGetenvDuration_BadValuesFallBack(t *testing.T) {
	for _, v := range []string{"soon", "xd", "-"} {
		t.Setenv("FLOWBIT_TEST_DURATION", v)
		assert.Equal(t, time.Hour, getenvDuration("FLOWBIT_TEST_DURATION", time.Hour), v)
	}
}
