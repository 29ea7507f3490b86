package config

import (
	"os"
	"strconv"
)

type Endpoints struct {
	Login      string
	Register   string
	AuthCheck  string
	Logout     string
	Chat       string
	LegacyChat string
	Estimates  string
	Gallery    string
}

type Config struct {
	BaseURL   string
	APIKey    string
	CachePath string
	LogLevel  string
	DemoMode  bool
	DemoAddr  string
	Endpoints Endpoints
}

func Load() *Config {
	cfg := &Config{
		BaseURL:   getEnv("PCBUILDER_BASE_URL", "http://localhost:8081"),
		APIKey:    getEnv("PCBUILDER_API_KEY", "dev-api-key"),
		CachePath: getEnv("CACHE_PATH", "pcbuilder.db"),
		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		DemoMode:  getEnvBool("DEMO_MODE", false),
		DemoAddr:  getEnv("DEMO_ADDR", "127.0.0.1:8081"),
		Endpoints: Endpoints{
			Login:      getEnv("ENDPOINT_LOGIN", "/api/login"),
			Register:   getEnv("ENDPOINT_REGISTER", "/api/register"),
			AuthCheck:  getEnv("ENDPOINT_AUTH_CHECK", "/api/auth/check"),
			Logout:     getEnv("ENDPOINT_LOGOUT", "/api/logout"),
			Chat:       getEnv("ENDPOINT_CHAT", "/api/chat"),
			LegacyChat: getEnv("ENDPOINT_LEGACY_CHAT", "/api/ai/chat"),
			Estimates:  getEnv("ENDPOINT_ESTIMATES", "/api/estimate"),
			Gallery:    getEnv("ENDPOINT_GALLERY", "/api/estimate/all"),
		},
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
