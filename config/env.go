package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	LLMProvider   string // gemini | openai | proxy
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	ProxyURL      string
	ProxyLegacy   bool
	LLMTimeout    time.Duration

	StoreBackend      string // supabase | sqlite
	SupabaseURL       string
	SupabaseKey       string
	SupabaseJWTSecret string
	SQLitePath        string

	Timezone        string
	DefaultLanguage string
	SessionTTL      time.Duration
}

// Load environment variables and handle errors

func LoadEnv() {
	err := godotenv.Load()

	if err != nil {
		Logger.Warn("Error loading .env file, will use environment variables instead:", err)
		// Don't call Fatal here - continue execution
	}
}

// Load reads the process environment into a Config.
func Load() Config {
	return Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ProxyURL:      getEnv("PROXY_URL", ""),
		ProxyLegacy:   getEnvAsBool("PROXY_LEGACY", false),
		LLMTimeout:    getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),

		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", "supabase")),
		SupabaseURL:       getEnv("SUPABASE_URL", ""),
		SupabaseKey:       getEnv("SUPABASE_KEY", ""),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		SQLitePath:        getEnv("SQLITE_PATH", "simpliday.db"),

		Timezone:        getEnv("TIMEZONE", "Local"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 2*time.Hour),
	}
}

// Validate checks that the selected backends have their credentials.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
	case "openai":
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
	case "proxy":
		if c.ProxyURL == "" {
			return fmt.Errorf("PROXY_URL not set")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q (supported: gemini, openai, proxy)", c.LLMProvider)
	}

	switch c.StoreBackend {
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH not set")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q (supported: supabase, sqlite)", c.StoreBackend)
	}
	return nil
}

// Location resolves the configured timezone, falling back to the host zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		Logger.Warnf("Unknown TIMEZONE %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	Logger.Warnf("Invalid duration for %s: %q, using default %s", key, valueStr, defaultValue)
	return defaultValue
}
