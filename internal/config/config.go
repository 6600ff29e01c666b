package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string

	TelegramBotToken  string
	TelegramChatID    string
	TelegramAPIURL    string
	TelegramParseMode string
	TelegramTimeout   time.Duration

	BotPollEnabled bool
	BotPollTimeout time.Duration

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

const (
	ParseModeHTML  = "html"
	ParseModePlain = "plain"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	dbType := strings.ToLower(getenv("DATABASE_TYPE", "sqlite"))
	dbName := getenv("DATABASE_NAME", "")
	if dbName == "" {
		if dbType == "sqlite" {
			dbName = "conversions.db"
		} else {
			dbName = "convtrack"
		}
	}

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "convtrack"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),

		HTTPAddr: httpAddr(),

		TelegramBotToken:  strings.TrimSpace(getenv("TELEGRAM_BOT_TOKEN", "")),
		TelegramChatID:    strings.TrimSpace(getenv("TELEGRAM_CHAT_ID", "")),
		TelegramAPIURL:    strings.TrimRight(getenv("TELEGRAM_API_URL", "https://api.telegram.org"), "/"),
		TelegramParseMode: normalizeParseMode(getenv("TELEGRAM_PARSE_MODE", ParseModeHTML)),
		TelegramTimeout:   time.Duration(getenvInt("TELEGRAM_TIMEOUT_SECONDS", 30)) * time.Second,

		BotPollEnabled: getenvBool("BOT_POLL_ENABLED", true),
		BotPollTimeout: time.Duration(getenvInt("BOT_POLL_TIMEOUT_SECONDS", 25)) * time.Second,

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            dbType,
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            dbName,
		DBUser:            getenv("DATABASE_USER", "convtrack"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),
	}

	return cfg
}

// TelegramEnabled reports whether live Telegram delivery is configured.
func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// httpAddr resolves the listen address. PORT is honored for parity with the
// hosting environments the service historically ran on.
func httpAddr() string {
	if addr := strings.TrimSpace(os.Getenv("HTTP_ADDR")); addr != "" {
		return addr
	}
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return ":" + port
	}
	return ":8080"
}

func normalizeParseMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ParseModePlain, "text", "none":
		return ParseModePlain
	default:
		return ParseModeHTML
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
