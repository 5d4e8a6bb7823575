package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Store backends.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendSheets   = "sheets"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Backend string

	SupabaseURL   string
	SupabaseKey   string
	SupabaseTable string
	DatabaseURL   string

	SheetsSpreadsheetID   string
	SheetsRange           string
	GoogleCredentialsFile string

	TelegramToken string
	BotDebug      bool
	UpdateTimeout int

	HTTPAddr       string
	AllowOrigins   []string
	RequestTimeout time.Duration
	CalendarLocale string

	LogLevel  string
	LogFormat string
}

var instance *Config
var once sync.Once

// Get returns the process-wide configuration, loaded on first use.
func Get() *Config {
	once.Do(func() {
		instance = Load()
	})

	return instance
}

// Load reads the environment, after loading a .env file when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("error loading .env file: %s", err.Error())
	}

	return &Config{
		Backend: strings.ToLower(getEnv("STORE_BACKEND", BackendSupabase)),

		SupabaseURL:   getEnv("SUPABASE_URL", ""),
		SupabaseKey:   getEnv("SUPABASE_KEY", ""),
		SupabaseTable: getEnv("SUPABASE_TABLE", "planejamento_ferias"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),

		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsRange:           getEnv("SHEETS_RANGE", "Sheet1"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),

		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		BotDebug:      getEnvAsBool("BOT_DEBUG", false),
		UpdateTimeout: int(getEnvAsInt("TELEGRAM_UPDATE_TIMEOUT", 60)),

		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		AllowOrigins:   strings.Fields(getEnv("CORS_ALLOW_ORIGINS", "")),
		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		CalendarLocale: getEnv("CALENDAR_LOCALE", "pt-BR"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the %s backend", c.Backend)
		}
	case BackendPostgres, BackendSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", c.Backend)
		}
	case BackendSheets:
		if c.SheetsSpreadsheetID == "" {
			return fmt.Errorf("SHEETS_SPREADSHEET_ID is required for the %s backend", c.Backend)
		}
		if c.GoogleCredentialsFile == "" {
			return fmt.Errorf("GOOGLE_CREDENTIALS_FILE is required for the %s backend", c.Backend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %s, %s, %s or %s)",
			c.Backend, BackendSupabase, BackendPostgres, BackendSheets, BackendSQLite)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// ValidateBot checks the settings needed by the Telegram bot.
func (c *Config) ValidateBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("could not get bot token: TELEGRAM_BOT_TOKEN is empty")
	}
	return nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}
	if val, err := strconv.Atoi(valStr); err == nil {
		return time.Duration(val) * time.Second
	}

	return defaultVal
}
