package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Audit input
	CountryURL  string
	BaseDomain  string
	ReportTitle string

	// Render mode (headless browser)
	RenderMode     bool
	BrowserChannel string
	ChromeBin      string
	ClickPauseMs   int
	LoadMoreCycles int
	ScrollSteps    int
	ScrollDelta    int

	// LLM
	OpenAIKey        string
	OpenAIModel      string
	SafetyMode       string
	MaxCallsPerHotel int

	// Networking
	MaxRetries     int
	RateLimitMs    int
	MaxConcurrency int

	// Output
	CSVOutputPath string
	WorkbookDir   string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		CountryURL:  getEnv("COUNTRY_URL", "https://www.leonardo-hotels.com/germany"),
		BaseDomain:  getEnv("BASE_DOMAIN", "www.leonardo-hotels.com"),
		ReportTitle: getEnv("REPORT_TITLE", "FAQ Audit"),

		RenderMode:     getEnv("FAQ_AUDIT_RENDER", "") == "1",
		BrowserChannel: getEnv("FAQ_AUDIT_BROWSER_CHANNEL", ""),
		ChromeBin:      getEnv("CHROME_BIN", ""),
		ClickPauseMs:   getEnvInt("FAQ_AUDIT_CLICK_PAUSE_MS", 120),
		LoadMoreCycles: getEnvInt("FAQ_AUDIT_LOADMORE_CYCLES", 8),
		ScrollSteps:    getEnvInt("FAQ_AUDIT_SCROLL_STEPS", 12),
		ScrollDelta:    getEnvInt("FAQ_AUDIT_SCROLL_DELTA", 1400),

		OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o"),
		SafetyMode:       getEnv("SAFETY_MODE", "default"),
		MaxCallsPerHotel: clampInt(getEnvInt("FAQ_AUDIT_MAX_CALLS_PER_HOTEL", 1), 1, 6),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 1500),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/audit.csv"),
		WorkbookDir:   getEnv("WORKBOOK_DIR", "./output/workbooks"),

		PostgresEnabled:  getEnv("POSTGRES_ENABLED", "") == "1",
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "auditor"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "auditor123"),
		PostgresDB:       getEnv("POSTGRES_DB", "faq_audit"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
