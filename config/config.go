package config

import (
	"os"
	"strconv"
	"strings"

	"salesdash/analytics"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	AI        AIConfig
	Mail      MailConfig
	Analytics analytics.Config
}

type ServerConfig struct {
	AppEnv      string
	Addr        string
	CORSOrigins string
	Timezone    string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// DatabaseConfig selects the store. Driver is "postgres", "mysql" or "memory".
type DatabaseConfig struct {
	Driver        string
	URL           string
	MaxConns      int
	RunMigrations bool
}

type JWTConfig struct {
	Secret string
}

// AIConfig selects the chat provider: "gemini", "nim" or empty for the
// built-in responder.
type AIConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	NIMAPIKey    string
	NIMBaseURL   string
	NIMModel     string
	TimeoutSec   int
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether SMTP credentials are configured.
func (m MailConfig) Enabled() bool {
	return m.Username != "" && m.Password != ""
}

// AppConfig holds the application-wide configuration.
var AppConfig Config

// Load reads the configuration from the environment.
func Load() Config {
	a := analytics.DefaultConfig()
	return Config{
		Server: ServerConfig{
			AppEnv:      getEnv("APP_ENV", "dev"),
			Addr:        getEnv("HTTP_ADDR", ":3000"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			Timezone:    getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Database: DatabaseConfig{
			Driver:        strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:           getEnv("DATABASE_URL", ""),
			MaxConns:      getEnvInt("DB_MAX_CONNS", 10),
			RunMigrations: getEnvBool("DB_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		AI: AIConfig{
			Provider:     strings.ToLower(getEnv("AI_PROVIDER", "")),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			NIMAPIKey:    getEnv("NVIDIA_NIM_API_KEY", ""),
			NIMBaseURL:   getEnv("NVIDIA_NIM_BASE_URL", "https://integrate.api.nvidia.com/v1"),
			NIMModel:     getEnv("NVIDIA_NIM_MODEL", "meta/llama-3.1-8b-instruct"),
			TimeoutSec:   getEnvInt("AI_TIMEOUT_SECONDS", 30),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		Analytics: analytics.Config{
			WindowDays:    getEnvInt("ANALYTICS_WINDOW_DAYS", a.WindowDays),
			VelocityBasis: getEnv("ANALYTICS_VELOCITY_BASIS", a.VelocityBasis),

			TrendBandPct:      getEnvFloat("ANALYTICS_TREND_BAND_PCT", a.TrendBandPct),
			SlowMoverQuantity: getEnvInt("ANALYTICS_SLOW_MOVER_QTY", a.SlowMoverQuantity),
			AnomalyMinDays:    getEnvInt("ANALYTICS_ANOMALY_MIN_DAYS", a.AnomalyMinDays),
			AnomalySigma:      getEnvFloat("ANALYTICS_ANOMALY_SIGMA", a.AnomalySigma),

			RestockHorizonDays:   getEnvInt("ANALYTICS_RESTOCK_HORIZON_DAYS", a.RestockHorizonDays),
			CriticalStockFactor:  getEnvFloat("ANALYTICS_CRITICAL_STOCK_FACTOR", a.CriticalStockFactor),
			OverstockFactor:      getEnvFloat("ANALYTICS_OVERSTOCK_FACTOR", a.OverstockFactor),
			RestockMinConfidence: getEnvFloat("ANALYTICS_RESTOCK_MIN_CONFIDENCE", a.RestockMinConfidence),

			PriceTrendPct:          getEnvFloat("ANALYTICS_PRICE_TREND_PCT", a.PriceTrendPct),
			MarginRatio:            getEnvFloat("ANALYTICS_MARGIN_RATIO", a.MarginRatio),
			ExpansionTrendPct:      getEnvFloat("ANALYTICS_EXPANSION_TREND_PCT", a.ExpansionTrendPct),
			ExpansionMinConfidence: getEnvFloat("ANALYTICS_EXPANSION_MIN_CONFIDENCE", a.ExpansionMinConfidence),

			LowStockRatio:        getEnvFloat("ANALYTICS_LOW_STOCK_RATIO", a.LowStockRatio),
			LowStockNormalizer:   getEnvFloat("ANALYTICS_LOW_STOCK_NORMALIZER", a.LowStockNormalizer),
			LowSalesTransactions: getEnvInt("ANALYTICS_LOW_SALES_TRANSACTIONS", a.LowSalesTransactions),
			RecentDays:           getEnvInt("ANALYTICS_RECENT_DAYS", a.RecentDays),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
