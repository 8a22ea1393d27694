package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Universe
	Symbols    string // comma-separated pairs, e.g. "BTC/USDT,ETH/USDT"
	Timeframes string // comma-separated, e.g. "1h,4h"
	Lookback   int    // bars of history kept per series

	// Risk
	BaseCapital        float64
	MaxRiskPerTradePct float64
	DailyTargetPct     float64

	// Evaluation loop
	RefreshIntervalS int
	TradingWindows   string // "HH:MM-HH:MM,..." in Timezone; empty = always on
	Timezone         string

	// Market data
	BinanceBaseURL string
	BinanceWSURL   string
	LiveStream     bool

	// Infrastructure
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KafkaBrokers  string // comma-separated; empty disables Kafka
	KafkaTopic    string
	MetricsAddr   string
	LogLevel      string

	// Notifications
	TelegramBotToken string
	TelegramChatID   string
	WebhookURL       string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Symbols:    getEnv("SYMBOLS", "BTC/USDT"),
		Timeframes: getEnv("TIMEFRAMES", "1h"),
		Lookback:   getEnvInt("LOOKBACK", 300),

		BaseCapital:        getEnvFloat("BASE_CAPITAL", 10000),
		MaxRiskPerTradePct: getEnvFloat("MAX_RISK_PER_TRADE_PCT", 2.0),
		DailyTargetPct:     getEnvFloat("DAILY_TARGET_PCT", 6.0),

		RefreshIntervalS: getEnvInt("REFRESH_INTERVAL_SEC", 60),
		TradingWindows:   getEnv("TRADING_WINDOWS", ""),
		Timezone:         getEnv("TIMEZONE", "UTC"),

		BinanceBaseURL: getEnv("BINANCE_BASE_URL", ""),
		BinanceWSURL:   getEnv("BINANCE_WS_URL", ""),
		LiveStream:     getEnvBool("LIVE_STREAM", false),

		SQLitePath:    getEnv("SQLITE_PATH", "data/signals.db"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "trading.signals"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		WebhookURL:       getEnv("WEBHOOK_URL", ""),
	}
}

// ParseSymbols splits the SYMBOLS list, dropping empty entries.
func (c *Config) ParseSymbols() []string {
	return splitList(c.Symbols)
}

// ParseTimeframes splits the TIMEFRAMES list, dropping empty entries.
func (c *Config) ParseTimeframes() []string {
	return splitList(c.Timeframes)
}

// ParseKafkaBrokers splits the KAFKA_BROKERS list. Empty means disabled.
func (c *Config) ParseKafkaBrokers() []string {
	return splitList(c.KafkaBrokers)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid int for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid float for %s: %q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] invalid bool for %s: %q, using %v", key, v, fallback)
		return fallback
	}
	return b
}
