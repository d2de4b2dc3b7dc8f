package config

import (
	"time"

	"golang-portfolio-advisor/pkg/config"
)

// Scheduler holds the portfolio re-evaluation cadence.
type Scheduler struct {
	Cron               string `mapstructure:"cron"`
	RunOnStart         bool   `mapstructure:"run_on_start"`
	MaxConcurrentUsers int    `mapstructure:"max_concurrent_users"`
}

// Alert holds proximity alert tuning.
type Alert struct {
	Cooldown           time.Duration `mapstructure:"cooldown"`
	ProximityThreshold float64       `mapstructure:"proximity_threshold"`
	Currency           string        `mapstructure:"currency"`
}

// AI selects the text generation provider.
type AI struct {
	Provider string `mapstructure:"provider"`
}

type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

type OpenAI struct {
	BaseURL             string `mapstructure:"base_url"`
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

type PriceCache struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type News struct {
	FeedURL  string `mapstructure:"feed_url"`
	MaxItems int    `mapstructure:"max_items"`
}

type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Config holds the full configuration for the advisor service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Scheduler    Scheduler       `mapstructure:"scheduler"`
	Alert        Alert           `mapstructure:"alert"`
	AI           AI              `mapstructure:"ai"`
	Gemini       Gemini          `mapstructure:"gemini"`
	OpenAI       OpenAI          `mapstructure:"openai"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	PriceCache   PriceCache      `mapstructure:"price_cache"`
	News         News            `mapstructure:"news"`
	Telegram     Telegram        `mapstructure:"telegram"`
	Auth         Auth            `mapstructure:"auth"`
}

// Defaults are applied before the file and environment are read.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":                             "portfolio-advisor",
		"logger.level":                         "info",
		"logger.encoding":                      "json",
		"api.port":                             8080,
		"scheduler.cron":                       "*/5 * * * *",
		"scheduler.run_on_start":               true,
		"scheduler.max_concurrent_users":       1,
		"alert.cooldown":                       "1h",
		"alert.proximity_threshold":            0.005,
		"alert.currency":                       "INR",
		"ai.provider":                          "openai",
		"openai.model":                         "gpt-4o-mini",
		"openai.max_request_per_minute":        60,
		"gemini.model":                         "gemini-2.0-flash",
		"gemini.max_request_per_minute":        15,
		"gemini.max_token_per_minute":          1000000,
		"yahoo_finance.base_url":               "https://query1.finance.yahoo.com",
		"yahoo_finance.max_request_per_minute": 0,
		"yahoo_finance.timeout":                "10s",
		"price_cache.ttl":                      "10m",
		"news.max_items":                       10,
	}
}

// Load loads the advisor configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, Defaults()); err != nil {
		return nil, err
	}
	return &cfg, nil
}
