package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger       `mapstructure:"logger"`
	DB           Database     `mapstructure:"database"`
	API          API          `mapstructure:"api"`
	Scheduler    Scheduler    `mapstructure:"scheduler"`
	Batch        Batch        `mapstructure:"batch"`
	Cache        Cache        `mapstructure:"cache"`
	Stock        Stock        `mapstructure:"stock"`
	AlphaVantage Provider     `mapstructure:"alpha_vantage"`
	FMP          Provider     `mapstructure:"fmp"`
	YahooFinance YahooFinance `mapstructure:"yahoo_finance"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port           int     `mapstructure:"port"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type Scheduler struct {
	Enabled              bool          `mapstructure:"enabled"`
	WatchlistRefreshCron string        `mapstructure:"watchlist_refresh_cron"`
	MaxConcurrency       int           `mapstructure:"max_concurrency"`
	TimeoutDuration      time.Duration `mapstructure:"timeout_duration"`
}

type Batch struct {
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	CompanyTTL        time.Duration `mapstructure:"company_ttl"`
	TechnicalTTL      time.Duration `mapstructure:"technical_ttl"`
}

type Stock struct {
	StaleAfter       time.Duration `mapstructure:"stale_after"`
	ValuationHorizon int           `mapstructure:"valuation_horizon"`
}

// Provider holds the settings shared by the keyed financial-data APIs.
type Provider struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	RetryCount          int           `mapstructure:"retry_count"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	RetryCount          int           `mapstructure:"retry_count"`
	PriceRange          string        `mapstructure:"price_range"`
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")

	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.rate_limit", 10)
	viper.SetDefault("api.rate_limit_burst", 30)

	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.watchlist_refresh_cron", "0 6 * * *")
	viper.SetDefault("scheduler.max_concurrency", 2)
	viper.SetDefault("scheduler.timeout_duration", 10*time.Minute)

	viper.SetDefault("batch.max_concurrency", 4)

	viper.SetDefault("cache.default_expiration", 24*time.Hour)
	viper.SetDefault("cache.cleanup_interval", time.Hour)
	viper.SetDefault("cache.company_ttl", 24*time.Hour)
	viper.SetDefault("cache.technical_ttl", 15*time.Minute)

	viper.SetDefault("stock.stale_after", 24*time.Hour)
	viper.SetDefault("stock.valuation_horizon", 10)

	viper.SetDefault("alpha_vantage.base_url", "https://www.alphavantage.co")
	viper.SetDefault("alpha_vantage.timeout", 15*time.Second)
	viper.SetDefault("alpha_vantage.max_request_per_minute", 5)
	viper.SetDefault("alpha_vantage.retry_count", 0)

	viper.SetDefault("fmp.base_url", "https://financialmodelingprep.com")
	viper.SetDefault("fmp.timeout", 15*time.Second)
	viper.SetDefault("fmp.max_request_per_minute", 60)
	viper.SetDefault("fmp.retry_count", 1)

	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo_finance.timeout", 15*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 60)
	viper.SetDefault("yahoo_finance.retry_count", 1)
	viper.SetDefault("yahoo_finance.price_range", "1y")
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
