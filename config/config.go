package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger             `mapstructure:"logger"`
	API          API                `mapstructure:"api"`
	YahooFinance YahooFinanceConfig `mapstructure:"yahoo_finance"`
	Cache        Cache              `mapstructure:"cache"`
	Telegram     TelegramConfig     `mapstructure:"telegram"`
	Strategy     StrategyConfig     `mapstructure:"strategy"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type YahooFinanceConfig struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type TelegramConfig struct {
	BotToken                  string        `mapstructure:"bot_token"`
	ChatID                    int64         `mapstructure:"chat_id"`
	TimeoutDuration           time.Duration `mapstructure:"timeout_duration"`
	MaxGlobalRequestPerSecond int           `mapstructure:"max_global_request_per_second"`
}

// StrategyConfig holds the default signal thresholds and the alert toggle.
// The values are handed to the orchestrator per run; the engine never reads
// global state.
type StrategyConfig struct {
	RSIBuyThreshold      float64 `mapstructure:"rsi_buy_threshold"`
	RequireBullishCandle bool    `mapstructure:"require_bullish_candle"`
	MinHoldDays          int     `mapstructure:"min_hold_days"`
	SendAlerts           bool    `mapstructure:"send_alerts"`
}

type SchedulerConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	CronSpec     string   `mapstructure:"cron_spec"`
	WatchSymbols []string `mapstructure:"watch_symbols"`
	LookbackDays int      `mapstructure:"lookback_days"`
}

func Load() (*Config, error) {
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

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo_finance.timeout", 30*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 30)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("telegram.timeout_duration", 10*time.Second)
	viper.SetDefault("telegram.max_global_request_per_second", 30)
	viper.SetDefault("strategy.rsi_buy_threshold", 60)
	viper.SetDefault("strategy.require_bullish_candle", true)
	viper.SetDefault("strategy.min_hold_days", 0)
	viper.SetDefault("strategy.send_alerts", false)
	viper.SetDefault("scheduler.enabled", false)
	viper.SetDefault("scheduler.cron_spec", "0 18 * * 1-5")
	viper.SetDefault("scheduler.lookback_days", 90)
}
