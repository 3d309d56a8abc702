package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"arb-monitor-go/gateway"
	"arb-monitor-go/infrastructure/logger"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env         string                    `yaml:"env"`
	Log         logger.Config             `yaml:"log"`
	MetricsAddr string                    `yaml:"metricsAddr"`
	Exchanges   map[string]ExchangeConfig `yaml:"exchanges"`
	Book        BookConfig                `yaml:"book"`
	History     HistoryConfig             `yaml:"history"`
}

// ExchangeConfig 单个交易所的接入参数。
type ExchangeConfig struct {
	Endpoint string `yaml:"endpoint"` // wss URL
	Symbol   string `yaml:"symbol"`   // 交易所自己的符号写法
	Depth    int    `yaml:"depth"`    // 订阅深度（仅 kraken 使用）
}

// BookConfig 订单簿视图配置。
type BookConfig struct {
	Exchange  string `yaml:"exchange"`  // 启动时追踪的交易所
	ViewDepth int    `yaml:"viewDepth"` // 对外展示每侧档位数
}

type HistoryConfig struct {
	BaseURL string `yaml:"baseURL"`
}

// Default returns the reference configuration: BTC/USD on all three
// exchanges, binance book, top-20 view.
func Default() AppConfig {
	return AppConfig{
		Env:         "dev",
		Log:         logger.DefaultConfig(),
		MetricsAddr: ":9100",
		Exchanges: map[string]ExchangeConfig{
			string(gateway.ExchangeBinance):  {Endpoint: "wss://stream.binance.com:9443", Symbol: "btcusdt"},
			string(gateway.ExchangeCoinbase): {Endpoint: "wss://ws-feed.exchange.coinbase.com", Symbol: "BTC-USD"},
			string(gateway.ExchangeKraken):   {Endpoint: "wss://ws.kraken.com", Symbol: "XBT/USD", Depth: 25},
		},
		Book: BookConfig{
			Exchange:  string(gateway.ExchangeBinance),
			ViewDepth: 20,
		},
		History: HistoryConfig{
			BaseURL: "https://query1.finance.yahoo.com",
		},
	}
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("ARB_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("ARB_BOOK_EXCHANGE"); v != "" {
		cfg.Book.Exchange = v
	}
	if v := os.Getenv("ARB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if len(cfg.Exchanges) == 0 {
		return errors.New("exchanges config is required")
	}
	for _, ex := range gateway.Exchanges {
		ec, ok := cfg.Exchanges[string(ex)]
		if !ok {
			return fmt.Errorf("exchange %s missing from config", ex)
		}
		if ec.Endpoint == "" {
			return fmt.Errorf("exchange %s endpoint is required", ex)
		}
		if ec.Symbol == "" {
			return fmt.Errorf("exchange %s symbol is required", ex)
		}
		if ec.Depth < 0 {
			return fmt.Errorf("exchange %s depth must be >= 0", ex)
		}
	}
	if _, ok := cfg.Exchanges[cfg.Book.Exchange]; !ok {
		return fmt.Errorf("book.exchange %q is not a configured exchange", cfg.Book.Exchange)
	}
	if cfg.Book.ViewDepth <= 0 {
		return errors.New("book.viewDepth must be > 0")
	}
	return nil
}
