package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
env: test
metricsAddr: ""
exchanges:
  binance:
    endpoint: wss://stream.binance.com:9443
    symbol: btcusdt
  coinbase:
    endpoint: wss://ws-feed.exchange.coinbase.com
    symbol: BTC-USD
  kraken:
    endpoint: wss://ws.kraken.com
    symbol: XBT/USD
    depth: 25
book:
  exchange: kraken
  viewDepth: 10
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Book.Exchange != "kraken" || cfg.Book.ViewDepth != 10 {
		t.Fatalf("unexpected book config %+v", cfg.Book)
	}
	if cfg.Exchanges["kraken"].Depth != 25 {
		t.Fatalf("unexpected kraken depth %+v", cfg.Exchanges["kraken"])
	}
	// 未写的字段落回默认值。
	if cfg.History.BaseURL == "" {
		t.Fatal("history baseURL must default")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := map[string]func(*AppConfig){
		"missing exchange":      func(c *AppConfig) { delete(c.Exchanges, "kraken") },
		"empty endpoint":        func(c *AppConfig) { c.Exchanges["binance"] = ExchangeConfig{Symbol: "btcusdt"} },
		"empty symbol":          func(c *AppConfig) { c.Exchanges["binance"] = ExchangeConfig{Endpoint: "wss://x"} },
		"unknown book exchange": func(c *AppConfig) { c.Book.Exchange = "bitfinex" },
		"non-positive depth":    func(c *AppConfig) { c.Book.ViewDepth = 0 },
		"negative feed depth":   func(c *AppConfig) { c.Exchanges["kraken"] = ExchangeConfig{Endpoint: "wss://x", Symbol: "XBT/USD", Depth: -1} },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := Validate(cfg); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("ARB_BOOK_EXCHANGE", "coinbase")
	cfg, err := LoadWithEnvOverrides(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Book.Exchange != "coinbase" {
		t.Fatalf("env override ignored, got %s", cfg.Book.Exchange)
	}

	t.Setenv("ARB_BOOK_EXCHANGE", "unknown")
	if _, err := LoadWithEnvOverrides(writeTemp(t, validYAML)); err == nil {
		t.Fatal("override must still pass validation")
	}
}
