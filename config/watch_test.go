package config

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeTemp(t, validYAML)

	updates := make(chan AppConfig, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &Watcher{Path: path, Cooldown: 10 * time.Millisecond}
	go w.Start(ctx, func(cfg AppConfig) {
		select {
		case updates <- cfg:
		default:
		}
	})

	// 等 watcher 就位后改写配置。
	time.Sleep(100 * time.Millisecond)
	changed := strings.Replace(validYAML, `metricsAddr: ""`, `metricsAddr: ":9200"`, 1)
	if err := os.WriteFile(path, []byte(changed), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-updates:
		if cfg.MetricsAddr != ":9200" {
			t.Fatalf("expected reloaded config, got %+v", cfg.MetricsAddr)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not deliver update")
	}
}

func TestWatcherIgnoresInvalidConfig(t *testing.T) {
	path := writeTemp(t, validYAML)

	updates := make(chan AppConfig, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &Watcher{Path: path, Cooldown: 10 * time.Millisecond}
	go w.Start(ctx, func(cfg AppConfig) { updates <- cfg })

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("env: \n:::"), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-updates:
		t.Fatalf("invalid config must not be delivered, got %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}
