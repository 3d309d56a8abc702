package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"arb-monitor-go/gateway"
	"arb-monitor-go/internal/container"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	bookExchange := flag.String("book", "", "覆盖启动时追踪的订单簿交易所（binance/coinbase/kraken）")
	flag.Parse()

	c, err := container.New(*cfgPath)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	if err := c.Build(); err != nil {
		log.Fatalf("构建组件失败: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Start(ctx); err != nil {
		log.Fatalf("启动失败: %v", err)
	}
	if *bookExchange != "" {
		if err := c.SwitchBook(gateway.ExchangeID(*bookExchange)); err != nil {
			log.Fatalf("切换订单簿失败: %v", err)
		}
	}

	// systemd 就绪通知 + watchdog（非 systemd 环境下为 no-op）。
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	go runWatchdog(ctx, c)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	fmt.Printf("收到信号 %s，开始退出\n", sig)

	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	cancel()
	if err := c.Stop(); err != nil {
		log.Printf("停止组件出错: %v", err)
	}
}

// runWatchdog 周期性喂 systemd watchdog；组件不健康时停止喂狗，
// 由 systemd 依据 WatchdogSec 重启进程。
func runWatchdog(ctx context.Context, c *container.Container) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Health(); err == nil {
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}
}
