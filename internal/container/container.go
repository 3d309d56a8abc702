package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"arb-monitor-go/config"
	"arb-monitor-go/gateway"
	"arb-monitor-go/history"
	"arb-monitor-go/infrastructure/logger"
	"arb-monitor-go/market"
	"arb-monitor-go/metrics"
)

// Container 依赖注入容器，管理所有组件的生命周期
type Container struct {
	cfg     *config.AppConfig
	cfgPath string

	logger    *logger.Logger
	service   *market.Service
	publisher *market.Publisher
	history   *history.Client
	adapters  []gateway.Adapter

	lifecycle *LifecycleManager
}

// New 创建新的Container实例
func New(configPath string) (*Container, error) {
	cfg, err := config.LoadWithEnvOverrides(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return &Container{
		cfg:       &cfg,
		cfgPath:   configPath,
		lifecycle: NewLifecycleManager(),
	}, nil
}

// Build 构建所有组件
func (c *Container) Build() error {
	log, err := logger.New(c.cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger failed: %w", err)
	}
	c.logger = log

	c.publisher = market.NewPublisher()
	c.service = market.NewService(c.publisher, gateway.ExchangeID(c.cfg.Book.Exchange), log)
	c.service.SetViewDepth(c.cfg.Book.ViewDepth)
	c.history = history.NewClient(c.cfg.History.BaseURL)

	binanceCfg := c.cfg.Exchanges[string(gateway.ExchangeBinance)]
	coinbaseCfg := c.cfg.Exchanges[string(gateway.ExchangeCoinbase)]
	krakenCfg := c.cfg.Exchanges[string(gateway.ExchangeKraken)]
	c.adapters = []gateway.Adapter{
		gateway.NewBinanceWS(binanceCfg.Endpoint, binanceCfg.Symbol, log),
		gateway.NewCoinbaseWS(coinbaseCfg.Endpoint, coinbaseCfg.Symbol, log),
		gateway.NewKrakenWS(krakenCfg.Endpoint, krakenCfg.Symbol, krakenCfg.Depth, log),
	}
	for _, a := range c.adapters {
		c.lifecycle.Register(newAdapterRunner(a, c.service, log))
	}

	c.logger.Info("container built",
		zap.String("book_exchange", c.cfg.Book.Exchange),
		zap.Int("adapters", len(c.adapters)))
	return nil
}

// Start 启动指标服务、配置热更新与全部 adapter。
func (c *Container) Start(ctx context.Context) error {
	if c.cfg.MetricsAddr != "" {
		metrics.StartMetricsServer(c.cfg.MetricsAddr)
	}
	go c.watchConfig(ctx)
	return c.lifecycle.StartAll(ctx)
}

// Stop 逆序停止全部组件；每个底层连接都会被关闭。
func (c *Container) Stop() error {
	err := c.lifecycle.StopAll()
	if c.logger != nil {
		c.logger.Close()
	}
	return err
}

// Health 透传生命周期健康检查。
func (c *Container) Health() error {
	return c.lifecycle.CheckHealth()
}

// Service 返回核心状态服务。
func (c *Container) Service() *market.Service { return c.service }

// Publisher 返回快照发布器，供展示层订阅。
func (c *Container) Publisher() *market.Publisher { return c.publisher }

// History 返回历史行情客户端。
func (c *Container) History() *history.Client { return c.history }

// SwitchBook 切换订单簿视图追踪的交易所（展示层命令入口）。
func (c *Container) SwitchBook(ex gateway.ExchangeID) error {
	if _, ok := c.cfg.Exchanges[string(ex)]; !ok {
		return fmt.Errorf("unknown exchange %q", ex)
	}
	c.service.SwitchBook(ex)
	return nil
}

// watchConfig 配置热更新：在线应用 book.exchange 切换与 viewDepth，
// 其余字段需要重启生效。
func (c *Container) watchConfig(ctx context.Context) {
	w := &config.Watcher{Path: c.cfgPath}
	err := w.Start(ctx, func(cfg config.AppConfig) {
		if cfg.Book.Exchange != string(c.service.BookExchange()) {
			if err := c.SwitchBook(gateway.ExchangeID(cfg.Book.Exchange)); err != nil {
				c.logger.Warn("config reload: switch book failed", zap.Error(err))
			}
		}
		c.service.SetViewDepth(cfg.Book.ViewDepth)
	})
	if err != nil && ctx.Err() == nil {
		c.logger.Warn("config watcher stopped", zap.Error(err))
	}
}
