// Package metrics provides Prometheus metrics for the arbitrage monitor
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WSConnected 每个交易所的连接状态（1=connected）。
	WSConnected = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "arb_ws_connected",
		Help: "WebSocket connection state per exchange (1=connected)",
	}, []string{"exchange"})

	// QuotesReceived 归一化报价计数。
	QuotesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arb_quotes_received_total",
		Help: "Normalized quote updates received per exchange",
	}, []string{"exchange"})

	// DecodeErrors 被丢弃的坏帧计数。
	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arb_decode_errors_total",
		Help: "Inbound frames dropped due to decode/semantic errors",
	}, []string{"exchange"})

	// BookUpdates 订单簿事件计数，label 区分 snapshot/delta。
	BookUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arb_book_updates_total",
		Help: "Order book events applied, by exchange and kind",
	}, []string{"exchange", "kind"})

	// BestProfit 当前最优套利利润（USD），无机会时为 0。
	BestProfit = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arb_best_profit_usd",
		Help: "Profit of the best current cross-exchange opportunity",
	})

	// BookLevels 当前簿每侧的档位数。
	BookLevels = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "arb_book_levels",
		Help: "Stored levels in the tracked order book per side",
	}, []string{"side"})
)

// StartMetricsServer 启动Prometheus指标服务器
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
