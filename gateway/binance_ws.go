package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"arb-monitor-go/infrastructure/logger"
	"arb-monitor-go/metrics"
)

// BinanceWS 通过 combined stream 订阅 bookTicker + depth20。
// Binance 无显式订阅帧，URL 即订阅。
type BinanceWS struct {
	endpoint string // 例如 wss://stream.binance.com:9443
	symbol   string // 例如 btcusdt
	log      *logger.Logger
	sc       *streamConn
}

func NewBinanceWS(endpoint, symbol string, log *logger.Logger) *BinanceWS {
	return &BinanceWS{
		endpoint: endpoint,
		symbol:   strings.ToLower(symbol),
		log:      log,
		sc:       newStreamConn(ExchangeBinance, log),
	}
}

func (b *BinanceWS) Exchange() ExchangeID { return ExchangeBinance }

func (b *BinanceWS) State() ConnState { return b.sc.State() }

func (b *BinanceWS) streamURL() (string, error) {
	streams := []string{
		b.symbol + "@bookTicker",
		b.symbol + "@depth20@100ms",
	}
	u, err := url.Parse(b.endpoint)
	if err != nil {
		return "", fmt.Errorf("binance endpoint: %w", err)
	}
	u.Path = "/stream"
	q := u.Query()
	q.Set("streams", strings.Join(streams, "/"))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Run 连接并读取直到 ctx 取消或传输出错。
func (b *BinanceWS) Run(ctx context.Context, h Handler) error {
	if b.symbol == "" {
		return fmt.Errorf("binance: symbol required")
	}
	wsURL, err := b.streamURL()
	if err != nil {
		return err
	}
	return b.sc.run(ctx, h, wsURL, nil, func(msg []byte) {
		quote, book, err := ParseBinanceFrame(msg)
		if err != nil {
			metrics.DecodeErrors.WithLabelValues(string(ExchangeBinance)).Inc()
			b.log.Warn("binance frame dropped", zap.Error(err))
			return
		}
		if quote != nil {
			metrics.QuotesReceived.WithLabelValues(string(ExchangeBinance)).Inc()
			h.OnQuote(*quote)
		}
		if book != nil {
			h.OnBook(*book)
		}
	})
}
