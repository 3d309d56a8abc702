package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"arb-monitor-go/infrastructure/logger"
	"arb-monitor-go/metrics"
)

// coinbaseSubscribe 传输打开后下发的订阅请求。
type coinbaseSubscribe struct {
	Type       string   `json:"type"`
	ProductIDs []string `json:"product_ids"`
	Channels   []string `json:"channels"`
}

// CoinbaseWS 订阅 ticker + level2 两个 channel。
type CoinbaseWS struct {
	endpoint string // 例如 wss://ws-feed.exchange.coinbase.com
	product  string // 例如 BTC-USD
	log      *logger.Logger
	sc       *streamConn
}

func NewCoinbaseWS(endpoint, product string, log *logger.Logger) *CoinbaseWS {
	return &CoinbaseWS{
		endpoint: endpoint,
		product:  product,
		log:      log,
		sc:       newStreamConn(ExchangeCoinbase, log),
	}
}

func (c *CoinbaseWS) Exchange() ExchangeID { return ExchangeCoinbase }

func (c *CoinbaseWS) State() ConnState { return c.sc.State() }

func (c *CoinbaseWS) Run(ctx context.Context, h Handler) error {
	if c.product == "" {
		return fmt.Errorf("coinbase: product required")
	}
	sub, err := json.Marshal(coinbaseSubscribe{
		Type:       "subscribe",
		ProductIDs: []string{c.product},
		Channels:   []string{"ticker", "level2_batch"},
	})
	if err != nil {
		return fmt.Errorf("coinbase subscribe: %w", err)
	}
	return c.sc.run(ctx, h, c.endpoint, [][]byte{sub}, func(msg []byte) {
		quote, book, err := ParseCoinbaseFrame(msg)
		if err != nil {
			metrics.DecodeErrors.WithLabelValues(string(ExchangeCoinbase)).Inc()
			c.log.Warn("coinbase frame dropped", zap.Error(err))
			return
		}
		if quote != nil {
			metrics.QuotesReceived.WithLabelValues(string(ExchangeCoinbase)).Inc()
			h.OnQuote(*quote)
		}
		if book != nil {
			h.OnBook(*book)
		}
	})
}
