package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"arb-monitor-go/infrastructure/logger"
	"arb-monitor-go/metrics"
)

// krakenSubscribe 订阅请求，ticker 与 book 各发一帧。
type krakenSubscribe struct {
	Event        string             `json:"event"`
	Pair         []string           `json:"pair"`
	Subscription krakenSubscription `json:"subscription"`
}

type krakenSubscription struct {
	Name  string `json:"name"`
	Depth int    `json:"depth,omitempty"`
}

// KrakenWS 订阅 ticker 与 book（深度 25）。
type KrakenWS struct {
	endpoint string // 例如 wss://ws.kraken.com
	pair     string // 例如 XBT/USD
	depth    int
	log      *logger.Logger
	sc       *streamConn
}

func NewKrakenWS(endpoint, pair string, depth int, log *logger.Logger) *KrakenWS {
	if depth <= 0 {
		depth = 25
	}
	return &KrakenWS{
		endpoint: endpoint,
		pair:     pair,
		depth:    depth,
		log:      log,
		sc:       newStreamConn(ExchangeKraken, log),
	}
}

func (k *KrakenWS) Exchange() ExchangeID { return ExchangeKraken }

func (k *KrakenWS) State() ConnState { return k.sc.State() }

func (k *KrakenWS) Run(ctx context.Context, h Handler) error {
	if k.pair == "" {
		return fmt.Errorf("kraken: pair required")
	}
	tickerSub, err := json.Marshal(krakenSubscribe{
		Event:        "subscribe",
		Pair:         []string{k.pair},
		Subscription: krakenSubscription{Name: "ticker"},
	})
	if err != nil {
		return fmt.Errorf("kraken subscribe: %w", err)
	}
	bookSub, err := json.Marshal(krakenSubscribe{
		Event:        "subscribe",
		Pair:         []string{k.pair},
		Subscription: krakenSubscription{Name: "book", Depth: k.depth},
	})
	if err != nil {
		return fmt.Errorf("kraken subscribe: %w", err)
	}
	return k.sc.run(ctx, h, k.endpoint, [][]byte{tickerSub, bookSub}, func(msg []byte) {
		quote, book, err := ParseKrakenFrame(msg)
		if err != nil {
			metrics.DecodeErrors.WithLabelValues(string(ExchangeKraken)).Inc()
			k.log.Warn("kraken frame dropped", zap.Error(err))
			return
		}
		if quote != nil {
			metrics.QuotesReceived.WithLabelValues(string(ExchangeKraken)).Inc()
			h.OnQuote(*quote)
		}
		if book != nil {
			h.OnBook(*book)
		}
	})
}
