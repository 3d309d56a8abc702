package gateway

import (
	"context"
	"time"
)

// ExchangeID 标识一个行情源。
type ExchangeID string

const (
	ExchangeBinance  ExchangeID = "binance"
	ExchangeCoinbase ExchangeID = "coinbase"
	ExchangeKraken   ExchangeID = "kraken"
)

// Exchanges 固定的交易所枚举，顺序即展示/遍历顺序。
var Exchanges = []ExchangeID{ExchangeBinance, ExchangeCoinbase, ExchangeKraken}

// ConnStatus 连接状态机：Connecting -> Connected -> Disconnected。
type ConnStatus int

const (
	StatusConnecting ConnStatus = iota
	StatusConnected
	StatusDisconnected
)

func (s ConnStatus) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// ConnState 由 adapter 独占写入；Reason 仅在 Disconnected 时有意义。
type ConnState struct {
	Status ConnStatus
	Reason string
}

// QuoteUpdate 归一化后的最优买卖价事件。
type QuoteUpdate struct {
	Exchange   ExchangeID
	Bid        float64
	Ask        float64
	ObservedAt time.Time
}

// PriceLevel 一档报价，Qty 为 0 表示增量中的删除。
type PriceLevel struct {
	Price float64
	Qty   float64
}

// BookUpdate 归一化后的订单簿事件；Snapshot 为 true 时整簿替换。
type BookUpdate struct {
	Exchange ExchangeID
	Snapshot bool
	Bids     []PriceLevel
	Asks     []PriceLevel
}

// Handler 消费归一化事件。实现方（market.Service）负责串行化共享状态。
type Handler interface {
	OnQuote(QuoteUpdate)
	OnBook(BookUpdate)
	OnState(ExchangeID, ConnState)
}

// Adapter 持有与某交易所的单条流式连接。
// Run 阻塞执行订阅握手与读循环，直到 ctx 取消或传输层出错；
// 内部不做重连，由外层生命周期决定是否再次调用 Run。
type Adapter interface {
	Exchange() ExchangeID
	Run(ctx context.Context, h Handler) error
	State() ConnState
}
