package market

import (
	"sync"
	"time"

	"arb-monitor-go/gateway"
)

// Quote 某交易所某一时刻的最优买卖价。
type Quote struct {
	Exchange   gateway.ExchangeID
	Bid        float64
	Ask        float64
	ObservedAt time.Time
}

// Aggregator 维护各交易所的最新 Quote。
// 同一交易所后到覆盖先到（last-write-wins），不信任交易所侧的序号。
type Aggregator struct {
	mu     sync.RWMutex
	quotes map[gateway.ExchangeID]Quote
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		quotes: make(map[gateway.ExchangeID]Quote),
	}
}

// Update 无条件覆盖该交易所的报价。
func (a *Aggregator) Update(q Quote) {
	a.mu.Lock()
	a.quotes[q.Exchange] = q
	a.mu.Unlock()
}

// All 返回报价表的防御性拷贝，调用方拿不到可变共享视图。
func (a *Aggregator) All() map[gateway.ExchangeID]Quote {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[gateway.ExchangeID]Quote, len(a.quotes))
	for ex, q := range a.quotes {
		out[ex] = q
	}
	return out
}
