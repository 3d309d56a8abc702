package market

import (
	"time"

	"arb-monitor-go/gateway"
)

// BookView 面向消费者的订单簿视图，每侧截断到前 N 档。
type BookView struct {
	Exchange gateway.ExchangeID
	Bids     []gateway.PriceLevel
	Asks     []gateway.PriceLevel
}

// Mid 中间价，作为展示用的"最新价"；任一侧为空返回 0。
func (v BookView) Mid() float64 {
	if len(v.Bids) == 0 || len(v.Asks) == 0 {
		return 0
	}
	return (v.Bids[0].Price + v.Asks[0].Price) / 2
}

// Snapshot 聚合状态的不可变快照。字段要么全部来自变更前、
// 要么全部来自变更后，读者看不到撕裂的中间态。
type Snapshot struct {
	Quotes      map[gateway.ExchangeID]Quote
	Opportunity *Opportunity
	Book        BookView
	Connections map[gateway.ExchangeID]gateway.ConnState
	UpdatedAt   time.Time
}
