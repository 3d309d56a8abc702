package market

import (
	"sort"

	"arb-monitor-go/gateway"
)

// Opportunity 一次跨所套利机会：在 BuyExchange 按 ask 买入、
// 在 SellExchange 按 bid 卖出。仅在 Profit > 0 时存在。
type Opportunity struct {
	BuyExchange   gateway.ExchangeID
	SellExchange  gateway.ExchangeID
	BuyPrice      float64
	SellPrice     float64
	Profit        float64
	ProfitPercent float64
}

// BestOpportunity 对所有有序交易所对做全量扫描，返回利润严格最大的
// 正利润机会；不足两个交易所或无正利润时返回 nil（而非零值对象）。
//
// 买价永远取买入所的 ask（取得成本），卖价永远取卖出所的 bid（脱手所得）。
// 遍历顺序按交易所 ID 字典序固定，利润相同保留先遇到的对，保证可复现。
// O(E^2) 全扫描，E<=10 量级足够。
func BestOpportunity(quotes map[gateway.ExchangeID]Quote) *Opportunity {
	if len(quotes) < 2 {
		return nil
	}
	ids := make([]gateway.ExchangeID, 0, len(quotes))
	for ex := range quotes {
		ids = append(ids, ex)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var best *Opportunity
	for _, buyEx := range ids {
		for _, sellEx := range ids {
			if buyEx == sellEx {
				continue
			}
			buyPrice := quotes[buyEx].Ask
			sellPrice := quotes[sellEx].Bid
			profit := sellPrice - buyPrice
			if profit <= 0 {
				continue
			}
			if best != nil && profit <= best.Profit {
				continue
			}
			best = &Opportunity{
				BuyExchange:   buyEx,
				SellExchange:  sellEx,
				BuyPrice:      buyPrice,
				SellPrice:     sellPrice,
				Profit:        profit,
				ProfitPercent: profit / buyPrice * 100,
			}
		}
	}
	return best
}
