package market

import (
	"sort"
	"sync"

	"arb-monitor-go/gateway"
)

// maxStoredLevels 每侧保留的档位上限；coinbase level2 快照是全簿，
// 不截断会无限增长。
const maxStoredLevels = 500

// Book 单交易所订单簿：买侧降序、卖侧升序，同侧无重复价格。
// 快照到达前处于未初始化状态，增量一律丢弃。
type Book struct {
	mu          sync.RWMutex
	bids        []gateway.PriceLevel // price 降序
	asks        []gateway.PriceLevel // price 升序
	snapshotted bool
}

func NewBook() *Book {
	return &Book{}
}

// Snapshotted 报告是否已收到首个快照。
func (b *Book) Snapshotted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotted
}

// ApplySnapshot 整簿替换并进入 Snapshotted 状态。qty 为 0 的档直接排除。
func (b *Book) ApplySnapshot(bids, asks []gateway.PriceLevel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bids = normalizeSide(bids, true)
	b.asks = normalizeSide(asks, false)
	b.snapshotted = true
}

// ApplyIncremental 应用增量：qty==0 删除该价位，否则插入或覆盖。
// 快照之前的增量没有基准可施加，按启动期竞态静默丢弃，返回 false。
func (b *Book) ApplyIncremental(bids, asks []gateway.PriceLevel) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.snapshotted {
		return false
	}
	b.bids = applyDeltas(b.bids, bids, true)
	b.asks = applyDeltas(b.asks, asks, false)
	return true
}

// TopN 返回每侧按各自排序的前 n 档拷贝；不改动存储状态。
func (b *Book) TopN(n int) (bids, asks []gateway.PriceLevel) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyTop(b.bids, n), copyTop(b.asks, n)
}

// Depth 返回当前每侧存储的档位数。
func (b *Book) Depth() (bidLevels, askLevels int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.bids), len(b.asks)
}

// Best 返回最优买/卖价；缺失一侧时该侧为 0。
func (b *Book) Best() (bestBid, bestAsk float64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.bids) > 0 {
		bestBid = b.bids[0].Price
	}
	if len(b.asks) > 0 {
		bestAsk = b.asks[0].Price
	}
	return bestBid, bestAsk
}

// Mid 返回中间价；任一侧缺失返回 0。
func (b *Book) Mid() float64 {
	bid, ask := b.Best()
	if bid == 0 || ask == 0 {
		return 0
	}
	return (bid + ask) / 2
}

// normalizeSide 去零、去重（后到覆盖）、排序、截断。
func normalizeSide(levels []gateway.PriceLevel, desc bool) []gateway.PriceLevel {
	byPrice := make(map[float64]float64, len(levels))
	for _, lv := range levels {
		if lv.Qty == 0 {
			delete(byPrice, lv.Price)
			continue
		}
		byPrice[lv.Price] = lv.Qty
	}
	out := make([]gateway.PriceLevel, 0, len(byPrice))
	for p, q := range byPrice {
		out = append(out, gateway.PriceLevel{Price: p, Qty: q})
	}
	sortSide(out, desc)
	if len(out) > maxStoredLevels {
		out = out[:maxStoredLevels]
	}
	return out
}

func applyDeltas(side []gateway.PriceLevel, deltas []gateway.PriceLevel, desc bool) []gateway.PriceLevel {
	if len(deltas) == 0 {
		return side
	}
	merged := append(append(make([]gateway.PriceLevel, 0, len(side)+len(deltas)), side...), deltas...)
	return normalizeSide(merged, desc)
}

func sortSide(levels []gateway.PriceLevel, desc bool) {
	sort.Slice(levels, func(i, j int) bool {
		if desc {
			return levels[i].Price > levels[j].Price
		}
		return levels[i].Price < levels[j].Price
	})
}

func copyTop(side []gateway.PriceLevel, n int) []gateway.PriceLevel {
	if n > len(side) {
		n = len(side)
	}
	out := make([]gateway.PriceLevel, n)
	copy(out, side[:n])
	return out
}
