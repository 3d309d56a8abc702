package gateway

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	errBadPrice = errors.New("invalid price")
	errBadQty   = errors.New("invalid quantity")
)

// parsePrice 解析交易所下发的价格字符串。
// 非数值、NaN/Inf、负数均拒绝；失败只作用于当前消息，不影响连接。
func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadPrice, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q", errBadPrice, s)
	}
	return v, nil
}

// parseQty 数量允许为 0（增量中的删除语义），其余约束同价格。
func parseQty(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadQty, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q", errBadQty, s)
	}
	return v, nil
}

// parseLevels 把 [["price","qty"],...] 形式的档位数组转为 PriceLevel。
// 单档解析失败时丢弃整条消息，保证半解析的簿不会流向下游。
func parseLevels(raw [][]string) ([]PriceLevel, error) {
	levels := make([]PriceLevel, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 2 {
			return nil, fmt.Errorf("level needs price and qty, got %d fields", len(entry))
		}
		p, err := parsePrice(entry[0])
		if err != nil {
			return nil, err
		}
		q, err := parseQty(entry[1])
		if err != nil {
			return nil, err
		}
		levels = append(levels, PriceLevel{Price: p, Qty: q})
	}
	return levels, nil
}

// validQuote 报价两侧都必须为正；ask 为 0 视为坏数据。
func validQuote(bid, ask float64) bool {
	return bid > 0 && ask > 0
}
