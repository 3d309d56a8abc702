package gateway

import (
	"encoding/json"
	"fmt"
	"time"
)

// coinbaseFrame 覆盖 ticker / snapshot / l2update 三种消息的并集字段。
type coinbaseFrame struct {
	Type      string     `json:"type"`
	ProductID string     `json:"product_id"`
	BestBid   string     `json:"best_bid"`
	BestAsk   string     `json:"best_ask"`
	Bids      [][]string `json:"bids"`
	Asks      [][]string `json:"asks"`
	Changes   [][]string `json:"changes"` // [side, price, size]
	Message   string     `json:"message"` // type == "error" 时的原因
}

// ParseCoinbaseFrame 解析 coinbase ws-feed 的一帧。
// 订阅确认等无关消息返回三个 nil，不算错误。
// l2update 正常转为增量事件并持续回放，而不是只认快照，
// 否则两次快照之间展示的簿会原地冻结。
func ParseCoinbaseFrame(raw []byte) (*QuoteUpdate, *BookUpdate, error) {
	var frame coinbaseFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, nil, fmt.Errorf("coinbase frame: %w", err)
	}

	switch frame.Type {
	case "ticker":
		if frame.BestBid == "" || frame.BestAsk == "" {
			return nil, nil, nil
		}
		bid, err := parsePrice(frame.BestBid)
		if err != nil {
			return nil, nil, err
		}
		ask, err := parsePrice(frame.BestAsk)
		if err != nil {
			return nil, nil, err
		}
		if !validQuote(bid, ask) {
			return nil, nil, fmt.Errorf("coinbase ticker: empty side bid=%v ask=%v", bid, ask)
		}
		return &QuoteUpdate{
			Exchange:   ExchangeCoinbase,
			Bid:        bid,
			Ask:        ask,
			ObservedAt: time.Now().UTC(),
		}, nil, nil

	case "snapshot":
		bids, err := parseLevels(frame.Bids)
		if err != nil {
			return nil, nil, fmt.Errorf("coinbase snapshot bids: %w", err)
		}
		asks, err := parseLevels(frame.Asks)
		if err != nil {
			return nil, nil, fmt.Errorf("coinbase snapshot asks: %w", err)
		}
		return nil, &BookUpdate{
			Exchange: ExchangeCoinbase,
			Snapshot: true,
			Bids:     bids,
			Asks:     asks,
		}, nil

	case "l2update":
		var bids, asks []PriceLevel
		for _, ch := range frame.Changes {
			if len(ch) < 3 {
				return nil, nil, fmt.Errorf("coinbase l2update: change needs 3 fields, got %d", len(ch))
			}
			p, err := parsePrice(ch[1])
			if err != nil {
				return nil, nil, err
			}
			q, err := parseQty(ch[2])
			if err != nil {
				return nil, nil, err
			}
			switch ch[0] {
			case "buy":
				bids = append(bids, PriceLevel{Price: p, Qty: q})
			case "sell":
				asks = append(asks, PriceLevel{Price: p, Qty: q})
			default:
				return nil, nil, fmt.Errorf("coinbase l2update: unknown side %q", ch[0])
			}
		}
		return nil, &BookUpdate{
			Exchange: ExchangeCoinbase,
			Bids:     bids,
			Asks:     asks,
		}, nil

	case "error":
		return nil, nil, fmt.Errorf("coinbase error message: %s", frame.Message)

	default:
		// subscriptions / heartbeat 等，忽略。
		return nil, nil, nil
	}
}
