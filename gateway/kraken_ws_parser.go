package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// krakenEvent 对象型消息（heartbeat / systemStatus / subscriptionStatus）。
type krakenEvent struct {
	Event        string `json:"event"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
}

// krakenTicker ticker payload，a/b 为 [price, wholeLotVolume, lotVolume]，
// 元素类型混杂（字符串与数字），故先收 RawMessage 再取首元素。
type krakenTicker struct {
	Ask []json.RawMessage `json:"a"`
	Bid []json.RawMessage `json:"b"`
}

// krakenBook book payload。快照同时带 as+bs，增量只带 a 和/或 b。
type krakenBook struct {
	SnapAsks [][]string `json:"as"`
	SnapBids [][]string `json:"bs"`
	Asks     [][]string `json:"a"`
	Bids     [][]string `json:"b"`
}

// ParseKrakenFrame 解析 kraken ws 的一帧。
// 数据帧是异构数组 [channelID, payload..., channelName, pair]；
// book 的增量可能把 a、b 拆成两个相邻 payload 字典。
// 非数据帧（心跳、订阅回执）返回三个 nil。
func ParseKrakenFrame(raw []byte) (*QuoteUpdate, *BookUpdate, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err == nil {
		return parseKrakenData(parts)
	}

	var ev krakenEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, nil, fmt.Errorf("kraken frame: %w", err)
	}
	if ev.Event == "subscriptionStatus" && ev.Status == "error" {
		return nil, nil, fmt.Errorf("kraken subscription rejected: %s", ev.ErrorMessage)
	}
	return nil, nil, nil
}

func parseKrakenData(parts []json.RawMessage) (*QuoteUpdate, *BookUpdate, error) {
	if len(parts) < 4 {
		return nil, nil, fmt.Errorf("kraken data frame: want >=4 elements, got %d", len(parts))
	}
	var channel string
	if err := json.Unmarshal(parts[len(parts)-2], &channel); err != nil {
		return nil, nil, fmt.Errorf("kraken channel name: %w", err)
	}

	switch {
	case strings.HasPrefix(channel, "ticker"):
		var t krakenTicker
		if err := json.Unmarshal(parts[1], &t); err != nil {
			return nil, nil, fmt.Errorf("kraken ticker: %w", err)
		}
		bidStr, err := firstString(t.Bid)
		if err != nil {
			return nil, nil, fmt.Errorf("kraken ticker bid: %w", err)
		}
		askStr, err := firstString(t.Ask)
		if err != nil {
			return nil, nil, fmt.Errorf("kraken ticker ask: %w", err)
		}
		bid, err := parsePrice(bidStr)
		if err != nil {
			return nil, nil, err
		}
		ask, err := parsePrice(askStr)
		if err != nil {
			return nil, nil, err
		}
		if !validQuote(bid, ask) {
			return nil, nil, fmt.Errorf("kraken ticker: empty side bid=%v ask=%v", bid, ask)
		}
		return &QuoteUpdate{
			Exchange:   ExchangeKraken,
			Bid:        bid,
			Ask:        ask,
			ObservedAt: time.Now().UTC(),
		}, nil, nil

	case strings.HasPrefix(channel, "book"):
		update := BookUpdate{Exchange: ExchangeKraken}
		sawSnapAsks, sawSnapBids := false, false
		for _, part := range parts[1 : len(parts)-2] {
			var b krakenBook
			if err := json.Unmarshal(part, &b); err != nil {
				return nil, nil, fmt.Errorf("kraken book payload: %w", err)
			}
			if b.SnapAsks != nil {
				asks, err := parseLevels(b.SnapAsks)
				if err != nil {
					return nil, nil, fmt.Errorf("kraken book as: %w", err)
				}
				update.Asks = append(update.Asks, asks...)
				sawSnapAsks = true
			}
			if b.SnapBids != nil {
				bids, err := parseLevels(b.SnapBids)
				if err != nil {
					return nil, nil, fmt.Errorf("kraken book bs: %w", err)
				}
				update.Bids = append(update.Bids, bids...)
				sawSnapBids = true
			}
			if b.Asks != nil {
				asks, err := parseLevels(b.Asks)
				if err != nil {
					return nil, nil, fmt.Errorf("kraken book a: %w", err)
				}
				update.Asks = append(update.Asks, asks...)
			}
			if b.Bids != nil {
				bids, err := parseLevels(b.Bids)
				if err != nil {
					return nil, nil, fmt.Errorf("kraken book b: %w", err)
				}
				update.Bids = append(update.Bids, bids...)
			}
		}
		// 快照判定：同时带 as 与 bs。
		update.Snapshot = sawSnapAsks && sawSnapBids
		if len(update.Bids) == 0 && len(update.Asks) == 0 {
			return nil, nil, nil
		}
		return nil, &update, nil

	default:
		return nil, nil, nil
	}
}

func firstString(raw []json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("empty array")
	}
	var s string
	if err := json.Unmarshal(raw[0], &s); err != nil {
		return "", err
	}
	return s, nil
}
