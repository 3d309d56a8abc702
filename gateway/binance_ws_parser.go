package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// combinedFrame 对应 binance combined stream 包装。
type combinedFrame struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// bookTickerFrame bookTicker 流的核心字段（价格为字符串）。
type bookTickerFrame struct {
	Symbol string `json:"s"`
	Bid    string `json:"b"`
	Ask    string `json:"a"`
}

// partialDepthFrame depth20 流，每帧都是完整的前 20 档。
type partialDepthFrame struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}

var errUnknownStream = errors.New("unknown stream")

// ParseBinanceFrame 解析 combined stream 的一帧，返回 quote 或 book 事件之一。
// depth20 每帧自含完整前 20 档，因此一律按快照处理。
func ParseBinanceFrame(raw []byte) (*QuoteUpdate, *BookUpdate, error) {
	var frame combinedFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, nil, fmt.Errorf("binance frame: %w", err)
	}

	switch {
	case strings.Contains(frame.Stream, "@bookTicker"):
		var t bookTickerFrame
		if err := json.Unmarshal(frame.Data, &t); err != nil {
			return nil, nil, fmt.Errorf("binance bookTicker: %w", err)
		}
		bid, err := parsePrice(t.Bid)
		if err != nil {
			return nil, nil, err
		}
		ask, err := parsePrice(t.Ask)
		if err != nil {
			return nil, nil, err
		}
		if !validQuote(bid, ask) {
			return nil, nil, fmt.Errorf("binance bookTicker: empty side bid=%v ask=%v", bid, ask)
		}
		return &QuoteUpdate{
			Exchange:   ExchangeBinance,
			Bid:        bid,
			Ask:        ask,
			ObservedAt: time.Now().UTC(),
		}, nil, nil

	case strings.Contains(frame.Stream, "@depth"):
		var d partialDepthFrame
		if err := json.Unmarshal(frame.Data, &d); err != nil {
			return nil, nil, fmt.Errorf("binance depth: %w", err)
		}
		bids, err := parseLevels(d.Bids)
		if err != nil {
			return nil, nil, fmt.Errorf("binance depth bids: %w", err)
		}
		asks, err := parseLevels(d.Asks)
		if err != nil {
			return nil, nil, fmt.Errorf("binance depth asks: %w", err)
		}
		return nil, &BookUpdate{
			Exchange: ExchangeBinance,
			Snapshot: true,
			Bids:     bids,
			Asks:     asks,
		}, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", errUnknownStream, frame.Stream)
	}
}
