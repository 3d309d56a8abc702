package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoinbaseTicker(t *testing.T) {
	raw := []byte(`{"type":"ticker","sequence":12345,"product_id":"BTC-USD","price":"50100.00","best_bid":"50099.50","best_ask":"50100.50"}`)
	quote, book, err := ParseCoinbaseFrame(raw)
	require.NoError(t, err)
	assert.Nil(t, book)
	require.NotNil(t, quote)
	assert.Equal(t, ExchangeCoinbase, quote.Exchange)
	assert.Equal(t, 50099.5, quote.Bid)
	assert.Equal(t, 50100.5, quote.Ask)
}

func TestParseCoinbaseSnapshot(t *testing.T) {
	raw := []byte(`{"type":"snapshot","product_id":"BTC-USD","bids":[["50000.00","1.5"],["49999.00","2.0"]],"asks":[["50001.00","0.5"]]}`)
	quote, book, err := ParseCoinbaseFrame(raw)
	require.NoError(t, err)
	assert.Nil(t, quote)
	require.NotNil(t, book)
	assert.True(t, book.Snapshot)
	assert.Len(t, book.Bids, 2)
	assert.Len(t, book.Asks, 1)
	assert.Equal(t, 50000.0, book.Bids[0].Price)
}

func TestParseCoinbaseL2Update(t *testing.T) {
	raw := []byte(`{"type":"l2update","product_id":"BTC-USD","changes":[["buy","50000.00","3.0"],["sell","50001.00","0"]]}`)
	quote, book, err := ParseCoinbaseFrame(raw)
	require.NoError(t, err)
	assert.Nil(t, quote)
	require.NotNil(t, book)
	assert.False(t, book.Snapshot)
	require.Len(t, book.Bids, 1)
	assert.Equal(t, PriceLevel{Price: 50000, Qty: 3}, book.Bids[0])
	// size 0 的增量保留为删除语义，由订单簿处理。
	require.Len(t, book.Asks, 1)
	assert.Equal(t, PriceLevel{Price: 50001, Qty: 0}, book.Asks[0])
}

func TestParseCoinbaseIgnoresHousekeeping(t *testing.T) {
	for _, raw := range []string{
		`{"type":"subscriptions","channels":[]}`,
		`{"type":"heartbeat","sequence":90}`,
		`{"type":"ticker","product_id":"BTC-USD"}`, // 无 best_bid/best_ask
	} {
		quote, book, err := ParseCoinbaseFrame([]byte(raw))
		assert.NoError(t, err, raw)
		assert.Nil(t, quote, raw)
		assert.Nil(t, book, raw)
	}
}

func TestParseCoinbaseRejectsBadInput(t *testing.T) {
	for name, raw := range map[string]string{
		"malformed json": `{"type":"ticker"`,
		"bad bid":        `{"type":"ticker","best_bid":"abc","best_ask":"1.0"}`,
		"short change":   `{"type":"l2update","changes":[["buy","50000.00"]]}`,
		"unknown side":   `{"type":"l2update","changes":[["hold","50000.00","1"]]}`,
		"error message":  `{"type":"error","message":"rate limit"}`,
	} {
		quote, book, err := ParseCoinbaseFrame([]byte(raw))
		assert.Error(t, err, name)
		assert.Nil(t, quote, name)
		assert.Nil(t, book, name)
	}
}
