package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arb-monitor-go/gateway"
)

func quoteSet(entries map[gateway.ExchangeID][2]float64) map[gateway.ExchangeID]Quote {
	out := make(map[gateway.ExchangeID]Quote, len(entries))
	for ex, ba := range entries {
		out[ex] = Quote{Exchange: ex, Bid: ba[0], Ask: ba[1]}
	}
	return out
}

// TestBestOpportunity 覆盖全量扫描的各边界情形
func TestBestOpportunity(t *testing.T) {
	testCases := []struct {
		name       string
		quotes     map[gateway.ExchangeID][2]float64
		wantNil    bool
		wantBuy    gateway.ExchangeID
		wantSell   gateway.ExchangeID
		wantProfit float64
	}{
		{
			name:    "空集合无机会",
			quotes:  map[gateway.ExchangeID][2]float64{},
			wantNil: true,
		},
		{
			name: "单交易所无机会",
			quotes: map[gateway.ExchangeID][2]float64{
				gateway.ExchangeBinance: {100, 101},
			},
			wantNil: true,
		},
		{
			name: "正向价差 buy=A sell=B",
			quotes: map[gateway.ExchangeID][2]float64{
				gateway.ExchangeBinance:  {100, 101}, // bid, ask
				gateway.ExchangeCoinbase: {105, 106},
			},
			wantBuy:    gateway.ExchangeBinance,
			wantSell:   gateway.ExchangeCoinbase,
			wantProfit: 4,
		},
		{
			name: "双向都无正价差",
			quotes: map[gateway.ExchangeID][2]float64{
				gateway.ExchangeBinance:  {100, 102},
				gateway.ExchangeCoinbase: {99, 101},
			},
			wantNil: true,
		},
		{
			name: "三所取利润最大的对",
			quotes: map[gateway.ExchangeID][2]float64{
				gateway.ExchangeBinance:  {100, 101},
				gateway.ExchangeCoinbase: {103, 104},
				gateway.ExchangeKraken:   {108, 109},
			},
			wantBuy:    gateway.ExchangeBinance,
			wantSell:   gateway.ExchangeKraken,
			wantProfit: 7,
		},
		{
			name: "利润相同保留字典序先遇到的对",
			quotes: map[gateway.ExchangeID][2]float64{
				gateway.ExchangeBinance:  {105, 100},
				gateway.ExchangeCoinbase: {105, 100},
				gateway.ExchangeKraken:   {105, 100},
			},
			// binance 买 / coinbase 卖 是字典序下第一个正利润对。
			wantBuy:    gateway.ExchangeBinance,
			wantSell:   gateway.ExchangeCoinbase,
			wantProfit: 5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BestOpportunity(quoteSet(tc.quotes))
			if tc.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tc.wantBuy, got.BuyExchange)
			assert.Equal(t, tc.wantSell, got.SellExchange)
			assert.InDelta(t, tc.wantProfit, got.Profit, 1e-9)
			assert.Greater(t, got.Profit, 0.0)
			assert.NotEqual(t, got.BuyExchange, got.SellExchange)
		})
	}
}

// TestBestOpportunityUsesAskForBuyAndBidForSell 买价必须来自 ask，卖价必须来自 bid
func TestBestOpportunityUsesAskForBuyAndBidForSell(t *testing.T) {
	quotes := quoteSet(map[gateway.ExchangeID][2]float64{
		gateway.ExchangeBinance:  {100, 101},
		gateway.ExchangeCoinbase: {105, 106},
	})
	got := BestOpportunity(quotes)
	require.NotNil(t, got)
	assert.Equal(t, quotes[got.BuyExchange].Ask, got.BuyPrice)
	assert.Equal(t, quotes[got.SellExchange].Bid, got.SellPrice)
	assert.InDelta(t, got.Profit/got.BuyPrice*100, got.ProfitPercent, 1e-9)
}
