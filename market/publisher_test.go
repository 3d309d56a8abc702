package market

import (
	"testing"

	"arb-monitor-go/gateway"
)

func TestPublisher(t *testing.T) {
	p := NewPublisher()
	ch := p.Subscribe()
	p.Publish(Snapshot{Opportunity: &Opportunity{Profit: 1}})
	if got := <-ch; got.Opportunity == nil || got.Opportunity.Profit != 1 {
		t.Fatalf("unexpected snapshot %+v", got)
	}
}

func TestPublisherSlowSubscriberDoesNotBlock(t *testing.T) {
	p := NewPublisher()
	_ = p.Subscribe() // 从不消费
	for i := 0; i < 100; i++ {
		p.Publish(Snapshot{Opportunity: &Opportunity{Profit: float64(i)}})
	}
	// 轮询读者总能拿到最新值。
	if got := p.Latest(); got.Opportunity.Profit != 99 {
		t.Fatalf("latest must win, got %+v", got.Opportunity)
	}
}

func TestPublisherLatestIsWholeSnapshot(t *testing.T) {
	p := NewPublisher()
	p.Publish(Snapshot{
		Quotes: map[gateway.ExchangeID]Quote{
			gateway.ExchangeBinance: {Bid: 100, Ask: 101},
		},
		Book: BookView{Exchange: gateway.ExchangeBinance},
	})
	got := p.Latest()
	if got.Quotes[gateway.ExchangeBinance].Bid != 100 || got.Book.Exchange != gateway.ExchangeBinance {
		t.Fatalf("snapshot fields must travel together, got %+v", got)
	}
}
