package market

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"arb-monitor-go/gateway"
	"arb-monitor-go/infrastructure/logger"
	"arb-monitor-go/metrics"
)

// DefaultViewDepth 对外视图每侧的档位数。
const DefaultViewDepth = 20

// Service 单写者状态机：持有报价表与当前追踪的订单簿，
// adapter 回调在各自 goroutine 里进来，统一在 mu 下串行化；
// 锁内只做内存变更，绝不跨 I/O 持锁。
// 实现 gateway.Handler。
type Service struct {
	log   *logger.Logger
	pub   *Publisher
	depth int

	mu           sync.Mutex
	quotes       *Aggregator
	book         *Book
	bookExchange gateway.ExchangeID
	conns        map[gateway.ExchangeID]gateway.ConnState
	opp          *Opportunity
}

func NewService(pub *Publisher, bookExchange gateway.ExchangeID, log *logger.Logger) *Service {
	if pub == nil {
		pub = NewPublisher()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		log:          log,
		pub:          pub,
		depth:        DefaultViewDepth,
		quotes:       NewAggregator(),
		book:         NewBook(),
		bookExchange: bookExchange,
		conns:        make(map[gateway.ExchangeID]gateway.ConnState),
	}
}

// Publisher 返回底层发布器，供消费者订阅。
func (s *Service) Publisher() *Publisher { return s.pub }

// SetViewDepth 调整对外视图每侧档位数；非正值忽略。
func (s *Service) SetViewDepth(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.depth = n
	s.mu.Unlock()
}

// OnQuote 覆盖该所报价并同步重算最优套利机会。
func (s *Service) OnQuote(u gateway.QuoteUpdate) {
	s.mu.Lock()
	s.quotes.Update(Quote{
		Exchange:   u.Exchange,
		Bid:        u.Bid,
		Ask:        u.Ask,
		ObservedAt: u.ObservedAt,
	})
	prev := s.opp
	s.opp = BestOpportunity(s.quotes.All())
	if s.opp != nil {
		metrics.BestProfit.Set(s.opp.Profit)
		if prev == nil {
			s.log.Info("opportunity opened",
				zap.String("buy", string(s.opp.BuyExchange)),
				zap.String("sell", string(s.opp.SellExchange)),
				zap.Float64("profit", s.opp.Profit))
		}
	} else {
		metrics.BestProfit.Set(0)
	}
	s.publishLocked()
	s.mu.Unlock()
}

// OnBook 应用订单簿事件。非当前追踪交易所的事件直接丢弃，
// 切换后迟到的帧不可能误入新簿。
func (s *Service) OnBook(u gateway.BookUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Exchange != s.bookExchange {
		return
	}
	if u.Snapshot {
		s.book.ApplySnapshot(u.Bids, u.Asks)
		metrics.BookUpdates.WithLabelValues(string(u.Exchange), "snapshot").Inc()
	} else {
		if !s.book.ApplyIncremental(u.Bids, u.Asks) {
			// 快照前的增量，启动期正常竞态。
			return
		}
		metrics.BookUpdates.WithLabelValues(string(u.Exchange), "delta").Inc()
	}
	bidLevels, askLevels := s.book.Depth()
	metrics.BookLevels.WithLabelValues("bid").Set(float64(bidLevels))
	metrics.BookLevels.WithLabelValues("ask").Set(float64(askLevels))
	s.publishLocked()
}

// OnState 记录连接状态，进入发布快照供展示层渲染。
func (s *Service) OnState(ex gateway.ExchangeID, st gateway.ConnState) {
	s.mu.Lock()
	s.conns[ex] = st
	s.publishLocked()
	s.mu.Unlock()
}

// SwitchBook 切换追踪的交易所：旧簿整体废弃，新簿从未初始化起步，
// 下一个快照前 TopN 为空。
func (s *Service) SwitchBook(ex gateway.ExchangeID) {
	s.mu.Lock()
	if ex != s.bookExchange {
		s.bookExchange = ex
		s.book = NewBook()
		s.log.Info("book exchange switched", zap.String("exchange", string(ex)))
		s.publishLocked()
	}
	s.mu.Unlock()
}

// BookExchange 返回当前追踪的交易所。
func (s *Service) BookExchange() gateway.ExchangeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookExchange
}

// Snapshot 返回最新发布的快照。
func (s *Service) Snapshot() Snapshot {
	return s.pub.Latest()
}

// publishLocked 在 s.mu 下组装完整快照并发布。
func (s *Service) publishLocked() {
	bids, asks := s.book.TopN(s.depth)
	conns := make(map[gateway.ExchangeID]gateway.ConnState, len(s.conns))
	for ex, st := range s.conns {
		conns[ex] = st
	}
	s.pub.Publish(Snapshot{
		Quotes:      s.quotes.All(),
		Opportunity: s.opp,
		Book: BookView{
			Exchange: s.bookExchange,
			Bids:     bids,
			Asks:     asks,
		},
		Connections: conns,
		UpdatedAt:   time.Now().UTC(),
	})
}
