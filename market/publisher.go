package market

import "sync"

// Publisher 向任意数量读者广播最新 Snapshot。
// 订阅通道缓冲为 1 且发送不阻塞：消费慢的订阅者丢中间值，
// 轮询 Latest 的读者总是拿到完整的最新快照（单槽邮箱语义）。
type Publisher struct {
	mu     sync.RWMutex
	latest Snapshot
	subs   []chan Snapshot
}

func NewPublisher() *Publisher {
	return &Publisher{
		subs: make([]chan Snapshot, 0),
	}
}

// Subscribe 返回接收变更通知的只读通道。
func (p *Publisher) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	p.mu.Lock()
	p.subs = append(p.subs, ch)
	p.mu.Unlock()
	return ch
}

// Publish 替换最新快照并通知订阅者。
func (p *Publisher) Publish(s Snapshot) {
	p.mu.Lock()
	p.latest = s
	subs := p.subs
	p.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// Latest 返回最近一次发布的快照。
func (p *Publisher) Latest() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}
