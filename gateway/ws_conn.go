package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"arb-monitor-go/infrastructure/logger"
	"arb-monitor-go/metrics"
)

const readDeadline = 30 * time.Second

// streamConn 封装三个 adapter 共用的连接骨架：
// 拨号、订阅帧下发、读循环（带 read deadline + pong 续期）、状态维护。
// 每个 adapter 独占一个 streamConn，帧按到达顺序同步回调。
type streamConn struct {
	exchange ExchangeID
	log      *logger.Logger

	mu    sync.Mutex
	state ConnState
	conn  *websocket.Conn
}

func newStreamConn(exchange ExchangeID, log *logger.Logger) *streamConn {
	return &streamConn{
		exchange: exchange,
		log:      log,
		state:    ConnState{Status: StatusConnecting},
	}
}

func (s *streamConn) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *streamConn) setState(h Handler, st ConnState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	if st.Status == StatusConnected {
		metrics.WSConnected.WithLabelValues(string(s.exchange)).Set(1)
	} else {
		metrics.WSConnected.WithLabelValues(string(s.exchange)).Set(0)
	}
	if h != nil {
		h.OnState(s.exchange, st)
	}
}

// run 执行一次完整的连接生命周期。subscribe 为 nil 表示 URL 即订阅
// （Binance 风格）；否则在传输打开后逐帧下发。
func (s *streamConn) run(ctx context.Context, h Handler, wsURL string, subscribe [][]byte, onFrame func([]byte)) error {
	s.setState(h, ConnState{Status: StatusConnecting})

	dialer := websocket.DefaultDialer
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		s.setState(h, ConnState{Status: StatusDisconnected, Reason: err.Error()})
		return err
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
		conn.Close()
	}()

	for _, frame := range subscribe {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			s.setState(h, ConnState{Status: StatusDisconnected, Reason: err.Error()})
			return err
		}
	}
	s.setState(h, ConnState{Status: StatusConnected})
	s.log.Info("stream connected",
		zap.String("exchange", string(s.exchange)),
		zap.String("url", wsURL))

	// ctx 取消时关闭连接，唤醒阻塞中的 ReadMessage。
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-watchDone:
		}
	}()

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				s.setState(h, ConnState{Status: StatusDisconnected, Reason: "shutdown"})
				return nil
			}
			s.setState(h, ConnState{Status: StatusDisconnected, Reason: err.Error()})
			return err
		}
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		onFrame(msg)
	}
}
