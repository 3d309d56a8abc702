package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"arb-monitor-go/gateway"
	"arb-monitor-go/infrastructure/logger"
)

const (
	retryBackoff = 3 * time.Second
	maxBackoff   = 30 * time.Second
)

// adapterRunner 把一个 Adapter 托管为生命周期组件：
// 后台循环调用 Run，断开后退避重连。重连在核心之外，
// adapter 自身只负责单次连接的生命周期。
type adapterRunner struct {
	adapter gateway.Adapter
	handler gateway.Handler
	log     *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
	stopCh chan struct{}
	once   sync.Once
}

func newAdapterRunner(a gateway.Adapter, h gateway.Handler, log *logger.Logger) *adapterRunner {
	return &adapterRunner{
		adapter: a,
		handler: h,
		log:     log,
		done:    make(chan struct{}),
		stopCh:  make(chan struct{}),
	}
}

func (r *adapterRunner) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	go r.loop(runCtx)
	return nil
}

func (r *adapterRunner) loop(ctx context.Context) {
	defer close(r.done)
	retries := 0
	for {
		if ctx.Err() != nil {
			return
		}
		started := time.Now()
		err := r.adapter.Run(ctx, r.handler)
		if err == nil || ctx.Err() != nil {
			return
		}
		// 稳定运行过一段时间的连接断开后从头开始退避。
		if time.Since(started) > time.Minute {
			retries = 0
		}
		retries++
		backoff := time.Duration(retries) * retryBackoff
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		r.log.Warn("stream disconnected, reconnecting",
			zap.String("exchange", string(r.adapter.Exchange())),
			zap.Error(err),
			zap.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}

func (r *adapterRunner) Stop() error {
	r.once.Do(func() {
		close(r.stopCh)
		if r.cancel != nil {
			r.cancel()
		}
		select {
		case <-r.done:
		case <-time.After(5 * time.Second):
		}
	})
	return nil
}

// Health 反映托管循环本身而非链路：单所断线会自动重连，
// 属于正常降级，不应拖垮整个进程的健康状态。
func (r *adapterRunner) Health() error {
	select {
	case <-r.done:
		if r.stopped() {
			return nil
		}
		return fmt.Errorf("%s runner exited", r.adapter.Exchange())
	default:
		return nil
	}
}

func (r *adapterRunner) stopped() bool {
	select {
	case <-r.stopCh:
		return true
	default:
		return false
	}
}
