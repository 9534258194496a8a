// Package periodicsync drives a recurring background call with its own
// lifecycle: an immediate first call, then one call per period until closed.
package periodicsync

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/maplink/map-sync/app/logger"
)

// Loop is a running periodic call. Close cancels the loop context and
// waits for an in-progress call to return.
type Loop interface {
	Run()
	Close()
}

type CallFunc func(ctx context.Context) error

// NewLoop builds a loop calling call once immediately on Run and then on
// every period tick. A non-positive period keeps only the immediate call.
// timeout bounds each individual call; 0 means unbounded.
func NewLoop(period, timeout time.Duration, call CallFunc, l logger.CtxLogger) Loop {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = logger.CtxWithFields(ctx, zap.String("rootOp", "periodicsync"))
	return &loop{
		call:    call,
		log:     l,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		period:  period,
		timeout: timeout,
	}
}

type loop struct {
	log     logger.CtxLogger
	call    CallFunc
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	period  time.Duration
	timeout time.Duration
	running atomic.Bool
}

func (p *loop) Run() {
	p.running.Store(true)
	go p.run()
}

func (p *loop) run() {
	defer close(p.done)
	p.callOnce()
	if p.period <= 0 {
		return
	}
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()
	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.callOnce()
		}
	}
}

func (p *loop) callOnce() {
	ctx := p.ctx
	if p.timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(p.ctx, p.timeout)
		defer cancel()
	}
	if err := p.call(ctx); err != nil {
		p.log.Warn("background call failed", zap.Error(err))
	}
}

func (p *loop) Close() {
	if !p.running.Load() {
		return
	}
	p.cancel()
	<-p.done
}
