package animation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
	"github.com/uyouii/mollifier/utils"
	"go.uber.org/zap"
)

const (
	DefaultStep     = 0.02
	DefaultInterval = 16 * time.Millisecond
)

type State struct {
	Position float64 `json:"position"`
	Playing  bool    `json:"playing"`
}

// FrameFunc receives the position after every tick. It runs on the animation
// goroutine and must not call Stop, Reset, Seek or Toggle on the same Animator.
type FrameFunc func(ctx context.Context, state State)

// Animator slides a position across a domain one fixed step per tick and
// stops on its own once the upper bound is reached.
type Animator struct {
	mu       sync.Mutex
	domain   model.Interval
	step     float64
	position float64

	// non-nil while a tick loop is running
	cancel context.CancelFunc
	done   chan struct{}
}

func NewAnimator(domain model.Interval, start, step float64) (*Animator, error) {
	if domain.Empty() || !domain.Bounded() {
		return nil, fmt.Errorf("domain %v: %w", domain, common.ErrorInvalidValue)
	}
	if step <= 0 {
		step = DefaultStep
	}
	return &Animator{
		domain:   domain,
		step:     step,
		position: utils.Clamp(start, domain.Lower, domain.Upper),
	}, nil
}

func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{Position: a.position, Playing: a.cancel != nil}
}

func (a *Animator) Position() float64 {
	return a.State().Position
}

func (a *Animator) Playing() bool {
	return a.State().Playing
}

func (a *Animator) Domain() model.Interval {
	return a.domain
}

// Tick advances the position by one step, never past the upper bound. Once
// the position sits on the bound Tick reports done and changes nothing.
func (a *Animator) Tick() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tickLocked()
}

func (a *Animator) tickLocked() (float64, bool) {
	if a.position >= a.domain.Upper {
		a.position = a.domain.Upper
		return a.position, true
	}
	a.position = min(a.position+a.step, a.domain.Upper)
	return a.position, false
}

// Start runs the tick loop every interval until the bound is reached or Stop
// is called. It returns false without scheduling anything when a loop is
// already running.
func (a *Animator) Start(ctx context.Context, interval time.Duration, onFrame FrameFunc) bool {
	logger := utils.GetLogger(ctx)
	if interval <= 0 {
		interval = DefaultInterval
	}

	a.mu.Lock()
	if a.cancel != nil {
		a.mu.Unlock()
		logger.Debug("animation already running, skip start")
		return false
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.cancel, a.done = cancel, done
	a.mu.Unlock()

	logger.Info("animation started", zap.Float64("position", a.Position()), zap.Duration("interval", interval))
	go a.run(runCtx, cancel, done, interval, onFrame)
	return true
}

func (a *Animator) run(ctx context.Context, cancel context.CancelFunc, done chan struct{},
	interval time.Duration, onFrame FrameFunc) {
	logger := utils.GetLogger(ctx)
	ticker := time.NewTicker(interval)

	defer func() {
		ticker.Stop()
		cancel()
		a.mu.Lock()
		if a.done == done {
			a.cancel, a.done = nil, nil
		}
		a.mu.Unlock()
		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		a.mu.Lock()
		// Stop may have won the race with this tick
		if ctx.Err() != nil {
			a.mu.Unlock()
			return
		}
		pos, finished := a.tickLocked()
		if finished {
			a.cancel, a.done = nil, nil
		}
		a.mu.Unlock()

		if onFrame != nil {
			onFrame(ctx, State{Position: pos, Playing: !finished})
		}
		if finished {
			logger.Info("animation reached domain end", zap.Float64("position", pos))
			return
		}
	}
}

// Stop cancels the running loop and waits for it to exit. No position update
// happens after Stop returns. Stopping an idle Animator is a no-op.
func (a *Animator) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Toggle starts a stopped animation or stops a running one and reports
// whether it is playing afterwards.
func (a *Animator) Toggle(ctx context.Context, interval time.Duration, onFrame FrameFunc) bool {
	if a.Playing() {
		a.Stop()
		return false
	}
	return a.Start(ctx, interval, onFrame)
}

// Reset stops the animation and rewinds to the lower bound.
func (a *Animator) Reset() {
	a.Seek(a.domain.Lower)
}

// Seek stops the animation and moves to t, clamped into the domain.
func (a *Animator) Seek(t float64) float64 {
	a.Stop()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.position = utils.Clamp(t, a.domain.Lower, a.domain.Upper)
	return a.position
}

// Done is closed when the current loop exits. It is already closed when
// nothing is running.
func (a *Animator) Done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done != nil {
		return a.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}
