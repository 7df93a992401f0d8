package animation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
)

func newTestAnimator(t *testing.T, start, step float64) *Animator {
	a, err := NewAnimator(model.NewInterval(-3, 3), start, step)
	require.NoError(t, err)
	return a
}

func waitDone(t *testing.T, a *Animator) {
	select {
	case <-a.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("animation did not finish")
	}
}

func TestNewAnimator(t *testing.T) {
	_, err := NewAnimator(model.NewInterval(1, 1), 0, 0.1)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	a := newTestAnimator(t, -10, 0)
	assert.Equal(t, -3.0, a.Position())
	assert.False(t, a.Playing())
	assert.Equal(t, DefaultStep, a.step)
}

func TestTickAdvancesUntilUpperBound(t *testing.T) {
	a := newTestAnimator(t, 2, 0.25)

	var positions []float64
	for {
		pos, done := a.Tick()
		if done {
			break
		}
		positions = append(positions, pos)
		require.Less(t, len(positions), 100)
	}
	assert.Equal(t, []float64{2.25, 2.5, 2.75, 3}, positions)

	for i := 0; i < 3; i++ {
		pos, done := a.Tick()
		assert.True(t, done)
		assert.Equal(t, 3.0, pos)
	}
}

func TestTickClampsOvershoot(t *testing.T) {
	a := newTestAnimator(t, 2.9, 0.25)
	pos, done := a.Tick()
	assert.False(t, done)
	assert.Equal(t, 3.0, pos)
	_, done = a.Tick()
	assert.True(t, done)
}

func TestStartRunsToEndAndStops(t *testing.T) {
	a := newTestAnimator(t, -2.5, 0.5)

	var mu sync.Mutex
	var frames []State
	started := a.Start(context.Background(), time.Millisecond, func(_ context.Context, s State) {
		mu.Lock()
		frames = append(frames, s)
		mu.Unlock()
	})
	require.True(t, started)
	waitDone(t, a)

	assert.Equal(t, 3.0, a.Position())
	assert.False(t, a.Playing())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, frames, 12)
	assert.Equal(t, State{Position: 3, Playing: true}, frames[10])
	assert.Equal(t, State{Position: 3, Playing: false}, frames[11])
}

func TestStartDoesNotDoubleSchedule(t *testing.T) {
	a := newTestAnimator(t, -3, 0.001)
	ctx := context.Background()

	require.True(t, a.Start(ctx, time.Millisecond, nil))
	done := a.Done()
	assert.False(t, a.Start(ctx, time.Millisecond, nil))
	assert.Equal(t, done, a.Done())

	a.Stop()
	assert.False(t, a.Playing())
}

func TestStopHaltsUpdates(t *testing.T) {
	a := newTestAnimator(t, -3, 0.001)

	var frames atomic.Int64
	require.True(t, a.Start(context.Background(), time.Millisecond, func(context.Context, State) {
		frames.Add(1)
	}))
	time.Sleep(20 * time.Millisecond)
	a.Stop()

	pos, count := a.Position(), frames.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, pos, a.Position())
	assert.Equal(t, count, frames.Load())
	assert.False(t, a.Playing())

	// idempotent
	a.Stop()
}

func TestToggleRapidly(t *testing.T) {
	a := newTestAnimator(t, -3, 0.001)
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		playing := a.Toggle(ctx, time.Millisecond, nil)
		assert.Equal(t, i%2 == 0, playing)
	}
	assert.False(t, a.Playing())
}

func TestContextCancelStopsLoop(t *testing.T) {
	a := newTestAnimator(t, -3, 0.001)
	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, a.Start(ctx, time.Millisecond, nil))
	cancel()
	waitDone(t, a)
	assert.False(t, a.Playing())
}

func TestResetAndSeek(t *testing.T) {
	a := newTestAnimator(t, -2.5, 0.001)
	require.True(t, a.Start(context.Background(), time.Millisecond, nil))

	assert.Equal(t, 1.5, a.Seek(1.5))
	assert.False(t, a.Playing())
	assert.Equal(t, 3.0, a.Seek(7))

	a.Reset()
	assert.Equal(t, -3.0, a.Position())
}
