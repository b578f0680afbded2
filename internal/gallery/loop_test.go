package gallery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameLoopTicks(t *testing.T) {
	var total float32
	l := NewFrameLoop(context.Background(), func(dt float32) { total += dt })

	assert.True(t, l.Tick(0.5))
	assert.True(t, l.Tick(0.25))
	assert.Equal(t, float32(0.75), total)
	assert.Equal(t, uint64(2), l.Frames())
	assert.True(t, l.Running())
}

func TestFrameLoopStop(t *testing.T) {
	calls := 0
	l := NewFrameLoop(context.Background(), func(float32) { calls++ })
	l.Tick(1)

	l.Stop()
	l.Stop()

	assert.False(t, l.Tick(1))
	assert.Equal(t, 1, calls)
	assert.False(t, l.Running())
	select {
	case <-l.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}
}

func TestFrameLoopParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	l := NewFrameLoop(ctx, func(float32) { calls++ })

	cancel()

	assert.False(t, l.Tick(1))
	assert.Zero(t, calls)
}

func TestStartAnimationIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.start(t, 1)
	loop := h.c.loop

	h.c.StartAnimation()
	assert.Same(t, loop, h.c.loop)

	h.c.DisposeScene()
	assert.False(t, loop.Running())
}
