package gallery

import (
	"context"
)

// FrameLoop schedules one callback per display frame. The host drives it by
// calling Tick once per frame; cancelling the context or calling Stop ends
// the loop and no further callbacks run.
type FrameLoop struct {
	ctx    context.Context
	cancel context.CancelFunc
	frame  func(dt float32)
	frames uint64
}

func NewFrameLoop(parent context.Context, frame func(dt float32)) *FrameLoop {
	ctx, cancel := context.WithCancel(parent)
	return &FrameLoop{ctx: ctx, cancel: cancel, frame: frame}
}

// Tick runs the frame callback unless the loop has stopped. It reports
// whether the callback ran.
func (l *FrameLoop) Tick(dt float32) bool {
	if l.ctx.Err() != nil {
		return false
	}
	l.frames++
	l.frame(dt)
	return true
}

// Stop cancels the loop. Safe to call more than once.
func (l *FrameLoop) Stop() {
	l.cancel()
}

func (l *FrameLoop) Running() bool {
	return l.ctx.Err() == nil
}

// Done is closed when the loop stops.
func (l *FrameLoop) Done() <-chan struct{} {
	return l.ctx.Done()
}

// Frames is the number of callbacks run so far.
func (l *FrameLoop) Frames() uint64 {
	return l.frames
}
