// Package tween interpolates float32 fields of scene state toward target
// values. Every (target, field) pair has at most one controlling tween: the
// most recently requested one.
package tween

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Spec describes timing for a group of fields started together.
type Spec struct {
	Duration float32 // seconds
	Delay    float32 // seconds before the tween starts and captures its start value
	Ease     ease.TweenFunc
}

// Field binds a named float32 to its target value.
type Field struct {
	Name string
	Ptr  *float32
	To   float32
}

// F is shorthand for building a Field.
func F(name string, ptr *float32, to float32) Field {
	return Field{Name: name, Ptr: ptr, To: to}
}

type key struct {
	target any
	field  string
}

type track struct {
	ptr  *float32
	to   float32
	spec Spec
	wait float32
	tw   *gween.Tween
}

// Engine owns all in-flight tweens. It is not safe for concurrent use; drive
// it from the render loop.
type Engine struct {
	active  map[key]*track
	pending map[key]*track
}

func New() *Engine {
	return &Engine{
		active:  make(map[key]*track),
		pending: make(map[key]*track),
	}
}

// To starts tweens on fields of target. An earlier pending tween on the same
// field is discarded immediately. An earlier running tween is replaced now
// when spec has no delay, or when the delay elapses otherwise.
func (e *Engine) To(target any, spec Spec, fields ...Field) {
	if spec.Ease == nil {
		spec.Ease = ease.Linear
	}
	for _, f := range fields {
		if f.Ptr == nil {
			continue
		}
		t := target
		if t == nil {
			t = f.Ptr
		}
		k := key{target: t, field: f.Name}
		delete(e.pending, k)

		tr := &track{ptr: f.Ptr, to: f.To, spec: spec, wait: spec.Delay}
		if spec.Delay > 0 {
			e.pending[k] = tr
			continue
		}
		e.activate(k, tr)
	}
}

func (e *Engine) activate(k key, tr *track) {
	if tr.spec.Duration <= 0 {
		*tr.ptr = tr.to
		delete(e.active, k)
		return
	}
	tr.tw = gween.New(*tr.ptr, tr.to, tr.spec.Duration, tr.spec.Ease)
	e.active[k] = tr
}

// Update advances every tween by dt seconds and writes the results.
func (e *Engine) Update(dt float32) {
	if dt < 0 {
		dt = 0
	}
	for k, tr := range e.active {
		e.step(k, tr, dt)
	}
	// Delayed tweens start from whatever the running tween left this frame.
	for k, tr := range e.pending {
		tr.wait -= dt
		if tr.wait > 0 {
			continue
		}
		delete(e.pending, k)
		e.activate(k, tr)
		if tr.tw != nil {
			e.step(k, tr, -tr.wait)
		}
	}
}

func (e *Engine) step(k key, tr *track, dt float32) {
	v, done := tr.tw.Update(dt)
	if done {
		*tr.ptr = tr.to
		delete(e.active, k)
		return
	}
	*tr.ptr = v
}

// Target reports the end value of the tween that will ultimately control
// the field, if any is pending or running.
func (e *Engine) Target(target any, field string) (float32, bool) {
	k := key{target: target, field: field}
	if tr, ok := e.pending[k]; ok {
		return tr.to, true
	}
	if tr, ok := e.active[k]; ok {
		return tr.to, true
	}
	return 0, false
}

// Running reports whether the field has a pending or running tween.
func (e *Engine) Running(target any, field string) bool {
	_, ok := e.Target(target, field)
	return ok
}

// Len returns the number of pending and running tweens.
func (e *Engine) Len() int {
	return len(e.active) + len(e.pending)
}

// Cancel drops every tween on target, leaving fields at their current values.
func (e *Engine) Cancel(target any) {
	for k := range e.active {
		if k.target == target {
			delete(e.active, k)
		}
	}
	for k := range e.pending {
		if k.target == target {
			delete(e.pending, k)
		}
	}
}

// Clear drops every tween.
func (e *Engine) Clear() {
	clear(e.active)
	clear(e.pending)
}
