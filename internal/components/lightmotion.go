package components

import (
	"papergallery/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LightPath maps clock time and a resting position to a light position.
type LightPath func(t float32, base rl.Vector3) rl.Vector3

// LightMotion moves a light along Path. Out defaults to the owning object's
// position; spotlights point it at their Nudge instead.
type LightMotion struct {
	engine.BaseComponent
	Clock  *engine.Clock
	Base   rl.Vector3
	Path   LightPath
	Out    *rl.Vector3
	Frozen bool
}

func NewLightMotion(clock *engine.Clock, base rl.Vector3, path LightPath) *LightMotion {
	return &LightMotion{Clock: clock, Base: base, Path: path}
}

func (m *LightMotion) Update(deltaTime float32) {
	if m.Frozen || m.Path == nil || m.Clock == nil {
		return
	}
	out := m.Out
	if out == nil {
		g := m.Owner()
		if g == nil {
			return
		}
		out = &g.Transform.Position
	}
	*out = m.Path(m.Clock.Now(), m.Base)
}
