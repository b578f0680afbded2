package components

import (
	"papergallery/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// AmbientPose is a panel's idle pose at clock time t.
type AmbientPose struct {
	Position rl.Vector3
	Yaw      float32 // radians, added to the record rotation
	Pulse    float32 // scale multiplier around 1
}

// PanelPose computes the idle drift for panel index at time t. Phase is
// offset by index so neighbouring panels never move in lockstep; when
// sin(phase) is zero the panel sits exactly at home.
func PanelPose(t float32, index int, home rl.Vector3) AmbientPose {
	offset := float32(index) * 0.5
	phase := t + offset
	return AmbientPose{
		Position: rl.Vector3{
			X: home.X + 0.04*math32.Sin(2*phase),
			Y: home.Y + 0.08*math32.Sin(phase),
			Z: home.Z,
		},
		Yaw:   math32.Sin(0.3*t+offset) * 0.08 * math32.Pi,
		Pulse: 1 + 0.02*math32.Sin(0.5*t+offset),
	}
}

// PanelAnimator applies PanelPose every frame. FocusScale is the tween-driven
// emphasis the pulse is composed on.
type PanelAnimator struct {
	engine.BaseComponent
	Clock        *engine.Clock
	Index        int
	Home         rl.Vector3
	BaseRotation rl.Vector3
	FocusScale   float32
}

func NewPanelAnimator(clock *engine.Clock, index int, home, rotation rl.Vector3) *PanelAnimator {
	return &PanelAnimator{
		Clock:        clock,
		Index:        index,
		Home:         home,
		BaseRotation: rotation,
		FocusScale:   1,
	}
}

func (a *PanelAnimator) Update(deltaTime float32) {
	g := a.Owner()
	if g == nil || a.Clock == nil {
		return
	}

	pose := PanelPose(a.Clock.Now(), a.Index, a.Home)
	g.Transform.Position = pose.Position
	g.Transform.Rotation = a.BaseRotation
	g.Transform.Rotation.Y += pose.Yaw
	s := a.FocusScale * pose.Pulse
	g.Transform.Scale = rl.Vector3{X: s, Y: s, Z: s}
}
