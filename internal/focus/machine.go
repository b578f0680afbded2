// Package focus moves the gallery between the general view and a focused
// panel, scheduling the camera, lighting and post-processing tweens for each
// transition.
package focus

import (
	"papergallery/internal/engine"
	"papergallery/internal/postfx"
	"papergallery/internal/tween"
	"papergallery/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/tanema/gween/ease"
)

// General is the focus index of the overview.
const General = -1

// FocusOffset places the camera relative to a focused panel's home.
var FocusOffset = rl.Vector3{X: -1.5, Y: 0, Z: 4}

// FocusedScale is the emphasis scale of the focused panel.
const FocusedScale float32 = 1.05

var (
	cameraMove = tween.Spec{Duration: 1.8, Ease: ease.InOutCubic}
	dofMove    = tween.Spec{Duration: 1.8, Ease: ease.InOutQuad}
	scaleUp    = tween.Spec{Duration: 1.2, Ease: ease.OutQuad}
	scaleDown  = tween.Spec{Duration: 0.8, Ease: ease.OutQuad}
	spotMove   = tween.Spec{Duration: 1.5, Ease: ease.InOutQuad}
	bloomIn    = tween.Spec{Duration: 1.5, Delay: 0.3, Ease: ease.InOutQuad}
	bloomOut   = tween.Spec{Duration: 1.0, Ease: ease.OutQuad}
)

// Panels is the lookup the machine navigates. Panel returns nil for a slot
// whose image never loaded.
type Panels interface {
	Len() int
	Panel(index int) *world.Panel
}

// Targets are the values focus transitions animate.
type Targets struct {
	Camera  *rl.Vector3
	SpotAim *rl.Vector3
	Params  *postfx.Params
}

// Machine tracks the focused panel. It is driven from the render thread.
type Machine struct {
	// OnFocusChange receives the newly focused record, or nil for the
	// general view, once per completed transition.
	OnFocusChange engine.EventWithArg[*world.PanelRecord]

	panels  Panels
	tweens  *tween.Engine
	targets Targets
	current int
}

func New(panels Panels, tweens *tween.Engine, targets Targets) *Machine {
	return &Machine{
		panels:  panels,
		tweens:  tweens,
		targets: targets,
		current: General,
	}
}

// Current is the focused panel index, or General.
func (m *Machine) Current() int {
	return m.current
}

// Step moves focus by d (+1 forward, -1 back), skipping panels that never
// loaded. Moving forward past the last panel is a no-op. Moving back before
// the first panel always restarts the general view and notifies, even from
// the general view. It reports whether a transition happened.
func (m *Machine) Step(d int) bool {
	if d == 0 {
		return false
	}
	next := m.current + d
	for next >= 0 && next < m.panels.Len() && m.panels.Panel(next) == nil {
		next += d
	}

	switch {
	case next >= m.panels.Len():
		return false
	case next < 0:
		m.toGeneral()
		return true
	default:
		m.focus(next)
		return true
	}
}

func (m *Machine) focus(index int) {
	m.defocusCurrent()

	p := m.panels.Panel(index)
	m.current = index
	home := p.Home()

	cam := rl.Vector3Add(home, FocusOffset)
	m.tweenVector(m.targets.Camera, cameraMove, cam)
	m.tweenDOF(postfx.FocusedDOF)
	m.tweens.To(p, scaleUp, tween.F("scale", p.FocusScale(), FocusedScale))
	m.tweenVector(m.targets.SpotAim, spotMove, home)
	m.tweenBloom(bloomIn, 1)

	rec := p.Record
	m.OnFocusChange.Invoke(&rec)
}

// ReturnToGeneral defocuses the current panel and restores the overview.
// It is a no-op in the general view.
func (m *Machine) ReturnToGeneral() bool {
	if m.current == General {
		return false
	}
	m.toGeneral()
	return true
}

func (m *Machine) toGeneral() {
	m.defocusCurrent()
	m.current = General

	m.tweenBloom(bloomOut, 0)
	m.tweenDOF(postfx.GeneralDOF)
	m.tweenVector(m.targets.Camera, cameraMove, world.GeneralViewPosition)
	m.tweenVector(m.targets.SpotAim, spotMove, rl.Vector3{})

	m.OnFocusChange.Invoke(nil)
}

// defocusCurrent scales the focused panel back down and fades bloom out.
func (m *Machine) defocusCurrent() {
	if m.current == General {
		return
	}
	if old := m.panels.Panel(m.current); old != nil {
		m.tweens.To(old, scaleDown, tween.F("scale", old.FocusScale(), 1))
	}
	m.tweenBloom(bloomOut, 0)
}

// Reset snaps back to the general view without tweening or notifying. Used
// when the hosting view is entered again.
func (m *Machine) Reset() {
	if old := m.panels.Panel(m.current); old != nil {
		m.tweens.Cancel(old)
		*old.FocusScale() = 1
	}
	m.current = General

	for _, v := range []*rl.Vector3{m.targets.Camera, m.targets.SpotAim} {
		if v != nil {
			m.tweens.Cancel(v)
		}
	}
	if m.targets.Camera != nil {
		*m.targets.Camera = world.GeneralViewPosition
	}
	if m.targets.SpotAim != nil {
		*m.targets.SpotAim = rl.Vector3{}
	}
	if params := m.targets.Params; params != nil {
		m.tweens.Cancel(&params.Bloom)
		m.tweens.Cancel(&params.DOF)
		params.Bloom.Strength = 0
		enabled := params.DOF.Enabled
		params.DOF = postfx.GeneralDOF
		params.DOF.Enabled = enabled
	}
}

func (m *Machine) tweenVector(v *rl.Vector3, spec tween.Spec, to rl.Vector3) {
	if v == nil {
		return
	}
	m.tweens.To(v, spec,
		tween.F("x", &v.X, to.X),
		tween.F("y", &v.Y, to.Y),
		tween.F("z", &v.Z, to.Z),
	)
}

func (m *Machine) tweenDOF(to postfx.DOFParams) {
	if m.targets.Params == nil {
		return
	}
	dof := &m.targets.Params.DOF
	m.tweens.To(dof, dofMove,
		tween.F("focus", &dof.Focus, to.Focus),
		tween.F("aperture", &dof.Aperture, to.Aperture),
		tween.F("maxblur", &dof.MaxBlur, to.MaxBlur),
	)
}

func (m *Machine) tweenBloom(spec tween.Spec, to float32) {
	if m.targets.Params == nil {
		return
	}
	bloom := &m.targets.Params.Bloom
	m.tweens.To(bloom, spec, tween.F("strength", &bloom.Strength, to))
}
