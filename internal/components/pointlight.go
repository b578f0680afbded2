package components

import (
	"papergallery/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type PointLight struct {
	engine.BaseComponent
	Color         rl.Color
	Intensity     float32
	BaseIntensity float32
	Distance      float32 // falloff distance, 0 = infinite
	Decay         float32
}

func NewPointLight(color rl.Color, intensity, distance, decay float32) *PointLight {
	return &PointLight{
		Color:         color,
		Intensity:     intensity,
		BaseIntensity: intensity,
		Distance:      distance,
		Decay:         decay,
	}
}

func (p *PointLight) GetPosition() rl.Vector3 {
	if g := p.Owner(); g != nil {
		return g.Transform.Position
	}
	return rl.Vector3Zero()
}

func (p *PointLight) ScaleIntensity(multiplier float32) {
	p.Intensity = p.BaseIntensity * multiplier
}

func (p *PointLight) GetColorFloat() []float32 {
	return colorFloat(p.Color, p.Intensity)
}

// SpotLight is a cone light. Its aim point is Aim (driven by focus tweens)
// plus Nudge (driven by ambient motion).
type SpotLight struct {
	engine.BaseComponent
	Color         rl.Color
	Intensity     float32
	BaseIntensity float32
	Distance      float32
	Angle         float32 // cone half-angle, radians
	Penumbra      float32 // 0..1 fraction of the cone that fades
	Decay         float32
	Aim           rl.Vector3
	Nudge         rl.Vector3
}

func NewSpotLight(color rl.Color, intensity, distance, angle, penumbra, decay float32) *SpotLight {
	return &SpotLight{
		Color:         color,
		Intensity:     intensity,
		BaseIntensity: intensity,
		Distance:      distance,
		Angle:         angle,
		Penumbra:      penumbra,
		Decay:         decay,
	}
}

func (s *SpotLight) GetPosition() rl.Vector3 {
	if g := s.Owner(); g != nil {
		return g.Transform.Position
	}
	return rl.Vector3Zero()
}

// Target is the point the cone is aimed at.
func (s *SpotLight) Target() rl.Vector3 {
	return rl.Vector3Add(s.Aim, s.Nudge)
}

func (s *SpotLight) Direction() rl.Vector3 {
	return rl.Vector3Normalize(rl.Vector3Subtract(s.Target(), s.GetPosition()))
}

func (s *SpotLight) ScaleIntensity(multiplier float32) {
	s.Intensity = s.BaseIntensity * multiplier
}

func (s *SpotLight) GetColorFloat() []float32 {
	return colorFloat(s.Color, s.Intensity)
}
