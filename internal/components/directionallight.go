package components

import (
	"math"
	"papergallery/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ShadowFrustum is the orthographic volume a directional light renders its
// shadow map from.
type ShadowFrustum struct {
	Left, Right float32
	Top, Bottom float32
	Near, Far   float32
	MapSize     int32
	Bias        float32
}

// DirectionalLight shines from its owner position toward the origin.
type DirectionalLight struct {
	engine.BaseComponent
	Color         rl.Color
	Intensity     float32
	BaseIntensity float32
	CastShadow    bool
	Shadow        ShadowFrustum
}

func NewDirectionalLight(color rl.Color, intensity float32) *DirectionalLight {
	return &DirectionalLight{
		Color:         color,
		Intensity:     intensity,
		BaseIntensity: intensity,
		Shadow: ShadowFrustum{
			Left: -10, Right: 10, Top: 10, Bottom: -10,
			Near: 0.5, Far: 50,
			MapSize: 1024,
		},
	}
}

func (l *DirectionalLight) GetPosition() rl.Vector3 {
	if g := l.Owner(); g != nil {
		return g.Transform.Position
	}
	return rl.Vector3{Y: 1}
}

// Direction is the normalized direction the light travels.
func (l *DirectionalLight) Direction() rl.Vector3 {
	return rl.Vector3Normalize(rl.Vector3Negate(l.GetPosition()))
}

func (l *DirectionalLight) GetLightCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   l.GetPosition(),
		Target:     rl.Vector3Zero(),
		Up:         l.lightCameraUp(),
		Fovy:       l.Shadow.Top - l.Shadow.Bottom,
		Projection: rl.CameraOrthographic,
	}
}

// ShadowProjection builds the asymmetric orthographic projection of the frustum.
func (l *DirectionalLight) ShadowProjection() rl.Matrix {
	s := l.Shadow
	return rl.MatrixOrtho(s.Left, s.Right, s.Bottom, s.Top, s.Near, s.Far)
}

func (l *DirectionalLight) ScaleIntensity(multiplier float32) {
	l.Intensity = l.BaseIntensity * multiplier
}

func (l *DirectionalLight) GetColorFloat() []float32 {
	return colorFloat(l.Color, l.Intensity)
}

func (l *DirectionalLight) lightCameraUp() rl.Vector3 {
	if math.Abs(float64(l.Direction().Y)) > 0.9 {
		return rl.Vector3{X: 0, Y: 0, Z: 1}
	}
	return rl.Vector3{X: 0, Y: 1, Z: 0}
}

// AmbientLight is a uniform fill term.
type AmbientLight struct {
	engine.BaseComponent
	Color         rl.Color
	Intensity     float32
	BaseIntensity float32
}

func NewAmbientLight(color rl.Color, intensity float32) *AmbientLight {
	return &AmbientLight{Color: color, Intensity: intensity, BaseIntensity: intensity}
}

func (a *AmbientLight) GetColorFloat() []float32 {
	return colorFloat(a.Color, a.Intensity)
}

func colorFloat(c rl.Color, intensity float32) []float32 {
	return []float32{
		float32(c.R) / 255.0 * intensity,
		float32(c.G) / 255.0 * intensity,
		float32(c.B) / 255.0 * intensity,
	}
}

// HexColor converts 0xRRGGBB to an opaque color.
func HexColor(hex uint32) rl.Color {
	return rl.NewColor(uint8(hex>>16), uint8(hex>>8), uint8(hex), 255)
}
