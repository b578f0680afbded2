package world

import (
	"math/rand/v2"

	"papergallery/internal/components"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ParticleSize is the edge length of a particle sprite in world units.
const ParticleSize float32 = 0.05

// ParticleField is a box of blinking dust motes drawn additively.
type ParticleField struct {
	Positions []rl.Vector3
	Phase     []float32 // [0, 2π)
	Speed     []float32 // [0.5, 1)
}

// NewParticleField scatters count particles uniformly in a cube of edge
// spread centred on the origin. The same seed yields the same field.
func NewParticleField(count int, spread float32, seed uint64) *ParticleField {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	f := &ParticleField{
		Positions: make([]rl.Vector3, count),
		Phase:     make([]float32, count),
		Speed:     make([]float32, count),
	}
	for i := range count {
		f.Positions[i] = rl.Vector3{
			X: (rng.Float32() - 0.5) * spread,
			Y: (rng.Float32() - 0.5) * spread,
			Z: (rng.Float32() - 0.5) * spread,
		}
		f.Phase[i] = rng.Float32() * 2 * math32.Pi
		f.Speed[i] = 0.5 + rng.Float32()*0.5
	}
	return f
}

func (f *ParticleField) Len() int {
	return len(f.Positions)
}

// Blink is the opacity of particle i at time t, in [0, 1].
func (f *ParticleField) Blink(t float32, i int) float32 {
	b := (math32.Sin(t*f.Speed[i]+f.Phase[i]) + 1) / 2
	return b * b
}

// Draw submits camera-facing quads for every visible particle. Depth is
// tested but not written so particles never occlude each other.
func (f *ParticleField) Draw(t float32, cam *components.Camera, frustum *Frustum) {
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(cam.Forward, rl.Vector3{Y: 1}))
	up := rl.Vector3CrossProduct(right, cam.Forward)
	half := ParticleSize / 2
	r := rl.Vector3Scale(right, half)
	u := rl.Vector3Scale(up, half)

	rl.DrawRenderBatchActive()
	rl.DisableDepthMask()
	rl.BeginBlendMode(rl.BlendAdditive)
	rl.Begin(rl.Quads)
	for i, p := range f.Positions {
		if frustum != nil && !frustum.ContainsPoint(p) {
			continue
		}
		a := uint8(f.Blink(t, i) * 255)
		if a == 0 {
			continue
		}
		rl.Color4ub(255, 255, 255, a)
		v := rl.Vector3Subtract(rl.Vector3Subtract(p, r), u)
		rl.Vertex3f(v.X, v.Y, v.Z)
		v = rl.Vector3Add(rl.Vector3Subtract(p, r), u)
		rl.Vertex3f(v.X, v.Y, v.Z)
		v = rl.Vector3Add(rl.Vector3Add(p, r), u)
		rl.Vertex3f(v.X, v.Y, v.Z)
		v = rl.Vector3Subtract(rl.Vector3Add(p, r), u)
		rl.Vertex3f(v.X, v.Y, v.Z)
	}
	rl.End()
	rl.EndBlendMode()
	rl.DrawRenderBatchActive()
	rl.EnableDepthMask()
}
