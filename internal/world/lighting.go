package world

import (
	"math"

	"papergallery/internal/components"
	"papergallery/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LightingRig is the fixed set of lights the gallery is lit with.
type LightingRig struct {
	Ambient *components.AmbientLight
	Key     *components.DirectionalLight
	Second  *components.DirectionalLight
	Fill    *components.DirectionalLight
	Rim     *components.DirectionalLight
	Accent1 *components.PointLight
	Accent2 *components.PointLight
	Spot    *components.SpotLight

	motions    []*components.LightMotion
	multiplier float32
}

func buildLightingRig(scene *engine.Scene, clock *engine.Clock) *LightingRig {
	r := &LightingRig{multiplier: 1}

	add := func(name string, pos rl.Vector3, c engine.Component) *engine.GameObject {
		obj := engine.NewGameObject(name, engine.KindLight)
		obj.Transform.Position = pos
		obj.AddComponent(c)
		scene.Add(obj)
		return obj
	}
	move := func(obj *engine.GameObject, path components.LightPath) *components.LightMotion {
		m := components.NewLightMotion(clock, obj.Transform.Position, path)
		obj.AddComponent(m)
		r.motions = append(r.motions, m)
		return m
	}

	r.Ambient = components.NewAmbientLight(components.HexColor(0x404040), 0.15)
	add("AmbientLight", rl.Vector3{}, r.Ambient)

	r.Key = components.NewDirectionalLight(components.HexColor(0xffc42e), 2.0)
	r.Key.CastShadow = true
	r.Key.Shadow = components.ShadowFrustum{
		Left: -30, Right: 30, Top: 30, Bottom: -30,
		Near: 0.5, Far: 100,
		MapSize: 4096,
		Bias:    -0.0005,
	}
	add("KeyLight", rl.Vector3{X: -15, Y: 20, Z: 10}, r.Key)

	r.Second = components.NewDirectionalLight(components.HexColor(0xfff4e6), 1.8)
	r.Second.CastShadow = true
	r.Second.Shadow = components.ShadowFrustum{
		Left: -10, Right: 10, Top: 10, Bottom: -10,
		Near: 0.5, Far: 50,
		MapSize: 2048,
	}
	add("SecondLight", rl.Vector3{X: 8, Y: 10, Z: 6}, r.Second)

	r.Fill = components.NewDirectionalLight(components.HexColor(0xe6f3ff), 0.6)
	add("FillLight", rl.Vector3{X: -6, Y: -4, Z: 4}, r.Fill)

	r.Rim = components.NewDirectionalLight(components.HexColor(0xffffff), 1.2)
	move(add("RimLight", rl.Vector3{X: -2, Y: 6, Z: -8}, r.Rim), RimPath)

	r.Accent1 = components.NewPointLight(components.HexColor(0xff6b35), 2.0, 15, 2)
	move(add("AccentLight1", Accent1Path(0, rl.Vector3{}), r.Accent1), Accent1Path)

	r.Accent2 = components.NewPointLight(components.HexColor(0x4a90ff), 1.8, 12, 2)
	move(add("AccentLight2", Accent2Path(0, rl.Vector3{}), r.Accent2), Accent2Path)

	r.Spot = components.NewSpotLight(components.HexColor(0xffffff), 3.0, 20, 0.15*math.Pi, 0.3, 2)
	spotObj := add("SpotLight", rl.Vector3{X: 0, Y: 8, Z: 5}, r.Spot)
	nudge := move(spotObj, SpotNudgePath)
	nudge.Out = &r.Spot.Nudge

	return r
}

// Directionals returns the directional lights, shadow casters first.
func (r *LightingRig) Directionals() []*components.DirectionalLight {
	return []*components.DirectionalLight{r.Key, r.Second, r.Fill, r.Rim}
}

func (r *LightingRig) Points() []*components.PointLight {
	return []*components.PointLight{r.Accent1, r.Accent2}
}

// SetIntensity scales the accent, spot and rim lights relative to their
// base intensities.
func (r *LightingRig) SetIntensity(multiplier float32) {
	r.multiplier = multiplier
	r.Accent1.ScaleIntensity(multiplier)
	r.Accent2.ScaleIntensity(multiplier)
	r.Spot.ScaleIntensity(multiplier)
	r.Rim.ScaleIntensity(multiplier)
}

func (r *LightingRig) Intensity() float32 {
	return r.multiplier
}

// SetDynamic freezes or resumes the ambient light motion. Frozen lights hold
// their current position.
func (r *LightingRig) SetDynamic(enabled bool) {
	for _, m := range r.motions {
		m.Frozen = !enabled
	}
}

func (r *LightingRig) Dynamic() bool {
	return len(r.motions) > 0 && !r.motions[0].Frozen
}
