package world

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Light paths driven by the animation clock. Each is a pure function of t.

func Accent1Path(t float32, _ rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: math32.Cos(t*0.5) * 4,
		Y: 3 + math32.Sin(t*0.3)*1.5,
		Z: math32.Sin(t*0.5) * 4,
	}
}

func Accent2Path(t float32, _ rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: math32.Cos(-t*0.7) * 6,
		Y: -2 + math32.Cos(t*0.4)*2,
		Z: math32.Sin(-t*0.7) * 6,
	}
}

// RimPath sways the rim light around its base; y is held.
func RimPath(t float32, base rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: -2 + math32.Sin(t*0.2),
		Y: base.Y,
		Z: -8 + math32.Cos(t*0.15)*2,
	}
}

// SpotNudgePath is added to the spotlight aim.
func SpotNudgePath(t float32, _ rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: math32.Sin(t*0.1) * 2,
		Y: math32.Cos(t * 0.1),
		Z: 0,
	}
}
