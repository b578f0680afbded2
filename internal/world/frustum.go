package world

import (
	"papergallery/internal/components"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Frustum is the camera's view volume as six inward-facing planes, each
// stored as (normal.xyz, offset) so a point p is inside when
// dot(normal, p) + offset >= 0.
type Frustum [6]rl.Vector4

// ExtractFrustum derives the view volume from the camera's combined
// view-projection matrix by adding and subtracting its rows.
func ExtractFrustum(cam *components.Camera) Frustum {
	m := rl.MatrixMultiply(cam.View(), cam.Projection())
	w := rl.Vector4{X: m.M3, Y: m.M7, Z: m.M11, W: m.M15}
	rows := [3]rl.Vector4{
		{X: m.M0, Y: m.M4, Z: m.M8, W: m.M12},
		{X: m.M1, Y: m.M5, Z: m.M9, W: m.M13},
		{X: m.M2, Y: m.M6, Z: m.M10, W: m.M14},
	}

	var f Frustum
	for i, r := range rows {
		f[2*i] = unitPlane(addPlane(w, r, 1))
		f[2*i+1] = unitPlane(addPlane(w, r, -1))
	}
	return f
}

func addPlane(a, b rl.Vector4, sign float32) rl.Vector4 {
	return rl.Vector4{X: a.X + sign*b.X, Y: a.Y + sign*b.Y, Z: a.Z + sign*b.Z, W: a.W + sign*b.W}
}

func unitPlane(p rl.Vector4) rl.Vector4 {
	n := rl.Vector3Length(rl.Vector3{X: p.X, Y: p.Y, Z: p.Z})
	if n == 0 {
		return p
	}
	return rl.Vector4{X: p.X / n, Y: p.Y / n, Z: p.Z / n, W: p.W / n}
}

// ContainsSphere reports whether any part of the sphere is in view.
func (f *Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for _, p := range f {
		if p.X*center.X+p.Y*center.Y+p.Z*center.Z+p.W < -radius {
			return false
		}
	}
	return true
}

func (f *Frustum) ContainsPoint(point rl.Vector3) bool {
	return f.ContainsSphere(point, 0)
}
