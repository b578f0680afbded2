package components

import (
	"papergallery/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Camera looks along a fixed Forward direction from its owner position.
// Tweens move the position only; with the default -Z forward the general
// view at (0, 0, 5) is aimed at the origin.
type Camera struct {
	engine.BaseComponent
	FOV     float32 // vertical, degrees
	Near    float32
	Far     float32
	Aspect  float32
	Forward rl.Vector3
}

func NewCamera() *Camera {
	return &Camera{
		FOV:     65.0,
		Near:    0.1,
		Far:     1000.0,
		Aspect:  16.0 / 9.0,
		Forward: rl.Vector3{X: 0, Y: 0, Z: -1},
	}
}

// Position returns a pointer to the camera position so tweens can drive it.
func (c *Camera) Position() *rl.Vector3 {
	g := c.Owner()
	if g == nil {
		return &rl.Vector3{}
	}
	return &g.Transform.Position
}

// SetViewport updates the aspect ratio for a new framebuffer size.
func (c *Camera) SetViewport(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *Camera) GetRaylibCamera() rl.Camera3D {
	eyePos := *c.Position()
	return rl.Camera3D{
		Position:   eyePos,
		Target:     rl.Vector3Add(eyePos, c.Forward),
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       c.FOV,
		Projection: rl.CameraPerspective,
	}
}

// View is the look-at matrix of the camera.
func (c *Camera) View() rl.Matrix {
	rc := c.GetRaylibCamera()
	return rl.MatrixLookAt(rc.Position, rc.Target, rc.Up)
}

// Projection is the perspective matrix for the camera's own aspect and clip
// planes, independent of the window.
func (c *Camera) Projection() rl.Matrix {
	return rl.MatrixPerspective(c.FOV*rl.Deg2rad, c.Aspect, c.Near, c.Far)
}
