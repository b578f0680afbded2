package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Kind is the role of an object in the gallery scene.
type Kind uint8

const (
	KindProp Kind = iota
	KindCamera
	KindLight
	KindPanel
)

func (k Kind) String() string {
	switch k {
	case KindCamera:
		return "camera"
	case KindLight:
		return "light"
	case KindPanel:
		return "panel"
	default:
		return "prop"
	}
}

// Transform places an object. Rotation is Euler radians applied X, Y, Z.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3
	Scale    rl.Vector3
}

// Identity is the transform at the origin with unit scale.
func Identity() Transform {
	return Transform{Scale: rl.Vector3One()}
}

// Matrix is scale, then rotation, then translation.
func (t Transform) Matrix() rl.Matrix {
	m := rl.MatrixScale(t.Scale.X, t.Scale.Y, t.Scale.Z)
	for _, step := range [...]rl.Matrix{
		rl.MatrixRotateX(t.Rotation.X),
		rl.MatrixRotateY(t.Rotation.Y),
		rl.MatrixRotateZ(t.Rotation.Z),
		rl.MatrixTranslate(t.Position.X, t.Position.Y, t.Position.Z),
	} {
		m = rl.MatrixMultiply(m, step)
	}
	return m
}

// GameObject is a named node of the scene. Its components are stepped in
// the order they were added.
type GameObject struct {
	Name      string
	Kind      Kind
	Transform Transform

	scene      *Scene
	components []Component
}

func NewGameObject(name string, kind Kind) *GameObject {
	return &GameObject{Name: name, Kind: kind, Transform: Identity()}
}

// Scene is the scene the object was added to, nil when detached.
func (g *GameObject) Scene() *Scene {
	return g.scene
}

func (g *GameObject) AddComponent(c Component) {
	c.Bind(g)
	g.components = append(g.components, c)
}

func (g *GameObject) Update(deltaTime float32) {
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}
