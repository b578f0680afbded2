package engine

// Component is per-frame behaviour owned by one GameObject.
type Component interface {
	Update(deltaTime float32)
	Bind(owner *GameObject)
	Owner() *GameObject
}

// Unloader is implemented by components that hold GPU resources.
type Unloader interface {
	Unload()
}

// BaseComponent is embedded to get ownership tracking and a no-op Update.
type BaseComponent struct {
	owner *GameObject
}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) Bind(owner *GameObject) { b.owner = owner }

func (b *BaseComponent) Owner() *GameObject { return b.owner }
