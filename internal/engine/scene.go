package engine

// Scene owns the gallery's objects in insertion order, indexed by name.
type Scene struct {
	Name    string
	objects []*GameObject
	byName  map[string]*GameObject
}

func NewScene(name string) *Scene {
	return &Scene{Name: name, byName: make(map[string]*GameObject)}
}

// Add appends g. A later object with the same name shadows the earlier one
// for Lookup but both keep updating.
func (s *Scene) Add(g *GameObject) {
	g.scene = s
	s.objects = append(s.objects, g)
	s.byName[g.Name] = g
}

func (s *Scene) Lookup(name string) *GameObject {
	return s.byName[name]
}

func (s *Scene) Len() int {
	return len(s.objects)
}

// OfKind returns the objects with the given role in insertion order.
func (s *Scene) OfKind(kind Kind) []*GameObject {
	var out []*GameObject
	for _, g := range s.objects {
		if g.Kind == kind {
			out = append(out, g)
		}
	}
	return out
}

func (s *Scene) Update(deltaTime float32) {
	for _, g := range s.objects {
		g.Update(deltaTime)
	}
}

// Unload releases component resources and detaches every object.
func (s *Scene) Unload() {
	for _, g := range s.objects {
		for _, c := range g.components {
			if u, ok := c.(Unloader); ok {
				u.Unload()
			}
		}
		g.scene = nil
	}
	s.objects = nil
	clear(s.byName)
}
