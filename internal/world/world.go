package world

import (
	"fmt"
	"log/slog"

	"papergallery/internal/assets"
	"papergallery/internal/components"
	"papergallery/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// FixedHeight is the world-space height of every panel; width follows the
// image aspect ratio.
const FixedHeight float32 = 2.8

// GeneralViewPosition is the camera position of the overview.
var GeneralViewPosition = rl.Vector3{X: 0, Y: 0, Z: 5}

// PanelRecord describes one panel. Rotation is Euler radians.
type PanelRecord struct {
	ID          int        `koanf:"id" yaml:"id"`
	Title       string     `koanf:"title" yaml:"title"`
	Description string     `koanf:"description" yaml:"description"`
	Image       string     `koanf:"image" yaml:"image"`
	Position    rl.Vector3 `koanf:"position" yaml:"position"`
	Rotation    rl.Vector3 `koanf:"rotation" yaml:"rotation"`
}

// Panel is a placed, renderable PanelRecord.
type Panel struct {
	Index    int
	Record   PanelRecord
	Object   *engine.GameObject
	Renderer *components.PanelRenderer
	Animator *components.PanelAnimator
	Width    float32
	Height   float32
}

// Home is the resting position the ambient drift oscillates around.
func (p *Panel) Home() rl.Vector3 {
	return p.Animator.Home
}

// FocusScale is the tween-driven emphasis scale, 1 at rest.
func (p *Panel) FocusScale() *float32 {
	return &p.Animator.FocusScale
}

// TextureSource is the part of the asset loader the world needs.
type TextureSource interface {
	LoadTexture(path string, cb assets.Callback)
	LoadCubemap(faces [6]string, cb assets.Callback)
}

// Settings configures scene construction.
type Settings struct {
	NormalMap      string
	EnvMap         [6]string
	ParticleCount  int
	ParticleSpread float32
	Seed           uint64
	Background     rl.Color
	FogColor       rl.Color
	FogNear        float32
	FogFar         float32
}

func DefaultSettings() Settings {
	return Settings{
		ParticleCount:  7000,
		ParticleSpread: 60,
		Seed:           1,
		Background:     components.HexColor(0x142029),
		FogColor:       components.HexColor(0x1a1a1a),
		FogNear:        10,
		FogFar:         50,
	}
}

// World owns the scene graph: camera, lighting rig, particles and panels.
type World struct {
	Scene     *engine.Scene
	Clock     *engine.Clock
	Camera    *components.Camera
	Rig       *LightingRig
	Particles *ParticleField
	Maps      *components.SharedMaps
	Settings  Settings

	// OnPanelReady fires on the render thread after a panel is placed.
	OnPanelReady engine.EventWithArg[*Panel]

	source  TextureSource
	log     *slog.Logger
	shader  *components.PanelShader
	records []PanelRecord
	panels  []*Panel
}

func New(source TextureSource, settings Settings, log *slog.Logger) *World {
	if log == nil {
		log = slog.Default()
	}
	w := &World{
		Scene:    engine.NewScene("Gallery"),
		Clock:    engine.NewClock(),
		Maps:     &components.SharedMaps{},
		Settings: settings,
		source:   source,
		log:      log,
	}
	w.build()
	return w
}

func (w *World) build() {
	camObj := engine.NewGameObject("Camera", engine.KindCamera)
	camObj.Transform.Position = GeneralViewPosition
	w.Camera = components.NewCamera()
	camObj.AddComponent(w.Camera)
	w.Scene.Add(camObj)

	w.Rig = buildLightingRig(w.Scene, w.Clock)
	w.Particles = NewParticleField(w.Settings.ParticleCount, w.Settings.ParticleSpread, w.Settings.Seed)

	if w.Settings.NormalMap != "" {
		w.source.LoadTexture(w.Settings.NormalMap, func(tex rl.Texture2D, err error) {
			if err != nil {
				w.log.Warn("normal map unavailable", "path", w.Settings.NormalMap, "err", err)
				return
			}
			w.Maps.Normal = tex
		})
	}
	if w.Settings.EnvMap[0] != "" {
		w.source.LoadCubemap(w.Settings.EnvMap, func(tex rl.Texture2D, err error) {
			if err != nil {
				w.log.Warn("environment map unavailable", "err", err)
				return
			}
			w.Maps.Env = tex
		})
	}
}

// AddPanels starts one texture load per record. Panels are placed as their
// textures resolve, in any order, into the slot of their input index. A
// failed load leaves the slot empty.
func (w *World) AddPanels(records []PanelRecord) {
	w.records = append([]PanelRecord(nil), records...)
	w.panels = make([]*Panel, len(records))
	for i, rec := range w.records {
		w.source.LoadTexture(rec.Image, func(tex rl.Texture2D, err error) {
			if err != nil {
				w.log.Warn("panel image unavailable", "index", i, "id", rec.ID, "image", rec.Image, "err", err)
				return
			}
			w.placePanel(i, rec, tex)
		})
	}
}

func (w *World) placePanel(index int, rec PanelRecord, tex rl.Texture2D) {
	if index >= len(w.panels) || w.panels[index] != nil || tex.Height <= 0 {
		return
	}
	width := FixedHeight * float32(tex.Width) / float32(tex.Height)

	obj := engine.NewGameObject(fmt.Sprintf("Paper_%d", index), engine.KindPanel)
	obj.Transform.Position = rec.Position
	obj.Transform.Rotation = rec.Rotation

	renderer := components.NewPanelRenderer(width, FixedHeight, tex, w.Maps)
	renderer.SetShader(w.shader)
	obj.AddComponent(renderer)

	animator := components.NewPanelAnimator(w.Clock, index, rec.Position, rec.Rotation)
	obj.AddComponent(animator)

	w.Scene.Add(obj)

	p := &Panel{
		Index:    index,
		Record:   rec,
		Object:   obj,
		Renderer: renderer,
		Animator: animator,
		Width:    width,
		Height:   FixedHeight,
	}
	w.panels[index] = p
	w.log.Debug("panel placed", "index", index, "id", rec.ID, "width", width)
	w.OnPanelReady.Invoke(p)
}

// SetPanelShader assigns the lit shader to current and future panels.
func (w *World) SetPanelShader(shader *components.PanelShader) {
	w.shader = shader
	for _, p := range w.panels {
		if p != nil {
			p.Renderer.SetShader(shader)
		}
	}
}

// Len is the number of records, loaded or not.
func (w *World) Len() int {
	return len(w.records)
}

// Panel returns the panel at index, or nil if it is out of range or its
// image has not loaded.
func (w *World) Panel(index int) *Panel {
	if index < 0 || index >= len(w.panels) {
		return nil
	}
	return w.panels[index]
}

// Panels returns the loaded panels in input order.
func (w *World) Panels() []*Panel {
	out := make([]*Panel, 0, len(w.panels))
	for _, p := range w.panels {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Loaded reports how many panels have been placed.
func (w *World) Loaded() int {
	n := 0
	for _, p := range w.panels {
		if p != nil {
			n++
		}
	}
	return n
}

// Update advances the animation clock one step and runs every component.
func (w *World) Update(deltaTime float32) {
	w.Clock.Advance()
	w.Scene.Update(deltaTime)
}

// Unload releases panel meshes and empties the scene. Textures are owned by
// the asset loader. Safe to call more than once.
func (w *World) Unload() {
	w.Scene.Unload()
	w.panels = nil
	w.records = nil
	w.OnPanelReady.RemoveAllListeners()
}
