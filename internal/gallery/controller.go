// Package gallery owns one gallery scene: its lifecycle, frame scheduling,
// input routing and disposal.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"papergallery/internal/assets"
	"papergallery/internal/engine"
	"papergallery/internal/focus"
	"papergallery/internal/postfx"
	"papergallery/internal/scroll"
	"papergallery/internal/tween"
	"papergallery/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/tanema/gween/ease"
)

var (
	ErrNoSurface       = errors.New("gallery: no render surface")
	ErrSceneNotCreated = errors.New("gallery: scene not created")
	ErrSceneExists     = errors.New("gallery: scene already created")
	ErrPanelsAdded     = errors.New("gallery: panels already added")
)

// DefaultWheelScale converts one raylib wheel notch into scroll distance.
const DefaultWheelScale float32 = 100

// Surface is the drawable the scene renders into.
type Surface interface {
	Size() (width, height int32)
}

// FrameRenderer draws the world through the post-processing pipeline.
type FrameRenderer interface {
	Render(w *world.World, params postfx.Params)
	Resize(width, height int32)
	Unload()
}

// RendererFactory builds the renderer once the scene graph exists.
type RendererFactory func(s Surface, w *world.World) (FrameRenderer, error)

// AssetLoader delivers textures to the world on the render thread.
type AssetLoader interface {
	world.TextureSource
	Poll() int
	Close()
}

type options struct {
	log         *slog.Logger
	settings    world.Settings
	params      postfx.Params
	newLoader   func(log *slog.Logger) AssetLoader
	newRenderer RendererFactory
	threshold   float64
	cooldown    time.Duration
	scrollOpts  []scroll.Option
	wheelScale  float32
	lighting    float32
}

type Option func(*options)

func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func WithSettings(s world.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithParams sets the initial post-processing parameters.
func WithParams(p postfx.Params) Option {
	return func(o *options) {
		o.params = p
	}
}

// WithLoader replaces the GPU asset loader.
func WithLoader(newLoader func(log *slog.Logger) AssetLoader) Option {
	return func(o *options) {
		o.newLoader = newLoader
	}
}

// WithRenderer replaces the GPU renderer.
func WithRenderer(f RendererFactory) Option {
	return func(o *options) {
		o.newRenderer = f
	}
}

func WithScroll(threshold float64, cooldown time.Duration, opts ...scroll.Option) Option {
	return func(o *options) {
		o.threshold = threshold
		o.cooldown = cooldown
		o.scrollOpts = opts
	}
}

func WithWheelScale(scale float32) Option {
	return func(o *options) {
		o.wheelScale = scale
	}
}

func WithLightingIntensity(multiplier float32) Option {
	return func(o *options) {
		o.lighting = multiplier
	}
}

func defaultLoader(log *slog.Logger) AssetLoader {
	return assets.NewLoader(assets.GPUUploader{}, assets.WithLogger(log))
}

// Controller is the single owner of a gallery scene. All methods must be
// called from the render thread.
type Controller struct {
	// OnFocusChange receives the focused record, or nil for the general
	// view, once per completed transition.
	OnFocusChange engine.EventWithArg[*world.PanelRecord]

	opts   options
	log    *slog.Logger
	tweens *tween.Engine
	scroll *scroll.Debouncer
	params postfx.Params

	id       uuid.UUID
	surface  Surface
	loader   AssetLoader
	world    *world.World
	renderer FrameRenderer
	focus    *focus.Machine
	loop     *FrameLoop

	panelsAdded   bool
	scrollEnabled bool
	resize        *[2]int32
}

func New(opts ...Option) *Controller {
	o := options{
		log:         slog.Default(),
		settings:    world.DefaultSettings(),
		params:      postfx.DefaultParams(),
		newLoader:   defaultLoader,
		newRenderer: NewGPURenderer,
		threshold:   scroll.DefaultThreshold,
		cooldown:    scroll.DefaultCooldown,
		wheelScale:  DefaultWheelScale,
		lighting:    1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller{
		opts:   o,
		log:    o.log,
		tweens: tween.New(),
		scroll: scroll.New(o.threshold, o.cooldown, o.scrollOpts...),
		params: o.params,
	}
}

// CreateScene builds the scene graph and renderer for surface. Nothing is
// built when it fails.
func (c *Controller) CreateScene(surface Surface) error {
	if surface == nil {
		return ErrNoSurface
	}
	if c.world != nil {
		return ErrSceneExists
	}

	id := uuid.New()
	log := c.opts.log.With("scene", id.String())
	loader := c.opts.newLoader(log)
	w := world.New(loader, c.opts.settings, log)
	width, height := surface.Size()
	w.Camera.SetViewport(width, height)

	renderer, err := c.opts.newRenderer(surface, w)
	if err != nil {
		w.Unload()
		loader.Close()
		return fmt.Errorf("%w: %w", ErrNoSurface, err)
	}

	c.id = id
	c.log = log
	c.surface = surface
	c.loader = loader
	c.world = w
	c.renderer = renderer
	c.world.Rig.SetIntensity(c.opts.lighting)
	c.focus = focus.New(w, c.tweens, focus.Targets{
		Camera:  w.Camera.Position(),
		SpotAim: &w.Rig.Spot.Aim,
		Params:  &c.params,
	})
	c.focus.OnFocusChange.AddListener(c.OnFocusChange.Invoke)

	c.log.Info("scene created", "width", width, "height", height)
	return nil
}

// AddPanels starts loading records. It may be called once per scene.
func (c *Controller) AddPanels(records []world.PanelRecord) error {
	if c.world == nil {
		return ErrSceneNotCreated
	}
	if c.panelsAdded {
		return ErrPanelsAdded
	}
	c.panelsAdded = true
	c.world.AddPanels(records)
	c.log.Info("loading panels", "count", len(records))
	return nil
}

// StartAnimation starts the frame loop. Calling it again while the loop runs
// does nothing.
func (c *Controller) StartAnimation() {
	if c.world == nil {
		c.log.Debug("start animation without a scene")
		return
	}
	if c.loop != nil && c.loop.Running() {
		return
	}
	c.loop = NewFrameLoop(context.Background(), c.tick)
}

// Frame runs one scheduler tick. It reports false once the loop has been
// cancelled or was never started.
func (c *Controller) Frame(dt float32) bool {
	if c.loop == nil {
		return false
	}
	return c.loop.Tick(dt)
}

func (c *Controller) tick(dt float32) {
	if r := c.resize; r != nil {
		c.resize = nil
		c.world.Camera.SetViewport(r[0], r[1])
		c.renderer.Resize(r[0], r[1])
	}
	c.loader.Poll()
	c.tweens.Update(dt)
	c.world.Update(dt)
	c.renderer.Render(c.world, c.params)
}

// HandleResize records a new framebuffer size. It is applied at the start of
// the next tick, before anything is drawn.
func (c *Controller) HandleResize(width, height int32) {
	if c.world == nil || width <= 0 || height <= 0 {
		return
	}
	c.resize = &[2]int32{width, height}
}

// HandleEscape returns to the general view.
func (c *Controller) HandleEscape() {
	c.ReturnToGeneralView()
}

// HandleWheel feeds raylib wheel movement to the scroll debouncer. It
// reports whether the gallery consumed the input.
func (c *Controller) HandleWheel(move float32) bool {
	if !c.scrollEnabled || c.focus == nil || move == 0 {
		return false
	}
	delta := -float64(move * c.opts.wheelScale)
	if dir, ok := c.scroll.Feed(delta); ok {
		c.focus.Step(int(dir))
	}
	return true
}

func (c *Controller) EnableScrollNavigation() {
	if c.world == nil {
		return
	}
	c.scrollEnabled = true
}

func (c *Controller) DisableScrollNavigation() {
	c.scrollEnabled = false
}

func (c *Controller) ScrollNavigationEnabled() bool {
	return c.scrollEnabled
}

func (c *Controller) ReturnToGeneralView() {
	if c.focus == nil {
		return
	}
	c.focus.ReturnToGeneral()
}

// ResetView snaps to the general view without animating or notifying.
func (c *Controller) ResetView() {
	if c.focus == nil {
		return
	}
	c.focus.Reset()
	c.scroll.Reset()
}

// DisposeScene stops the loop, detaches input and releases every resource.
// It is safe to call at any time and more than once; a new scene may be
// created afterwards.
func (c *Controller) DisposeScene() {
	if c.loop != nil {
		c.loop.Stop()
	}
	c.scrollEnabled = false
	c.resize = nil
	c.scroll.Reset()
	c.tweens.Clear()

	if c.world == nil {
		return
	}
	c.renderer.Unload()
	c.world.Unload()
	c.loader.Close()
	c.log.Info("scene disposed")

	c.renderer = nil
	c.world = nil
	c.loader = nil
	c.focus = nil
	c.surface = nil
	c.panelsAdded = false
	c.params = c.opts.params
	c.log = c.opts.log
}

// SceneID identifies the current scene in logs. It is the zero UUID when no
// scene exists.
func (c *Controller) SceneID() uuid.UUID {
	if c.world == nil {
		return uuid.Nil
	}
	return c.id
}

func (c *Controller) World() *world.World {
	return c.world
}

func (c *Controller) FocusedIndex() int {
	if c.focus == nil {
		return focus.General
	}
	return c.focus.Current()
}

// PanelTexture returns the image of the panel at index for previews.
func (c *Controller) PanelTexture(index int) (rl.Texture2D, bool) {
	if c.world == nil {
		return rl.Texture2D{}, false
	}
	p := c.world.Panel(index)
	if p == nil {
		return rl.Texture2D{}, false
	}
	return p.Renderer.Texture, true
}

func (c *Controller) BloomStrength() float32 {
	return c.params.Bloom.Strength
}

func (c *Controller) DOF() postfx.DOFParams {
	return c.params.DOF
}

func (c *Controller) DOFEnabled() bool {
	return c.params.DOF.Enabled
}

func (c *Controller) Params() postfx.Params {
	return c.params
}

// SetScrollThreshold ignores non-positive thresholds.
func (c *Controller) SetScrollThreshold(threshold float64) {
	if threshold > 0 {
		c.scroll.SetThreshold(threshold)
	}
}

// SetScrollCooldown ignores negative durations. Zero disables the cooldown.
func (c *Controller) SetScrollCooldown(cooldown time.Duration) {
	if cooldown >= 0 {
		c.scroll.SetCooldown(cooldown)
	}
}

func (c *Controller) SetWheelScale(scale float32) {
	if scale > 0 {
		c.opts.wheelScale = scale
	}
}

// SetLightingIntensity scales the accent, spot and rim lights.
func (c *Controller) SetLightingIntensity(multiplier float32) {
	c.opts.lighting = multiplier
	if c.world != nil {
		c.world.Rig.SetIntensity(multiplier)
	}
}

// ToggleDynamicLighting freezes or resumes light motion and reports the new
// state.
func (c *Controller) ToggleDynamicLighting() bool {
	if c.world == nil {
		return false
	}
	enabled := !c.world.Rig.Dynamic()
	c.world.Rig.SetDynamic(enabled)
	return enabled
}

// SetBloomParams replaces the bloom parameters, cancelling any bloom tween.
func (c *Controller) SetBloomParams(strength, radius, threshold float32) {
	c.tweens.Cancel(&c.params.Bloom)
	c.params.Bloom = postfx.BloomParams{Strength: strength, Radius: radius, Threshold: threshold}
}

// SetBloomShape changes the blur radius and bright-pass threshold. Strength
// stays under the focus animations.
func (c *Controller) SetBloomShape(radius, threshold float32) {
	c.params.Bloom.Radius = radius
	c.params.Bloom.Threshold = threshold
}

// SetDOFParams replaces the depth-of-field parameters, cancelling any DOF
// tween.
func (c *Controller) SetDOFParams(focusDistance, aperture, maxBlur float32) {
	c.tweens.Cancel(&c.params.DOF)
	c.params.DOF.Focus = focusDistance
	c.params.DOF.Aperture = aperture
	c.params.DOF.MaxBlur = maxBlur
}

func (c *Controller) SetExposure(exposure float32) {
	c.params.Exposure = exposure
}

func (c *Controller) EnableDOF(enabled bool) {
	c.params.DOF.Enabled = enabled
}

// SetFocusDistance eases the DOF focus distance over one second.
func (c *Controller) SetFocusDistance(distance float32) {
	dof := &c.params.DOF
	c.tweens.To(dof, tween.Spec{Duration: 1.0, Ease: ease.OutQuad}, tween.F("focus", &dof.Focus, distance))
}

// AnimateAperture eases the DOF aperture. A non-positive duration uses 1.5s.
func (c *Controller) AnimateAperture(aperture, duration float32) {
	if duration <= 0 {
		duration = 1.5
	}
	dof := &c.params.DOF
	c.tweens.To(dof, tween.Spec{Duration: duration, Ease: ease.InOutQuad}, tween.F("aperture", &dof.Aperture, aperture))
}
