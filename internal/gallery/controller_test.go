package gallery

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"papergallery/internal/assets"
	"papergallery/internal/focus"
	"papergallery/internal/postfx"
	"papergallery/internal/scroll"
	"papergallery/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct{ w, h int32 }

func (s fakeSurface) Size() (int32, int32) { return s.w, s.h }

// fakeLoader resolves every request on the next Poll.
type fakeLoader struct {
	pending []func()
	fail    map[string]bool
	polls   int
	closed  bool
}

func (l *fakeLoader) LoadTexture(path string, cb assets.Callback) {
	l.pending = append(l.pending, func() {
		if l.fail[path] {
			cb(rl.Texture2D{}, errors.New("missing"))
			return
		}
		cb(rl.Texture2D{ID: 1, Width: 400, Height: 280}, nil)
	})
}

func (l *fakeLoader) LoadCubemap(faces [6]string, cb assets.Callback) {
	l.pending = append(l.pending, func() { cb(rl.Texture2D{ID: 2, Width: 64, Height: 64}, nil) })
}

func (l *fakeLoader) Poll() int {
	l.polls++
	n := len(l.pending)
	for _, fn := range l.pending {
		fn()
	}
	l.pending = nil
	return n
}

func (l *fakeLoader) Close() { l.closed = true }

type fakeRenderer struct {
	calls    []string
	sizes    [][2]int32
	params   []postfx.Params
	unloaded int
}

func (r *fakeRenderer) Render(w *world.World, params postfx.Params) {
	r.calls = append(r.calls, "render")
	r.params = append(r.params, params)
}

func (r *fakeRenderer) Resize(width, height int32) {
	r.calls = append(r.calls, "resize")
	r.sizes = append(r.sizes, [2]int32{width, height})
}

func (r *fakeRenderer) Unload() { r.unloaded++ }

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	c         *Controller
	loaders   []*fakeLoader
	renderers []*fakeRenderer
	clock     *fakeClock
	fail      map[string]bool
	events    []*world.PanelRecord
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{clock: &fakeClock{now: time.Unix(1000, 0)}, fail: map[string]bool{}}
	settings := world.DefaultSettings()
	settings.ParticleCount = 10
	settings.NormalMap = "normal.png"

	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithSettings(settings),
		WithLoader(func(*slog.Logger) AssetLoader {
			l := &fakeLoader{fail: h.fail}
			h.loaders = append(h.loaders, l)
			return l
		}),
		WithRenderer(func(Surface, *world.World) (FrameRenderer, error) {
			r := &fakeRenderer{}
			h.renderers = append(h.renderers, r)
			return r, nil
		}),
		WithScroll(100, 2*time.Second, scroll.WithClock(h.clock.Now)),
	}
	h.c = New(append(base, opts...)...)
	h.c.OnFocusChange.AddListener(func(rec *world.PanelRecord) {
		h.events = append(h.events, rec)
	})
	return h
}

func (h *harness) loader() *fakeLoader     { return h.loaders[len(h.loaders)-1] }
func (h *harness) renderer() *fakeRenderer { return h.renderers[len(h.renderers)-1] }

// start creates a scene with n panels, starts the loop and runs one frame so
// every texture resolves.
func (h *harness) start(t *testing.T, n int) {
	t.Helper()
	require.NoError(t, h.c.CreateScene(fakeSurface{1280, 720}))
	require.NoError(t, h.c.AddPanels(panelRecords(n)))
	h.c.EnableScrollNavigation()
	h.c.StartAnimation()
	require.True(t, h.c.Frame(1.0/60))
}

func panelRecords(n int) []world.PanelRecord {
	out := make([]world.PanelRecord, n)
	for i := range out {
		out[i] = world.PanelRecord{
			ID:       i + 1,
			Title:    "Paper",
			Image:    string(rune('a'+i)) + ".jpg",
			Position: rl.Vector3{X: float32(i) * 3},
		}
	}
	return out
}

func TestDisposeBeforeCreate(t *testing.T) {
	h := newHarness(t)
	assert.NotPanics(t, h.c.DisposeScene)
	assert.NotPanics(t, h.c.DisposeScene)
	assert.Empty(t, h.loaders)
	assert.Equal(t, uuid.Nil, h.c.SceneID())
}

func TestCreateSceneWithoutSurface(t *testing.T) {
	h := newHarness(t)
	err := h.c.CreateScene(nil)
	require.ErrorIs(t, err, ErrNoSurface)

	assert.Nil(t, h.c.World())
	assert.Empty(t, h.loaders, "nothing should be built without a surface")
	assert.Empty(t, h.renderers)
	assert.False(t, h.c.Frame(1.0/60))
}

func TestCreateSceneTwice(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.CreateScene(fakeSurface{800, 600}))
	assert.ErrorIs(t, h.c.CreateScene(fakeSurface{800, 600}), ErrSceneExists)
	assert.Len(t, h.loaders, 1)
}

func TestRendererFailureBuildsNothing(t *testing.T) {
	h := newHarness(t, WithRenderer(func(Surface, *world.World) (FrameRenderer, error) {
		return nil, errors.New("no gl context")
	}))
	err := h.c.CreateScene(fakeSurface{800, 600})
	require.ErrorIs(t, err, ErrNoSurface)
	assert.Nil(t, h.c.World())
	require.Len(t, h.loaders, 1)
	assert.True(t, h.loader().closed)
}

func TestAddPanelsLifecycle(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.c.AddPanels(panelRecords(2)), ErrSceneNotCreated)

	require.NoError(t, h.c.CreateScene(fakeSurface{800, 600}))
	require.NoError(t, h.c.AddPanels(panelRecords(2)))
	assert.ErrorIs(t, h.c.AddPanels(panelRecords(2)), ErrPanelsAdded)
}

func TestFrameRequiresStart(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.CreateScene(fakeSurface{800, 600}))
	require.NoError(t, h.c.AddPanels(panelRecords(3)))

	assert.False(t, h.c.Frame(1.0/60))
	assert.Zero(t, h.loader().polls)

	h.c.StartAnimation()
	require.True(t, h.c.Frame(1.0/60))

	w := h.c.World()
	assert.Equal(t, 3, w.Loaded())
	assert.Equal(t, []string{"render"}, h.renderer().calls)
	assert.NotZero(t, w.Maps.Normal.ID, "shared normal map should resolve on poll")
	assert.Greater(t, w.Clock.T, 0.0)
}

func TestPanelTexture(t *testing.T) {
	h := newHarness(t)
	h.fail["b.jpg"] = true
	h.start(t, 3)

	tex, ok := h.c.PanelTexture(0)
	require.True(t, ok)
	assert.Equal(t, int32(400), tex.Width)

	_, ok = h.c.PanelTexture(1)
	assert.False(t, ok, "failed panel has no texture")
	_, ok = h.c.PanelTexture(7)
	assert.False(t, ok)
}

func TestWheelDrivesFocus(t *testing.T) {
	h := newHarness(t)
	h.start(t, 3)

	// Wheel down (negative move) scrolls forward.
	assert.True(t, h.c.HandleWheel(-1))
	assert.Equal(t, 0, h.c.FocusedIndex())
	require.Len(t, h.events, 1)
	assert.Equal(t, 1, h.events[0].ID)

	// Cooldown drops further input.
	h.c.HandleWheel(-1)
	assert.Equal(t, 0, h.c.FocusedIndex())

	h.clock.Advance(2 * time.Second)
	h.c.HandleWheel(-1)
	assert.Equal(t, 1, h.c.FocusedIndex())

	h.clock.Advance(2 * time.Second)
	h.c.HandleWheel(1)
	assert.Equal(t, 0, h.c.FocusedIndex())

	h.clock.Advance(2 * time.Second)
	h.c.HandleWheel(1)
	assert.Equal(t, focus.General, h.c.FocusedIndex())
	require.Len(t, h.events, 4)
	assert.Nil(t, h.events[3])
}

func TestSmallWheelMovesAccumulate(t *testing.T) {
	h := newHarness(t, WithWheelScale(40))
	h.start(t, 2)

	h.c.HandleWheel(-1)
	h.c.HandleWheel(-1)
	assert.Equal(t, focus.General, h.c.FocusedIndex())
	h.c.HandleWheel(-1)
	assert.Equal(t, 0, h.c.FocusedIndex())
}

func TestScrollDisabledIgnoresWheel(t *testing.T) {
	h := newHarness(t)
	h.start(t, 3)
	h.c.DisableScrollNavigation()

	assert.False(t, h.c.HandleWheel(-5))
	assert.Equal(t, focus.General, h.c.FocusedIndex())
	assert.Empty(t, h.events)

	h.c.EnableScrollNavigation()
	assert.True(t, h.c.HandleWheel(-5))
	assert.Equal(t, 0, h.c.FocusedIndex())
}

func TestEscapeReturnsToGeneral(t *testing.T) {
	h := newHarness(t)
	h.start(t, 3)
	h.c.HandleWheel(-1)
	require.Equal(t, 0, h.c.FocusedIndex())

	h.c.HandleEscape()
	assert.Equal(t, focus.General, h.c.FocusedIndex())

	h.c.HandleEscape()
	assert.Len(t, h.events, 2, "escape in the general view does not notify")
}

func TestFocusAnimatesParams(t *testing.T) {
	h := newHarness(t)
	h.start(t, 2)
	h.c.HandleWheel(-1)

	for range 240 {
		h.c.Frame(1.0 / 60)
	}
	assert.InDelta(t, 1, h.c.BloomStrength(), 1e-5)
	assert.InDelta(t, postfx.FocusedDOF.Focus, h.c.DOF().Focus, 1e-5)

	r := h.renderer()
	last := r.params[len(r.params)-1]
	assert.InDelta(t, 1, last.Bloom.Strength, 1e-5, "renderer sees tweened params")
}

func TestResetViewSnaps(t *testing.T) {
	h := newHarness(t)
	h.start(t, 2)
	h.c.HandleWheel(-1)
	h.c.Frame(0.5)

	h.c.ResetView()

	assert.Equal(t, focus.General, h.c.FocusedIndex())
	assert.Equal(t, world.GeneralViewPosition, *h.c.World().Camera.Position())
	assert.Zero(t, h.c.BloomStrength())
	assert.Len(t, h.events, 1)

	// The scroll cooldown is cleared too.
	h.c.HandleWheel(-1)
	assert.Equal(t, 0, h.c.FocusedIndex())
}

func TestResizeAppliedBeforeRender(t *testing.T) {
	h := newHarness(t)
	h.start(t, 1)

	h.c.HandleResize(1000, 500)
	h.c.HandleResize(0, 500)
	assert.Len(t, h.renderer().calls, 1, "resize waits for the next frame")

	h.c.Frame(1.0 / 60)
	r := h.renderer()
	assert.Equal(t, []string{"render", "resize", "render"}, r.calls)
	assert.Equal(t, [][2]int32{{1000, 500}}, r.sizes)
	assert.InDelta(t, 2.0, h.c.World().Camera.Aspect, 1e-6)

	h.c.Frame(1.0 / 60)
	assert.Len(t, r.sizes, 1)
}

func TestDisposeReleasesEverything(t *testing.T) {
	h := newHarness(t)
	h.start(t, 3)
	h.c.HandleWheel(-1)
	first := h.c.SceneID()
	require.NotEqual(t, uuid.Nil, first)

	h.c.DisposeScene()

	assert.False(t, h.c.Frame(1.0/60))
	assert.Equal(t, 1, h.renderer().unloaded)
	assert.True(t, h.loader().closed)
	assert.Nil(t, h.c.World())
	assert.False(t, h.c.ScrollNavigationEnabled())
	assert.False(t, h.c.HandleWheel(-1))
	assert.Equal(t, focus.General, h.c.FocusedIndex())

	h.c.DisposeScene()
	assert.Equal(t, 1, h.renderer().unloaded, "second dispose is a no-op")

	h.start(t, 2)
	assert.NotEqual(t, first, h.c.SceneID())
	assert.Len(t, h.renderers, 2)
	assert.Equal(t, 2, h.c.World().Loaded())
	assert.Zero(t, h.c.BloomStrength())
}

func TestLightingIntensityBeforeCreate(t *testing.T) {
	h := newHarness(t)
	h.c.SetLightingIntensity(2)
	h.start(t, 1)
	assert.Equal(t, float32(2), h.c.World().Rig.Intensity())

	h.c.SetLightingIntensity(0.5)
	assert.Equal(t, float32(0.5), h.c.World().Rig.Intensity())
}

func TestToggleDynamicLighting(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.c.ToggleDynamicLighting())

	h.start(t, 1)
	assert.False(t, h.c.ToggleDynamicLighting())
	assert.False(t, h.c.World().Rig.Dynamic())
	assert.True(t, h.c.ToggleDynamicLighting())
}

func TestPostControls(t *testing.T) {
	h := newHarness(t)
	h.start(t, 1)

	h.c.SetBloomParams(0.7, 0.2, 0.5)
	assert.Equal(t, postfx.BloomParams{Strength: 0.7, Radius: 0.2, Threshold: 0.5}, h.c.Params().Bloom)

	h.c.EnableDOF(false)
	assert.False(t, h.c.DOFEnabled())

	h.c.SetDOFParams(3, 0.02, 0.03)
	assert.Equal(t, float32(3), h.c.DOF().Focus)
	assert.False(t, h.c.DOF().Enabled, "setting params keeps the enabled flag")

	h.c.SetFocusDistance(6)
	h.c.AnimateAperture(0.05, 0)
	h.c.Frame(0.5)
	assert.Greater(t, h.c.DOF().Focus, float32(3))
	assert.Less(t, h.c.DOF().Focus, float32(6))

	for range 120 {
		h.c.Frame(1.0 / 60)
	}
	assert.InDelta(t, 6, h.c.DOF().Focus, 1e-5)
	assert.InDelta(t, 0.05, h.c.DOF().Aperture, 1e-5)
}

func TestScrollTuning(t *testing.T) {
	h := newHarness(t)
	h.start(t, 3)
	h.c.SetScrollThreshold(300)
	h.c.SetScrollCooldown(0)

	h.c.HandleWheel(-2)
	assert.Equal(t, focus.General, h.c.FocusedIndex())
	h.c.HandleWheel(-1)
	assert.Equal(t, 0, h.c.FocusedIndex())
	h.c.HandleWheel(-3)
	assert.Equal(t, 1, h.c.FocusedIndex(), "zero cooldown allows the next step at once")
}

func TestScrollTuningIgnoresInvalidValues(t *testing.T) {
	h := newHarness(t)
	h.start(t, 3)

	h.c.SetScrollThreshold(0)
	h.c.SetScrollThreshold(-5)
	h.c.SetScrollCooldown(-time.Second)

	assert.Equal(t, 100.0, h.c.scroll.Threshold())
	assert.Equal(t, 2*time.Second, h.c.scroll.Cooldown())

	h.c.HandleWheel(-0.5)
	assert.Equal(t, focus.General, h.c.FocusedIndex(), "a small move must not fire")
}

func TestBloomShapeKeepsFocusTween(t *testing.T) {
	h := newHarness(t)
	h.start(t, 2)
	h.c.HandleWheel(-1)
	require.Equal(t, 0, h.c.FocusedIndex())

	for range 30 {
		h.c.Frame(1.0 / 60)
	}
	require.Less(t, h.c.BloomStrength(), float32(1))

	h.c.SetBloomShape(0.6, 0.9)
	for range 600 {
		h.c.Frame(1.0 / 60)
	}

	bloom := h.c.Params().Bloom
	assert.InDelta(t, 1, bloom.Strength, 1e-5)
	assert.Equal(t, float32(0.6), bloom.Radius)
	assert.Equal(t, float32(0.9), bloom.Threshold)
}
