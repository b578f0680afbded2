package gallery

import (
	"errors"

	"papergallery/internal/postfx"
	"papergallery/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// WindowSurface is the raylib window's framebuffer.
type WindowSurface struct{}

func (WindowSurface) Size() (int32, int32) {
	return int32(rl.GetRenderWidth()), int32(rl.GetRenderHeight())
}

// gpuRenderer draws the lit world into the post-processing pipeline and
// presents the result to the window.
type gpuRenderer struct {
	scene    *world.Renderer
	pipeline *postfx.Pipeline
}

// NewGPURenderer loads shaders and render targets. It needs an initialized
// window with a current GL context.
func NewGPURenderer(s Surface, w *world.World) (FrameRenderer, error) {
	if !rl.IsWindowReady() {
		return nil, errors.New("window is not initialized")
	}
	width, height := s.Size()
	if width <= 0 || height <= 0 {
		return nil, errors.New("surface has no area")
	}
	return &gpuRenderer{
		scene:    world.NewRenderer(w),
		pipeline: postfx.NewPipeline(width, height),
	}, nil
}

func (r *gpuRenderer) Render(w *world.World, params postfx.Params) {
	r.scene.DrawShadowMaps(w)

	r.pipeline.BeginScene(w.Settings.Background)
	r.scene.DrawScene(w)
	r.pipeline.EndScene()

	r.pipeline.Present(params, w.Camera.Near, w.Camera.Far)
}

func (r *gpuRenderer) Resize(width, height int32) {
	r.pipeline.Resize(width, height)
}

func (r *gpuRenderer) Unload() {
	r.scene.Unload()
	r.pipeline.Unload()
}
