package gallery

import (
	"context"
	"fmt"

	"papergallery/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// WindowConfig sizes and titles the host window.
type WindowConfig struct {
	Width     int32  `koanf:"width" yaml:"width"`
	Height    int32  `koanf:"height" yaml:"height"`
	Title     string `koanf:"title" yaml:"title"`
	TargetFPS int32  `koanf:"fps" yaml:"fps"`
	HighDPI   bool   `koanf:"highdpi" yaml:"highdpi"`
}

// Overlay is 2D UI drawn on top of the presented frame. Update reports
// whether it consumed this frame's keyboard input.
type Overlay interface {
	Update(c *Controller) bool
	Draw(c *Controller)
}

// App hosts a Controller in a raylib window.
type App struct {
	Window     WindowConfig
	Controller *Controller
	Overlay    Overlay
	Panels     []world.PanelRecord
	DebugMode  bool

	// OnStart runs once the scene exists and the loop has started.
	OnStart func(c *Controller)

	// Apply carries changes made off the render thread, such as config
	// reloads. They run at the start of a frame.
	Apply chan func(*Controller)
}

func NewApp(window WindowConfig, c *Controller, panels []world.PanelRecord) *App {
	return &App{
		Window:     window,
		Controller: c,
		Panels:     panels,
		Apply:      make(chan func(*Controller), 8),
	}
}

// Run opens the window and drives the gallery until the window closes or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if a.Window.HighDPI {
		flags |= rl.FlagWindowHighdpi
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(a.Window.Width, a.Window.Height, a.Window.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(a.Window.TargetFPS)
	// Escape returns to the general view instead of closing.
	rl.SetExitKey(rl.KeyNull)

	c := a.Controller
	if err := c.CreateScene(WindowSurface{}); err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer c.DisposeScene()

	if err := c.AddPanels(a.Panels); err != nil {
		return fmt.Errorf("add panels: %w", err)
	}
	c.EnableScrollNavigation()
	c.StartAnimation()
	if a.OnStart != nil {
		a.OnStart(c)
	}

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		a.drainApply()
		a.Update()
		a.Draw()
	}
	return nil
}

func (a *App) drainApply() {
	for {
		select {
		case fn := <-a.Apply:
			fn(a.Controller)
		default:
			return
		}
	}
}

// Update routes window input to the controller.
func (a *App) Update() {
	c := a.Controller

	if rl.IsWindowResized() {
		c.HandleResize(int32(rl.GetRenderWidth()), int32(rl.GetRenderHeight()))
	}
	c.HandleWheel(rl.GetMouseWheelMove())

	if a.Overlay != nil && a.Overlay.Update(c) {
		return
	}

	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		c.HandleEscape()
	case rl.IsKeyPressed(rl.KeyHome):
		c.ResetView()
	case rl.IsKeyPressed(rl.KeyL):
		c.ToggleDynamicLighting()
	case rl.IsKeyPressed(rl.KeyF1):
		a.DebugMode = !a.DebugMode
	}
}

func (a *App) Draw() {
	c := a.Controller

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	c.Frame(rl.GetFrameTime())
	if a.Overlay != nil {
		a.Overlay.Draw(c)
	}
	if a.DebugMode {
		a.drawDebug()
	}
	rl.EndDrawing()
}

func (a *App) drawDebug() {
	c := a.Controller
	w := c.World()
	if w == nil {
		return
	}
	rl.DrawFPS(10, 10)
	rl.DrawText(fmt.Sprintf("Scene: %s", c.SceneID()), 10, 35, 16, rl.Green)
	rl.DrawText(fmt.Sprintf("Panels: %d/%d  Focus: %d", w.Loaded(), w.Len(), c.FocusedIndex()), 10, 55, 16, rl.Green)
	p := c.Params()
	rl.DrawText(fmt.Sprintf("Bloom: %.2f  DOF: %.2f/%.3f", p.Bloom.Strength, p.DOF.Focus, p.DOF.Aperture), 10, 75, 16, rl.Green)
	rl.DrawText(fmt.Sprintf("Dynamic lights: %v", w.Rig.Dynamic()), 10, 95, 16, rl.Lime)
}
