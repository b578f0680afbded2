// Package overlay draws the 2D interface over the gallery: the caption card
// of the focused panel, a back button and the image preview dialog.
package overlay

import (
	"strings"

	"papergallery/internal/engine"
	"papergallery/internal/gallery"
	"papergallery/internal/world"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorCard      = rl.NewColor(18, 18, 24, 220)
	colorTitle     = rl.NewColor(255, 255, 255, 255)
	colorBody      = rl.NewColor(200, 200, 208, 255)
	colorAccent    = rl.NewColor(108, 99, 255, 255)
	colorBackdrop  = rl.NewColor(0, 0, 0, 160)
	colorElement   = rl.NewColor(28, 28, 38, 255)
	colorHover     = rl.NewColor(38, 38, 52, 255)
	colorCardEdge  = rl.NewColor(50, 50, 65, 255)
	colorTextMuted = rl.NewColor(119, 119, 119, 255)
)

const (
	cardWidth   = 380
	cardMargin  = 24
	bodyChars   = 48
	titleSize   = 24
	bodySize    = 16
	lineSpacing = 4
)

// Overlay tracks the focused record and whether the preview is open.
type Overlay struct {
	record   *world.PanelRecord
	preview  bool
	resume   bool // scroll navigation state before the preview opened
	listener engine.ListenerID
	attached *gallery.Controller
	styled   bool
}

func New() *Overlay {
	return &Overlay{}
}

// Attach follows focus changes of c. Attaching again moves the overlay to
// the new controller.
func (o *Overlay) Attach(c *gallery.Controller) {
	o.Detach()
	o.attached = c
	o.listener = c.OnFocusChange.AddListener(o.onFocusChange)
}

func (o *Overlay) Detach() {
	if o.attached == nil {
		return
	}
	o.attached.OnFocusChange.RemoveListener(o.listener)
	o.ClosePreview(o.attached)
	o.attached = nil
	o.record = nil
}

func (o *Overlay) onFocusChange(rec *world.PanelRecord) {
	o.record = rec
	if rec == nil && o.attached != nil {
		o.ClosePreview(o.attached)
	}
}

// Record is the focused record, or nil in the general view.
func (o *Overlay) Record() *world.PanelRecord {
	return o.record
}

func (o *Overlay) PreviewOpen() bool {
	return o.preview
}

// OpenPreview shows the focused panel's image. Scroll navigation is paused
// while the dialog is open and restored to its prior state on close.
func (o *Overlay) OpenPreview(c *gallery.Controller) bool {
	if o.record == nil || o.preview {
		return false
	}
	if _, ok := c.PanelTexture(c.FocusedIndex()); !ok {
		return false
	}
	o.preview = true
	o.resume = c.ScrollNavigationEnabled()
	c.DisableScrollNavigation()
	return true
}

func (o *Overlay) ClosePreview(c *gallery.Controller) {
	if !o.preview {
		return
	}
	o.preview = false
	if o.resume {
		c.EnableScrollNavigation()
	}
}

// Update handles keyboard shortcuts for the dialog. While the dialog is open
// it consumes all keyboard input.
func (o *Overlay) Update(c *gallery.Controller) bool {
	if o.preview {
		if rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeySpace) {
			o.ClosePreview(c)
		}
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		return o.OpenPreview(c)
	}
	return false
}

func (o *Overlay) Draw(c *gallery.Controller) {
	if !o.styled {
		o.styled = true
		initStyle()
	}
	if o.record == nil {
		drawHint()
		return
	}
	if o.preview {
		o.drawPreview(c)
		return
	}
	o.drawCard(c)
}

func (o *Overlay) drawCard(c *gallery.Controller) {
	lines := wrapText(o.record.Description, bodyChars)
	height := float32(cardMargin + titleSize + 12 + len(lines)*(bodySize+lineSpacing) + 16 + 32 + cardMargin)
	x := float32(cardMargin)
	y := float32(rl.GetScreenHeight()) - height - cardMargin

	card := rl.Rectangle{X: x, Y: y, Width: cardWidth, Height: height}
	rl.DrawRectangleRounded(card, 0.08, 8, colorCard)
	rl.DrawRectangleLinesEx(card, 1, colorCardEdge)

	tx := int32(x) + cardMargin
	ty := int32(y) + cardMargin
	rl.DrawText(o.record.Title, tx, ty, titleSize, colorTitle)
	ty += titleSize + 12
	for _, line := range lines {
		rl.DrawText(line, tx, ty, bodySize, colorBody)
		ty += bodySize + lineSpacing
	}
	ty += 16

	if gui.Button(rl.Rectangle{X: float32(tx), Y: float32(ty), Width: 96, Height: 32}, "Back") {
		c.ReturnToGeneralView()
	}
	if gui.Button(rl.Rectangle{X: float32(tx) + 108, Y: float32(ty), Width: 96, Height: 32}, "Preview") {
		o.OpenPreview(c)
	}
}

func (o *Overlay) drawPreview(c *gallery.Controller) {
	sw, sh := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	rl.DrawRectangle(0, 0, int32(sw), int32(sh), colorBackdrop)

	tex, ok := c.PanelTexture(c.FocusedIndex())
	if !ok {
		o.ClosePreview(c)
		return
	}

	bounds := rl.Rectangle{X: sw * 0.1, Y: sh * 0.08, Width: sw * 0.8, Height: sh * 0.84}
	if gui.WindowBox(bounds, o.record.Title) {
		o.ClosePreview(c)
		return
	}

	const header = 24
	area := rl.Rectangle{X: bounds.X + 12, Y: bounds.Y + header + 12, Width: bounds.Width - 24, Height: bounds.Height - header - 24}
	dst := fitRect(area, float32(tex.Width), float32(tex.Height))
	src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
}

func drawHint() {
	rl.DrawText("Scroll to browse papers", cardMargin, int32(rl.GetScreenHeight())-cardMargin-bodySize, bodySize, colorTextMuted)
}

func initStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorBody))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTitle))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTitle))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(colorCardEdge))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorCard))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, bodySize)
}

// wrapText breaks text on spaces into lines of at most width characters.
// Words longer than width get a line of their own.
func wrapText(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// fitRect scales a w x h image to fit inside area, centered.
func fitRect(area rl.Rectangle, w, h float32) rl.Rectangle {
	if w <= 0 || h <= 0 {
		return rl.Rectangle{X: area.X, Y: area.Y}
	}
	scale := min(area.Width/w, area.Height/h)
	dw, dh := w*scale, h*scale
	return rl.Rectangle{
		X:      area.X + (area.Width-dw)/2,
		Y:      area.Y + (area.Height-dh)/2,
		Width:  dw,
		Height: dh,
	}
}
