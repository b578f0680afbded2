package postfx

import (
	_ "embed"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	//go:embed shaders/post.vs
	postVS string
	//go:embed shaders/dof.fs
	dofFS string
	//go:embed shaders/bright.fs
	brightFS string
	//go:embed shaders/blur.fs
	blurFS string
	//go:embed shaders/composite.fs
	compositeFS string
	//go:embed shaders/output.fs
	outputFS string
)

type pass struct {
	shader rl.Shader
	locs   map[string]int32
}

func loadPass(fs string) *pass {
	return &pass{shader: rl.LoadShaderFromMemory(postVS, fs), locs: make(map[string]int32)}
}

func (p *pass) loc(name string) int32 {
	if l, ok := p.locs[name]; ok {
		return l
	}
	l := rl.GetShaderLocation(p.shader, name)
	p.locs[name] = l
	return l
}

func (p *pass) float(name string, v float32) {
	rl.SetShaderValue(p.shader, p.loc(name), []float32{v}, rl.ShaderUniformFloat)
}

func (p *pass) vec2(name string, x, y float32) {
	rl.SetShaderValue(p.shader, p.loc(name), []float32{x, y}, rl.ShaderUniformVec2)
}

// Pipeline renders the scene offscreen and runs depth of field, bloom and
// tone mapping before presenting to the window.
type Pipeline struct {
	width, height int32

	scene     rl.RenderTexture2D // color + sampleable depth
	dof       rl.RenderTexture2D
	bright    rl.RenderTexture2D // half resolution
	blurA     rl.RenderTexture2D
	blurB     rl.RenderTexture2D
	composite rl.RenderTexture2D

	dofPass       *pass
	brightPass    *pass
	blurPass      *pass
	compositePass *pass
	outputPass    *pass

	unloaded bool
}

func NewPipeline(width, height int32) *Pipeline {
	p := &Pipeline{
		dofPass:       loadPass(dofFS),
		brightPass:    loadPass(brightFS),
		blurPass:      loadPass(blurFS),
		compositePass: loadPass(compositeFS),
		outputPass:    loadPass(outputFS),
	}
	p.loadTargets(width, height)
	return p
}

func (p *Pipeline) Size() (int32, int32) {
	return p.width, p.height
}

// Resize recreates every offscreen target. Call before drawing the next frame.
func (p *Pipeline) Resize(width, height int32) {
	if p.unloaded || width <= 0 || height <= 0 || (width == p.width && height == p.height) {
		return
	}
	p.unloadTargets()
	p.loadTargets(width, height)
}

func (p *Pipeline) loadTargets(width, height int32) {
	p.width, p.height = width, height
	p.scene = loadSceneTarget(width, height)
	p.dof = rl.LoadRenderTexture(width, height)
	p.composite = rl.LoadRenderTexture(width, height)
	hw, hh := max(1, width/2), max(1, height/2)
	p.bright = rl.LoadRenderTexture(hw, hh)
	p.blurA = rl.LoadRenderTexture(hw, hh)
	p.blurB = rl.LoadRenderTexture(hw, hh)
	for _, t := range []rl.RenderTexture2D{p.dof, p.composite, p.bright, p.blurA, p.blurB} {
		rl.SetTextureFilter(t.Texture, rl.FilterBilinear)
		rl.SetTextureWrap(t.Texture, rl.WrapClamp)
	}
	rl.SetTextureWrap(p.scene.Texture, rl.WrapClamp)
}

func (p *Pipeline) unloadTargets() {
	for _, t := range []rl.RenderTexture2D{p.scene, p.dof, p.composite, p.bright, p.blurA, p.blurB} {
		rl.UnloadRenderTexture(t)
	}
}

// BeginScene binds the offscreen scene target and clears it to background.
func (p *Pipeline) BeginScene(background rl.Color) {
	rl.BeginTextureMode(p.scene)
	rl.ClearBackground(linearColor(background))
}

func (p *Pipeline) EndScene() {
	rl.EndTextureMode()
}

// Present runs the post passes and draws the result to the current
// framebuffer. near and far are the clip planes the scene was drawn with.
func (p *Pipeline) Present(params Params, near, far float32) {
	src := p.scene.Texture
	for _, step := range Plan(params) {
		switch step {
		case PassDOF:
			p.runDOF(src, params.DOF, near, far)
			src = p.dof.Texture
		case PassBloom:
			p.runBloom(src, params.Bloom)
			src = p.composite.Texture
		case PassOutput:
			p.outputPass.float("exposure", params.Exposure)
			rl.BeginShaderMode(p.outputPass.shader)
			drawFullscreen(src, p.width, p.height)
			rl.EndShaderMode()
		}
	}
}

func (p *Pipeline) runDOF(src rl.Texture2D, dof DOFParams, near, far float32) {
	dp := p.dofPass
	dp.float("focus", dof.Focus)
	dp.float("aperture", dof.Aperture)
	dp.float("maxblur", dof.MaxBlur)
	dp.float("nearClip", near)
	dp.float("farClip", far)
	dp.float("aspect", float32(p.width)/float32(p.height))

	rl.BeginTextureMode(p.dof)
	rl.BeginShaderMode(dp.shader)
	rl.SetShaderValueTexture(dp.shader, dp.loc("depthTexture"), p.scene.Depth)
	drawFullscreen(src, p.width, p.height)
	rl.EndShaderMode()
	rl.EndTextureMode()
}

func (p *Pipeline) runBloom(src rl.Texture2D, bloom BloomParams) {
	hw, hh := p.bright.Texture.Width, p.bright.Texture.Height

	p.brightPass.float("threshold", bloom.Threshold)
	p.brightPass.float("smoothWidth", 0.01)
	rl.BeginTextureMode(p.bright)
	rl.BeginShaderMode(p.brightPass.shader)
	drawFullscreen(src, hw, hh)
	rl.EndShaderMode()
	rl.EndTextureMode()

	bp := p.blurPass
	spread := 1 + bloom.Radius*2
	bp.vec2("texelSize", spread/float32(hw), spread/float32(hh))
	in := p.bright
	for range BlurIterations(bloom.Radius) {
		bp.vec2("direction", 1, 0)
		blitWith(bp.shader, in.Texture, p.blurA, hw, hh)
		bp.vec2("direction", 0, 1)
		blitWith(bp.shader, p.blurA.Texture, p.blurB, hw, hh)
		in = p.blurB
	}

	cp := p.compositePass
	cp.float("strength", bloom.Strength)
	rl.BeginTextureMode(p.composite)
	rl.BeginShaderMode(cp.shader)
	rl.SetShaderValueTexture(cp.shader, cp.loc("bloomTexture"), in.Texture)
	drawFullscreen(src, p.width, p.height)
	rl.EndShaderMode()
	rl.EndTextureMode()
}

// Unload releases shaders and targets. Safe to call more than once.
func (p *Pipeline) Unload() {
	if p.unloaded {
		return
	}
	p.unloaded = true
	p.unloadTargets()
	for _, ps := range []*pass{p.dofPass, p.brightPass, p.blurPass, p.compositePass, p.outputPass} {
		rl.UnloadShader(ps.shader)
	}
}

func blitWith(shader rl.Shader, src rl.Texture2D, dst rl.RenderTexture2D, w, h int32) {
	rl.BeginTextureMode(dst)
	rl.BeginShaderMode(shader)
	drawFullscreen(src, w, h)
	rl.EndShaderMode()
	rl.EndTextureMode()
}

// drawFullscreen stretches src over a w x h target. Render textures are
// stored upside down, so the source rectangle is flipped.
func drawFullscreen(src rl.Texture2D, w, h int32) {
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(src.Width), Height: -float32(src.Height)}
	dstRect := rl.Rectangle{X: 0, Y: 0, Width: float32(w), Height: float32(h)}
	rl.DrawTexturePro(src, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

func linearColor(c rl.Color) rl.Color {
	return rl.NewColor(
		uint8(SRGBToLinear(c.R)*255+0.5),
		uint8(SRGBToLinear(c.G)*255+0.5),
		uint8(SRGBToLinear(c.B)*255+0.5),
		c.A,
	)
}

// loadSceneTarget creates a framebuffer with a color texture and a depth
// texture the DOF pass can sample.
func loadSceneTarget(width, height int32) rl.RenderTexture2D {
	target := rl.RenderTexture2D{}

	target.ID = rl.LoadFramebuffer()
	if target.ID == 0 {
		return target
	}
	rl.EnableFramebuffer(target.ID)

	img := rl.GenImageColor(int(width), int(height), rl.Blank)
	target.Texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.FramebufferAttach(target.ID, target.Texture.ID, rl.AttachmentColorChannel0, rl.AttachmentTexture2d, 0)

	target.Depth.ID = rl.LoadTextureDepth(width, height, false)
	target.Depth.Width = width
	target.Depth.Height = height
	target.Depth.Format = 19
	target.Depth.Mipmaps = 1
	rl.FramebufferAttach(target.ID, target.Depth.ID, rl.AttachmentDepth, rl.AttachmentTexture2d, 0)

	rl.DisableFramebuffer()
	return target
}
