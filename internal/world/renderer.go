package world

import (
	_ "embed"
	"unsafe"

	"papergallery/internal/components"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

//go:embed shaders/lit.vs
var litVS string

//go:embed shaders/lit.fs
var litFS string

// MaxShadowCasters is the number of directional lights that get a shadow map.
const MaxShadowCasters = 2

const shadowSlotBase = int32(10)

type shadowCaster struct {
	light      *components.DirectionalLight
	shadowMap  rl.RenderTexture2D
	matLightVP rl.Matrix
	vpLoc      int32
	mapLoc     int32
}

// Renderer draws the lit scene: shadow passes for the shadow-casting
// directional lights, then panels and particles from the gallery camera.
type Renderer struct {
	Shader rl.Shader
	Panel  *components.PanelShader

	casters  []*shadowCaster
	locs     map[string]int32
	unloaded bool
}

func NewRenderer(w *World) *Renderer {
	r := &Renderer{locs: make(map[string]int32)}

	r.Shader = rl.LoadShaderFromMemory(litVS, litFS)

	// Normal map goes to texture slot 1 (texture1 in the shader)
	locs := unsafe.Slice(r.Shader.Locs, rl.ShaderLocMapCubemap+1)
	locs[rl.ShaderLocMapNormal] = rl.GetShaderLocation(r.Shader, "texture1")
	locs[rl.ShaderLocMapCubemap] = rl.GetShaderLocation(r.Shader, "environmentMap")

	r.Panel = &components.PanelShader{
		Shader:          r.Shader,
		RoughnessLoc:    r.loc("roughness"),
		MetalnessLoc:    r.loc("metalness"),
		NormalScaleLoc:  r.loc("normalScale"),
		EnvIntensityLoc: r.loc("envIntensity"),
		HasNormalLoc:    r.loc("hasNormalMap"),
		HasEnvLoc:       r.loc("hasEnvMap"),
	}
	w.SetPanelShader(r.Panel)

	for _, light := range w.Rig.Directionals() {
		if !light.CastShadow || len(r.casters) == MaxShadowCasters {
			continue
		}
		i := len(r.casters)
		size := light.Shadow.MapSize
		c := &shadowCaster{
			light:     light,
			shadowMap: loadShadowmapRenderTexture(size, size),
			vpLoc:     r.loc(indexed("matLightVP", i)),
			mapLoc:    r.loc(indexed("shadowMap", i)),
		}
		rl.SetShaderValue(r.Shader, r.loc(indexed("shadowBias", i)), []float32{light.Shadow.Bias}, rl.ShaderUniformFloat)
		rl.SetShaderValue(r.Shader, r.loc(indexed("shadowMapResolution", i)), []float32{float32(size)}, rl.ShaderUniformFloat)
		r.casters = append(r.casters, c)
	}

	s := w.Settings
	rl.SetShaderValue(r.Shader, r.loc("fogColor"), colorVec(s.FogColor), rl.ShaderUniformVec3)
	rl.SetShaderValue(r.Shader, r.loc("fogNear"), []float32{s.FogNear}, rl.ShaderUniformFloat)
	rl.SetShaderValue(r.Shader, r.loc("fogFar"), []float32{s.FogFar}, rl.ShaderUniformFloat)

	return r
}

func (r *Renderer) loc(name string) int32 {
	if l, ok := r.locs[name]; ok {
		return l
	}
	l := rl.GetShaderLocation(r.Shader, name)
	r.locs[name] = l
	return l
}

func indexed(name string, i int) string {
	return name + string(rune('0'+i))
}

func colorVec(c rl.Color) []float32 {
	return []float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

// DrawShadowMaps renders scene depth from every shadow-casting light.
func (r *Renderer) DrawShadowMaps(w *World) {
	for _, c := range r.casters {
		rl.BeginTextureMode(c.shadowMap)
		rl.ClearBackground(rl.White)

		rl.BeginMode3D(c.light.GetLightCamera())
		rl.SetMatrixProjection(c.light.ShadowProjection())

		lightView := rl.GetMatrixModelview()
		lightProj := rl.GetMatrixProjection()

		rl.SetCullFace(0)
		for _, p := range w.Panels() {
			if p.Renderer.CastShadow {
				p.Renderer.Draw()
			}
		}
		rl.SetCullFace(1)

		rl.EndMode3D()
		rl.EndTextureMode()

		c.matLightVP = rl.MatrixMultiply(lightView, lightProj)
	}
	rl.Viewport(0, 0, int32(rl.GetRenderWidth()), int32(rl.GetRenderHeight()))
}

// DrawScene draws panels and particles. Call between BeginTextureMode and
// EndTextureMode of the target the scene renders into.
func (r *Renderer) DrawScene(w *World) {
	cam := w.Camera
	rl.BeginMode3D(cam.GetRaylibCamera())
	rl.SetMatrixProjection(cam.Projection())

	r.updateLights(w)

	rl.EnableShader(r.Shader.ID)
	for i, c := range r.casters {
		rl.SetShaderValueMatrix(r.Shader, c.vpLoc, c.matLightVP)
		slot := shadowSlotBase + int32(i)
		rl.ActiveTextureSlot(slot)
		rl.EnableTexture(c.shadowMap.Depth.ID)
		rl.SetUniform(c.mapLoc, []int32{slot}, int32(rl.ShaderUniformInt), 1)
	}

	frustum := ExtractFrustum(cam)
	for _, p := range w.Panels() {
		pos := p.Object.Transform.Position
		radius := 0.5 * math32.Hypot(p.Width, p.Height) * p.Object.Transform.Scale.X
		if !frustum.ContainsSphere(pos, radius) {
			continue
		}
		p.Renderer.Draw()
	}
	rl.ActiveTextureSlot(0)

	w.Particles.Draw(w.Clock.Now(), cam, &frustum)

	rl.EndMode3D()
}

func (r *Renderer) updateLights(w *World) {
	rig := w.Rig
	eye := *w.Camera.Position()
	rl.SetShaderValue(r.Shader, r.loc("viewPos"), []float32{eye.X, eye.Y, eye.Z}, rl.ShaderUniformVec3)
	rl.SetShaderValue(r.Shader, r.loc("ambientColor"), rig.Ambient.GetColorFloat(), rl.ShaderUniformVec3)

	// Shadow casters must occupy the first slots to line up with shadowMapN.
	dirs := make([]*components.DirectionalLight, 0, 4)
	for _, c := range r.casters {
		dirs = append(dirs, c.light)
	}
	for _, d := range rig.Directionals() {
		if !r.isCaster(d) {
			dirs = append(dirs, d)
		}
	}
	var dirDir, dirColor []float32
	for _, d := range dirs {
		v := d.Direction()
		dirDir = append(dirDir, v.X, v.Y, v.Z)
		dirColor = append(dirColor, d.GetColorFloat()...)
	}
	rl.SetShaderValue(r.Shader, r.loc("dirCount"), []float32{float32(len(dirs))}, rl.ShaderUniformFloat)
	rl.SetShaderValueV(r.Shader, r.loc("dirDirection"), dirDir, rl.ShaderUniformVec3, int32(len(dirs)))
	rl.SetShaderValueV(r.Shader, r.loc("dirColor"), dirColor, rl.ShaderUniformVec3, int32(len(dirs)))

	var pointPos, pointColor, pointDist, pointDecay []float32
	for _, p := range rig.Points() {
		pos := p.GetPosition()
		pointPos = append(pointPos, pos.X, pos.Y, pos.Z)
		pointColor = append(pointColor, p.GetColorFloat()...)
		pointDist = append(pointDist, p.Distance)
		pointDecay = append(pointDecay, p.Decay)
	}
	n := int32(len(rig.Points()))
	rl.SetShaderValueV(r.Shader, r.loc("pointPosition"), pointPos, rl.ShaderUniformVec3, n)
	rl.SetShaderValueV(r.Shader, r.loc("pointColor"), pointColor, rl.ShaderUniformVec3, n)
	rl.SetShaderValueV(r.Shader, r.loc("pointDistance"), pointDist, rl.ShaderUniformFloat, n)
	rl.SetShaderValueV(r.Shader, r.loc("pointDecay"), pointDecay, rl.ShaderUniformFloat, n)

	spot := rig.Spot
	sp := spot.GetPosition()
	sd := spot.Direction()
	rl.SetShaderValue(r.Shader, r.loc("spotPosition"), []float32{sp.X, sp.Y, sp.Z}, rl.ShaderUniformVec3)
	rl.SetShaderValue(r.Shader, r.loc("spotDirection"), []float32{sd.X, sd.Y, sd.Z}, rl.ShaderUniformVec3)
	rl.SetShaderValue(r.Shader, r.loc("spotColor"), spot.GetColorFloat(), rl.ShaderUniformVec3)
	rl.SetShaderValue(r.Shader, r.loc("spotDistance"), []float32{spot.Distance}, rl.ShaderUniformFloat)
	rl.SetShaderValue(r.Shader, r.loc("spotDecay"), []float32{spot.Decay}, rl.ShaderUniformFloat)
	outer, inner := SpotCone(spot.Angle, spot.Penumbra)
	rl.SetShaderValue(r.Shader, r.loc("spotOuterCos"), []float32{outer}, rl.ShaderUniformFloat)
	rl.SetShaderValue(r.Shader, r.loc("spotInnerCos"), []float32{inner}, rl.ShaderUniformFloat)
}

func (r *Renderer) isCaster(d *components.DirectionalLight) bool {
	for _, c := range r.casters {
		if c.light == d {
			return true
		}
	}
	return false
}

// SpotCone returns the cosines of the outer and inner cone edges; the
// penumbra is the fraction of the cone that fades out.
func SpotCone(angle, penumbra float32) (outer, inner float32) {
	return math32.Cos(angle), math32.Cos(angle * (1 - penumbra))
}

// Unload releases the shader and shadow maps. Panels are unloaded with the
// scene. Safe to call more than once.
func (r *Renderer) Unload() {
	if r.unloaded {
		return
	}
	r.unloaded = true
	rl.UnloadShader(r.Shader)
	for _, c := range r.casters {
		rl.UnloadRenderTexture(c.shadowMap)
	}
	r.casters = nil
}

// loadShadowmapRenderTexture creates a framebuffer with only depth attachment
func loadShadowmapRenderTexture(width, height int32) rl.RenderTexture2D {
	target := rl.RenderTexture2D{}

	target.ID = rl.LoadFramebuffer()
	target.Texture.Width = width
	target.Texture.Height = height

	if target.ID > 0 {
		rl.EnableFramebuffer(target.ID)

		target.Depth.ID = rl.LoadTextureDepth(width, height, false)
		target.Depth.Width = width
		target.Depth.Height = height
		target.Depth.Format = 19
		target.Depth.Mipmaps = 1

		rl.FramebufferAttach(target.ID, target.Depth.ID, rl.AttachmentDepth, rl.AttachmentTexture2d, 0)

		rl.DisableFramebuffer()
	}

	return target
}
