package components

import (
	"math"
	"papergallery/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PanelShader is the lit shader panels draw with, plus the uniform locations
// for per-panel material parameters.
type PanelShader struct {
	Shader          rl.Shader
	RoughnessLoc    int32
	MetalnessLoc    int32
	NormalScaleLoc  int32
	EnvIntensityLoc int32
	HasNormalLoc    int32
	HasEnvLoc       int32
}

// SharedMaps holds the normal map and environment cubemap every panel uses.
// A zero texture means the map is not available and the panel renders
// without it.
type SharedMaps struct {
	Normal rl.Texture2D
	Env    rl.Texture2D
}

// PanelRenderer draws a double-sided textured plane facing +Z. The mesh is
// built on the first Draw so panels can be constructed without a GL context.
type PanelRenderer struct {
	engine.BaseComponent
	Width        float32
	Height       float32
	Texture      rl.Texture2D
	Maps         *SharedMaps
	Roughness    float32
	Metalness    float32
	NormalScale  float32
	EnvIntensity float32
	CastShadow   bool

	shader *PanelShader
	model  rl.Model
	loaded bool
}

func NewPanelRenderer(width, height float32, tex rl.Texture2D, maps *SharedMaps) *PanelRenderer {
	return &PanelRenderer{
		Width:        width,
		Height:       height,
		Texture:      tex,
		Maps:         maps,
		Roughness:    0.4,
		Metalness:    0.1,
		NormalScale:  1.2,
		EnvIntensity: 0.4,
		CastShadow:   true,
	}
}

func (p *PanelRenderer) SetShader(shader *PanelShader) {
	p.shader = shader
	if p.loaded && shader != nil {
		p.model.Materials.Shader = shader.Shader
	}
}

// WorldMatrix is the plane's model matrix: the XZ mesh is stood up to face
// +Z, then the owner transform is applied.
func (p *PanelRenderer) WorldMatrix() rl.Matrix {
	standUp := rl.MatrixRotateX(math.Pi / 2)
	g := p.Owner()
	if g == nil {
		return standUp
	}
	return rl.MatrixMultiply(standUp, g.Transform.Matrix())
}

func (p *PanelRenderer) ensureModel() {
	if p.loaded {
		return
	}
	mesh := rl.GenMeshPlane(p.Width, p.Height, 1, 1)
	rl.GenMeshTangents(&mesh)
	p.model = rl.LoadModelFromMesh(mesh)
	rl.SetMaterialTexture(p.model.Materials, rl.MapAlbedo, p.Texture)
	if p.Maps != nil {
		rl.SetMaterialTexture(p.model.Materials, rl.MapNormal, p.Maps.Normal)
		rl.SetMaterialTexture(p.model.Materials, rl.MapCubemap, p.Maps.Env)
	}
	if p.shader != nil {
		p.model.Materials.Shader = p.shader.Shader
	}
	p.loaded = true
}

func (p *PanelRenderer) Draw() {
	g := p.Owner()
	if g == nil || p.Texture.ID == 0 {
		return
	}
	p.ensureModel()

	if p.Maps != nil {
		// The shared maps may resolve after the panel was built.
		rl.SetMaterialTexture(p.model.Materials, rl.MapNormal, p.Maps.Normal)
		rl.SetMaterialTexture(p.model.Materials, rl.MapCubemap, p.Maps.Env)
	}
	if s := p.shader; s != nil {
		rl.SetShaderValue(s.Shader, s.RoughnessLoc, []float32{p.Roughness}, rl.ShaderUniformFloat)
		rl.SetShaderValue(s.Shader, s.MetalnessLoc, []float32{p.Metalness}, rl.ShaderUniformFloat)
		rl.SetShaderValue(s.Shader, s.NormalScaleLoc, []float32{p.NormalScale}, rl.ShaderUniformFloat)
		rl.SetShaderValue(s.Shader, s.EnvIntensityLoc, []float32{p.EnvIntensity}, rl.ShaderUniformFloat)
		rl.SetShaderValue(s.Shader, s.HasNormalLoc, []float32{boolUniform(p.Maps != nil && p.Maps.Normal.ID != 0)}, rl.ShaderUniformFloat)
		rl.SetShaderValue(s.Shader, s.HasEnvLoc, []float32{boolUniform(p.Maps != nil && p.Maps.Env.ID != 0)}, rl.ShaderUniformFloat)
	}

	p.model.Transform = p.WorldMatrix()

	rl.DisableBackfaceCulling()
	rl.DrawModel(p.model, rl.Vector3Zero(), 1.0, rl.White)
	rl.EnableBackfaceCulling()
}

// Unload releases the plane mesh. Textures belong to the asset loader.
func (p *PanelRenderer) Unload() {
	if p.loaded {
		rl.SetMaterialTexture(p.model.Materials, rl.MapAlbedo, rl.Texture2D{})
		rl.SetMaterialTexture(p.model.Materials, rl.MapNormal, rl.Texture2D{})
		rl.SetMaterialTexture(p.model.Materials, rl.MapCubemap, rl.Texture2D{})
		p.model.Materials.Shader = rl.Shader{}
		rl.UnloadModel(p.model)
		p.loaded = false
	}
	p.Texture = rl.Texture2D{}
}

func boolUniform(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
