package postfx

import "github.com/chewxy/math32"

type BloomParams struct {
	Strength  float32 `koanf:"strength" yaml:"strength"`
	Radius    float32 `koanf:"radius" yaml:"radius"`
	Threshold float32 `koanf:"threshold" yaml:"threshold"`
}

type DOFParams struct {
	Focus    float32 `koanf:"focus" yaml:"focus"`
	Aperture float32 `koanf:"aperture" yaml:"aperture"`
	MaxBlur  float32 `koanf:"maxblur" yaml:"maxblur"`
	Enabled  bool    `koanf:"enabled" yaml:"enabled"`
}

// Params is read by the pipeline every frame. Tweens write Bloom.Strength
// and the DOF fields in place.
type Params struct {
	Bloom    BloomParams `koanf:"bloom" yaml:"bloom"`
	DOF      DOFParams   `koanf:"dof" yaml:"dof"`
	Exposure float32     `koanf:"exposure" yaml:"exposure"`
}

// GeneralDOF is the soft overall blur of the overview.
var GeneralDOF = DOFParams{Focus: 8.0, Aperture: 0.006, MaxBlur: 0.012, Enabled: true}

// FocusedDOF pulls focus onto a panel in front of the camera.
var FocusedDOF = DOFParams{Focus: 4.0, Aperture: 0.01, MaxBlur: 0.02, Enabled: true}

func DefaultParams() Params {
	return Params{
		Bloom:    BloomParams{Strength: 0, Radius: 0.4, Threshold: 0.85},
		DOF:      GeneralDOF,
		Exposure: 1.2,
	}
}

// Pass names a stage of the pipeline.
type Pass string

const (
	PassScene  Pass = "scene"
	PassDOF    Pass = "dof"
	PassBloom  Pass = "bloom"
	PassOutput Pass = "output"
)

// Plan lists the passes a frame runs for params, in order.
func Plan(p Params) []Pass {
	passes := []Pass{PassScene}
	if p.DOF.Enabled {
		passes = append(passes, PassDOF)
	}
	if p.Bloom.Strength > 0 {
		passes = append(passes, PassBloom)
	}
	return append(passes, PassOutput)
}

// BlurIterations is the number of separable blur rounds for a bloom radius.
func BlurIterations(radius float32) int {
	n := 2 + int(math32.Round(radius*8))
	return max(1, min(n, 8))
}

// SRGBToLinear converts one 8-bit sRGB channel to linear [0, 1].
func SRGBToLinear(c uint8) float32 {
	v := float32(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math32.Pow((v+0.055)/1.055, 2.4)
}
