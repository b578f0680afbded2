package config

import (
	"time"

	"papergallery/internal/postfx"
)

// Tunable is the part of the gallery controller that follows config reloads.
type Tunable interface {
	SetScrollThreshold(threshold float64)
	SetScrollCooldown(cooldown time.Duration)
	SetWheelScale(scale float32)
	SetLightingIntensity(multiplier float32)
	SetBloomShape(radius, threshold float32)
	SetExposure(exposure float32)
	EnableDOF(enabled bool)
	Params() postfx.Params
}

// ApplyTuning pushes the live-tunable settings to t. Bloom strength and the
// DOF distances stay under the focus animations; only the bloom shape is
// replaced, and only when it changed.
func (c *Config) ApplyTuning(t Tunable) {
	t.SetScrollThreshold(c.Scroll.Threshold)
	t.SetScrollCooldown(c.ScrollCooldown())
	t.SetWheelScale(c.Scroll.WheelScale)
	t.SetLightingIntensity(c.Lighting.Intensity)

	cur := t.Params()
	if cur.Bloom.Radius != c.Post.Bloom.Radius || cur.Bloom.Threshold != c.Post.Bloom.Threshold {
		t.SetBloomShape(c.Post.Bloom.Radius, c.Post.Bloom.Threshold)
	}
	t.SetExposure(c.Post.Exposure)
	t.EnableDOF(c.Post.DOF.Enabled)
}
