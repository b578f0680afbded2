package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"papergallery/internal/postfx"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlv3 "gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "gallery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int32(1280), cfg.Window.Width)
	assert.Equal(t, 100.0, cfg.Scroll.Threshold)
	assert.Equal(t, 2*time.Second, cfg.ScrollCooldown())
	assert.Equal(t, postfx.DefaultParams(), cfg.Post)
	assert.Len(t, cfg.Panels, 15)
	assert.Equal(t, "Paper 1", cfg.Panels[0].Title)
	assert.Equal(t, rl.Vector3{X: -8, Y: 5, Z: -12}, cfg.Panels[0].Position)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
window:
  width: 800
  height: 600
scroll:
  threshold: 250
  cooldown: 0.5
post:
  bloom:
    radius: 0.6
panels:
  - id: 42
    title: Solo
    image: solo.png
    position: {x: 1, y: 2, z: -3}
    rotation: {y: 0.5}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int32(800), cfg.Window.Width)
	assert.Equal(t, "Paper Gallery", cfg.Window.Title, "unset keys keep defaults")
	assert.Equal(t, 250.0, cfg.Scroll.Threshold)
	assert.Equal(t, 500*time.Millisecond, cfg.ScrollCooldown())
	assert.Equal(t, float32(0.6), cfg.Post.Bloom.Radius)
	assert.Equal(t, float32(0.85), cfg.Post.Bloom.Threshold)

	require.Len(t, cfg.Panels, 1, "configured panels replace the defaults")
	p := cfg.Panels[0]
	assert.Equal(t, 42, p.ID)
	assert.Equal(t, rl.Vector3{X: 1, Y: 2, Z: -3}, p.Position)
	assert.Equal(t, float32(0.5), p.Rotation.Y)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GALLERY_SCROLL__THRESHOLD", "300")
	t.Setenv("GALLERY_LIGHTING__INTENSITY", "1.5")
	t.Setenv("GALLERY_LOG__FORMAT", "json")

	path := writeConfig(t, t.TempDir(), "scroll:\n  threshold: 50\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 300.0, cfg.Scroll.Threshold, "env wins over the file")
	assert.Equal(t, float32(1.5), cfg.Lighting.Intensity)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "window: [unterminated\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"window", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"threshold", func(c *Config) { c.Scroll.Threshold = 0 }, "scroll.threshold"},
		{"cooldown", func(c *Config) { c.Scroll.Cooldown = -1 }, "scroll.cooldown"},
		{"wheel scale", func(c *Config) { c.Scroll.WheelScale = 0 }, "wheel_scale"},
		{"intensity", func(c *Config) { c.Lighting.Intensity = -1 }, "lighting.intensity"},
		{"fog", func(c *Config) { c.Scene.FogFar = 5 }, "fog_far"},
		{"background", func(c *Config) { c.Scene.Background = "teal" }, "scene.background"},
		{"bloom", func(c *Config) { c.Post.Bloom.Radius = -0.1 }, "post.bloom"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"image", func(c *Config) { c.Panels[2].Image = "" }, "panels[2]"},
		{"duplicate id", func(c *Config) { c.Panels[1].ID = c.Panels[0].ID }, "duplicate id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Panels = DefaultPanels()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#142029")
	require.NoError(t, err)
	assert.Equal(t, rl.NewColor(0x14, 0x20, 0x29, 255), c)

	c, err = ParseColor("0x1A1A1A")
	require.NoError(t, err)
	assert.Equal(t, rl.NewColor(0x1a, 0x1a, 0x1a, 255), c)

	_, err = ParseColor("#12345")
	assert.Error(t, err)
	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}

func TestRecordsAndSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Assets.Root = "/srv/gallery"
	cfg.Panels = DefaultPanels()
	cfg.Panels[1].Image = "/abs/two.jpg"
	cfg.Scene.ParticleCount = 12

	recs := cfg.Records()
	assert.Equal(t, filepath.Join("/srv/gallery", "images/image1.jpg"), recs[0].Image)
	assert.Equal(t, "/abs/two.jpg", recs[1].Image)
	assert.Equal(t, "images/image1.jpg", cfg.Panels[0].Image, "records are copies")

	s := cfg.WorldSettings()
	assert.Equal(t, 12, s.ParticleCount)
	assert.Equal(t, filepath.Join("/srv/gallery", "images/paperNormal.png"), s.NormalMap)
	assert.Equal(t, filepath.Join("/srv/gallery", "images/negz.jpg"), s.EnvMap[5])
	assert.Equal(t, rl.NewColor(0x14, 0x20, 0x29, 255), s.Background)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Log.Format = "json"

	log := cfg.NewLogger(&buf, false)
	log.Debug("hidden")
	log.Info("shown", "k", 1)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)

	buf.Reset()
	cfg.NewLogger(&buf, true).Debug("verbose")
	assert.Contains(t, buf.String(), "verbose")
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Panels = DefaultPanels()[:2]
	data, err := cfg.Marshal()
	require.NoError(t, err)

	var back Config
	require.NoError(t, yamlv3.Unmarshal(data, &back))
	assert.Equal(t, cfg.Scroll, back.Scroll)
	assert.Equal(t, cfg.Panels, back.Panels)
	assert.True(t, strings.Contains(string(data), "particle_count: 7000"))
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "scroll:\n  threshold: 100\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := Watch(ctx, path, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("scroll:\n  threshold: 175\n"), 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-updates:
			require.NotNil(t, cfg)
			if cfg.Scroll.Threshold == 175 {
				cancel()
				for range updates {
				}
				return
			}
		case <-deadline:
			t.Fatal("Expected a reloaded config")
		}
	}
}

func TestWatchSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "scroll:\n  threshold: 100\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := Watch(ctx, path, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("scroll:\n  threshold: -4\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))

	// A reload may observe the file mid-write; only the invalid content must
	// never be delivered.
	timeout := time.After(300 * time.Millisecond)
	for {
		select {
		case cfg := <-updates:
			assert.NotEqual(t, -4.0, cfg.Scroll.Threshold)
		case <-timeout:
			return
		}
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "gallery.yaml"), nil)
	assert.Error(t, err)
}
