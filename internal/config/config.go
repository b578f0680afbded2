// Package config loads gallery settings: built-in defaults, then an optional
// YAML file, then GALLERY_ environment overrides.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"papergallery/internal/components"
	"papergallery/internal/gallery"
	"papergallery/internal/postfx"
	"papergallery/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix marks environment overrides. A double underscore separates
// nested keys: GALLERY_SCROLL__THRESHOLD sets scroll.threshold.
const EnvPrefix = "GALLERY_"

type AssetsConfig struct {
	Root      string    `koanf:"root" yaml:"root"`
	Workers   int       `koanf:"workers" yaml:"workers"`
	NormalMap string    `koanf:"normal_map" yaml:"normal_map"`
	EnvMap    [6]string `koanf:"env_map" yaml:"env_map"`
}

type SceneConfig struct {
	ParticleCount  int     `koanf:"particle_count" yaml:"particle_count"`
	ParticleSpread float32 `koanf:"particle_spread" yaml:"particle_spread"`
	Seed           uint64  `koanf:"seed" yaml:"seed"`
	Background     string  `koanf:"background" yaml:"background"`
	FogColor       string  `koanf:"fog_color" yaml:"fog_color"`
	FogNear        float32 `koanf:"fog_near" yaml:"fog_near"`
	FogFar         float32 `koanf:"fog_far" yaml:"fog_far"`
}

type ScrollConfig struct {
	Threshold float64 `koanf:"threshold" yaml:"threshold"`
	// Cooldown is in seconds.
	Cooldown   float64 `koanf:"cooldown" yaml:"cooldown"`
	WheelScale float32 `koanf:"wheel_scale" yaml:"wheel_scale"`
	Enabled    bool    `koanf:"enabled" yaml:"enabled"`
}

type LightingConfig struct {
	Intensity float32 `koanf:"intensity" yaml:"intensity"`
	Dynamic   bool    `koanf:"dynamic" yaml:"dynamic"`
}

type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

type Config struct {
	Window   gallery.WindowConfig `koanf:"window" yaml:"window"`
	Assets   AssetsConfig         `koanf:"assets" yaml:"assets"`
	Scene    SceneConfig          `koanf:"scene" yaml:"scene"`
	Scroll   ScrollConfig         `koanf:"scroll" yaml:"scroll"`
	Lighting LightingConfig       `koanf:"lighting" yaml:"lighting"`
	Post     postfx.Params        `koanf:"post" yaml:"post"`
	Log      LogConfig            `koanf:"log" yaml:"log"`
	Panels   []world.PanelRecord  `koanf:"panels" yaml:"panels"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: gallery.WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "Paper Gallery",
			TargetFPS: 120,
			HighDPI:   true,
		},
		Assets: AssetsConfig{
			Root:      "assets",
			Workers:   4,
			NormalMap: "images/paperNormal.png",
			EnvMap: [6]string{
				"images/posx.jpg", "images/negx.jpg",
				"images/posy.jpg", "images/negy.jpg",
				"images/posz.jpg", "images/negz.jpg",
			},
		},
		Scene: SceneConfig{
			ParticleCount:  7000,
			ParticleSpread: 60,
			Seed:           1,
			Background:     "#142029",
			FogColor:       "#1a1a1a",
			FogNear:        10,
			FogFar:         50,
		},
		Scroll: ScrollConfig{
			Threshold:  100,
			Cooldown:   2,
			WheelScale: gallery.DefaultWheelScale,
			Enabled:    true,
		},
		Lighting: LightingConfig{
			Intensity: 1,
			Dynamic:   true,
		},
		Post: postfx.DefaultParams(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPanels is the built-in collection used when no panels are
// configured.
func DefaultPanels() []world.PanelRecord {
	layout := [][2]rl.Vector3{
		{{X: -8, Y: 5, Z: -12}, {X: 0.2, Y: -0.8, Z: 0.3}},
		{{X: 12, Y: 2, Z: -20}, {X: -0.1, Y: 1.2, Z: -0.4}},
		{{X: -15, Y: -8, Z: -5}, {X: 0.4, Y: -1.5, Z: 0.6}},
		{{X: 18, Y: -12, Z: -25}, {X: -0.3, Y: 0.9, Z: -0.2}},
		{{X: -22, Y: -15, Z: -8}, {X: 0.5, Y: -2.1, Z: 0.8}},
		{{X: 6, Y: 18, Z: -15}, {X: -0.6, Y: 0.4, Z: 0.7}},
		{{X: -10, Y: 12, Z: -30}, {X: 0.8, Y: -0.7, Z: -0.5}},
		{{X: 25, Y: 8, Z: -18}, {X: 0.1, Y: 1.8, Z: 0.4}},
		{{X: -18, Y: 22, Z: -22}, {X: -0.4, Y: -1.2, Z: 0.9}},
		{{X: 14, Y: -20, Z: -10}, {X: 0.7, Y: 0.6, Z: -0.8}},
		{{X: -28, Y: 4, Z: -35}, {X: -0.2, Y: -2.5, Z: 0.3}},
		{{X: 8, Y: -8, Z: -28}, {X: 0.6, Y: 1.4, Z: 0.2}},
		{{X: -12, Y: -25, Z: -14}, {X: -0.8, Y: -0.9, Z: -0.6}},
		{{X: 20, Y: 15, Z: -40}, {X: 0.3, Y: 2.2, Z: -0.7}},
		{{X: -35, Y: -18, Z: -32}, {X: 0.9, Y: -1.8, Z: 1.1}},
	}
	out := make([]world.PanelRecord, len(layout))
	for i, l := range layout {
		n := i + 1
		out[i] = world.PanelRecord{
			ID:          n,
			Title:       fmt.Sprintf("Paper %d", n),
			Description: fmt.Sprintf("Description for paper %d.", n),
			Image:       fmt.Sprintf("images/image%d.jpg", n),
			Position:    l[0],
			Rotation:    l[1],
		}
	}
	return out
}

// Load reads path over the defaults, then applies environment overrides. A
// missing file is not an error; an empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if len(cfg.Panels) == 0 {
		cfg.Panels = DefaultPanels()
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

var validLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Scroll.Threshold <= 0 {
		return fmt.Errorf("scroll.threshold must be positive")
	}
	if c.Scroll.Cooldown < 0 {
		return fmt.Errorf("scroll.cooldown must be non-negative")
	}
	if c.Scroll.WheelScale <= 0 {
		return fmt.Errorf("scroll.wheel_scale must be positive")
	}
	if c.Lighting.Intensity < 0 {
		return fmt.Errorf("lighting.intensity must be non-negative")
	}
	if c.Scene.ParticleCount < 0 {
		return fmt.Errorf("scene.particle_count must be non-negative")
	}
	if c.Scene.FogFar <= c.Scene.FogNear {
		return fmt.Errorf("scene.fog_far must be greater than scene.fog_near")
	}
	if _, err := ParseColor(c.Scene.Background); err != nil {
		return fmt.Errorf("scene.background: %w", err)
	}
	if _, err := ParseColor(c.Scene.FogColor); err != nil {
		return fmt.Errorf("scene.fog_color: %w", err)
	}
	if c.Post.Bloom.Radius < 0 || c.Post.Bloom.Strength < 0 {
		return fmt.Errorf("post.bloom values must be non-negative")
	}
	if c.Post.DOF.Aperture < 0 || c.Post.DOF.MaxBlur < 0 {
		return fmt.Errorf("post.dof values must be non-negative")
	}
	if _, ok := validLevels[strings.ToLower(c.Log.Level)]; !ok {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}

	seen := make(map[int]bool, len(c.Panels))
	for i, p := range c.Panels {
		if p.Image == "" {
			return fmt.Errorf("panels[%d]: image is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("panels[%d]: duplicate id %d", i, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// ParseColor accepts "#rrggbb" or "0xrrggbb".
func ParseColor(s string) (rl.Color, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	if len(hex) != 6 {
		return rl.Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rl.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return components.HexColor(uint32(v)), nil
}

// Resolve joins a relative asset path to the asset root.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Assets.Root, path)
}

// Records returns the panels with image paths resolved.
func (c *Config) Records() []world.PanelRecord {
	out := make([]world.PanelRecord, len(c.Panels))
	for i, p := range c.Panels {
		p.Image = c.Resolve(p.Image)
		out[i] = p
	}
	return out
}

// WorldSettings converts the scene and asset sections. Call Validate first;
// unparsable colors fall back to the defaults.
func (c *Config) WorldSettings() world.Settings {
	s := world.DefaultSettings()
	s.NormalMap = c.Resolve(c.Assets.NormalMap)
	if c.Assets.EnvMap[0] != "" {
		for i, face := range c.Assets.EnvMap {
			s.EnvMap[i] = c.Resolve(face)
		}
	}
	s.ParticleCount = c.Scene.ParticleCount
	s.ParticleSpread = c.Scene.ParticleSpread
	s.Seed = c.Scene.Seed
	if col, err := ParseColor(c.Scene.Background); err == nil {
		s.Background = col
	}
	if col, err := ParseColor(c.Scene.FogColor); err == nil {
		s.FogColor = col
	}
	s.FogNear = c.Scene.FogNear
	s.FogFar = c.Scene.FogFar
	return s
}

func (c *Config) ScrollCooldown() time.Duration {
	return time.Duration(c.Scroll.Cooldown * float64(time.Second))
}

// NewLogger builds the slog logger described by the log section. verbose
// forces debug level.
func (c *Config) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level, ok := validLevels[strings.ToLower(c.Log.Level)]
	if !ok {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.Log.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}
