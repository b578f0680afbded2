package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"papergallery/internal/assets"
	"papergallery/internal/config"
	"papergallery/internal/gallery"
	"papergallery/internal/overlay"
	"papergallery/internal/world"

	"github.com/spf13/cobra"
)

var watchConfig bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the gallery window",
	RunE:  runGallery,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().BoolVar(&watchConfig, "watch", true, "reload scroll, lighting and post settings when the config file changes")
	}
}

func runGallery(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newController(cfg, log)
	c.OnFocusChange.AddListener(func(rec *world.PanelRecord) {
		if rec == nil {
			log.Debug("focus changed", "view", "general")
			return
		}
		log.Debug("focus changed", "id", rec.ID, "title", rec.Title)
	})

	app := gallery.NewApp(cfg.Window, c, cfg.Records())
	ov := overlay.New()
	ov.Attach(c)
	defer ov.Detach()
	app.Overlay = ov
	app.OnStart = func(c *gallery.Controller) {
		if !cfg.Lighting.Dynamic {
			c.ToggleDynamicLighting()
		}
		if !cfg.Scroll.Enabled {
			c.DisableScrollNavigation()
		}
	}

	if watchConfig {
		updates, err := config.Watch(ctx, cfgFile, log)
		if err != nil {
			log.Warn("config reload disabled", "err", err)
		} else {
			go forwardTuning(ctx, updates, app.Apply)
		}
	}

	log.Info("starting gallery", "panels", len(cfg.Panels), "config", cfgFile)
	return app.Run(ctx)
}

func newController(cfg *config.Config, log *slog.Logger) *gallery.Controller {
	return gallery.New(
		gallery.WithLogger(log),
		gallery.WithSettings(cfg.WorldSettings()),
		gallery.WithParams(cfg.Post),
		gallery.WithScroll(cfg.Scroll.Threshold, cfg.ScrollCooldown()),
		gallery.WithWheelScale(cfg.Scroll.WheelScale),
		gallery.WithLightingIntensity(cfg.Lighting.Intensity),
		gallery.WithLoader(func(log *slog.Logger) gallery.AssetLoader {
			return assets.NewLoader(assets.GPUUploader{},
				assets.WithLogger(log),
				assets.WithWorkers(cfg.Assets.Workers),
			)
		}),
	)
}

// forwardTuning hands reloaded configs to the render thread.
func forwardTuning(ctx context.Context, updates <-chan *config.Config, apply chan<- func(*gallery.Controller)) {
	for cfg := range updates {
		select {
		case apply <- func(c *gallery.Controller) { cfg.ApplyTuning(c) }:
		case <-ctx.Done():
			return
		}
	}
}
