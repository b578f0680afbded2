package main

import (
	"fmt"
	"os"

	"papergallery/internal/assets"
	"papergallery/internal/config"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Decode every configured image without opening a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		paths := checkPaths(cfg)
		bar := progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Checking images"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)

		failed := 0
		err = assets.Verify(cmd.Context(), paths, cfg.Assets.Workers, func(path string, err error) {
			if err != nil {
				failed++
				log.Error("image check failed", "path", path, "err", err)
			}
			_ = bar.Add(1)
		})
		_ = bar.Finish()

		if err != nil {
			return fmt.Errorf("%d of %d images failed", failed, len(paths))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d images ok\n", len(paths))
		return nil
	},
}

// checkPaths lists every file the gallery loads: panel images, then the
// normal map and cubemap faces.
func checkPaths(cfg *config.Config) []string {
	var paths []string
	for _, rec := range cfg.Records() {
		paths = append(paths, rec.Image)
	}
	s := cfg.WorldSettings()
	if s.NormalMap != "" {
		paths = append(paths, s.NormalMap)
	}
	for _, face := range s.EnvMap {
		if face != "" {
			paths = append(paths, face)
		}
	}
	return paths
}
