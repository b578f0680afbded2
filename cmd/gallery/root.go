package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"papergallery/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gallery",
	Short: "3D paper gallery",
	Long: `Gallery shows a collection of images as floating paper panels in a
lit 3D scene. Scroll to move focus between papers, Escape to return to
the overview.`,
	SilenceUsage:      true,
	PersistentPreRunE: enterInstallDir,
	RunE:              runGallery,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "gallery.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.AddCommand(runCmd, checkCmd, configCmd)
}

// enterInstallDir changes to the executable's directory so relative asset
// paths work for deployed builds. The config path is made absolute first.
// "go run" builds into a go-build temp directory and is left alone.
func enterInstallDir(cmd *cobra.Command, args []string) error {
	if abs, err := filepath.Abs(cfgFile); err == nil {
		cfgFile = abs
	}
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			if _, err := os.Stat(filepath.Join(execDir, "assets")); err == nil {
				os.Chdir(execDir)
			}
		}
	}
	return nil
}

// loadConfig reads and validates the config and builds the logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log := cfg.NewLogger(os.Stderr, verbose)
	slog.SetDefault(log)
	return cfg, log, nil
}
