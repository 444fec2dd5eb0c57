package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/asciiforge/internal/config"
)

func parse(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	registerFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(parse(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != config.DefaultFPS || cfg.Engine.Width != config.DefaultWidth {
		t.Errorf("unexpected defaults: fps=%d width=%d", cfg.FPS, cfg.Engine.Width)
	}
}

func TestLoadConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("fps: 30\ntheme: ocean\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(parse(t, "--config", path, "--preset", "narrow", "--width", "90", "--no-audio"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != 30 {
		t.Errorf("fps from file lost: %d", cfg.FPS)
	}
	if cfg.Theme != "retro" {
		t.Errorf("preset should override file theme, got %s", cfg.Theme)
	}
	if cfg.Engine.Width != 90 {
		t.Errorf("flag should override preset width, got %d", cfg.Engine.Width)
	}
	if cfg.Audio.Enabled {
		t.Error("--no-audio ignored")
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown preset", []string{"--preset", "nope"}},
		{"bad fps", []string{"--fps", "0"}},
		{"missing file", []string{"--config", "/does/not/exist.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(parse(t, tt.args...)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
