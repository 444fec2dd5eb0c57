package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTheme      = "emerald"
	DefaultFPS        = 60
	DefaultRevealMs   = 1000
	DefaultDensity    = 25000.0
	DefaultInfluence  = 150.0
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
	DefaultWidth      = 120
	DefaultAspect     = 0.55
	DefaultDataDir    = ".asciiforge"
	DefaultLogFile    = "asciiforge.log"
)

type Config struct {
	Theme   string       `yaml:"theme"`
	FPS     int          `yaml:"fps"`
	Seed    int64        `yaml:"seed"`
	DataDir string       `yaml:"data_dir"`
	DropDir string       `yaml:"drop_dir"`
	LogFile string       `yaml:"log_file"`
	Reveal  RevealConfig `yaml:"reveal"`
	Field   FieldConfig  `yaml:"field"`
	Engine  EngineConfig `yaml:"engine"`
	Audio   AudioConfig  `yaml:"audio"`
}

type RevealConfig struct {
	DurationMs int `yaml:"duration_ms"`
}

// FieldConfig sizes the particle backdrop. Cell dimensions convert terminal
// cells to the virtual pixels the simulation runs in.
type FieldConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Density    float64 `yaml:"density"`
	Influence  float64 `yaml:"influence"`
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

type EngineConfig struct {
	Width  int     `yaml:"width"`
	Aspect float64 `yaml:"aspect"`
	Ramp   string  `yaml:"ramp"`
}

type AudioConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Music      string `yaml:"music"`
	StartMuted bool   `yaml:"start_muted"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme:   DefaultTheme,
		FPS:     DefaultFPS,
		Seed:    1,
		DataDir: DefaultDataDir,
		LogFile: DefaultLogFile,
		Reveal:  RevealConfig{DurationMs: DefaultRevealMs},
		Field: FieldConfig{
			Enabled:    true,
			Density:    DefaultDensity,
			Influence:  DefaultInfluence,
			CellWidth:  DefaultCellWidth,
			CellHeight: DefaultCellHeight,
		},
		Engine: EngineConfig{
			Width:  DefaultWidth,
			Aspect: DefaultAspect,
		},
		Audio: AudioConfig{Enabled: true},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.FPS <= 0 || c.FPS > 240 {
		return fmt.Errorf("fps must be in (0, 240], got %d", c.FPS)
	}
	if c.Reveal.DurationMs < 0 {
		return fmt.Errorf("reveal duration must not be negative, got %d", c.Reveal.DurationMs)
	}
	if c.Field.Density <= 0 {
		return fmt.Errorf("field density must be positive, got %g", c.Field.Density)
	}
	if c.Field.Influence < 0 {
		return fmt.Errorf("field influence must not be negative, got %g", c.Field.Influence)
	}
	if c.Field.CellWidth <= 0 || c.Field.CellHeight <= 0 {
		return fmt.Errorf("cell size must be positive, got %gx%g", c.Field.CellWidth, c.Field.CellHeight)
	}
	if c.Engine.Width <= 0 {
		return fmt.Errorf("engine width must be positive, got %d", c.Engine.Width)
	}
	if c.Engine.Aspect <= 0 {
		return fmt.Errorf("engine aspect must be positive, got %g", c.Engine.Aspect)
	}
	return nil
}
