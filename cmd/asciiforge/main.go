package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/asciiforge/internal/audio"
	"github.com/san-kum/asciiforge/internal/config"
	"github.com/san-kum/asciiforge/internal/engine"
	"github.com/san-kum/asciiforge/internal/gui"
	"github.com/san-kum/asciiforge/internal/intake"
	"github.com/san-kum/asciiforge/internal/logger"
	"github.com/san-kum/asciiforge/internal/storage"
	"github.com/san-kum/asciiforge/internal/viz"
)

var (
	configFile string
	dataDir    string
	preset     string
	theme      string
	verbose    bool
	muted      bool
	noAudio    bool
	fps        int
	width      int
	seed       int64
	// convert
	saveResult bool
	svgPath    string
	// bench
	benchFrames int
)

// main registers the commands and flags, runs the TUI when no subcommand
// is given and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "asciiforge [image]",
		Short: "turn images into ascii art",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial := ""
			if len(args) > 0 {
				initial = args[0]
			}
			return runTUI(cmd, initial, "")
		},
		SilenceUsage: true,
	}

	registerFlags(rootCmd)

	convertCmd := &cobra.Command{
		Use:   "convert [image]",
		Short: "convert an image and print the art",
		Args:  cobra.ExactArgs(1),
		RunE:  convertImage,
	}
	convertCmd.Flags().BoolVar(&saveResult, "save", false, "save the result to history")
	convertCmd.Flags().StringVar(&svgPath, "svg", "", "also write the art as svg")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved conversions",
		RunE:  listHistory,
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "print a saved conversion",
		Args:  cobra.ExactArgs(1),
		RunE:  showHistory,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "run the TUI fed by a drop directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			return runTUI(cmd, "", dir)
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui [image]",
		Short: "open the desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the particle field",
		RunE:  benchField,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 600, "frames to simulate")

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list color themes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range viz.ThemeNames() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(convertCmd, listCmd, showCmd, watchCmd, guiCmd, benchCmd, themesCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func registerFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&muted, "muted", false, "start with the soundtrack muted")
	pf.BoolVar(&noAudio, "no-audio", false, "disable the soundtrack")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "animation frame rate")
	pf.IntVar(&width, "width", config.DefaultWidth, "ascii art columns")
	pf.Int64Var(&seed, "seed", 1, "particle field seed")
}

// loadConfig layers defaults, config file, preset and changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		apply, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		apply(cfg)
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("width") {
		cfg.Engine.Width = width
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("muted") {
		cfg.Audio.StartMuted = muted
	}
	if noAudio {
		cfg.Audio.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loaderFor(cfg *config.Config) engine.Loader {
	opts := engine.DefaultOptions()
	opts.Width = cfg.Engine.Width
	opts.Aspect = cfg.Engine.Aspect
	if cfg.Engine.Ramp != "" {
		opts.Ramp = cfg.Engine.Ramp
	}
	return engine.GlyphLoader{Options: opts}
}

func audioFor(cfg *config.Config, log *logger.Logger) *audio.Control {
	if !cfg.Audio.Enabled {
		return audio.NewControl(nil, true, log)
	}
	var player audio.Player = audio.NewPad()
	if cfg.Audio.Music != "" {
		player = audio.NewMusic(cfg.Audio.Music)
	}
	return audio.NewControl(player, cfg.Audio.StartMuted, log)
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, initial, dropDir string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New("asciiforge", verbose)
	logFile, err := tea.LogToFile(cfg.LogFile, "asciiforge")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}

	if dropDir == "" {
		dropDir = cfg.DropDir
	}
	var drop *intake.DropDir
	if dropDir != "" {
		if drop, err = intake.NewDropDir(dropDir, log.WithComponent("drop")); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	m := viz.New(ctx, viz.Options{
		Config:  cfg,
		Loader:  loaderFor(cfg),
		Audio:   audioFor(cfg, log.WithComponent("audio")),
		Store:   st,
		Log:     log,
		Initial: initial,
		DropDir: dropDir,
	})
	return viz.Run(ctx, m, drop)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New("asciiforge", verbose)
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	initial := ""
	if len(args) > 0 {
		initial = args[0]
	}

	ctx, cancel := signalContext()
	defer cancel()

	gui.Run(ctx, gui.Options{
		Config:  cfg,
		Loader:  loaderFor(cfg),
		Audio:   audioFor(cfg, log.WithComponent("audio")),
		Store:   st,
		Log:     log,
		Initial: initial,
	})
	return nil
}
