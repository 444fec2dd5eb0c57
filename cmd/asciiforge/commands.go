package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/asciiforge/internal/engine"
	"github.com/san-kum/asciiforge/internal/export"
	"github.com/san-kum/asciiforge/internal/field"
	"github.com/san-kum/asciiforge/internal/flow"
	"github.com/san-kum/asciiforge/internal/intake"
	"github.com/san-kum/asciiforge/internal/logger"
)

// convertImage runs one conversion headless through the same controller
// the frontends use and prints the art.
func convertImage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New("convert", verbose)
	ctx, cancel := signalContext()
	defer cancel()

	ctrl := flow.New(log)
	e, err := loaderFor(cfg).Load(ctx)
	if err != nil {
		ctrl.EngineFailed(err)
		return failure(ctrl)
	}
	ctrl.EngineReady()

	f, err := intake.FromPath(args[0])
	if err != nil {
		ctrl.IntakeFailed(err)
		return failure(ctrl)
	}
	if v := ctrl.Select(f); v.State == flow.Failed {
		return failure(ctrl)
	}
	job, _, ok := ctrl.Confirm()
	if !ok {
		return failure(ctrl)
	}

	data, err := intake.Read(ctx, job.File)
	if err != nil {
		ctrl.ReadFailed(job, err)
		return failure(ctrl)
	}
	start := time.Now()
	text, err := engine.Run(e, data)
	if v := ctrl.Complete(job, text, err); v.State == flow.Failed {
		return failure(ctrl)
	}
	log.Debug("converted", logger.F("file", f.Name), logger.Duration(time.Since(start)))

	fmt.Println(text)

	if saveResult {
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		id, err := st.Save(f.Name, f.Type, text)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved as %s\n", id)
	}
	if svgPath != "" {
		if err := export.WriteSVG(svgPath, text, export.DefaultSVGOptions()); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", svgPath)
	}
	return nil
}

// failure is the controller's error, never a typed nil.
func failure(ctrl *flow.Controller) error {
	if e := ctrl.Err(); e != nil {
		return e
	}
	return fmt.Errorf("conversion stopped in state %s", ctrl.State())
}

func listHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	records, err := st.List()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("no conversions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTYPE\tTIME\tSIZE")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\n",
			r.ID,
			r.Source,
			r.Type,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Columns,
			r.Lines,
		)
	}
	return w.Flush()
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	if verbose {
		rec, err := st.Load(args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stderr)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	art, err := st.LoadArt(args[0])
	if err != nil {
		return err
	}
	fmt.Print(art)
	return nil
}

// countingSurface tallies draw calls instead of painting.
type countingSurface struct {
	dots, streaks int
}

func (c *countingSurface) Clear() { c.dots, c.streaks = 0, 0 }

func (c *countingSurface) Dot(x, y, radius, opacity float64) { c.dots++ }

func (c *countingSurface) Streak(hx, hy, tx, ty, opacity float64) { c.streaks++ }

func benchField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if benchFrames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", benchFrames)
	}

	sizes := [][2]float64{{800, 600}, {1280, 720}, {1920, 1080}, {3840, 2160}}
	opts := field.Options{Density: cfg.Field.Density, Influence: cfg.Field.Influence, Seed: cfg.Seed}
	frameTime := 1.0 / float64(cfg.FPS)

	fmt.Printf("benchmarking particle field, %d frames\n\n", benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tPARTICLES\tSTAR FRAMES\tTIME\tFRAMES/SEC")

	var costs []float64
	for i, size := range sizes {
		f := field.New(size[0], size[1], opts)
		var surf countingSurface
		star := 0
		frameCosts := make([]float64, 0, benchFrames)

		start := time.Now()
		for n := 1; n <= benchFrames; n++ {
			t0 := time.Now()
			f.Frame(float64(n)*frameTime, &surf)
			frameCosts = append(frameCosts, float64(time.Since(t0).Microseconds()))
			if surf.streaks > 0 {
				star++
			}
		}
		elapsed := time.Since(start)
		if i == 1 {
			costs = frameCosts
		}

		fmt.Fprintf(w, "%.0fx%.0f\t%d\t%d\t%v\t%.0f\n",
			size[0], size[1], len(f.Particles()), star, elapsed, float64(benchFrames)/elapsed.Seconds())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(costs,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("frame cost (µs) at 1280x720"),
	))
	return nil
}

var _ field.Surface = (*countingSurface)(nil)
