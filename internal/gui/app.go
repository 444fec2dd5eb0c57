// Package gui is the windowed frontend: the particle field is painted with
// raylib at native resolution and files are dropped straight onto the
// window.
package gui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/asciiforge/internal/audio"
	"github.com/san-kum/asciiforge/internal/config"
	"github.com/san-kum/asciiforge/internal/engine"
	"github.com/san-kum/asciiforge/internal/export"
	"github.com/san-kum/asciiforge/internal/field"
	"github.com/san-kum/asciiforge/internal/flow"
	"github.com/san-kum/asciiforge/internal/intake"
	"github.com/san-kum/asciiforge/internal/logger"
	"github.com/san-kum/asciiforge/internal/reveal"
	"github.com/san-kum/asciiforge/internal/storage"
)

const (
	winW, winH   = 1280, 720
	convertDelay = 100 * time.Millisecond
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

// Theme Colors
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(100, 230, 190, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPanel   = rl.NewColor(16, 20, 19, 230)
	ColError   = rl.NewColor(255, 95, 109, 255)
)

type Options struct {
	Config  *config.Config
	Loader  engine.Loader
	Audio   *audio.Control
	Store   *storage.Store
	Log     *logger.Logger
	Initial string
}

type App struct {
	cfg  *config.Config
	opts Options
	log  *logger.Logger
	ctx  context.Context

	Ctrl  *flow.Controller
	Seq   *reveal.Sequencer
	Field *field.Field
	Audio *audio.Control
	Font  rl.Font

	eng    engine.Engine
	events chan func()
	start  time.Time

	ticket     reveal.Ticket
	revealNext time.Time
	revealStep time.Duration

	status string
	quit   bool
}

// initWindow opens a resizable window and disables the default exit key.
func initWindow() {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(winW, winH, "asciiforge")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to raylib's built-in font.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(ctx context.Context, opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Log
	if log == nil {
		log = logger.Discard()
	}
	ctl := opts.Audio
	if ctl == nil {
		ctl = audio.NewControl(nil, cfg.Audio.StartMuted, log)
	}
	fo := field.Options{Density: cfg.Field.Density, Influence: cfg.Field.Influence, Seed: cfg.Seed}
	return &App{
		cfg:    cfg,
		opts:   opts,
		log:    log,
		ctx:    ctx,
		Ctrl:   flow.New(log.WithComponent("flow")),
		Seq:    reveal.New(time.Duration(cfg.Reveal.DurationMs) * time.Millisecond),
		Field:  field.New(winW, winH, fo),
		Audio:  ctl,
		events: make(chan func(), 16),
		start:  time.Now(),
	}
}

// Run opens the window and blocks until it is closed.
func Run(ctx context.Context, opts Options) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(ctx, opts)
	app.Font = loadFont()
	app.LoadEngine()
	app.RunLoop()
	app.Audio.Close()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

// post hands work from a goroutine back to the render loop.
func (a *App) post(fn func()) {
	select {
	case a.events <- fn:
	case <-a.ctx.Done():
	}
}

// Drain runs queued callbacks from finished background work.
func (a *App) Drain() {
	for {
		select {
		case fn := <-a.events:
			fn()
		default:
			return
		}
	}
}

func (a *App) LoadEngine() {
	loader := a.opts.Loader
	go func() {
		if loader == nil {
			a.post(func() { a.Ctrl.EngineFailed(engine.ErrUnavailable) })
			return
		}
		e, err := loader.Load(a.ctx)
		a.post(func() {
			if err != nil {
				a.Ctrl.EngineFailed(err)
				return
			}
			a.eng = e
			a.Ctrl.EngineReady()
			if a.opts.Initial != "" {
				a.SelectPath(a.opts.Initial)
				a.opts.Initial = ""
			}
		})
	}()
}

func (a *App) SelectPath(path string) {
	f, err := intake.FromPath(path)
	if err != nil {
		a.Ctrl.IntakeFailed(err)
		return
	}
	a.Ctrl.Select(f)
}

// Convert confirms the selection and runs read, delay and conversion off
// the render loop.
func (a *App) Convert() {
	job, _, ok := a.Ctrl.Confirm()
	if !ok {
		return
	}
	e := a.eng
	go func() {
		data, err := intake.Read(a.ctx, job.File)
		if err != nil {
			a.post(func() { a.Ctrl.ReadFailed(job, err) })
			return
		}
		time.Sleep(convertDelay)
		text, err := engine.Run(e, data)
		a.post(func() { a.complete(job, text, err) })
	}()
}

func (a *App) complete(job flow.Job, text string, err error) {
	fresh := a.Ctrl.Pending(job)
	v := a.Ctrl.Complete(job, text, err)
	if fresh && v.State == flow.Success {
		a.ticket, a.revealStep = a.Seq.Start(v.Art)
		a.revealNext = time.Now().Add(a.revealStep)
	}
}

func (a *App) Reset() {
	a.Seq.Cancel()
	a.status = ""
	a.Ctrl.Reset()
}

// advanceReveal appends every line whose time has come.
func (a *App) advanceReveal(now time.Time) {
	for a.Seq.Running() && !now.Before(a.revealNext) {
		if _, done := a.Seq.Advance(a.ticket); done {
			return
		}
		a.revealNext = a.revealNext.Add(a.revealStep)
	}
}

func (a *App) Update() {
	a.Drain()

	if rl.IsWindowResized() {
		a.Field.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	}

	mouse := rl.GetMousePosition()
	a.Field.SetPointer(float64(mouse.X), float64(mouse.Y))

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		a.Audio.Gesture()
		if rl.CheckCollisionPointRec(mouse, a.muteRect()) {
			a.Audio.Toggle()
		}
	}

	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		rl.UnloadDroppedFiles()
		if len(files) > 0 {
			a.SelectPath(files[0])
		}
	}

	if key := rl.GetKeyPressed(); key != 0 {
		a.Audio.Gesture()
		a.handleKey(key)
	}

	a.advanceReveal(time.Now())
}

func (a *App) handleKey(key int32) {
	switch key {
	case rl.KeyQ:
		a.quit = true
		return
	case rl.KeyM:
		a.Audio.Toggle()
		return
	}

	switch a.Ctrl.State() {
	case flow.FileSelected:
		switch key {
		case rl.KeyEnter, rl.KeyC:
			a.Convert()
		case rl.KeyX, rl.KeyBackspace, rl.KeyDelete, rl.KeyEscape:
			a.Reset()
		}
	case flow.Processing:
		if key == rl.KeyEscape {
			a.Reset()
		}
	case flow.Success:
		switch key {
		case rl.KeyR, rl.KeyEscape, rl.KeyEnter:
			a.Reset()
		case rl.KeyS:
			a.save()
		case rl.KeyE:
			a.export()
		}
	case flow.Failed:
		switch key {
		case rl.KeyEnter, rl.KeyEscape:
			a.Reset()
		}
	}
}

func (a *App) save() {
	if a.opts.Store == nil {
		a.status = "history is disabled"
		return
	}
	f, _ := a.Ctrl.File()
	id, err := a.opts.Store.Save(f.Name, f.Type, a.Ctrl.Result())
	if err != nil {
		a.log.Error("save failed", logger.Err(err))
		a.status = "save failed"
		return
	}
	a.status = "saved as " + id
}

func (a *App) export() {
	f, _ := a.Ctrl.File()
	dir := filepath.Join(a.cfg.DataDir, "exports")
	if err := os.MkdirAll(dir, 0755); err != nil {
		a.status = "export failed"
		return
	}
	path := filepath.Join(dir, strings.TrimSuffix(f.Name, filepath.Ext(f.Name))+".svg")
	if err := export.WriteSVG(path, a.Ctrl.Result(), export.DefaultSVGOptions()); err != nil {
		a.log.Error("export failed", logger.Err(err))
		a.status = "export failed"
		return
	}
	a.status = "exported " + path
}

func (a *App) muteRect() rl.Rectangle {
	return rl.NewRectangle(float32(rl.GetScreenWidth()-70), 20, 50, 40)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.cfg.Field.Enabled {
		a.Field.Frame(time.Since(a.start).Seconds(), surface{color: ColAccent})
	}
	a.drawPanel()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("ASCII FORGE", 30, 30, 24, ColAccent)

	icon := "ON"
	if a.Audio.Muted() {
		icon = "OFF"
	}
	r := a.muteRect()
	rl.DrawRectangleLinesEx(r, 1, ColTextDim)
	a.drawText(icon, int(r.X)+8, int(r.Y)+12, 16, ColText)

	h := rl.GetScreenHeight()
	a.drawText(a.hints(), 30, h-40, 14, ColTextDim)
	if a.status != "" {
		a.drawText(a.status, 30, h-64, 14, ColText)
	}
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), rl.GetScreenWidth()-90, h-40, 14, ColTextDim)
}

func (a *App) hints() string {
	switch a.Ctrl.State() {
	case flow.Ready:
		return "DROP AN IMAGE ONTO THE WINDOW  [M] MUTE  [Q] QUIT"
	case flow.FileSelected:
		return "[ENTER] CONVERT  [X] REMOVE  [Q] QUIT"
	case flow.Processing:
		return "[ESC] ABANDON"
	case flow.Success:
		return "[S] SAVE  [E] SVG  [R] AGAIN  [Q] QUIT"
	case flow.Failed:
		return "[ENTER] OK"
	}
	return "[Q] QUIT"
}

func (a *App) drawPanel() {
	v := a.Ctrl.View()
	sw, sh := rl.GetScreenWidth(), rl.GetScreenHeight()

	var lines []string
	color := ColSelect
	size := 20
	switch v.Panel {
	case flow.PanelIntake:
		switch v.State {
		case flow.Loading:
			lines = []string{"warming up the engine" + strings.Repeat(".", int(time.Since(a.start).Seconds()*2)%4)}
		case flow.Ready:
			lines = []string{"drop an image here"}
		case flow.FileSelected:
			lines = []string{v.FileName, "ready to convert"}
		case flow.Processing:
			lines = []string{"converting" + strings.Repeat(".", int(time.Since(a.start).Seconds()*4)%4)}
		}
	case flow.PanelResult:
		lines = strings.Split(strings.TrimSuffix(a.Seq.Text(), "\n"), "\n")
		color = ColAccent
		size = max(4, min(14, (sh-160)/max(len(strings.Split(a.Ctrl.Result(), "\n")), 1)))
	case flow.PanelError:
		lines = []string{v.Message}
		color = ColError
	}

	width := 0
	for _, l := range lines {
		w := int(rl.MeasureTextEx(a.Font, l, float32(size), 1).X)
		width = max(width, w)
	}
	pw, ph := width+60, len(lines)*(size+2)+40
	x, y := (sw-pw)/2, (sh-ph)/2
	rl.DrawRectangle(int32(x), int32(y), int32(pw), int32(ph), ColPanel)
	rl.DrawRectangleLines(int32(x), int32(y), int32(pw), int32(ph), ColTextDim)
	for i, l := range lines {
		a.drawText(l, x+30, y+20+i*(size+2), size, color)
	}
}
