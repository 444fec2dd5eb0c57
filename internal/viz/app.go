package viz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

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
	// ConvertDelay lets the processing panel paint before the engine runs.
	ConvertDelay = 100 * time.Millisecond

	frameHistory = 120
	meterBands   = 8
	title        = "ASCII FORGE"
)

type Options struct {
	Config *config.Config
	Loader engine.Loader
	Audio  *audio.Control
	Store  *storage.Store
	Log    *logger.Logger

	// Initial is selected as soon as the engine is ready.
	Initial string
	// DropDir is shown in the intake panel when a directory is watched.
	DropDir string
}

// Model is the Bubble Tea model of the terminal frontend.
type Model struct {
	ctx  context.Context
	cfg  *config.Config
	opts Options
	log  *logger.Logger

	ctrl   *flow.Controller
	seq    *reveal.Sequencer
	field  *field.Field
	canvas *Canvas
	audio  *audio.Control
	eng    engine.Engine

	theme   Theme
	styles  Styles
	palette Palette

	width, height int
	start         time.Time
	frame         int
	frameTimes    []float64
	pointer       Spotlight

	revealEvery time.Duration

	pending   string
	prompting bool
	input     string
	scroll    int
	status    string
	showStats bool
}

func New(ctx context.Context, opts Options) Model {
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
	th := GetTheme(cfg.Theme)
	return Model{
		ctx:        ctx,
		cfg:        cfg,
		opts:       opts,
		log:        log,
		ctrl:       flow.New(log.WithComponent("flow")),
		seq:        reveal.New(time.Duration(cfg.Reveal.DurationMs) * time.Millisecond),
		audio:      ctl,
		theme:      th,
		styles:     NewStyles(th),
		palette:    NewPalette(th),
		start:      time.Now(),
		frameTimes: make([]float64, 0, frameHistory),
		pending:    opts.Initial,
	}
}

func (m Model) frameInterval() time.Duration {
	fps := m.cfg.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg { return FrameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadEngine(), m.tick())
}

func (m Model) loadEngine() tea.Cmd {
	loader := m.opts.Loader
	ctx := m.ctx
	return func() tea.Msg {
		if loader == nil {
			return engineFailedMsg{err: engine.ErrUnavailable}
		}
		e, err := loader.Load(ctx)
		if err != nil {
			return engineFailedMsg{err: err}
		}
		return engineLoadedMsg{engine: e}
	}
}

func (m Model) readFile(job flow.Job) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		data, err := intake.Read(ctx, job.File)
		if err != nil {
			return readFailedMsg{job: job, err: err}
		}
		return fileReadMsg{job: job, data: data}
	}
}

func (m Model) convert(job flow.Job, data []byte) tea.Cmd {
	e := m.eng
	return func() tea.Msg {
		text, err := engine.Run(e, data)
		return convertedMsg{job: job, text: text, err: err}
	}
}

func revealTick(t reveal.Ticket, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return revealMsg{ticket: t} })
}

// Update handles input events, async results and animation frames.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case FrameMsg:
		m.step(time.Time(msg))
		return m, m.tick()
	case tea.MouseMsg:
		m.pointTo(msg.X, msg.Y)
		if msg.Action == tea.MouseActionPress {
			m.audio.Gesture()
		}
	case tea.KeyMsg:
		m.audio.Gesture()
		return m.handleKey(msg)
	case DropMsg:
		m.selectPath(msg.Path)
	case engineLoadedMsg:
		m.eng = msg.engine
		m.ctrl.EngineReady()
		m.log.Info("engine ready")
		if m.pending != "" {
			m.selectPath(m.pending)
			m.pending = ""
		}
	case engineFailedMsg:
		m.ctrl.EngineFailed(msg.err)
	case fileReadMsg:
		if !m.ctrl.Pending(msg.job) {
			return m, nil
		}
		job, data := msg.job, msg.data
		return m, tea.Tick(ConvertDelay, func(time.Time) tea.Msg { return convertMsg{job: job, data: data} })
	case readFailedMsg:
		m.ctrl.ReadFailed(msg.job, msg.err)
	case convertMsg:
		if !m.ctrl.Pending(msg.job) {
			return m, nil
		}
		return m, m.convert(msg.job, msg.data)
	case convertedMsg:
		fresh := m.ctrl.Pending(msg.job)
		v := m.ctrl.Complete(msg.job, msg.text, msg.err)
		if fresh && v.State == flow.Success {
			m.scroll = 0
			t, d := m.seq.Start(v.Art)
			m.revealEvery = d
			return m, revealTick(t, d)
		}
	case revealMsg:
		if m.ctrl.State() != flow.Success {
			return m, nil
		}
		_, done := m.seq.Advance(msg.ticket)
		if !done {
			return m, revealTick(msg.ticket, m.revealEvery)
		}
	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.status = "saved as " + msg.id
		}
	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = "exported " + msg.path
		}
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	rows := max(h-2, 1)
	fc := m.cfg.Field
	m.canvas = NewCanvas(w, rows, fc.CellWidth, fc.CellHeight)
	pw, ph := float64(w)*fc.CellWidth, float64(rows)*fc.CellHeight
	if m.field == nil {
		m.field = field.New(pw, ph, field.Options{Density: fc.Density, Influence: fc.Influence, Seed: m.cfg.Seed})
	} else {
		m.field.Resize(pw, ph)
	}
}

func (m *Model) step(now time.Time) {
	m.frame++
	if m.canvas == nil {
		return
	}
	if !m.cfg.Field.Enabled {
		m.canvas.Clear()
		return
	}
	dt := m.field.Frame(now.Sub(m.start).Seconds(), m.canvas)
	if len(m.frameTimes) == frameHistory {
		m.frameTimes = m.frameTimes[1:]
	}
	m.frameTimes = append(m.frameTimes, dt*1000)
}

// pointTo moves the repelling pointer to the centre of a terminal cell.
func (m *Model) pointTo(col, row int) {
	row-- // header line
	m.pointer = Spotlight{Col: col, Row: row, RadiusX: 8, RadiusY: 4, On: true}
	if m.field == nil {
		return
	}
	fc := m.cfg.Field
	m.field.SetPointer((float64(col)+0.5)*fc.CellWidth, (float64(row)+0.5)*fc.CellHeight)
}

func (m *Model) selectPath(path string) {
	f, err := intake.FromPath(path)
	if err != nil {
		m.ctrl.IntakeFailed(err)
		return
	}
	m.ctrl.Select(f)
}

func (m *Model) reset() {
	m.seq.Cancel()
	m.scroll = 0
	m.status = ""
	m.ctrl.Reset()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.prompting {
		return m.promptKey(msg)
	}
	if msg.Paste {
		if path, ok := intake.First(string(msg.Runes)); ok {
			m.selectPath(path)
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "m":
		m.audio.Toggle()
		return m, nil
	case "t":
		m.setTheme(NextTheme(m.theme.Name))
		return m, nil
	case "?":
		m.showStats = !m.showStats
		return m, nil
	}

	switch m.ctrl.State() {
	case flow.Ready:
		switch msg.String() {
		case "o", "enter":
			m.prompting = true
			m.input = ""
		}
	case flow.FileSelected:
		switch msg.String() {
		case "enter", "c":
			if job, _, ok := m.ctrl.Confirm(); ok {
				return m, m.readFile(job)
			}
		case "x", "esc", "backspace", "delete":
			m.reset()
		case "o":
			m.prompting = true
			m.input = ""
		}
	case flow.Processing:
		if msg.String() == "esc" {
			m.reset()
		}
	case flow.Success:
		switch msg.String() {
		case "r", "x", "esc", "enter":
			m.reset()
		case "s":
			return m, m.save()
		case "e":
			return m, m.export()
		case "j", "down":
			m.scroll++
		case "k", "up":
			m.scroll = max(m.scroll-1, 0)
		}
	case flow.Failed:
		switch msg.String() {
		case "enter", "esc", "x", "r":
			m.reset()
		}
	}
	return m, nil
}

func (m Model) promptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.prompting = false
		if path, ok := intake.First(m.input); ok {
			m.selectPath(path)
		}
		m.input = ""
	case tea.KeyEsc:
		m.prompting = false
		m.input = ""
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) setTheme(th Theme) {
	m.theme = th
	m.styles = NewStyles(th)
	m.palette = NewPalette(th)
}

func (m Model) save() tea.Cmd {
	store := m.opts.Store
	f, _ := m.ctrl.File()
	art := m.ctrl.Result()
	return func() tea.Msg {
		if store == nil {
			return savedMsg{err: fmt.Errorf("history is disabled")}
		}
		id, err := store.Save(f.Name, f.Type, art)
		return savedMsg{id: id, err: err}
	}
}

func (m Model) export() tea.Cmd {
	f, _ := m.ctrl.File()
	art := m.ctrl.Result()
	dir := filepath.Join(m.cfg.DataDir, "exports")
	opts := export.DefaultSVGOptions()
	opts.Background = string(m.theme.Background)
	opts.Foreground = string(m.theme.Particle)
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return exportedMsg{err: err}
		}
		name := strings.TrimSuffix(f.Name, filepath.Ext(f.Name))
		if name == "" {
			name = "art"
		}
		path := filepath.Join(dir, name+".svg")
		return exportedMsg{path: path, err: export.WriteSVG(path, art, opts)}
	}
}

// View renders the header, the canvas with the panel over it and the footer.
func (m Model) View() string {
	if m.canvas == nil || m.width == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')

	panel := m.panel()
	lines := strings.Split(panel, "\n")
	pw := lipgloss.Width(panel)
	x0 := max((m.canvas.Width-pw)/2, 0)
	y0 := max((m.canvas.Height-len(lines))/2, 0)

	for row := 0; row < m.canvas.Height; row++ {
		i := row - y0
		if i >= 0 && i < len(lines) {
			line := lines[i]
			if w := lipgloss.Width(line); w < pw {
				line += strings.Repeat(" ", pw-w)
			}
			b.WriteString(m.canvas.RenderRange(row, 0, x0, &m.palette, m.pointer))
			b.WriteString(line)
			b.WriteString(m.canvas.RenderRange(row, x0+pw, m.canvas.Width, &m.palette, m.pointer))
		} else {
			b.WriteString(m.canvas.RenderRange(row, 0, m.canvas.Width, &m.palette, m.pointer))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) header() string {
	left := GradientText(title, m.theme.Primary, m.theme.Secondary)
	right := m.styles.Accent.Render(m.audio.Icon())
	if !m.audio.Muted() {
		right = m.styles.Success.Render(MeterBars(m.audio.Levels(meterBands))) + " " + right
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) footer() string {
	st := m.styles
	var hints string
	switch m.ctrl.State() {
	case flow.Ready:
		hints = st.KeyHints("o", "open", "m", "mute", "t", "theme", "q", "quit")
	case flow.FileSelected:
		hints = st.KeyHints("enter", "convert", "x", "remove", "o", "other file")
	case flow.Processing:
		hints = st.KeyHints("esc", "abandon")
	case flow.Success:
		hints = st.KeyHints("j/k", "scroll", "s", "save", "e", "svg", "r", "again")
	case flow.Failed:
		hints = st.KeyHints("enter", "ok")
	default:
		hints = st.KeyHints("q", "quit")
	}
	if m.status != "" {
		hints = st.Muted.Render(m.status) + "  " + hints
	}
	return hints
}

func (m Model) panel() string {
	v := m.ctrl.View()
	st := m.styles
	var body string
	switch v.Panel {
	case flow.PanelIntake:
		body = m.intakeBody(v)
	case flow.PanelResult:
		body = m.resultBody()
	case flow.PanelError:
		body = st.Error.Render(IconError+" "+v.Message) + "\n\n" + st.KeyHints("enter", "try again")
	}
	if m.showStats && len(m.frameTimes) > 1 {
		body += "\n\n" + st.Muted.Render(asciigraph.Plot(m.frameTimes,
			asciigraph.Height(4),
			asciigraph.Width(40),
			asciigraph.Precision(1),
			asciigraph.Caption("frame ms"),
		))
	}
	return st.Panel.Render(body)
}

// IconError prefixes error messages.
const IconError = "✕"

func (m Model) intakeBody(v flow.View) string {
	st := m.styles
	spin := st.Accent.Render(AnimatedSpinner(m.frame / 4))
	switch v.State {
	case flow.Loading:
		return spin + st.Text.Render(" warming up the engine")
	case flow.FileSelected:
		return st.Accent.Render("▣ "+v.FileName) + "\n\n" + st.Muted.Render("ready to convert")
	case flow.Processing:
		name := ""
		if f, ok := m.ctrl.File(); ok {
			name = " " + f.Name
		}
		return spin + st.Text.Render(" converting"+name)
	}

	var b strings.Builder
	b.WriteString(st.Text.Render("drop an image here"))
	b.WriteString("\n")
	b.WriteString(st.Muted.Render("drag a file onto the terminal or paste its path"))
	if m.opts.DropDir != "" {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("or copy it into " + m.opts.DropDir))
	}
	if m.prompting {
		b.WriteString("\n\n")
		b.WriteString(st.Key.Render("path › ") + st.Text.Render(m.input) + st.Accent.Render("▏"))
	}
	return b.String()
}

func (m Model) resultBody() string {
	st := m.styles
	inner := max(m.width-12, 10)
	visible := max(m.canvas.Height-9, 1)

	lines := strings.Split(strings.TrimSuffix(m.seq.Text(), "\n"), "\n")
	scroll := min(m.scroll, max(len(lines)-visible, 0))
	end := min(scroll+visible, len(lines))

	out := make([]string, 0, visible+2)
	for _, l := range lines[scroll:end] {
		if r := []rune(l); len(r) > inner {
			l = string(r[:inner])
		}
		out = append(out, st.Success.Render(l))
	}
	if m.seq.Running() {
		out = append(out, "", ProgressBar(m.seq.Progress(), min(inner, 40), st.Accent))
	}
	return strings.Join(out, "\n")
}

// Run starts the program and, when drop is set, forwards files landing in
// the drop directory.
func Run(ctx context.Context, m Model, drop *intake.DropDir) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if drop != nil {
		go func() {
			err := drop.Run(ctx, func(path string) { p.Send(DropMsg{Path: path}) })
			if err != nil && ctx.Err() == nil {
				m.log.Warn("drop directory stopped", logger.Err(err))
			}
		}()
	}
	_, err := p.Run()
	m.audio.Close()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
