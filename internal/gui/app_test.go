package gui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/asciiforge/internal/config"
	"github.com/san-kum/asciiforge/internal/engine"
	"github.com/san-kum/asciiforge/internal/flow"
)

type fakeEngine struct {
	pool *engine.BufferPool
	out  string
}

func (f fakeEngine) NewBuffer() *engine.Buffer { return f.pool.Get() }

func (f fakeEngine) Convert(*engine.Buffer) (string, error) { return f.out, nil }

// waitFor drains posted callbacks until cond holds.
func waitFor(t *testing.T, a *App, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out in state %s", a.Ctrl.State())
		}
		select {
		case fn := <-a.events:
			fn()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func newApp(t *testing.T, out string) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	loader := engine.LoaderFunc(func(context.Context) (engine.Engine, error) {
		return fakeEngine{pool: engine.NewBufferPool(), out: out}, nil
	})
	a := NewApp(context.Background(), Options{Config: cfg, Loader: loader})
	a.LoadEngine()
	waitFor(t, a, func() bool { return a.Ctrl.State() == flow.Ready })
	return a
}

func imageFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drop.png")
	// only the extension matters for selection
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDropConvertReveal(t *testing.T) {
	a := newApp(t, "ab\ncd\nef")
	a.SelectPath(imageFile(t))
	if a.Ctrl.State() != flow.FileSelected {
		t.Fatalf("expected file-selected, got %s", a.Ctrl.State())
	}

	a.handleKey(rl.KeyEnter)
	if a.Ctrl.State() != flow.Processing {
		t.Fatalf("expected processing, got %s", a.Ctrl.State())
	}
	waitFor(t, a, func() bool { return a.Ctrl.State() == flow.Success })

	a.advanceReveal(time.Now().Add(time.Hour))
	if got := a.Seq.Text(); got != "ab\ncd\nef\n" {
		t.Errorf("revealed %q", got)
	}
	if a.Seq.Running() {
		t.Error("reveal still running")
	}

	a.handleKey(rl.KeyR)
	if a.Ctrl.State() != flow.Ready || a.Seq.Running() {
		t.Errorf("reset left state %s", a.Ctrl.State())
	}
}

func TestRevealPacing(t *testing.T) {
	a := newApp(t, "1\n2\n3\n4")
	a.SelectPath(imageFile(t))
	a.Convert()
	waitFor(t, a, func() bool { return a.Ctrl.State() == flow.Success })

	start := a.revealNext
	a.advanceReveal(start.Add(-time.Millisecond))
	if a.Seq.Text() != "" {
		t.Error("line revealed before its time")
	}
	a.advanceReveal(start)
	if a.Seq.Text() != "1\n" {
		t.Errorf("expected one line, got %q", a.Seq.Text())
	}
}

func TestAbandonedConversionIgnored(t *testing.T) {
	a := newApp(t, "late")
	a.SelectPath(imageFile(t))
	a.Convert()
	a.handleKey(rl.KeyEscape)
	if a.Ctrl.State() != flow.Ready {
		t.Fatalf("expected ready, got %s", a.Ctrl.State())
	}
	time.Sleep(2 * convertDelay)
	a.Drain()
	if a.Ctrl.State() != flow.Ready || a.Seq.Running() {
		t.Errorf("stale result applied, state %s", a.Ctrl.State())
	}
}
