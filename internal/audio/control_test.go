package audio

import (
	"errors"
	"math"
	"testing"
)

type fakePlayer struct {
	starts int
	muted  []bool
	stops  int
	err    error
}

func (f *fakePlayer) Start() error        { f.starts++; return f.err }
func (f *fakePlayer) SetMuted(muted bool) { f.muted = append(f.muted, muted) }
func (f *fakePlayer) Stop()               { f.stops++ }

func TestControlGate(t *testing.T) {
	p := &fakePlayer{}
	c := NewControl(p, false, nil)

	if !c.Muted() || c.Icon() != IconMuted {
		t.Error("expected muted before first gesture")
	}
	c.Toggle()
	if p.starts != 0 || len(p.muted) != 0 {
		t.Error("player touched before first gesture")
	}
	c.Toggle()

	c.Gesture()
	c.Gesture()
	if p.starts != 1 {
		t.Errorf("expected one start, got %d", p.starts)
	}
	if c.Muted() || c.Icon() != IconUnmuted {
		t.Error("expected unmuted after first gesture")
	}

	if !c.Toggle() {
		t.Error("toggle did not mute")
	}
	if got := p.muted[len(p.muted)-1]; !got {
		t.Error("player not muted")
	}

	c.Close()
	if p.stops != 1 {
		t.Errorf("expected one stop, got %d", p.stops)
	}
}

func TestControlStartMuted(t *testing.T) {
	c := NewControl(&fakePlayer{}, true, nil)
	c.Gesture()
	if !c.Muted() {
		t.Error("start-muted control unmuted on gesture")
	}
}

func TestControlStartFailure(t *testing.T) {
	p := &fakePlayer{err: errors.New("no device")}
	c := NewControl(p, false, nil)
	c.Gesture()
	c.Toggle()
	c.Close()
	if len(p.muted) != 0 || p.stops != 0 {
		t.Error("failed player kept receiving calls")
	}
}

func TestControlWithoutPlayer(t *testing.T) {
	c := NewControl(nil, false, nil)
	c.Gesture()
	if c.Muted() {
		t.Error("expected unmuted")
	}
	if levels := c.Levels(4); len(levels) != 4 {
		t.Errorf("expected 4 levels, got %d", len(levels))
	}
	c.Close()
}

func TestBandLevels(t *testing.T) {
	block := make([]float64, BufferSize)
	for i := range block {
		block[i] = math.Sin(2 * math.Pi * 8 * float64(i) / float64(len(block)))
	}
	levels := bandLevels(block, 8)
	if len(levels) != 8 {
		t.Fatalf("expected 8 bands, got %d", len(levels))
	}
	if levels[0] <= levels[7] {
		t.Errorf("low tone not concentrated in the first band: %v", levels)
	}
	for _, l := range levels {
		if l < 0 || l > 1 {
			t.Errorf("level %v out of range", l)
		}
	}
}
