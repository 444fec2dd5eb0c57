package field

import (
	"math"
	"math/rand"
	"testing"
)

type recorder struct {
	clears  int
	dots    int
	streaks int
	lastOp  float64
}

func (r *recorder) Clear()                       { r.clears++ }
func (r *recorder) Dot(x, y, radius, op float64) { r.dots++ }
func (r *recorder) Streak(hx, hy, tx, ty, op float64) {
	r.streaks++
	r.lastOp = op
}

func TestPopulation(t *testing.T) {
	tests := []struct {
		w, h     float64
		expected int
	}{
		{1000, 500, 20},
		{1920, 1080, 83},
		{100, 100, 1},
		{0, 100, 0},
	}

	for _, tt := range tests {
		if got := Population(tt.w, tt.h, DefaultDensity); got != tt.expected {
			t.Errorf("Population(%v, %v) = %d, want %d", tt.w, tt.h, got, tt.expected)
		}
	}
}

func TestResizeRegenerates(t *testing.T) {
	f := New(1000, 500, DefaultOptions())
	if len(f.Particles()) != 20 {
		t.Fatalf("expected 20 particles, got %d", len(f.Particles()))
	}
	first := f.Particles()[0]

	f.Resize(2000, 500)
	if len(f.Particles()) != 40 {
		t.Errorf("expected 40 particles after resize, got %d", len(f.Particles()))
	}
	if f.Particles()[0] == first {
		t.Error("resize kept the old particle instead of respawning")
	}
	for _, p := range f.Particles() {
		if p.X < 0 || p.X >= 2000 || p.Y < 0 || p.Y >= 500 {
			t.Errorf("particle spawned out of bounds: %+v", p)
		}
	}
}

func TestParticleWrap(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const w, h = 300.0, 200.0

	tests := []struct {
		name string
		p    Particle
	}{
		{"past right", Particle{X: 299.9, Y: 50, VX: 0.2}},
		{"past left", Particle{X: 0.1, Y: 50, VX: -0.2}},
		{"past bottom", Particle{X: 50, Y: 199.95, VY: 0.2}},
		{"past top", Particle{X: 50, Y: 0.05, VY: -0.2}},
		{"far outside", Particle{X: 5000, Y: -5000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.p
			for i := 0; i < 50; i++ {
				p.Update(Pointer{}, DefaultInfluence, w, h, rng)
				if p.X < 0 || p.X > w || p.Y < 0 || p.Y > h {
					t.Fatalf("step %d: particle out of bounds at (%v, %v)", i, p.X, p.Y)
				}
			}
		})
	}
}

func TestParticleRepulsion(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := Particle{X: 100, Y: 100}
	p.Update(Pointer{X: 50, Y: 100, Known: true}, DefaultInfluence, 1000, 1000, rng)

	// distance 50 of 150 -> force 2/3, damped by 0.5
	want := 100 + (2.0/3.0)*RepelDamping
	if math.Abs(p.X-want) > 1e-9 {
		t.Errorf("x = %v, want %v", p.X, want)
	}
	if p.Y != 100 {
		t.Errorf("y moved to %v", p.Y)
	}

	far := Particle{X: 500, Y: 500}
	far.Update(Pointer{X: 0, Y: 0, Known: true}, DefaultInfluence, 1000, 1000, rng)
	if far.X != 500 || far.Y != 500 {
		t.Errorf("particle outside influence moved to (%v, %v)", far.X, far.Y)
	}

	same := Particle{X: 10, Y: 10}
	same.Update(Pointer{X: 10, Y: 10, Known: true}, DefaultInfluence, 1000, 1000, rng)
	if math.IsNaN(same.X) || math.IsNaN(same.Y) {
		t.Error("particle under the pointer became NaN")
	}
}

func TestShootingStarCycle(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := NewShootingStar(800, rng)
	s.Schedule(5, 3)
	startX, startY := s.X, s.Y

	for i := 0; i < 5; i++ {
		if s.Phase() != Waiting {
			t.Fatalf("after %d seconds expected waiting, got %s", i, s.Phase())
		}
		s.Update(1)
		if s.X != startX || s.Y != startY {
			t.Fatal("star moved while waiting")
		}
	}
	if s.Phase() != Active {
		t.Fatalf("expected active after wait elapsed, got %s", s.Phase())
	}

	s.Update(1)
	if s.X <= startX || s.Y <= startY {
		t.Error("star did not advance along the diagonal")
	}
	if math.Abs((s.X-startX)-(s.Y-startY)) > 1e-9 {
		t.Error("star left the 45 degree diagonal")
	}
	s.Update(1)
	s.Update(1)
	if s.Phase() != Exhausted {
		t.Fatalf("expected exhausted after life elapsed, got %s", s.Phase())
	}

	s.Update(0)
	if s.Phase() != Waiting {
		t.Fatalf("expected reset into waiting, got %s", s.Phase())
	}
	if s.Wait < 3 || s.Wait >= 10 {
		t.Errorf("wait %v out of range", s.Wait)
	}
	if s.Life != 3 {
		t.Errorf("life = %v, want 3", s.Life)
	}
	if s.Y != 0 || s.X < 0 || s.X >= 800 {
		t.Errorf("reset position (%v, %v) not on the top edge", s.X, s.Y)
	}
	if s.Length < 10 || s.Length >= 90 || s.Speed < 3 || s.Speed >= 8 {
		t.Errorf("length %v / speed %v out of range", s.Length, s.Speed)
	}
}

func TestShootingStarDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := NewShootingStar(800, rng)
	r := &recorder{}

	s.Draw(r)
	if r.streaks != 0 {
		t.Error("star drawn while waiting")
	}

	s.Schedule(0, 1.5)
	s.Draw(r)
	if r.streaks != 1 {
		t.Fatal("active star not drawn")
	}
	if math.Abs(r.lastOp-0.35) > 1e-9 {
		t.Errorf("opacity = %v, want 0.35", r.lastOp)
	}
}

func TestFrame(t *testing.T) {
	f := New(1000, 500, DefaultOptions())
	r := &recorder{}

	if dt := f.Frame(0, r); dt != 0 {
		t.Errorf("first frame dt = %v", dt)
	}
	if dt := f.Frame(0.016, r); math.Abs(dt-0.016) > 1e-12 {
		t.Errorf("dt = %v, want 0.016", dt)
	}
	if r.clears != 2 {
		t.Errorf("expected 2 clears, got %d", r.clears)
	}
	if r.dots != 40 {
		t.Errorf("expected 40 dots, got %d", r.dots)
	}
}
