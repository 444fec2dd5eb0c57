package field

import (
	"math/rand"
)

// DefaultDensity is the surface area covered by one particle.
const DefaultDensity = 25000.0

// Surface is a drawing target cleared and repainted every frame.
type Surface interface {
	Clear()
	// Dot fills a circle of the given radius.
	Dot(x, y, radius, opacity float64)
	// Streak draws a line whose opacity fades from the head to zero at the tail.
	Streak(headX, headY, tailX, tailY, opacity float64)
}

type Options struct {
	Density   float64
	Influence float64
	Seed      int64
}

func DefaultOptions() Options {
	return Options{Density: DefaultDensity, Influence: DefaultInfluence, Seed: 1}
}

// Field is the particle population plus the shooting star.
type Field struct {
	Width, Height float64

	opts      Options
	particles []Particle
	star      *ShootingStar
	pointer   Pointer
	rng       *rand.Rand
	last      float64
}

// New builds a field of the given size and populates it.
func New(w, h float64, opts Options) *Field {
	if opts.Density <= 0 {
		opts.Density = DefaultDensity
	}
	if opts.Influence <= 0 {
		opts.Influence = DefaultInfluence
	}
	f := &Field{opts: opts, rng: rand.New(rand.NewSource(opts.Seed))}
	f.Resize(w, h)
	return f
}

// Population is the particle count for a surface: one per density units of
// area, rounded up.
func Population(w, h, density float64) int {
	if w <= 0 || h <= 0 || density <= 0 {
		return 0
	}
	n := 0
	for float64(n) < w*h/density {
		n++
	}
	return n
}

// Resize changes the bounds and regenerates every particle and the star.
func (f *Field) Resize(w, h float64) {
	f.Width, f.Height = w, h
	n := Population(w, h, f.opts.Density)
	f.particles = make([]Particle, n)
	for i := range f.particles {
		f.particles[i] = spawnParticle(f.rng, w, h)
	}
	f.star = NewShootingStar(w, f.rng)
}

func (f *Field) SetPointer(x, y float64) {
	f.pointer = Pointer{X: x, Y: y, Known: true}
}

func (f *Field) Pointer() Pointer { return f.pointer }

func (f *Field) Particles() []Particle { return f.particles }

func (f *Field) Star() *ShootingStar { return f.star }

// Step updates particles once and the star by dt seconds without drawing.
func (f *Field) Step(dt float64) {
	for i := range f.particles {
		f.particles[i].Update(f.pointer, f.opts.Influence, f.Width, f.Height, f.rng)
	}
	f.star.Update(dt)
}

// Frame runs one tick of the animation loop at timestamp now (seconds).
// The delta since the previous tick is applied directly.
func (f *Field) Frame(now float64, s Surface) float64 {
	dt := now - f.last
	f.last = now

	s.Clear()
	for i := range f.particles {
		f.particles[i].Update(f.pointer, f.opts.Influence, f.Width, f.Height, f.rng)
		f.particles[i].Draw(s)
	}
	f.star.Update(dt)
	f.star.Draw(s)
	return dt
}
