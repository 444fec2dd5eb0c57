package field

import (
	"math"
	"math/rand"
)

const (
	// DefaultInfluence is the pointer repulsion radius.
	DefaultInfluence = 150.0
	// RepelDamping scales the repulsive displacement per frame.
	RepelDamping = 0.5
)

// Particle is a drifting point. Size and Opacity are fixed at spawn.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Size    float64
	Opacity float64
}

func spawnParticle(rng *rand.Rand, w, h float64) Particle {
	return Particle{
		X:       rng.Float64() * w,
		Y:       rng.Float64() * h,
		Size:    rng.Float64()*1.5 + 0.5,
		VX:      rng.Float64()*0.4 - 0.2,
		VY:      rng.Float64()*0.4 - 0.2,
		Opacity: rng.Float64()*0.5 + 0.5,
	}
}

// Pointer is the last known pointer position. Known is false until the
// pointer has moved over the surface at least once.
type Pointer struct {
	X, Y  float64
	Known bool
}

// Update advances the particle by one frame: repulsion, drift, then
// respawn on any axis that left [0, w] or [0, h].
func (p *Particle) Update(ptr Pointer, influence, w, h float64, rng *rand.Rand) {
	if ptr.Known {
		dx := p.X - ptr.X
		dy := p.Y - ptr.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		// dist == 0 has no direction to push along
		if dist < influence && dist > 0 {
			force := (influence - dist) / influence
			p.X += dx / dist * force * RepelDamping
			p.Y += dy / dist * force * RepelDamping
		}
	}

	p.X += p.VX
	p.Y += p.VY

	if p.X < 0 || p.X > w {
		p.X = rng.Float64() * w
	}
	if p.Y < 0 || p.Y > h {
		p.Y = rng.Float64() * h
	}
}

// Draw renders the particle as a filled dot.
func (p *Particle) Draw(s Surface) {
	s.Dot(p.X, p.Y, p.Size, p.Opacity)
}
