package field

import (
	"math"
	"math/rand"
)

const (
	starLife    = 3.0
	starAngle   = math.Pi / 4
	starOpacity = 0.7
)

// Phase is the shooting star's position in its cycle.
type Phase int

const (
	Waiting Phase = iota
	Active
	Exhausted
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case Active:
		return "active"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// ShootingStar streaks diagonally from the top edge for a fixed lifetime,
// then waits a random interval before reappearing. Only Exhausted re-enters
// Waiting, and only through reset.
type ShootingStar struct {
	X, Y   float64
	Length float64
	Speed  float64
	Wait   float64
	Life   float64

	phase Phase
	width float64
	rng   *rand.Rand
}

// NewShootingStar returns a star in its waiting phase.
func NewShootingStar(width float64, rng *rand.Rand) *ShootingStar {
	s := &ShootingStar{width: width, rng: rng}
	s.reset()
	return s
}

func (s *ShootingStar) reset() {
	s.X = s.rng.Float64() * s.width
	s.Y = 0
	s.Length = s.rng.Float64()*80 + 10
	s.Speed = s.rng.Float64()*5 + 3
	s.Schedule(s.rng.Float64()*7+3, starLife)
}

// Schedule overrides the countdowns. A non-positive wait skips straight to
// the active phase.
func (s *ShootingStar) Schedule(wait, life float64) {
	s.Wait, s.Life = wait, life
	switch {
	case wait > 0:
		s.phase = Waiting
	case life > 0:
		s.phase = Active
	default:
		s.phase = Exhausted
	}
}

func (s *ShootingStar) Phase() Phase { return s.phase }

// Update advances the cycle by dt seconds.
func (s *ShootingStar) Update(dt float64) {
	switch s.phase {
	case Waiting:
		s.Wait -= dt
		if s.Wait <= 0 {
			s.phase = Active
		}
	case Active:
		s.Life -= dt
		s.X += math.Cos(starAngle) * s.Speed
		s.Y += math.Sin(starAngle) * s.Speed
		if s.Life <= 0 {
			s.phase = Exhausted
		}
	case Exhausted:
		s.reset()
	}
}

// Tail returns the end of the streak opposite the direction of travel.
func (s *ShootingStar) Tail() (float64, float64) {
	return s.X - s.Length*math.Cos(starAngle), s.Y - s.Length*math.Sin(starAngle)
}

// Opacity of the streak head, proportional to remaining life.
func (s *ShootingStar) Opacity() float64 {
	return s.Life / starLife * starOpacity
}

func (s *ShootingStar) Draw(surf Surface) {
	if s.phase != Active {
		return
	}
	tx, ty := s.Tail()
	surf.Streak(s.X, s.Y, tx, ty, s.Opacity())
}
