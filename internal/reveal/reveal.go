// Package reveal discloses a finished conversion one line at a time.
package reveal

import (
	"strings"
	"time"
)

// DefaultDuration is the time taken to reveal a whole result.
const DefaultDuration = time.Second

// Ticket identifies one reveal run. Ticks carrying an older ticket are
// ignored, so a restarted reveal never interleaves with the previous one.
type Ticket uint64

// Sequencer owns the single active reveal.
type Sequencer struct {
	total   time.Duration
	lines   []string
	next    int
	ticket  Ticket
	running bool
	out     strings.Builder
}

func New(total time.Duration) *Sequencer {
	if total <= 0 {
		total = DefaultDuration
	}
	return &Sequencer{total: total}
}

// Interval is the per-line delay: total split evenly, floored at 1ms.
func Interval(total time.Duration, lines int) time.Duration {
	if lines <= 0 {
		return total
	}
	d := time.Duration(float64(total) / float64(lines))
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// Start cancels any running reveal and begins a new one for text.
func (s *Sequencer) Start(text string) (Ticket, time.Duration) {
	s.Cancel()
	s.lines = strings.Split(text, "\n")
	s.next = 0
	s.running = true
	s.out.Reset()
	return s.ticket, Interval(s.total, len(s.lines))
}

// Cancel stops the running reveal and invalidates its ticket.
func (s *Sequencer) Cancel() {
	s.ticket++
	s.running = false
}

// Advance appends the next line if t is the current ticket. done reports
// that the reveal has finished and no further tick should be scheduled.
func (s *Sequencer) Advance(t Ticket) (appended, done bool) {
	if t != s.ticket || !s.running {
		return false, true
	}
	if s.next < len(s.lines) {
		s.out.WriteString(s.lines[s.next])
		s.out.WriteByte('\n')
		s.next++
		appended = true
	}
	if s.next >= len(s.lines) {
		s.running = false
		return appended, true
	}
	return appended, false
}

// Text is everything revealed so far.
func (s *Sequencer) Text() string { return s.out.String() }

func (s *Sequencer) Running() bool { return s.running }

// Progress is the revealed fraction in [0, 1].
func (s *Sequencer) Progress() float64 {
	if len(s.lines) == 0 {
		return 0
	}
	return float64(s.next) / float64(len(s.lines))
}
