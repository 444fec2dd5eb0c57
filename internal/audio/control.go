// Package audio plays the background soundtrack behind a mute toggle.
//
// Playback is gated: nothing starts until the first user gesture (a key
// press or click), after which the soundtrack runs unmuted unless the user
// asked to start muted. Two players exist: [Pad], a portaudio synthesizer,
// and [Music], a looping WAV file through the beep speaker.
package audio

import (
	"github.com/san-kum/asciiforge/internal/logger"
)

const (
	IconUnmuted = "♪"
	IconMuted   = "✕"
)

// Player is a soundtrack source.
type Player interface {
	Start() error
	SetMuted(muted bool)
	Stop()
}

// Meter is implemented by players that can report output levels.
type Meter interface {
	Levels(n int) []float64
}

// Control owns the mute state and the first-gesture gate.
type Control struct {
	player     Player
	started    bool
	failed     bool
	muted      bool
	startMuted bool
	log        *logger.Logger
}

// NewControl wraps player. A nil player gives a silent control that still
// tracks the toggle.
func NewControl(player Player, startMuted bool, log *logger.Logger) *Control {
	if log == nil {
		log = logger.Discard()
	}
	return &Control{player: player, muted: true, startMuted: startMuted, log: log}
}

// Gesture opens the gate on the first call and is a no-op afterwards.
func (c *Control) Gesture() {
	if c.started {
		return
	}
	c.started = true
	c.muted = c.startMuted
	if c.player == nil {
		return
	}
	if err := c.player.Start(); err != nil {
		c.failed = true
		c.log.Error("audio playback failed", logger.Err(err))
		return
	}
	c.player.SetMuted(c.muted)
}

// Toggle flips the mute state and returns the new value.
func (c *Control) Toggle() bool {
	c.muted = !c.muted
	if c.player != nil && c.started && !c.failed {
		c.player.SetMuted(c.muted)
	}
	return c.muted
}

func (c *Control) Muted() bool { return c.muted }

func (c *Control) Started() bool { return c.started }

// Icon is the glyph pair entry for the current state.
func (c *Control) Icon() string {
	if c.muted {
		return IconMuted
	}
	return IconUnmuted
}

// Levels reports output levels when the player supports metering.
func (c *Control) Levels(n int) []float64 {
	m, ok := c.player.(Meter)
	if !ok || c.muted || !c.started {
		return make([]float64, n)
	}
	return m.Levels(n)
}

func (c *Control) Close() {
	if c.player != nil && c.started && !c.failed {
		c.player.Stop()
	}
}
