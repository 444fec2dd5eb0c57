package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// streakSegments is how many pieces a fading streak is drawn in.
const streakSegments = 16

// surface paints the particle field straight into the current frame.
type surface struct {
	color rl.Color
}

// Clear is a no-op: the frame is cleared by Draw.
func (surface) Clear() {}

func (s surface) Dot(x, y, radius, opacity float64) {
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(radius), fade(s.color, opacity))
}

func (s surface) Streak(hx, hy, tx, ty, opacity float64) {
	for i := 0; i < streakSegments; i++ {
		t0 := float64(i) / streakSegments
		t1 := float64(i+1) / streakSegments
		from := rl.NewVector2(float32(hx+(tx-hx)*t0), float32(hy+(ty-hy)*t0))
		to := rl.NewVector2(float32(hx+(tx-hx)*t1), float32(hy+(ty-hy)*t1))
		rl.DrawLineEx(from, to, 2, fade(s.color, opacity*(1-t0)))
	}
}

func fade(c rl.Color, opacity float64) rl.Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(float64(c.A) * opacity)
	return c
}
