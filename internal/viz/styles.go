package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles groups the lipgloss styles derived from one theme.
type Styles struct {
	Panel   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Key     lipgloss.Style
	Hint    lipgloss.Style
}

func NewStyles(th Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Primary).
			Background(th.Background).
			Padding(1, 3),
		Text:    lipgloss.NewStyle().Foreground(th.Text),
		Muted:   lipgloss.NewStyle().Foreground(th.Muted),
		Accent:  lipgloss.NewStyle().Foreground(th.Primary).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(th.Error).Bold(true),
		Success: lipgloss.NewStyle().Foreground(th.Success),
		Key:     lipgloss.NewStyle().Foreground(th.Secondary).Bold(true),
		Hint:    lipgloss.NewStyle().Foreground(th.Muted).Italic(true),
	}
}

// GradientText colors each rune of text along a Lab blend between two colors.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	from, err := colorful.Hex(string(startColor))
	if err != nil {
		return text
	}
	to, err := colorful.Hex(string(endColor))
	if err != nil {
		return text
	}

	var result strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		color := lipgloss.Color(from.BlendLab(to, t).Clamped().Hex())
		result.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(c)))
	}
	return result.String()
}

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// ProgressBar renders a bar filled to percent of width.
func ProgressBar(percent float64, width int, style lipgloss.Style) string {
	filled := int(percent * float64(width))
	filled = max(0, min(filled, width))
	return style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// MeterBars draws one block per level, each in [0, 1].
func MeterBars(levels []float64) string {
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	var b strings.Builder
	for _, l := range levels {
		idx := int(l * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// KeyHints renders "key action" pairs separated by dots.
func (s Styles) KeyHints(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.Key.Render(pairs[i])+" "+s.Hint.Render(pairs[i+1]))
	}
	return strings.Join(parts, s.Muted.Render(" · "))
}
