package export

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// SVGOptions control glyph metrics and colors of an exported result.
type SVGOptions struct {
	FontSize   float64
	Background string
	Foreground string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{FontSize: 10, Background: "#0a0a0a", Foreground: "#64e6be"}
}

// ArtToSVG lays ASCII art out as monospace text, one <text> per line.
func ArtToSVG(art string, opts SVGOptions) string {
	if opts.FontSize <= 0 {
		opts.FontSize = 10
	}
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	cols := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > cols {
			cols = n
		}
	}

	// monospace advance is roughly 0.6em, line height 1.2em
	charW := opts.FontSize * 0.6
	lineH := opts.FontSize * 1.2
	width := float64(cols) * charW
	height := float64(len(lines)) * lineH

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s" font-family="monospace" font-size="%.1f" xml:space="preserve">
`, width, height, width, height, opts.Background, opts.Foreground, opts.FontSize))

	for i, l := range lines {
		var esc strings.Builder
		_ = xml.EscapeText(&esc, []byte(l))
		sb.WriteString(fmt.Sprintf(`<text x="0" y="%.1f">%s</text>
`, float64(i+1)*lineH-opts.FontSize*0.2, esc.String()))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteSVG renders art to path.
func WriteSVG(path, art string, opts SVGOptions) error {
	return os.WriteFile(path, []byte(ArtToSVG(art, opts)), 0644)
}
