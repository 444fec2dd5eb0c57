package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const (
	// DefaultRamp orders glyphs from darkest to brightest.
	DefaultRamp = " `.-':_,^=;><+!rc*/z?sLTv)J7(|Fi{C}fI31tlu2ESwqkP6h9d4VpOGbUAKXHm8RD#$Bg0MNWQ%&@"
	// DefaultWidth is the number of columns in the output.
	DefaultWidth = 120
	// DefaultAspect compensates for terminal cells being taller than wide.
	DefaultAspect = 0.55
)

type Options struct {
	Width  int
	Aspect float64
	Ramp   string
}

func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Aspect: DefaultAspect, Ramp: DefaultRamp}
}

func (o Options) validate() error {
	if o.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrUnavailable, o.Width)
	}
	if o.Aspect <= 0 {
		return fmt.Errorf("%w: aspect must be positive, got %g", ErrUnavailable, o.Aspect)
	}
	if len(o.Ramp) < 2 {
		return fmt.Errorf("%w: ramp needs at least two glyphs", ErrUnavailable)
	}
	return nil
}

// Glyph maps average pixel brightness onto a glyph ramp.
type Glyph struct {
	opts Options
	pool *BufferPool
}

// GlyphLoader loads a Glyph engine.
type GlyphLoader struct {
	Options Options
}

func (l GlyphLoader) Load(ctx context.Context) (Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return NewGlyph(l.Options)
}

func NewGlyph(opts Options) (*Glyph, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Glyph{opts: opts, pool: NewBufferPool()}, nil
}

func (g *Glyph) NewBuffer() *Buffer { return g.pool.Get() }

// Outstanding reports buffers not yet released.
func (g *Glyph) Outstanding() int64 { return g.pool.Outstanding() }

func (g *Glyph) Convert(buf *Buffer) (string, error) {
	if buf == nil || buf.Released() {
		return "", ErrReleased
	}

	img, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return ErrorMarker + ": invalid image format or corrupted data.", nil
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return ErrorMarker + ": image dimensions are invalid.", nil
	}

	cols := g.opts.Width
	rows := int(float64(cols) * float64(h) / float64(w) * g.opts.Aspect)
	if rows <= 0 {
		return ErrorMarker + ": image is too wide to convert.", nil
	}

	ramp := g.opts.Ramp
	stride := cols + 1
	out := make([]byte, stride*rows)

	ParallelFor(rows, minRowsPerWorker, func(start, end int) {
		for y := start; y < end; y++ {
			line := out[y*stride : (y+1)*stride]
			oy := bounds.Min.Y + int(float64(y)/float64(rows)*float64(h))
			for x := 0; x < cols; x++ {
				ox := bounds.Min.X + int(float64(x)/float64(cols)*float64(w))
				line[x] = ramp[brightness(img, ox, oy)*(len(ramp)-1)/255]
			}
			line[cols] = '\n'
		}
	})

	return string(out), nil
}

// brightness is the mean of the 8-bit RGB channels.
func brightness(img image.Image, x, y int) int {
	r, g, b, _ := img.At(x, y).RGBA()
	return int(r>>8+g>>8+b>>8) / 3
}
