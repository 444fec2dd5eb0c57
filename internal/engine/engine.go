// Package engine is the boundary to the image-to-ASCII converter.
//
// The rest of the program treats the converter as a black box: it is
// loaded asynchronously, fed a byte buffer and returns text. Text that
// starts with [ErrorMarker] is a logical failure; a panic inside Convert is
// a critical one. [Run] scopes the buffer to a single call.
package engine

import (
	"context"
	"fmt"
)

// Engine converts encoded image bytes to ASCII art.
type Engine interface {
	NewBuffer() *Buffer
	Convert(buf *Buffer) (string, error)
}

// Loader initializes an engine.
type Loader interface {
	Load(ctx context.Context) (Engine, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (Engine, error)

func (f LoaderFunc) Load(ctx context.Context) (Engine, error) { return f(ctx) }

// Run copies data into a fresh buffer, converts it and releases the buffer
// on every exit path. A panic in the engine is returned as a *FaultError.
func Run(e Engine, data []byte) (text string, err error) {
	var buf *Buffer
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &FaultError{Value: r, Wrapped: fmt.Errorf("%w: %v", ErrFault, r)}
		}
		if buf != nil {
			buf.Release()
		}
	}()

	buf = e.NewBuffer()
	for _, c := range data {
		buf.PushBack(c)
	}
	return e.Convert(buf)
}
