package viz

import (
	"time"

	"github.com/san-kum/asciiforge/internal/engine"
	"github.com/san-kum/asciiforge/internal/flow"
	"github.com/san-kum/asciiforge/internal/reveal"
)

// FrameMsg drives the animation loop.
type FrameMsg time.Time

// DropMsg carries a path dropped from outside the terminal, such as the
// watched drop directory.
type DropMsg struct {
	Path string
}

type engineLoadedMsg struct {
	engine engine.Engine
}

type engineFailedMsg struct {
	err error
}

type fileReadMsg struct {
	job  flow.Job
	data []byte
}

type readFailedMsg struct {
	job flow.Job
	err error
}

// convertMsg fires after the short delay that lets the processing panel
// paint before the engine runs.
type convertMsg struct {
	job  flow.Job
	data []byte
}

type convertedMsg struct {
	job  flow.Job
	text string
	err  error
}

type revealMsg struct {
	ticket reveal.Ticket
}

type savedMsg struct {
	id  string
	err error
}

type exportedMsg struct {
	path string
	err  error
}
