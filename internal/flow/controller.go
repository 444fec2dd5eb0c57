// Package flow is the interaction state machine behind every frontend.
//
// The [Controller] owns the UI state, the selected file and the last
// result. Every transition goes through [Controller.Enter], which yields a
// [View] naming exactly one visible panel. Conversions are tagged with a
// generation number so a result that arrives after the user reset or
// started over is discarded.
package flow

import (
	"errors"
	"strings"

	"github.com/san-kum/asciiforge/internal/engine"
	"github.com/san-kum/asciiforge/internal/logger"
)

// ImagePrefix is the MIME type prefix accepted by Select.
const ImagePrefix = "image/"

// Job is one confirmed conversion.
type Job struct {
	Gen  uint64
	File File
}

type Controller struct {
	state    State
	view     View
	file     *File
	result   string
	err      *Error
	gen      uint64
	inFlight bool
	engineUp bool
	log      *logger.Logger
}

func New(log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	c := &Controller{log: log}
	c.Enter(Loading, Data{})
	return c
}

func (c *Controller) State() State { return c.state }

func (c *Controller) View() View { return c.view }

// File returns the selected file, if any.
func (c *Controller) File() (File, bool) {
	if c.file == nil {
		return File{}, false
	}
	return *c.file, true
}

func (c *Controller) Result() string { return c.result }

// Err is the failure behind the current error view, nil otherwise.
func (c *Controller) Err() *Error {
	if c.state != Failed {
		return nil
	}
	return c.err
}

// Busy reports a conversion outstanding for the current generation.
func (c *Controller) Busy() bool { return c.inFlight }

// Enter is the single transition entry point. It hides every view, shows
// the one panel owned by s and applies d to it.
func (c *Controller) Enter(s State, d Data) View {
	v := View{State: s, Panel: PanelFor(s)}
	switch v.Panel {
	case PanelIntake:
		if s == FileSelected {
			v.FileName = d.FileName
		}
	case PanelResult:
		v.Art = d.Art
	case PanelError:
		v.Message = d.Message
	}
	if c.state != s {
		c.log.Debug("transition", logger.F("from", c.state), logger.F("to", s))
	}
	c.state = s
	c.view = v
	return v
}

func (c *Controller) fail(e *Error) View {
	c.err = e
	c.inFlight = false
	if e.Kind == KindCritical {
		c.log.Error("conversion fault", logger.F("kind", e.Kind), logger.Err(e))
	} else {
		c.log.Warn("entering error view", logger.F("kind", e.Kind), logger.Err(e))
	}
	return c.Enter(Failed, Data{Message: e.Message()})
}

// EngineReady enables file intake once the engine has loaded.
func (c *Controller) EngineReady() View {
	c.engineUp = true
	if c.state != Loading {
		return c.view
	}
	return c.Enter(Ready, Data{})
}

// EngineFailed reports that the engine could not be loaded.
func (c *Controller) EngineFailed(err error) View {
	c.engineUp = false
	return c.fail(newError(KindInit, ErrEngineUnavailable, err))
}

// Select takes a newly chosen file. Files without an image MIME type lead
// to the error view and never become the selection.
func (c *Controller) Select(f File) View {
	if c.state != Ready && c.state != FileSelected {
		c.log.Debug("selection ignored", logger.F("state", c.state), logger.F("file", f.Name))
		return c.view
	}
	if !strings.HasPrefix(f.Type, ImagePrefix) {
		c.file = nil
		return c.fail(&Error{Kind: KindValidation, Wrapped: ErrNotImage, Detail: f.Name + " (" + f.Type + ")"})
	}
	c.file = &f
	return c.Enter(FileSelected, Data{FileName: f.Name})
}

// IntakeFailed reports a selection that could not even be inspected.
func (c *Controller) IntakeFailed(err error) View {
	if c.state != Ready && c.state != FileSelected {
		return c.view
	}
	c.file = nil
	return c.fail(newError(KindIO, ErrUnreadable, err))
}

// Confirm starts converting the selected file. It refuses while another
// conversion is outstanding or nothing is selected.
func (c *Controller) Confirm() (Job, View, bool) {
	if c.state != FileSelected || c.file == nil || c.inFlight {
		return Job{}, c.view, false
	}
	if !c.engineUp {
		c.file = nil
		return Job{}, c.fail(&Error{Kind: KindInit, Wrapped: ErrEngineNotReady}), false
	}
	c.gen++
	c.inFlight = true
	job := Job{Gen: c.gen, File: *c.file}
	c.log.Info("conversion started", logger.F("file", job.File.Name), logger.F("gen", job.Gen))
	return job, c.Enter(Processing, Data{}), true
}

// Pending reports whether job is still the conversion being waited on.
func (c *Controller) Pending(job Job) bool {
	return job.Gen == c.gen && c.state == Processing
}

func (c *Controller) current(job Job) bool {
	if !c.Pending(job) {
		c.log.Debug("stale conversion discarded", logger.F("gen", job.Gen), logger.F("current", c.gen), logger.F("state", c.state))
		return false
	}
	return true
}

// Complete delivers the engine's answer for job. A returned error is a
// critical failure; text carrying the error marker is a logical one.
func (c *Controller) Complete(job Job, text string, err error) View {
	if !c.current(job) {
		return c.view
	}
	c.inFlight = false
	switch {
	case err != nil:
		return c.fail(newError(KindCritical, ErrEngineFault, err))
	case engine.IsLogicalFailure(text):
		return c.fail(&Error{Kind: KindLogical, Wrapped: ErrConversion, Detail: text})
	}
	c.result = text
	c.log.Info("conversion finished", logger.F("file", job.File.Name), logger.F("bytes", len(text)))
	return c.Enter(Success, Data{Art: text})
}

// ReadFailed reports that job's file could not be read.
func (c *Controller) ReadFailed(job Job, err error) View {
	if !c.current(job) {
		return c.view
	}
	return c.fail(newError(KindIO, ErrUnreadable, err))
}

// Reset clears the selection and the result and returns to ready. From
// processing it also abandons the outstanding conversion.
func (c *Controller) Reset() View {
	switch c.state {
	case FileSelected, Success, Failed, Processing:
	default:
		return c.view
	}
	if c.state == Processing {
		c.gen++
		c.inFlight = false
	}
	c.file = nil
	c.result = ""
	c.err = nil
	return c.Enter(Ready, Data{})
}

// IsKind reports whether err is a flow error of the given kind.
func IsKind(err error, k Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe != nil && fe.Kind == k
}
