// Package logger is a small component-tagged, levelled logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes "[time] LEVEL [component] message [k=v ...]" lines.
// Debug and Info are only written when verbose.
type Logger struct {
	component string
	verbose   bool
	out       *sink
}

type sink struct {
	mu sync.Mutex
	w  io.Writer
}

// Field is a key-value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

func New(component string, verbose bool) *Logger {
	return &Logger{component: component, verbose: verbose, out: &sink{w: os.Stderr}}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return &Logger{component: "discard", out: &sink{w: io.Discard}}
}

// WithComponent returns a logger sharing the writer under a new component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{component: component, verbose: l.verbose, out: l.out}
}

// SetOutput redirects every logger derived from l.
func (l *Logger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	l.out.w = w
	l.out.mu.Unlock()
}

func (l *Logger) SetVerbose(v bool) { l.verbose = v }

func (l *Logger) Debug(msg string, fields ...Field) {
	if l.verbose {
		l.log("DEBUG", msg, fields)
	}
}

func (l *Logger) Info(msg string, fields ...Field) {
	if l.verbose {
		l.log("INFO", msg, fields)
	}
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.log("WARN", msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.log("ERROR", msg, fields)
}

func (l *Logger) log(level, msg string, fields []Field) {
	if l == nil {
		return
	}
	component := l.component
	if component == "" {
		component = "main"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s [%s] %s", time.Now().Format("15:04:05.000"), level, component, msg)
	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		b.WriteString(" [" + strings.Join(parts, " ") + "]")
	}
	b.WriteByte('\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	// nothing useful to do if the log sink itself fails
	_, _ = io.WriteString(l.out.w, b.String())
}

func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}
