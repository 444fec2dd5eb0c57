package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New("flow", false)
	l.SetOutput(&buf)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug/info written while not verbose")
	}
	if !strings.Contains(buf.String(), "WARN [flow] shown") {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	l.SetVerbose(true)
	l.Debug("visible", F("state", "ready"))
	if !strings.Contains(buf.String(), "DEBUG [flow] visible [state=ready]") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWithComponentSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	root := New("", true)
	root.SetOutput(&buf)

	child := root.WithComponent("engine")
	child.Error("failed", Err(errors.New("boom")))
	root.Info("root")

	out := buf.String()
	if !strings.Contains(out, "ERROR [engine] failed [error=boom]") {
		t.Errorf("child line missing: %q", out)
	}
	if !strings.Contains(out, "INFO [main] root") {
		t.Errorf("root line missing: %q", out)
	}
}
