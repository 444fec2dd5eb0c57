package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Music loops a WAV file through the speaker.
type Music struct {
	path string

	mu       sync.Mutex
	file     *os.File
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
}

func NewMusic(path string) *Music {
	return &Music{path: path}
}

func (m *Music) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctrl != nil {
		return nil
	}

	f, err := os.Open(m.path)
	if err != nil {
		return fmt.Errorf("open music: %w", err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", m.path, err)
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Millisecond*100)); err != nil {
		streamer.Close()
		return fmt.Errorf("speaker init: %w", err)
	}

	m.file = f
	m.streamer = streamer
	m.ctrl = &beep.Ctrl{Streamer: beep.Loop(-1, streamer), Paused: true}
	speaker.Play(m.ctrl)
	return nil
}

func (m *Music) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return
	}
	speaker.Lock()
	m.ctrl.Paused = muted
	speaker.Unlock()
}

func (m *Music) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctrl == nil {
		return
	}
	speaker.Clear()
	m.streamer.Close()
	m.ctrl = nil
	m.streamer = nil
	m.file = nil
}
