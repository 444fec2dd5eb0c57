package audio

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/fft"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Pad synthesizes the ambient background drone through portaudio.
type Pad struct {
	stream *portaudio.Stream
	muted  atomic.Bool

	time        float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int

	mu   sync.Mutex
	last []float64
}

func NewPad() *Pad {
	// 0.6 second delay for a larger space
	delayLen := int(float64(SampleRate) * 0.6)
	p := &Pad{
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
		last:      make([]float64, BufferSize),
	}
	p.muted.Store(true)
	return p
}

func (p *Pad) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	// output only; duplex streams often fail on Linux when devices differ
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start stream: %w", err)
	}
	p.stream = stream
	return nil
}

func (p *Pad) Stop() {
	if p.stream != nil {
		p.stream.Stop()
		p.stream.Close()
		p.stream = nil
		portaudio.Terminate()
	}
}

func (p *Pad) SetMuted(m bool) { p.muted.Store(m) }

// Levels returns the energy of the last output block split into n bands,
// each normalized to [0, 1].
func (p *Pad) Levels(n int) []float64 {
	p.mu.Lock()
	block := make([]float64, len(p.last))
	copy(block, p.last)
	p.mu.Unlock()
	return bandLevels(block, n)
}

func bandLevels(block []float64, n int) []float64 {
	out := make([]float64, n)
	if n <= 0 || len(block) == 0 {
		return out
	}
	for i, v := range block {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(block)-1)))
		block[i] = v * window
	}
	spectrum := fft.FFTReal(block)
	half := len(spectrum) / 2
	per := half / n
	if per == 0 {
		per = 1
	}
	for b := 0; b < n; b++ {
		sum := 0.0
		for i := b * per; i < (b+1)*per && i < half; i++ {
			sum += cmplx.Abs(spectrum[i])
		}
		out[b] = math.Min(sum/float64(per)/8, 1)
	}
	return out
}

// Triangle wave: smooth, flute-like
func triangle(phase float64) float64 {
	ph := phase - math.Floor(phase)
	return 4.0*math.Abs(ph-0.5) - 1.0
}

// one-pole low pass
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

func (p *Pad) process(out [][]float32) {
	// Gm7 add9: G2, Bb2, D3, F3, A3
	freqs := []float64{98.00, 116.54, 146.83, 174.61, 220.00}
	const (
		cutoff = 600.0
		vol    = 0.2
	)
	dt := 1.0 / float64(SampleRate)
	muted := p.muted.Load()

	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < len(out[0]); i++ {
		sampleL, sampleR := 0.0, 0.0
		for j, f := range freqs {
			g := 1.0 / float64(len(freqs))
			lfo := math.Sin(p.time*0.2 + float64(j))
			sampleL += triangle(p.time*f*0.999) * g * (0.7 + 0.3*lfo)
			sampleR += triangle(p.time*f*1.001) * g * (0.7 + 0.3*lfo)
		}

		p.filterState[0] = lpf(sampleL, cutoff, dt, p.filterState[0])
		p.filterState[1] = lpf(sampleR, cutoff, dt, p.filterState[1])

		delayL := p.delayLine[0][p.delayHead]
		delayR := p.delayLine[1][p.delayHead]
		mixL := p.filterState[0] + delayL*0.3 + delayR*0.1
		mixR := p.filterState[1] + delayR*0.3 + delayL*0.1
		p.delayLine[0][p.delayHead] = mixL * 0.7
		p.delayLine[1][p.delayHead] = mixR * 0.7
		p.delayHead = (p.delayHead + 1) % len(p.delayLine[0])

		if muted {
			mixL, mixR = 0, 0
		}
		out[0][i] = float32(mixL * vol)
		out[1][i] = float32(mixR * vol)
		if i < len(p.last) {
			p.last[i] = (mixL + mixR) / 2
		}

		p.time += dt
	}
}
