// Package apu defines the audio output boundary the core exposes to a host,
// and a Stub that runs the real sample-timing clock without synthesizing
// channel waveforms — channel synthesis is explicitly out of scope, but the
// sample-rate and frame-sequencer timing this package drives is real and
// wired into the bus's tick loop like every other peripheral.
package apu

import "github.com/thelolagemann/gbcore/internal/state"

const (
	sampleRate           = 262144 // 262.144 kHz, matching the teacher's APU
	samplePeriod         = 4194304 / sampleRate
	frameSequencerRate   = 512
	frameSequencerPeriod = 4194304 / frameSequencerRate
)

// Sink receives interleaved stereo samples from the APU at its native
// output cadence. The host is responsible for resampling/buffering;
// PushSample must not block.
type Sink interface {
	PushSample(left, right float32)
}

// Stub implements Sink-driving timing (frame sequencer steps, sample
// cadence) without producing audio: it always pushes silence. This keeps
// the external interface and its timing contract real and testable without
// re-deriving the four channel generators the teacher's apu.APU carries.
type Stub struct {
	sink Sink

	powered bool

	frameSequencerCounter uint32
	frameSequencerStep    uint8
	sampleCounter         uint32
}

func NewStub(sink Sink) *Stub {
	return &Stub{
		sink:                  sink,
		frameSequencerCounter: frameSequencerPeriod,
		sampleCounter:         samplePeriod,
	}
}

// Tick advances the frame sequencer and sample clocks by cycles T-cycles,
// pushing a silent sample to the sink every time the sample clock elapses.
func (s *Stub) Tick(cycles uint8) {
	if !s.powered {
		return
	}
	for i := uint8(0); i < cycles; i++ {
		s.frameSequencerCounter--
		if s.frameSequencerCounter == 0 {
			s.frameSequencerCounter = frameSequencerPeriod
			s.frameSequencerStep = (s.frameSequencerStep + 1) & 7
		}
		s.sampleCounter--
		if s.sampleCounter == 0 {
			s.sampleCounter = samplePeriod
			s.sink.PushSample(0, 0)
		}
	}
}

// Read/Write service NR10-NR52 and wave RAM (0xFF10-0xFF3F). The stub
// accepts every write (so games that poll channel registers back don't
// desync) but never produces sound; NR52's power bit is the only one whose
// state actually matters here, since it gates whether Tick runs.
func (s *Stub) Read(addr uint16) uint8 {
	if addr == 0xFF26 {
		b := uint8(0x70)
		if s.powered {
			b |= 0x80
		}
		return b
	}
	return 0xFF
}

func (s *Stub) Write(addr uint16, v uint8) {
	if addr == 0xFF26 {
		s.powered = v&0x80 != 0
	}
}

func (s *Stub) Save(e *state.Encoder) {
	e.Bool(s.powered)
	e.Uint32(s.frameSequencerCounter)
	e.Uint8(s.frameSequencerStep)
	e.Uint32(s.sampleCounter)
}

func (s *Stub) Load(d *state.Decoder) {
	s.powered = d.Bool()
	s.frameSequencerCounter = d.Uint32()
	s.frameSequencerStep = d.Uint8()
	s.sampleCounter = d.Uint32()
}
