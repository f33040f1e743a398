// Package machine owns the bus and drives it to completed frames. No SM83
// decoder lives in this repository: CPU is a collaborator interface the
// host supplies, grounded on spec.md 6's "external collaborator" contract.
// Restructured from the teacher's gameboy.GameBoy.Frame(), which steps a
// concrete *cpu.CPU directly, onto this repo's synchronous tick(cycles)
// style throughout: the CPU returns elapsed T-cycles, and the Machine
// feeds them straight to bus.Tick, never spawning a goroutine or channel
// pipeline, per spec.md 9's explicit "no coroutine pipeline" design note.
package machine

import "github.com/thelolagemann/gbcore/internal/bus"

// ClockSpeed is the Game Boy's fixed system clock rate in Hz.
const ClockSpeed = 4194304

// CPU executes exactly one instruction against b and reports how many
// T-cycles it took, including any interrupt-dispatch overhead. Supplying
// this is the host's responsibility; this package never constructs one.
type CPU interface {
	Step(b *bus.Bus) int
}

// VideoSink receives the completed frame buffer at each frame boundary, per
// spec.md 6's draw(frame_buffer) callback. frame is only valid for the
// duration of the call: the next RunFrame overwrites the same backing
// array, matching spec.md 5's "host must not retain a pointer across the
// draw callback return" rule.
type VideoSink interface {
	Draw(frame []byte)
}

// Machine ties a CPU collaborator to a Bus and drives whole frames. The
// audio path needs no equivalent field here: the bus's apu.Stub already
// holds the host-supplied apu.Sink and calls it directly from Bus.Tick, at
// its own sample cadence rather than once per frame.
type Machine struct {
	Bus   *bus.Bus
	CPU   CPU
	Video VideoSink // optional; nil skips the draw callback
}

// New constructs a Machine around an already-wired bus and CPU.
func New(b *bus.Bus, cpu CPU) *Machine {
	return &Machine{Bus: b, CPU: cpu}
}

// RunFrame steps the CPU and advances the bus until the PPU reports a
// completed frame, then invokes the video callback (if set) and returns.
func (m *Machine) RunFrame() {
	for {
		cycles := m.CPU.Step(m.Bus)
		m.Bus.Tick(uint8(cycles))
		if m.Bus.PPU.FrameDone {
			break
		}
	}
	if m.Video != nil {
		m.Video.Draw(m.Bus.PPU.FrameBuffer[:])
	}
}
