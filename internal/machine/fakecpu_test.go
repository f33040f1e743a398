package machine

import (
	"github.com/thelolagemann/gbcore/internal/bus"
	"github.com/thelolagemann/gbcore/internal/interrupt"
)

// constantCPU steps a fixed T-cycle cost every call without touching the
// bus, standing in for a real decoder when a test only needs PPU/timer/DMA
// timing exercised, not instruction semantics.
type constantCPU struct {
	cycles int
}

func (c constantCPU) Step(b *bus.Bus) int { return c.cycles }

// dispatchingCPU is a constantCPU that additionally polls for and
// acknowledges pending interrupts the way a real decoder's main loop does
// between instructions, recording which vector it would have jumped to.
// This exercises the bus/interrupt-controller plumbing a LYC or VBlank
// interrupt relies on without implementing CALL/RETI/IME semantics.
type dispatchingCPU struct {
	cycles     int
	dispatched []uint16
}

func (c *dispatchingCPU) Step(b *bus.Bus) int {
	if src, ok := b.Interrupts.Pending(); ok {
		b.Interrupts.Clear(src)
		c.dispatched = append(c.dispatched, interrupt.Vector[src])
		return 20 // real ISR dispatch cost
	}
	return c.cycles
}
