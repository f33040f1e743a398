// Package timer implements the DIV/TIMA/TMA/TAC registers and the
// falling-edge overflow detector that drives the Timer interrupt.
package timer

import (
	"github.com/thelolagemann/gbcore/internal/interrupt"
	"github.com/thelolagemann/gbcore/internal/state"
)

const (
	DividerRegister uint16 = 0xFF04
	CounterRegister uint16 = 0xFF05
	ModuloRegister  uint16 = 0xFF06
	ControlRegister uint16 = 0xFF07
)

// Controller is the DIV/TIMA/TMA/TAC register file. Grounded on the
// teacher's timer.Controller: DIV is a free-running 16-bit counter whose
// top byte is the visible register, TIMA increments on a falling edge of
// one of DIV's bits selected by TAC, and an overflow takes one full T-cycle
// to actually reload from TMA and request the interrupt (the "TIMA reads 0
// for a cycle" hardware quirk).
type Controller struct {
	divider uint16

	counter uint8
	modulo  uint8
	control uint8

	overflowing     bool
	releaseOverflow bool
	fallingEdge     bool
}

func New() *Controller {
	return &Controller{}
}

func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case DividerRegister:
		return uint8(c.divider >> 8)
	case CounterRegister:
		return c.counter
	case ModuloRegister:
		return c.modulo
	case ControlRegister:
		return c.control | 0xF8
	}
	return 0xFF
}

// Write handles a register write. irq is only consulted for the
// DividerRegister case, where resetting DIV can itself trip the falling-edge
// detector (a real hardware glitch some games rely on).
func (c *Controller) Write(addr uint16, v uint8, irq *interrupt.Controller) {
	switch addr {
	case DividerRegister:
		c.divider = 0
		c.step(irq)
	case CounterRegister:
		if c.releaseOverflow {
			return
		}
		c.counter = v
		c.overflowing = false
	case ModuloRegister:
		c.modulo = v
		if c.releaseOverflow {
			c.counter = v
		}
	case ControlRegister:
		c.control = v & 0x07
	}
}

// Tick advances the divider by cycles T-cycles, stepping the edge detector
// once per cycle and requesting Timer on overflow.
func (c *Controller) Tick(cycles uint8, irq *interrupt.Controller) {
	for i := uint8(0); i < cycles; i++ {
		c.step(irq)
	}
}

func (c *Controller) step(irq *interrupt.Controller) {
	c.divider++

	signal := c.divider&c.multiplexerMask() != 0 && c.enabled()

	if c.releaseOverflow {
		c.releaseOverflow = false
	}
	if c.overflowing {
		c.counter = c.modulo
		c.overflowing = false
		c.releaseOverflow = true
		irq.Request(interrupt.Timer)
	}

	if !signal && c.fallingEdge {
		c.counter++
		if c.counter == 0 {
			c.overflowing = true
		}
	}
	c.fallingEdge = signal
}

func (c *Controller) enabled() bool { return c.control&0x04 != 0 }

func (c *Controller) multiplexerMask() uint16 {
	switch c.control & 0x03 {
	case 0:
		return 0x200
	case 1:
		return 0x008
	case 2:
		return 0x020
	default:
		return 0x080
	}
}

func (c *Controller) Save(e *state.Encoder) {
	e.Uint16(c.divider)
	e.Uint8(c.counter)
	e.Uint8(c.modulo)
	e.Uint8(c.control)
	e.Bool(c.overflowing)
	e.Bool(c.releaseOverflow)
	e.Bool(c.fallingEdge)
}

func (c *Controller) Load(d *state.Decoder) {
	c.divider = d.Uint16()
	c.counter = d.Uint8()
	c.modulo = d.Uint8()
	c.control = d.Uint8()
	c.overflowing = d.Bool()
	c.releaseOverflow = d.Bool()
	c.fallingEdge = d.Bool()
}
