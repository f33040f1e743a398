// Package serial implements the SB/SC link-cable registers. No link
// partner is modeled; an internal-clock transfer shifts in 0xFF (an
// unplugged cable's idle line) and still completes and interrupts on
// schedule, since games probe for this to detect a missing link partner.
package serial

import (
	"github.com/thelolagemann/gbcore/internal/interrupt"
	"github.com/thelolagemann/gbcore/internal/state"
)

const (
	DataRegister    uint16 = 0xFF01
	ControlRegister uint16 = 0xFF02

	cyclesPerBit = 512 // internal clock, 8192 Hz at 4.194304 MHz
)

type Controller struct {
	data    uint8
	control uint8

	transferring bool
	bitsLeft     uint8
	cycles       uint16
}

func New() *Controller {
	return &Controller{}
}

func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case DataRegister:
		return c.data
	case ControlRegister:
		return c.control | 0x7E
	}
	return 0xFF
}

func (c *Controller) Write(addr uint16, v uint8) {
	switch addr {
	case DataRegister:
		c.data = v
	case ControlRegister:
		c.control = v
		if v&0x81 == 0x81 { // transfer start + internal clock
			c.transferring = true
			c.bitsLeft = 8
			c.cycles = 0
		}
	}
}

// Tick advances an in-flight internal-clock transfer, shifting in 0xFF one
// bit at a time and requesting Serial once all 8 bits have moved.
func (c *Controller) Tick(cycles uint8, irq *interrupt.Controller) {
	if !c.transferring {
		return
	}
	c.cycles += uint16(cycles)
	for c.cycles >= cyclesPerBit && c.transferring {
		c.cycles -= cyclesPerBit
		c.data = c.data<<1 | 1
		c.bitsLeft--
		if c.bitsLeft == 0 {
			c.transferring = false
			c.control &^= 0x80
			irq.Request(interrupt.Serial)
		}
	}
}

func (c *Controller) Save(e *state.Encoder) {
	e.Uint8(c.data)
	e.Uint8(c.control)
	e.Bool(c.transferring)
	e.Uint8(c.bitsLeft)
	e.Uint16(c.cycles)
}

func (c *Controller) Load(d *state.Decoder) {
	c.data = d.Uint8()
	c.control = d.Uint8()
	c.transferring = d.Bool()
	c.bitsLeft = d.Uint8()
	c.cycles = d.Uint16()
}
