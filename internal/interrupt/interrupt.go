// Package interrupt implements the IF/IE register pair and the five
// interrupt sources the CPU polls between instructions.
package interrupt

import "github.com/thelolagemann/gbcore/internal/state"

// Source identifies one of the five interrupt bits, shared by IF and IE.
type Source uint8

const (
	VBlank Source = iota
	LCDStat
	Timer
	Serial
	Joypad
)

// Vector is the CPU entry point address for each interrupt source.
var Vector = [5]uint16{
	VBlank:  0x0040,
	LCDStat: 0x0048,
	Timer:   0x0050,
	Serial:  0x0058,
	Joypad:  0x0060,
}

const (
	FlagRegister   uint16 = 0xFF0F
	EnableRegister uint16 = 0xFFFF
)

// Controller holds IF (requested, lower 5 bits) and IE (enabled) plus the
// CPU's IME and its one-instruction-delayed-enable flag.
//
// Grounded on the teacher's interrupts.Service, generalized with the
// Source-based Request/Clear API this repo's PPU/timer/serial/joypad
// peripherals share.
type Controller struct {
	flag uint8
	ie   uint8

	IME      bool
	Enabling bool // EI's enable takes effect after the next instruction
}

func New() *Controller {
	return &Controller{}
}

func (c *Controller) Request(s Source) {
	c.flag |= 1 << uint8(s)
}

func (c *Controller) Clear(s Source) {
	c.flag &^= 1 << uint8(s)
}

// Pending returns the highest-priority (lowest source number) interrupt
// that is both requested and enabled, and true if one exists.
func (c *Controller) Pending() (Source, bool) {
	active := c.flag & c.ie & 0x1F
	if active == 0 {
		return 0, false
	}
	for s := Source(0); s <= Joypad; s++ {
		if active&(1<<uint8(s)) != 0 {
			return s, true
		}
	}
	panic("interrupt: unreachable")
}

// Any reports whether any enabled interrupt is pending, without
// identifying which — used to wake the CPU from HALT even when IME is
// clear.
func (c *Controller) Any() bool {
	return c.flag&c.ie&0x1F != 0
}

func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case FlagRegister:
		return c.flag&0x1F | 0xE0
	case EnableRegister:
		return c.ie
	}
	return 0xFF
}

func (c *Controller) Write(addr uint16, v uint8) {
	switch addr {
	case FlagRegister:
		c.flag = v
	case EnableRegister:
		c.ie = v
	}
}

func (c *Controller) Save(e *state.Encoder) {
	e.Uint8(c.flag)
	e.Uint8(c.ie)
	e.Bool(c.IME)
	e.Bool(c.Enabling)
}

func (c *Controller) Load(d *state.Decoder) {
	c.flag = d.Uint8()
	c.ie = d.Uint8()
	c.IME = d.Bool()
	c.Enabling = d.Bool()
}
