// Package joypad implements the P1 register (0xFF00) and the host-facing
// button state it reads through.
package joypad

import (
	"github.com/thelolagemann/gbcore/internal/interrupt"
	"github.com/thelolagemann/gbcore/internal/state"
)

// Button identifies one of the eight physical buttons, shared between the
// direction and action nibbles the P1 select bits pick between.
type Button uint8

const (
	ButtonA      Button = 0x01
	ButtonB      Button = 0x02
	ButtonSelect Button = 0x04
	ButtonStart  Button = 0x08
	ButtonRight  Button = 0x10
	ButtonLeft   Button = 0x20
	ButtonUp     Button = 0x40
	ButtonDown   Button = 0x80
)

const Register uint16 = 0xFF00

// Controller holds P1's select bits and the live button bitfield the host
// sets via Press/Release. Grounded on the teacher's joypad.State, with
// Press/Release folded into Request-style interrupt signaling consistent
// with the rest of this repo's peripherals.
type Controller struct {
	selectBits uint8 // bits 4-5 of P1, as written by the CPU
	state      uint8 // 1 = pressed, matching Button bit positions
}

func New() *Controller {
	return &Controller{selectBits: 0x30}
}

// Read returns the P1 register: bit 4 selects direction keys, bit 5 selects
// action keys (active low), and the matching nibble reads back active low.
func (c *Controller) Read() uint8 {
	if c.selectBits&0x10 == 0 {
		return c.selectBits | 0xC0 | (^(c.state >> 4) & 0x0F)
	}
	if c.selectBits&0x20 == 0 {
		return c.selectBits | 0xC0 | (^c.state & 0x0F)
	}
	return c.selectBits | 0xCF
}

func (c *Controller) Write(v uint8) {
	c.selectBits = (c.selectBits & 0xCF) | (v & 0x30)
}

// Press marks a button down and requests Joypad if the CPU is currently
// selecting the nibble the button lives in and it was not already pressed
// (a real hardware edge-detect: held buttons don't re-fire).
func (c *Controller) Press(b Button, irq *interrupt.Controller) {
	wasPressed := c.state&uint8(b) != 0
	c.state |= uint8(b)
	if wasPressed {
		return
	}
	if b <= ButtonStart && c.selectBits&0x20 == 0 {
		irq.Request(interrupt.Joypad)
	} else if b > ButtonStart && c.selectBits&0x10 == 0 {
		irq.Request(interrupt.Joypad)
	}
}

func (c *Controller) Release(b Button) {
	c.state &^= uint8(b)
}

func (c *Controller) Save(e *state.Encoder) {
	e.Uint8(c.selectBits)
	e.Uint8(c.state)
}

func (c *Controller) Load(d *state.Decoder) {
	c.selectBits = d.Uint8()
	c.state = d.Uint8()
}
