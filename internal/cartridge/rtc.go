package cartridge

import (
	"time"

	"github.com/thelolagemann/gbcore/internal/state"
)

// rtcCyclesPerSecond is the machine clock rate (4.194304MHz) used to convert
// ticked t-cycles into elapsed RTC seconds.
const rtcCyclesPerSecond = 4194304

// rtc models the MBC3 real-time clock: five live counter registers
// (seconds, minutes, hours, day-low, day-high) that advance once per
// emulated second, a 5-byte latched snapshot exposed to 0xA000-0xBFFF reads
// when a register is selected, and a halt bit that freezes the counters.
//
// Between saves the clock is advanced by Tick, driven by the same t-cycle
// budget as everything else on the bus. Across saves (e.g. the emulator was
// closed and reopened later), AdvanceReal fast-forwards the clock by the
// wall-clock gap recorded in the save file, matching real hardware's
// always-running battery-backed oscillator.
type rtc struct {
	seconds, minutes, hours uint8
	days                    uint16 // 9 bits; day-high register bit 0 is days bit 8
	halt                    bool
	carry                   bool

	subSecond uint32

	latch      [5]uint8
	latchArmed bool
}

func newRTC() *rtc {
	return &rtc{}
}

func (r *rtc) Tick(cycles uint32) {
	if r.halt {
		return
	}
	r.subSecond += cycles
	for r.subSecond >= rtcCyclesPerSecond {
		r.subSecond -= rtcCyclesPerSecond
		r.advanceSecond()
	}
}

// AdvanceReal fast-forwards the clock by d, used once when a save is loaded
// to account for time elapsed while the emulator was not running.
func (r *rtc) AdvanceReal(d time.Duration) {
	if r.halt || d <= 0 {
		return
	}
	secs := uint64(d / time.Second)
	for i := uint64(0); i < secs; i++ {
		r.advanceSecond()
	}
}

func (r *rtc) advanceSecond() {
	r.seconds++
	if r.seconds < 60 {
		return
	}
	r.seconds = 0
	r.minutes++
	if r.minutes < 60 {
		return
	}
	r.minutes = 0
	r.hours++
	if r.hours < 24 {
		return
	}
	r.hours = 0
	r.days++
	if r.days >= 512 {
		r.days = 0
		r.carry = true
	}
}

// dayHigh packs the day counter's 9th bit, the halt flag (bit 6) and the
// carry flag (bit 7) into the day-high register layout.
func (r *rtc) dayHigh() uint8 {
	var v uint8
	if r.days&0x100 != 0 {
		v |= 0x01
	}
	if r.halt {
		v |= 0x40
	}
	if r.carry {
		v |= 0x80
	}
	return v
}

func (r *rtc) setDayHigh(v uint8) {
	if v&0x01 != 0 {
		r.days |= 0x100
	} else {
		r.days &^= 0x100
	}
	r.halt = v&0x40 != 0
	r.carry = v&0x80 != 0
}

// ReadRTC returns the latched value of register reg (0x08-0x0C), or false
// if reg is out of range.
func (r *rtc) ReadRTC(reg uint8) (uint8, bool) {
	if reg < 0x08 || reg > 0x0C {
		return 0xFF, false
	}
	return r.latch[reg-0x08], true
}

// WriteRTC writes directly into the live counters (not the latch), matching
// how games set the initial clock value. Returns false if reg is out of
// range.
func (r *rtc) WriteRTC(reg uint8, v uint8) bool {
	switch reg {
	case 0x08:
		r.seconds = v % 60
	case 0x09:
		r.minutes = v % 60
	case 0x0A:
		r.hours = v % 24
	case 0x0B:
		r.days = (r.days &^ 0xFF) | uint16(v)
	case 0x0C:
		r.setDayHigh(v)
	default:
		return false
	}
	return true
}

// LatchRTC implements the 0x6000-0x7FFF write-sequence latch: writing 0x00
// arms the latch, and a subsequent write of 0x01 copies the live counters
// into the latched snapshot read by ReadRTC.
func (r *rtc) LatchRTC(prev, cur uint8) {
	if prev == 0x00 && cur == 0x01 {
		r.latch = [5]uint8{r.seconds, r.minutes, r.hours, uint8(r.days), r.dayHigh()}
	}
}

// The accessors below expose raw register values for the save-file format
// of spec.md section 6 (internal/loader), which persists a subset distinct
// from the full save-state encoding above.

func (r *rtc) Seconds() uint8  { return r.seconds }
func (r *rtc) Minutes() uint8  { return r.minutes }
func (r *rtc) Hours() uint8    { return r.hours }
func (r *rtc) DayLow() uint8   { return uint8(r.days) }
func (r *rtc) DayFlags() uint8 { return r.dayHigh() }

func (r *rtc) LatchedSeconds() uint8 { return r.latch[0] }
func (r *rtc) LatchedMinutes() uint8 { return r.latch[1] }
func (r *rtc) LatchedHours() uint8   { return r.latch[2] }

// SetRaw restores the live and latched-seconds/minutes/hours registers from
// a loaded save file; day-low/day-flags are restored directly, and the
// latched day fields are left matching the live ones since the persisted
// format does not carry them separately.
func (r *rtc) SetRaw(seconds, minutes, hours, dayLow, dayFlags, latchSec, latchMin, latchHour uint8) {
	r.seconds = seconds
	r.minutes = minutes
	r.hours = hours
	r.days = uint16(dayLow)
	r.setDayHigh(dayFlags)
	r.latch = [5]uint8{latchSec, latchMin, latchHour, dayLow, r.dayHigh()}
}

func (r *rtc) Save(e *state.Encoder) {
	e.Uint8(r.seconds)
	e.Uint8(r.minutes)
	e.Uint8(r.hours)
	e.Uint16(r.days)
	e.Bool(r.halt)
	e.Bool(r.carry)
	e.Uint32(r.subSecond)
	e.WriteBytes(r.latch[:])
}

func (r *rtc) Load(d *state.Decoder) {
	r.seconds = d.Uint8()
	r.minutes = d.Uint8()
	r.hours = d.Uint8()
	r.days = d.Uint16()
	r.halt = d.Bool()
	r.carry = d.Bool()
	r.subSecond = d.Uint32()
	d.Bytes(r.latch[:])
}
