// Package bus implements the 16-bit address-decode dispatcher that wires
// every other component together: cartridge, PPU, DMA engines, timer,
// joypad, serial, APU, work RAM, and high RAM. Grounded on the teacher's
// internal/mmu.MMU, restructured from its package-level hardware-register
// table and IOBus-interface composition onto concrete per-instance fields
// and an explicit address-decode switch, per this repo's no-global-state
// design note.
package bus

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/thelolagemann/gbcore/internal/apu"
	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/dma"
	"github.com/thelolagemann/gbcore/internal/interrupt"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/internal/ppu"
	"github.com/thelolagemann/gbcore/internal/serial"
	"github.com/thelolagemann/gbcore/internal/state"
	"github.com/thelolagemann/gbcore/internal/timer"
)

// Bus owns the whole 64KiB CPU address space and every peripheral that
// answers part of it. It is the only component that knows the address map;
// every peripheral it wires exposes named register accessors or a small
// ReadByte/WriteByte surface instead of claiming its own slice of the map.
type Bus struct {
	Cart       *cartridge.Cartridge
	PPU        *ppu.PPU
	Interrupts *interrupt.Controller
	Timer      *timer.Controller
	Joypad     *joypad.Controller
	Serial     *serial.Controller
	APU        *apu.Stub
	OAMDMA     *dma.OAM
	HDMA       *dma.HDMA

	wram     [8][0x1000]byte
	wramBank uint8 // SVBK (0xFF70), CGB only; bank 0 reads back as bank 1
	hram     [0x7F]byte

	bootROM    []byte
	bootMapped bool

	isCGB bool // whether this Bus is running as CGB hardware at all
	key0  uint8
	key1  uint8 // KEY1: bit 0 armed, bit 7 current speed (CPU commits the switch)

	log *logrus.Entry
}

// dmgBootROMSize and cgbBootROMSize are the only boot ROM lengths real
// hardware ever shipped: 256 bytes on DMG, 2,304 bytes on CGB. CGB hardware
// also accepts a 256-byte DMG boot ROM when running in compatibility mode.
const (
	dmgBootROMSize = 0x100
	cgbBootROMSize = 0x900
)

// New constructs a Bus around an already-parsed cartridge. bootROM may be
// nil, in which case reads in the boot ROM's address range fall through to
// the cartridge immediately and bootMapped is never set — matching real
// hardware running without a boot ROM installed. isCGBHardware selects
// whether this is a CGB device independent of what the cartridge declares
// support for: a DMG-only cartridge run on CGB hardware still gets
// Compatibility function mode, not Monochrome. If bootROM is non-nil and
// its length matches neither hardware's real boot ROM size, New returns
// cartridge.ErrBootROMSize rather than silently truncating or overrunning it.
func New(cart *cartridge.Cartridge, bootROM []byte, sink apu.Sink, isCGBHardware bool, log *logrus.Entry) (*Bus, error) {
	if len(bootROM) > 0 {
		valid := len(bootROM) == dmgBootROMSize || (isCGBHardware && len(bootROM) == cgbBootROMSize)
		if !valid {
			return nil, fmt.Errorf("bus: boot rom size %d: %w", len(bootROM), cartridge.ErrBootROMSize)
		}
	}

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("component", "bus")

	b := &Bus{
		Cart:       cart,
		PPU:        ppu.New(log),
		Interrupts: interrupt.New(),
		Timer:      timer.New(),
		Joypad:     joypad.New(),
		Serial:     serial.New(),
		APU:        apu.NewStub(sink),
		OAMDMA:     dma.NewOAM(),
		HDMA:       dma.NewHDMA(),
		bootROM:    bootROM,
		bootMapped: len(bootROM) > 0,
		isCGB:      isCGBHardware,
		log:        log,
	}

	switch {
	case !isCGBHardware:
		b.PPU.FunctionMode = ppu.Monochrome
	case cart.Header().GBMode == cartridge.ModeCGBOnly:
		b.PPU.FunctionMode = ppu.Color
	default:
		b.PPU.FunctionMode = ppu.Compatibility
	}

	return b, nil
}

// Tick advances every peripheral by cycles T-cycles in the order spec.md 5
// fixes: timer, PPU, APU, then the DMA engines. HDMA's HBlank-paced copy is
// driven off the PPU's own mode transition rather than a separate clock,
// since on real hardware it is the PPU entering HBlank that releases one
// block of the transfer.
func (b *Bus) Tick(cycles uint8) {
	b.Timer.Tick(cycles, b.Interrupts)

	prevMode := b.PPU.Mode()
	b.PPU.Tick(cycles, b.Interrupts)
	if b.isCGB && prevMode != ppu.HBlank && b.PPU.Mode() == ppu.HBlank {
		b.HDMA.OnHBlank(b, b.PPU.VRAM)
	}

	b.APU.Tick(cycles)

	b.OAMDMA.Tick(cycles, b, b.PPU.OAM)
	b.Serial.Tick(cycles, b.Interrupts)
	b.Cart.Tick(uint32(cycles))
}

// ReadByte implements dma.MemReader by going through Read, so a DMA source
// in VRAM or OAM is subject to the same mode gating as a CPU read; DMA
// sources are never VRAM or OAM in practice.
func (b *Bus) ReadByte(addr uint16) uint8 { return b.Read(addr) }

// Read services a CPU memory read across the full address space.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x00FF:
		if b.bootMapped {
			return b.bootROM[addr]
		}
		return b.Cart.ReadROM(addr)
	case addr <= 0x01FF:
		return b.Cart.ReadROM(addr) // header region: never covered by boot ROM
	case addr <= 0x08FF:
		if b.isCGB && b.bootMapped && len(b.bootROM) > int(addr) {
			return b.bootROM[addr]
		}
		return b.Cart.ReadROM(addr)
	case addr <= 0x7FFF:
		return b.Cart.ReadROM(addr)
	case addr <= 0x9FFF:
		return b.PPU.VRAM.Read(addr, b.PPU.Mode())
	case addr <= 0xBFFF:
		return b.Cart.ReadRAM(addr)
	case addr <= 0xCFFF:
		return b.wram[0][addr-0xC000]
	case addr <= 0xDFFF:
		return b.wram[b.effectiveWRAMBank()][addr-0xD000]
	case addr <= 0xFDFF:
		return b.readEcho(addr)
	case addr <= 0xFE9F:
		return b.PPU.OAM.Read(addr, b.PPU.Mode(), b.OAMDMA.Active())
	case addr <= 0xFEFF:
		return 0xFF // prohibited region
	case addr <= 0xFF7F:
		return b.readIO(addr)
	case addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	default:
		return b.Interrupts.Read(addr)
	}
}

// Write services a CPU memory write across the full address space.
func (b *Bus) Write(addr uint16, v uint8) {
	switch {
	case addr <= 0x7FFF:
		b.Cart.WriteROM(addr, v) // boot ROM is never writable, mapped or not
	case addr <= 0x9FFF:
		b.PPU.VRAM.Write(addr, b.PPU.Mode(), v)
	case addr <= 0xBFFF:
		b.Cart.WriteRAM(addr, v)
	case addr <= 0xCFFF:
		b.wram[0][addr-0xC000] = v
	case addr <= 0xDFFF:
		b.wram[b.effectiveWRAMBank()][addr-0xD000] = v
	case addr <= 0xFDFF:
		b.writeEcho(addr, v)
	case addr <= 0xFE9F:
		b.PPU.OAM.Write(addr, b.PPU.Mode(), b.OAMDMA.Active(), v)
	case addr <= 0xFEFF:
		// prohibited region, dropped
	case addr <= 0xFF7F:
		b.writeIO(addr, v)
	case addr <= 0xFFFE:
		b.hram[addr-0xFF80] = v
	default:
		b.Interrupts.Write(addr, v)
	}
}

// readEcho/writeEcho implement the 0xE000-0xFDFF mirror of
// 0xC000-0xDDFF, 512 bytes short of the full WRAM window.
func (b *Bus) readEcho(addr uint16) uint8     { return b.Read(addr - 0x2000) }
func (b *Bus) writeEcho(addr uint16, v uint8) { b.Write(addr-0x2000, v) }

// effectiveWRAMBank maps SVBK's raw value onto the actual bank index: bank 0
// always reads back as bank 1 (the same "can't bank out the active bank"
// rule CGB applies to this register), and DMG hardware is pinned to bank 1.
func (b *Bus) effectiveWRAMBank() uint8 {
	if !b.isCGB {
		return 1
	}
	if b.wramBank == 0 {
		return 1
	}
	return b.wramBank
}

// components returns every owned component that participates in save-state
// serialization, in the fixed order Save/Load walk them.
func (b *Bus) components() []state.Stater {
	return []state.Stater{b.Cart, b.PPU, b.Interrupts, b.Timer, b.Joypad, b.Serial, b.APU, b.OAMDMA, b.HDMA}
}

func (b *Bus) Save(e *state.Encoder) {
	for _, c := range b.components() {
		c.Save(e)
	}
	for i := range b.wram {
		e.WriteBytes(b.wram[i][:])
	}
	e.Uint8(b.wramBank)
	e.WriteBytes(b.hram[:])
	e.Bool(b.bootMapped)
	e.Uint8(b.key0)
	e.Uint8(b.key1)
}

func (b *Bus) Load(d *state.Decoder) {
	for _, c := range b.components() {
		c.Load(d)
	}
	for i := range b.wram {
		d.Bytes(b.wram[i][:])
	}
	b.wramBank = d.Uint8()
	d.Bytes(b.hram[:])
	b.bootMapped = d.Bool()
	b.key0 = d.Uint8()
	b.key1 = d.Uint8()
}
