package ppu

import "github.com/thelolagemann/gbcore/internal/state"

// The remaining register accessors: SCX/SCY/LY/LYC/WX/WY are plain fields
// with read-only LY enforced by the bus never routing CPU writes to it,
// and the CGB-only palette index/data registers and VBK proxy into VRAM
// and the two CGBPalette tables.

func (p *PPU) ReadSCY() uint8    { return p.SCY }
func (p *PPU) WriteSCY(v uint8)  { p.SCY = v }
func (p *PPU) ReadSCX() uint8    { return p.SCX }
func (p *PPU) WriteSCX(v uint8)  { p.SCX = v }
func (p *PPU) ReadLY() uint8     { return p.LY }
func (p *PPU) ReadLYC() uint8    { return p.LYC }
func (p *PPU) WriteLYC(v uint8)  { p.LYC = v; p.checkLYC() }
func (p *PPU) ReadWY() uint8     { return p.WY }
func (p *PPU) WriteWY(v uint8)   { p.WY = v }
func (p *PPU) ReadWX() uint8     { return p.WX }
func (p *PPU) WriteWX(v uint8)   { p.WX = v }

func (p *PPU) ReadBGP() uint8   { return p.BGP.Get() }
func (p *PPU) WriteBGP(v uint8) { p.BGP.Set(v) }
func (p *PPU) ReadOBP0() uint8  { return p.OBP0.Get() }
func (p *PPU) WriteOBP0(v uint8) { p.OBP0.Set(v) }
func (p *PPU) ReadOBP1() uint8  { return p.OBP1.Get() }
func (p *PPU) WriteOBP1(v uint8) { p.OBP1.Set(v) }

func (p *PPU) ReadVBK() uint8   { return 0xFE | p.VRAM.Bank() }
func (p *PPU) WriteVBK(v uint8) { p.VRAM.SelectBank(v & 1) }

func (p *PPU) ReadBCPS() uint8   { return p.BGPalette.Spec() | 0x40 }
func (p *PPU) WriteBCPS(v uint8) { p.BGPalette.SetSpec(v) }
func (p *PPU) ReadBCPD() uint8   { return p.BGPalette.ReadData() }
func (p *PPU) WriteBCPD(v uint8) { p.BGPalette.WriteData(v) }

func (p *PPU) ReadOCPS() uint8   { return p.OBPalette.Spec() | 0x40 }
func (p *PPU) WriteOCPS(v uint8) { p.OBPalette.SetSpec(v) }
func (p *PPU) ReadOCPD() uint8   { return p.OBPalette.ReadData() }
func (p *PPU) WriteOCPD(v uint8) { p.OBPalette.WriteData(v) }

func (p *PPU) ReadOPRI() uint8   { return p.OPRI }
func (p *PPU) WriteOPRI(v uint8) { p.OPRI = v & 1 }

func (p *PPU) Save(e *state.Encoder) {
	p.VRAM.Save(e)
	p.OAM.Save(e)
	p.BGPalette.Save(e)
	p.OBPalette.Save(e)
	p.BGP.Save(e)
	p.OBP0.Save(e)
	p.OBP1.Save(e)
	e.Uint8(p.OPRI)
	e.Uint8(uint8(p.FunctionMode))
	e.Uint8(p.lcdc.Get())
	e.Uint8(p.stat.Read())
	e.Bool(p.prevStatLine)
	e.Uint8(p.SCX)
	e.Uint8(p.SCY)
	e.Uint8(p.LY)
	e.Uint8(p.LYC)
	e.Uint8(p.WX)
	e.Uint8(p.WY)
	e.Uint8(p.wly)
	e.Bool(p.windowDrawnThisFrame)
	e.Uint32(uint32(p.cycles))
}

func (p *PPU) Load(d *state.Decoder) {
	p.VRAM.Load(d)
	p.OAM.Load(d)
	p.BGPalette.Load(d)
	p.OBPalette.Load(d)
	p.BGP.Load(d)
	p.OBP0.Load(d)
	p.OBP1.Load(d)
	p.OPRI = d.Uint8()
	p.FunctionMode = FunctionMode(d.Uint8())
	p.lcdc.Set(d.Uint8())
	p.stat.Write(d.Uint8())
	p.prevStatLine = d.Bool()
	p.SCX = d.Uint8()
	p.SCY = d.Uint8()
	p.LY = d.Uint8()
	p.LYC = d.Uint8()
	p.WX = d.Uint8()
	p.WY = d.Uint8()
	p.wly = d.Uint8()
	p.windowDrawnThisFrame = d.Bool()
	p.cycles = int32(d.Uint32())
}
