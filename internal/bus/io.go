package bus

// readIO/writeIO dispatch the 0xFF00-0xFF7F register window to whichever
// peripheral owns each address. Addresses with no handler log at Warn and
// read back 0xFF / drop the write, rather than panicking: unmapped I/O
// reads are a normal occurrence (games probe for hardware that isn't
// there) and must not crash the core.
func (b *Bus) readIO(addr uint16) uint8 {
	switch {
	case addr == 0xFF00:
		return b.Joypad.Read()
	case addr == 0xFF01 || addr == 0xFF02:
		return b.Serial.Read(addr)
	case addr >= 0xFF04 && addr <= 0xFF07:
		return b.Timer.Read(addr)
	case addr == 0xFF0F:
		return b.Interrupts.Read(addr)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return b.APU.Read(addr)
	case addr == 0xFF40:
		return b.PPU.ReadLCDC()
	case addr == 0xFF41:
		return b.PPU.ReadSTAT()
	case addr == 0xFF42:
		return b.PPU.ReadSCY()
	case addr == 0xFF43:
		return b.PPU.ReadSCX()
	case addr == 0xFF44:
		return b.PPU.ReadLY()
	case addr == 0xFF45:
		return b.PPU.ReadLYC()
	case addr == 0xFF46:
		return 0xFF // OAM DMA source register is write-only
	case addr == 0xFF47:
		return b.PPU.ReadBGP()
	case addr == 0xFF48:
		return b.PPU.ReadOBP0()
	case addr == 0xFF49:
		return b.PPU.ReadOBP1()
	case addr == 0xFF4A:
		return b.PPU.ReadWY()
	case addr == 0xFF4B:
		return b.PPU.ReadWX()
	case addr == 0xFF4C:
		return b.key0
	case addr == 0xFF4D:
		return b.key1 | 0x7E
	case addr == 0xFF4F:
		return b.PPU.ReadVBK()
	case addr == 0xFF50:
		if b.bootMapped {
			return 0x00
		}
		return 0x01
	case addr == 0xFF51 || addr == 0xFF52 || addr == 0xFF53 || addr == 0xFF54:
		return 0xFF // HDMA1-4 are write-only
	case addr == 0xFF55:
		return b.HDMA.ReadHDMA5()
	case addr == 0xFF68:
		return b.PPU.ReadBCPS()
	case addr == 0xFF69:
		return b.PPU.ReadBCPD()
	case addr == 0xFF6A:
		return b.PPU.ReadOCPS()
	case addr == 0xFF6B:
		return b.PPU.ReadOCPD()
	case addr == 0xFF6C:
		return b.PPU.ReadOPRI() | 0xFE
	case addr == 0xFF70:
		return b.wramBank | 0xF8
	}
	b.log.WithField("addr", addr).Warn("read from unmapped I/O register")
	return 0xFF
}

func (b *Bus) writeIO(addr uint16, v uint8) {
	switch {
	case addr == 0xFF00:
		b.Joypad.Write(v)
	case addr == 0xFF01 || addr == 0xFF02:
		b.Serial.Write(addr, v)
	case addr >= 0xFF04 && addr <= 0xFF07:
		b.Timer.Write(addr, v, b.Interrupts)
	case addr == 0xFF0F:
		b.Interrupts.Write(addr, v)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.APU.Write(addr, v)
	case addr == 0xFF40:
		b.PPU.WriteLCDC(v)
	case addr == 0xFF41:
		b.PPU.WriteSTAT(v)
	case addr == 0xFF42:
		b.PPU.WriteSCY(v)
	case addr == 0xFF43:
		b.PPU.WriteSCX(v)
	case addr == 0xFF44:
		// LY is read-only; writes are dropped
	case addr == 0xFF45:
		b.PPU.WriteLYC(v)
	case addr == 0xFF46:
		b.OAMDMA.Write(v)
	case addr == 0xFF47:
		b.PPU.WriteBGP(v)
	case addr == 0xFF48:
		b.PPU.WriteOBP0(v)
	case addr == 0xFF49:
		b.PPU.WriteOBP1(v)
	case addr == 0xFF4A:
		b.PPU.WriteWY(v)
	case addr == 0xFF4B:
		b.PPU.WriteWX(v)
	case addr == 0xFF4C:
		b.key0 = v
	case addr == 0xFF4D:
		b.key1 = (b.key1 & 0x80) | (v & 0x01)
	case addr == 0xFF4F:
		b.PPU.WriteVBK(v)
	case addr == 0xFF50:
		if v != 0 {
			b.bootMapped = false
		}
	case addr == 0xFF51:
		b.HDMA.WriteSrcHi(v)
	case addr == 0xFF52:
		b.HDMA.WriteSrcLo(v)
	case addr == 0xFF53:
		b.HDMA.WriteDstHi(v)
	case addr == 0xFF54:
		b.HDMA.WriteDstLo(v)
	case addr == 0xFF55:
		b.HDMA.WriteHDMA5(v, b, b.PPU.VRAM, b.PPU.Mode())
	case addr == 0xFF68:
		b.PPU.WriteBCPS(v)
	case addr == 0xFF69:
		b.PPU.WriteBCPD(v)
	case addr == 0xFF6A:
		b.PPU.WriteOCPS(v)
	case addr == 0xFF6B:
		b.PPU.WriteOCPD(v)
	case addr == 0xFF6C:
		b.PPU.WriteOPRI(v)
	case addr == 0xFF70:
		b.wramBank = v & 0x07
	default:
		b.log.WithField("addr", addr).Warn("write to unmapped I/O register")
	}
}

// SpeedSwitchArmed reports whether KEY1's bit 0 has been set, requesting a
// double-speed switch on the next STOP instruction. DoubleSpeed reports the
// current committed speed. Both are consulted and mutated by the CPU
// collaborator, which owns STOP's semantics; the bus only stores the bits.
func (b *Bus) SpeedSwitchArmed() bool { return b.key1&0x01 != 0 }
func (b *Bus) DoubleSpeed() bool      { return b.key1&0x80 != 0 }

// CommitSpeedSwitch flips the current speed and disarms the request,
// implementing STOP's speed-switch side effect on CGB hardware.
func (b *Bus) CommitSpeedSwitch() {
	if b.key1&0x80 != 0 {
		b.key1 &^= 0x80
	} else {
		b.key1 |= 0x80
	}
	b.key1 &^= 0x01
}
