package ppu

// ctrlRegister decodes $2000 PPUCTRL.
type ctrlRegister struct {
	baseNametable  uint8 // bits 0-1
	vramIncrement  uint8 // 1 or 32
	spritePattern  uint16
	bgPattern      uint16
	spriteSize8x16 bool
	nmiEnable      bool
}

func decodeCtrl(v uint8) ctrlRegister {
	c := ctrlRegister{
		baseNametable:  v & 0x03,
		vramIncrement:  1,
		spritePattern:  0x0000,
		bgPattern:      0x0000,
		spriteSize8x16: v&0x20 != 0,
		nmiEnable:      v&0x80 != 0,
	}
	if v&0x04 != 0 {
		c.vramIncrement = 32
	}
	if v&0x08 != 0 {
		c.spritePattern = 0x1000
	}
	if v&0x10 != 0 {
		c.bgPattern = 0x1000
	}
	return c
}

// maskRegister decodes $2001 PPUMASK.
type maskRegister struct {
	grayscale         bool
	showBackgroundLeft bool
	showSpritesLeft    bool
	showBackground     bool
	showSprites        bool
	emphasizeRed       bool
	emphasizeGreen     bool
	emphasizeBlue      bool
}

func decodeMask(v uint8) maskRegister {
	return maskRegister{
		grayscale:          v&0x01 != 0,
		showBackgroundLeft: v&0x02 != 0,
		showSpritesLeft:    v&0x04 != 0,
		showBackground:     v&0x08 != 0,
		showSprites:        v&0x10 != 0,
		emphasizeRed:       v&0x20 != 0,
		emphasizeGreen:     v&0x40 != 0,
		emphasizeBlue:      v&0x80 != 0,
	}
}

// ReadRegister services a CPU read of $2000-$2007 (mirrored every 8 bytes
// through $3FFF). Reads of write-only registers return the PPU open-bus
// latch; reads that touch readable registers refresh the latch with the
// bits that register actually drives.
func (p *PPU) ReadRegister(reg uint16, cart cartridgeReader) uint8 {
	switch reg & 7 {
	case 2: // PPUSTATUS
		return p.readStatus()
	case 4: // OAMDATA
		v := p.oam[p.oamAddr]
		p.openBus = v
		return v
	case 7: // PPUDATA
		return p.readData(cart)
	default:
		return p.openBus
	}
}

// cartridgeReader is the subset of cartridge.Cartridge the register file
// needs for PPUDATA reads; kept narrow so this file only depends on methods
// it actually calls.
type cartridgeReader interface {
	PPURead(addr uint16) uint8
}

func (p *PPU) readStatus() uint8 {
	var status uint8
	if p.spriteOverflow {
		status |= 0x20
	}
	if p.spriteZeroHit {
		status |= 0x40
	}

	race := p.scanline == VisibleScanlines+1 && (p.dot == 0 || p.dot == 1)
	switch {
	case p.scanline == VisibleScanlines+1 && p.dot == 0:
		// One PPU cycle before the flag would be set: the real 2C02
		// race condition suppresses the set for the rest of this frame.
		p.vblankFlag = false
		p.nmiArmed = false
	case p.vblankFlag:
		status |= 0x80
	}
	if race {
		p.ledger.RecordRead(p.cycle, true)
		if p.scanline == VisibleScanlines+1 && p.dot == 1 {
			// Flag reads as set this exact cycle, but the read racing
			// the set suppresses the NMI it would otherwise trigger.
			p.nmiArmed = false
		}
	} else {
		p.ledger.RecordRead(p.cycle, false)
	}

	p.vblankFlag = p.vblankFlag && !(p.scanline == VisibleScanlines+1 && p.dot == 1)
	p.w = false
	p.openBus = (p.openBus & 0x1f) | (status & 0xe0)
	return p.openBus
}

func (p *PPU) readData(cart cartridgeReader) uint8 {
	addr := p.v & 0x3fff
	var value uint8
	if addr >= 0x3f00 {
		value = p.readPalette(addr)
		p.readBuffer = p.readNonPalette(addr, cart)
	} else {
		value = p.readBuffer
		p.readBuffer = p.readNonPalette(addr, cart)
	}
	p.openBus = value
	p.incrementV()
	return value
}

func (p *PPU) readNonPalette(addr uint16, cart cartridgeReader) uint8 {
	if addr < 0x2000 {
		if cart == nil {
			return 0
		}
		return cart.PPURead(addr)
	}
	return p.vram[p.nametableOffset(addr)]
}

func (p *PPU) readPalette(addr uint16) uint8 {
	return p.paletteRAM[paletteIndex(addr)]
}

func paletteIndex(addr uint16) uint16 {
	idx := addr & 0x1f
	if idx >= 0x10 && idx%4 == 0 {
		idx -= 0x10
	}
	return idx
}

// WriteRegister services a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(reg uint16, value uint8, cart cartridgeWriter) {
	p.openBus = value
	switch reg & 7 {
	case 0: // PPUCTRL
		if !p.warmupComplete {
			return
		}
		p.ctrl = decodeCtrl(value)
		p.t = (p.t &^ 0x0c00) | (uint16(value&0x03) << 10)
	case 1: // PPUMASK
		if !p.warmupComplete {
			return
		}
		p.pendingMask = value
		p.pendingMaskArmed = true
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.warmupComplete {
			return
		}
		if !p.w {
			p.t = (p.t &^ 0x001f) | uint16(value>>3)
			p.x = value & 0x07
		} else {
			p.t = (p.t &^ 0x73e0) | (uint16(value&0x07) << 12) | (uint16(value&0xf8) << 2)
		}
		p.w = !p.w
	case 6: // PPUADDR
		if !p.warmupComplete {
			return
		}
		if !p.w {
			p.t = (p.t &^ 0x7f00) | (uint16(value&0x3f) << 8)
		} else {
			p.t = (p.t &^ 0x00ff) | uint16(value)
			p.v = p.t
			if cart != nil {
				p.notifyA12(cart)
			}
		}
		p.w = !p.w
	case 7: // PPUDATA
		p.writeData(value, cart)
	}
}

type cartridgeWriter interface {
	cartridgeReader
	PPUWrite(addr uint16, value uint8)
	PPUA12Rising()
}

func (p *PPU) writeData(value uint8, cart cartridgeWriter) {
	addr := p.v & 0x3fff
	if addr >= 0x3f00 {
		p.paletteRAM[paletteIndex(addr)] = value
	} else if addr < 0x2000 {
		if cart != nil {
			cart.PPUWrite(addr, value)
		}
	} else {
		p.vram[p.nametableOffset(addr)] = value
	}
	p.incrementV()
}

func (p *PPU) incrementV() {
	p.v = (p.v + uint16(p.ctrl.vramIncrement)) & 0x7fff
}

func (p *PPU) nametableOffset(addr uint16) uint16 {
	page, offset := p.mirror.NametableIndex(addr)
	return uint16(page)*0x400 + offset
}

func (p *PPU) notifyA12(cart cartridgeWriter) {
	if p.v&0x1000 != 0 {
		cart.PPUA12Rising()
	}
}

func (p *PPU) copyHorizontalScroll() {
	p.v = (p.v &^ 0x041f) | (p.t & 0x041f)
}

func (p *PPU) copyVerticalScroll() {
	p.v = (p.v &^ 0x7be0) | (p.t & 0x7be0)
}
