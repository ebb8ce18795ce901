package ppu

import "github.com/rambo-emu/rambo/internal/cartridge"

// backgroundPipeline holds the two 16-bit pattern shift registers and the
// two 8-bit attribute shift registers that feed one background pixel per
// dot, plus the latches used while fetching the next tile.
type backgroundPipeline struct {
	patternLo, patternHi uint16
	attrLo, attrHi       uint16

	ntByte   uint8
	atByte   uint8
	loByte   uint8
	hiByte   uint8
}

// stepBackgroundFetch drives the 8-dot tile fetch cycle (nametable byte,
// attribute byte, pattern low, pattern high) across dots 1-256 and 321-336,
// reloading the shift registers on the dot a fetch completes (spec.md §4.3
// "background pipeline").
func (p *PPU) stepBackgroundFetch(cart cartridge.Cartridge, dot int) {
	fetchWindow := (dot >= 1 && dot <= 256) || (dot >= 321 && dot <= 336)
	if !fetchWindow {
		if dot == 256 {
			p.incrementFineY()
		}
		return
	}

	switch dot % 8 {
	case 1:
		p.reloadShiftRegisters()
		p.bg.ntByte = p.vram[p.nametableOffset(0x2000|(p.v&0x0fff))]
	case 3:
		p.bg.atByte = p.fetchAttributeByte()
	case 5:
		p.bg.loByte = p.fetchPatternByte(cart, false)
	case 7:
		p.bg.hiByte = p.fetchPatternByte(cart, true)
	case 0:
		if dot != 256 {
			p.incrementCoarseX()
		} else {
			p.incrementCoarseX()
			p.incrementFineY()
		}
	}
}

func (p *PPU) fetchAttributeByte() uint8 {
	addr := 0x23c0 | (p.v & 0x0c00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
	raw := p.vram[p.nametableOffset(addr)]
	shift := ((p.v >> 4) & 4) | (p.v & 2)
	return (raw >> shift) & 0x03
}

func (p *PPU) fetchPatternByte(cart cartridge.Cartridge, high bool) uint8 {
	fineY := (p.v >> 12) & 0x07
	base := p.ctrl.bgPattern
	addr := base + uint16(p.bg.ntByte)*16 + fineY
	if high {
		addr += 8
	}
	if cart == nil {
		return 0
	}
	return cart.PPURead(addr)
}

func (p *PPU) reloadShiftRegisters() {
	p.bg.patternLo = (p.bg.patternLo &^ 0x00ff) | uint16(p.bg.loByte)
	p.bg.patternHi = (p.bg.patternHi &^ 0x00ff) | uint16(p.bg.hiByte)
	var loFill, hiFill uint16
	if p.bg.atByte&0x01 != 0 {
		loFill = 0x00ff
	}
	if p.bg.atByte&0x02 != 0 {
		hiFill = 0x00ff
	}
	p.bg.attrLo = (p.bg.attrLo &^ 0x00ff) | loFill
	p.bg.attrHi = (p.bg.attrHi &^ 0x00ff) | hiFill
}

func (p *PPU) shiftBackground() {
	p.bg.patternLo <<= 1
	p.bg.patternHi <<= 1
	p.bg.attrLo <<= 1
	p.bg.attrHi <<= 1
}

func (p *PPU) incrementCoarseX() {
	if p.v&0x001f == 31 {
		p.v &^= 0x001f
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementFineY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03e0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03e0) | (y << 5)
}

// backgroundPixel returns the raw color index (0-3, 0 meaning transparent)
// and the 2-bit palette selector (0-3) for the current fine-x selected bit
// of the shift registers.
func (p *PPU) backgroundPixel() (colorIndex, paletteIndex uint8) {
	if !p.mask.showBackground {
		return 0, 0
	}
	shift := uint(15 - p.x)
	lo := uint8((p.bg.patternLo >> shift) & 1)
	hi := uint8((p.bg.patternHi >> shift) & 1)
	colorIndex = (hi << 1) | lo

	aLo := uint8((p.bg.attrLo >> shift) & 1)
	aHi := uint8((p.bg.attrHi >> shift) & 1)
	paletteIndex = (aHi << 1) | aLo
	return colorIndex, paletteIndex
}
