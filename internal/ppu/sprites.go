package ppu

import "github.com/rambo-emu/rambo/internal/cartridge"

// spritePipeline holds the current scanline's sprite evaluation results:
// up to 8 sprites selected out of 64, their fetched pattern bytes, and
// whether sprite 0 is among them (needed for sprite-0-hit detection).
type spritePipeline struct {
	secondaryOAM [32]uint8
	count        int
	indices      [8]uint8
	patternsLo   [8]uint8
	patternsHi   [8]uint8
	attrs        [8]uint8
	xPositions   [8]uint8
	zeroPresent  bool

	evalDone      bool
	evalScanline  int
}

func (p *PPU) spriteHeight() int {
	if p.ctrl.spriteSize8x16 {
		return 16
	}
	return 8
}

// stepSpriteEvaluation performs sprite evaluation for the NEXT scanline's
// rendering, batched at dot 65 for simplicity rather than modeled across
// dots 65-256 one OAM entry at a time; the overflow flag is still produced
// with the correct "more than 8 sprites in range" semantics, though not the
// hardware diagonal-scan overflow bug.
func (p *PPU) stepSpriteEvaluation(dot int) {
	if dot == 1 {
		for i := range p.spr.secondaryOAM {
			p.spr.secondaryOAM[i] = 0xff
		}
		p.spr.count = 0
		p.spr.zeroPresent = false
	}
	if dot != 65 {
		return
	}

	height := p.spriteHeight()
	targetLine := p.scanline + 1
	found := 0
	overflow := false
	i := 0
	for ; i < 64 && found < 8; i++ {
		y := int(p.oam[i*4])
		if targetLine < y || targetLine >= y+height {
			continue
		}
		base := found * 4
		p.spr.secondaryOAM[base] = p.oam[i*4]
		p.spr.secondaryOAM[base+1] = p.oam[i*4+1]
		p.spr.secondaryOAM[base+2] = p.oam[i*4+2]
		p.spr.secondaryOAM[base+3] = p.oam[i*4+3]
		p.spr.indices[found] = uint8(i)
		if i == 0 {
			p.spr.zeroPresent = true
		}
		found++
	}
	for ; found == 8 && i < 64; i++ {
		y := int(p.oam[i*4])
		if targetLine >= y && targetLine < y+height {
			overflow = true
			break
		}
	}
	p.spr.count = found
	if overflow {
		p.spriteOverflow = true
	}
}

// fetchSpritePatterns fetches the CHR pattern bytes for each sprite chosen
// by evaluation, normally done across dots 257-320; batched at dot 257 for
// the same reason stepSpriteEvaluation batches at dot 65.
func (p *PPU) fetchSpritePatterns(cart cartridge.Cartridge) {
	height := p.spriteHeight()
	targetLine := p.scanline + 1
	for i := 0; i < p.spr.count; i++ {
		y := p.spr.secondaryOAM[i*4]
		tile := p.spr.secondaryOAM[i*4+1]
		attr := p.spr.secondaryOAM[i*4+2]
		x := p.spr.secondaryOAM[i*4+3]

		row := targetLine - int(y)
		flipV := attr&0x80 != 0
		if flipV {
			row = height - 1 - row
		}

		var table uint16
		var index uint8
		if height == 16 {
			table = uint16(tile&0x01) * 0x1000
			index = tile &^ 0x01
			if row >= 8 {
				index++
				row -= 8
			}
		} else {
			table = p.ctrl.spritePattern
			index = tile
		}

		addr := table + uint16(index)*16 + uint16(row)
		var lo, hi uint8
		if cart != nil {
			lo = cart.PPURead(addr)
			hi = cart.PPURead(addr + 8)
		}
		if attr&0x40 != 0 {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}

		p.spr.patternsLo[i] = lo
		p.spr.patternsHi[i] = hi
		p.spr.attrs[i] = attr
		p.spr.xPositions[i] = x
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// spritePixel returns the color index, palette selector, priority-behind
// flag and whether this pixel came from sprite 0, for the sprite (if any)
// covering the given visible x coordinate.
func (p *PPU) spritePixel(x int) (colorIndex, paletteSel uint8, behindBackground, isSpriteZero bool) {
	if !p.mask.showSprites {
		return 0, 0, false, false
	}
	for i := 0; i < p.spr.count; i++ {
		spriteX := int(p.spr.xPositions[i])
		offset := x - spriteX
		if offset < 0 || offset > 7 {
			continue
		}
		bit := uint(7 - offset)
		lo := (p.spr.patternsLo[i] >> bit) & 1
		hi := (p.spr.patternsHi[i] >> bit) & 1
		color := (hi << 1) | lo
		if color == 0 {
			continue
		}
		attr := p.spr.attrs[i]
		return color, attr & 0x03, attr&0x20 != 0, p.spr.zeroPresent && i == 0
	}
	return 0, 0, false, false
}
