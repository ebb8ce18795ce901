package ppu

// nesPalette is the standard 64-entry 2C02 RGB palette (0xRRGGBB), the 2C02
// "2C02G" revision values commonly used by reference emulators.
var nesPalette = [64]uint32{
	0x626262, 0x001fb2, 0x2404c8, 0x5200b2, 0x730076, 0x800024, 0x730b00, 0x522800,
	0x244400, 0x005700, 0x005c00, 0x005324, 0x003c76, 0x000000, 0x000000, 0x000000,
	0xababab, 0x0d57ff, 0x4b30ff, 0x8a13ff, 0xbc08d6, 0xd21269, 0xc72e00, 0x9d5400,
	0x607b00, 0x209800, 0x00a300, 0x009942, 0x007db4, 0x000000, 0x000000, 0x000000,
	0xffffff, 0x53aeff, 0x9085ff, 0xd365ff, 0xff57ff, 0xff5dcf, 0xff7757, 0xfa9e00,
	0xbdc700, 0x7ae700, 0x43f611, 0x26ef7e, 0x2cd5f6, 0x4e4e4e, 0x000000, 0x000000,
	0xffffff, 0xb6e1ff, 0xced1ff, 0xe9c3ff, 0xffbcff, 0xffbdf4, 0xffc6c3, 0xffd59a,
	0xe9e681, 0xcef481, 0xb6fb9a, 0xa9fac3, 0xa9f0f4, 0xb8b8b8, 0x000000, 0x000000,
}

// colorForPixel resolves a 2-bit pixel color index within a 2-bit palette
// selector and a base (background or sprite) offset into a paletteRAM index
// and then an RGB color.
func (p *PPU) colorForPixel(backgroundTable bool, paletteSel, colorIndex uint8) uint32 {
	if colorIndex == 0 {
		return p.rgbFromPaletteByte(p.paletteRAM[0])
	}
	var base uint16
	if !backgroundTable {
		base = 0x10
	}
	idx := base + uint16(paletteSel)*4 + uint16(colorIndex)
	return p.rgbFromPaletteByte(p.paletteRAM[paletteIndex(0x3f00+idx)])
}

func (p *PPU) rgbFromPaletteByte(v uint8) uint32 {
	if p.mask.grayscale {
		v &= 0x30
	}
	return nesPalette[v&0x3f]
}
