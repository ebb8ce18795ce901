package ppu

// WriteOAMDMAByte writes one byte into OAM at the current OAMADDR and
// advances it, used by the OAM DMA engine (spec.md §4.5) rather than the
// CPU bus. Identical effect to a CPU write of $2004.
func (p *PPU) WriteOAMDMAByte(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

// Scanline and Dot expose the current timing position for diagnostics and
// tests.
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.dot }

// VBlank reports the raw internal VBlank flag (not the read-and-clear
// PPUSTATUS view).
func (p *PPU) VBlank() bool { return p.vblankFlag }

// SpriteZeroHit and SpriteOverflow expose the corresponding PPUSTATUS bits
// for diagnostics and tests.
func (p *PPU) SpriteZeroHit() bool  { return p.spriteZeroHit }
func (p *PPU) SpriteOverflow() bool { return p.spriteOverflow }
