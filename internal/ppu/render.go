package ppu

import "github.com/rambo-emu/rambo/internal/framebuffer"

// renderPixel composites the background and sprite pipelines for visible
// dot x (0-255) of the current scanline, writes the resulting color into
// the framebuffer's write-side buffer, and updates sprite-0-hit (spec.md
// §4.3 "compositing").
func (p *PPU) renderPixel(x int) {
	bgColor, bgPalette := p.backgroundPixel()
	if x < 8 && !p.mask.showBackgroundLeft {
		bgColor = 0
	}

	spColor, spPalette, spBehind, spZero := p.spritePixel(x)
	if x < 8 && !p.mask.showSpritesLeft {
		spColor = 0
	}

	if bgColor != 0 && spColor != 0 && spZero && x != 255 {
		p.spriteZeroHit = true
	}

	var rgb uint32
	switch {
	case bgColor == 0 && spColor == 0:
		rgb = p.colorForPixel(true, 0, 0)
	case bgColor == 0:
		rgb = p.colorForPixel(false, spPalette, spColor)
	case spColor == 0:
		rgb = p.colorForPixel(true, bgPalette, bgColor)
	case spBehind:
		rgb = p.colorForPixel(true, bgPalette, bgColor)
	default:
		rgb = p.colorForPixel(false, spPalette, spColor)
	}

	buf := p.fb.WriteSide()
	buf[p.scanline*framebuffer.Width+x] = rgb
}
