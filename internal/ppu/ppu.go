// Package ppu implements the 2C02 picture processing unit: a per-dot
// scanline/dot state machine producing one pixel per visible dot, VBlank/NMI
// timing, sprite evaluation, and the CPU-facing $2000-$2007 register file
// (spec.md §4.3). Grounded on RNG999-gones/internal/ppu/ppu.go for overall
// structure and andrewthecodertx-go-nes-emulator/pkg/ppu for the per-file
// split (registers/background/sprites/palette) adopted here.
package ppu

import (
	"github.com/rambo-emu/rambo/internal/cartridge"
	"github.com/rambo-emu/rambo/internal/clock"
	"github.com/rambo-emu/rambo/internal/framebuffer"
	"github.com/rambo-emu/rambo/internal/vblank"
)

// VisibleDots and VisibleScanlines bound the pixels actually written to the
// framebuffer; the remaining dots/scanlines are blanking and pre-render.
const (
	VisibleDots      = 256
	VisibleScanlines = 240
)

// PPU is the 2C02. The cartridge is never stored on the struct: per
// spec.md's "Interdependent modules" design note, the cartridge reference
// is passed into each Tick call instead of owned, avoiding a PPU<->Cartridge
// pointer cycle.
type PPU struct {
	region clock.Region
	fb     *framebuffer.Handoff
	ledger vblank.Ledger

	scanline int
	dot      int
	cycle    uint64
	oddFrame bool

	warmupComplete bool

	ctrl             ctrlRegister
	mask             maskRegister
	pendingMask      uint8
	pendingMaskArmed bool

	oamAddr uint8
	oam     [256]uint8

	vblankFlag     bool
	spriteZeroHit  bool
	spriteOverflow bool
	nmiArmed       bool

	v, t uint16
	x    uint8
	w    bool

	openBus uint8

	mirror     cartridge.MirrorMode
	vram       [2048]uint8
	paletteRAM [32]uint8

	readBuffer uint8

	bg  backgroundPipeline
	spr spritePipeline
}

// New returns a PPU wired to the given framebuffer handoff, reset to
// power-on state.
func New(region clock.Region, fb *framebuffer.Handoff) *PPU {
	p := &PPU{region: region, fb: fb}
	p.Reset()
	return p
}

// Reset restores power-on/reset internal state. OAM and VRAM contents are
// left untouched, matching real 2C02 reset behavior; PPUCTRL/PPUMASK and the
// scroll/address write latch are cleared.
func (p *PPU) Reset() {
	p.scanline = p.region.ScanlinesPerFrame() - 1
	p.dot = 0
	p.ctrl = ctrlRegister{}
	p.mask = maskRegister{}
	p.pendingMaskArmed = false
	p.vblankFlag = false
	p.spriteZeroHit = false
	p.spriteOverflow = false
	p.nmiArmed = false
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.readBuffer = 0
	p.ledger.Reset()
	p.bg = backgroundPipeline{}
	p.spr = spritePipeline{}
}

// CompleteWarmup marks the ~29658 CPU cycle post-power-on warmup period as
// elapsed, after which PPUCTRL/PPUMASK/PPUSCROLL/PPUADDR writes take effect
// (spec.md §4.3 "warmup gating").
func (p *PPU) CompleteWarmup() { p.warmupComplete = true }

func (p *PPU) renderingEnabled() bool {
	return p.mask.showBackground || p.mask.showSprites
}

// NMILine reports the current NMI output level, already incorporating the
// once-per-VBlank-window suppression rule (spec.md §8): the first cycle at
// which nmi_enable && vblank becomes true during a VBlank window produces
// exactly one asserted cycle; subsequent re-enables within the same window
// produce none, since re-arming only happens on the next VBlank set.
func (p *PPU) NMILine() bool {
	raw := p.ctrl.nmiEnable && p.vblankFlag
	if raw && p.nmiArmed {
		p.nmiArmed = false
		return true
	}
	return false
}

// Ledger exposes the VBlank event ledger for diagnostics and tests.
func (p *PPU) Ledger() *vblank.Ledger { return &p.ledger }

// Cycle returns the total PPU cycle count since the PPU was created (Reset
// does not clear it), the time base used by the VBlank ledger.
func (p *PPU) Cycle() uint64 { return p.cycle }

// Tick advances the PPU by exactly one dot, driving the scanline/dot state
// machine, the background/sprite pipelines, and VBlank/NMI timing. cart
// supplies pattern-table and nametable-mirroring data for this dot's
// fetches; a nil cart is valid only before a cartridge is inserted and
// produces open pattern data (reads as 0).
func (p *PPU) Tick(cart cartridge.Cartridge) {
	p.cycle++

	if cart != nil {
		p.mirror = cart.Mirroring()
	}

	if p.pendingMaskArmed {
		p.mask = decodeMask(p.pendingMask)
		p.pendingMaskArmed = false
	}

	lastScanline := p.region.ScanlinesPerFrame() - 1
	switch {
	case p.scanline == lastScanline:
		p.tickPreRender(cart)
	case p.scanline >= 0 && p.scanline < VisibleScanlines:
		p.tickVisible(cart)
	case p.scanline == VisibleScanlines:
		// post-render: idle
	case p.scanline == VisibleScanlines+1:
		if p.dot == 1 {
			p.enterVBlank()
		}
	}

	p.advanceDot()
}

func (p *PPU) advanceDot() {
	lastDot := clock.DotsPerScanline - 1
	lastScanline := p.region.ScanlinesPerFrame() - 1

	if p.scanline == lastScanline && p.dot == lastDot-1 &&
		p.region == clock.NTSC && p.oddFrame && p.mask.showBackground {
		// NTSC odd-frame dot skip: the pre-render scanline is one dot
		// short when background rendering is on.
		p.dot = 0
		p.scanline = 0
		p.oddFrame = !p.oddFrame
		return
	}

	p.dot++
	if p.dot > lastDot {
		p.dot = 0
		p.scanline++
		if p.scanline > lastScanline {
			p.scanline = 0
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *PPU) enterVBlank() {
	p.vblankFlag = true
	p.nmiArmed = true
	p.ledger.RecordSet(p.cycle)
	p.fb.Publish()
}

func (p *PPU) tickPreRender(cart cartridge.Cartridge) {
	if p.dot == 1 {
		p.vblankFlag = false
		p.spriteZeroHit = false
		p.spriteOverflow = false
		p.ledger.RecordClear(p.cycle)
	}
	if p.renderingEnabled() {
		p.stepBackgroundFetch(cart, p.dot)
		if p.dot == 257 {
			p.copyHorizontalScroll()
		}
		if p.dot >= 280 && p.dot <= 304 {
			p.copyVerticalScroll()
		}
	}
	if p.dot >= 1 && p.dot <= 256 {
		p.shiftBackground()
	}
}

func (p *PPU) tickVisible(cart cartridge.Cartridge) {
	if p.renderingEnabled() {
		p.stepBackgroundFetch(cart, p.dot)
		p.stepSpriteEvaluation(p.dot)
		if p.dot == 257 {
			p.copyHorizontalScroll()
			p.fetchSpritePatterns(cart)
		}
	}

	if p.dot >= 1 && p.dot <= VisibleDots {
		p.renderPixel(p.dot - 1)
		p.shiftBackground()
	}
}
