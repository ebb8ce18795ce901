// Package console implements the aggregate emulation state and the master
// tick loop wiring MasterClock, CPU, PPU, APU, Bus, the DMA engines and the
// cartridge together (spec.md §3 "single aggregate emulation state", §4.1
// Tick Orchestration). Grounded on RNG999-gones/internal/bus/bus.go's
// component-ownership role (the teacher's Bus played this part, owning
// CPU/PPU/APU/Memory/Input) and RNG999-gones/internal/app/emulator.go's
// Run-loop naming (StepFrame, Reset), restructured around single-PPU-dot
// Tick calls instead of whole-instruction steps so DMA cycle-stealing and
// interrupt polling land on the exact cycles spec.md §4.1 requires.
package console

import (
	"github.com/rambo-emu/rambo/internal/apu"
	"github.com/rambo-emu/rambo/internal/bus"
	"github.com/rambo-emu/rambo/internal/cartridge"
	"github.com/rambo-emu/rambo/internal/clock"
	"github.com/rambo-emu/rambo/internal/cpu"
	"github.com/rambo-emu/rambo/internal/dma"
	"github.com/rambo-emu/rambo/internal/framebuffer"
	"github.com/rambo-emu/rambo/internal/input"
	"github.com/rambo-emu/rambo/internal/interrupt"
	"github.com/rambo-emu/rambo/internal/ppu"
)

// Console owns every component of one emulated NES and drives them in
// lock-step through Tick. There is exactly one aggregate value per emulated
// machine; mutation happens only from the single goroutine that calls Tick
// (spec.md §5).
type Console struct {
	Clock *clock.MasterClock
	CPU   *cpu.CPU
	PPU   *ppu.PPU
	APU   *apu.APU
	Bus   *bus.Bus
	Input *input.State
	FB    *framebuffer.Handoff

	cart cartridge.Cartridge
	dma  dma.Controller

	region clock.Region

	lastScanline int
}

// New constructs a Console for the given timing region, wired to fb as its
// framebuffer handoff. No cartridge is attached yet; call LoadCartridge
// before PowerOn.
func New(region clock.Region, fb *framebuffer.Handoff) *Console {
	p := ppu.New(region, fb)
	a := apu.New()
	in := input.NewState()
	b := bus.New(p, a, in)

	c := &Console{
		Clock:  clock.New(region),
		PPU:    p,
		APU:    a,
		Input:  in,
		Bus:    b,
		FB:     fb,
		region: region,
	}
	c.CPU = cpu.New(b)
	c.lastScanline = p.Scanline()
	return c
}

// LoadCartridge attaches cart to the bus and PPU pattern-table path. The
// caller must call PowerOn (cold boot) or Reset (warm boot) afterward to
// (re)seed CPU state from the new cartridge's reset vector.
func (c *Console) LoadCartridge(cart cartridge.Cartridge) {
	c.cart = cart
	c.Bus.AttachCartridge(cart)
}

// PowerOn performs a cold boot: deterministic RAM fill, then a reset
// sequence that loads PC from the cartridge's reset vector.
func (c *Console) PowerOn() {
	c.Bus.PowerOn()
	c.Clock.Reset()
	c.Reset()
}

// Reset performs a warm reset: CPU/PPU/APU/Input reinitialize, RAM is left
// untouched.
func (c *Console) Reset() {
	c.Bus.Reset()
	c.CPU.Reset()
	if c.cart != nil {
		c.cart.Reset()
	}
	c.dma = dma.Controller{}
	c.lastScanline = c.PPU.Scanline()
}

// Tick advances the machine by exactly one PPU dot, implementing spec.md
// §4.1's tick order: the PPU always advances; on CPU-phase cycles, interrupt
// lines are refreshed, pending DMA is armed and serviced ahead of CPU
// execution, the CPU advances one cycle (which may be a stall, an
// in-flight-instruction countdown, an interrupt dispatch, or a fresh
// opcode), and finally the APU advances one cycle.
func (c *Console) Tick() {
	cpuPhase := c.Clock.Tick()
	c.PPU.Tick(c.cart)

	if c.PPU.Scanline() == 0 && c.lastScanline != 0 {
		c.Clock.AdvanceFrame()
	}
	c.lastScanline = c.PPU.Scanline()

	if !cpuPhase {
		return
	}

	cartIRQ := false
	if c.cart != nil {
		cartIRQ = c.cart.IRQAsserted()
	}
	c.CPU.UpdateInterruptLines(interrupt.Lines{
		NMI:          c.PPU.NMILine(),
		FrameIRQ:     c.APU.GetFrameIRQ(),
		DMCIRQ:       c.APU.GetDMCIRQ(),
		CartridgeIRQ: cartIRQ,
	})

	c.armDMA()
	if c.dma.Busy() {
		sampleByte, done := c.dma.Tick(c.Bus, c.Bus)
		if done {
			c.APU.ProvideDMCSample(sampleByte)
		}
	}

	c.CPU.Tick()
	c.APU.Tick()
}

// armDMA starts a newly-eligible DMA transfer. Per spec.md §4.6, an OAM DMA
// transfer in flight runs to completion before a DMC DMA request (even
// though DMC DMA is nominally higher priority, being caused by APU timing
// rather than a CPU write) is serviced, since the OAM engine has no RDY-able
// midpoint to inject a second stall into. A new transfer is only armed when
// neither engine currently holds the bus.
func (c *Console) armDMA() {
	if c.dma.Busy() {
		return
	}
	if c.Bus.OAMDMARequested() {
		page := c.Bus.ConsumeOAMDMARequest()
		oddStart := c.CPU.Cycles()%2 == 1
		c.dma.OAM.Start(page, oddStart)
		c.CPU.Stall(c.dma.OAM.StallCycles())
		return
	}
	if c.APU.NeedsDMCSample() {
		c.APU.BeginDMCFetch()
		c.dma.DMC.Start(c.APU.DMCSampleAddress(), c.Bus.LastReadAddress(), c.region)
		c.CPU.Stall(4)
	}
}

// StepFrame runs the console forward until exactly one more frame has
// completed.
func (c *Console) StepFrame() {
	targetFrame := c.Clock.Frame() + 1
	for c.Clock.Frame() < targetFrame {
		c.Tick()
	}
}
