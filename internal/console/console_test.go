package console

import (
	"testing"

	"github.com/rambo-emu/rambo/internal/cartridge"
	"github.com/rambo-emu/rambo/internal/clock"
	"github.com/rambo-emu/rambo/internal/framebuffer"
)

// fakeCartridge maps CPU and PPU addresses directly onto flat backing
// arrays, enough to drive a Console through its reset vector and a few
// thousand NOPs without needing a real mapper.
type fakeCartridge struct {
	prg [0x10000]uint8
	chr [0x2000]uint8
	irq bool
}

func (c *fakeCartridge) CPURead(addr uint16) uint8         { return c.prg[addr] }
func (c *fakeCartridge) CPUWrite(addr uint16, value uint8) { c.prg[addr] = value }
func (c *fakeCartridge) PPURead(addr uint16) uint8         { return c.chr[addr&0x1fff] }
func (c *fakeCartridge) PPUWrite(addr uint16, value uint8) { c.chr[addr&0x1fff] = value }
func (c *fakeCartridge) TickIRQCounter()                   {}
func (c *fakeCartridge) PPUA12Rising()                     {}
func (c *fakeCartridge) AcknowledgeIRQ()                   { c.irq = false }
func (c *fakeCartridge) IRQAsserted() bool                 { return c.irq }
func (c *fakeCartridge) Reset()                            {}
func (c *fakeCartridge) Mirroring() cartridge.MirrorMode   { return cartridge.MirrorHorizontal }

func newTestConsole() (*Console, *fakeCartridge) {
	fb := framebuffer.New()
	c := New(clock.NTSC, fb)
	cart := &fakeCartridge{}
	// Reset vector at $FFFC/$FFFD points to $8000, filled with NOPs ($EA).
	for i := 0x8000; i < 0x10000; i++ {
		cart.prg[i] = 0xEA
	}
	cart.prg[0xFFFC] = 0x00
	cart.prg[0xFFFD] = 0x80
	c.LoadCartridge(cart)
	c.PowerOn()
	return c, cart
}

func TestPowerOnLoadsResetVector(t *testing.T) {
	c, _ := newTestConsole()
	if c.CPU.PC != 0x8000 {
		t.Errorf("expected PC loaded from reset vector (0x8000), got 0x%04X", c.CPU.PC)
	}
}

func TestTickAdvancesMasterClock(t *testing.T) {
	c, _ := newTestConsole()
	start := c.Clock.PPUCycles()
	for i := 0; i < 100; i++ {
		c.Tick()
	}
	if got := c.Clock.PPUCycles(); got != start+100 {
		t.Errorf("expected 100 PPU cycles elapsed, got %d", got-start)
	}
}

func TestOAMDMATransferLandsInOAM(t *testing.T) {
	c, _ := newTestConsole()

	// Seed RAM page 2 with a known pattern the DMA will copy into OAM.
	for i := 0; i < 256; i++ {
		c.Bus.Write(0x0200+uint16(i), uint8(i))
	}
	c.Bus.Write(0x2003, 0x00) // OAMADDR = 0
	c.Bus.Write(0x4014, 0x02) // trigger OAM DMA from page 2

	// Run enough dots to cover the full 514-cycle-worst-case stall with some
	// margin (600 CPU cycles, 3 PPU dots per CPU cycle on NTSC).
	for i := 0; i < 600*3; i++ {
		c.Tick()
	}

	c.Bus.Write(0x2003, 0x00)
	for i := 0; i < 256; i++ {
		c.Bus.Write(0x2003, uint8(i)) // $2004 reads do not advance OAMADDR
		if got := c.Bus.Read(0x2004); got != uint8(i) {
			t.Fatalf("OAM byte %d: expected %d, got %d", i, i, got)
			break
		}
	}
}

func TestResetPreservesRAMButReinitializesCPU(t *testing.T) {
	c, _ := newTestConsole()
	c.Bus.Write(0x0010, 0x42)
	c.Reset()
	if c.CPU.PC != 0x8000 {
		t.Errorf("expected reset to reload PC from reset vector, got 0x%04X", c.CPU.PC)
	}
	if got := c.Bus.Read(0x0010); got != 0x42 {
		t.Errorf("expected RAM preserved across reset, got 0x%02X", got)
	}
}

func TestStepFrameAdvancesExactlyOneFrame(t *testing.T) {
	c, _ := newTestConsole()
	start := c.Clock.Frame()
	c.StepFrame()
	if got := c.Clock.Frame(); got != start+1 {
		t.Errorf("expected frame counter to advance by exactly 1, got %d", got-start)
	}
}
