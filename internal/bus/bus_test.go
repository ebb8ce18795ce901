package bus

import (
	"testing"

	"github.com/rambo-emu/rambo/internal/apu"
	"github.com/rambo-emu/rambo/internal/cartridge"
	"github.com/rambo-emu/rambo/internal/clock"
	"github.com/rambo-emu/rambo/internal/framebuffer"
	"github.com/rambo-emu/rambo/internal/input"
	"github.com/rambo-emu/rambo/internal/ppu"
)

// fakeCartridge is a minimal cartridge.Cartridge double for exercising the
// bus's $4020-$FFFF routing without pulling in a real mapper.
type fakeCartridge struct {
	prg       [0x10000]uint8
	chr       [0x2000]uint8
	irq       bool
	a12Rising int
}

func (c *fakeCartridge) CPURead(addr uint16) uint8          { return c.prg[addr] }
func (c *fakeCartridge) CPUWrite(addr uint16, value uint8)  { c.prg[addr] = value }
func (c *fakeCartridge) PPURead(addr uint16) uint8          { return c.chr[addr&0x1fff] }
func (c *fakeCartridge) PPUWrite(addr uint16, value uint8)  { c.chr[addr&0x1fff] = value }
func (c *fakeCartridge) TickIRQCounter()                    {}
func (c *fakeCartridge) PPUA12Rising()                      { c.a12Rising++ }
func (c *fakeCartridge) AcknowledgeIRQ()                    { c.irq = false }
func (c *fakeCartridge) IRQAsserted() bool                  { return c.irq }
func (c *fakeCartridge) Reset()                             {}
func (c *fakeCartridge) Mirroring() cartridge.MirrorMode    { return cartridge.MirrorHorizontal }

func newTestBus() (*Bus, *fakeCartridge) {
	fb := framebuffer.New()
	p := ppu.New(clock.NTSC, fb)
	a := apu.New()
	in := input.NewState()
	b := New(p, a, in)
	cart := &fakeCartridge{}
	b.AttachCartridge(cart)
	return b, cart
}

func TestRAMReadWriteAndMirroring(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x0042, 0x7a)
	for _, mirror := range []uint16{0x0042, 0x0842, 0x1042, 0x1842} {
		if got := b.Read(mirror); got != 0x7a {
			t.Errorf("expected RAM mirror at $%04X to read 0x7a, got 0x%02X", mirror, got)
		}
	}
}

func TestCartridgeRangeRoutesToMapper(t *testing.T) {
	b, cart := newTestBus()
	cart.prg[0x8000] = 0x55
	if got := b.Read(0x8000); got != 0x55 {
		t.Errorf("expected cartridge PRG byte, got 0x%02X", got)
	}
	b.Write(0xC000, 0x99)
	if cart.prg[0xC000] != 0x99 {
		t.Errorf("expected cartridge write to reach mapper")
	}
}

func TestOAMDMATriggerSetsPendingRequest(t *testing.T) {
	b, _ := newTestBus()
	if b.OAMDMARequested() {
		t.Fatalf("expected no pending OAM DMA before any $4014 write")
	}
	b.Write(0x4014, 0x03)
	if !b.OAMDMARequested() {
		t.Errorf("expected $4014 write to set a pending OAM DMA request")
	}
	if page := b.ConsumeOAMDMARequest(); page != 0x03 {
		t.Errorf("expected source page 0x03, got 0x%02X", page)
	}
	if b.OAMDMARequested() {
		t.Errorf("expected ConsumeOAMDMARequest to clear the pending flag")
	}
}

func TestOpenBusLatchRetainsLastDrivenValue(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x4000, 0xAB) // write-only APU register, drives the latch
	if got := b.Read(0x4018); got != 0xAB {
		t.Errorf("expected unmapped read to return the open-bus latch, got 0x%02X", got)
	}
}

func TestPowerOnFillsRAMDeterministically(t *testing.T) {
	b1, _ := newTestBus()
	b1.PowerOn()
	b2, _ := newTestBus()
	b2.PowerOn()
	if b1.ram != b2.ram {
		t.Errorf("expected PowerOn to produce identical RAM contents across runs")
	}
	allZero := true
	for _, v := range b1.ram {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Errorf("expected PowerOn to fill RAM with a non-trivial pattern")
	}
}

func TestResetLeavesRAMUntouched(t *testing.T) {
	b, _ := newTestBus()
	b.PowerOn()
	b.Write(0x0010, 0x42)
	b.Reset()
	if got := b.Read(0x0010); got != 0x42 {
		t.Errorf("expected Reset to preserve RAM contents, got 0x%02X", got)
	}
}

func TestLastReadAddressTracksMostRecentRead(t *testing.T) {
	b, _ := newTestBus()
	b.Read(0x0123)
	if got := b.LastReadAddress(); got != 0x0123 {
		t.Errorf("expected last read address 0x0123, got 0x%04X", got)
	}
	b.Write(0x0456, 0xFF) // writes must not disturb the read latch
	if got := b.LastReadAddress(); got != 0x0123 {
		t.Errorf("expected write to leave last read address unchanged, got 0x%04X", got)
	}
}

func TestControllerStrobeRoutesThroughInput(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x4016, 0x01)
	b.Write(0x4016, 0x00)
	// With no buttons pressed, the first read returns bit0 clear.
	if got := b.Read(0x4016); got&0x01 != 0 {
		t.Errorf("expected controller 1 to report no buttons pressed, got 0x%02X", got)
	}
}
