package dma

import (
	"testing"

	"github.com/rambo-emu/rambo/internal/clock"
)

type fakeBus struct {
	mem   [0x10000]uint8
	reads []uint16
}

func (b *fakeBus) Read(address uint16) uint8 {
	b.reads = append(b.reads, address)
	return b.mem[address]
}

type fakeOAM struct {
	bytes []uint8
}

func (o *fakeOAM) WriteOAMByte(value uint8) {
	o.bytes = append(o.bytes, value)
}

func tickN(e *OAMEngine, bus *fakeBus, oam *fakeOAM, n int) {
	for i := 0; i < n; i++ {
		e.Tick(bus, oam)
	}
}

func TestOAMEngineEvenStartTakes513Cycles(t *testing.T) {
	bus := &fakeBus{}
	for i := 0; i < 256; i++ {
		bus.mem[0x0200+uint16(i)] = uint8(i)
	}
	oam := &fakeOAM{}
	var e OAMEngine
	e.Start(0x02, false)
	if got := e.StallCycles(); got != 513 {
		t.Fatalf("expected 513 stall cycles on even start, got %d", got)
	}
	tickN(&e, bus, oam, 512)
	if !e.Active() {
		t.Fatalf("expected engine still active one cycle before completion")
	}
	tickN(&e, bus, oam, 1)
	if e.Active() {
		t.Errorf("expected engine to finish after exactly 513 cycles")
	}
	if len(oam.bytes) != 256 {
		t.Fatalf("expected 256 bytes transferred, got %d", len(oam.bytes))
	}
	for i, v := range oam.bytes {
		if v != uint8(i) {
			t.Errorf("byte %d: expected %d, got %d", i, i, v)
		}
	}
}

func TestOAMEngineOddStartTakes514Cycles(t *testing.T) {
	bus := &fakeBus{}
	oam := &fakeOAM{}
	var e OAMEngine
	e.Start(0x03, true)
	if got := e.StallCycles(); got != 514 {
		t.Fatalf("expected 514 stall cycles on odd start, got %d", got)
	}
	tickN(&e, bus, oam, 513)
	if !e.Active() {
		t.Fatalf("expected engine still active one cycle before completion")
	}
	tickN(&e, bus, oam, 1)
	if e.Active() {
		t.Errorf("expected engine to finish after exactly 514 cycles")
	}
}

func TestDMCEngineFetchesOnFourthCycle(t *testing.T) {
	bus := &fakeBus{}
	bus.mem[0xC000] = 0x5A
	var e DMCEngine
	e.Start(0xC000, 0x4016, clock.NTSC)

	for i := 0; i < 3; i++ {
		value, done := e.Tick(bus)
		if done {
			t.Fatalf("expected no completion before the 4th cycle, got one at cycle %d", i+1)
		}
		_ = value
	}
	value, done := e.Tick(bus)
	if !done {
		t.Fatalf("expected completion on the 4th cycle")
	}
	if value != 0x5A {
		t.Errorf("expected fetched sample byte 0x5A, got 0x%02X", value)
	}
	if e.Active() {
		t.Errorf("expected engine inactive after completion")
	}
}

func TestDMCEngineNTSCReReadsLastAddressDuringIdleCycles(t *testing.T) {
	bus := &fakeBus{}
	var e DMCEngine
	e.Start(0xC000, 0x4016, clock.NTSC)
	e.Tick(bus)
	e.Tick(bus)
	e.Tick(bus)
	if len(bus.reads) != 3 {
		t.Fatalf("expected 3 idle-cycle re-reads, got %d", len(bus.reads))
	}
	for _, addr := range bus.reads {
		if addr != 0x4016 {
			t.Errorf("expected idle-cycle re-read of 0x4016, got 0x%04X", addr)
		}
	}
}

func TestDMCEnginePALHasCleanStall(t *testing.T) {
	bus := &fakeBus{}
	var e DMCEngine
	e.Start(0xC000, 0x4016, clock.PAL)
	e.Tick(bus)
	e.Tick(bus)
	e.Tick(bus)
	if len(bus.reads) != 0 {
		t.Errorf("expected no idle-cycle reads on PAL, got %d", len(bus.reads))
	}
}

func TestControllerRunsOAMToCompletionBeforeDMC(t *testing.T) {
	bus := &fakeBus{}
	oam := &fakeOAM{}
	var c Controller
	c.OAM.Start(0x02, false)
	c.DMC.Start(0xC000, 0x4016, clock.NTSC)

	if !c.Busy() {
		t.Fatalf("expected controller busy with both engines pending")
	}
	for i := 0; i < 513; i++ {
		if c.OAM.Active() == false && i < 513 {
			// OAM should still be the one ticking until it finishes.
		}
		c.Tick(bus, oam)
	}
	if c.OAM.Active() {
		t.Fatalf("expected OAM engine to finish after 513 cycles")
	}
	if len(oam.bytes) != 256 {
		t.Errorf("expected OAM transfer to complete fully before DMC starts, got %d bytes", len(oam.bytes))
	}
	if !c.DMC.Active() {
		t.Errorf("expected DMC engine to still be pending, untouched while OAM ran")
	}
}
