// Package bus implements the CPU's view of the NES memory map (spec.md
// §6): 2KB internal RAM mirrored through $1FFF, PPU registers mirrored
// every 8 bytes through $3FFF, APU/IO registers at $4000-$4017, and the
// cartridge from $4020 up. Grounded on RNG999-gones/internal/bus/bus.go's
// component wiring, rewritten around the new cycle-accurate CPU/PPU/APU
// in place of the teacher's whole-instruction Step loop.
package bus

import (
	"github.com/rambo-emu/rambo/internal/apu"
	"github.com/rambo-emu/rambo/internal/cartridge"
	"github.com/rambo-emu/rambo/internal/input"
	"github.com/rambo-emu/rambo/internal/ppu"
)

// ramInitSeed is the fixed LCG seed internal RAM is initialized from at
// power-on (spec.md §9 "Deterministic RAM power-on"). Commercial ROMs
// occasionally branch on uninitialized RAM contents; a documented,
// reproducible pattern beats both all-zero RAM and a nondeterministic one.
const ramInitSeed uint32 = 0x12345678

// Bus is the CPU's memory-mapped address space. It implements
// cpu.MemoryInterface directly rather than through a separate memory
// type, since every device on it (PPU, APU, cartridge, input) already
// exposes its own register read/write surface.
type Bus struct {
	ram [0x0800]uint8

	PPU   *ppu.PPU
	APU   *apu.APU
	Input *input.State
	Cart  cartridge.Cartridge

	// openBus is the last byte driven onto the CPU bus by any read or
	// write, returned by unmapped reads and by the don't-care bits of
	// partially-implemented registers (spec.md §9 "open-bus latch": kept
	// on the bus component, not the CPU or PPU).
	openBus uint8

	oamDMAPending bool
	oamDMAPage    uint8

	// lastReadAddr is the address of the most recent CPU read, frozen
	// during a DMC DMA stall so the NTSC DPCM-bug idle cycles know what
	// to re-read (spec.md §4.2, §4.6 "DPCM bug").
	lastReadAddr uint16
}

// New creates a Bus wired to the given PPU, APU and input state. The
// cartridge is attached separately via AttachCartridge once a ROM is
// loaded.
func New(p *ppu.PPU, a *apu.APU, in *input.State) *Bus {
	return &Bus{PPU: p, APU: a, Input: in}
}

// AttachCartridge installs the cartridge backing $4020-$FFFF CPU
// accesses (and, via the PPU, $0000-$1FFF pattern table accesses).
func (b *Bus) AttachCartridge(cart cartridge.Cartridge) {
	b.Cart = cart
}

// PowerOn fills RAM from the deterministic LCG sequence documented above.
// Unlike Reset, this runs once, eagerly, at cold power-on -- a later
// Reset must not re-run it, since a real reset line leaves RAM untouched.
func (b *Bus) PowerOn() {
	seed := ramInitSeed
	for i := range b.ram {
		seed = seed*1664525 + 1013904223
		b.ram[i] = uint8(seed >> 24)
	}
	b.openBus = 0
	b.oamDMAPending = false
}

// Reset reinitializes every component the bus owns except RAM.
func (b *Bus) Reset() {
	b.PPU.Reset()
	b.APU.Reset()
	b.Input.Reset()
	b.openBus = 0
	b.oamDMAPending = false
}

// Read services a CPU bus read, updating the open-bus latch with the
// value returned.
func (b *Bus) Read(address uint16) uint8 {
	value := b.read(address)
	b.openBus = value
	b.lastReadAddr = address
	return value
}

// LastReadAddress reports the address of the most recent CPU read, used
// by DMC DMA to replay the NTSC DPCM-bug idle-cycle re-reads.
func (b *Bus) LastReadAddress() uint16 {
	return b.lastReadAddr
}

func (b *Bus) read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.ram[address&0x07ff]
	case address < 0x4000:
		return b.PPU.ReadRegister(0x2000+(address&0x0007), b.Cart)
	case address == 0x4015:
		return b.APU.ReadStatus() | (b.openBus & 0x20)
	case address == 0x4016, address == 0x4017:
		return b.Input.Read(address, b.openBus)
	case address < 0x4020:
		// $4000-$4013 and $4014 are write-only; $4018-$401F is
		// reserved. Both read back whatever was last driven on the bus.
		return b.openBus
	default:
		if b.Cart == nil {
			return b.openBus
		}
		return b.Cart.CPURead(address)
	}
}

// Write services a CPU bus write. Every write drives the open-bus latch,
// whether or not anything is mapped at the address.
func (b *Bus) Write(address uint16, value uint8) {
	b.openBus = value

	switch {
	case address < 0x2000:
		b.ram[address&0x07ff] = value
	case address < 0x4000:
		b.PPU.WriteRegister(0x2000+(address&0x0007), value, b.Cart)
	case address == 0x4014:
		b.oamDMAPending = true
		b.oamDMAPage = value
	case address == 0x4016:
		b.Input.Write(address, value)
	case address >= 0x4000 && address <= 0x4013, address == 0x4015, address == 0x4017:
		b.APU.WriteRegister(address, value)
	case address < 0x4020:
		// reserved, no device mapped
	default:
		if b.Cart != nil {
			b.Cart.CPUWrite(address, value)
		}
	}
}

// OAMDMARequested reports whether a $4014 write is waiting for the DMA
// engine to service it.
func (b *Bus) OAMDMARequested() bool {
	return b.oamDMAPending
}

// ConsumeOAMDMARequest clears the pending OAM DMA request and returns the
// source page it named.
func (b *Bus) ConsumeOAMDMARequest() uint8 {
	b.oamDMAPending = false
	return b.oamDMAPage
}

// WriteOAMByte hands one byte straight to the PPU's OAM, bypassing the
// register path -- the destination half of an OAM DMA transfer.
func (b *Bus) WriteOAMByte(value uint8) {
	b.PPU.WriteOAMDMAByte(value)
}
