// Package clock implements the MasterClock: the PPU-cycle counter that
// derives the CPU/APU tick phase and the NTSC/PAL per-frame cycle count.
package clock

// Region selects the console timing variant. Threaded through as a single
// configuration value rather than compiling two engines (spec.md Design
// Notes, "Variant dispatch").
type Region int

const (
	NTSC Region = iota
	PAL
)

// DotsPerScanline is the same for both regions.
const DotsPerScanline = 341

// ScanlinesPerFrame differs: NTSC has 262, PAL has 312.
func (r Region) ScanlinesPerFrame() int {
	if r == PAL {
		return 312
	}
	return 262
}

// CPUDivisorNumerator and CPUDivisorDenominator give the PPU:CPU cycle
// ratio as a fraction: 3/1 on NTSC and 16/5 (3.2 dots per CPU cycle) on
// PAL. The PAL ratio is modeled exactly, since rounding it to 3 dots per
// CPU cycle would drift the two clocks apart over a frame.
func (r Region) CPUDivisorNumerator() int {
	if r == PAL {
		return 16
	}
	return 3
}

func (r Region) CPUDivisorDenominator() int {
	if r == PAL {
		return 5
	}
	return 1
}

// MasterClock counts PPU cycles monotonically and derives, for each tick,
// whether this dot is also a CPU/APU phase.
type MasterClock struct {
	region Region

	ppuCycles uint64

	// phaseAccum implements the PPU:CPU ratio via a running remainder (a
	// Bresenham-style accumulator): on PAL, CPU phases land on PPU cycles
	// 4, 7, 10, 13 and 16 of every 16; on NTSC, on every third cycle.
	phaseAccum int

	frame    uint64
	oddFrame bool
}

// New creates a MasterClock for the given region, reset to power-on state.
func New(region Region) *MasterClock {
	return &MasterClock{region: region}
}

// Region returns the configured timing variant.
func (c *MasterClock) Region() Region { return c.region }

// Reset returns the clock to its power-on state. PPU cycle count and frame
// count are NOT preserved across reset on real hardware semantics used
// here; callers that need to preserve them should snapshot before calling.
func (c *MasterClock) Reset() {
	c.ppuCycles = 0
	c.phaseAccum = 0
	c.frame = 0
	c.oddFrame = false
}

// PPUCycles returns the total number of PPU dots advanced since power-on.
func (c *MasterClock) PPUCycles() uint64 { return c.ppuCycles }

// Frame returns the current frame index (0-based).
func (c *MasterClock) Frame() uint64 { return c.frame }

// OddFrame reports whether the current frame is odd (used for the
// odd-frame dot-skip quirk on NTSC when background rendering is enabled).
func (c *MasterClock) OddFrame() bool { return c.oddFrame }

// Tick advances the clock by exactly one PPU cycle and reports whether this
// cycle is also a CPU/APU phase (spec.md §4.1: "CPU phase boolean derived
// from ppu_cycles % 3 == 0" generalized to the region's PPU:CPU ratio).
func (c *MasterClock) Tick() (cpuPhase bool) {
	c.ppuCycles++

	num := c.region.CPUDivisorNumerator()
	den := c.region.CPUDivisorDenominator()
	c.phaseAccum += den
	if c.phaseAccum >= num {
		c.phaseAccum -= num
		cpuPhase = true
	}
	return cpuPhase
}

// AdvanceFrame marks one frame boundary having elapsed and flips the
// odd/even frame parity. The console tick loop calls this when the PPU
// wraps from its last scanline back to scanline 0 (spec.md §4.3 "pre-render ... VBlank cleared ... internal
// state reset").
func (c *MasterClock) AdvanceFrame() {
	c.frame++
	c.oddFrame = !c.oddFrame
}

// DotsThisFrame returns the number of PPU dots in the current frame given
// whether the odd-frame skip applies (NTSC only, BG rendering enabled, and
// warmup complete — spec.md §3 MasterClock invariant).
func (c *MasterClock) DotsThisFrame(skipApplies bool) int {
	total := DotsPerScanline * c.region.ScanlinesPerFrame()
	if c.region == NTSC && c.oddFrame && skipApplies {
		total--
	}
	return total
}
