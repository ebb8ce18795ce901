// Package interrupt centralizes NMI/IRQ line arbitration (spec.md §4.4).
//
// NMI is modeled as a level (PPUCTRL.nmi_enable AND PPUSTATUS.vblank) whose
// falling/rising transitions are observed here and exposed to the CPU as an
// edge latch -- the CPU's own edge detector never touches PPU/APU state
// directly (spec.md Design Notes, "Interrupt line modeling").
package interrupt

// Lines holds the current level of each interrupt source. The aggregate
// tick loop recomputes this every CPU-phase cycle from PPU/APU/cartridge
// state and hands it to Arbiter.Update.
type Lines struct {
	NMI          bool // PPUCTRL.nmi_enable AND PPUSTATUS.vblank
	FrameIRQ     bool // APU frame counter IRQ flag
	DMCIRQ       bool // APU DMC IRQ flag
	CartridgeIRQ bool // mapper IRQ line (e.g. MMC3 scanline counter)
}

// IRQ is the logical OR of all level-triggered IRQ sources.
func (l Lines) IRQ() bool {
	return l.FrameIRQ || l.DMCIRQ || l.CartridgeIRQ
}

// Arbiter tracks the NMI edge latch and the once-per-VBlank suppression
// rule: an edge is latched on the low->high transition of the NMI line, and
// consumed when the CPU begins an interrupt sequence.
type Arbiter struct {
	nmiLine      bool
	nmiEdgeLatch bool

	irqLine bool
}

// Update samples the current interrupt lines and latches a new NMI edge if
// one occurred since the previous call. Must be invoked exactly once per
// CPU-phase cycle, after the PPU/APU have ticked (spec.md §4.1 step 2).
func (a *Arbiter) Update(lines Lines) {
	if !a.nmiLine && lines.NMI {
		a.nmiEdgeLatch = true
	}
	a.nmiLine = lines.NMI
	a.irqLine = lines.IRQ()
}

// NMIPending reports whether a latched NMI edge is waiting to be serviced.
func (a *Arbiter) NMIPending() bool { return a.nmiEdgeLatch }

// IRQLevel reports the current (level-triggered) IRQ line state, before any
// CPU I-flag masking.
func (a *Arbiter) IRQLevel() bool { return a.irqLine }

// ConsumeNMI clears the latched NMI edge. Called exactly once, when the CPU
// begins servicing the interrupt (spec.md §4.2 "the edge is latched ...
// consumed and cleared when the interrupt sequence begins").
func (a *Arbiter) ConsumeNMI() {
	a.nmiEdgeLatch = false
}

// Reset clears all latched and sampled state (power-on / reset).
func (a *Arbiter) Reset() {
	*a = Arbiter{}
}
