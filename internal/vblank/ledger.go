// Package vblank implements the VBlankLedger: an event ledger recording the
// precise PPU cycle at which the VBlank flag was set and cleared, used to
// resolve the PPUSTATUS same-cycle race condition (spec.md §3, §4.4, §8).
//
// Because NTSC/PAL frame timing is a fixed scanline/dot grid (the only
// irregularity being the NTSC odd-frame dot skip, which happens before the
// next VBlank window), the PPU always knows in advance which absolute cycle
// the next VBlank set/clear will land on. The PPU is therefore the
// authority that decides whether a given PPUSTATUS read lands on the race
// window (scanline 241, dot 0 or dot 1) and what bit 7 / NMI-suppression
// outcome that produces; this ledger is the passive record of that
// decision; it stores exactly the four-tuple spec.md §3 names:
// (vblank_set_cycle, vblank_clear_cycle, last_status_read_cycle,
// race_condition_occurred).
package vblank

type Ledger struct {
	setCycle   uint64
	clearCycle uint64
	hasSet     bool
	hasCleared bool

	lastReadCycle uint64
	hasRead       bool

	// raceOccurred is sticky until the next VBlank set/clear, per spec.md
	// §9's open-question resolution ("should remain set until the next
	// VBlank set/clear, not until the next PPUSTATUS read").
	raceOccurred bool
}

// RecordSet records that the VBlank flag was set (asserted) at cycle now.
func (l *Ledger) RecordSet(now uint64) {
	l.setCycle = now
	l.hasSet = true
	l.hasCleared = false
	l.raceOccurred = false
}

// RecordClear records that the VBlank flag was cleared at cycle now.
func (l *Ledger) RecordClear(now uint64) {
	l.clearCycle = now
	l.hasCleared = true
	l.raceOccurred = false
}

// RecordRead records a PPUSTATUS read at cycle now. race is true when the
// PPU determined this read landed on the set-cycle race window (dot 0 or
// dot 1 of scanline 241); it becomes sticky until the next set/clear.
func (l *Ledger) RecordRead(now uint64, race bool) {
	l.lastReadCycle = now
	l.hasRead = true
	if race {
		l.raceOccurred = true
	}
}

// IsReadableFlagSet reports whether the VBlank flag reads as set at cycle
// now: true iff set_cycle <= now and (no clear has happened yet, or the
// clear is still in the past relative to the most recent set).
func (l *Ledger) IsReadableFlagSet(now uint64) bool {
	if !l.hasSet || now < l.setCycle {
		return false
	}
	if l.hasCleared && l.clearCycle > l.setCycle && l.clearCycle <= now {
		return false
	}
	return true
}

// RaceOccurred reports the sticky race-condition bit for the current
// VBlank window.
func (l *Ledger) RaceOccurred() bool { return l.raceOccurred }

// SetCycle, ClearCycle, LastReadCycle expose the raw ledger fields for
// diagnostics and tests.
func (l *Ledger) SetCycle() (cycle uint64, ok bool)      { return l.setCycle, l.hasSet }
func (l *Ledger) ClearCycle() (cycle uint64, ok bool)    { return l.clearCycle, l.hasCleared }
func (l *Ledger) LastReadCycle() (cycle uint64, ok bool) { return l.lastReadCycle, l.hasRead }

// Reset clears all ledger state (power-on / hard reset).
func (l *Ledger) Reset() {
	*l = Ledger{}
}
