package cpu

import (
	"testing"

	"github.com/rambo-emu/rambo/internal/interrupt"
)

// instructionCycles runs one instruction to completion (via repeated Tick
// calls) and returns the total number of cycles it consumed, measured from
// Cycles() deltas so it's independent of internal countdown bookkeeping.
func instructionCycles(c *CPU, mem *mockMemory, program ...uint8) uint64 {
	mem.setBytes(c.PC, program...)
	before := c.Cycles()
	c.Tick()
	for c.cyclesRemaining > 0 {
		c.Tick()
	}
	return c.Cycles() - before
}

func TestBaseInstructionTiming(t *testing.T) {
	tests := []struct {
		name    string
		program []uint8
		want    uint64
	}{
		{"LDA immediate", []uint8{0xA9, 0x10}, 2},
		{"LDA zero page", []uint8{0xA5, 0x10}, 3},
		{"LDA zero page,X", []uint8{0xB5, 0x10}, 4},
		{"LDA absolute", []uint8{0xAD, 0x00, 0x20}, 4},
		{"STA absolute", []uint8{0x8D, 0x00, 0x20}, 4},
		{"JMP absolute", []uint8{0x4C, 0x00, 0x90}, 3},
		{"JSR absolute", []uint8{0x20, 0x00, 0x90}, 6},
		{"NOP", []uint8{0xEA}, 2},
		{"PHA", []uint8{0x48}, 3},
		{"PLA", []uint8{0x68}, 4},
		{"BRK", []uint8{0x00}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mem := testCPU(0x8000)
			tickN(c, 7)
			got := instructionCycles(c, mem, tt.program...)
			if got != tt.want {
				t.Errorf("%s: expected %d cycles, got %d", tt.name, tt.want, got)
			}
		})
	}
}

func TestAbsoluteXPageCrossAddsCycle(t *testing.T) {
	c, mem := testCPU(0x8000)
	tickN(c, 7)
	c.X = 0x01
	got := instructionCycles(c, mem, 0xBD, 0xFF, 0x20) // LDA $20FF,X -> crosses into $2100
	if got != 5 {
		t.Errorf("expected page-crossing absolute,X LDA to take 5 cycles, got %d", got)
	}
}

func TestAbsoluteXNoPageCrossBaseCycles(t *testing.T) {
	c, mem := testCPU(0x8000)
	tickN(c, 7)
	c.X = 0x01
	got := instructionCycles(c, mem, 0xBD, 0x00, 0x20) // LDA $2000,X, no crossing
	if got != 4 {
		t.Errorf("expected non-crossing absolute,X LDA to take 4 cycles, got %d", got)
	}
}

func TestBranchTimingVariants(t *testing.T) {
	tests := []struct {
		name    string
		zeroSet bool
		offset  uint8
		want    uint64
	}{
		{"not taken", false, 0x05, 2},
		{"taken same page", true, 0x05, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mem := testCPU(0x8000)
			tickN(c, 7)
			c.Z = tt.zeroSet
			got := instructionCycles(c, mem, 0xF0, tt.offset) // BEQ
			if got != tt.want {
				t.Errorf("expected %d cycles, got %d", tt.want, got)
			}
		})
	}
}

func TestBranchTakenCrossingPageAddsCycle(t *testing.T) {
	c, mem := testCPU(0x80F0)
	tickN(c, 7)
	c.Z = true
	got := instructionCycles(c, mem, 0xF0, 0x20) // BEQ +0x20: 0x80F2 + 0x20 = 0x8112, crosses page
	if got != 4 {
		t.Errorf("expected taken+page-crossing branch to take 4 cycles, got %d", got)
	}
}

func TestNMISequenceTiming(t *testing.T) {
	c, mem := testCPU(0x8000)
	tickN(c, 7)
	mem.setBytes(0xFFFA, 0x00, 0x90)
	mem.setBytes(0x8000, 0xEA)

	c.Tick()
	for c.cyclesRemaining > 0 {
		c.Tick()
	}

	before := c.Cycles()
	c.UpdateInterruptLines(interrupt.Lines{NMI: true})
	c.Tick()
	for c.cyclesRemaining > 0 {
		c.Tick()
	}
	if got := c.Cycles() - before; got != 7 {
		t.Errorf("expected NMI sequence to take 7 cycles, got %d", got)
	}
}
