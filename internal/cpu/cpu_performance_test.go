package cpu

import "testing"

// BenchmarkTickNOP measures the steady-state cost of a single-cycle CPU
// tick against a tight NOP loop, the cheapest instruction in the table.
func BenchmarkTickNOP(b *testing.B) {
	c, mem := testCPU(0x8000)
	for i := uint16(0); i < 0x100; i++ {
		mem.setBytes(0x8000+i, 0xEA)
	}
	tickN(c, 7)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Tick()
	}
}

// BenchmarkTickMixedProgram measures throughput over a small loop mixing
// addressing modes and ALU ops, closer to real 6502 code than bare NOPs.
func BenchmarkTickMixedProgram(b *testing.B) {
	c, mem := testCPU(0x8000)
	mem.setBytes(0x8000,
		0xA9, 0x01, // LDA #1
		0x85, 0x10, // STA $10
		0x65, 0x10, // ADC $10
		0xC9, 0x02, // CMP #2
		0xD0, 0xF6, // BNE -10 (back to LDA)
	)
	tickN(c, 7)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Tick()
	}
}

func TestCyclesMonotonic(t *testing.T) {
	c, mem := testCPU(0x8000)
	for i := uint16(0); i < 0x10; i++ {
		mem.setBytes(0x8000+i, 0xEA)
	}
	last := c.Cycles()
	for i := 0; i < 100; i++ {
		c.Tick()
		now := c.Cycles()
		if now != last+1 {
			t.Fatalf("expected Cycles() to increase by exactly 1 per Tick, got %d -> %d", last, now)
		}
		last = now
	}
}
