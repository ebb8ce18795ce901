package cpu

import "testing"

func TestSetZNFlags(t *testing.T) {
	c, mem := testCPU(0x8000)
	tickN(c, 7)

	mem.setBytes(0x8000, 0xA9, 0x00) // LDA #$00
	c.Tick()
	if !c.Z || c.N {
		t.Errorf("LDA #0: expected Z=true N=false, got Z=%v N=%v", c.Z, c.N)
	}

	tickN(c, 1) // drain remaining cycle of the 2-cycle instruction
	mem.setBytes(0x8002, 0xA9, 0x80) // LDA #$80
	c.Tick()
	if c.Z || !c.N {
		t.Errorf("LDA #0x80: expected Z=false N=true, got Z=%v N=%v", c.Z, c.N)
	}
}

func TestADCCarryOverflow(t *testing.T) {
	c, mem := testCPU(0x8000)
	tickN(c, 7)
	c.A = 0x7F // +127
	mem.setBytes(0x8000, 0x69, 0x01) // ADC #1 -> overflow into negative
	c.Tick()

	if c.A != 0x80 {
		t.Errorf("expected A=0x80, got 0x%02X", c.A)
	}
	if !c.V {
		t.Errorf("expected overflow flag set")
	}
	if c.C {
		t.Errorf("expected no carry out")
	}
}

func TestSBCBorrow(t *testing.T) {
	c, mem := testCPU(0x8000)
	tickN(c, 7)
	c.A = 0x00
	c.C = true // no borrow going in
	mem.setBytes(0x8000, 0xE9, 0x01) // SBC #1
	c.Tick()

	if c.A != 0xFF {
		t.Errorf("expected A=0xFF, got 0x%02X", c.A)
	}
	if c.C {
		t.Errorf("expected carry clear (borrow occurred)")
	}
	if !c.N {
		t.Errorf("expected negative flag set")
	}
}

func TestCMPFlags(t *testing.T) {
	c, mem := testCPU(0x8000)
	tickN(c, 7)
	c.A = 0x40
	mem.setBytes(0x8000, 0xC9, 0x40) // CMP #$40
	c.Tick()

	if !c.Z || !c.C {
		t.Errorf("CMP equal: expected Z=true C=true, got Z=%v C=%v", c.Z, c.C)
	}
}

func TestBITFlags(t *testing.T) {
	c, mem := testCPU(0x8000)
	tickN(c, 7)
	c.A = 0x00
	mem.setBytes(0x0010, 0xC0) // N and V bits set in the tested byte
	mem.setBytes(0x8000, 0x24, 0x10) // BIT $10
	c.Tick()

	if !c.N || !c.V {
		t.Errorf("expected N and V copied from memory operand, got N=%v V=%v", c.N, c.V)
	}
	if !c.Z {
		t.Errorf("expected Z set (A & value == 0)")
	}
}

func TestPHPSetsBreakFlagOnPushedByte(t *testing.T) {
	c, mem := testCPU(0x8000)
	tickN(c, 7)
	c.B = false
	mem.setBytes(0x8000, 0x08) // PHP
	c.Tick()

	pushed := mem.Read(stackBase + uint16(c.SP) + 1)
	if pushed&bFlagMask == 0 {
		t.Errorf("expected break flag set in byte pushed by PHP regardless of cpu.B")
	}
}
