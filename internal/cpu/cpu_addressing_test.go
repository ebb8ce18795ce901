package cpu

import "testing"

func TestAddressingModes(t *testing.T) {
	tests := []struct {
		name     string
		program  []uint8 // written at 0x8000
		presetup func(c *CPU, mem *mockMemory)
		checkPC  uint16
		checkA   uint8
	}{
		{
			name:    "immediate",
			program: []uint8{0xA9, 0x42}, // LDA #$42
			checkPC: 0x8002,
			checkA:  0x42,
		},
		{
			name:    "zero page",
			program: []uint8{0xA5, 0x10}, // LDA $10
			presetup: func(c *CPU, mem *mockMemory) {
				mem.setBytes(0x0010, 0x55)
			},
			checkPC: 0x8002,
			checkA:  0x55,
		},
		{
			name:    "zero page,X",
			program: []uint8{0xB5, 0x10}, // LDA $10,X
			presetup: func(c *CPU, mem *mockMemory) {
				c.X = 0x05
				mem.setBytes(0x0015, 0x77)
			},
			checkPC: 0x8002,
			checkA:  0x77,
		},
		{
			name:    "zero page,X wraps",
			program: []uint8{0xB5, 0xFF}, // LDA $FF,X
			presetup: func(c *CPU, mem *mockMemory) {
				c.X = 0x02
				mem.setBytes(0x0001, 0x99)
			},
			checkPC: 0x8002,
			checkA:  0x99,
		},
		{
			name:    "absolute",
			program: []uint8{0xAD, 0x00, 0x30}, // LDA $3000
			presetup: func(c *CPU, mem *mockMemory) {
				mem.setBytes(0x3000, 0xAB)
			},
			checkPC: 0x8003,
			checkA:  0xAB,
		},
		{
			name:    "absolute,X with page cross",
			program: []uint8{0xBD, 0xFF, 0x30}, // LDA $30FF,X
			presetup: func(c *CPU, mem *mockMemory) {
				c.X = 0x01
				mem.setBytes(0x3100, 0xCD)
			},
			checkPC: 0x8003,
			checkA:  0xCD,
		},
		{
			name:    "indexed indirect (zp,X)",
			program: []uint8{0xA1, 0x20}, // LDA ($20,X)
			presetup: func(c *CPU, mem *mockMemory) {
				c.X = 0x04
				mem.setBytes(0x0024, 0x00, 0x40) // pointer -> 0x4000
				mem.setBytes(0x4000, 0x11)
			},
			checkPC: 0x8002,
			checkA:  0x11,
		},
		{
			name:    "indirect indexed (zp),Y",
			program: []uint8{0xB1, 0x30}, // LDA ($30),Y
			presetup: func(c *CPU, mem *mockMemory) {
				c.Y = 0x10
				mem.setBytes(0x0030, 0x00, 0x40) // base 0x4000
				mem.setBytes(0x4010, 0x22)
			},
			checkPC: 0x8002,
			checkA:  0x22,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mem := testCPU(0x8000)
			tickN(c, 7)
			mem.setBytes(0x8000, tt.program...)
			if tt.presetup != nil {
				tt.presetup(c, mem)
			}
			c.Tick()
			if c.PC != tt.checkPC {
				t.Errorf("PC: expected 0x%04X, got 0x%04X", tt.checkPC, c.PC)
			}
			if c.A != tt.checkA {
				t.Errorf("A: expected 0x%02X, got 0x%02X", tt.checkA, c.A)
			}
		})
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, mem := testCPU(0x8000)
	tickN(c, 7)
	mem.setBytes(0x8000, 0x6C, 0xFF, 0x30) // JMP ($30FF)
	mem.setBytes(0x30FF, 0x00)
	mem.setBytes(0x3000, 0x80) // high byte wraps to $3000, not $3100
	mem.setBytes(0x3100, 0xFF)

	c.Tick()
	if c.PC != 0x8000 {
		t.Errorf("expected JMP indirect page-wrap bug to land at 0x8000, got 0x%04X", c.PC)
	}
}
