package cartridge

import "testing"

func TestNametableIndexHorizontal(t *testing.T) {
	tests := []struct {
		addr     uint16
		wantPage int
	}{
		{0x2000, 0}, {0x23FF, 0},
		{0x2400, 0}, {0x27FF, 0},
		{0x2800, 1}, {0x2BFF, 1},
		{0x2C00, 1}, {0x2FFF, 1},
	}
	for _, tt := range tests {
		page, _ := MirrorHorizontal.NametableIndex(tt.addr)
		if page != tt.wantPage {
			t.Errorf("horizontal 0x%04X: expected page %d, got %d", tt.addr, tt.wantPage, page)
		}
	}
}

func TestNametableIndexVertical(t *testing.T) {
	tests := []struct {
		addr     uint16
		wantPage int
	}{
		{0x2000, 0}, {0x2400, 1},
		{0x2800, 0}, {0x2C00, 1},
	}
	for _, tt := range tests {
		page, _ := MirrorVertical.NametableIndex(tt.addr)
		if page != tt.wantPage {
			t.Errorf("vertical 0x%04X: expected page %d, got %d", tt.addr, tt.wantPage, page)
		}
	}
}

func TestNametableIndexSingleScreen(t *testing.T) {
	for _, addr := range []uint16{0x2000, 0x2400, 0x2800, 0x2C00} {
		if page, _ := MirrorSingleScreen0.NametableIndex(addr); page != 0 {
			t.Errorf("single-screen-0 0x%04X: expected page 0, got %d", addr, page)
		}
		if page, _ := MirrorSingleScreen1.NametableIndex(addr); page != 1 {
			t.Errorf("single-screen-1 0x%04X: expected page 1, got %d", addr, page)
		}
	}
}

func TestNametableIndexOffsetWithinPage(t *testing.T) {
	_, offset := MirrorHorizontal.NametableIndex(0x2042)
	if offset != 0x42 {
		t.Errorf("expected offset 0x42, got 0x%03X", offset)
	}
}
