package cartridge

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildINES assembles a minimal iNES image: header, optional trainer, PRG,
// CHR (omitted entirely requests CHR RAM).
func buildINES(t *testing.T, mapperID uint8, flags6 uint8, prgBanks, chrBanks int, trainer bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	h := header{
		Magic:      [4]uint8{'N', 'E', 'S', 0x1a},
		PRGROMSize: uint8(prgBanks),
		CHRROMSize: uint8(chrBanks),
		Flags6:     flags6 | (mapperID << 4),
		Flags7:     mapperID & 0xf0,
	}
	if trainer {
		h.Flags6 |= 0x04
	}
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if trainer {
		buf.Write(make([]byte, 512))
	}
	buf.Write(make([]byte, prgBanks*16384))
	if chrBanks > 0 {
		buf.Write(make([]byte, chrBanks*8192))
	}
	return buf.Bytes()
}

func TestLoadINESRejectsBadMagic(t *testing.T) {
	_, err := LoadINES(bytes.NewReader([]byte("not an ines file at all..........")))
	if err != ErrBadMagic {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
}

func TestLoadINESParsesMapperAndMirroring(t *testing.T) {
	data := buildINES(t, 1, 0x01, 2, 1, false) // mapper 1, vertical mirroring
	rom, err := LoadINES(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadINES: %v", err)
	}
	if rom.MapperID != 1 {
		t.Errorf("expected mapper 1, got %d", rom.MapperID)
	}
	if rom.Mirror != MirrorVertical {
		t.Errorf("expected vertical mirroring, got %v", rom.Mirror)
	}
	if len(rom.PRG) != 2*16384 {
		t.Errorf("expected 32KB PRG, got %d bytes", len(rom.PRG))
	}
	if len(rom.CHR) != 8192 || rom.CHRIsRAM {
		t.Errorf("expected 8KB CHR ROM, got %d bytes chrRAM=%v", len(rom.CHR), rom.CHRIsRAM)
	}
}

func TestLoadINESSkipsTrainer(t *testing.T) {
	data := buildINES(t, 0, 0x00, 1, 1, true)
	rom, err := LoadINES(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadINES: %v", err)
	}
	if len(rom.PRG) != 16384 {
		t.Errorf("expected 16KB PRG after trainer skip, got %d", len(rom.PRG))
	}
}

func TestLoadINESDefaultsToCHRRAM(t *testing.T) {
	data := buildINES(t, 0, 0x00, 1, 0, false)
	rom, err := LoadINES(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadINES: %v", err)
	}
	if !rom.CHRIsRAM || len(rom.CHR) != 8192 {
		t.Errorf("expected 8KB CHR RAM when CHRROMSize is 0, got CHRIsRAM=%v len=%d", rom.CHRIsRAM, len(rom.CHR))
	}
}

func TestLoadINESRejectsZeroPRG(t *testing.T) {
	data := buildINES(t, 0, 0x00, 0, 1, false)
	if _, err := LoadINES(bytes.NewReader(data)); err == nil {
		t.Errorf("expected an error for zero PRG ROM size")
	}
}

func TestNewDispatchesKnownMappers(t *testing.T) {
	for _, id := range []uint8{0, 1, 2, 3, 4} {
		rom, err := LoadINES(bytes.NewReader(buildINES(t, id, 0, 2, 1, false)))
		if err != nil {
			t.Fatalf("mapper %d: LoadINES: %v", id, err)
		}
		cart, err := New(rom)
		if err != nil {
			t.Fatalf("mapper %d: New: %v", id, err)
		}
		if cart == nil {
			t.Fatalf("mapper %d: expected non-nil cartridge", id)
		}
	}
}

func TestNewRejectsUnknownMapper(t *testing.T) {
	rom, err := LoadINES(bytes.NewReader(buildINES(t, 99, 0, 1, 1, false)))
	if err != nil {
		t.Fatalf("LoadINES: %v", err)
	}
	if _, err := New(rom); err == nil {
		t.Errorf("expected an error constructing an unsupported mapper")
	}
}
