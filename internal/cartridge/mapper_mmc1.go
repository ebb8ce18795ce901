package cartridge

// mmc1 implements iNES mapper 1 (MMC1): a 5-bit serial shift register
// feeding four internal registers (control, CHR bank 0/1, PRG bank).
// Grounded on andrewthecodertx-go-nes-emulator/pkg/cartridge/mapper1.go.
type mmc1 struct {
	prg    []uint8
	chr    []uint8
	prgRAM [0x2000]uint8
	chrRAM bool

	prgBanks uint8
	chrBanks uint8

	shift      uint8
	shiftCount uint8

	mirror  uint8 // 0=single0 1=single1 2=vertical 3=horizontal
	prgMode uint8
	chrMode uint8

	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	prgRAMEnabled bool
}

func newMMC1(rom *ROM) *mmc1 {
	m := &mmc1{
		prg:           rom.PRG,
		prgBanks:      uint8(len(rom.PRG) / 0x4000),
		shift:         0x10,
		prgMode:       3,
		prgRAMEnabled: true,
	}
	switch rom.Mirror {
	case MirrorVertical:
		m.mirror = 2
	case MirrorHorizontal:
		m.mirror = 3
	default:
		m.mirror = 3
	}
	if rom.CHRIsRAM {
		m.chr = make([]uint8, 0x2000)
		m.chrBanks = 2
		m.chrRAM = true
	} else {
		m.chr = rom.CHR
		m.chrBanks = uint8(len(rom.CHR) / 0x1000)
	}
	return m
}

func (m *mmc1) CPURead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled {
			return m.prgRAM[addr-0x6000]
		}
		return 0
	case addr >= 0x8000 && addr < 0xc000:
		bank := m.prgBank
		switch m.prgMode {
		case 0, 1:
			bank = m.prgBank &^ 1
		case 2:
			bank = 0
		}
		offset := int(bank)*0x4000 + int(addr-0x8000)
		if offset < len(m.prg) {
			return m.prg[offset]
		}
	case addr >= 0xc000:
		bank := m.prgBank
		switch m.prgMode {
		case 0, 1:
			bank = (m.prgBank &^ 1) | 1
		case 3:
			bank = m.prgBanks - 1
		}
		offset := int(bank)*0x4000 + int(addr-0xc000)
		if offset < len(m.prg) {
			return m.prg[offset]
		}
	}
	return 0
}

func (m *mmc1) CPUWrite(addr uint16, value uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		if m.prgRAMEnabled {
			m.prgRAM[addr-0x6000] = value
		}
		return
	}
	if addr < 0x8000 {
		return
	}

	if value&0x80 != 0 {
		m.shift = 0x10
		m.shiftCount = 0
		m.prgMode = 3
		return
	}

	complete := m.shiftCount == 4
	m.shift = (m.shift >> 1) | ((value & 1) << 4)
	m.shiftCount++

	if !complete {
		return
	}

	result := m.shift
	m.shift = 0x10
	m.shiftCount = 0

	switch {
	case addr < 0xa000:
		m.mirror = result & 0x03
		m.prgMode = (result >> 2) & 0x03
		m.chrMode = (result >> 4) & 0x01
	case addr < 0xc000:
		m.chrBank0 = result
	case addr < 0xe000:
		m.chrBank1 = result
	default:
		m.prgBank = result & 0x0f
		m.prgRAMEnabled = result&0x10 == 0
	}
}

func (m *mmc1) PPURead(addr uint16) uint8 {
	return m.chr[m.chrOffset(addr)%len(m.chr)]
}

func (m *mmc1) PPUWrite(addr uint16, value uint8) {
	if m.chrRAM {
		m.chr[m.chrOffset(addr)%len(m.chr)] = value
	}
}

func (m *mmc1) chrOffset(addr uint16) int {
	if m.chrMode == 0 {
		bank := m.chrBank0 &^ 1
		return int(bank)*0x1000 + int(addr)
	}
	if addr < 0x1000 {
		return int(m.chrBank0)*0x1000 + int(addr)
	}
	return int(m.chrBank1)*0x1000 + int(addr-0x1000)
}

func (m *mmc1) TickIRQCounter()   {}
func (m *mmc1) PPUA12Rising()     {}
func (m *mmc1) AcknowledgeIRQ()   {}
func (m *mmc1) IRQAsserted() bool { return false }

func (m *mmc1) Reset() {
	m.shift = 0x10
	m.shiftCount = 0
	m.prgMode = 3
}

func (m *mmc1) Mirroring() MirrorMode {
	switch m.mirror {
	case 0:
		return MirrorSingleScreen0
	case 1:
		return MirrorSingleScreen1
	case 2:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}
