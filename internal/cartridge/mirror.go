package cartridge

// NametableIndex resolves a PPU address in $2000-$2FFF to one of the two
// physical 1KiB nametable pages (0 or 1) according to mode, then returns
// the offset within that page (0-0x3ff). Four-screen mirroring is not
// representable in 2KiB of PPU VRAM; callers must detect MirrorFourScreen
// and route those reads to cartridge-provided extra VRAM instead.
func (mode MirrorMode) NametableIndex(addr uint16) (page int, offset uint16) {
	rel := (addr - 0x2000) % 0x1000
	table := rel / 0x400
	offset = rel % 0x400

	switch mode {
	case MirrorHorizontal:
		// tables 0,1 -> page 0 ; tables 2,3 -> page 1
		page = int(table / 2)
	case MirrorVertical:
		// tables 0,2 -> page 0 ; tables 1,3 -> page 1
		page = int(table % 2)
	case MirrorSingleScreen0:
		page = 0
	case MirrorSingleScreen1:
		page = 1
	default:
		page = int(table % 2)
	}
	return page, offset
}
