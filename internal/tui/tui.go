// Package tui implements a bubbletea-based interactive debugger for a
// Console, grounded on hejops-gone/cpu/debugger.go's model/page-table/
// status layout (Init/Update/View driving a single stepped CPU), adapted
// from a standalone 6502 debugger into a frontend for the full machine:
// CPU registers, PPU timing, and a scrollable RAM page table.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rambo-emu/rambo/internal/console"
)

const pageRows = 8

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	pcStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model is the bubbletea model wrapping one Console. Single-stepping and
// running a full frame at a time are both driven from the keyboard; the
// console's own Tick/StepFrame are the only mutators, so the debugger never
// duplicates emulation logic.
type Model struct {
	console *console.Console
	romName string
	offset  uint16 // first address shown in the page table
	running bool
	err     error
}

// New returns a Model ready to debug console, initially paged to the start
// of internal RAM.
func New(c *console.Console, romName string) Model {
	return Model{console: c, romName: romName}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "s":
		m.console.Tick()
	case "f":
		m.console.StepFrame()
	case "r":
		m.console.Reset()
	case "up", "k":
		if m.offset >= 0x0010 {
			m.offset -= 0x0010
		}
	case "down", "j":
		if m.offset+uint16(pageRows)*0x0010 < 0x0800 {
			m.offset += 0x0010
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", headerStyle.Render("rambo debugger"), dimStyle.Render(m.romName))
	b.WriteString(m.pageTable())
	b.WriteString("\n\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("space/s: step  f: frame  r: reset  j/k: scroll  q: quit"))
	return b.String()
}

func (m Model) pageTable() string {
	lines := []string{dimStyle.Render("addr | " + hexColumnHeader())}
	for row := 0; row < pageRows; row++ {
		start := m.offset + uint16(row*16)
		lines = append(lines, m.renderRow(start))
	}
	return strings.Join(lines, "\n")
}

func hexColumnHeader() string {
	var b strings.Builder
	for i := 0; i < 16; i++ {
		fmt.Fprintf(&b, " %01x ", i)
	}
	return b.String()
}

// renderRow shows one row of internal RAM. Addresses are masked into
// 0x0000-0x07ff before reading: Bus.Read has real side effects on PPU/APU
// registers (e.g. clearing VBlank on a PPUSTATUS read), so the debugger
// must never read anything outside plain RAM.
func (m Model) renderRow(start uint16) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%04x | ", start&0x07ff)
	for i := 0; i < 16; i++ {
		addr := (start + uint16(i)) & 0x07ff
		value := m.console.Bus.Read(addr)
		cell := fmt.Sprintf("%02x ", value)
		if addr == m.console.CPU.PC&0x07ff && m.console.CPU.PC < 0x2000 {
			cell = pcStyle.Render(fmt.Sprintf("[%02x]", value))
		}
		b.WriteString(cell)
	}
	return b.String()
}

func (m Model) status() string {
	c := m.console.CPU
	return fmt.Sprintf(
		"PC:%04x  A:%02x  X:%02x  Y:%02x  SP:%02x  P:%02x   scanline:%3d dot:%3d frame:%d",
		c.PC, c.A, c.X, c.Y, c.SP, c.GetStatusByte(),
		m.console.PPU.Scanline(), m.console.PPU.Dot(), m.console.Clock.Frame(),
	)
}

// Run starts the interactive debugger loop until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}
