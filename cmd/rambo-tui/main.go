// Package main implements rambo-tui, a terminal debugger front end for the
// internal/console core, grounded on hejops-gone/cpu/debugger.go's
// bubbletea debugger shape.
package main

import (
	"fmt"
	"os"

	"github.com/rambo-emu/rambo/internal/cartridge"
	"github.com/rambo-emu/rambo/internal/config"
	"github.com/rambo-emu/rambo/internal/console"
	"github.com/rambo-emu/rambo/internal/framebuffer"
	"github.com/rambo-emu/rambo/internal/tui"
	"github.com/rambo-emu/rambo/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 && (args[0] == "-version" || args[0] == "--version") {
		fmt.Println(version.String())
		return nil
	}

	cfg, err := config.ParseFlags(args)
	if err != nil {
		return err
	}
	if cfg.ROMPath == "" {
		return fmt.Errorf("rambo-tui: -rom is required")
	}

	f, err := os.Open(cfg.ROMPath)
	if err != nil {
		return fmt.Errorf("rambo-tui: open rom: %w", err)
	}
	rom, err := cartridge.LoadINES(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("rambo-tui: load rom: %w", err)
	}
	cart, err := cartridge.New(rom)
	if err != nil {
		return fmt.Errorf("rambo-tui: build mapper: %w", err)
	}

	nes := console.New(cfg.ClockRegion(), framebuffer.New())
	nes.LoadCartridge(cart)
	nes.PowerOn()

	return tui.Run(tui.New(nes, cfg.ROMPath))
}
