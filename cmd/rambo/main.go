// Package main implements the rambo NES emulator executable: a thin
// presentation shell around the internal/console core, grounded on
// gones/cmd/gones/main.go's flag parsing, graceful-shutdown, and backend
// selection shape.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rambo-emu/rambo/internal/cartridge"
	"github.com/rambo-emu/rambo/internal/config"
	"github.com/rambo-emu/rambo/internal/console"
	"github.com/rambo-emu/rambo/internal/framebuffer"
	"github.com/rambo-emu/rambo/internal/graphics"
	"github.com/rambo-emu/rambo/internal/input"
	"github.com/rambo-emu/rambo/internal/logx"
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
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if cfg.ROMPath == "" {
		return fmt.Errorf("rambo: -rom is required")
	}

	log := logx.Default()
	if cfg.Debug {
		log.SetLevel(logx.LevelDebug)
	}

	f, err := os.Open(cfg.ROMPath)
	if err != nil {
		return fmt.Errorf("rambo: open rom: %w", err)
	}
	rom, err := cartridge.LoadINES(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("rambo: load rom: %w", err)
	}
	cart, err := cartridge.New(rom)
	if err != nil {
		return fmt.Errorf("rambo: build mapper: %w", err)
	}

	fb := framebuffer.New()
	nes := console.New(cfg.ClockRegion(), fb)
	nes.LoadCartridge(cart)
	nes.PowerOn()
	log.Info("loaded %s (mapper %d, region %s)", cfg.ROMPath, rom.MapperID, cfg.Region)

	backendType := graphics.BackendType(cfg.Backend)
	backend, err := graphics.CreateBackend(backendType)
	if err != nil {
		return fmt.Errorf("rambo: create backend: %w", err)
	}
	if err := backend.Initialize(graphics.Config{
		WindowTitle:  "RAMBO",
		WindowWidth:  cfg.Window.Width,
		WindowHeight: cfg.Window.Height,
		Fullscreen:   cfg.Window.Fullscreen,
		VSync:        cfg.Window.VSync,
		Filter:       "nearest",
		Headless:     backendType == graphics.BackendHeadless,
	}); err != nil {
		return fmt.Errorf("rambo: init backend: %w", err)
	}
	defer backend.Cleanup()

	window, err := backend.CreateWindow("RAMBO", cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return fmt.Errorf("rambo: create window: %w", err)
	}
	defer window.Cleanup()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	quit := make(chan struct{})
	go func() {
		<-sig
		close(quit)
	}()

	pump := func() error {
		nes.StepFrame()
		applyEvents(nes.Input, window.PollEvents())
		return window.RenderFrame(*fb.Acquire())
	}

	if runner, ok := window.(interface{ SetEmulatorUpdateFunc(func() error) }); ok {
		runner.SetEmulatorUpdateFunc(pump)
	}
	if runnable, ok := window.(interface{ Run() error }); ok {
		return runnable.Run()
	}

	for !window.ShouldClose() {
		select {
		case <-quit:
			return nil
		default:
		}
		if err := pump(); err != nil {
			return err
		}
		window.SwapBuffers()
	}
	return nil
}

var player1Buttons = map[graphics.Button]input.Button{
	graphics.ButtonUp:     input.ButtonUp,
	graphics.ButtonDown:   input.ButtonDown,
	graphics.ButtonLeft:   input.ButtonLeft,
	graphics.ButtonRight:  input.ButtonRight,
	graphics.ButtonA:      input.ButtonA,
	graphics.ButtonB:      input.ButtonB,
	graphics.ButtonStart:  input.ButtonStart,
	graphics.ButtonSelect: input.ButtonSelect,
}

var player2Buttons = map[graphics.Button]input.Button{
	graphics.Button2Up:     input.ButtonUp,
	graphics.Button2Down:   input.ButtonDown,
	graphics.Button2Left:   input.ButtonLeft,
	graphics.Button2Right:  input.ButtonRight,
	graphics.Button2A:      input.ButtonA,
	graphics.Button2B:      input.ButtonB,
	graphics.Button2Start:  input.ButtonStart,
	graphics.Button2Select: input.ButtonSelect,
}

// applyEvents routes backend button events onto the two NES controllers.
func applyEvents(in *input.State, events []graphics.InputEvent) {
	for _, ev := range events {
		if ev.Type != graphics.InputEventTypeButton {
			continue
		}
		if button, ok := player1Buttons[ev.Button]; ok {
			in.Controller1.SetButton(button, ev.Pressed)
			continue
		}
		if button, ok := player2Buttons[ev.Button]; ok {
			in.Controller2.SetButton(button, ev.Pressed)
		}
	}
}
