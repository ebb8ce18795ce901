// Package config loads and validates the command-line and on-disk
// configuration for a RAMBO front end (cmd/rambo, cmd/rambo-tui). The core
// package never reads flags or files itself (spec.md §1); everything here
// is peripheral wiring, grounded on RNG999-gones/internal/app/config.go's
// nested-struct-plus-JSON-file shape but trimmed to what a cycle-accurate
// core and its two presentation shells actually need.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rambo-emu/rambo/internal/clock"
)

// Window holds the GUI presentation window's size and scaling.
type Window struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	Scale      int  `json:"scale"`
	Fullscreen bool `json:"fullscreen"`
	VSync      bool `json:"vsync"`
}

// Keys maps a controller port's eight NES buttons to backend key names.
// Interpretation of the key name strings is left to the presentation
// backend (spec.md's core has no notion of a keyboard).
type Keys struct {
	Up, Down, Left, Right string
	A, B, Select, Start   string
}

func defaultPlayer1Keys() Keys {
	return Keys{Up: "Up", Down: "Down", Left: "Left", Right: "Right", A: "J", B: "K", Select: "Space", Start: "Enter"}
}

// Config is the full set of front-end settings for one RAMBO run.
type Config struct {
	ROMPath string `json:"-"`
	Region  string `json:"region"` // "NTSC" or "PAL"
	Backend string `json:"backend"`
	Window  Window `json:"window"`
	Player1 Keys   `json:"-"`
	Debug   bool   `json:"debug"`

	path string
}

// Default returns a Config with RAMBO's baseline settings: NTSC timing, the
// ebitengine backend, a 2x-scaled window, and the teacher's default
// Player 1 key mapping.
func Default() *Config {
	return &Config{
		Region:  "NTSC",
		Backend: "ebitengine",
		Window:  Window{Width: 512, Height: 480, Scale: 2, VSync: true},
		Player1: defaultPlayer1Keys(),
	}
}

// ClockRegion translates the Region string into a clock.Region, defaulting
// to NTSC for an empty or unrecognized value.
func (c *Config) ClockRegion() clock.Region {
	if c.Region == "PAL" {
		return clock.PAL
	}
	return clock.NTSC
}

// Load reads a JSON config file at path into a copy of Default, returning
// the defaults unchanged if path does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg back to the path it was loaded from (or Default's path,
// once set by the caller).
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config: no path set")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", c.path, err)
	}
	return nil
}

// ParseFlags builds a Config from Default, a config file (if -config is
// given) and the command line, in that precedence order (flags win).
func ParseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("rambo", flag.ContinueOnError)
	rom := fs.String("rom", "", "path to an iNES ROM file")
	configPath := fs.String("config", "", "path to a JSON config file")
	region := fs.String("region", "", "timing region: NTSC or PAL")
	backend := fs.String("backend", "", "presentation backend: ebitengine or headless")
	scale := fs.Int("scale", 0, "integer window scale (0 keeps the config default)")
	debug := fs.Bool("debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var cfg *Config
	var err error
	if *configPath != "" {
		cfg, err = Load(*configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = Default()
	}

	cfg.ROMPath = *rom
	if *region != "" {
		cfg.Region = *region
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *scale > 0 {
		cfg.Window.Scale = *scale
		cfg.Window.Width = 256 * *scale
		cfg.Window.Height = 240 * *scale
	}
	if *debug {
		cfg.Debug = true
	}
	return cfg, nil
}
