//go:build !headless
// +build !headless

package graphics

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ebitenBackend implements Backend on top of Ebitengine.
type ebitenBackend struct {
	initialized bool
	config      Config
}

// NewEbitengineBackend returns a GUI Backend backed by Ebitengine.
func NewEbitengineBackend() Backend { return &ebitenBackend{} }

func (b *ebitenBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("graphics: ebitengine backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

func (b *ebitenBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("graphics: backend not initialized")
	}

	game := &ebitenGame{windowWidth: width, windowHeight: height}
	win := &ebitenWindow{title: title, width: width, height: height, running: true, game: game}
	game.window = win

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)
	ebiten.SetFullscreen(b.config.Fullscreen)
	ebiten.SetScreenFilterEnabled(b.config.Filter == "linear")

	return win, nil
}

func (b *ebitenBackend) Cleanup() error   { b.initialized = false; return nil }
func (b *ebitenBackend) IsHeadless() bool { return false }
func (b *ebitenBackend) Name() string     { return "ebitengine" }

// ebitenWindow implements Window, forwarding ebiten's input/draw callbacks
// through ebitenGame.
type ebitenWindow struct {
	title              string
	width, height      int
	running            bool
	game               *ebitenGame
	events             []InputEvent
	emulatorUpdateFunc func() error
}

func (w *ebitenWindow) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

func (w *ebitenWindow) GetSize() (int, int) { return w.width, w.height }
func (w *ebitenWindow) ShouldClose() bool   { return !w.running }
func (w *ebitenWindow) SwapBuffers()        {} // ebiten presents each Draw itself

func (w *ebitenWindow) PollEvents() []InputEvent {
	events := w.events
	w.events = nil
	return events
}

func (w *ebitenWindow) RenderFrame(frame [256 * 240]uint32) error {
	if w.game == nil {
		return fmt.Errorf("graphics: window has no game loop")
	}
	w.game.frame = frame
	w.game.dirty = true
	return nil
}

func (w *ebitenWindow) Cleanup() error { w.running = false; return nil }

// SetEmulatorUpdateFunc registers the function ebiten's Update loop calls
// once per tick to advance the emulated machine.
func (w *ebitenWindow) SetEmulatorUpdateFunc(f func() error) { w.emulatorUpdateFunc = f }

// Run hands control to ebiten's blocking game loop.
func (w *ebitenWindow) Run() error {
	if w.game == nil {
		return fmt.Errorf("graphics: window has no game loop")
	}
	return ebiten.RunGame(w.game)
}

// ebitenGame adapts ebiten.Game to a Window: Update drives the emulator and
// collects input, Draw blits the most recent frame scaled to fit.
type ebitenGame struct {
	window       *ebitenWindow
	frame        [256 * 240]uint32
	dirty        bool
	image        *ebiten.Image
	windowWidth  int
	windowHeight int
}

func (g *ebitenGame) Update() error {
	if g.window == nil {
		return nil
	}
	g.pollInput()
	if g.window.emulatorUpdateFunc != nil {
		return g.window.emulatorUpdateFunc()
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	if g.image == nil {
		g.image = ebiten.NewImage(256, 240)
	}
	if g.dirty {
		g.blit()
		g.dirty = false
	}

	screen.Fill(color.Black)
	scale := g.fitScale()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(
		(float64(g.windowWidth)-256*scale)/2,
		(float64(g.windowHeight)-240*scale)/2,
	)
	screen.DrawImage(g.image, op)
}

func (g *ebitenGame) blit() {
	pix := make([]byte, 256*240*4)
	for i, p := range g.frame {
		pix[i*4+0] = byte(p >> 16)
		pix[i*4+1] = byte(p >> 8)
		pix[i*4+2] = byte(p)
		pix[i*4+3] = 0xff
	}
	g.image.WritePixels(pix)
}

func (g *ebitenGame) fitScale() float64 {
	scaleX := float64(g.windowWidth) / 256
	scaleY := float64(g.windowHeight) / 240
	if scaleY < scaleX {
		return scaleY
	}
	return scaleX
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.windowWidth, g.windowHeight = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// pollInput samples ebiten's key state and turns just-pressed/released
// edges into InputEvents, queued for the next PollEvents call.
func (g *ebitenGame) pollInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.window.events = append(g.window.events, InputEvent{Type: InputEventTypeQuit, Pressed: true})
	}
	for key, button := range keyBindings {
		if inpututil.IsKeyJustPressed(key) {
			g.window.events = append(g.window.events, InputEvent{Type: InputEventTypeButton, Button: button, Pressed: true})
		} else if inpututil.IsKeyJustReleased(key) {
			g.window.events = append(g.window.events, InputEvent{Type: InputEventTypeButton, Button: button, Pressed: false})
		}
	}
}

// keyBindings is RAMBO's default keyboard layout: arrows/WASD plus J/K for
// player 1, the number row for player 2.
var keyBindings = map[ebiten.Key]Button{
	ebiten.KeyArrowUp:    ButtonUp,
	ebiten.KeyArrowDown:  ButtonDown,
	ebiten.KeyArrowLeft:  ButtonLeft,
	ebiten.KeyArrowRight: ButtonRight,
	ebiten.KeyW:          ButtonUp,
	ebiten.KeyS:          ButtonDown,
	ebiten.KeyA:          ButtonLeft,
	ebiten.KeyD:          ButtonRight,
	ebiten.KeyJ:          ButtonA,
	ebiten.KeyK:          ButtonB,
	ebiten.KeyEnter:      ButtonStart,
	ebiten.KeySpace:      ButtonSelect,
	ebiten.Key1:          Button2Up,
	ebiten.Key2:          Button2Down,
	ebiten.Key3:          Button2Left,
	ebiten.Key4:          Button2Right,
	ebiten.Key5:          Button2A,
	ebiten.Key6:          Button2B,
	ebiten.Key7:          Button2Start,
	ebiten.Key8:          Button2Select,
}
