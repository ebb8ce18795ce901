// Package graphics presents a Console's framebuffer and forwards keyboard
// input back to it. RAMBO's core never imports this package (spec.md §1);
// cmd/rambo and cmd/rambo-tui are the only callers.
package graphics

// Backend creates windows for one presentation technology.
type Backend interface {
	Initialize(config Config) error
	CreateWindow(title string, width, height int) (Window, error)
	Cleanup() error
	IsHeadless() bool
	Name() string
}

// Window presents successive NES frames and reports input.
type Window interface {
	SetTitle(title string)
	GetSize() (width, height int)
	ShouldClose() bool
	SwapBuffers()
	PollEvents() []InputEvent
	RenderFrame(frame [256 * 240]uint32) error
	Cleanup() error
}

// Config configures a Backend's window.
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool
	Filter       string // "nearest" or "linear"
	Headless     bool
}

// InputEvent is one keyboard or quit event reported by PollEvents.
type InputEvent struct {
	Type    InputEventType
	Button  Button
	Pressed bool
}

// InputEventType distinguishes a controller button event from a quit
// request.
type InputEventType int

const (
	InputEventTypeButton InputEventType = iota
	InputEventTypeQuit
)

// Button identifies an NES controller button on either port, as reported
// by a Window's key mapping.
type Button int

const (
	ButtonUnknown Button = iota
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
	Button2Up
	Button2Down
	Button2Left
	Button2Right
	Button2A
	Button2B
	Button2Select
	Button2Start
)

// BackendType names a concrete Backend implementation.
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
)

// CreateBackend constructs the named backend, defaulting to ebitengine for
// an empty or unrecognized name so a GUI run needs no -backend flag.
func CreateBackend(name BackendType) (Backend, error) {
	switch name {
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	default:
		return NewEbitengineBackend(), nil
	}
}
