package graphics

// HeadlessBackend discards rendered frames; it exists so cmd/rambo and
// automated runs can drive a Console without a display.
type HeadlessBackend struct {
	initialized bool
}

// NewHeadlessBackend returns a Backend that never opens a window.
func NewHeadlessBackend() Backend { return &HeadlessBackend{} }

func (b *HeadlessBackend) Initialize(Config) error { b.initialized = true; return nil }

func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	return &headlessWindow{title: title, width: width, height: height, running: true}, nil
}

func (b *HeadlessBackend) Cleanup() error   { b.initialized = false; return nil }
func (b *HeadlessBackend) IsHeadless() bool { return true }
func (b *HeadlessBackend) Name() string     { return "headless" }

// headlessWindow satisfies Window by doing nothing with each frame beyond
// counting it.
type headlessWindow struct {
	title         string
	width, height int
	running       bool
	frameCount    int
}

func (w *headlessWindow) SetTitle(title string)    { w.title = title }
func (w *headlessWindow) GetSize() (int, int)      { return w.width, w.height }
func (w *headlessWindow) ShouldClose() bool        { return !w.running }
func (w *headlessWindow) SwapBuffers()             {}
func (w *headlessWindow) PollEvents() []InputEvent { return nil }

func (w *headlessWindow) RenderFrame(frame [256 * 240]uint32) error {
	w.frameCount++
	return nil
}

func (w *headlessWindow) Cleanup() error { w.running = false; return nil }

// FrameCount reports how many frames have been rendered, for tests that
// want to confirm a run loop actually produced output.
func (w *headlessWindow) FrameCount() int { return w.frameCount }
