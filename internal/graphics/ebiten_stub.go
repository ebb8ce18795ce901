//go:build headless
// +build headless

package graphics

import "fmt"

// ebitenBackend is a stand-in for builds that exclude the Ebitengine
// dependency entirely (the "headless" build tag). CreateBackend returns it
// for any name other than "headless"; Initialize and CreateWindow on it
// always return an error.
type ebitenBackend struct{}

func NewEbitengineBackend() Backend { return &ebitenBackend{} }

func (b *ebitenBackend) Initialize(Config) error { return fmt.Errorf("graphics: built without ebitengine support") }
func (b *ebitenBackend) CreateWindow(string, int, int) (Window, error) {
	return nil, fmt.Errorf("graphics: built without ebitengine support")
}
func (b *ebitenBackend) Cleanup() error   { return nil }
func (b *ebitenBackend) IsHeadless() bool { return true }
func (b *ebitenBackend) Name() string     { return "ebitengine-stub" }
