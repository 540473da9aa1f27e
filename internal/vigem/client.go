package vigem

import "errors"

// ErrUnsupported is returned off Windows, where ViGEmBus does not exist.
var ErrUnsupported = errors.New("virtual pad bus requires Windows with the ViGEmBus driver installed")

// Pad is a handle to one virtual Xbox 360 controller registered on the
// bus. It satisfies the engine's opaque Device type.
type Pad struct {
	target uintptr
}
