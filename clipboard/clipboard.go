// Package clipboard provides system clipboard access.
package clipboard

import (
	"errors"
	"fmt"

	atotto "github.com/atotto/clipboard"
	"github.com/fwojciec/vidgrade"
)

// Ensure System implements the Clipboard interface.
var _ vidgrade.Clipboard = (*System)(nil)

// ErrUnsupported is returned when no clipboard utility is available
// (pbcopy on macOS, xclip/xsel/wl-copy on Linux, the Windows API).
var ErrUnsupported = errors.New("clipboard: no clipboard utility available")

// System implements Clipboard using the platform clipboard.
type System struct{}

// NewSystem returns a new System clipboard.
func NewSystem() *System {
	return &System{}
}

// Supported reports whether a clipboard utility was found.
func (s *System) Supported() bool {
	return !atotto.Unsupported
}

// Copy writes content to the system clipboard.
func (s *System) Copy(content string) error {
	if atotto.Unsupported {
		return ErrUnsupported
	}
	if err := atotto.WriteAll(content); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
