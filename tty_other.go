//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package keyinput

import "github.com/pkg/errors"

// MakeRaw is not supported on this platform. Windows consoles deliver
// input as records instead of bytes.
func (t *TTY) MakeRaw() (func() error, error) {
	return nil, errors.Wrapf(ErrNotTerminal, "%s: raw byte input is not supported on this platform", t.file.Name())
}
