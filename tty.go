package keyinput

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when raw mode is requested on something
// that is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// IsTty checks if the given fd is a tty
func IsTty(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// NewTTY wraps an already open terminal file. The file is not closed
// by the TTY.
func NewTTY(f *os.File) *TTY {
	return &TTY{file: f}
}

// OpenTTY opens the terminal device at path for reading.
func OpenTTY(path string) (*TTY, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	return NewTTY(f), nil
}

func (t *TTY) Read(p []byte) (int, error) {
	return t.file.Read(p)
}

// File returns the underlying terminal file.
func (t *TTY) File() *os.File {
	return t.file
}

func (t *TTY) Close() error {
	return t.file.Close()
}
