//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package keyinput

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// rawTermios returns a copy of st with line editing, echo, signal
// generation and input translation turned off. Output processing is
// left alone so that "\r\n" keeps working for whoever writes to the
// terminal.
func rawTermios(st unix.Termios) unix.Termios {
	st.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG | unix.IEXTEN
	st.Iflag &^= unix.ICRNL | unix.IXON
	st.Cc[unix.VMIN] = 1
	st.Cc[unix.VTIME] = 0
	return st
}

// MakeRaw switches the terminal to raw input mode and returns a
// function that puts the saved settings back.
func (t *TTY) MakeRaw() (func() error, error) {
	fd := int(t.file.Fd())
	saved, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		if errors.Is(err, unix.ENOTTY) {
			return nil, errors.Wrapf(ErrNotTerminal, "%s", t.file.Name())
		}
		return nil, errors.Wrap(err, "failed to read terminal attributes")
	}

	raw := rawTermios(*saved)
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to set terminal attributes")
	}

	restore := func() error {
		if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, saved); err != nil {
			return errors.Wrap(err, "failed to restore terminal attributes")
		}
		return nil
	}
	return restore, nil
}
