package keyinput

import (
	"context"
	"io"

	"github.com/lestrrat-go/pdebug"
	"github.com/muesli/cancelreader"
	"github.com/pkg/errors"
)

// readLoop moves bytes from the terminal to the decoder one at a time,
// so that no byte typed after the quit sequence is consumed. It stops on
// the quit sequence, EOF, a read error or cancellation, and restores the
// terminal mode on the way out.
func (i *Input) readLoop(ctx context.Context, restore func() error, stop func() bool) (err error) {
	if pdebug.Enabled {
		g := pdebug.Marker("Input.readLoop").BindError(&err)
		defer g.End()
	}

	defer close(i.byteCh)
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			err = errors.Wrap(rerr, "failed to restore terminal mode")
		}
	}()
	defer func() {
		stop()
		i.cr.Close()
	}()

	qw := NewQuitWatcher(i.options.Quit)
	buf := make([]byte, 1)
	for {
		n, rerr := i.cr.Read(buf)
		if n > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case i.byteCh <- buf[0]:
			}

			if qw.Observe(buf[0]) {
				if pdebug.Enabled {
					pdebug.Printf("quit sequence %q received", qw.Buffered())
				}
				return nil
			}
		}

		if rerr == nil {
			continue
		}

		switch {
		case errors.Is(rerr, io.EOF):
			return nil
		case errors.Is(rerr, cancelreader.ErrCanceled):
			return context.Canceled
		default:
			return errors.Wrap(rerr, "failed to read from terminal")
		}
	}
}
