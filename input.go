package keyinput

import (
	"context"
	"io"
	"os"

	"github.com/lestrrat-go/pdebug"
	"github.com/muesli/cancelreader"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/peco/keyinput/keyseq"
)

// New creates an Input reading from t. Nothing is read until Start is
// called.
func New(t Terminal, o Options) *Input {
	if o.QuietWindow <= 0 {
		o.QuietWindow = DefaultQuietWindow
	}
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
	o.Quit = append([]byte(nil), o.Quit...)

	return &Input{
		term:    t,
		options: o,
		byteCh:  make(chan byte, o.BufferSize),
		eventCh: make(chan keyseq.Event, o.BufferSize),
		done:    make(chan struct{}),
	}
}

// Options returns the options in effect, defaults filled in.
func (i *Input) Options() Options {
	return i.options
}

// Events returns the channel events are delivered on. The last event
// is always a keyseq.EventQuit, after which the channel is closed.
func (i *Input) Events() <-chan keyseq.Event {
	return i.eventCh
}

// Start puts the terminal in raw mode and starts the reader and decoder
// goroutines. Cancelling ctx has the same effect as calling Close.
// An Input can only be started once.
func (i *Input) Start(ctx context.Context) (err error) {
	if pdebug.Enabled {
		g := pdebug.Marker("Input.Start").BindError(&err)
		defer g.End()
	}

	i.mutex.Lock()
	defer i.mutex.Unlock()

	if i.started {
		return errors.New("input already started")
	}

	restore, err := i.term.MakeRaw()
	if err != nil {
		return errors.Wrap(err, "failed to put terminal in raw mode")
	}

	cr, err := cancelreader.NewReader(readerOf(i.term))
	if err != nil {
		if rerr := restore(); rerr != nil && pdebug.Enabled {
			pdebug.Printf("failed to restore terminal: %s", rerr)
		}
		return errors.Wrap(err, "failed to create cancelable reader")
	}

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(ctx, func() { cr.Cancel() })

	i.cr = cr
	i.cancel = cancel
	i.started = true

	// The group is not derived from ctx: a failing reader must not keep
	// the decoder from delivering what it already has.
	var g errgroup.Group
	g.Go(func() error { return i.readLoop(ctx, restore, stop) })
	g.Go(func() error { return i.decodeLoop(ctx) })

	go func() {
		err := g.Wait()
		cancel()

		i.mutex.Lock()
		i.err = err
		i.mutex.Unlock()
		close(i.done)
	}()

	return nil
}

// Wait blocks until both goroutines are done. When it returns the
// terminal mode has been restored and the event channel is closed.
// It returns the same value as Err.
func (i *Input) Wait() error {
	i.mutex.Lock()
	started := i.started
	i.mutex.Unlock()
	if !started {
		return nil
	}

	<-i.done
	return i.Err()
}

// Close stops reading, restores the terminal and waits for both
// goroutines to finish. It is safe to call more than once, and after
// the input has ended on its own.
func (i *Input) Close() error {
	i.mutex.Lock()
	cancel := i.cancel
	i.mutex.Unlock()
	if cancel == nil {
		return nil
	}

	cancel()
	if err := i.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Err reports why the event stream ended: nil when the quit sequence
// was typed or the terminal reached EOF, context.Canceled when the
// input was closed, and the underlying error when reading or restoring
// the terminal failed. It returns nil while the input is running.
func (i *Input) Err() error {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.err
}

// readerOf returns the file behind t when there is one, so that a
// pending read can be interrupted. Any other reader is read as is, and
// cancellation only takes effect once its current Read returns.
func readerOf(t Terminal) io.Reader {
	if f, ok := t.(interface{ File() *os.File }); ok {
		if file := f.File(); file != nil {
			return file
		}
	}
	return t
}
