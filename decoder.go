package keyinput

import (
	"context"
	"time"

	"github.com/lestrrat-go/pdebug"

	"github.com/peco/keyinput/keyseq"
)

// decodeLoop turns bytes into events. While the matcher holds an
// unfinished sequence a timer runs; if it fires before the next byte
// arrives the pending bytes are flushed as they are. When the byte
// channel closes, whatever is pending is flushed and a single
// EventQuit ends the stream.
func (i *Input) decodeLoop(ctx context.Context) (err error) {
	if pdebug.Enabled {
		g := pdebug.Marker("Input.decodeLoop").BindError(&err)
		defer g.End()
	}

	defer close(i.eventCh)

	m := keyseq.NewMatcher()
	timer := time.NewTimer(i.options.QuietWindow)
	timer.Stop()
	defer timer.Stop()

	var timeout <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			i.abandon()
			return ctx.Err()
		case <-timeout:
			timeout = nil
			if pdebug.Enabled {
				pdebug.Printf("quiet window expired with %q pending", m.Buffered())
			}
			if err := i.emit(ctx, m.Flush()...); err != nil {
				return err
			}
		case b, ok := <-i.byteCh:
			if !ok {
				if err := i.emit(ctx, m.Flush()...); err != nil {
					return err
				}
				return i.emit(ctx, keyseq.NewQuitEvent())
			}

			var events []keyseq.Event
			if i.options.Raw {
				events = []keyseq.Event{keyseq.NewByteEvent(b)}
			} else {
				events = m.Accept(b)
			}
			if err := i.emit(ctx, events...); err != nil {
				return err
			}

			timer.Stop()
			timeout = nil
			if m.Pending() {
				timer.Reset(i.options.QuietWindow)
				timeout = timer.C
			}
		}
	}
}

// emit delivers events in order, giving up if ctx is cancelled while
// the consumer is not keeping up.
func (i *Input) emit(ctx context.Context, events ...keyseq.Event) error {
	for _, ev := range events {
		select {
		case <-ctx.Done():
			i.abandon()
			return ctx.Err()
		case i.eventCh <- ev:
		}
	}
	return nil
}

// abandon ends the stream after cancellation. Pending bytes are
// dropped, and EventQuit is only queued if there is room for it, as
// the consumer may be gone.
func (i *Input) abandon() {
	select {
	case i.eventCh <- keyseq.NewQuitEvent():
	default:
		if pdebug.Enabled {
			pdebug.Printf("event channel full, dropping final quit event")
		}
	}
}
