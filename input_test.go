package keyinput

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/peco/keyinput/keyseq"
)

// pipeTerminal is a Terminal fed through an os.Pipe. It counts raw mode
// transitions instead of touching a real device.
type pipeTerminal struct {
	r, w     *os.File
	raw      atomic.Int32
	restored atomic.Int32
}

func newPipeTerminal(t *testing.T) *pipeTerminal {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return &pipeTerminal{r: r, w: w}
}

func (p *pipeTerminal) Read(b []byte) (int, error) { return p.r.Read(b) }
func (p *pipeTerminal) File() *os.File             { return p.r }

func (p *pipeTerminal) MakeRaw() (func() error, error) {
	p.raw.Add(1)
	return func() error {
		p.restored.Add(1)
		return nil
	}, nil
}

func (p *pipeTerminal) write(t *testing.T, s string) {
	_, err := p.w.WriteString(s)
	require.NoError(t, err)
}

// readerTerminal is a Terminal over any reader, without a file behind it.
type readerTerminal struct {
	io.Reader
	restored atomic.Int32
}

func (r *readerTerminal) MakeRaw() (func() error, error) {
	return func() error {
		r.restored.Add(1)
		return nil
	}, nil
}

type failingReader struct {
	err error
}

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func collect(t *testing.T, in *Input) []keyseq.Event {
	t.Helper()

	var events []keyseq.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-in.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			require.FailNow(t, "timed out waiting for events", "got %v", events)
		}
	}
}

func startInput(t *testing.T, term Terminal, o Options) *Input {
	t.Helper()
	in := New(term, o)
	require.NoError(t, in.Start(context.Background()))
	t.Cleanup(func() { in.Close() })
	return in
}

func TestInputQuitSequence(t *testing.T) {
	term := newPipeTerminal(t)
	in := startInput(t, term, Options{Quit: []byte{0x18, 0x03}})

	term.write(t, "A\x1b[A\x18\x03left over")

	require.Equal(t, []keyseq.Event{
		keyseq.NewTextEvent("A"),
		keyseq.NewKeyEvent(keyseq.KeyArrowUp, keyseq.ModNone),
		keyseq.NewCharEvent('X', keyseq.ModCtrl),
		keyseq.NewCharEvent('C', keyseq.ModCtrl),
		keyseq.NewQuitEvent(),
	}, collect(t, in))
	require.NoError(t, in.Wait())
	require.NoError(t, in.Err())
	require.Equal(t, int32(1), term.raw.Load())
	require.Equal(t, int32(1), term.restored.Load())

	// Nothing after the quit sequence was consumed
	buf := make([]byte, 32)
	n, err := term.r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "left over", string(buf[:n]))
}

func TestInputEOF(t *testing.T) {
	term := newPipeTerminal(t)
	in := startInput(t, term, Options{Quit: []byte{0x18}})

	term.write(t, "hi")
	require.NoError(t, term.w.Close())

	require.Equal(t, []keyseq.Event{
		keyseq.NewTextEvent("h"),
		keyseq.NewTextEvent("i"),
		keyseq.NewQuitEvent(),
	}, collect(t, in))
	require.NoError(t, in.Wait())
	require.Equal(t, int32(1), term.restored.Load())
}

func TestInputEOFFlushesPending(t *testing.T) {
	term := &readerTerminal{Reader: strings.NewReader("\x1b[1;5")}
	in := startInput(t, term, Options{Quit: []byte{0x18}})

	want := append(keyseq.Encode([]byte("\x1b[1;5")), keyseq.NewQuitEvent())
	require.Equal(t, want, collect(t, in))
	require.NoError(t, in.Wait())
	require.Equal(t, int32(1), term.restored.Load())
}

func TestInputReadError(t *testing.T) {
	boom := errors.New("device unplugged")
	term := &readerTerminal{Reader: failingReader{err: boom}}
	in := startInput(t, term, Options{Quit: []byte{0x18}})

	require.Equal(t, []keyseq.Event{keyseq.NewQuitEvent()}, collect(t, in))

	err := in.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, boom), "got %v", err)
	require.Equal(t, err, in.Err())
	require.Equal(t, int32(1), term.restored.Load())
}

func TestInputClose(t *testing.T) {
	term := newPipeTerminal(t)
	in := startInput(t, term, Options{Quit: []byte{0x18}})

	term.write(t, "a")
	ev := <-in.Events()
	require.Equal(t, keyseq.NewTextEvent("a"), ev)

	closed := make(chan error, 1)
	go func() { closed <- in.Close() }()

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Close did not interrupt the pending read")
	}

	require.Equal(t, []keyseq.Event{keyseq.NewQuitEvent()}, collect(t, in))
	require.ErrorIs(t, in.Err(), context.Canceled)
	require.Equal(t, int32(1), term.restored.Load())

	require.NoError(t, in.Close(), "closing twice is fine")
}

func TestInputContextCancel(t *testing.T) {
	term := newPipeTerminal(t)
	in := New(term, Options{Quit: []byte{0x18}})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, in.Start(ctx))
	cancel()

	require.ErrorIs(t, in.Wait(), context.Canceled)
	require.Equal(t, int32(1), term.restored.Load())
}

// A consumer that stops reading can still shut the input down.
func TestInputCloseWithoutConsumer(t *testing.T) {
	term := newPipeTerminal(t)
	in := startInput(t, term, Options{Quit: []byte{0x18}, BufferSize: 1})

	term.write(t, strings.Repeat("x", 64))
	time.Sleep(50 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- in.Close() }()
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Close blocked on a stalled consumer")
	}
	require.Equal(t, int32(1), term.restored.Load())
}

func TestInputStartTwice(t *testing.T) {
	term := newPipeTerminal(t)
	in := startInput(t, term, Options{})
	require.Error(t, in.Start(context.Background()))
}

type brokenTerminal struct {
	io.Reader
}

func (brokenTerminal) MakeRaw() (func() error, error) {
	return nil, ErrNotTerminal
}

func TestInputMakeRawFails(t *testing.T) {
	in := New(brokenTerminal{Reader: strings.NewReader("a")}, Options{})
	err := in.Start(context.Background())
	require.ErrorIs(t, err, ErrNotTerminal)

	require.NoError(t, in.Wait(), "never started")
	require.NoError(t, in.Close())
}

func TestInputDefaults(t *testing.T) {
	in := New(brokenTerminal{}, Options{})
	require.Equal(t, DefaultQuietWindow, in.Options().QuietWindow)
	require.Equal(t, DefaultBufferSize, in.Options().BufferSize)
	require.Equal(t, DefaultBufferSize, cap(in.Events()))
}
