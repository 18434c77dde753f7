package keyinput

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/cancelreader"

	"github.com/peco/keyinput/keyseq"
)

const (
	// DefaultQuietWindow is how long the decoder waits for the rest of
	// an escape sequence before giving up on it.
	DefaultQuietWindow = 100 * time.Millisecond

	// DefaultBufferSize is the capacity of the byte and event channels.
	DefaultBufferSize = 256
)

// Terminal is the device keyboard input is read from. Putting the
// device into raw mode is the Terminal's job; the reader calls MakeRaw
// once before it starts reading and calls the returned function when
// it stops, no matter why it stops.
type Terminal interface {
	io.Reader
	MakeRaw() (restore func() error, err error)
}

// Options configures an Input.
type Options struct {
	// Quit is the byte sequence that ends input capture. An empty
	// sequence never matches, in which case input ends only at EOF, on
	// a read error or when the Input is closed.
	Quit []byte

	// QuietWindow overrides DefaultQuietWindow.
	QuietWindow time.Duration

	// BufferSize overrides DefaultBufferSize.
	BufferSize int

	// Raw disables decoding. Every byte is delivered as an
	// keyseq.EventByte, followed by keyseq.EventQuit at the end.
	Raw bool
}

// Input reads bytes from a Terminal and turns them into key events.
// It owns two goroutines: a reader that moves bytes off the device
// and watches for the quit sequence, and a decoder that matches the
// bytes against known escape sequences.
type Input struct {
	term    Terminal
	options Options

	byteCh  chan byte
	eventCh chan keyseq.Event

	cr     cancelreader.CancelReader
	cancel context.CancelFunc

	mutex   sync.Mutex
	started bool
	err     error
	done    chan struct{}
}

// TTY is a Terminal backed by a terminal device file.
type TTY struct {
	file *os.File
}

// CLIOptions are the command line options of the keyinput command.
type CLIOptions struct {
	OptHelp        bool   `short:"h" long:"help" description:"show this help message and exit"`
	OptTTY         string `long:"tty" description:"path to the TTY (default: stdin)"`
	OptQuit        string `long:"quit" description:"key sequence that stops input, e.g. 'C-x,C-c' (default: C-x)"`
	OptQuietWindow int    `long:"quiet-window" description:"milliseconds to wait for the rest of an escape sequence"`
	OptBufferSize  int    `long:"buffer-size" short:"b" description:"number of bytes and events to buffer"`
	OptRaw         bool   `long:"raw" description:"print raw bytes instead of decoded keys"`
	OptFormat      string `long:"format" description:"output format, 'name' (default) or 'json'"`
	OptRcfile      string `long:"rcfile" description:"path to the settings file"`
	OptList        bool   `long:"list" description:"list known escape sequences and exit"`
	OptVersion     bool   `long:"version" description:"print the version and exit"`
}
