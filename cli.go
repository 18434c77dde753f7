package keyinput

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lestrrat-go/pdebug"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"github.com/peco/keyinput/config"
	"github.com/peco/keyinput/keyseq"
	"github.com/peco/keyinput/sig"
)

var version = "v0.1.0"

// ErrSignalReceived is returned by CLI.Run when a signal ended the
// session.
var ErrSignalReceived = errors.New("received signal")

type ignorableError struct {
	error
}

func (ignorableError) Ignorable() bool { return true }

type exitStatusError struct {
	error
	status int
}

func (e exitStatusError) ExitStatus() int { return e.status }

func (e exitStatusError) Unwrap() error { return e.error }

// nameColumn is the width event names are padded to.
const nameColumn = 16

// CLI is the keyinput command.
type CLI struct {
	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer
}

func NewCLI() *CLI {
	return &CLI{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run parses args, reads the configuration and prints key events until
// the quit sequence is typed, the terminal goes away, ctx is cancelled
// or a signal arrives.
func (c *CLI) Run(ctx context.Context, args []string) (err error) {
	if pdebug.Enabled {
		g := pdebug.Marker("CLI.Run").BindError(&err)
		defer g.End()
	}

	var options CLIOptions
	if _, err := options.parse(args, c.Stderr); err != nil {
		return err
	}

	if options.OptHelp {
		c.Stdout.Write(options.help())
		return ignorableError{errors.New("user asked to show help message")}
	}

	if options.OptVersion {
		fmt.Fprintf(c.Stderr, "keyinput: %s\n", version)
		return ignorableError{errors.New("user asked to show version")}
	}

	if options.OptList {
		return c.list()
	}

	cfg, err := loadConfig(options)
	if err != nil {
		return err
	}

	quit, err := cfg.QuitSequence()
	if err != nil {
		return err
	}

	tty, closeTTY, err := c.openTTY(options.OptTTY)
	if err != nil {
		return err
	}
	defer closeTTY()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigh := sig.New(nil)
	go sigh.Loop(ctx, cancel)

	in := New(tty, Options{
		Quit:        quit,
		QuietWindow: cfg.QuietWindowDuration(),
		BufferSize:  cfg.BufferSize,
		Raw:         cfg.Raw,
	})
	if err := in.Start(ctx); err != nil {
		return exitStatusError{error: err, status: 1}
	}

	// Output is left alone by raw mode, input is not: each line ends with
	// an explicit carriage return so the cursor returns to column zero.
	printEvent := c.printer(cfg.Format)
	for ev := range in.Events() {
		if err := printEvent(ev); err != nil {
			in.Close()
			return errors.Wrap(err, "failed to write event")
		}
	}

	err = in.Wait()
	if s := sigh.Received(); s != nil {
		return exitStatusError{
			error:  errors.Wrapf(ErrSignalReceived, "%s", s),
			status: sig.ExitStatus(s),
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadConfig(options CLIOptions) (*config.Config, error) {
	var cfg config.Config
	if err := cfg.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize config")
	}

	rcfile := options.OptRcfile
	if rcfile == "" {
		if file, err := config.LocateRcfile(config.DefaultConfigLocator); err == nil {
			rcfile = file
		}
	}

	if rcfile != "" {
		if err := cfg.ReadFilename(rcfile); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", rcfile)
		}
	}

	if err := options.Apply(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid options")
	}
	return &cfg, nil
}

func (c *CLI) openTTY(path string) (*TTY, func(), error) {
	if path != "" {
		tty, err := OpenTTY(path)
		if err != nil {
			return nil, nil, err
		}
		return tty, func() { tty.Close() }, nil
	}

	if c.Stdin == nil || !IsTty(c.Stdin.Fd()) {
		return nil, nil, exitStatusError{
			error:  errors.Wrap(ErrNotTerminal, "standard input must be a terminal (or use --tty)"),
			status: 2,
		}
	}
	return NewTTY(c.Stdin), func() {}, nil
}

type eventRecord struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Bytes []byte `json:"bytes,omitempty"`
}

func (c *CLI) printer(format config.OutputFormat) func(keyseq.Event) error {
	if format == config.OutputFormatJSON {
		return func(ev keyseq.Event) error {
			rec := eventRecord{Type: ev.Type.String(), Name: ev.String()}
			if b, err := ev.Bytes(); err == nil {
				rec.Bytes = b
			}
			buf, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.Stdout, "%s\r\n", buf)
			return err
		}
	}

	return func(ev keyseq.Event) error {
		var err error
		if b, berr := ev.Bytes(); berr == nil {
			_, err = fmt.Fprintf(c.Stdout, "Received %s %q\r\n", runewidth.FillRight(ev.String(), nameColumn), b)
		} else {
			_, err = fmt.Fprintf(c.Stdout, "Received %s\r\n", ev.String())
		}
		return err
	}
}

// list prints every complete sequence the decoder knows, one per line.
func (c *CLI) list() error {
	var err error
	keyseq.DefaultTable().Each(func(seq []byte, ev keyseq.Event, partial bool) bool {
		if partial {
			return true
		}
		_, err = fmt.Fprintf(c.Stdout, "%s %q\n", runewidth.FillRight(ev.String(), nameColumn), seq)
		return err == nil
	})
	return err
}
