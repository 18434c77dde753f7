package keyinput

import (
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/peco/keyinput/config"
)

func (options *CLIOptions) parse(s []string, stderr io.Writer) ([]string, error) {
	p := flags.NewParser(options, flags.PrintErrors)
	args, err := p.ParseArgs(s)
	if err != nil {
		stderr.Write(options.help())
		return nil, errors.Wrap(err, "invalid command line options")
	}

	if err := options.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid command line arguments")
	}

	return args, nil
}

func (options CLIOptions) Validate() error {
	if options.OptQuietWindow < 0 {
		return errors.Errorf("quiet window must not be negative: %d", options.OptQuietWindow)
	}
	if options.OptBufferSize < 0 {
		return errors.Errorf("buffer size must not be negative: %d", options.OptBufferSize)
	}
	if options.OptFormat != "" {
		var f config.OutputFormat
		if err := f.UnmarshalFlag(options.OptFormat); err != nil {
			return err
		}
	}
	return nil
}

// Apply overrides values in cfg with the options given on the command
// line.
func (options CLIOptions) Apply(cfg *config.Config) error {
	if options.OptQuit != "" {
		cfg.Quit = options.OptQuit
	}
	if options.OptQuietWindow > 0 {
		cfg.QuietWindow = options.OptQuietWindow
	}
	if options.OptBufferSize > 0 {
		cfg.BufferSize = options.OptBufferSize
	}
	if options.OptRaw {
		cfg.Raw = true
	}
	if options.OptFormat != "" {
		if err := cfg.Format.UnmarshalFlag(options.OptFormat); err != nil {
			return err
		}
	}
	return cfg.Validate()
}

func (options CLIOptions) help() []byte {
	buf := bytes.Buffer{}

	fmt.Fprintf(&buf, `
Usage: keyinput [options]

Prints every key pressed on the terminal until the quit sequence is typed.

Options:
`)

	t := reflect.TypeOf(options)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag

		var o string
		if s := tag.Get("short"); s != "" {
			o = fmt.Sprintf("-%s, --%s", tag.Get("short"), tag.Get("long"))
		} else {
			o = fmt.Sprintf("--%s", tag.Get("long"))
		}

		fmt.Fprintf(
			&buf,
			"  %-21s %s\n",
			o,
			tag.Get("description"),
		)
	}

	return buf.Bytes()
}
