package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/peco/keyinput/internal/util"
	"github.com/peco/keyinput/keyseq"
)

// OutputFormat specifies how received events are printed.
type OutputFormat string

const (
	OutputFormatName OutputFormat = "name"
	OutputFormatJSON OutputFormat = "json"
)

func (o *OutputFormat) unmarshal(s string) error {
	switch s {
	case "", "name":
		*o = OutputFormatName
	case "json":
		*o = OutputFormatJSON
	default:
		return fmt.Errorf("invalid Format value %q: must be %q or %q", s, OutputFormatName, OutputFormatJSON)
	}
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by JSON/YAML decoders).
func (o *OutputFormat) UnmarshalText(b []byte) error {
	return o.unmarshal(string(b))
}

// UnmarshalFlag implements go-flags Unmarshaler (used by CLI flag parsing).
func (o *OutputFormat) UnmarshalFlag(s string) error {
	return o.unmarshal(s)
}

// Config holds all the data that can be configured in the
// external configuration file
type Config struct {
	// Quit is the key sequence that stops input, written as a comma
	// separated list of key names such as "C-x,C-c". Literal bytes
	// can be given as 0xNN.
	Quit string `json:"Quit" yaml:"Quit"`

	// QuietWindow is how many milliseconds to wait for the rest of an
	// escape sequence.
	QuietWindow int `json:"QuietWindow" yaml:"QuietWindow"`

	BufferSize int          `json:"BufferSize" yaml:"BufferSize"`
	Raw        bool         `json:"Raw" yaml:"Raw"`
	Format     OutputFormat `json:"Format" yaml:"Format"`
}

const (
	DefaultQuit        = "C-x"
	DefaultQuietWindow = 100
	DefaultBufferSize  = 256
)

var homedirFunc = util.Homedir

// Init initializes the Config with default values
func (c *Config) Init() error {
	c.Quit = DefaultQuit
	c.QuietWindow = DefaultQuietWindow
	c.BufferSize = DefaultBufferSize
	c.Format = OutputFormatName
	return nil
}

// ReadFilename reads the config from the given file, and
// does the appropriate processing, if any
func (c *Config) ReadFilename(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer f.Close()

	switch ext := filepath.Ext(filename); ext {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(c)
		if err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		err = json.NewDecoder(f).Decode(c)
		if err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	}

	return c.Validate()
}

// Validate checks that every value can be used as is.
func (c *Config) Validate() error {
	// Raw mode turns C-c into a plain byte, so without a quit sequence
	// there is no way to stop reading from the keyboard.
	seq, err := c.QuitSequence()
	if err != nil {
		return err
	}
	if len(seq) == 0 {
		return fmt.Errorf("invalid Quit value %q: must name at least one key", c.Quit)
	}
	if c.QuietWindow < 0 {
		return fmt.Errorf("invalid QuietWindow %d: must not be negative", c.QuietWindow)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("invalid BufferSize %d: must not be negative", c.BufferSize)
	}
	return nil
}

// QuitSequence returns the bytes of the quit key sequence.
func (c *Config) QuitSequence() ([]byte, error) {
	seq, err := keyseq.ParseSequence(c.Quit)
	if err != nil {
		return nil, fmt.Errorf("invalid Quit value %q: %w", c.Quit, err)
	}
	return seq, nil
}

// QuietWindowDuration returns QuietWindow as a time.Duration.
func (c *Config) QuietWindowDuration() time.Duration {
	return time.Duration(c.QuietWindow) * time.Millisecond
}

// Locator locates a config file in a given directory.
type Locator interface {
	Locate(string) (string, error)
}

// LocatorFunc is a function that implements Locator.
type LocatorFunc func(string) (string, error)

// Locate calls the underlying function.
func (f LocatorFunc) Locate(dir string) (string, error) {
	return f(dir)
}

var configFilenames = []string{"config.json", "config.yaml", "config.yml"}

// DefaultConfigLocator searches for a config file with one of the known
// filenames (config.json, config.yaml, config.yml) in the given directory.
var DefaultConfigLocator = LocatorFunc(func(dir string) (string, error) {
	for _, basename := range configFilenames {
		file := filepath.Join(dir, basename)
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", fmt.Errorf("config file not found in %s", dir)
})

// LocateRcfile attempts to find the config file in various locations
func LocateRcfile(locater Locator) (string, error) {
	// http://standards.freedesktop.org/basedir-spec/basedir-spec-latest.html
	//
	// Try in this order:
	//	  $XDG_CONFIG_HOME/keyinput/config.{json,yaml,yml}
	//    $XDG_CONFIG_DIR/keyinput/config.{json,yaml,yml} (where XDG_CONFIG_DIR is listed in $XDG_CONFIG_DIRS)
	//	  ~/.keyinput/config.{json,yaml,yml}

	home, uErr := homedirFunc()

	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		if file, err := locater.Locate(filepath.Join(dir, "keyinput")); err == nil {
			return file, nil
		}
	} else if uErr == nil { // silently ignore failure for homedir()
		if file, err := locater.Locate(filepath.Join(home, ".config", "keyinput")); err == nil {
			return file, nil
		}
	}

	if dirs := os.Getenv("XDG_CONFIG_DIRS"); dirs != "" {
		for dir := range strings.SplitSeq(dirs, string(filepath.ListSeparator)) {
			if file, err := locater.Locate(filepath.Join(dir, "keyinput")); err == nil {
				return file, nil
			}
		}
	}

	if uErr == nil {
		if file, err := locater.Locate(filepath.Join(home, ".keyinput")); err == nil {
			return file, nil
		}
	}

	return "", errors.New("config file not found")
}
