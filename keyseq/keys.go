package keyseq

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// SpecialKey is a non-printable key that terminals report through a
// control byte or an escape sequence.
type SpecialKey int

const (
	KeyNul SpecialKey = iota + 1
	KeyBackspace
	KeyTab
	KeyEsc
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPgup
	KeyPgdn
	KeyArrowUp
	KeyArrowDown
	KeyArrowRight
	KeyArrowLeft
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

type ModifierKey int

const (
	ModNone  ModifierKey = 0
	ModAlt   ModifierKey = 1 << 0 // 0x01
	ModCtrl  ModifierKey = 1 << 1 // 0x02
	ModShift ModifierKey = 1 << 2 // 0x04
)

// This map is populated in init(). Names follow the ones used in
// keymap configuration so that they can be typed back in.
var stringToKey = map[string]SpecialKey{}
var keyToString = map[SpecialKey]string{}

// Bytes a terminal in raw mode sends for a bare key, used when
// converting key names back into a byte sequence.
var keyToBytes = map[SpecialKey][]byte{}

func mapkey(n string, k SpecialKey, seq string) {
	stringToKey[n] = k
	keyToString[k] = n
	if seq != "" {
		keyToBytes[k] = []byte(seq)
	}
}

func init() {
	mapkey("Nul", KeyNul, "\x00")
	mapkey("BS", KeyBackspace, "\x7f")
	mapkey("Tab", KeyTab, "\t")
	mapkey("Esc", KeyEsc, "\x1b")
	mapkey("Delete", KeyDelete, "\x1b[3~")
	mapkey("Insert", KeyInsert, "\x1b[2~")
	mapkey("Home", KeyHome, "\x1b[H")
	mapkey("End", KeyEnd, "\x1b[F")
	mapkey("Pgup", KeyPgup, "\x1b[5~")
	mapkey("Pgdn", KeyPgdn, "\x1b[6~")
	mapkey("ArrowUp", KeyArrowUp, "\x1b[A")
	mapkey("ArrowDown", KeyArrowDown, "\x1b[B")
	mapkey("ArrowRight", KeyArrowRight, "\x1b[C")
	mapkey("ArrowLeft", KeyArrowLeft, "\x1b[D")

	fkeys := []string{
		"\x1bOP", "\x1bOQ", "\x1bOR", "\x1bOS",
		"\x1b[15~", "\x1b[17~", "\x1b[18~", "\x1b[19~",
		"\x1b[20~", "\x1b[21~", "\x1b[23~", "\x1b[24~",
	}
	for i, seq := range fkeys {
		mapkey(fmt.Sprintf("F%d", i+1), KeyF1+SpecialKey(i), seq)
	}
}

// Names accepted when parsing that do not correspond to a SpecialKey.
// Enter arrives as a carriage return because ICRNL is turned off.
var aliases = map[string]Event{
	"Enter": NewCharEvent('M', ModCtrl),
	"Space": NewTextEvent(" "),
}

func (k SpecialKey) String() string {
	if s, ok := keyToString[k]; ok {
		return s
	}
	return "SpecialKey(" + strconv.Itoa(int(k)) + ")"
}

func (m ModifierKey) String() string {
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "C")
	}
	if m&ModShift != 0 {
		parts = append(parts, "S")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "M")
	}
	return strings.Join(parts, "-")
}

// xtermModifier converts the modifier parameter of an xterm style
// sequence (as in "\x1b[1;5A") into a ModifierKey. The parameter is
// one more than a bit set of Shift (1), Alt (2) and Ctrl (4).
func xtermModifier(p int) ModifierKey {
	var m ModifierKey
	bits := p - 1
	if bits&0x1 != 0 {
		m |= ModShift
	}
	if bits&0x2 != 0 {
		m |= ModAlt
	}
	if bits&0x4 != 0 {
		m |= ModCtrl
	}
	return m
}

// ToKey parses a single key name such as "C-x", "M-a", "S-F5" or
// "ArrowUp" into the event it names.
func ToKey(name string) (Event, error) {
	var mod ModifierKey
	key := name
	for len(key) > 2 && key[1] == '-' {
		switch key[0] {
		case 'C':
			mod |= ModCtrl
		case 'M':
			mod |= ModAlt
		case 'S':
			mod |= ModShift
		default:
			return Event{}, errors.Errorf("unknown modifier in %s", name)
		}
		key = key[2:]
	}

	if k, ok := stringToKey[key]; ok {
		return NewKeyEvent(k, mod), nil
	}

	if ev, ok := aliases[key]; ok {
		if mod == ModNone {
			return ev, nil
		}
		if ev.Type == EventText {
			return NewCharEvent(' ', mod), nil
		}
		ev.Mod |= mod
		return ev, nil
	}

	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || size != len(key) {
		return Event{}, errors.Errorf("no such key %s", name)
	}
	if mod&ModCtrl != 0 {
		r = toUpper(r)
	}
	return NewCharEvent(r, mod), nil
}

// ParseSequence converts a comma separated list of key names (for
// example "C-x,C-c") into the bytes a terminal in raw mode sends for
// them. Terms of the form 0xNN are taken as literal bytes.
func ParseSequence(s string) ([]byte, error) {
	var seq []byte
	for term := range strings.SplitSeq(s, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		if strings.HasPrefix(term, "0x") && len(term) > 2 {
			b, err := strconv.ParseUint(term[2:], 16, 8)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to convert '%s'", term)
			}
			seq = append(seq, byte(b))
			continue
		}

		ev, err := ToKey(term)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to convert '%s'", term)
		}
		b, err := ev.Bytes()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to convert '%s'", term)
		}
		seq = append(seq, b...)
	}
	return seq, nil
}

func toUpper(r rune) rune {
	if 'a' <= r && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
