package keyseq

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// EventType identifies which fields of an Event are meaningful.
type EventType int

const (
	// EventText is a run of printable characters, stored in Text.
	EventText EventType = iota + 1
	// EventChar is a single rune in Ch modified by Mod (Alt-x, Ctrl-X).
	EventChar
	// EventKey is a SpecialKey in Key modified by Mod.
	EventKey
	// EventByte is a byte that maps to nothing, stored in Byte.
	EventByte
	// EventQuit ends the stream.
	EventQuit
)

// Event is a single decoded unit of terminal input. Events are plain
// values and compare with ==.
type Event struct {
	Type EventType
	Mod  ModifierKey
	Key  SpecialKey
	Ch   rune
	Byte byte
	Text string
}

func NewTextEvent(s string) Event {
	return Event{Type: EventText, Text: s}
}

func NewCharEvent(r rune, mod ModifierKey) Event {
	return Event{Type: EventChar, Ch: r, Mod: mod}
}

func NewKeyEvent(k SpecialKey, mod ModifierKey) Event {
	return Event{Type: EventKey, Key: k, Mod: mod}
}

func NewByteEvent(b byte) Event {
	return Event{Type: EventByte, Byte: b}
}

func NewQuitEvent() Event {
	return Event{Type: EventQuit}
}

// String renders the event in the notation ToKey understands, so that
// "C-x" prints as "C-x" and ArrowUp with Shift as "S-ArrowUp".
// Text is rendered verbatim.
func (e Event) String() string {
	var s string
	switch e.Type {
	case EventText:
		return e.Text
	case EventByte:
		return fmt.Sprintf("<%#X>", e.Byte)
	case EventQuit:
		return "<Quit>"
	case EventChar:
		r := e.Ch
		if e.Mod&ModCtrl != 0 && 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		s = string(r)
	case EventKey:
		s = e.Key.String()
	default:
		return fmt.Sprintf("Event(%d)", e.Type)
	}

	if m := e.Mod.String(); m != "" {
		return m + "-" + s
	}
	return s
}

// Bytes returns the byte sequence a terminal sends for this event.
// Not every event can be produced by a terminal; Shift-modified
// characters, for instance, return an error.
func (e Event) Bytes() ([]byte, error) {
	switch e.Type {
	case EventText:
		return []byte(e.Text), nil
	case EventByte:
		return []byte{e.Byte}, nil
	case EventChar:
		var b []byte
		if e.Mod&ModAlt != 0 {
			b = append(b, 0x1b)
		}
		switch e.Mod &^ ModAlt {
		case ModNone:
			return utf8.AppendRune(b, e.Ch), nil
		case ModCtrl:
			r := toUpper(e.Ch)
			if r < '@' || r > '_' {
				return nil, errors.Errorf("no control code for %q", e.Ch)
			}
			return append(b, byte(r-0x40)), nil
		}
	case EventKey:
		if e.Mod == ModNone {
			if b, ok := keyToBytes[e.Key]; ok {
				return append([]byte(nil), b...), nil
			}
		}
		if seq, ok := sequences.sequenceOf(e); ok {
			return []byte(seq), nil
		}
		if e.Mod == ModAlt {
			if b, ok := keyToBytes[e.Key]; ok {
				return append([]byte{0x1b}, b...), nil
			}
		}
	}
	return nil, errors.Errorf("no byte sequence for %s", e)
}
