package keyseq

import (
	"errors"
	"unicode/utf8"
)

// Matcher consumes bytes one at a time and turns them into events
// using a sequence Table. Bytes are held back while they may still
// become part of a longer sequence; the caller decides how long to
// wait before calling Flush.
//
// A Matcher is not safe for concurrent use.
type Matcher struct {
	table   *Table
	pending []byte
}

// NewMatcher creates a Matcher over the default sequence table.
func NewMatcher() *Matcher {
	return NewMatcherWithTable(DefaultTable())
}

func NewMatcherWithTable(t *Table) *Matcher {
	return &Matcher{
		table:   t,
		pending: make([]byte, 0, 8),
	}
}

// Pending returns true if there are bytes waiting for more input.
func (m *Matcher) Pending() bool {
	return len(m.pending) > 0
}

// Buffered returns a copy of the bytes waiting for more input.
func (m *Matcher) Buffered() []byte {
	return append([]byte(nil), m.pending...)
}

// Reset drops any pending bytes.
func (m *Matcher) Reset() {
	m.pending = m.pending[:0]
}

// Accept appends b to the pending bytes and returns the events that
// became definite as a result, in input order. It returns nil while
// the pending bytes are the beginning of a longer sequence.
//
// The longest sequence always wins: as long as the pending bytes are
// a prefix of some sequence nothing is emitted, even if a shorter
// sequence already matched along the way.
func (m *Matcher) Accept(b byte) []Event {
	m.pending = append(m.pending, b)

	ev, err := m.Match(m.pending)
	switch {
	case err == nil:
		m.Reset()
		return []Event{ev}
	case errors.Is(err, ErrInSequence):
		return nil
	default:
		return m.Flush()
	}
}

// Flush gives up on waiting for more input and converts the pending
// bytes with Encode.
func (m *Matcher) Flush() []Event {
	if len(m.pending) == 0 {
		return nil
	}
	events := Encode(m.pending)
	m.Reset()
	return events
}

// Match classifies buf. It returns the event for an exact table hit,
// ErrInSequence if more bytes are needed and ErrNoMatch otherwise.
//
// Bytes that are not valid UTF-8 never match a table entry. If buf
// only ends in the first bytes of a multi-byte character it is
// reported as ErrInSequence so the character is not split; any other
// invalid input is ErrNoMatch.
func (m *Matcher) Match(buf []byte) (Event, error) {
	if !utf8.Valid(buf) {
		if incompleteRune(buf) {
			return Event{}, ErrInSequence
		}
		return Event{}, ErrNoMatch
	}
	return m.table.Lookup(buf)
}

// incompleteRune reports whether buf is valid UTF-8 except for a
// trailing rune that has been started but not finished.
func incompleteRune(buf []byte) bool {
	for i := len(buf) - 1; i >= 0 && i >= len(buf)-utf8.UTFMax; i-- {
		if utf8.RuneStart(buf[i]) {
			return utf8.Valid(buf[:i]) && !utf8.FullRune(buf[i:])
		}
	}
	return false
}
