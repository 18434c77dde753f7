package keyseq

import (
	"errors"
	"fmt"
)

var ErrInSequence = errors.New("expected more bytes to complete a key sequence")
var ErrNoMatch = errors.New("could not match bytes to any key sequence")

// entry is the value stored in a sequence table node. A node that is
// only the prefix of longer sequences holds a partial entry.
type entry struct {
	partial bool
	event   Event
}

// Table maps the exact byte sequences a terminal sends onto events.
// It is built once at init time and is read-only afterwards.
type Table struct {
	trie *TernaryTrie
	size int

	// The canonical sequence of each event, used by Event.Bytes. The
	// first sequence registered for an event wins.
	canonical map[Event]string
}

var sequences = newTable()

// DefaultTable returns the process wide sequence table.
func DefaultTable() *Table {
	return sequences
}

func newTable() *Table {
	return &Table{
		trie:      NewTernaryTrie(),
		canonical: make(map[Event]string),
	}
}

// add registers a concrete sequence and marks every strict prefix of
// it as partial. Registering a sequence twice, or registering one that
// is a prefix of another, is a programming error.
func (t *Table) add(seq string, ev Event) {
	n := t.trie.Root()
	for i := 0; i < len(seq); i++ {
		n, _ = n.Dig(seq[i])
		if i == len(seq)-1 {
			break
		}
		if v := n.Value(); v == nil {
			n.SetValue(&entry{partial: true})
			t.size++
		} else if !v.(*entry).partial {
			panic(fmt.Sprintf("sequence %q shadows %q", seq[:i+1], seq))
		}
	}

	switch v := n.Value(); {
	case v == nil:
		t.size++
	case v.(*entry).partial:
		panic(fmt.Sprintf("sequence %q is a prefix of another sequence", seq))
	default:
		panic(fmt.Sprintf("sequence %q registered twice", seq))
	}
	n.SetValue(&entry{event: ev})

	if _, ok := t.canonical[ev]; !ok {
		t.canonical[ev] = seq
	}
}

// sequenceOf returns the first sequence registered for ev.
func (t *Table) sequenceOf(ev Event) (string, bool) {
	seq, ok := t.canonical[ev]
	return seq, ok
}

// Lookup returns the event registered for exactly seq. It returns
// ErrInSequence if seq is only the beginning of one or more longer
// sequences, and ErrNoMatch if no sequence starts with seq.
func (t *Table) Lookup(seq []byte) (Event, error) {
	if len(seq) == 0 {
		return Event{}, ErrNoMatch
	}

	n := t.trie.GetList(seq)
	if n == nil {
		return Event{}, ErrNoMatch
	}

	e, _ := n.Value().(*entry)
	if e == nil {
		return Event{}, ErrNoMatch
	}
	if e.partial {
		return Event{}, ErrInSequence
	}
	return e.event, nil
}

// Len returns the number of sequences in the table, partial ones included.
func (t *Table) Len() int {
	return t.size
}

// Each calls proc for every sequence in the table in byte order.
// partial is true for sequences that are only prefixes. Iteration
// stops when proc returns false.
func (t *Table) Each(proc func(seq []byte, ev Event, partial bool) bool) {
	var walk func(prefix []byte, n Node) bool
	walk = func(prefix []byte, n Node) bool {
		cont := true
		n.Each(func(child Node) bool {
			seq := append(prefix[:len(prefix):len(prefix)], child.Label())
			if e, ok := child.Value().(*entry); ok {
				if !proc(seq, e.event, e.partial) {
					cont = false
					return false
				}
			}
			cont = walk(seq, child)
			return cont
		})
		return cont
	}
	walk(nil, t.trie.Root())
}

// CSI sequences ending in '~'. The number identifies the key.
var csiTilde = []struct {
	code int
	key  SpecialKey
}{
	{2, KeyInsert},
	{3, KeyDelete},
	{5, KeyPgup},
	{6, KeyPgdn},
	{15, KeyF5},
	{17, KeyF6},
	{18, KeyF7},
	{19, KeyF8},
	{20, KeyF9},
	{21, KeyF10},
	{23, KeyF11},
	{24, KeyF12},
}

// CSI sequences identified by their final byte. They carry a modifier
// in the form "\x1b[1;<mod><final>".
var csiFinal = []struct {
	final byte
	key   SpecialKey
}{
	{'A', KeyArrowUp},
	{'B', KeyArrowDown},
	{'C', KeyArrowRight},
	{'D', KeyArrowLeft},
	{'F', KeyEnd},
	{'H', KeyHome},
	{'P', KeyF1},
	{'Q', KeyF2},
	{'R', KeyF3},
	{'S', KeyF4},
}

func init() {
	t := sequences

	t.add("\x00", NewKeyEvent(KeyNul, ModNone))
	t.add("\t", NewKeyEvent(KeyTab, ModNone))
	t.add("\x7f", NewKeyEvent(KeyBackspace, ModNone))
	t.add("\x1b\t", NewKeyEvent(KeyTab, ModAlt))
	t.add("\x1b\x7f", NewKeyEvent(KeyBackspace, ModAlt))

	// SS3 style F1-F4
	t.add("\x1bOP", NewKeyEvent(KeyF1, ModNone))
	t.add("\x1bOQ", NewKeyEvent(KeyF2, ModNone))
	t.add("\x1bOR", NewKeyEvent(KeyF3, ModNone))
	t.add("\x1bOS", NewKeyEvent(KeyF4, ModNone))

	// Unmodified CSI keys. Only some of the keys in csiFinal are sent
	// without a modifier parameter.
	t.add("\x1b[A", NewKeyEvent(KeyArrowUp, ModNone))
	t.add("\x1b[B", NewKeyEvent(KeyArrowDown, ModNone))
	t.add("\x1b[C", NewKeyEvent(KeyArrowRight, ModNone))
	t.add("\x1b[D", NewKeyEvent(KeyArrowLeft, ModNone))
	t.add("\x1b[H", NewKeyEvent(KeyHome, ModNone))
	t.add("\x1b[F", NewKeyEvent(KeyEnd, ModNone))
	t.add("\x1b[Z", NewKeyEvent(KeyTab, ModShift))
	t.add("\x1b[1~", NewKeyEvent(KeyHome, ModNone))
	t.add("\x1b[4~", NewKeyEvent(KeyEnd, ModNone))

	for _, k := range csiTilde {
		t.add(fmt.Sprintf("\x1b[%d~", k.code), NewKeyEvent(k.key, ModNone))
	}

	// xterm modifier parameters 2 through 8 cover every combination of
	// Shift, Alt and Ctrl.
	for p := 2; p <= 8; p++ {
		mod := xtermModifier(p)
		for _, k := range csiFinal {
			t.add(fmt.Sprintf("\x1b[1;%d%c", p, k.final), NewKeyEvent(k.key, mod))
		}
		for _, k := range csiTilde {
			t.add(fmt.Sprintf("\x1b[%d;%d~", k.code, p), NewKeyEvent(k.key, mod))
		}
	}

	// Terminal.app sends an extra ESC for Ctrl-Alt-Delete
	t.add("\x1b\x1b[3;5~", NewKeyEvent(KeyDelete, ModCtrl|ModAlt))

	t.trie.Balance()
}
