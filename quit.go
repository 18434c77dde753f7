package keyinput

import "bytes"

// QuitWatcher looks for a quit sequence in a stream of raw bytes.
// It keeps the longest suffix of the bytes seen so far that is also a
// prefix of the quit sequence, so overlapping occurrences such as
// "ab" followed by "abc" inside "ababc" are not missed.
//
// A QuitWatcher with an empty sequence never fires.
type QuitWatcher struct {
	seq []byte
	buf []byte
}

func NewQuitWatcher(seq []byte) *QuitWatcher {
	return &QuitWatcher{
		seq: append([]byte(nil), seq...),
		buf: make([]byte, 0, len(seq)),
	}
}

// Observe feeds one byte to the watcher and returns true if that byte
// completed the quit sequence. Once the sequence has been seen it keeps
// returning false until Reset is called.
func (w *QuitWatcher) Observe(b byte) bool {
	i := len(w.buf)
	if i >= len(w.seq) {
		return false
	}

	w.buf = append(w.buf, b)
	if b == w.seq[i] {
		return len(w.buf) == len(w.seq)
	}

	// Mismatch: drop bytes from the front until what is left is the
	// beginning of the sequence again, or nothing is left.
	for n := len(w.buf) - 1; n >= 0; n-- {
		suffix := w.buf[len(w.buf)-n:]
		if bytes.HasPrefix(w.seq, suffix) {
			w.buf = append(w.buf[:0], suffix...)
			break
		}
	}
	return false
}

// Buffered returns the bytes that currently match the beginning of the
// quit sequence.
func (w *QuitWatcher) Buffered() []byte {
	return bytes.Clone(w.buf)
}

// Reset forgets everything observed so far.
func (w *QuitWatcher) Reset() {
	w.buf = w.buf[:0]
}
