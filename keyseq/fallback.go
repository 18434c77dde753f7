package keyseq

import (
	"strings"
	"unicode/utf8"
)

// Encode converts bytes that did not match any known sequence into
// events. Printable characters are batched into EventText runs. An ESC
// followed by a printable character or a control byte becomes the Alt
// modified form of that character; an ESC that modifies nothing is
// reported as KeyEsc. Control bytes map to Ctrl-<byte+0x40>, while DEL
// and bytes that are not valid UTF-8 are returned as EventByte.
//
// Every input byte is represented in the output, except for ESC bytes
// that were folded into an Alt modifier.
func Encode(buf []byte) []Event {
	var events []Event
	var text strings.Builder
	escape := false

	flushText := func() {
		if text.Len() > 0 {
			events = append(events, NewTextEvent(text.String()))
			text.Reset()
		}
	}
	// A pending ESC that cannot modify the next byte stands for itself.
	flushEscape := func() {
		if escape {
			events = append(events, NewKeyEvent(KeyEsc, ModNone))
			escape = false
		}
	}
	altIfEscaped := func() ModifierKey {
		if escape {
			escape = false
			return ModAlt
		}
		return ModNone
	}

	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		b := buf[0]
		buf = buf[size:]

		switch {
		case r == utf8.RuneError && size == 1:
			flushText()
			flushEscape()
			events = append(events, NewByteEvent(b))
		case r == 0x1b:
			if escape {
				events = append(events, NewKeyEvent(KeyEsc, ModAlt))
				escape = false
				continue
			}
			flushText()
			escape = true
		case r == '\t':
			flushText()
			events = append(events, NewKeyEvent(KeyTab, altIfEscaped()))
		case r < 0x20:
			flushText()
			events = append(events, NewCharEvent(r+0x40, ModCtrl|altIfEscaped()))
		case r == 0x7f:
			flushText()
			flushEscape()
			events = append(events, NewByteEvent(b))
		default:
			if escape {
				events = append(events, NewCharEvent(r, altIfEscaped()))
				continue
			}
			text.WriteRune(r)
		}
	}
	flushEscape()
	flushText()

	return events
}
