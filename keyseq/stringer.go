package keyseq

import "fmt"

const _EventType_name = "EventTextEventCharEventKeyEventByteEventQuit"

var _EventType_index = [...]uint8{0, 9, 18, 26, 35, 44}

func (i EventType) String() string {
	i -= 1
	if i < 0 || i >= EventType(len(_EventType_index)-1) {
		return fmt.Sprintf("EventType(%d)", i+1)
	}
	return _EventType_name[_EventType_index[i]:_EventType_index[i+1]]
}
