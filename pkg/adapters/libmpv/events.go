package libmpv

import (
	"unsafe"

	"github.com/user/mpvplay/pkg/ports"
)

// Layouts of the client.h event structs on 64-bit and 32-bit targets alike;
// Go inserts the same alignment padding a C compiler does.
type cEvent struct {
	EventID       int32
	Error         int32
	ReplyUserdata uint64
	Data          uintptr
}

type cEventEndFile struct {
	Reason int32
	Error  int32
}

type cEventProperty struct {
	Name   uintptr
	Format int32
	Data   uintptr
}

type cEventLogMessage struct {
	Prefix uintptr
	Level  uintptr
	Text   uintptr
}

// decodeEvent copies the event at ptr and its payload into Go memory.
func decodeEvent(ptr uintptr) ports.RawEvent {
	ev := (*cEvent)(unsafe.Pointer(ptr))
	raw := ports.RawEvent{
		ID:            ports.EventID(ev.EventID),
		Error:         int(ev.Error),
		ReplyUserdata: ev.ReplyUserdata,
	}
	if ev.Data == 0 {
		return raw
	}

	switch raw.ID {
	case ports.EventEndFile:
		ef := (*cEventEndFile)(unsafe.Pointer(ev.Data))
		raw.EndFile = &ports.RawEndFile{Reason: int(ef.Reason), Error: int(ef.Error)}
	case ports.EventPropertyChange, ports.EventGetPropertyReply:
		raw.Property = decodeProperty((*cEventProperty)(unsafe.Pointer(ev.Data)))
	case ports.EventLogMessage:
		lm := (*cEventLogMessage)(unsafe.Pointer(ev.Data))
		raw.Log = &ports.RawLogMessage{
			Prefix: goStringFromPtr(lm.Prefix),
			Level:  goStringFromPtr(lm.Level),
			Text:   goStringFromPtr(lm.Text),
		}
	}
	return raw
}

func decodeProperty(p *cEventProperty) *ports.RawProperty {
	prop := &ports.RawProperty{
		Name:   goStringFromPtr(p.Name),
		Format: ports.Format(p.Format),
	}
	if p.Data == 0 {
		return prop
	}
	switch prop.Format {
	case ports.FormatString, ports.FormatOSDString:
		// data is a char**
		prop.Value = goStringFromPtr(*(*uintptr)(unsafe.Pointer(p.Data)))
	case ports.FormatFlag:
		prop.Value = *(*int32)(unsafe.Pointer(p.Data)) != 0
	case ports.FormatInt64:
		prop.Value = *(*int64)(unsafe.Pointer(p.Data))
	case ports.FormatDouble:
		prop.Value = *(*float64)(unsafe.Pointer(p.Data))
	}
	return prop
}
