package engine

import (
	"fmt"

	"github.com/user/mpvplay/pkg/ports"
)

// Event is a player event. The concrete types below are the only implementations.
type Event interface {
	// Type returns a stable lowercase name used in logs and metrics.
	Type() string
	isEvent()
}

// EndFileReason is why playback of a file ended.
type EndFileReason int

const (
	EndFileEOF EndFileReason = iota
	EndFileStop
	EndFileQuit
	EndFileError
	EndFileRedirect
	EndFileUnknown
)

func (r EndFileReason) String() string {
	switch r {
	case EndFileEOF:
		return "eof"
	case EndFileStop:
		return "stop"
	case EndFileQuit:
		return "quit"
	case EndFileError:
		return "error"
	case EndFileRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// endFileReasonFromNative maps mpv_end_file_reason values.
func endFileReasonFromNative(r int) EndFileReason {
	switch r {
	case 0:
		return EndFileEOF
	case 2:
		return EndFileStop
	case 3:
		return EndFileQuit
	case 4:
		return EndFileError
	case 5:
		return EndFileRedirect
	default:
		return EndFileUnknown
	}
}

type (
	NoneEvent            struct{}
	ShutdownEvent        struct{}
	IdleEvent            struct{}
	StartFileEvent       struct{}
	FileLoadedEvent      struct{}
	VideoReconfigEvent   struct{}
	AudioReconfigEvent   struct{}
	SeekEvent            struct{}
	PlaybackRestartEvent struct{}
	QueueOverflowEvent   struct{}

	EndFileEvent struct {
		Reason EndFileReason
		Error  int
	}

	PropertyChangeEvent struct {
		Name  string
		Value interface{}
	}

	LogMessageEvent struct {
		Level  string
		Prefix string
		Text   string
	}

	ErrorEvent struct {
		Code    int
		Message string
	}
)

func (NoneEvent) Type() string            { return "none" }
func (ShutdownEvent) Type() string        { return "shutdown" }
func (IdleEvent) Type() string            { return "idle" }
func (StartFileEvent) Type() string       { return "start_file" }
func (FileLoadedEvent) Type() string      { return "file_loaded" }
func (VideoReconfigEvent) Type() string   { return "video_reconfig" }
func (AudioReconfigEvent) Type() string   { return "audio_reconfig" }
func (SeekEvent) Type() string            { return "seek" }
func (PlaybackRestartEvent) Type() string { return "playback_restart" }
func (QueueOverflowEvent) Type() string   { return "queue_overflow" }
func (EndFileEvent) Type() string         { return "end_file" }
func (PropertyChangeEvent) Type() string  { return "property_change" }
func (LogMessageEvent) Type() string      { return "log_message" }
func (ErrorEvent) Type() string           { return "error" }

func (NoneEvent) isEvent()            {}
func (ShutdownEvent) isEvent()        {}
func (IdleEvent) isEvent()            {}
func (StartFileEvent) isEvent()       {}
func (FileLoadedEvent) isEvent()      {}
func (VideoReconfigEvent) isEvent()   {}
func (AudioReconfigEvent) isEvent()   {}
func (SeekEvent) isEvent()            {}
func (PlaybackRestartEvent) isEvent() {}
func (QueueOverflowEvent) isEvent()   {}
func (EndFileEvent) isEvent()         {}
func (PropertyChangeEvent) isEvent()  {}
func (LogMessageEvent) isEvent()      {}
func (ErrorEvent) isEvent()           {}

// ParseEvent converts a raw native event. Unknown or malformed events
// become NoneEvent, except that an unknown event carrying an error code, or
// a failed asynchronous reply, becomes an ErrorEvent.
func ParseEvent(raw ports.RawEvent, describe func(int) string) Event {
	switch raw.ID {
	case ports.EventNone:
		return NoneEvent{}
	case ports.EventShutdown:
		return ShutdownEvent{}
	case ports.EventIdle:
		return IdleEvent{}
	case ports.EventStartFile:
		return StartFileEvent{}
	case ports.EventFileLoaded:
		return FileLoadedEvent{}
	case ports.EventVideoReconfig:
		return VideoReconfigEvent{}
	case ports.EventAudioReconfig:
		return AudioReconfigEvent{}
	case ports.EventSeek:
		return SeekEvent{}
	case ports.EventPlaybackRestart:
		return PlaybackRestartEvent{}
	case ports.EventQueueOverflow:
		return QueueOverflowEvent{}
	case ports.EventEndFile:
		if raw.EndFile == nil {
			return NoneEvent{}
		}
		return EndFileEvent{
			Reason: endFileReasonFromNative(raw.EndFile.Reason),
			Error:  raw.EndFile.Error,
		}
	case ports.EventPropertyChange:
		if raw.Property == nil || raw.Property.Name == "" {
			return NoneEvent{}
		}
		return PropertyChangeEvent{Name: raw.Property.Name, Value: raw.Property.Value}
	case ports.EventLogMessage:
		if raw.Log == nil {
			return NoneEvent{}
		}
		return LogMessageEvent{Level: raw.Log.Level, Prefix: raw.Log.Prefix, Text: raw.Log.Text}
	case ports.EventGetPropertyReply, ports.EventSetPropertyReply, ports.EventCommandReply:
		if raw.Error < 0 {
			return ErrorEvent{Code: raw.Error, Message: describeCode(raw.Error, describe)}
		}
		return NoneEvent{}
	}

	if raw.Error != 0 {
		return ErrorEvent{Code: raw.Error, Message: fmt.Sprintf("Event error: %d", raw.Error)}
	}
	return NoneEvent{}
}

func describeCode(code int, describe func(int) string) string {
	if describe != nil {
		if s := describe(code); s != "" {
			return s
		}
	}
	return fmt.Sprintf("error code %d", code)
}
