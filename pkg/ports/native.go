package ports

// Handle is an opaque reference to a native player instance.
// The zero value means no instance.
type Handle uintptr

// RenderHandle is an opaque reference to a native render context.
type RenderHandle uintptr

// EventID identifies a native event type.
type EventID int32

// Native event identifiers as defined by the libmpv client API.
const (
	EventNone             EventID = 0
	EventShutdown         EventID = 1
	EventLogMessage       EventID = 2
	EventGetPropertyReply EventID = 3
	EventSetPropertyReply EventID = 4
	EventCommandReply     EventID = 5
	EventStartFile        EventID = 6
	EventEndFile          EventID = 7
	EventFileLoaded       EventID = 8
	EventIdle             EventID = 11
	EventTick             EventID = 14
	EventClientMessage    EventID = 16
	EventVideoReconfig    EventID = 17
	EventAudioReconfig    EventID = 18
	EventSeek             EventID = 20
	EventPlaybackRestart  EventID = 21
	EventPropertyChange   EventID = 22
	EventQueueOverflow    EventID = 24
	EventHook             EventID = 25
)

// Format identifies the data format of a native property value.
type Format int32

const (
	FormatNone      Format = 0
	FormatString    Format = 1
	FormatOSDString Format = 2
	FormatFlag      Format = 3
	FormatInt64     Format = 4
	FormatDouble    Format = 5
	FormatNode      Format = 6
)

// RawEvent is a native event copied out of native memory.
// Only the payload matching ID is set.
type RawEvent struct {
	ID            EventID
	Error         int
	ReplyUserdata uint64

	EndFile  *RawEndFile
	Property *RawProperty
	Log      *RawLogMessage
}

// RawEndFile is the payload of an end-file event.
type RawEndFile struct {
	Reason int
	Error  int
}

// RawProperty is the payload of a property-change event.
// Value holds a string, bool, int64 or float64 depending on Format, or nil.
type RawProperty struct {
	Name   string
	Format Format
	Value  interface{}
}

// RawLogMessage is the payload of a log-message event.
type RawLogMessage struct {
	Prefix string
	Level  string
	Text   string
}

// NativeLibrary is the raw client API of the native media library.
// Calls mirror the C entry points: integer results are native error codes
// (0 on success, negative on failure). Strings crossing this boundary are
// always Go-owned copies.
type NativeLibrary interface {
	// ClientAPIVersion returns the packed (major<<16 | minor) client API version.
	ClientAPIVersion() uint64

	// Create allocates a new player instance. It returns 0 on failure.
	Create() Handle

	// Initialize starts the player instance.
	Initialize(h Handle) int

	// TerminateDestroy stops playback and frees the instance.
	TerminateDestroy(h Handle)

	SetOptionString(h Handle, name, value string) int
	SetPropertyString(h Handle, name, value string) int
	GetPropertyString(h Handle, name string) (string, int)
	SetPropertyDouble(h Handle, name string, value float64) int
	GetPropertyDouble(h Handle, name string) (float64, int)
	SetPropertyFlag(h Handle, name string, value bool) int
	GetPropertyFlag(h Handle, name string) (bool, int)
	GetPropertyInt64(h Handle, name string) (int64, int)

	// Command runs a command given as a list of arguments, name first.
	Command(h Handle, args []string) int

	// RequestLogMessages enables log-message events at the given minimum level.
	RequestLogMessages(h Handle, level string) int

	// WaitEvent blocks up to timeout seconds for the next event.
	// An EventNone result means the timeout elapsed.
	WaitEvent(h Handle, timeout float64) RawEvent

	// Wakeup interrupts a WaitEvent call in progress.
	Wakeup(h Handle)

	// ErrorString returns the native description of an error code.
	ErrorString(code int) string

	// RenderContextCreate creates a software render context for h.
	RenderContextCreate(h Handle) (RenderHandle, int)

	// RenderSoftware renders the current video frame as RGBA into buf,
	// which must hold at least stride*height bytes.
	RenderSoftware(rc RenderHandle, width, height, stride int, buf []byte) int

	RenderContextFree(rc RenderHandle)
}
