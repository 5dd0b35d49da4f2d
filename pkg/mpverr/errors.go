// Package mpverr defines the structured error taxonomy of the playback engine
// and the translation from native error codes.
package mpverr

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Kind is the failure domain of an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindLibraryNotFound
	KindInitialization
	KindPlayback
	KindConfiguration
	KindProperty
	KindCommand
	KindResource
	KindRenderContext
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLibraryNotFound:
		return "library_not_found"
	case KindInitialization:
		return "initialization"
	case KindPlayback:
		return "playback"
	case KindConfiguration:
		return "configuration"
	case KindProperty:
		return "property"
	case KindCommand:
		return "command"
	case KindResource:
		return "resource"
	case KindRenderContext:
		return "render_context"
	default:
		return "unknown"
	}
}

// Native error codes returned by the client API.
const (
	CodeSuccess             = 0
	CodeEventQueueFull      = -1
	CodeNoMem               = -2
	CodeUninitialized       = -3
	CodeInvalidParameter    = -4
	CodeOptionNotFound      = -5
	CodeOptionFormat        = -6
	CodeOptionError         = -7
	CodePropertyNotFound    = -8
	CodePropertyFormat      = -9
	CodePropertyUnavailable = -10
	CodePropertyError       = -11
	CodeCommand             = -12
	CodeLoadingFailed       = -13
	CodeAOInitFailed        = -14
	CodeVOInitFailed        = -15
	CodeNothingToPlay       = -16
	CodeUnknownFormat       = -17
	CodeUnsupported         = -18
	CodeNotImplemented      = -19
	CodeGeneric             = -20
)

// Error is the single error type produced by the engine.
// Only the fields relevant to Kind are set.
type Error struct {
	Kind Kind

	// Code is the native error code, 0 when the failure did not come from a native call.
	Code int

	// Name is the option, property or command the failure is about.
	Name string

	// URL is the media URL for playback failures.
	URL string

	// Resource names the resource type for resource failures.
	Resource string

	Reason string

	// Err is the underlying cause, if any.
	Err error
}

// Sentinels for errors.Is matching on kind.
var (
	ErrLibraryNotFound = &Error{Kind: KindLibraryNotFound}
	ErrInitialization  = &Error{Kind: KindInitialization}
	ErrPlayback        = &Error{Kind: KindPlayback}
	ErrConfiguration   = &Error{Kind: KindConfiguration}
	ErrProperty        = &Error{Kind: KindProperty}
	ErrCommand         = &Error{Kind: KindCommand}
	ErrResource        = &Error{Kind: KindResource}
	ErrRenderContext   = &Error{Kind: KindRenderContext}
)

func (e *Error) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindLibraryNotFound:
		b.WriteString("native library not found")
	case KindInitialization:
		b.WriteString("initialization failed")
	case KindPlayback:
		fmt.Fprintf(&b, "playback error (code: %d)", e.Code)
	case KindConfiguration:
		fmt.Fprintf(&b, "configuration error for option %q", e.Name)
	case KindProperty:
		fmt.Fprintf(&b, "property %q error", e.Name)
	case KindCommand:
		fmt.Fprintf(&b, "command %q failed", e.Name)
	case KindResource:
		fmt.Fprintf(&b, "resource error (%s)", e.Resource)
	case KindRenderContext:
		b.WriteString("render context error")
	default:
		b.WriteString("unknown error")
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.URL != "" {
		fmt.Fprintf(&b, " [URL: %s]", e.URL)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. A target with a non-zero code
// also has to match the code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == 0 || t.Code == e.Code
}

// IsNetwork reports whether this is a playback failure of a network stream.
func (e *Error) IsNetwork() bool {
	return e.Kind == KindPlayback && IsNetwork(e.Code, e.URL)
}

// IsFormat reports whether this is a playback failure caused by an unsupported format.
func (e *Error) IsFormat() bool {
	return e.Kind == KindPlayback && IsFormat(e.Code)
}

// IsRecoverable reports whether retrying the operation may succeed.
func (e *Error) IsRecoverable() bool {
	return IsRecoverable(e.Code)
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// LibraryNotFound creates a library-not-found error.
func LibraryNotFound(reason string) *Error {
	return &Error{Kind: KindLibraryNotFound, Reason: reason}
}

// Initialization creates an initialization error.
func Initialization(reason string) *Error {
	return &Error{Kind: KindInitialization, Reason: reason}
}

// Playback creates a playback error.
func Playback(code int, message, mediaURL string) *Error {
	return &Error{Kind: KindPlayback, Code: code, Reason: message, URL: mediaURL}
}

// Configuration creates a configuration error for an option.
func Configuration(option, reason string) *Error {
	return &Error{Kind: KindConfiguration, Name: option, Reason: reason}
}

// Property creates a property error.
func Property(name, reason string) *Error {
	return &Error{Kind: KindProperty, Name: name, Reason: reason}
}

// Command creates a command error.
func Command(command, reason string) *Error {
	return &Error{Kind: KindCommand, Name: command, Reason: reason}
}

// Resource creates a resource error.
func Resource(resource, reason string) *Error {
	return &Error{Kind: KindResource, Resource: resource, Reason: reason}
}

// RenderContext creates a render context error.
func RenderContext(reason string) *Error {
	return &Error{Kind: KindRenderContext, Reason: reason}
}

// IsNetwork reports whether a loading failure happened on a network stream.
// The native library reports unreachable streams as loading failures; the
// same code on a local file is treated as a plain loading failure.
func IsNetwork(code int, mediaURL string) bool {
	return code == CodeLoadingFailed && IsNetworkURL(mediaURL)
}

// IsFormat reports whether code means the media format or codec is unsupported.
func IsFormat(code int) bool {
	return code == CodeUnknownFormat || code == CodeUnsupported
}

// IsLoadingFailed reports whether code is the generic loading failure.
func IsLoadingFailed(code int) bool {
	return code == CodeLoadingFailed
}

// IsRecoverable reports whether an operation failing with code may succeed on retry.
func IsRecoverable(code int) bool {
	switch code {
	case CodeLoadingFailed, CodePropertyUnavailable, CodeAOInitFailed, CodeVOInitFailed:
		return true
	}
	return false
}

var networkSchemes = map[string]bool{
	"http": true, "https": true, "rtmp": true, "rtmps": true, "rtsp": true,
	"rtp": true, "udp": true, "tcp": true, "srt": true, "mms": true, "hls": true,
}

// IsNetworkURL reports whether s is a URL with a streaming network scheme.
func IsNetworkURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return networkSchemes[strings.ToLower(u.Scheme)]
}
