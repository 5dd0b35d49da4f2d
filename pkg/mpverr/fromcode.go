package mpverr

import "fmt"

// Site describes the call that produced a native error code.
type Site struct {
	// Kind is used when the code itself does not identify a failure domain.
	Kind Kind
	Name string
	URL  string
}

// FromCode translates a non-zero native error code into an *Error.
// describe is the native error-string lookup; it may be nil.
// It returns nil for CodeSuccess and for positive codes.
func FromCode(code int, describe func(int) string, site Site) *Error {
	if code >= CodeSuccess {
		return nil
	}

	reason := ""
	if describe != nil {
		reason = describe(code)
	}
	if reason == "" {
		reason = fmt.Sprintf("error code %d", code)
	}

	kind := kindForCode(code)
	if kind == KindUnknown {
		kind = site.Kind
	}
	if kind == KindUnknown {
		kind = KindCommand
	}

	e := &Error{Kind: kind, Code: code, Name: site.Name, Reason: reason}
	switch kind {
	case KindPlayback:
		e.URL = site.URL
	case KindResource:
		e.Resource = resourceForCode(code)
	}
	return e
}

func kindForCode(code int) Kind {
	switch code {
	case CodeNoMem, CodeEventQueueFull:
		return KindResource
	case CodeUninitialized:
		return KindInitialization
	case CodeOptionNotFound, CodeOptionFormat, CodeOptionError:
		return KindConfiguration
	case CodePropertyNotFound, CodePropertyFormat, CodePropertyUnavailable, CodePropertyError:
		return KindProperty
	case CodeCommand:
		return KindCommand
	case CodeLoadingFailed, CodeAOInitFailed, CodeVOInitFailed,
		CodeNothingToPlay, CodeUnknownFormat, CodeUnsupported:
		return KindPlayback
	}
	// invalid parameter, not implemented, generic and unknown codes belong to the call site
	return KindUnknown
}

func resourceForCode(code int) string {
	switch code {
	case CodeNoMem:
		return "memory"
	case CodeEventQueueFull:
		return "event_queue"
	}
	return "native"
}

// CodeName returns the symbolic name of a native error code.
func CodeName(code int) string {
	switch code {
	case CodeSuccess:
		return "SUCCESS"
	case CodeEventQueueFull:
		return "EVENT_QUEUE_FULL"
	case CodeNoMem:
		return "NOMEM"
	case CodeUninitialized:
		return "UNINITIALIZED"
	case CodeInvalidParameter:
		return "INVALID_PARAMETER"
	case CodeOptionNotFound:
		return "OPTION_NOT_FOUND"
	case CodeOptionFormat:
		return "OPTION_FORMAT"
	case CodeOptionError:
		return "OPTION_ERROR"
	case CodePropertyNotFound:
		return "PROPERTY_NOT_FOUND"
	case CodePropertyFormat:
		return "PROPERTY_FORMAT"
	case CodePropertyUnavailable:
		return "PROPERTY_UNAVAILABLE"
	case CodePropertyError:
		return "PROPERTY_ERROR"
	case CodeCommand:
		return "COMMAND"
	case CodeLoadingFailed:
		return "LOADING_FAILED"
	case CodeAOInitFailed:
		return "AO_INIT_FAILED"
	case CodeVOInitFailed:
		return "VO_INIT_FAILED"
	case CodeNothingToPlay:
		return "NOTHING_TO_PLAY"
	case CodeUnknownFormat:
		return "UNKNOWN_FORMAT"
	case CodeUnsupported:
		return "UNSUPPORTED"
	case CodeNotImplemented:
		return "NOT_IMPLEMENTED"
	case CodeGeneric:
		return "GENERIC"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", code)
	}
}
