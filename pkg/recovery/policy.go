// Package recovery classifies engine failures and selects a recovery action.
package recovery

import (
	"fmt"
	"time"

	"github.com/user/mpvplay/pkg/metrics"
	"github.com/user/mpvplay/pkg/mpverr"
	"github.com/user/mpvplay/pkg/ports"
)

// ActionType is the kind of recovery to perform.
type ActionType int

const (
	Fatal ActionType = iota
	Retry
	UseDefault
	Ignore
)

// String returns the string representation of the action type.
func (a ActionType) String() string {
	switch a {
	case Fatal:
		return "fatal"
	case Retry:
		return "retry"
	case UseDefault:
		return "use_default"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Action is the recovery decision for a failure.
// MaxAttempts and Delay are only set for Retry.
type Action struct {
	Type        ActionType
	Message     string
	MaxAttempts int
	Delay       time.Duration
}

// Retry delays for playback failures.
const (
	NetworkRetryAttempts = 3
	NetworkRetryDelay    = 1000 * time.Millisecond
	LoadingRetryAttempts = 2
	LoadingRetryDelay    = 500 * time.Millisecond
	CommandRetryAttempts = 1
	RenderRetryAttempts  = 2
)

// Policy maps errors to recovery actions.
type Policy struct {
	logger  ports.Logger
	metrics *metrics.Collector
}

// NewPolicy creates a Policy. m may be nil.
func NewPolicy(logger ports.Logger, m *metrics.Collector) *Policy {
	return &Policy{
		logger:  logger.WithComponent("recovery"),
		metrics: m,
	}
}

// HandleError logs err with its structured context and returns the action to
// take. operation names what the caller was doing and is included in the log.
// Errors that are not *mpverr.Error are treated as fatal.
func (p *Policy) HandleError(err error, operation string) Action {
	e, ok := mpverr.As(err)
	if !ok {
		action := Action{Type: Fatal, Message: mpverr.UserMessage(err)}
		p.logger.WithFields(ports.Fields{
			"operation": operation,
			"action":    action.Type.String(),
		}).Error("Unclassified error: %s", err.Error())
		p.metrics.ObserveError(mpverr.KindUnknown.String(), action.Type.String())
		return action
	}

	action := Classify(e)
	p.log(e, operation, action)
	p.metrics.ObserveError(e.Kind.String(), action.Type.String())
	return action
}

// Classify returns the action for e without logging.
func Classify(e *mpverr.Error) Action {
	switch e.Kind {
	case mpverr.KindLibraryNotFound, mpverr.KindInitialization:
		return Action{Type: Fatal, Message: mpverr.UserMessage(e)}
	case mpverr.KindResource:
		return Action{Type: Fatal, Message: mpverr.UserMessage(e)}
	case mpverr.KindConfiguration:
		return Action{Type: UseDefault, Message: mpverr.UserMessage(e)}
	case mpverr.KindProperty:
		return Action{Type: Ignore, Message: mpverr.UserMessage(e)}
	case mpverr.KindCommand:
		return Action{Type: Retry, Message: mpverr.UserMessage(e), MaxAttempts: CommandRetryAttempts, Delay: NetworkRetryDelay}
	case mpverr.KindRenderContext:
		return Action{Type: Retry, Message: mpverr.UserMessage(e), MaxAttempts: RenderRetryAttempts, Delay: NetworkRetryDelay}
	case mpverr.KindPlayback:
		return classifyPlayback(e)
	}
	return Action{Type: Fatal, Message: mpverr.UserMessage(e)}
}

func classifyPlayback(e *mpverr.Error) Action {
	msg := mpverr.UserMessage(e)
	switch {
	case e.IsNetwork():
		return Action{Type: Retry, Message: msg, MaxAttempts: NetworkRetryAttempts, Delay: NetworkRetryDelay}
	case e.IsFormat():
		return Action{Type: Fatal, Message: msg}
	case mpverr.IsLoadingFailed(e.Code):
		return Action{Type: Retry, Message: msg, MaxAttempts: LoadingRetryAttempts, Delay: LoadingRetryDelay}
	default:
		return Action{Type: Fatal, Message: msg}
	}
}

func (p *Policy) log(e *mpverr.Error, operation string, action Action) {
	fields := ports.Fields{
		"kind":        e.Kind.String(),
		"code":        e.Code,
		"code_name":   mpverr.CodeName(e.Code),
		"recoverable": e.IsRecoverable(),
		"action":      action.Type.String(),
	}
	if operation != "" {
		fields["operation"] = operation
	}
	if e.Name != "" {
		fields["name"] = e.Name
	}
	if e.URL != "" {
		fields["url"] = e.URL
	}
	if e.Resource != "" {
		fields["resource"] = e.Resource
	}
	if e.Kind == mpverr.KindPlayback {
		fields["network"] = e.IsNetwork()
		fields["format"] = e.IsFormat()
	}
	if action.Type == Retry {
		fields["max_attempts"] = action.MaxAttempts
		fields["delay"] = action.Delay.String()
	}

	log := p.logger.WithFields(fields)
	switch action.Type {
	case Ignore, UseDefault:
		log.Warn("%s", e.Error())
	default:
		log.Error("%s", e.Error())
	}
}

// String renders the action for diagnostics.
func (a Action) String() string {
	if a.Type == Retry {
		return fmt.Sprintf("%s(%d, %s): %s", a.Type, a.MaxAttempts, a.Delay, a.Message)
	}
	return fmt.Sprintf("%s: %s", a.Type, a.Message)
}
