package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/mpvplay/pkg/ports"
)

const (
	// PollTimeout bounds each native wait so the loop notices a stop request.
	PollTimeout = 100 * time.Millisecond
	// JoinTimeout bounds how long stop waits for the loop goroutine.
	JoinTimeout = time.Second
)

// eventSource is the part of the player the loop polls.
type eventSource interface {
	WaitEvent(timeout time.Duration) ports.RawEvent
	Wakeup()
	ErrorString(code int) string
}

// eventLoop polls the native queue on its own goroutine and hands every
// parsed event to dispatch. Only the loop goroutine calls dispatch.
type eventLoop struct {
	src      eventSource
	logger   ports.Logger
	dispatch func(Event)

	running atomic.Bool
	started atomic.Bool
	done    chan struct{}
	once    sync.Once
}

func newEventLoop(src eventSource, logger ports.Logger, dispatch func(Event)) *eventLoop {
	return &eventLoop{
		src:      src,
		logger:   logger,
		dispatch: dispatch,
		done:     make(chan struct{}),
	}
}

func (l *eventLoop) start() {
	l.once.Do(func() {
		l.running.Store(true)
		l.started.Store(true)
		go l.run()
	})
}

func (l *eventLoop) run() {
	defer close(l.done)
	l.logger.Debug("Event loop started")

	for l.running.Load() {
		raw := l.src.WaitEvent(PollTimeout)
		ev := ParseEvent(raw, l.src.ErrorString)
		if _, ok := ev.(NoneEvent); ok {
			continue
		}
		if !l.running.Load() {
			break
		}
		l.deliver(ev)
		if _, ok := ev.(ShutdownEvent); ok {
			break
		}
	}

	l.running.Store(false)
	l.logger.Debug("Event loop stopped")
}

func (l *eventLoop) deliver(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Event callback panicked: %v", r)
		}
	}()
	l.dispatch(ev)
}

// stop asks the loop to exit and waits up to timeout. It reports whether
// the goroutine has finished. Calling stop on a loop that never started
// returns true.
func (l *eventLoop) stop(timeout time.Duration) bool {
	if !l.started.Load() {
		return true
	}
	if l.running.CompareAndSwap(true, false) {
		l.src.Wakeup()
	}

	select {
	case <-l.done:
		return true
	case <-time.After(timeout):
		l.logger.Warn("Event loop did not stop within %s", timeout)
		return false
	}
}

func (l *eventLoop) isRunning() bool {
	return l.running.Load()
}
