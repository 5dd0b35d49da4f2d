// Package metrics exposes Prometheus collectors for the playback engine.
//
// All methods are safe on a nil *Collector so components can run without
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mpvplay"

// Release outcomes.
const (
	ReleasePerformed = "performed"
	ReleaseSkipped   = "skipped"
)

// Frame outcomes.
const (
	FrameRendered = "rendered"
	FrameReused   = "reused"
	FrameEmpty    = "empty"
)

// Collector groups the engine metrics registered on one registry.
type Collector struct {
	events        *prometheus.CounterVec
	errors        *prometheus.CounterVec
	releases      *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	frames        *prometheus.CounterVec
	retries       prometheus.Counter
	droppedEvents prometheus.Counter
	state         *prometheus.GaugeVec
}

// New registers the engine metrics on reg. Use prometheus.NewRegistry() in
// tests to avoid duplicate registration on the default registry.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Native events dispatched by type",
		}, []string{"type"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Engine errors by kind and selected recovery action",
		}, []string{"kind", "action"}),
		releases: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "releases_total",
			Help:      "Release calls by outcome",
		}, []string{"outcome"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hwaccel_fallbacks_total",
			Help:      "Hardware decoding fallbacks by backend",
		}, []string{"backend"}),
		frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frame acquisitions by outcome",
		}, []string{"outcome"}),
		retries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_retries_total",
			Help:      "Media load retries",
		}),
		droppedEvents: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_events_total",
			Help:      "Events dropped because the event channel was full",
		}),
		state: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resource_state",
			Help:      "1 for the current resource state of each engine",
		}, []string{"engine", "state"}),
	}
}

// ObserveEvent counts a dispatched event.
func (c *Collector) ObserveEvent(eventType string) {
	if c == nil {
		return
	}
	c.events.WithLabelValues(eventType).Inc()
}

// ObserveError counts an error and its recovery action.
func (c *Collector) ObserveError(kind, action string) {
	if c == nil {
		return
	}
	c.errors.WithLabelValues(kind, action).Inc()
}

// ObserveRelease counts a release call.
func (c *Collector) ObserveRelease(skipped bool) {
	if c == nil {
		return
	}
	outcome := ReleasePerformed
	if skipped {
		outcome = ReleaseSkipped
	}
	c.releases.WithLabelValues(outcome).Inc()
}

// ObserveFallback counts a hardware decoding fallback.
func (c *Collector) ObserveFallback(backend string) {
	if c == nil {
		return
	}
	c.fallbacks.WithLabelValues(backend).Inc()
}

// ObserveFrame counts a frame acquisition.
func (c *Collector) ObserveFrame(outcome string) {
	if c == nil {
		return
	}
	c.frames.WithLabelValues(outcome).Inc()
}

// ObserveRetry counts a media load retry.
func (c *Collector) ObserveRetry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

// ObserveDroppedEvent counts an event that could not be queued.
func (c *Collector) ObserveDroppedEvent() {
	if c == nil {
		return
	}
	c.droppedEvents.Inc()
}

// SetState marks state as the current state of engine.
func (c *Collector) SetState(engine string, states []string, current string) {
	if c == nil {
		return
	}
	for _, s := range states {
		v := 0.0
		if s == current {
			v = 1
		}
		c.state.WithLabelValues(engine, s).Set(v)
	}
}

// Counters used by tests and diagnostics.

// Events returns the counter vector of dispatched events.
func (c *Collector) Events() *prometheus.CounterVec { return c.events }

// Errors returns the counter vector of errors.
func (c *Collector) Errors() *prometheus.CounterVec { return c.errors }

// Releases returns the counter vector of release calls.
func (c *Collector) Releases() *prometheus.CounterVec { return c.releases }

// Fallbacks returns the counter vector of hardware fallbacks.
func (c *Collector) Fallbacks() *prometheus.CounterVec { return c.fallbacks }

// Frames returns the counter vector of frame acquisitions.
func (c *Collector) Frames() *prometheus.CounterVec { return c.frames }

// Retries returns the load retry counter.
func (c *Collector) Retries() prometheus.Counter { return c.retries }

// DroppedEvents returns the dropped event counter.
func (c *Collector) DroppedEvents() prometheus.Counter { return c.droppedEvents }

// State returns the resource state gauge.
func (c *Collector) State() *prometheus.GaugeVec { return c.state }
