// Package mpv wraps the native client API in typed calls that return
// *mpverr.Error values.
package mpv

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/mo"

	"github.com/user/mpvplay/pkg/mpverr"
	"github.com/user/mpvplay/pkg/ports"
)

// Client owns one native player handle.
type Client struct {
	lib    ports.NativeLibrary
	handle ports.Handle
	logger ports.Logger

	initialized atomic.Bool
	destroyed   atomic.Bool
	destroyOnce sync.Once
}

// New creates a native player instance. Options can be set until Initialize.
func New(lib ports.NativeLibrary, logger ports.Logger) (*Client, error) {
	h := lib.Create()
	if h == 0 {
		return nil, mpverr.Initialization("failed to create player instance")
	}
	return &Client{
		lib:    lib,
		handle: h,
		logger: logger.WithComponent("mpv"),
	}, nil
}

// Handle returns the native handle. It is invalid after Destroy.
func (c *Client) Handle() ports.Handle {
	return c.handle
}

// APIVersion returns the client API version as major, minor.
func (c *Client) APIVersion() (int, int) {
	v := c.lib.ClientAPIVersion()
	return int(v >> 16), int(v & 0xffff)
}

// Initialize starts the player. Options set afterwards are rejected.
func (c *Client) Initialize() error {
	if c.destroyed.Load() {
		return errDestroyed()
	}
	if c.initialized.Load() {
		return nil
	}
	if code := c.lib.Initialize(c.handle); code < 0 {
		return mpverr.Initialization(c.describe(code))
	}
	c.initialized.Store(true)
	return nil
}

// Initialized reports whether Initialize succeeded.
func (c *Client) Initialized() bool {
	return c.initialized.Load()
}

// Destroy terminates the player and frees the handle. Later calls are no-ops.
func (c *Client) Destroy() {
	c.destroyOnce.Do(func() {
		c.destroyed.Store(true)
		c.lib.TerminateDestroy(c.handle)
	})
}

// Destroyed reports whether Destroy has run.
func (c *Client) Destroyed() bool {
	return c.destroyed.Load()
}

// SetOption sets a startup option. After Initialize the property setters
// have to be used instead.
func (c *Client) SetOption(name, value string) error {
	if c.destroyed.Load() {
		return errDestroyed()
	}
	if c.initialized.Load() {
		return mpverr.Configuration(name, "cannot set after initialization")
	}
	code := c.lib.SetOptionString(c.handle, name, value)
	return c.check(code, mpverr.Site{Kind: mpverr.KindConfiguration, Name: name})
}

// GetString returns a string property, or None if it is unavailable.
func (c *Client) GetString(name string) mo.Option[string] {
	if c.destroyed.Load() {
		return mo.None[string]()
	}
	v, code := c.lib.GetPropertyString(c.handle, name)
	if code < 0 {
		c.absent(name, code)
		return mo.None[string]()
	}
	return mo.Some(v)
}

// SetString sets a string property.
func (c *Client) SetString(name, value string) error {
	if c.destroyed.Load() {
		return errDestroyed()
	}
	return c.check(c.lib.SetPropertyString(c.handle, name, value), propertySite(name))
}

// GetDouble returns a numeric property, or None if it is unavailable.
func (c *Client) GetDouble(name string) mo.Option[float64] {
	if c.destroyed.Load() {
		return mo.None[float64]()
	}
	v, code := c.lib.GetPropertyDouble(c.handle, name)
	if code < 0 {
		c.absent(name, code)
		return mo.None[float64]()
	}
	return mo.Some(v)
}

// SetDouble sets a numeric property.
func (c *Client) SetDouble(name string, value float64) error {
	if c.destroyed.Load() {
		return errDestroyed()
	}
	return c.check(c.lib.SetPropertyDouble(c.handle, name, value), propertySite(name))
}

// GetFlag returns a boolean property, or None if it is unavailable.
func (c *Client) GetFlag(name string) mo.Option[bool] {
	if c.destroyed.Load() {
		return mo.None[bool]()
	}
	v, code := c.lib.GetPropertyFlag(c.handle, name)
	if code < 0 {
		c.absent(name, code)
		return mo.None[bool]()
	}
	return mo.Some(v)
}

// SetFlag sets a boolean property.
func (c *Client) SetFlag(name string, value bool) error {
	if c.destroyed.Load() {
		return errDestroyed()
	}
	return c.check(c.lib.SetPropertyFlag(c.handle, name, value), propertySite(name))
}

// GetInt64 returns an integer property, or None if it is unavailable.
func (c *Client) GetInt64(name string) mo.Option[int64] {
	if c.destroyed.Load() {
		return mo.None[int64]()
	}
	v, code := c.lib.GetPropertyInt64(c.handle, name)
	if code < 0 {
		c.absent(name, code)
		return mo.None[int64]()
	}
	return mo.Some(v)
}

// Execute runs a command. Failures of loadfile carry the URL.
func (c *Client) Execute(name string, args ...string) error {
	if c.destroyed.Load() {
		return errDestroyed()
	}
	site := mpverr.Site{Kind: mpverr.KindCommand, Name: name}
	if name == "loadfile" && len(args) > 0 {
		site.URL = args[0]
	}
	argv := append([]string{name}, args...)
	return c.check(c.lib.Command(c.handle, argv), site)
}

// CreateRenderContext creates a software render context for this player.
func (c *Client) CreateRenderContext() (ports.RenderHandle, error) {
	if c.destroyed.Load() {
		return 0, errDestroyed()
	}
	rc, code := c.lib.RenderContextCreate(c.handle)
	if code < 0 {
		return 0, mpverr.RenderContext(c.describe(code))
	}
	if rc == 0 {
		return 0, mpverr.RenderContext("native library returned no render context")
	}
	return rc, nil
}

// Render draws the current frame into buf as RGBA rows of stride bytes.
func (c *Client) Render(rc ports.RenderHandle, width, height, stride int, buf []byte) error {
	if code := c.lib.RenderSoftware(rc, width, height, stride, buf); code < 0 {
		return mpverr.FromCode(code, c.lib.ErrorString, mpverr.Site{Kind: mpverr.KindRenderContext, Name: "render"})
	}
	return nil
}

// FreeRenderContext releases rc. It must run before Destroy.
func (c *Client) FreeRenderContext(rc ports.RenderHandle) {
	if rc != 0 {
		c.lib.RenderContextFree(rc)
	}
}

// RequestLogMessages enables log-message events at level and above; "no" disables them.
func (c *Client) RequestLogMessages(level string) error {
	if c.destroyed.Load() {
		return errDestroyed()
	}
	return c.check(c.lib.RequestLogMessages(c.handle, level), mpverr.Site{Kind: mpverr.KindCommand, Name: "request_log_messages"})
}

// WaitEvent blocks up to timeout for the next event.
func (c *Client) WaitEvent(timeout time.Duration) ports.RawEvent {
	if c.destroyed.Load() {
		return ports.RawEvent{ID: ports.EventShutdown}
	}
	return c.lib.WaitEvent(c.handle, timeout.Seconds())
}

// Wakeup interrupts a blocked WaitEvent.
func (c *Client) Wakeup() {
	if !c.destroyed.Load() {
		c.lib.Wakeup(c.handle)
	}
}

// ErrorString returns the native description of code.
func (c *Client) ErrorString(code int) string {
	return c.lib.ErrorString(code)
}

func (c *Client) check(code int, site mpverr.Site) error {
	if e := mpverr.FromCode(code, c.lib.ErrorString, site); e != nil {
		return e
	}
	return nil
}

func (c *Client) describe(code int) string {
	if s := c.lib.ErrorString(code); s != "" {
		return s
	}
	return strings.ToLower(mpverr.CodeName(code))
}

func (c *Client) absent(name string, code int) {
	c.logger.WithFields(ports.Fields{
		"property": name,
		"code":     code,
	}).Debug("Property %s unavailable: %s", name, c.describe(code))
}

func propertySite(name string) mpverr.Site {
	return mpverr.Site{Kind: mpverr.KindProperty, Name: name}
}

func errDestroyed() error {
	return mpverr.Resource("player", "player has been destroyed")
}
