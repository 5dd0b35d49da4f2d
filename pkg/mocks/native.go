package mocks

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/user/mpvplay/pkg/mpverr"
	"github.com/user/mpvplay/pkg/ports"
)

// FakeMPV is an in-memory implementation of ports.NativeLibrary.
//
// Loading a file queues StartFile followed by the events returned by
// LoadEvents (FileLoaded and VideoReconfig by default). Every call is
// recorded in order; calls against a destroyed handle are counted in
// UseAfterDestroy.
type FakeMPV struct {
	mu sync.Mutex

	Version uint64

	// Failure injection
	CreateFails    bool
	InitializeCode int
	OptionCodes    map[string]int
	PropertyCodes  map[string]int
	CommandCodes   map[string]int
	RenderCode     int
	RenderCtxCode  int

	// LoadEvents returns the events queued after StartFile for a loadfile command.
	LoadEvents func(url string) []ports.RawEvent

	// CommandHook runs inside Command after recording, before events are queued.
	CommandHook func(args []string)

	// FramePixel is written into every rendered frame.
	FramePixel [4]byte

	next       ports.Handle
	live       map[ports.Handle]bool
	destroyed  map[ports.Handle]bool
	initDone   map[ports.Handle]bool
	options    map[string]string
	properties map[string]interface{}
	calls      []string
	logLevels  []string
	renderCtx  map[ports.RenderHandle]bool
	renders    int
	failures   map[string][2]int

	events chan ports.RawEvent
	wake   chan struct{}

	UseAfterDestroy int
}

// NewFakeMPV creates a FakeMPV reporting client API 2.1.
func NewFakeMPV() *FakeMPV {
	return &FakeMPV{
		Version:       2<<16 | 1,
		OptionCodes:   make(map[string]int),
		PropertyCodes: make(map[string]int),
		CommandCodes:  make(map[string]int),
		FramePixel:    [4]byte{0x10, 0x20, 0x30, 0xff},
		live:          make(map[ports.Handle]bool),
		destroyed:     make(map[ports.Handle]bool),
		initDone:      make(map[ports.Handle]bool),
		options:       make(map[string]string),
		properties:    make(map[string]interface{}),
		renderCtx:     make(map[ports.RenderHandle]bool),
		failures:      make(map[string][2]int),
		events:        make(chan ports.RawEvent, 256),
		wake:          make(chan struct{}, 1),
	}
}

func (f *FakeMPV) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *FakeMPV) check(h ports.Handle) {
	if f.destroyed[h] {
		f.UseAfterDestroy++
	}
}

func (f *FakeMPV) ClientAPIVersion() uint64 {
	return f.Version
}

func (f *FakeMPV) Create() ports.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create")
	if f.CreateFails {
		return 0
	}
	f.next++
	f.live[f.next] = true
	return f.next
}

func (f *FakeMPV) Initialize(h ports.Handle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(h)
	f.record("initialize")
	if f.InitializeCode != 0 {
		return f.InitializeCode
	}
	f.initDone[h] = true
	return 0
}

func (f *FakeMPV) TerminateDestroy(h ports.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(h)
	f.record("destroy")
	delete(f.live, h)
	f.destroyed[h] = true
}

func (f *FakeMPV) SetOptionString(h ports.Handle, name, value string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(h)
	f.record("option:%s=%s", name, value)
	if code := f.OptionCodes[name]; code != 0 {
		return code
	}
	f.options[name] = value
	return 0
}

func (f *FakeMPV) SetPropertyString(h ports.Handle, name, value string) int {
	return f.setProperty(h, name, value)
}

func (f *FakeMPV) SetPropertyDouble(h ports.Handle, name string, value float64) int {
	return f.setProperty(h, name, value)
}

func (f *FakeMPV) SetPropertyFlag(h ports.Handle, name string, value bool) int {
	return f.setProperty(h, name, value)
}

func (f *FakeMPV) setProperty(h ports.Handle, name string, value interface{}) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(h)
	f.record("set:%s=%v", name, value)
	if code := f.PropertyCodes[name]; code != 0 {
		return code
	}
	f.properties[name] = value
	return 0
}

func (f *FakeMPV) getProperty(h ports.Handle, name string) (interface{}, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(h)
	if code := f.PropertyCodes[name]; code != 0 {
		return nil, code
	}
	v, ok := f.properties[name]
	if !ok {
		return nil, mpverr.CodePropertyUnavailable
	}
	return v, 0
}

func (f *FakeMPV) GetPropertyString(h ports.Handle, name string) (string, int) {
	v, code := f.getProperty(h, name)
	if code != 0 {
		return "", code
	}
	return fmt.Sprint(v), 0
}

func (f *FakeMPV) GetPropertyDouble(h ports.Handle, name string) (float64, int) {
	v, code := f.getProperty(h, name)
	if code != 0 {
		return 0, code
	}
	switch n := v.(type) {
	case float64:
		return n, 0
	case int:
		return float64(n), 0
	case int64:
		return float64(n), 0
	}
	return 0, mpverr.CodePropertyFormat
}

func (f *FakeMPV) GetPropertyFlag(h ports.Handle, name string) (bool, int) {
	v, code := f.getProperty(h, name)
	if code != 0 {
		return false, code
	}
	b, ok := v.(bool)
	if !ok {
		return false, mpverr.CodePropertyFormat
	}
	return b, 0
}

func (f *FakeMPV) GetPropertyInt64(h ports.Handle, name string) (int64, int) {
	v, code := f.getProperty(h, name)
	if code != 0 {
		return 0, code
	}
	switch n := v.(type) {
	case int64:
		return n, 0
	case int:
		return int64(n), 0
	case float64:
		return int64(n), 0
	}
	return 0, mpverr.CodePropertyFormat
}

func (f *FakeMPV) Command(h ports.Handle, args []string) int {
	f.mu.Lock()
	f.check(h)
	f.record("command:%s", strings.Join(args, " "))
	if len(args) == 0 {
		f.mu.Unlock()
		return mpverr.CodeInvalidParameter
	}
	if code := f.CommandCodes[args[0]]; code != 0 {
		f.mu.Unlock()
		return code
	}
	if fl := f.failures[args[0]]; fl[1] > 0 {
		f.failures[args[0]] = [2]int{fl[0], fl[1] - 1}
		f.mu.Unlock()
		return fl[0]
	}
	hook := f.CommandHook
	loadEvents := f.LoadEvents
	f.mu.Unlock()

	if hook != nil {
		hook(args)
	}

	switch args[0] {
	case "loadfile":
		if len(args) < 2 {
			return mpverr.CodeInvalidParameter
		}
		f.Push(ports.RawEvent{ID: ports.EventStartFile})
		var evs []ports.RawEvent
		if loadEvents != nil {
			evs = loadEvents(args[1])
		} else {
			evs = []ports.RawEvent{{ID: ports.EventFileLoaded}, {ID: ports.EventVideoReconfig}}
		}
		for _, ev := range evs {
			f.Push(ev)
		}
	case "stop":
		f.Push(ports.RawEvent{ID: ports.EventEndFile, EndFile: &ports.RawEndFile{Reason: 2}})
	}
	return 0
}

func (f *FakeMPV) RequestLogMessages(h ports.Handle, level string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(h)
	f.record("log:%s", level)
	f.logLevels = append(f.logLevels, level)
	return 0
}

// WaitEvent returns the next queued event, or EventNone after timeout or Wakeup.
func (f *FakeMPV) WaitEvent(h ports.Handle, timeout float64) ports.RawEvent {
	f.mu.Lock()
	f.check(h)
	f.mu.Unlock()

	select {
	case ev := <-f.events:
		return ev
	case <-f.wake:
		return ports.RawEvent{ID: ports.EventNone}
	case <-time.After(time.Duration(timeout * float64(time.Second))):
		return ports.RawEvent{ID: ports.EventNone}
	}
}

func (f *FakeMPV) Wakeup(h ports.Handle) {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *FakeMPV) ErrorString(code int) string {
	return strings.ToLower(strings.ReplaceAll(mpverr.CodeName(code), "_", " "))
}

func (f *FakeMPV) RenderContextCreate(h ports.Handle) (ports.RenderHandle, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.check(h)
	f.record("render_create")
	if f.RenderCtxCode != 0 {
		return 0, f.RenderCtxCode
	}
	rc := ports.RenderHandle(0x1000 + len(f.renderCtx) + 1)
	f.renderCtx[rc] = true
	return rc, 0
}

func (f *FakeMPV) RenderSoftware(rc ports.RenderHandle, width, height, stride int, buf []byte) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.renderCtx[rc] {
		f.UseAfterDestroy++
		return mpverr.CodeInvalidParameter
	}
	if f.RenderCode != 0 {
		return f.RenderCode
	}
	if len(buf) < stride*height {
		return mpverr.CodeInvalidParameter
	}
	for y := 0; y < height; y++ {
		row := buf[y*stride : y*stride+width*4]
		for x := 0; x < width; x++ {
			copy(row[x*4:x*4+4], f.FramePixel[:])
		}
	}
	f.renders++
	return 0
}

func (f *FakeMPV) RenderContextFree(rc ports.RenderHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("render_free")
	if !f.renderCtx[rc] {
		f.UseAfterDestroy++
	}
	delete(f.renderCtx, rc)
}

// FailCommand makes the next n calls of the named command return code.
func (f *FakeMPV) FailCommand(name string, code, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[name] = [2]int{code, n}
}

// Push queues an event for WaitEvent.
func (f *FakeMPV) Push(ev ports.RawEvent) {
	f.events <- ev
}

// SetProperty stores a property value without recording a call.
func (f *FakeMPV) SetProperty(name string, value interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.properties[name] = value
}

// Property returns a stored property value.
func (f *FakeMPV) Property(name string) (interface{}, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.properties[name]
	return v, ok
}

// Option returns an option set before initialization.
func (f *FakeMPV) Option(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.options[name]
	return v, ok
}

// Calls returns the recorded calls in order.
func (f *FakeMPV) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many recorded calls start with prefix.
func (f *FakeMPV) CallCount(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// IndexOf returns the index of the first recorded call starting with prefix, or -1.
func (f *FakeMPV) IndexOf(prefix string) int {
	for i, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}
	return -1
}

// Destroyed reports whether h has been destroyed.
func (f *FakeMPV) Destroyed(h ports.Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed[h]
}

// LiveRenderContexts returns the number of render contexts not yet freed.
func (f *FakeMPV) LiveRenderContexts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.renderCtx)
}

// Renders returns the number of successful render calls.
func (f *FakeMPV) Renders() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renders
}

// UseAfterDestroyCount returns the number of calls made against freed objects.
func (f *FakeMPV) UseAfterDestroyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.UseAfterDestroy
}

var _ ports.NativeLibrary = (*FakeMPV)(nil)
