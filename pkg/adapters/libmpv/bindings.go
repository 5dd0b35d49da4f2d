// Package libmpv binds the libmpv client API at runtime with purego and
// locates the shared library through an ordered chain of loader strategies.
package libmpv

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/user/mpvplay/pkg/mpverr"
	"github.com/user/mpvplay/pkg/ports"
)

// Render parameter types from render.h / render_sw.h.
const (
	renderParamInvalid   = 0
	renderParamAPIType   = 1
	renderParamSWSize    = 17
	renderParamSWFormat  = 18
	renderParamSWStride  = 19
	renderParamSWPointer = 20
)

// MinClientAPIMajor is the oldest client API major version accepted.
const MinClientAPIMajor = 1

// Library is a loaded libmpv with every required entry point bound.
// It implements ports.NativeLibrary.
type Library struct {
	handle uintptr
	path   string

	clientAPIVersion    func() uint64
	create              func() uintptr
	initialize          func(ctx uintptr) int32
	terminateDestroy    func(ctx uintptr)
	setOptionString     func(ctx uintptr, name, value string) int32
	setPropertyString   func(ctx uintptr, name, value string) int32
	getPropertyString   func(ctx uintptr, name string) uintptr
	setProperty         func(ctx uintptr, name string, format int32, data uintptr) int32
	getProperty         func(ctx uintptr, name string, format int32, data uintptr) int32
	command             func(ctx uintptr, args uintptr) int32
	requestLogMessages  func(ctx uintptr, minLevel string) int32
	waitEvent           func(ctx uintptr, timeout float64) uintptr
	wakeup              func(ctx uintptr)
	errorString         func(code int32) uintptr
	free                func(data uintptr)
	renderContextCreate func(res uintptr, ctx uintptr, params uintptr) int32
	renderContextRender func(rc uintptr, params uintptr) int32
	renderContextFree   func(rc uintptr)
}

// symbol names bound by bind, in the order they are registered.
var requiredSymbols = []string{
	"mpv_client_api_version",
	"mpv_create",
	"mpv_initialize",
	"mpv_terminate_destroy",
	"mpv_set_option_string",
	"mpv_set_property_string",
	"mpv_get_property_string",
	"mpv_set_property",
	"mpv_get_property",
	"mpv_command",
	"mpv_request_log_messages",
	"mpv_wait_event",
	"mpv_wakeup",
	"mpv_error_string",
	"mpv_free",
	"mpv_render_context_create",
	"mpv_render_context_render",
	"mpv_render_context_free",
}

// Open loads the shared library at path and binds the client API.
func Open(path string) (*Library, error) {
	handle, err := dlopen(path)
	if err != nil {
		return nil, err
	}
	lib := &Library{handle: handle, path: path}
	if err := lib.bind(); err != nil {
		dlclose(handle)
		return nil, err
	}
	if major := lib.ClientAPIVersion() >> 16; major < MinClientAPIMajor {
		dlclose(handle)
		return nil, fmt.Errorf("client API %d.%d is older than %d.0", major, lib.ClientAPIVersion()&0xffff, MinClientAPIMajor)
	}
	return lib, nil
}

func (l *Library) bind() (err error) {
	for _, name := range requiredSymbols {
		if _, serr := dlsym(l.handle, name); serr != nil {
			return fmt.Errorf("missing symbol %s: %w", name, serr)
		}
	}

	// RegisterLibFunc panics on signature mismatches.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("binding libmpv symbols: %v", r)
		}
	}()

	purego.RegisterLibFunc(&l.clientAPIVersion, l.handle, "mpv_client_api_version")
	purego.RegisterLibFunc(&l.create, l.handle, "mpv_create")
	purego.RegisterLibFunc(&l.initialize, l.handle, "mpv_initialize")
	purego.RegisterLibFunc(&l.terminateDestroy, l.handle, "mpv_terminate_destroy")
	purego.RegisterLibFunc(&l.setOptionString, l.handle, "mpv_set_option_string")
	purego.RegisterLibFunc(&l.setPropertyString, l.handle, "mpv_set_property_string")
	purego.RegisterLibFunc(&l.getPropertyString, l.handle, "mpv_get_property_string")
	purego.RegisterLibFunc(&l.setProperty, l.handle, "mpv_set_property")
	purego.RegisterLibFunc(&l.getProperty, l.handle, "mpv_get_property")
	purego.RegisterLibFunc(&l.command, l.handle, "mpv_command")
	purego.RegisterLibFunc(&l.requestLogMessages, l.handle, "mpv_request_log_messages")
	purego.RegisterLibFunc(&l.waitEvent, l.handle, "mpv_wait_event")
	purego.RegisterLibFunc(&l.wakeup, l.handle, "mpv_wakeup")
	purego.RegisterLibFunc(&l.errorString, l.handle, "mpv_error_string")
	purego.RegisterLibFunc(&l.free, l.handle, "mpv_free")
	purego.RegisterLibFunc(&l.renderContextCreate, l.handle, "mpv_render_context_create")
	purego.RegisterLibFunc(&l.renderContextRender, l.handle, "mpv_render_context_render")
	purego.RegisterLibFunc(&l.renderContextFree, l.handle, "mpv_render_context_free")
	return nil
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// Close unloads the shared library. Handles created from it must be destroyed first.
func (l *Library) Close() {
	if l.handle != 0 {
		dlclose(l.handle)
		l.handle = 0
	}
}

func (l *Library) ClientAPIVersion() uint64 {
	return l.clientAPIVersion()
}

func (l *Library) Create() ports.Handle {
	return ports.Handle(l.create())
}

func (l *Library) Initialize(h ports.Handle) int {
	return int(l.initialize(uintptr(h)))
}

func (l *Library) TerminateDestroy(h ports.Handle) {
	l.terminateDestroy(uintptr(h))
}

func (l *Library) SetOptionString(h ports.Handle, name, value string) int {
	return int(l.setOptionString(uintptr(h), name, value))
}

func (l *Library) SetPropertyString(h ports.Handle, name, value string) int {
	return int(l.setPropertyString(uintptr(h), name, value))
}

// GetPropertyString copies the value and releases the native string.
func (l *Library) GetPropertyString(h ports.Handle, name string) (string, int) {
	ptr := l.getPropertyString(uintptr(h), name)
	if ptr == 0 {
		return "", mpverr.CodePropertyUnavailable
	}
	s := goStringFromPtr(ptr)
	l.free(ptr)
	return s, 0
}

func (l *Library) SetPropertyDouble(h ports.Handle, name string, value float64) int {
	v := value
	code := l.setProperty(uintptr(h), name, int32(ports.FormatDouble), uintptr(unsafe.Pointer(&v)))
	runtime.KeepAlive(&v)
	return int(code)
}

func (l *Library) GetPropertyDouble(h ports.Handle, name string) (float64, int) {
	var v float64
	code := l.getProperty(uintptr(h), name, int32(ports.FormatDouble), uintptr(unsafe.Pointer(&v)))
	runtime.KeepAlive(&v)
	return v, int(code)
}

func (l *Library) SetPropertyFlag(h ports.Handle, name string, value bool) int {
	var v int32
	if value {
		v = 1
	}
	code := l.setProperty(uintptr(h), name, int32(ports.FormatFlag), uintptr(unsafe.Pointer(&v)))
	runtime.KeepAlive(&v)
	return int(code)
}

func (l *Library) GetPropertyFlag(h ports.Handle, name string) (bool, int) {
	var v int32
	code := l.getProperty(uintptr(h), name, int32(ports.FormatFlag), uintptr(unsafe.Pointer(&v)))
	runtime.KeepAlive(&v)
	return v != 0, int(code)
}

func (l *Library) GetPropertyInt64(h ports.Handle, name string) (int64, int) {
	var v int64
	code := l.getProperty(uintptr(h), name, int32(ports.FormatInt64), uintptr(unsafe.Pointer(&v)))
	runtime.KeepAlive(&v)
	return v, int(code)
}

// Command runs a command given as a NULL-terminated argument vector.
func (l *Library) Command(h ports.Handle, args []string) int {
	argv, keep := cStringArray(args)
	code := l.command(uintptr(h), uintptr(unsafe.Pointer(&argv[0])))
	runtime.KeepAlive(argv)
	runtime.KeepAlive(keep)
	return int(code)
}

func (l *Library) RequestLogMessages(h ports.Handle, level string) int {
	return int(l.requestLogMessages(uintptr(h), level))
}

// WaitEvent copies the event out of native memory before returning.
func (l *Library) WaitEvent(h ports.Handle, timeout float64) ports.RawEvent {
	ptr := l.waitEvent(uintptr(h), timeout)
	if ptr == 0 {
		return ports.RawEvent{ID: ports.EventNone}
	}
	return decodeEvent(ptr)
}

func (l *Library) Wakeup(h ports.Handle) {
	l.wakeup(uintptr(h))
}

// ErrorString returns the static description of an error code.
func (l *Library) ErrorString(code int) string {
	ptr := l.errorString(int32(code))
	if ptr == 0 {
		return ""
	}
	return goStringFromPtr(ptr)
}

type renderParam struct {
	Type int32
	Data uintptr
}

func (l *Library) RenderContextCreate(h ports.Handle) (ports.RenderHandle, int) {
	apiType := cString("sw")
	params := []renderParam{
		{Type: renderParamAPIType, Data: uintptr(unsafe.Pointer(&apiType[0]))},
		{Type: renderParamInvalid},
	}
	var rc uintptr
	code := l.renderContextCreate(uintptr(unsafe.Pointer(&rc)), uintptr(h), uintptr(unsafe.Pointer(&params[0])))
	runtime.KeepAlive(apiType)
	runtime.KeepAlive(params)
	if code < 0 {
		return 0, int(code)
	}
	return ports.RenderHandle(rc), 0
}

// RenderSoftware renders the current video frame into buf as RGBA.
func (l *Library) RenderSoftware(rc ports.RenderHandle, width, height, stride int, buf []byte) int {
	if len(buf) == 0 || len(buf) < stride*height {
		return mpverr.CodeInvalidParameter
	}
	size := [2]int32{int32(width), int32(height)}
	format := cString("rgba")
	st := uintptr(stride)
	params := []renderParam{
		{Type: renderParamSWSize, Data: uintptr(unsafe.Pointer(&size[0]))},
		{Type: renderParamSWFormat, Data: uintptr(unsafe.Pointer(&format[0]))},
		{Type: renderParamSWStride, Data: uintptr(unsafe.Pointer(&st))},
		{Type: renderParamSWPointer, Data: uintptr(unsafe.Pointer(&buf[0]))},
		{Type: renderParamInvalid},
	}
	code := l.renderContextRender(uintptr(rc), uintptr(unsafe.Pointer(&params[0])))
	runtime.KeepAlive(&size)
	runtime.KeepAlive(format)
	runtime.KeepAlive(&st)
	runtime.KeepAlive(buf)
	runtime.KeepAlive(params)
	return int(code)
}

func (l *Library) RenderContextFree(rc ports.RenderHandle) {
	l.renderContextFree(uintptr(rc))
}

func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// cStringArray returns a NULL-terminated char* vector and the backing strings.
func cStringArray(args []string) ([]uintptr, [][]byte) {
	keep := make([][]byte, len(args))
	argv := make([]uintptr, len(args)+1)
	for i, a := range args {
		keep[i] = cString(a)
		argv[i] = uintptr(unsafe.Pointer(&keep[i][0]))
	}
	return argv, keep
}

func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}

var _ ports.NativeLibrary = (*Library)(nil)
