package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/go-stockutil/log"
)

const DSPFormatMonoFloat = `32 bit float mono audio`

type FilterState int

const (
	FilterStateError       FilterState = C.PW_FILTER_STATE_ERROR
	FilterStateUnconnected FilterState = C.PW_FILTER_STATE_UNCONNECTED
	FilterStateConnecting  FilterState = C.PW_FILTER_STATE_CONNECTING
	FilterStatePaused      FilterState = C.PW_FILTER_STATE_PAUSED
	FilterStateStreaming   FilterState = C.PW_FILTER_STATE_STREAMING
)

func (self FilterState) String() string {
	return C.GoString(C.pw_filter_state_as_string(C.enum_pw_filter_state(self)))
}

type FilterFlags uint32

const (
	FilterFlagNone          FilterFlags = C.PW_FILTER_FLAG_NONE
	FilterFlagInactive      FilterFlags = C.PW_FILTER_FLAG_INACTIVE
	FilterFlagDriver        FilterFlags = C.PW_FILTER_FLAG_DRIVER
	FilterFlagRTProcess     FilterFlags = C.PW_FILTER_FLAG_RT_PROCESS
	FilterFlagCustomLatency FilterFlags = C.PW_FILTER_FLAG_CUSTOM_LATENCY
)

type PortFlags uint32

const (
	PortFlagNone         PortFlags = C.PW_FILTER_PORT_FLAG_NONE
	PortFlagMapBuffers   PortFlags = C.PW_FILTER_PORT_FLAG_MAP_BUFFERS
	PortFlagAllocBuffers PortFlags = C.PW_FILTER_PORT_FLAG_ALLOC_BUFFERS
)

type FilterStateChange struct {
	Old   FilterState `json:"old"`
	New   FilterState `json:"new"`
	Error string      `json:"error,omitempty"`
}

// FilterPosition describes the current processing cycle.
type FilterPosition struct {
	Duration uint64 `json:"duration"`
	Rate     uint32 `json:"rate"`
}

// A DSPFilter is a node with DSP ports processing 32 bit float mono audio.
type DSPFilter struct {
	Conn        *Conn
	Name        string
	Properties  Properties
	filter      *C.struct_pw_filter
	listener    *C.pwgo_listener
	handle      uintptr
	lock        sync.Mutex
	ports       []*FilterPort
	processFn   func(FilterPosition)
	state       FilterState
	stateErr    string
	states      chan FilterStateChange
	destroyOnce sync.Once
}

// A FilterPort is a DSP port of a DSPFilter.
type FilterPort struct {
	Filter     *DSPFilter
	Direction  spa.Direction
	Name       string
	Properties Properties
	data       unsafe.Pointer
}

func NewDSPFilter(conn *Conn, name string, props Properties) (*DSPFilter, error) {
	rv := &DSPFilter{
		Conn:       conn,
		Name:       name,
		Properties: props.Merge(nil),
		state:      FilterStateUnconnected,
		states:     make(chan FilterStateChange, DefaultEventBuffer),
	}

	rv.Properties.SetDefault(KeyMediaType, `Audio`)
	rv.Properties.SetDefault(KeyMediaCategory, `Filter`)
	rv.Properties.SetDefault(KeyMediaRole, `DSP`)

	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	conn.Lock()
	defer conn.Unlock()

	if err := conn.connected(); err != nil {
		return nil, err
	}

	rv.filter = C.pw_filter_new(conn.core, cName, rv.Properties.toNative())

	if rv.filter == nil {
		return nil, fmt.Errorf("Failed to create filter %q: %w", name, CannotCreateInstanceErr)
	}

	rv.handle = cgoregister(rv)
	rv.listener = C.pwgo_listener_new(C.uintptr_t(rv.handle))
	C.pwgo_filter_add_listener(rv.filter, rv.listener)

	conn.track(rv.handle, rv.release)

	log.Debugf("pipewire: created filter %q", name)

	return rv, nil
}

func (self *DSPFilter) Handle() uintptr {
	return self.handle
}

// AddPort adds a DSP port. The port is named after `port.name` in props,
// which defaults to the direction and port number.
func (self *DSPFilter) AddPort(direction spa.Direction, flags PortFlags, props Properties, params ...pod.Value) (*FilterPort, error) {
	props = props.Merge(nil)
	props.SetDefault(KeyFormatDSP, DSPFormatMonoFloat)
	props.SetDefault(KeyPortName, fmt.Sprintf("%v_%d", direction, len(self.Ports())))

	array, free, err := nativeParams(params)
	if err != nil {
		return nil, err
	}

	defer free()

	port := &FilterPort{
		Filter:     self,
		Direction:  direction,
		Name:       props.Get(KeyPortName),
		Properties: props,
	}

	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.filter == nil {
		return nil, NotConnectedErr
	}

	// the port takes ownership of the properties
	data := C.pwgo_filter_add_port(
		self.filter,
		C.enum_spa_direction(direction),
		C.uint32_t(flags),
		props.toNative(),
		array,
		C.uint32_t(len(params)),
	)

	if data == nil {
		return nil, fmt.Errorf("Failed to add port %q: %w", port.Name, CannotCreateInstanceErr)
	}

	port.attach(data)

	self.lock.Lock()
	self.ports = append(self.ports, port)
	self.lock.Unlock()

	return port, nil
}

func (self *DSPFilter) Ports() []*FilterPort {
	self.lock.Lock()
	defer self.lock.Unlock()

	return append([]*FilterPort{}, self.ports...)
}

// SetProcess sets the function called once per cycle. With
// FilterFlagRTProcess it runs on the realtime thread.
func (self *DSPFilter) SetProcess(process func(FilterPosition)) {
	self.lock.Lock()
	self.processFn = process
	self.lock.Unlock()
}

func (self *DSPFilter) Connect(flags FilterFlags, params ...pod.Value) error {
	array, free, err := nativeParams(params)
	if err != nil {
		return err
	}

	defer free()

	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.filter == nil {
		return NotConnectedErr
	}

	return CheckResult(int(C.pw_filter_connect(self.filter, C.enum_pw_filter_flags(flags), array, C.uint32_t(len(params)))))
}

func (self *DSPFilter) Disconnect() error {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.filter == nil {
		return nil
	}

	return CheckResult(int(C.pw_filter_disconnect(self.filter)))
}

func (self *DSPFilter) State() (FilterState, error) {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.state == FilterStateError {
		return self.state, fmt.Errorf("filter %q: %s", self.Name, self.stateErr)
	}

	return self.state, nil
}

func (self *DSPFilter) StateChanges() <-chan FilterStateChange {
	return self.states
}

// The id of the filter's node, or IDAny before it was connected.
func (self *DSPFilter) NodeID() uint32 {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.filter == nil {
		return IDAny
	}

	return uint32(C.pw_filter_get_node_id(self.filter))
}

func (self *DSPFilter) setState(change FilterStateChange) {
	self.lock.Lock()
	self.state = change.New
	self.stateErr = change.Error
	self.lock.Unlock()

	log.Debugf("pipewire: filter %q: %v -> %v", self.Name, change.Old, change.New)

	select {
	case self.states <- change:
	default:
	}
}

func (self *DSPFilter) process(position FilterPosition) {
	self.lock.Lock()
	process := self.processFn
	self.lock.Unlock()

	if process != nil {
		process(position)
	}
}

func (self *DSPFilter) Destroy() {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	self.release()
}

func (self *DSPFilter) release() {
	self.destroyOnce.Do(func() {
		if self.listener != nil {
			C.pwgo_listener_free(self.listener)
			self.listener = nil
		}

		// ports stop handing out buffers before their memory goes away
		self.lock.Lock()
		for _, port := range self.ports {
			port.detach()
		}
		self.lock.Unlock()

		if self.filter != nil {
			C.pw_filter_destroy(self.filter)
			self.filter = nil
		}

		cgounregister(self.handle)
		self.Conn.untrack(self.handle)

		log.Debugf("pipewire: destroyed filter %q", self.Name)
	})
}

// the port data is read from the process thread while Destroy clears it
func (self *FilterPort) portData() unsafe.Pointer {
	return atomic.LoadPointer(&self.data)
}

func (self *FilterPort) attach(data unsafe.Pointer) {
	atomic.StorePointer(&self.data, data)
}

func (self *FilterPort) detach() {
	atomic.StorePointer(&self.data, nil)
}

// DSPBuffer returns the samples of the port for this cycle, or nil when the
// port has no buffer. Only call it from the process function.
func (self *FilterPort) DSPBuffer(samples uint64) []float32 {
	data := self.portData()

	if data == nil || samples == 0 {
		return nil
	}

	if ptr := C.pw_filter_get_dsp_buffer(data, C.uint32_t(samples)); ptr != nil {
		return unsafe.Slice((*float32)(ptr), int(samples))
	}

	return nil
}

// PassthroughProcess returns a process function that copies the input port
// to the output port, or writes silence when the input has no buffer.
func PassthroughProcess(in *FilterPort, out *FilterPort) func(FilterPosition) {
	return func(position FilterPosition) {
		dst := out.DSPBuffer(position.Duration)

		if dst == nil {
			return
		}

		passthrough(dst, in.DSPBuffer(position.Duration))
	}
}
