package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/go-stockutil/log"
)

const (
	DEFAULT_STREAM_TIMEOUT = 10 * time.Second
)

type StreamState int

const (
	StreamStateError       StreamState = C.PW_STREAM_STATE_ERROR
	StreamStateUnconnected StreamState = C.PW_STREAM_STATE_UNCONNECTED
	StreamStateConnecting  StreamState = C.PW_STREAM_STATE_CONNECTING
	StreamStatePaused      StreamState = C.PW_STREAM_STATE_PAUSED
	StreamStateStreaming   StreamState = C.PW_STREAM_STATE_STREAMING
)

func (self StreamState) String() string {
	return C.GoString(C.pw_stream_state_as_string(C.enum_pw_stream_state(self)))
}

type StreamFlags uint32

const (
	StreamFlagNone          StreamFlags = C.PW_STREAM_FLAG_NONE
	StreamFlagAutoconnect   StreamFlags = C.PW_STREAM_FLAG_AUTOCONNECT
	StreamFlagInactive      StreamFlags = C.PW_STREAM_FLAG_INACTIVE
	StreamFlagMapBuffers    StreamFlags = C.PW_STREAM_FLAG_MAP_BUFFERS
	StreamFlagDriver        StreamFlags = C.PW_STREAM_FLAG_DRIVER
	StreamFlagRTProcess     StreamFlags = C.PW_STREAM_FLAG_RT_PROCESS
	StreamFlagNoConvert     StreamFlags = C.PW_STREAM_FLAG_NO_CONVERT
	StreamFlagExclusive     StreamFlags = C.PW_STREAM_FLAG_EXCLUSIVE
	StreamFlagDontReconnect StreamFlags = C.PW_STREAM_FLAG_DONT_RECONNECT
	StreamFlagAllocBuffers  StreamFlags = C.PW_STREAM_FLAG_ALLOC_BUFFERS
	StreamFlagTrigger       StreamFlags = C.PW_STREAM_FLAG_TRIGGER
)

// The usual flags for a stream that moves audio through mapped buffers.
const DefaultStreamFlags = StreamFlagAutoconnect | StreamFlagMapBuffers | StreamFlagRTProcess

type StreamStateChange struct {
	Old   StreamState `json:"old"`
	New   StreamState `json:"new"`
	Error string      `json:"error,omitempty"`
}

// A StreamTime is a snapshot of the timing of a stream.
type StreamTime struct {
	Now    int64        `json:"now"`
	Rate   pod.Fraction `json:"rate"`
	Ticks  uint64       `json:"ticks"`
	Delay  int64        `json:"delay"`
	Queued uint64       `json:"queued"`
}

// A ProcessFunc is called on the loop thread whenever the stream can take or
// deliver a buffer. It must not block.
type ProcessFunc func(stream *Stream)

// A Stream exchanges media with a node of the graph.
type Stream struct {
	Conn          *Conn
	Name          string
	Properties    Properties
	Process       ProcessFunc
	Timeout       time.Duration
	stream        *C.struct_pw_stream
	listener      *C.pwgo_listener
	handle        uintptr
	lock          sync.Mutex
	state         StreamState
	stateErr      string
	stateSignal   chan struct{}
	states        chan StreamStateChange
	drained       chan struct{}
	format        *pod.AudioFormat
	paramHandlers []func(spa.ParamType, pod.Value)
	destroyOnce   sync.Once
}

// NewStream creates a stream on the given connection. The media type,
// category and role default to audio playback of music.
func NewStream(conn *Conn, name string, props Properties) (*Stream, error) {
	rv := &Stream{
		Conn:        conn,
		Name:        name,
		Properties:  props.Merge(nil),
		Timeout:     DEFAULT_STREAM_TIMEOUT,
		state:       StreamStateUnconnected,
		stateSignal: make(chan struct{}),
		states:      make(chan StreamStateChange, DefaultEventBuffer),
		drained:     make(chan struct{}, 1),
	}

	rv.Properties.SetDefault(KeyMediaType, `Audio`)
	rv.Properties.SetDefault(KeyMediaCategory, `Playback`)
	rv.Properties.SetDefault(KeyMediaRole, `Music`)

	if name != `` {
		rv.Properties.SetDefault(KeyNodeName, name)
	}

	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	conn.Lock()
	defer conn.Unlock()

	if err := conn.connected(); err != nil {
		return nil, err
	}

	// the stream takes ownership of the properties
	rv.stream = C.pw_stream_new(conn.core, cName, rv.Properties.toNative())

	if rv.stream == nil {
		return nil, fmt.Errorf("Failed to create stream %q: %w", name, CannotCreateInstanceErr)
	}

	rv.handle = cgoregister(rv)
	rv.listener = C.pwgo_listener_new(C.uintptr_t(rv.handle))
	C.pwgo_stream_add_listener(rv.stream, rv.listener)

	conn.track(rv.handle, rv.release)

	log.Debugf("pipewire: created stream %q", name)

	return rv, nil
}

func (self *Stream) Handle() uintptr {
	return self.handle
}

// Connect the stream. With IDAny as target and the autoconnect flag the
// session manager picks the node to link to.
func (self *Stream) Connect(direction spa.Direction, targetID uint32, flags StreamFlags, params ...pod.Value) error {
	array, free, err := nativeParams(params)
	if err != nil {
		return err
	}

	defer free()

	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.stream == nil {
		return fmt.Errorf("stream %q is destroyed: %w", self.Name, NotConnectedErr)
	}

	return CheckResult(int(C.pw_stream_connect(
		self.stream,
		C.enum_spa_direction(direction),
		C.uint32_t(targetID),
		C.enum_pw_stream_flags(flags),
		array,
		C.uint32_t(len(params)),
	)))
}

func (self *Stream) Disconnect() error {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.stream == nil {
		return nil
	}

	return CheckResult(int(C.pw_stream_disconnect(self.stream)))
}

// Activate or pause the stream.
func (self *Stream) SetActive(active bool) error {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.stream == nil {
		return NotConnectedErr
	}

	return CheckResult(int(C.pw_stream_set_active(self.stream, C.bool(active))))
}

// Flush the queued buffers, or with drain, play them out first. A drained
// stream signals on Drained.
func (self *Stream) Flush(drain bool) error {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.stream == nil {
		return NotConnectedErr
	}

	return CheckResult(int(C.pw_stream_flush(self.stream, C.bool(drain))))
}

// TriggerProcess runs one graph cycle of a driver stream.
func (self *Stream) TriggerProcess() error {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.stream == nil {
		return NotConnectedErr
	}

	return CheckResult(int(C.pw_stream_trigger_process(self.stream)))
}

// The current state and, for StreamStateError, the reason.
func (self *Stream) State() (StreamState, error) {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.state == StreamStateError {
		return self.state, fmt.Errorf("stream %q: %s", self.Name, self.stateErr)
	}

	return self.state, nil
}

// StateChanges returns a channel receiving every state change.
func (self *Stream) StateChanges() <-chan StreamStateChange {
	return self.states
}

// Drained receives a value whenever a drain requested by Flush completed.
func (self *Stream) Drained() <-chan struct{} {
	return self.drained
}

// WaitState blocks until the stream reached the given state, failed or the
// timeout expired.
func (self *Stream) WaitState(want StreamState, timeout time.Duration) error {
	deadline := time.After(timeout)

	for {
		self.lock.Lock()
		state, reason, signal := self.state, self.stateErr, self.stateSignal
		self.lock.Unlock()

		if state == want {
			return nil
		} else if state == StreamStateError {
			return fmt.Errorf("stream %q failed: %s", self.Name, reason)
		}

		select {
		case <-signal:
		case <-deadline:
			return fmt.Errorf("Timed out waiting for stream %q to be %v (is %v)", self.Name, want, state)
		}
	}
}

// The id of the node of this stream, or IDAny before it was connected.
func (self *Stream) NodeID() uint32 {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.stream == nil {
		return IDAny
	}

	return uint32(C.pw_stream_get_node_id(self.stream))
}

func (self *Stream) Time() (StreamTime, error) {
	var t C.struct_pw_time

	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.stream == nil {
		return StreamTime{}, NotConnectedErr
	}

	if err := CheckResult(int(C.pw_stream_get_time_n(self.stream, &t, C.sizeof_struct_pw_time))); err != nil {
		return StreamTime{}, err
	}

	return StreamTime{
		Now: int64(t.now),
		Rate: pod.Fraction{
			Num:   uint32(t.rate.num),
			Denom: uint32(t.rate.denom),
		},
		Ticks:  uint64(t.ticks),
		Delay:  int64(t.delay),
		Queued: uint64(t.queued),
	}, nil
}

// The format negotiated for the stream, once a Format param arrived.
func (self *Stream) Format() (pod.AudioFormat, bool) {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.format == nil {
		return pod.AudioFormat{}, false
	}

	return *self.format, true
}

// OnParamChanged registers a function called on the loop thread whenever a
// param of the stream changes. The value is nil when the param was cleared.
func (self *Stream) OnParamChanged(handler func(spa.ParamType, pod.Value)) {
	self.lock.Lock()
	self.paramHandlers = append(self.paramHandlers, handler)
	self.lock.Unlock()
}

// Announce new params, usually Buffers and Meta once a format is known.
func (self *Stream) UpdateParams(params ...pod.Value) error {
	array, free, err := nativeParams(params)
	if err != nil {
		return err
	}

	defer free()

	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.stream == nil {
		return NotConnectedErr
	}

	return CheckResult(int(C.pw_stream_update_params(self.stream, array, C.uint32_t(len(params)))))
}

// Set a control of the stream, e.g. spa.PropVolume or spa.PropChannelVolumes.
func (self *Stream) SetControl(id spa.PropKey, values ...float32) error {
	if len(values) == 0 {
		return fmt.Errorf("no values for control %v: %w", id, InvalidArgumentErr)
	}

	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.stream == nil {
		return NotConnectedErr
	}

	return CheckResult(int(C.pwgo_stream_set_control(
		self.stream,
		C.uint32_t(id),
		C.uint32_t(len(values)),
		(*C.float)(unsafe.Pointer(&values[0])),
	)))
}

// DequeueBuffer takes the next buffer to fill or read, or nil when none is
// available. Call it from the ProcessFunc.
func (self *Stream) DequeueBuffer() *Buffer {
	if self.stream == nil {
		return nil
	}

	if buffer := C.pw_stream_dequeue_buffer(self.stream); buffer != nil {
		return &Buffer{
			buffer: buffer,
		}
	}

	return nil
}

// QueueBuffer hands a dequeued buffer back to the stream.
func (self *Stream) QueueBuffer(buffer *Buffer) error {
	if self.stream == nil {
		return NotConnectedErr
	} else if buffer == nil || buffer.buffer == nil {
		return fmt.Errorf("no buffer: %w", InvalidArgumentErr)
	}

	err := CheckResult(int(C.pw_stream_queue_buffer(self.stream, buffer.buffer)))
	buffer.buffer = nil

	return err
}

func (self *Stream) setState(change StreamStateChange) {
	self.lock.Lock()
	self.state = change.New
	self.stateErr = change.Error
	close(self.stateSignal)
	self.stateSignal = make(chan struct{})
	self.lock.Unlock()

	log.Debugf("pipewire: stream %q: %v -> %v", self.Name, change.Old, change.New)

	select {
	case self.states <- change:
	default:
	}
}

func (self *Stream) paramChanged(paramType spa.ParamType, value pod.Value) {
	self.lock.Lock()

	if paramType == spa.ParamFormat {
		self.format = nil

		if value != nil {
			if format, err := pod.AudioFormatFromPod(value); err == nil {
				self.format = &format
			} else {
				log.Debugf("pipewire: stream %q: non-audio format: %v", self.Name, err)
			}
		}
	}

	handlers := append([]func(spa.ParamType, pod.Value){}, self.paramHandlers...)
	self.lock.Unlock()

	for _, handler := range handlers {
		handler(paramType, value)
	}
}

func (self *Stream) signalDrained() {
	select {
	case self.drained <- struct{}{}:
	default:
	}
}

// Destroy disconnects and frees the stream.
func (self *Stream) Destroy() {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	self.release()
}

func (self *Stream) release() {
	self.destroyOnce.Do(func() {
		if self.listener != nil {
			C.pwgo_listener_free(self.listener)
			self.listener = nil
		}

		if self.stream != nil {
			C.pw_stream_destroy(self.stream)
			self.stream = nil
		}

		cgounregister(self.handle)
		self.Conn.untrack(self.handle)

		log.Debugf("pipewire: destroyed stream %q", self.Name)
	})
}

// A Buffer is a dequeued stream buffer.
type Buffer struct {
	buffer *C.struct_pw_buffer
}

func (self *Buffer) Datas() []Data {
	if self.buffer == nil || self.buffer.buffer == nil {
		return nil
	}

	spaBuffer := self.buffer.buffer
	datas := make([]Data, 0, int(spaBuffer.n_datas))

	if spaBuffer.datas == nil {
		return datas
	}

	planes := unsafe.Slice(spaBuffer.datas, int(spaBuffer.n_datas))

	for i := range planes {
		datas = append(datas, Data{
			data: &planes[i],
		})
	}

	return datas
}

// The number of frames the graph asked for in this cycle, or zero when the
// server did not say.
func (self *Buffer) Requested() uint64 {
	if self.buffer == nil {
		return 0
	}

	return uint64(self.buffer.requested)
}

// The number of frames the buffer holds.
func (self *Buffer) Size() uint64 {
	if self.buffer == nil {
		return 0
	}

	return uint64(self.buffer.size)
}

// A Chunk describes the valid region of a Data.
type Chunk struct {
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
	Stride int32  `json:"stride"`
	Flags  int32  `json:"flags"`
}

// A Data is one plane of memory of a buffer.
type Data struct {
	data *C.struct_spa_data
}

func (self Data) Type() spa.DataType {
	return spa.DataType(self.data._type)
}

func (self Data) MaxSize() uint32 {
	return uint32(self.data.maxsize)
}

// Bytes returns the whole mapped memory of the plane, or nil when it is not
// mapped. The slice is only valid until the buffer is queued.
func (self Data) Bytes() []byte {
	if self.data.data == nil || self.data.maxsize == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(self.data.data), int(self.data.maxsize))
}

// The valid region of the plane. Use it with Bytes to read captured data.
func (self Data) Chunk() Chunk {
	if self.data.chunk == nil {
		return Chunk{}
	}

	return Chunk{
		Offset: uint32(self.data.chunk.offset),
		Size:   uint32(self.data.chunk.size),
		Stride: int32(self.data.chunk.stride),
		Flags:  int32(self.data.chunk.flags),
	}
}

// Mark the region of the plane written for playback.
func (self Data) SetChunk(offset uint32, stride int32, size uint32) {
	if self.data.chunk == nil {
		return
	}

	self.data.chunk.offset = C.uint32_t(offset)
	self.data.chunk.stride = C.int32_t(stride)
	self.data.chunk.size = C.uint32_t(size)
}

// nativeParams copies encoded pods into C memory and returns the pointer
// array pw_stream_connect and friends expect.
func nativeParams(params []pod.Value) (**C.struct_spa_pod, func(), error) {
	array := C.pwgo_pod_array(C.uint32_t(len(params)))
	allocated := make([]unsafe.Pointer, 0, len(params))

	free := func() {
		for _, ptr := range allocated {
			C.free(ptr)
		}

		C.free(unsafe.Pointer(array))
	}

	for i, param := range params {
		data, err := pod.Marshal(param)
		if err != nil {
			free()
			return nil, nil, fmt.Errorf("param %d: %w", i, err)
		}

		ptr := C.CBytes(data)
		allocated = append(allocated, ptr)
		C.pwgo_pod_array_set(array, C.uint32_t(i), ptr)
	}

	return array, free, nil
}
