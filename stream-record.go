package pipewire

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/ghetzel/go-stockutil/log"
)

const (
	DEFAULT_RECORD_BUFFER_SIZE = 1 << 20
)

// A RecordStream captures PCM from the graph and hands it out through Read.
// When the reader falls behind by more than BufferSize bytes, newly captured
// data is dropped.
type RecordStream struct {
	*Stream
	Spec       SampleSpec
	BufferSize int
	Target     uint32
	buffer     bytes.Buffer
	lock       sync.Mutex
	cond       *sync.Cond
	closed     bool
	overruns   int
}

// NewRecordStream creates a capture stream. With captureSink set, the stream
// records what a sink plays instead of a source.
func NewRecordStream(conn *Conn, name string, spec SampleSpec, captureSink bool, props Properties) (*RecordStream, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	props = props.Merge(nil)
	props.SetDefault(KeyMediaCategory, `Capture`)

	if captureSink {
		props.SetDefault(`stream.capture.sink`, true)
	}

	stream, err := NewStream(conn, name, props)
	if err != nil {
		return nil, err
	}

	rv := &RecordStream{
		Stream:     stream,
		Spec:       spec,
		BufferSize: DEFAULT_RECORD_BUFFER_SIZE,
		Target:     IDAny,
	}

	rv.cond = sync.NewCond(&rv.lock)
	rv.Stream.Process = rv.process

	return rv, nil
}

// Initialize connects the stream and waits until it is capturing.
func (self *RecordStream) Initialize() error {
	if err := self.Connect(spa.DirectionInput, self.Target, DefaultStreamFlags, self.Spec.Param()); err != nil {
		return err
	}

	err := self.WaitState(StreamStateStreaming, self.Timeout)

	if state, _ := self.State(); state == StreamStatePaused {
		return nil
	}

	return err
}

// Read blocks until captured data is available. It returns io.EOF once the
// stream is closed and everything captured was read.
func (self *RecordStream) Read(data []byte) (int, error) {
	self.lock.Lock()
	defer self.lock.Unlock()

	for self.buffer.Len() == 0 {
		if self.closed {
			return 0, io.EOF
		}

		self.cond.Wait()
	}

	return self.buffer.Read(data)
}

// The number of cycles whose data was dropped because nobody read it.
func (self *RecordStream) Overruns() int {
	self.lock.Lock()
	defer self.lock.Unlock()

	return self.overruns
}

func (self *RecordStream) Close() error {
	self.lock.Lock()
	self.closed = true
	self.cond.Broadcast()
	self.lock.Unlock()

	err := self.Disconnect()
	self.Destroy()

	return err
}

func (self *RecordStream) process(stream *Stream) {
	buffer := stream.DequeueBuffer()
	if buffer == nil {
		log.Debugf("pipewire: stream %q: out of buffers", stream.Name)
		return
	}

	defer stream.QueueBuffer(buffer)

	datas := buffer.Datas()

	if len(datas) == 0 {
		return
	}

	captured := capturedBytes(datas[0].Bytes(), datas[0].Chunk(), self.Spec.FrameSize())

	if len(captured) == 0 {
		return
	}

	self.lock.Lock()
	defer self.lock.Unlock()

	if self.closed {
		return
	}

	if self.buffer.Len()+len(captured) > self.BufferSize {
		self.overruns++
		return
	}

	self.buffer.Write(captured)
	self.cond.Broadcast()
}

func (self *RecordStream) String() string {
	return fmt.Sprintf("record %q (%v)", self.Name, self.Spec)
}
