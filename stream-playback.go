package pipewire

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/ghetzel/go-stockutil/log"
)

const (
	DEFAULT_ASYNC_BUFFER_SIZE = 32768
)

// A PlaybackStream plays PCM written to it. Writes block while more than
// BufferSize bytes are waiting to be played; when the writer falls behind the
// stream plays silence.
type PlaybackStream struct {
	*Stream
	Spec       SampleSpec
	BufferSize int
	Target     uint32
	buffer     bytes.Buffer
	lock       sync.Mutex
	cond       *sync.Cond
	closed     bool
	underruns  int
}

func NewPlaybackStream(conn *Conn, name string, spec SampleSpec, props Properties) (*PlaybackStream, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	stream, err := NewStream(conn, name, props)
	if err != nil {
		return nil, err
	}

	rv := &PlaybackStream{
		Stream:     stream,
		Spec:       spec,
		BufferSize: DEFAULT_ASYNC_BUFFER_SIZE,
		Target:     IDAny,
	}

	rv.cond = sync.NewCond(&rv.lock)
	rv.Stream.Process = rv.process

	return rv, nil
}

// Initialize connects the stream and waits until it is ready to play.
func (self *PlaybackStream) Initialize() error {
	if err := self.Connect(spa.DirectionOutput, self.Target, DefaultStreamFlags, self.Spec.Param()); err != nil {
		return err
	}

	return self.waitReady()
}

func (self *PlaybackStream) waitReady() error {
	err := self.WaitState(StreamStateStreaming, self.Timeout)

	if state, _ := self.State(); state == StreamStatePaused {
		return nil
	}

	return err
}

func (self *PlaybackStream) Write(data []byte) (int, error) {
	self.lock.Lock()
	defer self.lock.Unlock()

	written := 0

	for written < len(data) {
		if self.closed {
			return written, io.ErrClosedPipe
		}

		space := self.BufferSize - self.buffer.Len()

		if space <= 0 {
			self.cond.Wait()
			continue
		}

		chunk := data[written:]

		if len(chunk) > space {
			chunk = chunk[:space]
		}

		n, _ := self.buffer.Write(chunk)
		written += n
	}

	return written, nil
}

// The number of cycles that had to be padded with silence.
func (self *PlaybackStream) Underruns() int {
	self.lock.Lock()
	defer self.lock.Unlock()

	return self.underruns
}

// Close waits for the written data to be played, then disconnects and
// destroys the stream.
func (self *PlaybackStream) Close() error {
	self.lock.Lock()

	for self.buffer.Len() > 0 && !self.closed {
		self.cond.Wait()
	}

	self.closed = true
	self.cond.Broadcast()
	self.lock.Unlock()

	var merr error

	if err := self.Flush(true); err == nil {
		select {
		case <-self.Drained():
		case <-time.After(self.Timeout):
			log.Debugf("pipewire: stream %q did not drain in %v", self.Name, self.Timeout)
		}
	} else {
		merr = err
	}

	if err := self.Disconnect(); err != nil && merr == nil {
		merr = err
	}

	self.Destroy()

	return merr
}

func (self *PlaybackStream) process(stream *Stream) {
	frameSize := self.Spec.FrameSize()

	self.lock.Lock()
	defer self.lock.Unlock()

	if self.closed && self.buffer.Len() == 0 {
		return
	}

	buffer := stream.DequeueBuffer()
	if buffer == nil {
		log.Debugf("pipewire: stream %q: out of buffers", stream.Name)
		return
	}

	datas := buffer.Datas()

	if len(datas) == 0 {
		stream.QueueBuffer(buffer)
		return
	}

	out := datas[0].Bytes()
	size := playbackFrames(len(out), frameSize, buffer.Requested()) * frameSize
	n, _ := self.buffer.Read(out[:size])

	if n < size {
		fillSilence(self.Spec.Format, out[n:size])

		if !self.closed {
			self.underruns++
		}
	}

	datas[0].SetChunk(0, int32(frameSize), uint32(size))

	if err := stream.QueueBuffer(buffer); err != nil {
		log.Debugf("pipewire: stream %q: %v", stream.Name, err)
	}

	self.cond.Broadcast()
}

func fillSilence(format spa.AudioFormat, out []byte) {
	var silence byte

	switch format {
	case spa.AudioFormatU8, spa.AudioFormatU8P:
		silence = 0x80
	}

	for i := range out {
		out[i] = silence
	}
}

func (self *PlaybackStream) String() string {
	return fmt.Sprintf("playback %q (%v)", self.Name, self.Spec)
}
