package pipewire

import (
	"fmt"
	"sync"
	"time"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/go-stockutil/log"
)

const (
	DEFAULT_VIDEO_WIDTH     = 320
	DEFAULT_VIDEO_HEIGHT    = 240
	DEFAULT_VIDEO_FRAMERATE = 25
	VideoBytesPerPixel      = 4
	MaxVideoSize            = 4096
	maxVideoBuffers         = 64
)

// videoStride is the length of one row of pixels, padded to 4 bytes.
func videoStride(width uint32) int {
	return (int(width)*VideoBytesPerPixel + 3) &^ 3
}

// A VideoTestSource drives a video source stream with a moving test pattern.
// The consumer picks the size within the offered range.
type VideoTestSource struct {
	Width     uint32
	Height    uint32
	Framerate uint32
	Stream    *Stream
	size      pod.Rectangle
	counter   uint32
	frames    uint64
	lock      sync.Mutex
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewVideoTestSource(conn *Conn, name string, props Properties) (*VideoTestSource, error) {
	props = props.Merge(nil)
	props.SetDefault(KeyMediaType, `Video`)
	props.SetDefault(KeyMediaCategory, `Capture`)
	props.SetDefault(KeyMediaRole, `Camera`)
	props.SetDefault(KeyMediaClass, `Video/Source`)

	stream, err := NewStream(conn, name, props)
	if err != nil {
		return nil, err
	}

	rv := &VideoTestSource{
		Width:     DEFAULT_VIDEO_WIDTH,
		Height:    DEFAULT_VIDEO_HEIGHT,
		Framerate: DEFAULT_VIDEO_FRAMERATE,
		Stream:    stream,
		stop:      make(chan struct{}),
	}

	stream.Process = rv.Process
	stream.OnParamChanged(rv.paramChanged)

	return rv, nil
}

// Param is the EnumFormat offered on connect: BGRx or RGBx at any size up to
// MaxVideoSize, defaulting to Width x Height.
func (self *VideoTestSource) Param() pod.Value {
	return pod.VideoFormat{
		MediaType:    spa.MediaTypeVideo,
		MediaSubtype: spa.MediaSubtypeRaw,
		Formats:      []spa.VideoFormat{spa.VideoFormatBGRx, spa.VideoFormatRGBx},
		Size: pod.NewRange(
			pod.Rectangle{Width: self.Width, Height: self.Height},
			pod.Rectangle{Width: 1, Height: 1},
			pod.Rectangle{Width: MaxVideoSize, Height: MaxVideoSize},
		),
		Framerate: pod.Fraction{Num: self.Framerate, Denom: 1},
	}.ToPod(spa.ParamEnumFormat)
}

// bufferParams sizes the buffers for frames of the negotiated size.
func bufferParams(size pod.Rectangle) pod.Value {
	stride := videoStride(size.Width)

	return pod.ParamBuffers{
		Buffers: pod.NewRange(pod.Int(8), pod.Int(2), pod.Int(maxVideoBuffers)),
		Blocks:  pod.Int(1),
		Size:    pod.Int(int32(stride * int(size.Height))),
		Stride:  pod.Int(int32(stride)),
	}.ToPod(spa.ParamBuffers)
}

// Start connects the stream as a driver and triggers a cycle per frame until
// Close.
func (self *VideoTestSource) Start() error {
	if self.Framerate == 0 {
		return fmt.Errorf("invalid framerate %d", self.Framerate)
	}

	if err := self.Stream.Connect(
		spa.DirectionOutput,
		IDAny,
		StreamFlagDriver|StreamFlagMapBuffers,
		self.Param(),
	); err != nil {
		return err
	}

	go self.run(time.Second / time.Duration(self.Framerate))

	return nil
}

func (self *VideoTestSource) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-self.stop:
			return
		case <-ticker.C:
			if state, _ := self.Stream.State(); state != StreamStateStreaming {
				continue
			}

			if err := self.Stream.TriggerProcess(); err != nil {
				log.Debugf("pipewire: stream %q: %v", self.Stream.Name, err)
			}
		}
	}
}

func (self *VideoTestSource) paramChanged(paramType spa.ParamType, value pod.Value) {
	if paramType != spa.ParamFormat {
		return
	}

	size, ok := negotiatedSize(value)

	self.lock.Lock()
	self.size = size
	self.lock.Unlock()

	if !ok {
		return
	}

	log.Debugf("pipewire: stream %q: video size %dx%d", self.Stream.Name, size.Width, size.Height)

	if err := self.Stream.UpdateParams(bufferParams(size)); err != nil {
		log.Debugf("pipewire: stream %q: %v", self.Stream.Name, err)
	}
}

// negotiatedSize returns the frame size of a Format param, or false when
// there is no usable video format.
func negotiatedSize(value pod.Value) (pod.Rectangle, bool) {
	if value == nil {
		return pod.Rectangle{}, false
	}

	format, err := pod.VideoFormatFromPod(value)
	if err != nil {
		return pod.Rectangle{}, false
	}

	size, err := format.FixedSize()
	if err != nil || size.Width == 0 || size.Height == 0 {
		return pod.Rectangle{}, false
	}

	return size, true
}

// Render draws the next frame of the given size into out and returns the
// number of bytes written, or zero when out cannot hold a whole frame.
func (self *VideoTestSource) Render(out []byte, size pod.Rectangle) int {
	stride := videoStride(size.Width)
	total := stride * int(size.Height)

	if total == 0 || len(out) < total {
		return 0
	}

	self.lock.Lock()
	defer self.lock.Unlock()

	rowBytes := uint32(size.Width) * VideoBytesPerPixel

	for row := uint32(0); row < size.Height; row++ {
		line := out[int(row)*stride:]

		for col := uint32(0); col < rowBytes; col++ {
			line[col] = byte(self.counter + col*row)
		}

		self.counter += 13
	}

	self.frames++

	return total
}

// The number of frames rendered so far.
func (self *VideoTestSource) Frames() uint64 {
	self.lock.Lock()
	defer self.lock.Unlock()

	return self.frames
}

// Process is the ProcessFunc of the stream. Buffers are handed back empty
// until a format has been negotiated.
func (self *VideoTestSource) Process(stream *Stream) {
	buffer := stream.DequeueBuffer()
	if buffer == nil {
		log.Debugf("pipewire: stream %q: out of buffers", stream.Name)
		return
	}

	self.lock.Lock()
	size := self.size
	self.lock.Unlock()

	if datas := buffer.Datas(); len(datas) > 0 {
		n := self.Render(datas[0].Bytes(), size)
		datas[0].SetChunk(0, int32(videoStride(size.Width)), uint32(n))
	}

	if err := stream.QueueBuffer(buffer); err != nil {
		log.Debugf("pipewire: stream %q: %v", stream.Name, err)
	}
}

// Close stops the frame clock and destroys the stream.
func (self *VideoTestSource) Close() error {
	self.stopOnce.Do(func() {
		close(self.stop)
	})

	err := self.Stream.Disconnect()
	self.Stream.Destroy()

	return err
}
