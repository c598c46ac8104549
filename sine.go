package pipewire

import (
	"encoding/binary"
	"math"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/ghetzel/go-stockutil/log"
)

const (
	DEFAULT_SINE_FREQUENCY = 440.0
	DEFAULT_SINE_VOLUME    = 0.7
)

// A SineSource generates a sine tone into an F32LE playback stream.
type SineSource struct {
	Frequency   float64
	Volume      float64
	Spec        SampleSpec
	accumulator float64
	frames      uint64
}

func NewSineSource(spec SampleSpec) *SineSource {
	spec.Format = spa.AudioFormatF32LE

	return &SineSource{
		Frequency: DEFAULT_SINE_FREQUENCY,
		Volume:    DEFAULT_SINE_VOLUME,
		Spec:      spec,
	}
}

// The number of frames generated so far.
func (self *SineSource) Frames() uint64 {
	return self.frames
}

// Render fills out with whole interleaved frames of the tone and returns the
// number of bytes written.
func (self *SineSource) Render(out []byte) int {
	frameSize := self.Spec.FrameSize()

	if frameSize == 0 || self.Spec.Rate == 0 {
		return 0
	}

	frames := len(out) / frameSize
	step := 2 * math.Pi * self.Frequency / float64(self.Spec.Rate)

	for i := 0; i < frames; i++ {
		sample := math.Float32bits(float32(math.Sin(self.accumulator) * self.Volume))

		self.accumulator += step

		if self.accumulator >= 2*math.Pi {
			self.accumulator -= 2 * math.Pi
		}

		for c := 0; c < self.Spec.Channels; c++ {
			binary.LittleEndian.PutUint32(out[i*frameSize+c*4:], sample)
		}
	}

	self.frames += uint64(frames)

	return frames * frameSize
}

// Process is a ProcessFunc writing one buffer of the tone per cycle.
func (self *SineSource) Process(stream *Stream) {
	buffer := stream.DequeueBuffer()
	if buffer == nil {
		log.Debugf("pipewire: stream %q: out of buffers", stream.Name)
		return
	}

	datas := buffer.Datas()

	if len(datas) > 0 {
		out := datas[0].Bytes()
		frames := playbackFrames(len(out), self.Spec.FrameSize(), buffer.Requested())

		n := self.Render(out[:frames*self.Spec.FrameSize()])
		datas[0].SetChunk(0, int32(self.Spec.FrameSize()), uint32(n))
	}

	if err := stream.QueueBuffer(buffer); err != nil {
		log.Debugf("pipewire: stream %q: %v", stream.Name, err)
	}
}

// NewSineStream creates a playback stream driven by the source. Connect it
// with Initialize.
func NewSineStream(conn *Conn, name string, source *SineSource, props Properties) (*PlaybackStream, error) {
	stream, err := NewPlaybackStream(conn, name, source.Spec, props)
	if err != nil {
		return nil, err
	}

	stream.Stream.Process = source.Process

	return stream, nil
}
