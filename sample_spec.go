package pipewire

import (
	"fmt"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
)

const (
	DEFAULT_SAMPLE_RATE  = 48000
	DEFAULT_NUM_CHANNELS = 2
	DEFAULT_FORMAT       = spa.AudioFormatF32LE
)

// A SampleSpec describes an interleaved audio sampling format
type SampleSpec struct {
	Format   spa.AudioFormat `json:"format"`
	Rate     uint32          `json:"rate"`
	Channels int             `json:"channels"`
}

func DefaultSampleSpec() SampleSpec {
	return SampleSpec{
		Format:   DEFAULT_FORMAT,
		Rate:     DEFAULT_SAMPLE_RATE,
		Channels: DEFAULT_NUM_CHANNELS,
	}
}

// SampleSpecFromPod reads a Format or EnumFormat param. Choices take their
// default value.
func SampleSpecFromPod(value pod.Value) (SampleSpec, error) {
	format, err := pod.AudioFormatFromPod(value)
	if err != nil {
		return SampleSpec{}, err
	}

	return SampleSpecFromFormat(format)
}

func SampleSpecFromFormat(format pod.AudioFormat) (SampleSpec, error) {
	if format.MediaType != spa.MediaTypeAudio {
		return SampleSpec{}, fmt.Errorf("not an audio format: %v", format.MediaType)
	}

	spec := SampleSpec{
		Format:   format.Format(),
		Rate:     format.Rate,
		Channels: int(format.Channels),
	}

	return spec, spec.Validate()
}

func (self SampleSpec) Validate() error {
	if self.BytesPerSample() == 0 {
		return fmt.Errorf("unsupported sample format %v", self.Format)
	} else if self.Rate == 0 {
		return fmt.Errorf("invalid sample rate %d", self.Rate)
	} else if self.Channels <= 0 {
		return fmt.Errorf("invalid channel count %d", self.Channels)
	}

	return nil
}

// The size of one sample of a single channel.
func (self SampleSpec) BytesPerSample() int {
	return self.Format.SampleSize()
}

// The size of one sample of every channel.
func (self SampleSpec) FrameSize() int {
	return self.BytesPerSample() * self.Channels
}

// The number of bytes in one second of audio.
func (self SampleSpec) BytesPerSecond() int {
	return self.FrameSize() * int(self.Rate)
}

// AudioFormat returns the raw audio format with a default channel layout.
func (self SampleSpec) AudioFormat() pod.AudioFormat {
	format := pod.NewAudioFormat(self.Format, self.Rate, uint32(self.Channels))
	format.Position = spa.DefaultChannelMap(self.Channels)

	return format
}

// Param encodes the spec as an EnumFormat param for connecting a stream.
func (self SampleSpec) Param() pod.Value {
	return self.AudioFormat().ToPod(spa.ParamEnumFormat)
}

func (self SampleSpec) String() string {
	return fmt.Sprintf("%v %dch %dHz", self.Format, self.Channels, self.Rate)
}
