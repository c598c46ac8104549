package pipewire

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/stretchr/testify/require"
)

func TestSampleSpec(t *testing.T) {
	assert := require.New(t)
	spec := DefaultSampleSpec()

	assert.Equal(spa.AudioFormatF32LE, spec.Format)
	assert.EqualValues(48000, spec.Rate)
	assert.Equal(2, spec.Channels)
	assert.Equal(4, spec.BytesPerSample())
	assert.Equal(8, spec.FrameSize())
	assert.Equal(384000, spec.BytesPerSecond())
	assert.NoError(spec.Validate())

	s16 := SampleSpec{
		Format:   spa.AudioFormatS16LE,
		Rate:     44100,
		Channels: 1,
	}

	assert.Equal(2, s16.FrameSize())

	assert.Error(SampleSpec{Format: spa.AudioFormatEncoded, Rate: 48000, Channels: 2}.Validate())
	assert.Error(SampleSpec{Format: spa.AudioFormatS16LE, Channels: 2}.Validate())
	assert.Error(SampleSpec{Format: spa.AudioFormatS16LE, Rate: 48000}.Validate())
}

func TestSampleSpecPod(t *testing.T) {
	assert := require.New(t)
	spec := DefaultSampleSpec()

	format := spec.AudioFormat()
	assert.Equal(spa.MediaTypeAudio, format.MediaType)
	assert.Equal([]spa.AudioChannel{spa.ChannelFL, spa.ChannelFR}, format.Position)

	data, err := pod.Marshal(spec.Param())
	assert.NoError(err)

	value, _, err := pod.Unmarshal(data)
	assert.NoError(err)

	decoded, err := SampleSpecFromPod(value)
	assert.NoError(err)
	assert.Equal(spec, decoded)
}

func TestSineSourceRender(t *testing.T) {
	assert := require.New(t)

	source := NewSineSource(SampleSpec{
		Format:   spa.AudioFormatS16LE,
		Rate:     8000,
		Channels: 2,
	})

	// the generator always produces float samples
	assert.Equal(spa.AudioFormatF32LE, source.Spec.Format)

	source.Frequency = 2000
	source.Volume = 1.0

	// room for 4 frames plus a partial one
	out := make([]byte, 4*8+3)

	assert.Equal(32, source.Render(out))
	assert.EqualValues(4, source.Frames())

	sample := func(frame int, channel int) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(out[frame*8+channel*4:])))
	}

	// a quarter of the rate gives 0, 1, 0, -1
	assert.InDelta(0.0, sample(0, 0), 1e-6)
	assert.InDelta(1.0, sample(1, 0), 1e-6)
	assert.InDelta(0.0, sample(2, 0), 1e-6)
	assert.InDelta(-1.0, sample(3, 0), 1e-6)

	for frame := 0; frame < 4; frame++ {
		assert.Equal(sample(frame, 0), sample(frame, 1))
	}

	assert.Zero(source.Render(make([]byte, 7)))
}

func TestFillSilence(t *testing.T) {
	assert := require.New(t)

	out := []byte{1, 2, 3}
	fillSilence(spa.AudioFormatF32LE, out)
	assert.Equal([]byte{0, 0, 0}, out)

	fillSilence(spa.AudioFormatU8, out)
	assert.Equal([]byte{0x80, 0x80, 0x80}, out)
}

func TestVolumeScale(t *testing.T) {
	assert := require.New(t)

	assert.InDelta(0.125, factorToCubic(0.5), 1e-9)
	assert.InDelta(0.5, cubicToFactor(0.125), 1e-9)
	assert.Zero(cubicToFactor(-1))

	var node audioNode

	volumes := []float32{0.125, 0.125}
	mute := true

	node.Initialize(NodeInfo{
		ID:    12,
		Name:  `alsa_output`,
		State: NodeStateIdle,
	}, pod.Props{
		ChannelVolumes: volumes,
		Mute:           &mute,
	})

	assert.EqualValues(12, node.Index)
	assert.Equal(2, node.Channels)
	assert.InDelta(0.5, node.VolumeFactor, 1e-6)
	assert.True(node.Muted)

	single := float32(1.0)

	node.Initialize(NodeInfo{}, pod.Props{
		Volume: &single,
	})

	assert.Zero(node.Channels)
	assert.InDelta(1.0, node.VolumeFactor, 1e-6)
	assert.False(node.Muted)
}

func TestObjectTypes(t *testing.T) {
	assert := require.New(t)

	assert.Equal(`Node`, TypeNode.Short())
	assert.EqualValues(3, TypeNode.Version())
	assert.Zero(ObjectType(`Other:Thing`).Version())

	parsed, err := ParseObjectType(`node`)
	assert.NoError(err)
	assert.Equal(TypeNode, parsed)

	parsed, err = ParseObjectType(string(TypeLink))
	assert.NoError(err)
	assert.Equal(TypeLink, parsed)

	_, err = ParseObjectType(`nope`)
	assert.Error(err)

	assert.Equal(`running`, NodeStateRunning.String())
	assert.Equal(`active`, LinkStateActive.String())
}

func TestPermissions(t *testing.T) {
	assert := require.New(t)

	assert.Equal(`rwxm-`, PermissionAll.String())
	assert.Equal(`r----`, PermissionRead.String())
	assert.True(PermissionAll.Has(PermissionWrite))
	assert.False(PermissionRead.Has(PermissionWrite))
}

func TestErrors(t *testing.T) {
	assert := require.New(t)

	assert.NoError(CheckResult(0))
	assert.NoError(CheckResult(12))

	err := CheckResult(-2)
	assert.Error(err)
	assert.Equal(ErrorCode(-2), err)
	assert.EqualValues(2, ErrorCode(-2).Errno())

	coreErr := CoreError{
		ID:      3,
		Seq:     7,
		Res:     ErrorCode(-22),
		Message: `invalid param`,
	}

	assert.ErrorIs(coreErr, ErrorCode(-22))
	assert.Contains(coreErr.Error(), `invalid param`)

	assert.True(IsInvalidArgumentErr(fmt.Errorf("wrapped: %w", InvalidArgumentErr)))
	assert.False(IsNotConnectedErr(InvalidArgumentErr))
}
