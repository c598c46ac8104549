package pod

import (
	"strings"
	"testing"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/stretchr/testify/require"
)

func TestChoices(t *testing.T) {
	assert := require.New(t)

	def, min, max, err := NewRange(Int(5), Int(1), Int(10)).Range()
	assert.NoError(err)
	assert.Equal(Int(5), def)
	assert.Equal(Int(1), min)
	assert.Equal(Int(10), max)

	_, _, _, _, err = NewRange(Int(5), Int(1), Int(10)).Step()
	assert.True(IsKind(err, UnexpectedChoiceType))

	_, _, _, err = Choice{ChoiceType: spa.ChoiceRange, ChildType: spa.TypeInt, Values: []Value{Int(1)}}.Range()
	assert.True(IsKind(err, ChoiceElementMissing))

	_, err = Choice{ChoiceType: spa.ChoiceNone}.Default()
	assert.True(IsKind(err, ChoiceElementMissing))

	enum := NewEnum(ID(1))
	assert.Len(enum.Values, 2)

	def, alternatives, err := NewEnum(ID(1), ID(1), ID(2)).Enum()
	assert.NoError(err)
	assert.Equal(ID(1), def)
	assert.Equal([]Value{ID(1), ID(2)}, alternatives)

	n, err := AsInt(NewStep(Int(4), Int(0), Int(8), Int(2)))
	assert.NoError(err)
	assert.EqualValues(4, n)

	_, err = AsInt(Float(1))
	assert.True(IsKind(err, WrongType))

	_, err = AsFloatArray(IDArray([]uint32{1}))
	assert.True(IsKind(err, WrongType))

	v, err := Fixate(NewNone(String(`x`)))
	assert.NoError(err)
	assert.Equal(String(`x`), v)
}

func TestPropsRoundtrip(t *testing.T) {
	assert := require.New(t)

	volume := float32(0.75)
	mute := true
	offset := int64(-2000)

	props := Props{
		Volume:            &volume,
		Mute:              &mute,
		ChannelVolumes:    []float32{0.5, 0.25},
		ChannelMap:        []spa.AudioChannel{spa.ChannelFL, spa.ChannelFR},
		LatencyOffsetNsec: &offset,
		DeviceName:        `hw:0`,
	}

	decoded, err := PropsFromPod(roundtrip(t, props.ToPod(spa.ParamProps)))
	assert.NoError(err)
	assert.Equal(props, decoded)
	assert.Equal(`hw:0`, decoded.Name())

	// unknown keys survive a decode
	obj := props.ToPod(spa.ParamProps)
	obj.Props = append(obj.Props, P(0x9999, Int(1)))

	decoded, err = PropsFromPod(obj)
	assert.NoError(err)
	assert.Equal([]Prop{P(0x9999, Int(1))}, decoded.Extra)

	_, err = PropsFromPod(NewObject(spa.TypeObjectFormat, 0))
	assert.True(IsKind(err, UnexpectedObjectType))

	_, err = PropsFromPod(NewObject(spa.TypeObjectProps, 0, P(uint32(spa.PropVolume), String(`loud`))))
	assert.True(IsKind(err, WrongType))
	assert.Contains(err.Error(), `volume`)
}

func TestAudioFormat(t *testing.T) {
	assert := require.New(t)

	format := NewAudioFormat(spa.AudioFormatF32LE, 48000, 2)
	format.Position = spa.DefaultChannelMap(2)

	decoded, err := AudioFormatFromPod(roundtrip(t, format.ToPod(spa.ParamEnumFormat)))
	assert.NoError(err)
	assert.Equal(format, decoded)
	assert.Equal(spa.AudioFormatF32LE, decoded.Format())

	format.Formats = []spa.AudioFormat{spa.AudioFormatS16LE, spa.AudioFormatF32LE}
	obj := format.ToPod(spa.ParamEnumFormat)

	prop, err := obj.Find(uint32(spa.FormatAudioFormat))
	assert.NoError(err)
	assert.IsType(Choice{}, prop.Value)

	decoded, err = AudioFormatFromPod(obj)
	assert.NoError(err)
	assert.Equal(format.Formats, decoded.Formats)

	// what a device node offers during negotiation
	offer := NewObject(spa.TypeObjectFormat, uint32(spa.ParamEnumFormat),
		P(uint32(spa.FormatMediaType), ID(spa.MediaTypeAudio)),
		P(uint32(spa.FormatMediaSubtype), ID(spa.MediaSubtypeRaw)),
		P(uint32(spa.FormatAudioRate), NewRange(Int(44100), Int(1), Int(384000))),
		P(uint32(spa.FormatAudioChannels), NewRange(Int(2), Int(1), Int(64))),
	)

	decoded, err = AudioFormatFromPod(offer)
	assert.NoError(err)
	assert.EqualValues(44100, decoded.Rate)
	assert.EqualValues(2, decoded.Channels)
	assert.Equal(spa.AudioFormatUnknown, decoded.Format())

	mediaType, mediaSubtype, err := FormatMedia(offer)
	assert.NoError(err)
	assert.Equal(spa.MediaTypeAudio, mediaType)
	assert.Equal(spa.MediaSubtypeRaw, mediaSubtype)
}

func TestVideoFormat(t *testing.T) {
	assert := require.New(t)

	format := VideoFormat{
		MediaType:    spa.MediaTypeVideo,
		MediaSubtype: spa.MediaSubtypeRaw,
		Formats:      []spa.VideoFormat{spa.VideoFormatRGBA, spa.VideoFormatYUY2},
		Size:         NewRange(Rectangle{Width: 320, Height: 240}, Rectangle{Width: 1, Height: 1}, Rectangle{Width: 4096, Height: 4096}),
		Framerate:    Fraction{Num: 25, Denom: 1},
	}

	decoded, err := VideoFormatFromPod(roundtrip(t, format.ToPod(spa.ParamEnumFormat)))
	assert.NoError(err)
	assert.Equal(format, decoded)

	size, err := decoded.FixedSize()
	assert.NoError(err)
	assert.Equal(Rectangle{Width: 320, Height: 240}, size)

	rate, err := decoded.FixedFramerate()
	assert.NoError(err)
	assert.Equal(Fraction{Num: 25, Denom: 1}, rate)

	param, err := DecodeParam(format.ToPod(spa.ParamFormat))
	assert.NoError(err)
	assert.IsType(VideoFormat{}, param)
}

func TestBufferParams(t *testing.T) {
	assert := require.New(t)

	buffers := ParamBuffers{
		Buffers:  NewRange(Int(8), Int(2), Int(16)),
		Blocks:   Int(1),
		Size:     Int(4096),
		Stride:   Int(8),
		DataType: NewFlags(Int(spa.DataTypeMask(spa.DataMemPtr))),
	}

	decodedBuffers, err := ParamBuffersFromPod(roundtrip(t, buffers.ToPod(spa.ParamBuffers)))
	assert.NoError(err)
	assert.Equal(buffers, decodedBuffers)

	meta := ParamMeta{Type: spa.MetaHeader, Size: Int(32)}
	decodedMeta, err := ParamMetaFromPod(roundtrip(t, meta.ToPod(spa.ParamMeta)))
	assert.NoError(err)
	assert.Equal(meta, decodedMeta)

	io := ParamIO{ID: spa.IOBuffers, Size: 8}
	decodedIO, err := ParamIOFromPod(roundtrip(t, io.ToPod(spa.ParamIO)))
	assert.NoError(err)
	assert.Equal(io, decodedIO)

	latency := ParamLatency{Direction: spa.DirectionOutput, MinQuantum: 1, MaxQuantum: 1, MinNs: 1000, MaxNs: 2000}
	decodedLatency, err := ParamLatencyFromPod(roundtrip(t, latency.ToPod(spa.ParamLatency)))
	assert.NoError(err)
	assert.Equal(latency, decodedLatency)

	process := ParamProcessLatency{Quantum: 0.5, Rate: 256, Ns: 100}
	decodedProcess, err := ParamProcessLatencyFromPod(roundtrip(t, process.ToPod(spa.ParamProcessLatency)))
	assert.NoError(err)
	assert.Equal(process, decodedProcess)

	_, err = ParamIOFromPod(meta.ToPod(spa.ParamMeta))
	assert.True(IsKind(err, UnexpectedObjectType))
}

func TestDeviceParams(t *testing.T) {
	assert := require.New(t)

	volume := float32(0.5)
	info := NewStruct(Int(1), String(`port.type`), String(`headphones`))

	route := ParamRoute{
		Index:       2,
		Direction:   spa.DirectionOutput,
		Device:      4,
		Name:        `analog-output-headphones`,
		Description: `Headphones`,
		Priority:    9000,
		Available:   spa.AvailabilityYes,
		Info:        &info,
		Profiles:    []int32{1, 3},
		Props:       &Props{Volume: &volume},
		Devices:     []int32{4},
		Profile:     1,
		Save:        true,
	}

	decodedRoute, err := ParamRouteFromPod(roundtrip(t, route.ToPod(spa.ParamRoute)))
	assert.NoError(err)
	assert.Equal(route, decodedRoute)

	profile := ParamProfile{Index: 1, Name: `output:analog-stereo`, Priority: 6500, Available: spa.AvailabilityNo}
	decodedProfile, err := ParamProfileFromPod(roundtrip(t, profile.ToPod(spa.ParamEnumProfile)))
	assert.NoError(err)
	assert.Equal(profile, decodedProfile)

	format := NewAudioFormat(spa.AudioFormatF32P, 48000, 2)
	config := ParamPortConfig{
		Direction: spa.DirectionInput,
		Mode:      spa.PortConfigModeDSP,
		Monitor:   true,
		Format:    &format,
	}

	decodedConfig, err := ParamPortConfigFromPod(roundtrip(t, config.ToPod(spa.ParamPortConfig)))
	assert.NoError(err)
	assert.Equal(config, decodedConfig)

	profiler := Profiler{
		Info:           NewStruct(Long(1), Float(0.5)),
		FollowerBlocks: []Value{NewStruct(Int(1)), NewStruct(Int(2))},
	}

	decodedProfiler, err := ProfilerFromPod(roundtrip(t, profiler.ToPod(spa.ParamInvalid)))
	assert.NoError(err)
	assert.Equal(profiler, decodedProfiler)
}

func TestPropInfo(t *testing.T) {
	assert := require.New(t)

	labels := NewStruct(Int(0), String(`off`), Int(1), String(`on`))
	info := PropInfo{
		ID:          spa.PropVolume,
		Name:        `volume`,
		Description: `Volume`,
		Type:        NewRange(Float(1), Float(0), Float(10)),
		Labels:      &labels,
		Container:   spa.TypeArray,
	}

	decoded, err := PropInfoFromPod(roundtrip(t, info.ToPod(spa.ParamPropInfo)))
	assert.NoError(err)
	assert.Equal(info, decoded)

	param, err := DecodeParam(info.ToPod(spa.ParamPropInfo))
	assert.NoError(err)
	assert.IsType(PropInfo{}, param)

	param, err = DecodeParam(NewObject(spa.TypeCommandNode, uint32(spa.NodeCommandStart)))
	assert.NoError(err)
	assert.IsType(Object{}, param)
}

func TestDumpAndNative(t *testing.T) {
	assert := require.New(t)

	volume := float32(0.5)
	obj := Props{
		Volume:     &volume,
		ChannelMap: []spa.AudioChannel{spa.ChannelFL},
	}.ToPod(spa.ParamProps)

	out := Dump(obj)
	assert.True(strings.HasPrefix(out, "Object: type Spa:Pod:Object:Param:Props, id Props\n"), out)
	assert.Contains(out, `volume:`)
	assert.Contains(out, `Float 0.5`)
	assert.Contains(out, `Id 3 (FL)`)

	native := Native(obj).(map[string]interface{})
	assert.Equal(float32(0.5), native[`volume`])
	assert.Equal([]interface{}{uint32(spa.ChannelFL)}, native[`channelMap`])
}
