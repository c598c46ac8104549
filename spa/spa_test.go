package spa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeNames(t *testing.T) {
	assert := require.New(t)

	assert.Equal(`Spa:Int`, TypeInt.String())
	assert.Equal(`Spa:Pod:Object:Param:Props`, TypeObjectProps.String())
	assert.Equal(`Spa:Type:0x99`, Type(0x99).String())

	assert.True(TypeChoice.IsBasic())
	assert.False(TypeObjectFormat.IsBasic())
	assert.True(TypeObjectFormat.IsObject())
	assert.True(TypeCommandNode.IsObject())
	assert.False(TypeObjectStart.IsObject())
}

func TestParamTypes(t *testing.T) {
	assert := require.New(t)

	assert.Equal(`EnumFormat`, ParamEnumFormat.String())
	assert.Equal(TypeObjectFormat, ParamEnumFormat.ObjectType())
	assert.Equal(TypeObjectFormat, ParamFormat.ObjectType())
	assert.Equal(TypeObjectParamRoute, ParamEnumRoute.ObjectType())
	assert.Equal(TypeObjectParamProcessLatency, ParamProcessLatency.ObjectType())
	assert.Equal(TypeNone, ParamControl.ObjectType())

	p, err := ParseParamType(`props`)
	assert.NoError(err)
	assert.Equal(ParamProps, p)

	_, err = ParseParamType(`nope`)
	assert.Error(err)
}

func TestFlags(t *testing.T) {
	assert := require.New(t)

	flags := ParamInfoRead | ParamInfoWrite
	assert.True(flags.Has(ParamInfoRead))
	assert.False(flags.Has(ParamInfoSerial))
	assert.Equal(`read|write`, flags.String())
	assert.Equal(`none`, ParamInfoFlags(0).String())
	assert.Equal(`serial|0x80`, (ParamInfoSerial | 0x80).String())

	assert.Equal(`readonly|dont-fixate`, (PropFlagReadOnly | PropFlagDontFixate).String())
}

func TestAudioFormats(t *testing.T) {
	assert := require.New(t)

	assert.EqualValues(0x11b, AudioFormatF32LE)
	assert.EqualValues(0x120, AudioFormatALaw)
	assert.EqualValues(0x208, AudioFormatS8P)
	assert.Equal(AudioFormatF32LE, AudioFormatF32)

	assert.Equal(4, AudioFormatF32.SampleSize())
	assert.Equal(2, AudioFormatS16LE.SampleSize())
	assert.Equal(3, AudioFormatS24LE.SampleSize())
	assert.Equal(0, AudioFormatEncoded.SampleSize())
	assert.True(AudioFormatF32P.IsPlanar())
	assert.False(AudioFormatF32.IsPlanar())

	f, err := ParseAudioFormat(`s16le`)
	assert.NoError(err)
	assert.Equal(AudioFormatS16LE, f)

	f, err = ParseAudioFormat(`F32`)
	assert.NoError(err)
	assert.Equal(AudioFormatF32LE, f)
}

func TestAudioChannels(t *testing.T) {
	assert := require.New(t)

	assert.Equal(`FL`, ChannelFL.String())
	assert.Equal(`AUX3`, (ChannelStartAux + 3).String())
	assert.EqualValues(3, ChannelFL)
	assert.EqualValues(37, ChannelBRC)

	ch, err := ParseAudioChannel(`aux7`)
	assert.NoError(err)
	assert.Equal(ChannelStartAux+7, ch)

	ch, err = ParseAudioChannel(`fr`)
	assert.NoError(err)
	assert.Equal(ChannelFR, ch)

	assert.Equal([]AudioChannel{ChannelFL, ChannelFR}, DefaultChannelMap(2))
	assert.Equal([]AudioChannel{ChannelStartAux, ChannelStartAux + 1, ChannelStartAux + 2, ChannelStartAux + 3, ChannelStartAux + 4, ChannelStartAux + 5, ChannelStartAux + 6}, DefaultChannelMap(7))
}

func TestVideoFormats(t *testing.T) {
	assert := require.New(t)

	assert.EqualValues(41, VideoFormatR210)
	assert.Equal(`r210`, VideoFormatR210.String())
	assert.Equal(`RGBA`, VideoFormatRGBA.String())

	v, err := ParseVideoFormat(`BGRx`)
	assert.NoError(err)
	assert.Equal(VideoFormatBGRx, v)
}

func TestKeyNames(t *testing.T) {
	assert := require.New(t)

	assert.Equal(`channelVolumes`, KeyName(TypeObjectProps, uint32(PropChannelVolumes)))
	assert.Equal(`rate`, KeyName(TypeObjectFormat, uint32(FormatAudioRate)))
	assert.Equal(`size`, KeyName(TypeObjectFormat, uint32(FormatVideoSize)))
	assert.Equal(`ns`, KeyName(TypeObjectParamProcessLatency, uint32(ProcessLatencyNs)))
	assert.Equal(`0x1234`, KeyName(TypeObjectProps, 0x1234))
	assert.Equal(`profiles`, RouteProfiles.String())
}

func TestDirection(t *testing.T) {
	assert := require.New(t)

	assert.Equal(DirectionOutput, DirectionInput.Reverse())
	assert.Equal(DirectionInput, DirectionOutput.Reverse())

	d, err := ParseDirection(`out`)
	assert.NoError(err)
	assert.Equal(DirectionOutput, d)
}

func TestBufferTypes(t *testing.T) {
	assert := require.New(t)

	assert.EqualValues(0x6, DataTypeMask(DataMemPtr, DataMemFd))
	assert.Equal(`Position`, IOPosition.String())
	assert.Equal(`VideoCrop`, MetaVideoCrop.String())

	c, err := ParseNodeCommand(`suspend`)
	assert.NoError(err)
	assert.Equal(NodeCommandSuspend, c)
	assert.Equal(`RequestProcess`, NodeCommandRequestProcess.String())
}
