package pipewire

import (
	"testing"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/stretchr/testify/require"
)

func TestVideoStride(t *testing.T) {
	assert := require.New(t)

	assert.Equal(1280, videoStride(320))
	assert.Equal(4, videoStride(1))
	assert.Equal(0, videoStride(0))
}

func TestVideoTestSourceParam(t *testing.T) {
	assert := require.New(t)

	source := &VideoTestSource{
		Width:     640,
		Height:    480,
		Framerate: 30,
	}

	format, err := pod.VideoFormatFromPod(source.Param())
	assert.NoError(err)
	assert.Equal([]spa.VideoFormat{spa.VideoFormatBGRx, spa.VideoFormatRGBx}, format.Formats)

	size, err := format.FixedSize()
	assert.NoError(err)
	assert.Equal(pod.Rectangle{Width: 640, Height: 480}, size)

	rate, err := format.FixedFramerate()
	assert.NoError(err)
	assert.Equal(pod.Fraction{Num: 30, Denom: 1}, rate)
}

func TestVideoBufferParams(t *testing.T) {
	assert := require.New(t)

	buffers, err := pod.ParamBuffersFromPod(bufferParams(pod.Rectangle{Width: 3, Height: 2}))
	assert.NoError(err)

	assert.Equal(pod.Int(12), buffers.Stride)
	assert.Equal(pod.Int(24), buffers.Size)
	assert.Equal(pod.Int(1), buffers.Blocks)

	count, err := pod.AsInt(buffers.Buffers)
	assert.NoError(err)
	assert.EqualValues(8, count)
}

func TestNegotiatedSize(t *testing.T) {
	assert := require.New(t)

	size, ok := negotiatedSize(pod.VideoFormat{
		MediaType:    spa.MediaTypeVideo,
		MediaSubtype: spa.MediaSubtypeRaw,
		Formats:      []spa.VideoFormat{spa.VideoFormatBGRx},
		Size:         pod.Rectangle{Width: 160, Height: 120},
	}.ToPod(spa.ParamFormat))

	assert.True(ok)
	assert.Equal(pod.Rectangle{Width: 160, Height: 120}, size)

	// a cleared format
	_, ok = negotiatedSize(nil)
	assert.False(ok)

	// no size at all
	_, ok = negotiatedSize(pod.VideoFormat{
		MediaType:    spa.MediaTypeVideo,
		MediaSubtype: spa.MediaSubtypeRaw,
	}.ToPod(spa.ParamFormat))

	assert.False(ok)

	_, ok = negotiatedSize(pod.Int(4))
	assert.False(ok)
}

func TestVideoTestSourceRender(t *testing.T) {
	assert := require.New(t)
	source := &VideoTestSource{}
	size := pod.Rectangle{Width: 2, Height: 3}

	// not enough room for a whole frame
	assert.Zero(source.Render(make([]byte, 23), size))
	assert.Zero(source.Render(make([]byte, 64), pod.Rectangle{}))
	assert.Zero(source.Frames())

	out := make([]byte, 32)
	assert.Equal(24, source.Render(out, size))
	assert.EqualValues(1, source.Frames())

	// each row starts 13 further along and steps by the row number
	assert.Equal([]byte{0, 0, 0, 0, 0, 0, 0, 0}, out[0:8])
	assert.Equal([]byte{13, 14, 15, 16, 17, 18, 19, 20}, out[8:16])
	assert.Equal([]byte{26, 28, 30, 32, 34, 36, 38, 40}, out[16:24])

	// bytes past the frame are left alone
	assert.Equal(make([]byte, 8), out[24:])

	// the pattern moves between frames
	assert.Equal(24, source.Render(out, size))
	assert.Equal(byte(39), out[0])
	assert.EqualValues(2, source.Frames())
}
