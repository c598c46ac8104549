package pipewire

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkRegion(t *testing.T) {
	assert := require.New(t)

	start, end := chunkRegion(64, Chunk{Offset: 8, Size: 16})
	assert.Equal(8, start)
	assert.Equal(24, end)

	// empty chunk
	start, end = chunkRegion(64, Chunk{Offset: 8})
	assert.Equal(start, end)

	// offset past the end of the plane wraps
	start, end = chunkRegion(64, Chunk{Offset: 72, Size: 16})
	assert.Equal(8, start)
	assert.Equal(24, end)

	// size is clamped to the plane
	start, end = chunkRegion(64, Chunk{Offset: 48, Size: 4096})
	assert.Equal(48, start)
	assert.Equal(64, end)

	// unmapped plane
	start, end = chunkRegion(0, Chunk{Offset: 12, Size: 4})
	assert.Zero(start)
	assert.Zero(end)
}

func TestCapturedBytes(t *testing.T) {
	assert := require.New(t)
	mem := make([]byte, 32)

	for i := range mem {
		mem[i] = byte(i)
	}

	assert.Equal(mem[4:12], capturedBytes(mem, Chunk{Offset: 4, Size: 8}, 4))
	assert.Empty(capturedBytes(mem, Chunk{Offset: 4}, 4))
	assert.Empty(capturedBytes(nil, Chunk{Size: 8}, 4))

	// a trailing partial frame is left out
	assert.Equal(mem[0:8], capturedBytes(mem, Chunk{Size: 10}, 4))

	// the chunk stride wins over the frame size
	assert.Equal(mem[0:6], capturedBytes(mem, Chunk{Size: 8, Stride: 3}, 4))

	// clamped at the end of the plane, then trimmed to whole frames
	assert.Equal(mem[26:30], capturedBytes(mem, Chunk{Offset: 26, Size: 64}, 4))
}

func TestWholeFrames(t *testing.T) {
	assert := require.New(t)

	assert.Equal(12, wholeFrames(12, 4))
	assert.Equal(12, wholeFrames(14, 4))
	assert.Equal(0, wholeFrames(3, 4))
	assert.Equal(0, wholeFrames(12, 0))
	assert.Equal(0, wholeFrames(-4, 4))
}

func TestPlaybackFrames(t *testing.T) {
	assert := require.New(t)

	assert.Equal(16, playbackFrames(128, 8, 0))
	assert.Equal(10, playbackFrames(128, 8, 10))

	// asking for more than fits is limited by the buffer
	assert.Equal(16, playbackFrames(128, 8, 1024))

	// partial frames never count
	assert.Equal(15, playbackFrames(127, 8, 0))

	assert.Zero(playbackFrames(0, 8, 10))
	assert.Zero(playbackFrames(128, 0, 10))
}

func TestPassthrough(t *testing.T) {
	assert := require.New(t)
	dst := []float32{9, 9, 9, 9}

	passthrough(dst, []float32{0.5, -0.5, 0.25, 1})
	assert.Equal([]float32{0.5, -0.5, 0.25, 1}, dst)

	passthrough(dst, []float32{0.1})
	assert.Equal([]float32{0.1, 0, 0, 0}, dst)

	dst = []float32{9, 9}
	passthrough(dst, nil)
	assert.Equal([]float32{0, 0}, dst)

	dst = []float32{9, 9}
	passthrough(dst, []float32{1, 2, 3})
	assert.Equal([]float32{1, 2}, dst)
}

func TestFilterPortWithoutData(t *testing.T) {
	assert := require.New(t)
	in := &FilterPort{Name: `in`}
	out := &FilterPort{Name: `out`}

	assert.Nil(in.DSPBuffer(256))

	process := PassthroughProcess(in, out)

	var wg sync.WaitGroup

	// a filter being destroyed clears the ports while a cycle may be running
	for i := 0; i < 8; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			process(FilterPosition{Duration: 256})
		}()

		go func() {
			defer wg.Done()
			in.detach()
			out.detach()
		}()
	}

	wg.Wait()

	assert.Nil(in.DSPBuffer(256))
	assert.Nil(out.DSPBuffer(0))
}
