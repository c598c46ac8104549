package pipewire

// chunkRegion returns the bounds of the valid bytes of a chunk inside a plane
// of maxsize bytes. The offset wraps around the plane and the size is clamped
// so the region never runs past its end.
func chunkRegion(maxsize int, chunk Chunk) (start int, end int) {
	if maxsize <= 0 {
		return 0, 0
	}

	start = int(chunk.Offset % uint32(maxsize))
	size := int(chunk.Size)

	if size > maxsize-start {
		size = maxsize - start
	}

	return start, start + size
}

// capturedBytes returns the whole frames of the valid region of mem. The
// chunk stride wins over frameSize when it is set.
func capturedBytes(mem []byte, chunk Chunk, frameSize int) []byte {
	start, end := chunkRegion(len(mem), chunk)

	stride := frameSize

	if chunk.Stride > 0 {
		stride = int(chunk.Stride)
	}

	return mem[start : start+wholeFrames(end-start, stride)]
}

// wholeFrames rounds n bytes down to a multiple of stride.
func wholeFrames(n int, stride int) int {
	if stride <= 0 || n <= 0 {
		return 0
	}

	return n - n%stride
}

// playbackFrames returns how many frames fit into capacity bytes, limited to
// what the server requested when it asked for a specific amount.
func playbackFrames(capacity int, frameSize int, requested uint64) int {
	if frameSize <= 0 || capacity <= 0 {
		return 0
	}

	frames := capacity / frameSize

	if requested > 0 && requested < uint64(frames) {
		frames = int(requested)
	}

	return frames
}

// passthrough copies src into dst and silences whatever src does not cover.
// A nil src silences all of dst.
func passthrough(dst []float32, src []float32) {
	n := copy(dst, src)

	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
