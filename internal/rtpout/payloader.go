package rtpout

import (
	"encoding/binary"
	"math"
)

// L16Payloader splits linear 16 bit PCM into payloads that hold whole frames.
type L16Payloader struct {
	FrameSize int
}

func (self *L16Payloader) Payload(mtu uint16, payload []byte) [][]byte {
	max := int(mtu)

	if self.FrameSize > 1 {
		max -= max % self.FrameSize
	}

	if max <= 0 || len(payload) == 0 {
		return nil
	}

	out := make([][]byte, 0, (len(payload)+max-1)/max)

	for len(payload) > 0 {
		n := max

		if n > len(payload) {
			n = len(payload)
		}

		out = append(out, append([]byte{}, payload[:n]...))
		payload = payload[n:]
	}

	return out
}

// Float32ToL16 converts samples in the range [-1, 1] to big endian 16 bit
// PCM. Samples outside the range are clipped.
func Float32ToL16(in []float32) []byte {
	out := make([]byte, len(in)*2)

	for i, v := range in {
		binary.BigEndian.PutUint16(out[i*2:], uint16(floatToInt16(v)))
	}

	return out
}

func floatToInt16(v float32) int16 {
	switch {
	case math.IsNaN(float64(v)):
		return 0
	case v >= 1:
		return math.MaxInt16
	case v <= -1:
		return -math.MaxInt16
	}

	return int16(v * math.MaxInt16)
}

// s16leToL16 swaps little endian 16 bit samples into network order.
func s16leToL16(in []byte) []byte {
	out := make([]byte, len(in)-len(in)%2)

	for i := 0; i+1 < len(in); i += 2 {
		out[i] = in[i+1]
		out[i+1] = in[i]
	}

	return out
}

func f32leToL16(in []byte) []byte {
	samples := make([]float32, len(in)/4)

	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(in[i*4:]))
	}

	return Float32ToL16(samples)
}
