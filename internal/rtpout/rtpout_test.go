package rtpout

import (
	"encoding/binary"
	"math"
	"net"
	"testing"
	"time"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/require"
)

type capture struct {
	packets [][]byte
	closed  bool
}

func (self *capture) Write(p []byte) (int, error) {
	self.packets = append(self.packets, append([]byte{}, p...))
	return len(p), nil
}

func (self *capture) Close() error {
	self.closed = true
	return nil
}

func (self *capture) decode(t *testing.T) []rtp.Packet {
	out := make([]rtp.Packet, len(self.packets))

	for i, data := range self.packets {
		require.NoError(t, out[i].Unmarshal(data))
	}

	return out
}

func f32le(samples ...float32) []byte {
	out := make([]byte, len(samples)*4)

	for i, v := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}

	return out
}

func TestFloat32ToL16(t *testing.T) {
	assert := require.New(t)

	out := Float32ToL16([]float32{0, 1, -1, 2, -2, 0.5, float32(math.NaN())})

	assert.Equal([]byte{
		0x00, 0x00,
		0x7f, 0xff,
		0x80, 0x01,
		0x7f, 0xff,
		0x80, 0x01,
		0x3f, 0xff,
		0x00, 0x00,
	}, out)
}

func TestL16Payloader(t *testing.T) {
	assert := require.New(t)
	payloader := &L16Payloader{
		FrameSize: 4,
	}

	payloads := payloader.Payload(10, make([]byte, 20))

	// 10 bytes only fit two 4 byte frames
	assert.Len(payloads, 3)
	assert.Len(payloads[0], 8)
	assert.Len(payloads[1], 8)
	assert.Len(payloads[2], 4)

	assert.Nil(payloader.Payload(3, make([]byte, 20)))
	assert.Nil(payloader.Payload(10, nil))
}

func TestSenderOptions(t *testing.T) {
	assert := require.New(t)

	var options SenderOptions
	assert.NoError(options.setDefaults())

	assert.EqualValues(DefaultPayloadType, options.PayloadType)
	assert.EqualValues(DefaultMTU, options.MTU)
	assert.EqualValues(DefaultClockRate, options.ClockRate)
	assert.Equal(DefaultChannels, options.Channels)
	assert.Equal(spa.AudioFormatF32LE, options.Format)
	assert.Equal(1188, options.maxPayload())

	assert.Error((&SenderOptions{Format: spa.AudioFormatU8}).setDefaults())
	assert.Error((&SenderOptions{MTU: 14}).setDefaults())
}

func TestSenderWriteFloat(t *testing.T) {
	assert := require.New(t)
	conn := &capture{}

	sender := newSender(conn, SenderOptions{
		PayloadType: 97,
		MTU:         rtpHeaderSize + 8,
		ClockRate:   48000,
		Channels:    2,
		SSRC:        0x1234,
		Format:      spa.AudioFormatF32LE,
	})

	// three stereo frames plus half a sample
	pcm := append(f32le(0, 0, 1, -1, 0.5, 0.5), 0x00, 0x00)

	n, err := sender.Write(pcm)
	assert.NoError(err)
	assert.Equal(len(pcm), n)

	packets := conn.decode(t)
	assert.Len(packets, 2)

	assert.EqualValues(97, packets[0].PayloadType)
	assert.EqualValues(0x1234, packets[0].SSRC)
	assert.Equal([]byte{0x00, 0x00, 0x00, 0x00, 0x7f, 0xff, 0x80, 0x01}, packets[0].Payload)
	assert.Equal([]byte{0x3f, 0xff, 0x3f, 0xff}, packets[1].Payload)

	assert.Equal(packets[0].SequenceNumber+1, packets[1].SequenceNumber)
	assert.Equal(packets[0].Timestamp+2, packets[1].Timestamp)

	// the rest of the partial frame completes the next one
	_, err = sender.Write(append([]byte{0x00, 0x00}, f32le(0)...))
	assert.NoError(err)

	packets = conn.decode(t)
	assert.Len(packets, 3)
	assert.Equal([]byte{0x00, 0x00, 0x00, 0x00}, packets[2].Payload)
	assert.Equal(packets[1].Timestamp+1, packets[2].Timestamp)

	count, bytes := sender.Stats()
	assert.EqualValues(3, count)
	assert.EqualValues(16, bytes)

	assert.NoError(sender.Close())
	assert.True(conn.closed)
}

func TestSenderWriteS16(t *testing.T) {
	assert := require.New(t)
	conn := &capture{}

	sender := newSender(conn, SenderOptions{
		MTU:       DefaultMTU,
		ClockRate: 44100,
		Channels:  1,
		SSRC:      1,
		Format:    spa.AudioFormatS16LE,
	})

	_, err := sender.Write([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	assert.NoError(err)

	packets := conn.decode(t)
	assert.Len(packets, 1)
	assert.Equal([]byte{0x02, 0x01, 0x04, 0x03}, packets[0].Payload)
	assert.Equal([]byte{0x05}, sender.pending)
}

func TestSenderUDP(t *testing.T) {
	assert := require.New(t)

	listener, err := net.ListenPacket(`udp`, `127.0.0.1:0`)
	assert.NoError(err)
	defer listener.Close()

	sender, err := NewSender(listener.LocalAddr().String(), SenderOptions{
		Channels: 1,
	})

	assert.NoError(err)
	defer sender.Close()

	_, err = sender.Write(f32le(0.25, -0.25))
	assert.NoError(err)

	buf := make([]byte, 1500)
	assert.NoError(listener.SetReadDeadline(time.Now().Add(time.Second)))

	n, _, err := listener.ReadFrom(buf)
	assert.NoError(err)

	var packet rtp.Packet
	assert.NoError(packet.Unmarshal(buf[:n]))
	assert.EqualValues(DefaultPayloadType, packet.PayloadType)
	assert.Len(packet.Payload, 4)
}
