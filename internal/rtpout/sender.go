// Package rtpout sends captured PCM audio as an RTP L16 stream over UDP.
package rtpout

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"sync"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/pion/rtp"
)

const (
	DefaultPayloadType = 96
	DefaultMTU         = 1200
	DefaultClockRate   = 48000
	DefaultChannels    = 2
	rtpHeaderSize      = 12
)

type SenderOptions struct {
	PayloadType uint8
	MTU         uint16
	ClockRate   uint32
	Channels    int
	SSRC        uint32

	// The sample format passed to Write: F32LE or S16LE.
	Format spa.AudioFormat
}

func (self *SenderOptions) setDefaults() error {
	if self.PayloadType == 0 {
		self.PayloadType = DefaultPayloadType
	}

	if self.MTU == 0 {
		self.MTU = DefaultMTU
	}

	if self.ClockRate == 0 {
		self.ClockRate = DefaultClockRate
	}

	if self.Channels == 0 {
		self.Channels = DefaultChannels
	}

	if self.SSRC == 0 {
		self.SSRC = rand.Uint32()
	}

	if self.Format == spa.AudioFormatUnknown {
		self.Format = spa.AudioFormatF32LE
	}

	switch self.Format {
	case spa.AudioFormatF32LE, spa.AudioFormatS16LE:
	default:
		return fmt.Errorf("unsupported input format %v", self.Format)
	}

	if self.Channels < 0 {
		return fmt.Errorf("invalid channel count %d", self.Channels)
	}

	if int(self.MTU) <= rtpHeaderSize+self.Channels*2 {
		return fmt.Errorf("mtu %d is too small for one frame", self.MTU)
	}

	return nil
}

// A Sender packetizes PCM into RTP packets and writes them to a UDP peer.
type Sender struct {
	Options    SenderOptions
	conn       io.WriteCloser
	packetizer rtp.Packetizer
	pending    []byte
	packets    uint64
	bytes      uint64
	lock       sync.Mutex
}

// NewSender dials the UDP address packets are sent to.
func NewSender(addr string, options SenderOptions) (*Sender, error) {
	if err := options.setDefaults(); err != nil {
		return nil, err
	}

	conn, err := net.Dial(`udp`, addr)
	if err != nil {
		return nil, fmt.Errorf("cannot dial %s: %w", addr, err)
	}

	log.Debugf("rtpout: sending L16 %dHz/%dch to %s (pt=%d ssrc=%08x)", options.ClockRate, options.Channels, addr, options.PayloadType, options.SSRC)

	return newSender(conn, options), nil
}

func newSender(conn io.WriteCloser, options SenderOptions) *Sender {
	return &Sender{
		Options: options,
		conn:    conn,
		packetizer: rtp.NewPacketizer(
			options.MTU,
			options.PayloadType,
			options.SSRC,
			&L16Payloader{
				FrameSize: options.frameSize(),
			},
			rtp.NewRandomSequencer(),
			options.ClockRate,
		),
	}
}

func (self SenderOptions) frameSize() int {
	return self.Channels * 2
}

// The largest payload of whole frames that fits into one packet.
func (self SenderOptions) maxPayload() int {
	max := int(self.MTU) - rtpHeaderSize
	return max - max%self.frameSize()
}

// Write converts pcm to L16 and sends it. A trailing partial sample frame is
// kept until the next call.
func (self *Sender) Write(pcm []byte) (int, error) {
	self.lock.Lock()
	defer self.lock.Unlock()

	var inFrame int

	switch self.Options.Format {
	case spa.AudioFormatS16LE:
		inFrame = self.Options.Channels * 2
	default:
		inFrame = self.Options.Channels * 4
	}

	data := append(self.pending, pcm...)
	whole := len(data) - len(data)%inFrame

	self.pending = append([]byte{}, data[whole:]...)
	data = data[:whole]

	var l16 []byte

	switch self.Options.Format {
	case spa.AudioFormatS16LE:
		l16 = s16leToL16(data)
	default:
		l16 = f32leToL16(data)
	}

	max := self.Options.maxPayload()
	frameSize := self.Options.frameSize()

	for len(l16) > 0 {
		n := max

		if n > len(l16) {
			n = len(l16)
		}

		for _, packet := range self.packetizer.Packetize(l16[:n], uint32(n/frameSize)) {
			if err := self.send(packet); err != nil {
				return 0, err
			}
		}

		l16 = l16[n:]
	}

	return len(pcm), nil
}

func (self *Sender) send(packet *rtp.Packet) error {
	data, err := packet.Marshal()
	if err != nil {
		return err
	}

	if _, err := self.conn.Write(data); err != nil {
		return fmt.Errorf("rtp send: %w", err)
	}

	self.packets += 1
	self.bytes += uint64(len(packet.Payload))

	return nil
}

// Stats returns the number of packets and payload bytes sent.
func (self *Sender) Stats() (uint64, uint64) {
	self.lock.Lock()
	defer self.lock.Unlock()

	return self.packets, self.bytes
}

func (self *Sender) Close() error {
	self.lock.Lock()
	defer self.lock.Unlock()

	log.Debugf("rtpout: closing after %d packets", self.packets)

	return self.conn.Close()
}
