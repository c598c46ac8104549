package spa

import (
	"fmt"
	"strconv"
	"strings"
)

// AudioChannel is a speaker position.
type AudioChannel uint32

const (
	ChannelUnknown AudioChannel = iota
	ChannelNA
	ChannelMono
	ChannelFL
	ChannelFR
	ChannelFC
	ChannelLFE
	ChannelSL
	ChannelSR
	ChannelFLC
	ChannelFRC
	ChannelRC
	ChannelRL
	ChannelRR
	ChannelTC
	ChannelTFL
	ChannelTFC
	ChannelTFR
	ChannelTRL
	ChannelTRC
	ChannelTRR
	ChannelRLC
	ChannelRRC
	ChannelFLW
	ChannelFRW
	ChannelLFE2
	ChannelFLH
	ChannelFCH
	ChannelFRH
	ChannelTFLC
	ChannelTFRC
	ChannelTSL
	ChannelTSR
	ChannelLLFE
	ChannelRLFE
	ChannelBC
	ChannelBLC
	ChannelBRC
)

const (
	ChannelStartAux    AudioChannel = 0x1000
	ChannelAux0        AudioChannel = ChannelStartAux
	ChannelLastAux     AudioChannel = 0x1fff
	ChannelStartCustom AudioChannel = 0x10000
)

var channelNames = []string{
	`UNK`, `NA`, `MONO`, `FL`, `FR`, `FC`, `LFE`, `SL`, `SR`, `FLC`, `FRC`, `RC`,
	`RL`, `RR`, `TC`, `TFL`, `TFC`, `TFR`, `TRL`, `TRC`, `TRR`, `RLC`, `RRC`,
	`FLW`, `FRW`, `LFE2`, `FLH`, `FCH`, `FRH`, `TFLC`, `TFRC`, `TSL`, `TSR`,
	`LLFE`, `RLFE`, `BC`, `BLC`, `BRC`,
}

func (self AudioChannel) String() string {
	switch {
	case int(self) < len(channelNames):
		return channelNames[self]
	case self >= ChannelStartAux && self <= ChannelLastAux:
		return fmt.Sprintf("AUX%d", uint32(self-ChannelStartAux))
	default:
		return fmt.Sprintf("CH%d", uint32(self))
	}
}

// ParseAudioChannel accepts the short position names (`FL`, `aux3`).
func ParseAudioChannel(s string) (AudioChannel, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	for i, name := range channelNames {
		if name == s {
			return AudioChannel(i), nil
		}
	}

	if strings.HasPrefix(s, `AUX`) {
		if n, err := strconv.ParseUint(s[3:], 10, 32); err == nil && AudioChannel(n) <= ChannelLastAux-ChannelStartAux {
			return ChannelStartAux + AudioChannel(n), nil
		}
	}

	return ChannelUnknown, fmt.Errorf("unknown audio channel %q", s)
}

// DefaultChannelMap returns the usual speaker layout for the given count.
func DefaultChannelMap(channels int) []AudioChannel {
	switch channels {
	case 1:
		return []AudioChannel{ChannelMono}
	case 2:
		return []AudioChannel{ChannelFL, ChannelFR}
	case 3:
		return []AudioChannel{ChannelFL, ChannelFR, ChannelLFE}
	case 4:
		return []AudioChannel{ChannelFL, ChannelFR, ChannelRL, ChannelRR}
	case 5:
		return []AudioChannel{ChannelFL, ChannelFR, ChannelFC, ChannelRL, ChannelRR}
	case 6:
		return []AudioChannel{ChannelFL, ChannelFR, ChannelFC, ChannelLFE, ChannelRL, ChannelRR}
	case 8:
		return []AudioChannel{ChannelFL, ChannelFR, ChannelFC, ChannelLFE, ChannelRL, ChannelRR, ChannelSL, ChannelSR}
	}

	rv := make([]AudioChannel, channels)

	for i := range rv {
		rv[i] = ChannelStartAux + AudioChannel(i)
	}

	return rv
}
