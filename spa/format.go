package spa

import (
	"fmt"
	"strings"
)

// MediaType is the top-level type of a Format object.
type MediaType uint32

const (
	MediaTypeUnknown     MediaType = 0
	MediaTypeAudio       MediaType = 1
	MediaTypeVideo       MediaType = 2
	MediaTypeImage       MediaType = 3
	MediaTypeBinary      MediaType = 4
	MediaTypeStream      MediaType = 5
	MediaTypeApplication MediaType = 6
)

var mediaTypeNames = map[uint32]string{
	uint32(MediaTypeUnknown):     `unknown`,
	uint32(MediaTypeAudio):       `audio`,
	uint32(MediaTypeVideo):       `video`,
	uint32(MediaTypeImage):       `image`,
	uint32(MediaTypeBinary):      `binary`,
	uint32(MediaTypeStream):      `stream`,
	uint32(MediaTypeApplication): `application`,
}

func (self MediaType) String() string {
	if name, ok := mediaTypeNames[uint32(self)]; ok {
		return name
	}

	return fmt.Sprintf("media-type(%d)", uint32(self))
}

// MediaSubtype refines a MediaType.
type MediaSubtype uint32

const (
	MediaSubtypeUnknown MediaSubtype = 0
	MediaSubtypeRaw     MediaSubtype = 1
	MediaSubtypeDSP     MediaSubtype = 2
	MediaSubtypeIEC958  MediaSubtype = 3
	MediaSubtypeDSD     MediaSubtype = 4

	MediaSubtypeMP3    MediaSubtype = 0x10001
	MediaSubtypeAAC    MediaSubtype = 0x10002
	MediaSubtypeVorbis MediaSubtype = 0x10003
	MediaSubtypeWMA    MediaSubtype = 0x10004
	MediaSubtypeRA     MediaSubtype = 0x10005
	MediaSubtypeSBC    MediaSubtype = 0x10006
	MediaSubtypeADPCM  MediaSubtype = 0x10007
	MediaSubtypeG723   MediaSubtype = 0x10008
	MediaSubtypeG726   MediaSubtype = 0x10009
	MediaSubtypeG729   MediaSubtype = 0x1000a
	MediaSubtypeAMR    MediaSubtype = 0x1000b
	MediaSubtypeGSM    MediaSubtype = 0x1000c

	MediaSubtypeH264   MediaSubtype = 0x20001
	MediaSubtypeMJPG   MediaSubtype = 0x20002
	MediaSubtypeDV     MediaSubtype = 0x20003
	MediaSubtypeMPEGTS MediaSubtype = 0x20004
	MediaSubtypeH263   MediaSubtype = 0x20005
	MediaSubtypeMPEG1  MediaSubtype = 0x20006
	MediaSubtypeMPEG2  MediaSubtype = 0x20007
	MediaSubtypeMPEG4  MediaSubtype = 0x20008
	MediaSubtypeXVID   MediaSubtype = 0x20009
	MediaSubtypeVC1    MediaSubtype = 0x2000a
	MediaSubtypeVP8    MediaSubtype = 0x2000b
	MediaSubtypeVP9    MediaSubtype = 0x2000c
	MediaSubtypeBayer  MediaSubtype = 0x2000d

	MediaSubtypeJPEG    MediaSubtype = 0x30001
	MediaSubtypeMIDI    MediaSubtype = 0x50001
	MediaSubtypeControl MediaSubtype = 0x60001
)

var mediaSubtypeNames = map[uint32]string{
	uint32(MediaSubtypeUnknown): `unknown`,
	uint32(MediaSubtypeRaw):     `raw`,
	uint32(MediaSubtypeDSP):     `dsp`,
	uint32(MediaSubtypeIEC958):  `iec958`,
	uint32(MediaSubtypeDSD):     `dsd`,
	uint32(MediaSubtypeMP3):     `mp3`,
	uint32(MediaSubtypeAAC):     `aac`,
	uint32(MediaSubtypeVorbis):  `vorbis`,
	uint32(MediaSubtypeWMA):     `wma`,
	uint32(MediaSubtypeRA):      `ra`,
	uint32(MediaSubtypeSBC):     `sbc`,
	uint32(MediaSubtypeADPCM):   `adpcm`,
	uint32(MediaSubtypeG723):    `g723`,
	uint32(MediaSubtypeG726):    `g726`,
	uint32(MediaSubtypeG729):    `g729`,
	uint32(MediaSubtypeAMR):     `amr`,
	uint32(MediaSubtypeGSM):     `gsm`,
	uint32(MediaSubtypeH264):    `h264`,
	uint32(MediaSubtypeMJPG):    `mjpg`,
	uint32(MediaSubtypeDV):      `dv`,
	uint32(MediaSubtypeMPEGTS):  `mpegts`,
	uint32(MediaSubtypeH263):    `h263`,
	uint32(MediaSubtypeMPEG1):   `mpeg1`,
	uint32(MediaSubtypeMPEG2):   `mpeg2`,
	uint32(MediaSubtypeMPEG4):   `mpeg4`,
	uint32(MediaSubtypeXVID):    `xvid`,
	uint32(MediaSubtypeVC1):     `vc1`,
	uint32(MediaSubtypeVP8):     `vp8`,
	uint32(MediaSubtypeVP9):     `vp9`,
	uint32(MediaSubtypeBayer):   `bayer`,
	uint32(MediaSubtypeJPEG):    `jpeg`,
	uint32(MediaSubtypeMIDI):    `midi`,
	uint32(MediaSubtypeControl): `control`,
}

func (self MediaSubtype) String() string {
	if name, ok := mediaSubtypeNames[uint32(self)]; ok {
		return name
	}

	return fmt.Sprintf("media-subtype(0x%x)", uint32(self))
}

// FormatKey is a property key of a Format object.
type FormatKey uint32

const (
	FormatStartMedia   FormatKey = 0
	FormatMediaType    FormatKey = 1
	FormatMediaSubtype FormatKey = 2

	FormatStartAudio       FormatKey = 0x10000
	FormatAudioFormat      FormatKey = 0x10001
	FormatAudioFlags       FormatKey = 0x10002
	FormatAudioRate        FormatKey = 0x10003
	FormatAudioChannels    FormatKey = 0x10004
	FormatAudioPosition    FormatKey = 0x10005
	FormatAudioIEC958Codec FormatKey = 0x10006
	FormatAudioBitorder    FormatKey = 0x10007
	FormatAudioInterleave  FormatKey = 0x10008
	FormatAudioBitrate     FormatKey = 0x10009
	FormatAudioBlockAlign  FormatKey = 0x1000a

	FormatStartVideo            FormatKey = 0x20000
	FormatVideoFormat           FormatKey = 0x20001
	FormatVideoModifier         FormatKey = 0x20002
	FormatVideoSize             FormatKey = 0x20003
	FormatVideoFramerate        FormatKey = 0x20004
	FormatVideoMaxFramerate     FormatKey = 0x20005
	FormatVideoViews            FormatKey = 0x20006
	FormatVideoInterlaceMode    FormatKey = 0x20007
	FormatVideoPixelAspectRatio FormatKey = 0x20008
	FormatVideoMultiviewMode    FormatKey = 0x20009
	FormatVideoMultiviewFlags   FormatKey = 0x2000a
	FormatVideoChromaSite       FormatKey = 0x2000b
	FormatVideoColorRange       FormatKey = 0x2000c
	FormatVideoColorMatrix      FormatKey = 0x2000d
	FormatVideoTransferFunction FormatKey = 0x2000e
	FormatVideoColorPrimaries   FormatKey = 0x2000f
	FormatVideoProfile          FormatKey = 0x20010
	FormatVideoLevel            FormatKey = 0x20011
	FormatVideoH264StreamFormat FormatKey = 0x20012
	FormatVideoH264Alignment    FormatKey = 0x20013

	FormatStartImage       FormatKey = 0x30000
	FormatStartBinary      FormatKey = 0x40000
	FormatStartStream      FormatKey = 0x50000
	FormatStartApplication FormatKey = 0x60000
)

var formatKeyNames = map[uint32]string{
	uint32(FormatMediaType):             `mediaType`,
	uint32(FormatMediaSubtype):          `mediaSubtype`,
	uint32(FormatAudioFormat):           `format`,
	uint32(FormatAudioFlags):            `flags`,
	uint32(FormatAudioRate):             `rate`,
	uint32(FormatAudioChannels):         `channels`,
	uint32(FormatAudioPosition):         `position`,
	uint32(FormatAudioIEC958Codec):      `iec958Codec`,
	uint32(FormatAudioBitorder):         `bitorder`,
	uint32(FormatAudioInterleave):       `interleave`,
	uint32(FormatAudioBitrate):          `bitrate`,
	uint32(FormatAudioBlockAlign):       `blockAlign`,
	uint32(FormatVideoFormat):           `format`,
	uint32(FormatVideoModifier):         `modifier`,
	uint32(FormatVideoSize):             `size`,
	uint32(FormatVideoFramerate):        `framerate`,
	uint32(FormatVideoMaxFramerate):     `maxFramerate`,
	uint32(FormatVideoViews):            `views`,
	uint32(FormatVideoInterlaceMode):    `interlaceMode`,
	uint32(FormatVideoPixelAspectRatio): `pixelAspectRatio`,
	uint32(FormatVideoMultiviewMode):    `multiviewMode`,
	uint32(FormatVideoMultiviewFlags):   `multiviewFlags`,
	uint32(FormatVideoChromaSite):       `chromaSite`,
	uint32(FormatVideoColorRange):       `colorRange`,
	uint32(FormatVideoColorMatrix):      `colorMatrix`,
	uint32(FormatVideoTransferFunction): `transferFunction`,
	uint32(FormatVideoColorPrimaries):   `colorPrimaries`,
	uint32(FormatVideoProfile):          `profile`,
	uint32(FormatVideoLevel):            `level`,
	uint32(FormatVideoH264StreamFormat): `H264:streamFormat`,
	uint32(FormatVideoH264Alignment):    `H264:alignment`,
}

func (self FormatKey) String() string {
	if name, ok := formatKeyNames[uint32(self)]; ok {
		return name
	}

	return fmt.Sprintf("format-key(0x%x)", uint32(self))
}

// AudioFormat is a raw audio sample format.
type AudioFormat uint32

const (
	AudioFormatUnknown AudioFormat = 0
	AudioFormatEncoded AudioFormat = 1

	AudioFormatStartInterleaved AudioFormat = 0x100
	AudioFormatS8               AudioFormat = 0x101
	AudioFormatU8               AudioFormat = 0x102
	AudioFormatS16LE            AudioFormat = 0x103
	AudioFormatS16BE            AudioFormat = 0x104
	AudioFormatU16LE            AudioFormat = 0x105
	AudioFormatU16BE            AudioFormat = 0x106
	AudioFormatS24_32LE         AudioFormat = 0x107
	AudioFormatS24_32BE         AudioFormat = 0x108
	AudioFormatU24_32LE         AudioFormat = 0x109
	AudioFormatU24_32BE         AudioFormat = 0x10a
	AudioFormatS32LE            AudioFormat = 0x10b
	AudioFormatS32BE            AudioFormat = 0x10c
	AudioFormatU32LE            AudioFormat = 0x10d
	AudioFormatU32BE            AudioFormat = 0x10e
	AudioFormatS24LE            AudioFormat = 0x10f
	AudioFormatS24BE            AudioFormat = 0x110
	AudioFormatU24LE            AudioFormat = 0x111
	AudioFormatU24BE            AudioFormat = 0x112
	AudioFormatS20LE            AudioFormat = 0x113
	AudioFormatS20BE            AudioFormat = 0x114
	AudioFormatU20LE            AudioFormat = 0x115
	AudioFormatU20BE            AudioFormat = 0x116
	AudioFormatS18LE            AudioFormat = 0x117
	AudioFormatS18BE            AudioFormat = 0x118
	AudioFormatU18LE            AudioFormat = 0x119
	AudioFormatU18BE            AudioFormat = 0x11a
	AudioFormatF32LE            AudioFormat = 0x11b
	AudioFormatF32BE            AudioFormat = 0x11c
	AudioFormatF64LE            AudioFormat = 0x11d
	AudioFormatF64BE            AudioFormat = 0x11e
	AudioFormatULaw             AudioFormat = 0x11f
	AudioFormatALaw             AudioFormat = 0x120

	AudioFormatStartPlanar AudioFormat = 0x200
	AudioFormatU8P         AudioFormat = 0x201
	AudioFormatS16P        AudioFormat = 0x202
	AudioFormatS24_32P     AudioFormat = 0x203
	AudioFormatS32P        AudioFormat = 0x204
	AudioFormatS24P        AudioFormat = 0x205
	AudioFormatF32P        AudioFormat = 0x206
	AudioFormatF64P        AudioFormat = 0x207
	AudioFormatS8P         AudioFormat = 0x208

	AudioFormatStartOther AudioFormat = 0x400

	// native-endian aliases; PipeWire only runs little-endian here
	AudioFormatS16    = AudioFormatS16LE
	AudioFormatS32    = AudioFormatS32LE
	AudioFormatF32    = AudioFormatF32LE
	AudioFormatF64    = AudioFormatF64LE
	AudioFormatDSPF32 = AudioFormatF32P
)

var audioFormatNames = map[uint32]string{
	uint32(AudioFormatUnknown):  `UNKNOWN`,
	uint32(AudioFormatEncoded):  `ENCODED`,
	uint32(AudioFormatS8):       `S8`,
	uint32(AudioFormatU8):       `U8`,
	uint32(AudioFormatS16LE):    `S16LE`,
	uint32(AudioFormatS16BE):    `S16BE`,
	uint32(AudioFormatU16LE):    `U16LE`,
	uint32(AudioFormatU16BE):    `U16BE`,
	uint32(AudioFormatS24_32LE): `S24_32LE`,
	uint32(AudioFormatS24_32BE): `S24_32BE`,
	uint32(AudioFormatU24_32LE): `U24_32LE`,
	uint32(AudioFormatU24_32BE): `U24_32BE`,
	uint32(AudioFormatS32LE):    `S32LE`,
	uint32(AudioFormatS32BE):    `S32BE`,
	uint32(AudioFormatU32LE):    `U32LE`,
	uint32(AudioFormatU32BE):    `U32BE`,
	uint32(AudioFormatS24LE):    `S24LE`,
	uint32(AudioFormatS24BE):    `S24BE`,
	uint32(AudioFormatU24LE):    `U24LE`,
	uint32(AudioFormatU24BE):    `U24BE`,
	uint32(AudioFormatS20LE):    `S20LE`,
	uint32(AudioFormatS20BE):    `S20BE`,
	uint32(AudioFormatU20LE):    `U20LE`,
	uint32(AudioFormatU20BE):    `U20BE`,
	uint32(AudioFormatS18LE):    `S18LE`,
	uint32(AudioFormatS18BE):    `S18BE`,
	uint32(AudioFormatU18LE):    `U18LE`,
	uint32(AudioFormatU18BE):    `U18BE`,
	uint32(AudioFormatF32LE):    `F32LE`,
	uint32(AudioFormatF32BE):    `F32BE`,
	uint32(AudioFormatF64LE):    `F64LE`,
	uint32(AudioFormatF64BE):    `F64BE`,
	uint32(AudioFormatULaw):     `ULAW`,
	uint32(AudioFormatALaw):     `ALAW`,
	uint32(AudioFormatU8P):      `U8P`,
	uint32(AudioFormatS16P):     `S16P`,
	uint32(AudioFormatS24_32P):  `S24_32P`,
	uint32(AudioFormatS32P):     `S32P`,
	uint32(AudioFormatS24P):     `S24P`,
	uint32(AudioFormatF32P):     `F32P`,
	uint32(AudioFormatF64P):     `F64P`,
	uint32(AudioFormatS8P):      `S8P`,
}

func (self AudioFormat) String() string {
	if name, ok := audioFormatNames[uint32(self)]; ok {
		return name
	}

	return fmt.Sprintf("audio-format(0x%x)", uint32(self))
}

// ParseAudioFormat accepts names like `S16LE`, `f32le` or `F32`.
func ParseAudioFormat(s string) (AudioFormat, error) {
	switch strings.ToUpper(s) {
	case `S16`:
		return AudioFormatS16, nil
	case `S32`:
		return AudioFormatS32, nil
	case `F32`:
		return AudioFormatF32, nil
	case `F64`:
		return AudioFormatF64, nil
	}

	if v, ok := lookupName(s, audioFormatNames); ok {
		return AudioFormat(v), nil
	}

	return AudioFormatUnknown, fmt.Errorf("unknown audio format %q", s)
}

// Whether samples of this format are stored one channel per plane.
func (self AudioFormat) IsPlanar() bool {
	return self > AudioFormatStartPlanar && self < AudioFormatStartOther
}

// Return the number of bytes one sample of a single channel occupies, or zero
// for encoded and unknown formats.
func (self AudioFormat) SampleSize() int {
	switch self {
	case AudioFormatS8, AudioFormatU8, AudioFormatULaw, AudioFormatALaw, AudioFormatU8P, AudioFormatS8P:
		return 1
	case AudioFormatS16LE, AudioFormatS16BE, AudioFormatU16LE, AudioFormatU16BE, AudioFormatS16P:
		return 2
	case AudioFormatS24LE, AudioFormatS24BE, AudioFormatU24LE, AudioFormatU24BE,
		AudioFormatS20LE, AudioFormatS20BE, AudioFormatU20LE, AudioFormatU20BE,
		AudioFormatS18LE, AudioFormatS18BE, AudioFormatU18LE, AudioFormatU18BE, AudioFormatS24P:
		return 3
	case AudioFormatS24_32LE, AudioFormatS24_32BE, AudioFormatU24_32LE, AudioFormatU24_32BE,
		AudioFormatS32LE, AudioFormatS32BE, AudioFormatU32LE, AudioFormatU32BE,
		AudioFormatF32LE, AudioFormatF32BE, AudioFormatS24_32P, AudioFormatS32P, AudioFormatF32P:
		return 4
	case AudioFormatF64LE, AudioFormatF64BE, AudioFormatF64P:
		return 8
	default:
		return 0
	}
}

// AudioFlags are carried by the audio.flags key of a Format.
type AudioFlags uint32

const (
	AudioFlagNone         AudioFlags = 0
	AudioFlagUnpositioned AudioFlags = 1 << 0
)

func (self AudioFlags) Has(flag AudioFlags) bool {
	return self&flag == flag
}

// Bitorder of IEC958 and DSD formats.
type Bitorder uint32

const (
	BitorderUnknown Bitorder = 0
	BitorderMSB     Bitorder = 1
	BitorderLSB     Bitorder = 2
)

func (self Bitorder) String() string {
	switch self {
	case BitorderMSB:
		return `msb`
	case BitorderLSB:
		return `lsb`
	default:
		return `unknown`
	}
}
