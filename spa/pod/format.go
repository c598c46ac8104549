package pod

import (
	"github.com/auroralaboratories/pipewire/spa"
)

// AudioFormat is a Format or EnumFormat object describing raw or DSP audio.
// When Formats holds more than one entry the format key is encoded as an
// enum choice with Formats[0] as the default.
type AudioFormat struct {
	MediaType    spa.MediaType      `json:"media_type"`
	MediaSubtype spa.MediaSubtype   `json:"media_subtype"`
	Formats      []spa.AudioFormat  `json:"formats,omitempty"`
	Rate         uint32             `json:"rate,omitempty"`
	Channels     uint32             `json:"channels,omitempty"`
	Position     []spa.AudioChannel `json:"position,omitempty"`
	Flags        spa.AudioFlags     `json:"flags,omitempty"`
	Interleave   int32              `json:"interleave,omitempty"`
	Extra        []Prop             `json:"-"`
}

// NewAudioFormat returns a raw audio format with a single sample format.
func NewAudioFormat(format spa.AudioFormat, rate uint32, channels uint32) AudioFormat {
	return AudioFormat{
		MediaType:    spa.MediaTypeAudio,
		MediaSubtype: spa.MediaSubtypeRaw,
		Formats:      []spa.AudioFormat{format},
		Rate:         rate,
		Channels:     channels,
	}
}

// Format returns the default sample format, or AudioFormatUnknown.
func (self AudioFormat) Format() spa.AudioFormat {
	if len(self.Formats) > 0 {
		return self.Formats[0]
	}

	return spa.AudioFormatUnknown
}

func (self AudioFormat) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectFormat, uint32(paramType),
		P(uint32(spa.FormatMediaType), ID(self.MediaType)),
		P(uint32(spa.FormatMediaSubtype), ID(self.MediaSubtype)),
	)

	switch len(self.Formats) {
	case 0:
	case 1:
		obj.Props = append(obj.Props, P(uint32(spa.FormatAudioFormat), ID(self.Formats[0])))
	default:
		alternatives := make([]Value, len(self.Formats))

		for i, f := range self.Formats {
			alternatives[i] = ID(f)
		}

		obj.Props = append(obj.Props, P(uint32(spa.FormatAudioFormat), NewEnum(ID(self.Formats[0]), alternatives...)))
	}

	if self.Flags != spa.AudioFlagNone {
		obj.Props = append(obj.Props, P(uint32(spa.FormatAudioFlags), Int(self.Flags)))
	}

	if self.Rate != 0 {
		obj.Props = append(obj.Props, P(uint32(spa.FormatAudioRate), Int(self.Rate)))
	}

	if self.Channels != 0 {
		obj.Props = append(obj.Props, P(uint32(spa.FormatAudioChannels), Int(self.Channels)))
	}

	if len(self.Position) > 0 {
		ids := make([]uint32, len(self.Position))

		for i, ch := range self.Position {
			ids[i] = uint32(ch)
		}

		obj.Props = append(obj.Props, P(uint32(spa.FormatAudioPosition), IDArray(ids)))
	}

	if self.Interleave != 0 {
		obj.Props = append(obj.Props, P(uint32(spa.FormatAudioInterleave), Int(self.Interleave)))
	}

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

// AudioFormatFromPod decodes a Format object. Choices on the rate and channel
// keys are fixated to their defaults; a format enum keeps every alternative.
func AudioFormatFromPod(v Value) (AudioFormat, error) {
	var format AudioFormat
	var mediaType, mediaSubtype uint32
	var rate, channels, flags int32

	obj, err := objectOf(v, spa.TypeObjectFormat)

	if err != nil {
		return format, err
	}

	format.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.FormatMediaType):    setID(&mediaType),
		uint32(spa.FormatMediaSubtype): setID(&mediaSubtype),
		uint32(spa.FormatAudioFormat): func(v Value) error {
			if choice, ok := v.(Choice); ok && choice.ChoiceType == spa.ChoiceEnum {
				def, alternatives, err := choice.Enum()

				if err != nil {
					return err
				}

				seen := make(map[uint32]bool)

				for _, el := range append([]Value{def}, alternatives...) {
					id, err := AsID(el)

					if err != nil {
						return err
					}

					if !seen[id] {
						seen[id] = true
						format.Formats = append(format.Formats, spa.AudioFormat(id))
					}
				}

				return nil
			}

			id, err := AsID(v)

			if err == nil {
				format.Formats = []spa.AudioFormat{spa.AudioFormat(id)}
			}

			return err
		},
		uint32(spa.FormatAudioFlags):    setInt(&flags),
		uint32(spa.FormatAudioRate):     setInt(&rate),
		uint32(spa.FormatAudioChannels): setInt(&channels),
		uint32(spa.FormatAudioPosition): func(v Value) error {
			ids, err := AsIDArray(v)

			for _, id := range ids {
				format.Position = append(format.Position, spa.AudioChannel(id))
			}

			return err
		},
		uint32(spa.FormatAudioInterleave): setInt(&format.Interleave),
	})

	format.MediaType = spa.MediaType(mediaType)
	format.MediaSubtype = spa.MediaSubtype(mediaSubtype)
	format.Rate = uint32(rate)
	format.Channels = uint32(channels)
	format.Flags = spa.AudioFlags(flags)

	return format, err
}

// VideoFormat is a Format object describing raw video. Size and Framerate
// are kept as pods since producers usually offer them as ranges.
type VideoFormat struct {
	MediaType    spa.MediaType     `json:"media_type"`
	MediaSubtype spa.MediaSubtype  `json:"media_subtype"`
	Formats      []spa.VideoFormat `json:"formats,omitempty"`
	Modifier     *int64            `json:"modifier,omitempty"`
	Size         Value             `json:"size,omitempty"`
	Framerate    Value             `json:"framerate,omitempty"`
	MaxFramerate Value             `json:"max_framerate,omitempty"`
	Extra        []Prop            `json:"-"`
}

// Format returns the default pixel format.
func (self VideoFormat) Format() spa.VideoFormat {
	if len(self.Formats) > 0 {
		return self.Formats[0]
	}

	return spa.VideoFormatUnknown
}

// FixedSize returns the size, fixated to its default when it is a choice.
func (self VideoFormat) FixedSize() (Rectangle, error) {
	return AsRectangle(self.Size)
}

// FixedFramerate returns the framerate, fixated to its default when it is a
// choice.
func (self VideoFormat) FixedFramerate() (Fraction, error) {
	return AsFraction(self.Framerate)
}

func (self VideoFormat) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectFormat, uint32(paramType),
		P(uint32(spa.FormatMediaType), ID(self.MediaType)),
		P(uint32(spa.FormatMediaSubtype), ID(self.MediaSubtype)),
	)

	switch len(self.Formats) {
	case 0:
	case 1:
		obj.Props = append(obj.Props, P(uint32(spa.FormatVideoFormat), ID(self.Formats[0])))
	default:
		alternatives := make([]Value, len(self.Formats))

		for i, f := range self.Formats {
			alternatives[i] = ID(f)
		}

		obj.Props = append(obj.Props, P(uint32(spa.FormatVideoFormat), NewEnum(ID(self.Formats[0]), alternatives...)))
	}

	if self.Modifier != nil {
		obj.Props = append(obj.Props, Prop{
			Key:   uint32(spa.FormatVideoModifier),
			Flags: spa.PropFlagMandatory,
			Value: Long(*self.Modifier),
		})
	}

	for _, kv := range []struct {
		key   spa.FormatKey
		value Value
	}{
		{spa.FormatVideoSize, self.Size},
		{spa.FormatVideoFramerate, self.Framerate},
		{spa.FormatVideoMaxFramerate, self.MaxFramerate},
	} {
		if kv.value != nil {
			obj.Props = append(obj.Props, P(uint32(kv.key), kv.value))
		}
	}

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

func VideoFormatFromPod(v Value) (VideoFormat, error) {
	var format VideoFormat
	var mediaType, mediaSubtype uint32

	obj, err := objectOf(v, spa.TypeObjectFormat)

	if err != nil {
		return format, err
	}

	format.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.FormatMediaType):    setID(&mediaType),
		uint32(spa.FormatMediaSubtype): setID(&mediaSubtype),
		uint32(spa.FormatVideoFormat): func(v Value) error {
			if choice, ok := v.(Choice); ok && choice.ChoiceType == spa.ChoiceEnum {
				seen := make(map[uint32]bool)

				for _, el := range choice.Values {
					id, err := AsID(el)

					if err != nil {
						return err
					}

					if !seen[id] {
						seen[id] = true
						format.Formats = append(format.Formats, spa.VideoFormat(id))
					}
				}

				return nil
			}

			id, err := AsID(v)

			if err == nil {
				format.Formats = []spa.VideoFormat{spa.VideoFormat(id)}
			}

			return err
		},
		uint32(spa.FormatVideoModifier): func(v Value) error {
			n, err := AsLong(v)

			if err == nil {
				format.Modifier = &n
			}

			return err
		},
		uint32(spa.FormatVideoSize):         setValue(&format.Size),
		uint32(spa.FormatVideoFramerate):    setValue(&format.Framerate),
		uint32(spa.FormatVideoMaxFramerate): setValue(&format.MaxFramerate),
	})

	format.MediaType = spa.MediaType(mediaType)
	format.MediaSubtype = spa.MediaSubtype(mediaSubtype)

	return format, err
}

// FormatMedia peeks at the media type and subtype of a Format object without
// decoding the rest.
func FormatMedia(v Value) (spa.MediaType, spa.MediaSubtype, error) {
	obj, err := objectOf(v, spa.TypeObjectFormat)

	if err != nil {
		return 0, 0, err
	}

	var mediaType, mediaSubtype uint32

	if prop, err := obj.Find(uint32(spa.FormatMediaType)); err != nil {
		return 0, 0, err
	} else if mediaType, err = AsID(prop.Value); err != nil {
		return 0, 0, err
	}

	if prop, err := obj.Find(uint32(spa.FormatMediaSubtype)); err != nil {
		return 0, 0, err
	} else if mediaSubtype, err = AsID(prop.Value); err != nil {
		return 0, 0, err
	}

	return spa.MediaType(mediaType), spa.MediaSubtype(mediaSubtype), nil
}
