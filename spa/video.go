package spa

import (
	"fmt"
	"strings"
)

// VideoFormat is a raw video pixel format.
type VideoFormat uint32

const (
	VideoFormatUnknown VideoFormat = iota
	VideoFormatEncoded
	VideoFormatI420
	VideoFormatYV12
	VideoFormatYUY2
	VideoFormatUYVY
	VideoFormatAYUV
	VideoFormatRGBx
	VideoFormatBGRx
	VideoFormatxRGB
	VideoFormatxBGR
	VideoFormatRGBA
	VideoFormatBGRA
	VideoFormatARGB
	VideoFormatABGR
	VideoFormatRGB
	VideoFormatBGR
	VideoFormatY41B
	VideoFormatY42B
	VideoFormatYVYU
	VideoFormatY444
	VideoFormatV210
	VideoFormatV216
	VideoFormatNV12
	VideoFormatNV21
	VideoFormatGRAY8
	VideoFormatGRAY16BE
	VideoFormatGRAY16LE
	VideoFormatV308
	VideoFormatRGB16
	VideoFormatBGR16
	VideoFormatRGB15
	VideoFormatBGR15
	VideoFormatUYVP
	VideoFormatA420
	VideoFormatRGB8P
	VideoFormatYUV9
	VideoFormatYVU9
	VideoFormatIYU1
	VideoFormatARGB64
	VideoFormatAYUV64
	VideoFormatR210
	VideoFormatI420_10BE
	VideoFormatI420_10LE
	VideoFormatI422_10BE
	VideoFormatI422_10LE
	VideoFormatY444_10BE
	VideoFormatY444_10LE
	VideoFormatGBR
	VideoFormatGBR_10BE
	VideoFormatGBR_10LE
	VideoFormatNV16
	VideoFormatNV24
	VideoFormatNV12_64Z32
	VideoFormatA420_10BE
	VideoFormatA420_10LE
	VideoFormatA422_10BE
	VideoFormatA422_10LE
	VideoFormatA444_10BE
	VideoFormatA444_10LE
	VideoFormatNV61
	VideoFormatP010_10BE
	VideoFormatP010_10LE
	VideoFormatIYU2
	VideoFormatVYUY
	VideoFormatGBRA
	VideoFormatGBRA_10BE
	VideoFormatGBRA_10LE
	VideoFormatGBR_12BE
	VideoFormatGBR_12LE
	VideoFormatGBRA_12BE
	VideoFormatGBRA_12LE
	VideoFormatI420_12BE
	VideoFormatI420_12LE
	VideoFormatI422_12BE
	VideoFormatI422_12LE
	VideoFormatY444_12BE
	VideoFormatY444_12LE
	VideoFormatRGBA_F16
	VideoFormatRGBA_F32
	VideoFormatxRGB_210LE
	VideoFormatxBGR_210LE
	VideoFormatRGBx_102LE
	VideoFormatBGRx_102LE
	VideoFormatARGB_210LE
	VideoFormatABGR_210LE
	VideoFormatRGBA_102LE
	VideoFormatBGRA_102LE
)

var videoFormatNames = []string{
	`UNKNOWN`, `ENCODED`, `I420`, `YV12`, `YUY2`, `UYVY`, `AYUV`, `RGBx`, `BGRx`,
	`xRGB`, `xBGR`, `RGBA`, `BGRA`, `ARGB`, `ABGR`, `RGB`, `BGR`, `Y41B`, `Y42B`,
	`YVYU`, `Y444`, `v210`, `v216`, `NV12`, `NV21`, `GRAY8`, `GRAY16_BE`,
	`GRAY16_LE`, `v308`, `RGB16`, `BGR16`, `RGB15`, `BGR15`, `UYVP`, `A420`,
	`RGB8P`, `YUV9`, `YVU9`, `IYU1`, `ARGB64`, `AYUV64`, `r210`, `I420_10BE`,
	`I420_10LE`, `I422_10BE`, `I422_10LE`, `Y444_10BE`, `Y444_10LE`, `GBR`,
	`GBR_10BE`, `GBR_10LE`, `NV16`, `NV24`, `NV12_64Z32`, `A420_10BE`,
	`A420_10LE`, `A422_10BE`, `A422_10LE`, `A444_10BE`, `A444_10LE`, `NV61`,
	`P010_10BE`, `P010_10LE`, `IYU2`, `VYUY`, `GBRA`, `GBRA_10BE`, `GBRA_10LE`,
	`GBR_12BE`, `GBR_12LE`, `GBRA_12BE`, `GBRA_12LE`, `I420_12BE`, `I420_12LE`,
	`I422_12BE`, `I422_12LE`, `Y444_12BE`, `Y444_12LE`, `RGBA_F16`, `RGBA_F32`,
	`xRGB_210LE`, `xBGR_210LE`, `RGBx_102LE`, `BGRx_102LE`, `ARGB_210LE`,
	`ABGR_210LE`, `RGBA_102LE`, `BGRA_102LE`,
}

func (self VideoFormat) String() string {
	if int(self) < len(videoFormatNames) {
		return videoFormatNames[self]
	}

	return fmt.Sprintf("video-format(%d)", uint32(self))
}

// ParseVideoFormat matches the names exactly first, then ignoring case.
func ParseVideoFormat(s string) (VideoFormat, error) {
	for i, name := range videoFormatNames {
		if name == s {
			return VideoFormat(i), nil
		}
	}

	for i, name := range videoFormatNames {
		if strings.EqualFold(name, s) {
			return VideoFormat(i), nil
		}
	}

	return VideoFormatUnknown, fmt.Errorf("unknown video format %q", s)
}
