package spa

import (
	"fmt"
)

// PropKey is a key of a Props object.
type PropKey uint32

const (
	PropUnknown PropKey = 0x1

	PropStartDevice         PropKey = 0x100
	PropDevice              PropKey = 0x101
	PropDeviceName          PropKey = 0x102
	PropDeviceFd            PropKey = 0x103
	PropCard                PropKey = 0x104
	PropCardName            PropKey = 0x105
	PropMinLatency          PropKey = 0x106
	PropMaxLatency          PropKey = 0x107
	PropPeriods             PropKey = 0x108
	PropPeriodSize          PropKey = 0x109
	PropPeriodEvent         PropKey = 0x10a
	PropLive                PropKey = 0x10b
	PropRate                PropKey = 0x10c
	PropQuality             PropKey = 0x10d
	PropBluetoothAudioCodec PropKey = 0x10e

	PropStartAudio        PropKey = 0x10000
	PropWaveType          PropKey = 0x10001
	PropFrequency         PropKey = 0x10002
	PropVolume            PropKey = 0x10003
	PropMute              PropKey = 0x10004
	PropPatternType       PropKey = 0x10005
	PropDitherType        PropKey = 0x10006
	PropTruncate          PropKey = 0x10007
	PropChannelVolumes    PropKey = 0x10008
	PropVolumeBase        PropKey = 0x10009
	PropVolumeStep        PropKey = 0x1000a
	PropChannelMap        PropKey = 0x1000b
	PropMonitorMute       PropKey = 0x1000c
	PropMonitorVolumes    PropKey = 0x1000d
	PropLatencyOffsetNsec PropKey = 0x1000e
	PropSoftMute          PropKey = 0x1000f
	PropSoftVolumes       PropKey = 0x10010
	PropIEC958Codecs      PropKey = 0x10011

	PropStartVideo PropKey = 0x20000
	PropBrightness PropKey = 0x20001
	PropContrast   PropKey = 0x20002
	PropSaturation PropKey = 0x20003
	PropHue        PropKey = 0x20004
	PropGamma      PropKey = 0x20005
	PropExposure   PropKey = 0x20006
	PropGain       PropKey = 0x20007
	PropSharpness  PropKey = 0x20008

	PropStartOther PropKey = 0x80000
	PropParams     PropKey = 0x80001

	PropStartCustom PropKey = 0x1000000
)

var propKeyNames = map[uint32]string{
	uint32(PropUnknown):             `unknown`,
	uint32(PropDevice):              `device`,
	uint32(PropDeviceName):          `deviceName`,
	uint32(PropDeviceFd):            `deviceFd`,
	uint32(PropCard):                `card`,
	uint32(PropCardName):            `cardName`,
	uint32(PropMinLatency):          `minLatency`,
	uint32(PropMaxLatency):          `maxLatency`,
	uint32(PropPeriods):             `periods`,
	uint32(PropPeriodSize):          `periodSize`,
	uint32(PropPeriodEvent):         `periodEvent`,
	uint32(PropLive):                `live`,
	uint32(PropRate):                `rate`,
	uint32(PropQuality):             `quality`,
	uint32(PropBluetoothAudioCodec): `bluetoothAudioCodec`,
	uint32(PropWaveType):            `waveType`,
	uint32(PropFrequency):           `frequency`,
	uint32(PropVolume):              `volume`,
	uint32(PropMute):                `mute`,
	uint32(PropPatternType):         `patternType`,
	uint32(PropDitherType):          `ditherType`,
	uint32(PropTruncate):            `truncate`,
	uint32(PropChannelVolumes):      `channelVolumes`,
	uint32(PropVolumeBase):          `volumeBase`,
	uint32(PropVolumeStep):          `volumeStep`,
	uint32(PropChannelMap):          `channelMap`,
	uint32(PropMonitorMute):         `monitorMute`,
	uint32(PropMonitorVolumes):      `monitorVolumes`,
	uint32(PropLatencyOffsetNsec):   `latencyOffsetNsec`,
	uint32(PropSoftMute):            `softMute`,
	uint32(PropSoftVolumes):         `softVolumes`,
	uint32(PropIEC958Codecs):        `iec958Codecs`,
	uint32(PropBrightness):          `brightness`,
	uint32(PropContrast):            `contrast`,
	uint32(PropSaturation):          `saturation`,
	uint32(PropHue):                 `hue`,
	uint32(PropGamma):               `gamma`,
	uint32(PropExposure):            `exposure`,
	uint32(PropGain):                `gain`,
	uint32(PropSharpness):           `sharpness`,
	uint32(PropParams):              `params`,
}

func (self PropKey) String() string {
	return keyName(uint32(self), propKeyNames)
}

// PropInfoKey is a key of a PropInfo object.
type PropInfoKey uint32

const (
	PropInfoID          PropInfoKey = 1
	PropInfoName        PropInfoKey = 2
	PropInfoType        PropInfoKey = 3
	PropInfoLabels      PropInfoKey = 4
	PropInfoContainer   PropInfoKey = 5
	PropInfoParams      PropInfoKey = 6
	PropInfoDescription PropInfoKey = 7
)

var propInfoKeyNames = map[uint32]string{
	1: `id`, 2: `name`, 3: `type`, 4: `labels`, 5: `container`, 6: `params`, 7: `description`,
}

func (self PropInfoKey) String() string {
	return keyName(uint32(self), propInfoKeyNames)
}

// ParamBuffersKey is a key of a ParamBuffers object.
type ParamBuffersKey uint32

const (
	BuffersBuffers  ParamBuffersKey = 1
	BuffersBlocks   ParamBuffersKey = 2
	BuffersSize     ParamBuffersKey = 3
	BuffersStride   ParamBuffersKey = 4
	BuffersAlign    ParamBuffersKey = 5
	BuffersDataType ParamBuffersKey = 6
)

var paramBuffersKeyNames = map[uint32]string{
	1: `buffers`, 2: `blocks`, 3: `size`, 4: `stride`, 5: `align`, 6: `dataType`,
}

func (self ParamBuffersKey) String() string {
	return keyName(uint32(self), paramBuffersKeyNames)
}

// ParamMetaKey is a key of a ParamMeta object.
type ParamMetaKey uint32

const (
	MetaKeyType ParamMetaKey = 1
	MetaKeySize ParamMetaKey = 2
)

var paramMetaKeyNames = map[uint32]string{1: `type`, 2: `size`}

func (self ParamMetaKey) String() string {
	return keyName(uint32(self), paramMetaKeyNames)
}

// ParamIOKey is a key of a ParamIO object.
type ParamIOKey uint32

const (
	IOKeyID   ParamIOKey = 1
	IOKeySize ParamIOKey = 2
)

var paramIOKeyNames = map[uint32]string{1: `id`, 2: `size`}

func (self ParamIOKey) String() string {
	return keyName(uint32(self), paramIOKeyNames)
}

// ParamProfileKey is a key of a ParamProfile object.
type ParamProfileKey uint32

const (
	ProfileIndex       ParamProfileKey = 1
	ProfileName        ParamProfileKey = 2
	ProfileDescription ParamProfileKey = 3
	ProfilePriority    ParamProfileKey = 4
	ProfileAvailable   ParamProfileKey = 5
	ProfileInfo        ParamProfileKey = 6
	ProfileClasses     ParamProfileKey = 7
	ProfileSave        ParamProfileKey = 8
)

var paramProfileKeyNames = map[uint32]string{
	1: `index`, 2: `name`, 3: `description`, 4: `priority`, 5: `available`,
	6: `info`, 7: `classes`, 8: `save`,
}

func (self ParamProfileKey) String() string {
	return keyName(uint32(self), paramProfileKeyNames)
}

// ParamPortConfigKey is a key of a ParamPortConfig object.
type ParamPortConfigKey uint32

const (
	PortConfigKeyDirection ParamPortConfigKey = 1
	PortConfigKeyMode      ParamPortConfigKey = 2
	PortConfigKeyMonitor   ParamPortConfigKey = 3
	PortConfigKeyControl   ParamPortConfigKey = 4
	PortConfigKeyFormat    ParamPortConfigKey = 5
)

var paramPortConfigKeyNames = map[uint32]string{
	1: `direction`, 2: `mode`, 3: `monitor`, 4: `control`, 5: `format`,
}

func (self ParamPortConfigKey) String() string {
	return keyName(uint32(self), paramPortConfigKeyNames)
}

// ParamRouteKey is a key of a ParamRoute object.
type ParamRouteKey uint32

const (
	RouteIndex       ParamRouteKey = 1
	RouteDirection   ParamRouteKey = 2
	RouteDevice      ParamRouteKey = 3
	RouteName        ParamRouteKey = 4
	RouteDescription ParamRouteKey = 5
	RoutePriority    ParamRouteKey = 6
	RouteAvailable   ParamRouteKey = 7
	RouteInfo        ParamRouteKey = 8
	RouteProfiles    ParamRouteKey = 9
	RouteProps       ParamRouteKey = 10
	RouteDevices     ParamRouteKey = 11
	RouteProfile     ParamRouteKey = 12
	RouteSave        ParamRouteKey = 13
)

var paramRouteKeyNames = map[uint32]string{
	1: `index`, 2: `direction`, 3: `device`, 4: `name`, 5: `description`,
	6: `priority`, 7: `available`, 8: `info`, 9: `profiles`, 10: `props`,
	11: `devices`, 12: `profile`, 13: `save`,
}

func (self ParamRouteKey) String() string {
	return keyName(uint32(self), paramRouteKeyNames)
}

// ProfilerKey is a key of a Profiler object.
type ProfilerKey uint32

const (
	ProfilerStartDriver   ProfilerKey = 0x10000
	ProfilerInfo          ProfilerKey = 0x10001
	ProfilerClock         ProfilerKey = 0x10002
	ProfilerDriverBlock   ProfilerKey = 0x10003
	ProfilerStartFollower ProfilerKey = 0x20000
	ProfilerFollowerBlock ProfilerKey = 0x20001
	ProfilerStartCustom   ProfilerKey = 0x1000000
)

var profilerKeyNames = map[uint32]string{
	0x10001: `info`, 0x10002: `clock`, 0x10003: `driverBlock`, 0x20001: `followerBlock`,
}

func (self ProfilerKey) String() string {
	return keyName(uint32(self), profilerKeyNames)
}

// ParamLatencyKey is a key of a ParamLatency object.
type ParamLatencyKey uint32

const (
	LatencyDirection  ParamLatencyKey = 1
	LatencyMinQuantum ParamLatencyKey = 2
	LatencyMaxQuantum ParamLatencyKey = 3
	LatencyMinRate    ParamLatencyKey = 4
	LatencyMaxRate    ParamLatencyKey = 5
	LatencyMinNs      ParamLatencyKey = 6
	LatencyMaxNs      ParamLatencyKey = 7
)

var paramLatencyKeyNames = map[uint32]string{
	1: `direction`, 2: `minQuantum`, 3: `maxQuantum`, 4: `minRate`, 5: `maxRate`,
	6: `minNs`, 7: `maxNs`,
}

func (self ParamLatencyKey) String() string {
	return keyName(uint32(self), paramLatencyKeyNames)
}

// ParamProcessLatencyKey is a key of a ParamProcessLatency object.
type ParamProcessLatencyKey uint32

const (
	ProcessLatencyQuantum ParamProcessLatencyKey = 1
	ProcessLatencyRate    ParamProcessLatencyKey = 2
	ProcessLatencyNs      ParamProcessLatencyKey = 3
)

var paramProcessLatencyKeyNames = map[uint32]string{1: `quantum`, 2: `rate`, 3: `ns`}

func (self ParamProcessLatencyKey) String() string {
	return keyName(uint32(self), paramProcessLatencyKeyNames)
}

// KeyName returns the name of a property key within the given object type,
// falling back to the hex value for unknown keys.
func KeyName(objectType Type, key uint32) string {
	var names map[uint32]string

	switch objectType {
	case TypeObjectPropInfo:
		names = propInfoKeyNames
	case TypeObjectProps:
		names = propKeyNames
	case TypeObjectFormat:
		names = formatKeyNames
	case TypeObjectParamBuffers:
		names = paramBuffersKeyNames
	case TypeObjectParamMeta:
		names = paramMetaKeyNames
	case TypeObjectParamIO:
		names = paramIOKeyNames
	case TypeObjectParamProfile:
		names = paramProfileKeyNames
	case TypeObjectParamPortConfig:
		names = paramPortConfigKeyNames
	case TypeObjectParamRoute:
		names = paramRouteKeyNames
	case TypeObjectProfiler:
		names = profilerKeyNames
	case TypeObjectParamLatency:
		names = paramLatencyKeyNames
	case TypeObjectParamProcessLatency:
		names = paramProcessLatencyKeyNames
	}

	return keyName(key, names)
}

func keyName(key uint32, names map[uint32]string) string {
	if name, ok := names[key]; ok {
		return name
	}

	return fmt.Sprintf("0x%x", key)
}
