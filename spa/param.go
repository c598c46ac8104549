package spa

import (
	"fmt"
)

// ParamType is the id of a param on a node, port or device.
type ParamType uint32

const (
	ParamInvalid        ParamType = 0
	ParamPropInfo       ParamType = 1
	ParamProps          ParamType = 2
	ParamEnumFormat     ParamType = 3
	ParamFormat         ParamType = 4
	ParamBuffers        ParamType = 5
	ParamMeta           ParamType = 6
	ParamIO             ParamType = 7
	ParamEnumProfile    ParamType = 8
	ParamProfile        ParamType = 9
	ParamEnumPortConfig ParamType = 10
	ParamPortConfig     ParamType = 11
	ParamEnumRoute      ParamType = 12
	ParamRoute          ParamType = 13
	ParamControl        ParamType = 14
	ParamLatency        ParamType = 15
	ParamProcessLatency ParamType = 16
)

var paramTypeNames = map[uint32]string{
	uint32(ParamInvalid):        `Invalid`,
	uint32(ParamPropInfo):       `PropInfo`,
	uint32(ParamProps):          `Props`,
	uint32(ParamEnumFormat):     `EnumFormat`,
	uint32(ParamFormat):         `Format`,
	uint32(ParamBuffers):        `Buffers`,
	uint32(ParamMeta):           `Meta`,
	uint32(ParamIO):             `IO`,
	uint32(ParamEnumProfile):    `EnumProfile`,
	uint32(ParamProfile):        `Profile`,
	uint32(ParamEnumPortConfig): `EnumPortConfig`,
	uint32(ParamPortConfig):     `PortConfig`,
	uint32(ParamEnumRoute):      `EnumRoute`,
	uint32(ParamRoute):          `Route`,
	uint32(ParamControl):        `Control`,
	uint32(ParamLatency):        `Latency`,
	uint32(ParamProcessLatency): `ProcessLatency`,
}

func (self ParamType) String() string {
	if name, ok := paramTypeNames[uint32(self)]; ok {
		return name
	}

	return fmt.Sprintf("Param:%d", uint32(self))
}

// ParseParamType converts a param name like `Props` or `EnumFormat` into its id.
func ParseParamType(s string) (ParamType, error) {
	if v, ok := lookupName(s, paramTypeNames); ok {
		return ParamType(v), nil
	}

	return ParamInvalid, fmt.Errorf("unknown param type %q", s)
}

// Return the object type that params of this id are encoded as.
func (self ParamType) ObjectType() Type {
	switch self {
	case ParamPropInfo:
		return TypeObjectPropInfo
	case ParamProps:
		return TypeObjectProps
	case ParamEnumFormat, ParamFormat:
		return TypeObjectFormat
	case ParamBuffers:
		return TypeObjectParamBuffers
	case ParamMeta:
		return TypeObjectParamMeta
	case ParamIO:
		return TypeObjectParamIO
	case ParamEnumProfile, ParamProfile:
		return TypeObjectParamProfile
	case ParamEnumPortConfig, ParamPortConfig:
		return TypeObjectParamPortConfig
	case ParamEnumRoute, ParamRoute:
		return TypeObjectParamRoute
	case ParamLatency:
		return TypeObjectParamLatency
	case ParamProcessLatency:
		return TypeObjectParamProcessLatency
	default:
		return TypeNone
	}
}

// ParamInfoFlags describe what a client may do with a param.
type ParamInfoFlags uint32

const (
	ParamInfoSerial ParamInfoFlags = 1 << 0
	ParamInfoRead   ParamInfoFlags = 1 << 1
	ParamInfoWrite  ParamInfoFlags = 1 << 2

	ParamInfoReadWrite = ParamInfoRead | ParamInfoWrite
)

var paramInfoFlagNames = map[uint32]string{
	uint32(ParamInfoSerial): `serial`,
	uint32(ParamInfoRead):   `read`,
	uint32(ParamInfoWrite):  `write`,
}

func (self ParamInfoFlags) Has(flag ParamInfoFlags) bool {
	return self&flag == flag
}

func (self ParamInfoFlags) String() string {
	return joinFlags(uint32(self), paramInfoFlagNames)
}

// PodPropFlags are set on the properties of an object pod.
type PodPropFlags uint32

const (
	PropFlagReadOnly   PodPropFlags = 1 << 0
	PropFlagHardware   PodPropFlags = 1 << 1
	PropFlagHintDict   PodPropFlags = 1 << 2
	PropFlagMandatory  PodPropFlags = 1 << 3
	PropFlagDontFixate PodPropFlags = 1 << 4
)

var podPropFlagNames = map[uint32]string{
	uint32(PropFlagReadOnly):   `readonly`,
	uint32(PropFlagHardware):   `hardware`,
	uint32(PropFlagHintDict):   `hint-dict`,
	uint32(PropFlagMandatory):  `mandatory`,
	uint32(PropFlagDontFixate): `dont-fixate`,
}

func (self PodPropFlags) Has(flag PodPropFlags) bool {
	return self&flag == flag
}

func (self PodPropFlags) String() string {
	return joinFlags(uint32(self), podPropFlagNames)
}

// ChoiceType selects how the values of a choice pod are interpreted.
type ChoiceType uint32

const (
	ChoiceNone  ChoiceType = 0
	ChoiceRange ChoiceType = 1
	ChoiceStep  ChoiceType = 2
	ChoiceEnum  ChoiceType = 3
	ChoiceFlags ChoiceType = 4
)

func (self ChoiceType) String() string {
	switch self {
	case ChoiceNone:
		return `none`
	case ChoiceRange:
		return `range`
	case ChoiceStep:
		return `step`
	case ChoiceEnum:
		return `enum`
	case ChoiceFlags:
		return `flags`
	default:
		return fmt.Sprintf("choice(%d)", uint32(self))
	}
}

// ChoiceFlagBits are the (currently unused) flags carried in a choice body.
type ChoiceFlagBits uint32

func (self ChoiceFlagBits) Has(flag ChoiceFlagBits) bool {
	return self&flag == flag
}

// Availability of a profile or route.
type Availability uint32

const (
	AvailabilityUnknown Availability = 0
	AvailabilityNo      Availability = 1
	AvailabilityYes     Availability = 2
)

func (self Availability) String() string {
	switch self {
	case AvailabilityNo:
		return `no`
	case AvailabilityYes:
		return `yes`
	default:
		return `unknown`
	}
}

// PortConfigMode is the mode of a PortConfig param.
type PortConfigMode uint32

const (
	PortConfigModeNone        PortConfigMode = 0
	PortConfigModePassthrough PortConfigMode = 1
	PortConfigModeConvert     PortConfigMode = 2
	PortConfigModeDSP         PortConfigMode = 3
)

func (self PortConfigMode) String() string {
	switch self {
	case PortConfigModeNone:
		return `none`
	case PortConfigModePassthrough:
		return `passthrough`
	case PortConfigModeConvert:
		return `convert`
	case PortConfigModeDSP:
		return `dsp`
	default:
		return fmt.Sprintf("mode(%d)", uint32(self))
	}
}
