// Package spa holds the identifiers of the Simple Plugin API type system used by
// PipeWire: POD types, object types, param ids, media formats and the keys of
// the well-known param objects.
package spa

import (
	"fmt"
	"sort"
	"strings"
)

// Type identifies a POD type, an object type or one of the pointer, event and
// command ranges.
type Type uint32

const (
	TypeStart Type = 0x00000

	TypeNone      Type = 0x00001
	TypeBool      Type = 0x00002
	TypeID        Type = 0x00003
	TypeInt       Type = 0x00004
	TypeLong      Type = 0x00005
	TypeFloat     Type = 0x00006
	TypeDouble    Type = 0x00007
	TypeString    Type = 0x00008
	TypeBytes     Type = 0x00009
	TypeRectangle Type = 0x0000a
	TypeFraction  Type = 0x0000b
	TypeBitmap    Type = 0x0000c
	TypeArray     Type = 0x0000d
	TypeStruct    Type = 0x0000e
	TypeObject    Type = 0x0000f
	TypeSequence  Type = 0x00010
	TypePointer   Type = 0x00011
	TypeFd        Type = 0x00012
	TypeChoice    Type = 0x00013
	TypePod       Type = 0x00014

	TypePointerStart  Type = 0x10000
	TypePointerBuffer Type = 0x10001
	TypePointerMeta   Type = 0x10002
	TypePointerDict   Type = 0x10003

	TypeEventStart  Type = 0x20000
	TypeEventDevice Type = 0x20001
	TypeEventNode   Type = 0x20002

	TypeCommandStart  Type = 0x30000
	TypeCommandDevice Type = 0x30001
	TypeCommandNode   Type = 0x30002

	TypeObjectStart               Type = 0x40000
	TypeObjectPropInfo            Type = 0x40001
	TypeObjectProps               Type = 0x40002
	TypeObjectFormat              Type = 0x40003
	TypeObjectParamBuffers        Type = 0x40004
	TypeObjectParamMeta           Type = 0x40005
	TypeObjectParamIO             Type = 0x40006
	TypeObjectParamProfile        Type = 0x40007
	TypeObjectParamPortConfig     Type = 0x40008
	TypeObjectParamRoute          Type = 0x40009
	TypeObjectProfiler            Type = 0x4000a
	TypeObjectParamLatency        Type = 0x4000b
	TypeObjectParamProcessLatency Type = 0x4000c

	TypeVendorPipeWire Type = 0x02000000
	TypeVendorOther    Type = 0x7f000000
)

var typeNames = map[Type]string{
	TypeStart:                     `Spa:Start`,
	TypeNone:                      `Spa:None`,
	TypeBool:                      `Spa:Bool`,
	TypeID:                        `Spa:Id`,
	TypeInt:                       `Spa:Int`,
	TypeLong:                      `Spa:Long`,
	TypeFloat:                     `Spa:Float`,
	TypeDouble:                    `Spa:Double`,
	TypeString:                    `Spa:String`,
	TypeBytes:                     `Spa:Bytes`,
	TypeRectangle:                 `Spa:Rectangle`,
	TypeFraction:                  `Spa:Fraction`,
	TypeBitmap:                    `Spa:Bitmap`,
	TypeArray:                     `Spa:Array`,
	TypeStruct:                    `Spa:Pod:Struct`,
	TypeObject:                    `Spa:Pod:Object`,
	TypeSequence:                  `Spa:Pod:Sequence`,
	TypePointer:                   `Spa:Pointer`,
	TypeFd:                        `Spa:Fd`,
	TypeChoice:                    `Spa:Pod:Choice`,
	TypePod:                       `Spa:Pod`,
	TypePointerBuffer:             `Spa:Pointer:Buffer`,
	TypePointerMeta:               `Spa:Pointer:Meta`,
	TypePointerDict:               `Spa:Pointer:Dict`,
	TypeEventDevice:               `Spa:Pod:Object:Event:Device`,
	TypeEventNode:                 `Spa:Pod:Object:Event:Node`,
	TypeCommandDevice:             `Spa:Pod:Object:Command:Device`,
	TypeCommandNode:               `Spa:Pod:Object:Command:Node`,
	TypeObjectPropInfo:            `Spa:Pod:Object:Param:PropInfo`,
	TypeObjectProps:               `Spa:Pod:Object:Param:Props`,
	TypeObjectFormat:              `Spa:Pod:Object:Param:Format`,
	TypeObjectParamBuffers:        `Spa:Pod:Object:Param:Buffers`,
	TypeObjectParamMeta:           `Spa:Pod:Object:Param:Meta`,
	TypeObjectParamIO:             `Spa:Pod:Object:Param:IO`,
	TypeObjectParamProfile:        `Spa:Pod:Object:Param:Profile`,
	TypeObjectParamPortConfig:     `Spa:Pod:Object:Param:PortConfig`,
	TypeObjectParamRoute:          `Spa:Pod:Object:Param:Route`,
	TypeObjectProfiler:            `Spa:Pod:Object:Profiler`,
	TypeObjectParamLatency:        `Spa:Pod:Object:Param:Latency`,
	TypeObjectParamProcessLatency: `Spa:Pod:Object:Param:ProcessLatency`,
}

func (self Type) String() string {
	if name, ok := typeNames[self]; ok {
		return name
	}

	return fmt.Sprintf("Spa:Type:0x%x", uint32(self))
}

// Whether this type is one of the basic POD types (None through Pod).
func (self Type) IsBasic() bool {
	return self >= TypeNone && self <= TypePod
}

// Whether this type lies in the object range (params, events and commands).
func (self Type) IsObject() bool {
	return (self > TypeEventStart && self < TypeEventStart+0x10000) ||
		(self > TypeCommandStart && self < TypeCommandStart+0x10000) ||
		(self > TypeObjectStart && self < TypeObjectStart+0x10000)
}

// Direction of a port or stream.
type Direction uint32

const (
	DirectionInput  Direction = 0
	DirectionOutput Direction = 1
)

func (self Direction) String() string {
	switch self {
	case DirectionInput:
		return `input`
	case DirectionOutput:
		return `output`
	default:
		return fmt.Sprintf("direction(%d)", uint32(self))
	}
}

// Return the opposite direction.
func (self Direction) Reverse() Direction {
	if self == DirectionInput {
		return DirectionOutput
	}

	return DirectionInput
}

// ParseDirection accepts `in`, `input`, `out` and `output`.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case `in`, `input`:
		return DirectionInput, nil
	case `out`, `output`:
		return DirectionOutput, nil
	default:
		return 0, fmt.Errorf("invalid direction %q", s)
	}
}

// joinFlags renders the names of every set bit, lowest bit first.
func joinFlags(value uint32, names map[uint32]string) string {
	if value == 0 {
		return `none`
	}

	bits := make([]uint32, 0, len(names))

	for bit := range names {
		bits = append(bits, bit)
	}

	sort.Slice(bits, func(i, j int) bool {
		return bits[i] < bits[j]
	})

	parts := make([]string, 0)
	rest := value

	for _, bit := range bits {
		if value&bit == bit {
			parts = append(parts, names[bit])
			rest &^= bit
		}
	}

	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", rest))
	}

	return strings.Join(parts, `|`)
}

// lookupName finds the enum value whose name matches s, ignoring case.
func lookupName(s string, names map[uint32]string) (uint32, bool) {
	for value, name := range names {
		if strings.EqualFold(name, s) {
			return value, true
		}
	}

	return 0, false
}
