package pod

import (
	"fmt"
	"strings"

	"github.com/auroralaboratories/pipewire/spa"
)

// Dump renders a value as an indented tree, naming object keys and well-known
// ids where possible.
func Dump(v Value) string {
	var sb strings.Builder
	dump(&sb, v, 0, spa.TypeNone, 0)
	return sb.String()
}

func dump(sb *strings.Builder, v Value, depth int, objectType spa.Type, key uint32) {
	indent := strings.Repeat(`  `, depth)

	switch val := v.(type) {
	case Object:
		fmt.Fprintf(sb, "%sObject: type %v, id %v\n", indent, val.ObjectType, objectID(val))

		for _, prop := range val.Props {
			flags := ``

			if prop.Flags != 0 {
				flags = fmt.Sprintf(" (%v)", prop.Flags)
			}

			fmt.Fprintf(sb, "%s  %s%s:\n", indent, spa.KeyName(val.ObjectType, prop.Key), flags)
			dump(sb, prop.Value, depth+2, val.ObjectType, prop.Key)
		}

	case Struct:
		fmt.Fprintf(sb, "%sStruct: %d fields\n", indent, len(val.Fields))

		for _, field := range val.Fields {
			dump(sb, field, depth+1, spa.TypeNone, 0)
		}

	case Sequence:
		fmt.Fprintf(sb, "%sSequence: unit %d\n", indent, val.Unit)

		for _, control := range val.Controls {
			fmt.Fprintf(sb, "%s  Control: offset %d, type %v\n", indent, control.Offset, control.Type)
			dump(sb, control.Value, depth+2, spa.TypeNone, 0)
		}

	case Choice:
		fmt.Fprintf(sb, "%sChoice: %v, %d values of %v\n", indent, val.ChoiceType, len(val.Values), val.ChildType)

		for _, el := range val.Values {
			dump(sb, el, depth+1, objectType, key)
		}

	case Array:
		fmt.Fprintf(sb, "%sArray: %d values of %v\n", indent, len(val.Values), val.ChildType)

		for _, el := range val.Values {
			dump(sb, el, depth+1, objectType, key)
		}

	case ID:
		fmt.Fprintf(sb, "%sId %d (%s)\n", indent, uint32(val), idName(objectType, key, uint32(val)))

	case String:
		fmt.Fprintf(sb, "%sString %q\n", indent, string(val))

	case Bytes:
		fmt.Fprintf(sb, "%sBytes %d bytes\n", indent, len(val))

	case Bitmap:
		fmt.Fprintf(sb, "%sBitmap %d bytes\n", indent, len(val))

	case Rectangle:
		fmt.Fprintf(sb, "%sRectangle %dx%d\n", indent, val.Width, val.Height)

	case Fraction:
		fmt.Fprintf(sb, "%sFraction %d/%d\n", indent, val.Num, val.Denom)

	case Pointer:
		fmt.Fprintf(sb, "%sPointer %v 0x%x\n", indent, val.PointerType, val.Ptr)

	case Raw:
		fmt.Fprintf(sb, "%s%v %d bytes\n", indent, val.PodType, len(val.Body))

	case nil:
		fmt.Fprintf(sb, "%sNone\n", indent)

	default:
		name := strings.TrimPrefix(v.Type().String(), `Spa:`)
		fmt.Fprintf(sb, "%s%s %v\n", indent, name, Native(v))
	}
}

func objectID(obj Object) string {
	switch {
	case obj.ObjectType == spa.TypeCommandNode:
		return spa.NodeCommand(obj.ID).String()
	case obj.ObjectType == spa.TypeEventNode:
		return spa.NodeEvent(obj.ID).String()
	case obj.ObjectType > spa.TypeObjectStart && obj.ObjectType < spa.TypeObjectStart+0x10000:
		return spa.ParamType(obj.ID).String()
	default:
		return fmt.Sprintf("%d", obj.ID)
	}
}

// idName names an Id value from the key it is stored under.
func idName(objectType spa.Type, key uint32, id uint32) string {
	switch objectType {
	case spa.TypeObjectFormat:
		switch spa.FormatKey(key) {
		case spa.FormatMediaType:
			return spa.MediaType(id).String()
		case spa.FormatMediaSubtype:
			return spa.MediaSubtype(id).String()
		case spa.FormatAudioFormat:
			return spa.AudioFormat(id).String()
		case spa.FormatAudioPosition:
			return spa.AudioChannel(id).String()
		case spa.FormatVideoFormat:
			return spa.VideoFormat(id).String()
		}
	case spa.TypeObjectProps:
		if spa.PropKey(key) == spa.PropChannelMap {
			return spa.AudioChannel(id).String()
		}
	case spa.TypeObjectParamMeta:
		if spa.ParamMetaKey(key) == spa.MetaKeyType {
			return spa.MetaType(id).String()
		}
	case spa.TypeObjectParamIO:
		if spa.ParamIOKey(key) == spa.IOKeyID {
			return spa.IOType(id).String()
		}
	case spa.TypeObjectParamRoute:
		switch spa.ParamRouteKey(key) {
		case spa.RouteDirection:
			return spa.Direction(id).String()
		case spa.RouteAvailable:
			return spa.Availability(id).String()
		}
	case spa.TypeObjectParamProfile:
		if spa.ParamProfileKey(key) == spa.ProfileAvailable {
			return spa.Availability(id).String()
		}
	case spa.TypeObjectParamPortConfig:
		switch spa.ParamPortConfigKey(key) {
		case spa.PortConfigKeyDirection:
			return spa.Direction(id).String()
		case spa.PortConfigKeyMode:
			return spa.PortConfigMode(id).String()
		}
	case spa.TypeObjectParamLatency:
		if spa.ParamLatencyKey(key) == spa.LatencyDirection {
			return spa.Direction(id).String()
		}
	case spa.TypeObjectPropInfo:
		if spa.PropInfoKey(key) == spa.PropInfoID {
			return spa.PropKey(id).String()
		}
	}

	return fmt.Sprintf("%d", id)
}
