package pod

import (
	"github.com/auroralaboratories/pipewire/spa"
)

func fixed(v Value, want spa.Type) (Value, error) {
	if v == nil {
		return nil, errorf(WrongType, "nil value, expected %v", want)
	}

	v, err := Fixate(v)

	if err != nil {
		return nil, err
	}

	if v.Type() != want {
		return nil, errorf(WrongType, "expected %v, got %v", want, v.Type())
	}

	return v, nil
}

func AsBool(v Value) (bool, error) {
	v, err := fixed(v, spa.TypeBool)

	if err != nil {
		return false, err
	}

	return bool(v.(Bool)), nil
}

func AsID(v Value) (uint32, error) {
	v, err := fixed(v, spa.TypeID)

	if err != nil {
		return 0, err
	}

	return uint32(v.(ID)), nil
}

func AsInt(v Value) (int32, error) {
	v, err := fixed(v, spa.TypeInt)

	if err != nil {
		return 0, err
	}

	return int32(v.(Int)), nil
}

func AsLong(v Value) (int64, error) {
	v, err := fixed(v, spa.TypeLong)

	if err != nil {
		return 0, err
	}

	return int64(v.(Long)), nil
}

func AsFloat(v Value) (float32, error) {
	v, err := fixed(v, spa.TypeFloat)

	if err != nil {
		return 0, err
	}

	return float32(v.(Float)), nil
}

func AsDouble(v Value) (float64, error) {
	v, err := fixed(v, spa.TypeDouble)

	if err != nil {
		return 0, err
	}

	return float64(v.(Double)), nil
}

func AsString(v Value) (string, error) {
	v, err := fixed(v, spa.TypeString)

	if err != nil {
		return ``, err
	}

	return string(v.(String)), nil
}

func AsFraction(v Value) (Fraction, error) {
	v, err := fixed(v, spa.TypeFraction)

	if err != nil {
		return Fraction{}, err
	}

	return v.(Fraction), nil
}

func AsRectangle(v Value) (Rectangle, error) {
	v, err := fixed(v, spa.TypeRectangle)

	if err != nil {
		return Rectangle{}, err
	}

	return v.(Rectangle), nil
}

func AsObject(v Value) (Object, error) {
	v, err := fixed(v, spa.TypeObject)

	if err != nil {
		return Object{}, err
	}

	return v.(Object), nil
}

func AsStruct(v Value) (Struct, error) {
	v, err := fixed(v, spa.TypeStruct)

	if err != nil {
		return Struct{}, err
	}

	return v.(Struct), nil
}

func asArray(v Value, child spa.Type) (Array, error) {
	if v == nil {
		return Array{}, errorf(WrongType, "nil value, expected array")
	}

	arr, ok := v.(Array)

	if !ok {
		return Array{}, errorf(WrongType, "expected %v, got %v", spa.TypeArray, v.Type())
	}

	if arr.ChildType != child {
		return Array{}, errorf(WrongType, "expected array of %v, got array of %v", child, arr.ChildType)
	}

	return arr, nil
}

// an array whose declared child type does not match its values
func elementError(i int, el Value, want spa.Type) error {
	if el == nil {
		return errorf(WrongType, "array element %d is nil, expected %v", i, want)
	}

	return errorf(WrongType, "array element %d is %v, expected %v", i, el.Type(), want)
}

func AsFloatArray(v Value) ([]float32, error) {
	arr, err := asArray(v, spa.TypeFloat)

	if err != nil {
		return nil, err
	}

	out := make([]float32, len(arr.Values))

	for i, el := range arr.Values {
		val, ok := el.(Float)

		if !ok {
			return nil, elementError(i, el, spa.TypeFloat)
		}

		out[i] = float32(val)
	}

	return out, nil
}

func AsIDArray(v Value) ([]uint32, error) {
	arr, err := asArray(v, spa.TypeID)

	if err != nil {
		return nil, err
	}

	out := make([]uint32, len(arr.Values))

	for i, el := range arr.Values {
		val, ok := el.(ID)

		if !ok {
			return nil, elementError(i, el, spa.TypeID)
		}

		out[i] = uint32(val)
	}

	return out, nil
}

func AsIntArray(v Value) ([]int32, error) {
	arr, err := asArray(v, spa.TypeInt)

	if err != nil {
		return nil, err
	}

	out := make([]int32, len(arr.Values))

	for i, el := range arr.Values {
		val, ok := el.(Int)

		if !ok {
			return nil, elementError(i, el, spa.TypeInt)
		}

		out[i] = int32(val)
	}

	return out, nil
}

// Native converts a value into plain Go types (numbers, strings, slices and
// maps) suitable for JSON output. Object keys are named after the object type.
func Native(v Value) interface{} {
	switch val := v.(type) {
	case nil, None:
		return nil
	case Bool:
		return bool(val)
	case ID:
		return uint32(val)
	case Int:
		return int32(val)
	case Long:
		return int64(val)
	case Float:
		return float32(val)
	case Double:
		return float64(val)
	case String:
		return string(val)
	case Bytes:
		return []byte(val)
	case Bitmap:
		return []byte(val)
	case Fd:
		return int64(val)
	case Rectangle, Fraction, Pointer:
		return val
	case Array:
		out := make([]interface{}, len(val.Values))

		for i, el := range val.Values {
			out[i] = Native(el)
		}

		return out
	case Choice:
		out := make([]interface{}, len(val.Values))

		for i, el := range val.Values {
			out[i] = Native(el)
		}

		return map[string]interface{}{
			`choice`: val.ChoiceType.String(),
			`values`: out,
		}
	case Struct:
		out := make([]interface{}, len(val.Fields))

		for i, el := range val.Fields {
			out[i] = Native(el)
		}

		return out
	case Object:
		out := make(map[string]interface{})

		for _, prop := range val.Props {
			out[spa.KeyName(val.ObjectType, prop.Key)] = Native(prop.Value)
		}

		return out
	case Sequence:
		out := make([]interface{}, len(val.Controls))

		for i, control := range val.Controls {
			out[i] = map[string]interface{}{
				`offset`: control.Offset,
				`type`:   control.Type.String(),
				`value`:  Native(control.Value),
			}
		}

		return out
	case Raw:
		return val.Body
	default:
		return nil
	}
}
