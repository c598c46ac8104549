package pod

import (
	"bytes"
	"math"

	"github.com/auroralaboratories/pipewire/spa"
)

// Unmarshal decodes the pod at the start of data. It returns the value and
// the number of bytes consumed, including trailing padding when present.
func Unmarshal(data []byte) (Value, int, error) {
	if len(data) < HeaderSize {
		return nil, 0, errorf(DataTooShort, "need %d header bytes, have %d", HeaderSize, len(data))
	}

	size := int(order.Uint32(data[0:4]))
	podType := spa.Type(order.Uint32(data[4:8]))

	if len(data)-HeaderSize < size {
		return nil, 0, errorf(DataTooShort, "%v body is %d bytes, only %d available", podType, size, len(data)-HeaderSize)
	}

	value, err := decodeBody(podType, data[HeaderSize:HeaderSize+size])

	if err != nil {
		return nil, 0, err
	}

	consumed := HeaderSize + padded(size)

	if consumed > len(data) {
		consumed = len(data)
	}

	return value, consumed, nil
}

// UnmarshalAll decodes consecutive pods until data is exhausted.
func UnmarshalAll(data []byte) ([]Value, error) {
	values := make([]Value, 0)

	for len(data) > 0 {
		value, n, err := Unmarshal(data)

		if err != nil {
			return nil, err
		}

		values = append(values, value)
		data = data[n:]
	}

	return values, nil
}

// Size returns the total size (header plus body, without padding) of the pod
// at the start of data.
func Size(data []byte) (int, error) {
	if len(data) < HeaderSize {
		return 0, errorf(DataTooShort, "need %d header bytes, have %d", HeaderSize, len(data))
	}

	return HeaderSize + int(order.Uint32(data[0:4])), nil
}

func decodeBody(t spa.Type, body []byte) (Value, error) {
	switch t {
	case spa.TypeNone:
		return None{}, nil

	case spa.TypeBool, spa.TypeID, spa.TypeInt, spa.TypeFloat,
		spa.TypeLong, spa.TypeDouble, spa.TypeFd, spa.TypeRectangle, spa.TypeFraction:
		size, _ := fixedSize(t)

		if len(body) < size {
			return nil, errorf(DataTooShort, "%v needs %d bytes, have %d", t, size, len(body))
		}

		return decodeFixed(t, body[:size]), nil

	case spa.TypeString:
		if len(body) == 0 || body[len(body)-1] != 0 {
			return nil, errorf(StringNotTerminated, "%d byte string body", len(body))
		}

		if i := bytes.IndexByte(body, 0); i >= 0 {
			return String(body[:i]), nil
		}

		return String(body[:len(body)-1]), nil

	case spa.TypeBytes:
		return Bytes(append([]byte(nil), body...)), nil

	case spa.TypeBitmap:
		return Bitmap(append([]byte(nil), body...)), nil

	case spa.TypePointer:
		if len(body) < 16 {
			return nil, errorf(DataTooShort, "pointer needs 16 bytes, have %d", len(body))
		}

		return Pointer{
			PointerType: spa.Type(order.Uint32(body[0:4])),
			Ptr:         order.Uint64(body[8:16]),
		}, nil

	case spa.TypeArray:
		childType, values, err := unpackChildren(body)

		if err != nil {
			return nil, err
		}

		return Array{ChildType: childType, Values: values}, nil

	case spa.TypeChoice:
		if len(body) < 8 {
			return nil, errorf(DataTooShort, "choice needs 8 bytes of header, have %d", len(body))
		}

		childType, values, err := unpackChildren(body[8:])

		if err != nil {
			return nil, err
		}

		return Choice{
			ChoiceType: spa.ChoiceType(order.Uint32(body[0:4])),
			Flags:      order.Uint32(body[4:8]),
			ChildType:  childType,
			Values:     values,
		}, nil

	case spa.TypeStruct:
		fields, err := UnmarshalAll(body)

		if err != nil {
			return nil, err
		}

		return Struct{Fields: fields}, nil

	case spa.TypeObject:
		return decodeObject(body)

	case spa.TypeSequence:
		return decodeSequence(body)

	default:
		return Raw{PodType: t, Body: append([]byte(nil), body...)}, nil
	}
}

func decodeFixed(t spa.Type, b []byte) Value {
	switch t {
	case spa.TypeBool:
		return Bool(order.Uint32(b) != 0)
	case spa.TypeID:
		return ID(order.Uint32(b))
	case spa.TypeInt:
		return Int(int32(order.Uint32(b)))
	case spa.TypeFloat:
		return Float(math.Float32frombits(order.Uint32(b)))
	case spa.TypeLong:
		return Long(int64(order.Uint64(b)))
	case spa.TypeDouble:
		return Double(math.Float64frombits(order.Uint64(b)))
	case spa.TypeFd:
		return Fd(int64(order.Uint64(b)))
	case spa.TypeRectangle:
		return Rectangle{Width: order.Uint32(b[0:4]), Height: order.Uint32(b[4:8])}
	case spa.TypeFraction:
		return Fraction{Num: order.Uint32(b[0:4]), Denom: order.Uint32(b[4:8])}
	default:
		return None{}
	}
}

func unpackChildren(body []byte) (spa.Type, []Value, error) {
	if len(body) < HeaderSize {
		return spa.TypeNone, nil, errorf(DataTooShort, "missing child header")
	}

	childSize := int(order.Uint32(body[0:4]))
	childType := spa.Type(order.Uint32(body[4:8]))
	rest := body[HeaderSize:]

	expected, ok := fixedSize(childType)

	if !ok {
		return childType, nil, errorf(UnsupportedType, "%v children are not supported", childType)
	}

	if childSize != expected {
		return childType, nil, errorf(WrongType, "%v child size %d, expected %d", childType, childSize, expected)
	}

	values := make([]Value, 0)

	if childSize == 0 {
		return childType, values, nil
	}

	if len(rest)%childSize != 0 {
		return childType, nil, errorf(NotAligned, "%d bytes is not a multiple of child size %d", len(rest), childSize)
	}

	for off := 0; off < len(rest); off += childSize {
		values = append(values, decodeFixed(childType, rest[off:off+childSize]))
	}

	return childType, values, nil
}

func decodeObject(body []byte) (Value, error) {
	if len(body) < 8 {
		return nil, errorf(DataTooShort, "object needs 8 bytes of header, have %d", len(body))
	}

	obj := Object{
		ObjectType: spa.Type(order.Uint32(body[0:4])),
		ID:         order.Uint32(body[4:8]),
		Props:      make([]Prop, 0),
	}

	rest := body[8:]

	for len(rest) > 0 {
		if len(rest) < 8+HeaderSize {
			return nil, errorf(DataTooShort, "truncated property in %v", obj.ObjectType)
		}

		key := order.Uint32(rest[0:4])
		flags := spa.PodPropFlags(order.Uint32(rest[4:8]))
		value, n, err := Unmarshal(rest[8:])

		if err != nil {
			return nil, err
		}

		obj.Props = append(obj.Props, Prop{
			Key:   key,
			Flags: flags,
			Value: value,
		})

		rest = rest[8+n:]
	}

	return obj, nil
}

func decodeSequence(body []byte) (Value, error) {
	if len(body) < 8 {
		return nil, errorf(DataTooShort, "sequence needs 8 bytes of header, have %d", len(body))
	}

	seq := Sequence{
		Unit:     order.Uint32(body[0:4]),
		Controls: make([]Control, 0),
	}

	rest := body[8:]

	for len(rest) > 0 {
		if len(rest) < 8+HeaderSize {
			return nil, errorf(DataTooShort, "truncated control in sequence")
		}

		offset := order.Uint32(rest[0:4])
		controlType := spa.ControlType(order.Uint32(rest[4:8]))
		value, n, err := Unmarshal(rest[8:])

		if err != nil {
			return nil, err
		}

		seq.Controls = append(seq.Controls, Control{
			Offset: offset,
			Type:   controlType,
			Value:  value,
		})

		rest = rest[8+n:]
	}

	return seq, nil
}
