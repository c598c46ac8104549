// Package pod encodes and decodes SPA POD (plain old data) values, the binary
// format PipeWire uses for params, formats, commands and events.
//
// Every pod starts with an 8 byte header holding the body size and the type,
// followed by the body. Pods inside containers are padded to 8 bytes. Values
// are stored in host byte order, which for every platform PipeWire supports
// here is little-endian.
package pod

import (
	"encoding/binary"

	"github.com/auroralaboratories/pipewire/spa"
)

const (
	HeaderSize = 8
	Alignment  = 8
)

var order = binary.LittleEndian

// A Value is any decoded pod.
type Value interface {
	Type() spa.Type
}

type None struct{}

type Bool bool

type ID uint32

type Int int32

type Long int64

type Float float32

type Double float64

type String string

type Bytes []byte

type Fd int64

type Bitmap []byte

type Rectangle struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

type Fraction struct {
	Num   uint32 `json:"num"`
	Denom uint32 `json:"denom"`
}

// An Array holds values of a single fixed-size type.
type Array struct {
	ChildType spa.Type `json:"child_type"`
	Values    []Value  `json:"values"`
}

// A Struct is an ordered list of pods of any type.
type Struct struct {
	Fields []Value `json:"fields"`
}

// An Object is a typed set of keyed properties. ID carries the param id for
// param objects and the command or event id otherwise.
type Object struct {
	ObjectType spa.Type `json:"type"`
	ID         uint32   `json:"id"`
	Props      []Prop   `json:"props"`
}

type Prop struct {
	Key   uint32           `json:"key"`
	Flags spa.PodPropFlags `json:"flags,omitempty"`
	Value Value            `json:"value"`
}

type Sequence struct {
	Unit     uint32    `json:"unit"`
	Controls []Control `json:"controls"`
}

type Control struct {
	Offset uint32          `json:"offset"`
	Type   spa.ControlType `json:"type"`
	Value  Value           `json:"value"`
}

type Pointer struct {
	PointerType spa.Type `json:"type"`
	Ptr         uint64   `json:"ptr"`
}

// A Choice describes a set of acceptable values. The first value is always
// the default.
type Choice struct {
	ChoiceType spa.ChoiceType `json:"choice"`
	Flags      uint32         `json:"flags,omitempty"`
	ChildType  spa.Type       `json:"child_type"`
	Values     []Value        `json:"values"`
}

// Raw keeps the body of a pod whose type this package does not interpret.
type Raw struct {
	PodType spa.Type `json:"type"`
	Body    []byte   `json:"body"`
}

func (None) Type() spa.Type      { return spa.TypeNone }
func (Bool) Type() spa.Type      { return spa.TypeBool }
func (ID) Type() spa.Type        { return spa.TypeID }
func (Int) Type() spa.Type       { return spa.TypeInt }
func (Long) Type() spa.Type      { return spa.TypeLong }
func (Float) Type() spa.Type     { return spa.TypeFloat }
func (Double) Type() spa.Type    { return spa.TypeDouble }
func (String) Type() spa.Type    { return spa.TypeString }
func (Bytes) Type() spa.Type     { return spa.TypeBytes }
func (Fd) Type() spa.Type        { return spa.TypeFd }
func (Bitmap) Type() spa.Type    { return spa.TypeBitmap }
func (Rectangle) Type() spa.Type { return spa.TypeRectangle }
func (Fraction) Type() spa.Type  { return spa.TypeFraction }
func (Array) Type() spa.Type     { return spa.TypeArray }
func (Struct) Type() spa.Type    { return spa.TypeStruct }
func (Object) Type() spa.Type    { return spa.TypeObject }
func (Sequence) Type() spa.Type  { return spa.TypeSequence }
func (Pointer) Type() spa.Type   { return spa.TypePointer }
func (Choice) Type() spa.Type    { return spa.TypeChoice }
func (self Raw) Type() spa.Type  { return self.PodType }

// Find returns the first property with the given key.
func (self Object) Find(key uint32) (Prop, error) {
	for _, prop := range self.Props {
		if prop.Key == key {
			return prop, nil
		}
	}

	return Prop{}, errorf(IndexOutOfRange, "object %v has no property 0x%x", self.ObjectType, key)
}

// Has reports whether a property with the given key is present.
func (self Object) Has(key uint32) bool {
	_, err := self.Find(key)
	return err == nil
}

// Set replaces the value of an existing property or appends a new one.
func (self *Object) Set(key uint32, flags spa.PodPropFlags, value Value) {
	for i, prop := range self.Props {
		if prop.Key == key {
			self.Props[i] = Prop{Key: key, Flags: flags, Value: value}
			return
		}
	}

	self.Props = append(self.Props, Prop{Key: key, Flags: flags, Value: value})
}

// Index returns the i-th field of the struct.
func (self Struct) Index(i int) (Value, error) {
	if i < 0 || i >= len(self.Fields) {
		return nil, errorf(IndexOutOfRange, "struct field %d out of range (%d fields)", i, len(self.Fields))
	}

	return self.Fields[i], nil
}

// Len is the number of fields.
func (self Struct) Len() int {
	return len(self.Fields)
}

// NewObject builds an object of the given type and id from props.
func NewObject(objectType spa.Type, id uint32, props ...Prop) Object {
	return Object{
		ObjectType: objectType,
		ID:         id,
		Props:      props,
	}
}

// P is shorthand for a property without flags.
func P(key uint32, value Value) Prop {
	return Prop{Key: key, Value: value}
}

// NewStruct builds a struct from the given fields.
func NewStruct(fields ...Value) Struct {
	return Struct{Fields: fields}
}

// NewArray builds an array of values which must all share a fixed-size type.
func NewArray(childType spa.Type, values ...Value) Array {
	return Array{ChildType: childType, Values: values}
}

// FloatArray converts a float slice into an array of Float.
func FloatArray(values []float32) Array {
	arr := Array{ChildType: spa.TypeFloat, Values: make([]Value, len(values))}

	for i, v := range values {
		arr.Values[i] = Float(v)
	}

	return arr
}

// IDArray converts a slice of ids into an array of ID.
func IDArray(values []uint32) Array {
	arr := Array{ChildType: spa.TypeID, Values: make([]Value, len(values))}

	for i, v := range values {
		arr.Values[i] = ID(v)
	}

	return arr
}

func padded(size int) int {
	return (size + Alignment - 1) &^ (Alignment - 1)
}

// fixedSize returns the body size of the types that may appear as array or
// choice children.
func fixedSize(t spa.Type) (int, bool) {
	switch t {
	case spa.TypeNone:
		return 0, true
	case spa.TypeBool, spa.TypeID, spa.TypeInt, spa.TypeFloat:
		return 4, true
	case spa.TypeLong, spa.TypeDouble, spa.TypeFd, spa.TypeRectangle, spa.TypeFraction:
		return 8, true
	default:
		return 0, false
	}
}
