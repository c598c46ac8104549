package pod

import (
	"math"

	"github.com/auroralaboratories/pipewire/spa"
)

type frame struct {
	offset      int
	podType     spa.Type
	expectValue bool
}

// A Builder appends pods to a growing buffer. Containers are opened with one
// of the Push methods and closed with Pop; the sizes in their headers are
// patched when they are closed. The first error encountered is sticky and
// reported by Err and Bytes.
type Builder struct {
	buf    []byte
	frames []frame
	err    error
}

func NewBuilder() *Builder {
	return &Builder{
		buf: make([]byte, 0, 256),
	}
}

// Err returns the first error recorded while building.
func (self *Builder) Err() error {
	return self.err
}

// Bytes returns the encoded pods. It fails if a container is still open.
func (self *Builder) Bytes() ([]byte, error) {
	if self.err != nil {
		return nil, self.err
	}

	if len(self.frames) > 0 {
		return nil, errorf(BuilderState, "%d container(s) still open", len(self.frames))
	}

	return self.buf, nil
}

// Reset discards everything written so far.
func (self *Builder) Reset() {
	self.buf = self.buf[:0]
	self.frames = nil
	self.err = nil
}

func (self *Builder) fail(err error) {
	if self.err == nil {
		self.err = err
	}
}

func (self *Builder) u32(v uint32) {
	self.buf = order.AppendUint32(self.buf, v)
}

func (self *Builder) pad() {
	for len(self.buf)%Alignment != 0 {
		self.buf = append(self.buf, 0)
	}
}

// objects and sequences alternate between a key (Prop/Control) and a value
func (self *Builder) beginValue() bool {
	if self.err != nil {
		return false
	}

	if n := len(self.frames); n > 0 {
		top := &self.frames[n-1]

		switch top.podType {
		case spa.TypeObject, spa.TypeSequence:
			if !top.expectValue {
				self.fail(errorf(BuilderState, "%v values must be preceded by a key", top.podType))
				return false
			}

			top.expectValue = false
		}
	}

	return true
}

func (self *Builder) primitive(t spa.Type, body []byte) *Builder {
	if !self.beginValue() {
		return self
	}

	self.u32(uint32(len(body)))
	self.u32(uint32(t))
	self.buf = append(self.buf, body...)
	self.pad()

	return self
}

func (self *Builder) None() *Builder {
	return self.primitive(spa.TypeNone, nil)
}

func (self *Builder) Bool(v bool) *Builder {
	var i uint32

	if v {
		i = 1
	}

	return self.primitive(spa.TypeBool, order.AppendUint32(nil, i))
}

func (self *Builder) ID(v uint32) *Builder {
	return self.primitive(spa.TypeID, order.AppendUint32(nil, v))
}

func (self *Builder) Int(v int32) *Builder {
	return self.primitive(spa.TypeInt, order.AppendUint32(nil, uint32(v)))
}

func (self *Builder) Long(v int64) *Builder {
	return self.primitive(spa.TypeLong, order.AppendUint64(nil, uint64(v)))
}

func (self *Builder) Float(v float32) *Builder {
	return self.primitive(spa.TypeFloat, order.AppendUint32(nil, math.Float32bits(v)))
}

func (self *Builder) Double(v float64) *Builder {
	return self.primitive(spa.TypeDouble, order.AppendUint64(nil, math.Float64bits(v)))
}

func (self *Builder) String(v string) *Builder {
	body := make([]byte, len(v)+1)
	copy(body, v)

	return self.primitive(spa.TypeString, body)
}

func (self *Builder) BytesValue(v []byte) *Builder {
	return self.primitive(spa.TypeBytes, v)
}

func (self *Builder) Bitmap(v []byte) *Builder {
	return self.primitive(spa.TypeBitmap, v)
}

func (self *Builder) Rectangle(width, height uint32) *Builder {
	body := order.AppendUint32(nil, width)
	return self.primitive(spa.TypeRectangle, order.AppendUint32(body, height))
}

func (self *Builder) Fraction(num, denom uint32) *Builder {
	body := order.AppendUint32(nil, num)
	return self.primitive(spa.TypeFraction, order.AppendUint32(body, denom))
}

func (self *Builder) Fd(v int64) *Builder {
	return self.primitive(spa.TypeFd, order.AppendUint64(nil, uint64(v)))
}

func (self *Builder) Pointer(pointerType spa.Type, ptr uint64) *Builder {
	body := order.AppendUint32(nil, uint32(pointerType))
	body = order.AppendUint32(body, 0)

	return self.primitive(spa.TypePointer, order.AppendUint64(body, ptr))
}

// Array writes an array whose children all have the given fixed-size type.
func (self *Builder) Array(childType spa.Type, values ...Value) *Builder {
	body, err := packChildren(childType, values)

	if err != nil {
		self.fail(err)
		return self
	}

	return self.primitive(spa.TypeArray, body)
}

// Choice writes a choice pod. The first value is the default.
func (self *Builder) Choice(choiceType spa.ChoiceType, flags uint32, childType spa.Type, values ...Value) *Builder {
	children, err := packChildren(childType, values)

	if err != nil {
		self.fail(err)
		return self
	}

	body := order.AppendUint32(nil, uint32(choiceType))
	body = order.AppendUint32(body, flags)

	return self.primitive(spa.TypeChoice, append(body, children...))
}

func (self *Builder) push(t spa.Type, head []byte) *Builder {
	if !self.beginValue() {
		return self
	}

	self.frames = append(self.frames, frame{
		offset:  len(self.buf),
		podType: t,
	})

	self.u32(0)
	self.u32(uint32(t))
	self.buf = append(self.buf, head...)

	return self
}

// PushStruct opens a struct; every following value is a field until Pop.
func (self *Builder) PushStruct() *Builder {
	return self.push(spa.TypeStruct, nil)
}

// PushObject opens an object. Each property is written as a Prop call
// followed by exactly one value.
func (self *Builder) PushObject(objectType spa.Type, id uint32) *Builder {
	head := order.AppendUint32(nil, uint32(objectType))
	return self.push(spa.TypeObject, order.AppendUint32(head, id))
}

// PushSequence opens a sequence. Each control is written as a Control call
// followed by exactly one value.
func (self *Builder) PushSequence(unit uint32) *Builder {
	head := order.AppendUint32(nil, unit)
	return self.push(spa.TypeSequence, order.AppendUint32(head, 0))
}

// Prop starts an object property.
func (self *Builder) Prop(key uint32, flags spa.PodPropFlags) *Builder {
	if self.err != nil {
		return self
	}

	n := len(self.frames)

	if n == 0 || self.frames[n-1].podType != spa.TypeObject {
		self.fail(errorf(BuilderState, "Prop() outside of an object"))
		return self
	}

	if self.frames[n-1].expectValue {
		self.fail(errorf(BuilderState, "Prop() called twice without a value"))
		return self
	}

	self.frames[n-1].expectValue = true
	self.u32(key)
	self.u32(uint32(flags))

	return self
}

// Control starts a sequence control.
func (self *Builder) Control(offset uint32, controlType spa.ControlType) *Builder {
	if self.err != nil {
		return self
	}

	n := len(self.frames)

	if n == 0 || self.frames[n-1].podType != spa.TypeSequence {
		self.fail(errorf(BuilderState, "Control() outside of a sequence"))
		return self
	}

	if self.frames[n-1].expectValue {
		self.fail(errorf(BuilderState, "Control() called twice without a value"))
		return self
	}

	self.frames[n-1].expectValue = true
	self.u32(offset)
	self.u32(uint32(controlType))

	return self
}

// Pop closes the innermost open container.
func (self *Builder) Pop() *Builder {
	if self.err != nil {
		return self
	}

	n := len(self.frames)

	if n == 0 {
		self.fail(errorf(BuilderState, "Pop() without an open container"))
		return self
	}

	top := self.frames[n-1]

	if top.expectValue {
		self.fail(errorf(BuilderState, "%v closed with a key but no value", top.podType))
		return self
	}

	self.frames = self.frames[:n-1]

	size := len(self.buf) - top.offset - HeaderSize
	order.PutUint32(self.buf[top.offset:], uint32(size))
	self.pad()

	return self
}

// Value writes any decoded value, recursing into containers.
func (self *Builder) Value(v Value) *Builder {
	switch val := v.(type) {
	case nil, None:
		return self.None()
	case Bool:
		return self.Bool(bool(val))
	case ID:
		return self.ID(uint32(val))
	case Int:
		return self.Int(int32(val))
	case Long:
		return self.Long(int64(val))
	case Float:
		return self.Float(float32(val))
	case Double:
		return self.Double(float64(val))
	case String:
		return self.String(string(val))
	case Bytes:
		return self.BytesValue(val)
	case Bitmap:
		return self.Bitmap(val)
	case Rectangle:
		return self.Rectangle(val.Width, val.Height)
	case Fraction:
		return self.Fraction(val.Num, val.Denom)
	case Fd:
		return self.Fd(int64(val))
	case Pointer:
		return self.Pointer(val.PointerType, val.Ptr)
	case Array:
		return self.Array(val.ChildType, val.Values...)
	case Choice:
		return self.Choice(val.ChoiceType, val.Flags, val.ChildType, val.Values...)
	case Struct:
		self.PushStruct()

		for _, field := range val.Fields {
			self.Value(field)
		}

		return self.Pop()
	case Object:
		self.PushObject(val.ObjectType, val.ID)

		for _, prop := range val.Props {
			self.Prop(prop.Key, prop.Flags)
			self.Value(prop.Value)
		}

		return self.Pop()
	case Sequence:
		self.PushSequence(val.Unit)

		for _, control := range val.Controls {
			self.Control(control.Offset, control.Type)
			self.Value(control.Value)
		}

		return self.Pop()
	case Raw:
		return self.primitive(val.PodType, val.Body)
	default:
		self.fail(errorf(UnsupportedType, "cannot encode %T", v))
		return self
	}
}

// Marshal encodes a single value.
func Marshal(v Value) ([]byte, error) {
	return NewBuilder().Value(v).Bytes()
}

// packChildren encodes the child header and bodies of an array or choice.
func packChildren(childType spa.Type, values []Value) ([]byte, error) {
	size, ok := fixedSize(childType)

	if !ok {
		return nil, errorf(UnsupportedType, "%v cannot be an array or choice child", childType)
	}

	body := order.AppendUint32(nil, uint32(size))
	body = order.AppendUint32(body, uint32(childType))

	for i, v := range values {
		if v == nil || v.Type() != childType {
			return nil, errorf(WrongType, "child %d is %T, expected %v", i, v, childType)
		}

		body = appendFixed(body, v)
	}

	return body, nil
}

func appendFixed(body []byte, v Value) []byte {
	switch val := v.(type) {
	case Bool:
		if val {
			return order.AppendUint32(body, 1)
		}

		return order.AppendUint32(body, 0)
	case ID:
		return order.AppendUint32(body, uint32(val))
	case Int:
		return order.AppendUint32(body, uint32(val))
	case Float:
		return order.AppendUint32(body, math.Float32bits(float32(val)))
	case Long:
		return order.AppendUint64(body, uint64(val))
	case Double:
		return order.AppendUint64(body, math.Float64bits(float64(val)))
	case Fd:
		return order.AppendUint64(body, uint64(val))
	case Rectangle:
		body = order.AppendUint32(body, val.Width)
		return order.AppendUint32(body, val.Height)
	case Fraction:
		body = order.AppendUint32(body, val.Num)
		return order.AppendUint32(body, val.Denom)
	default:
		return body
	}
}
