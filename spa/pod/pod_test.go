package pod

import (
	"encoding/binary"
	"testing"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/stretchr/testify/require"
)

func words(values ...uint32) []byte {
	out := make([]byte, 0, len(values)*4)

	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, v)
	}

	return out
}

func roundtrip(t *testing.T, v Value) Value {
	data, err := Marshal(v)
	require.NoError(t, err)
	require.Zero(t, len(data)%Alignment)

	out, n, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	return out
}

func TestMarshalPrimitives(t *testing.T) {
	assert := require.New(t)

	data, err := Marshal(Int(42))
	assert.NoError(err)
	assert.Equal(words(4, uint32(spa.TypeInt), 42, 0), data)

	data, err = Marshal(String(`hi`))
	assert.NoError(err)
	assert.Equal(append(words(3, uint32(spa.TypeString)), 'h', 'i', 0, 0, 0, 0, 0, 0), data)

	data, err = Marshal(Fraction{Num: 30, Denom: 1})
	assert.NoError(err)
	assert.Equal(words(8, uint32(spa.TypeFraction), 30, 1), data)

	data, err = Marshal(None{})
	assert.NoError(err)
	assert.Equal(words(0, uint32(spa.TypeNone)), data)

	for _, v := range []Value{
		Bool(true),
		ID(7),
		Int(-3),
		Long(-1 << 40),
		Float(0.25),
		Double(-1.5),
		String(`hello world`),
		Bytes{1, 2, 3},
		Rectangle{Width: 640, Height: 480},
		Fraction{Num: 48000, Denom: 1},
		Fd(3),
		Pointer{PointerType: spa.TypePointerBuffer, Ptr: 0xdeadbeef},
	} {
		assert.Equal(v, roundtrip(t, v), "%T", v)
	}
}

func TestMarshalContainers(t *testing.T) {
	assert := require.New(t)

	st := NewStruct(String(`a`), Int(7))
	data, err := Marshal(st)
	assert.NoError(err)
	assert.Len(data, 40)

	size, err := Size(data)
	assert.NoError(err)
	assert.Equal(40, size)
	assert.Equal(uint32(32), binary.LittleEndian.Uint32(data))

	assert.Equal(st, roundtrip(t, st))

	arr := FloatArray([]float32{0.5, 1})
	data, err = Marshal(arr)
	assert.NoError(err)
	assert.Equal(words(16, uint32(spa.TypeArray), 4, uint32(spa.TypeFloat), 0x3f000000, 0x3f800000), data)
	assert.Equal(arr, roundtrip(t, arr))

	choice := NewRange(Int(5), Int(1), Int(10))
	assert.Equal(choice, roundtrip(t, choice))

	obj := NewObject(spa.TypeObjectProps, uint32(spa.ParamProps),
		P(uint32(spa.PropVolume), Float(0.5)),
		Prop{Key: uint32(spa.PropMute), Flags: spa.PropFlagHardware, Value: Bool(true)},
		P(uint32(spa.PropParams), NewStruct(String(`key`), Int(1))),
	)

	assert.Equal(obj, roundtrip(t, obj))

	seq := Sequence{
		Unit: 0,
		Controls: []Control{
			{Offset: 0, Type: spa.ControlProperties, Value: obj},
			{Offset: 64, Type: spa.ControlMidi, Value: Bytes{0x90, 0x40, 0x7f}},
		},
	}

	assert.Equal(seq, roundtrip(t, seq))
}

func TestUnmarshalAll(t *testing.T) {
	assert := require.New(t)

	b := NewBuilder()
	b.Int(1).String(`two`).Long(3)

	data, err := b.Bytes()
	assert.NoError(err)

	values, err := UnmarshalAll(data)
	assert.NoError(err)
	assert.Equal([]Value{Int(1), String(`two`), Long(3)}, values)
}

func TestUnmarshalErrors(t *testing.T) {
	assert := require.New(t)

	_, _, err := Unmarshal([]byte{1, 2, 3})
	assert.True(IsKind(err, DataTooShort))

	_, _, err = Unmarshal(words(16, uint32(spa.TypeInt), 1))
	assert.True(IsKind(err, DataTooShort))

	_, _, err = Unmarshal(append(words(2, uint32(spa.TypeString)), 'h', 'i', 0, 0, 0, 0, 0, 0))
	assert.True(IsKind(err, StringNotTerminated))

	_, _, err = Unmarshal(words(12, uint32(spa.TypeArray), 8, uint32(spa.TypeInt), 1))
	assert.True(IsKind(err, WrongType))

	_, _, err = Unmarshal(words(12, uint32(spa.TypeArray), 4, uint32(spa.TypeString), 1))
	assert.True(IsKind(err, UnsupportedType))

	_, _, err = Unmarshal(words(14, uint32(spa.TypeArray), 4, uint32(spa.TypeInt), 1, 0xffff))
	assert.True(IsKind(err, NotAligned))

	// object whose property claims more than the body holds
	_, _, err = Unmarshal(words(24, uint32(spa.TypeObject), uint32(spa.TypeObjectProps), 2, 1, 0, 16, uint32(spa.TypeInt)))
	assert.True(IsKind(err, DataTooShort))

	value, _, err := Unmarshal(words(4, 0x999, 1, 0))
	assert.NoError(err)
	assert.Equal(Raw{PodType: 0x999, Body: words(1)}, value)
}

func TestBuilderState(t *testing.T) {
	assert := require.New(t)

	b := NewBuilder()
	b.PushObject(spa.TypeObjectProps, 0).Int(1)
	assert.True(IsKind(b.Err(), BuilderState))

	b = NewBuilder()
	b.Pop()
	assert.True(IsKind(b.Err(), BuilderState))

	b = NewBuilder()
	b.PushStruct().Int(1)
	_, err := b.Bytes()
	assert.True(IsKind(err, BuilderState))

	b = NewBuilder()
	b.PushObject(spa.TypeObjectProps, 0).Prop(1, 0).Prop(2, 0)
	assert.True(IsKind(b.Err(), BuilderState))

	b = NewBuilder()
	b.PushObject(spa.TypeObjectProps, 0).Prop(1, 0).Pop()
	assert.True(IsKind(b.Err(), BuilderState))

	b = NewBuilder()
	b.PushStruct().Prop(1, 0)
	assert.True(IsKind(b.Err(), BuilderState))

	b = NewBuilder()
	b.Array(spa.TypeInt, Int(1), Float(2))
	assert.True(IsKind(b.Err(), WrongType))

	b.Reset()
	assert.NoError(b.Err())

	b.PushObject(spa.TypeObjectProps, uint32(spa.ParamProps))
	b.Prop(uint32(spa.PropVolume), 0).Float(1)
	b.Pop()

	data, err := b.Bytes()
	assert.NoError(err)

	expected, err := Marshal(NewObject(spa.TypeObjectProps, uint32(spa.ParamProps), P(uint32(spa.PropVolume), Float(1))))
	assert.NoError(err)
	assert.Equal(expected, data)
}

func TestObjectAndStructAccess(t *testing.T) {
	assert := require.New(t)

	obj := NewObject(spa.TypeObjectProps, 0, P(uint32(spa.PropMute), Bool(false)))

	prop, err := obj.Find(uint32(spa.PropMute))
	assert.NoError(err)
	assert.Equal(Bool(false), prop.Value)

	_, err = obj.Find(uint32(spa.PropVolume))
	assert.True(IsKind(err, IndexOutOfRange))
	assert.False(obj.Has(uint32(spa.PropVolume)))

	obj.Set(uint32(spa.PropMute), 0, Bool(true))
	obj.Set(uint32(spa.PropVolume), 0, Float(0.1))
	assert.Len(obj.Props, 2)
	assert.Equal(Bool(true), obj.Props[0].Value)

	st := NewStruct(Int(1))
	assert.Equal(1, st.Len())

	_, err = st.Index(1)
	assert.True(IsKind(err, IndexOutOfRange))

	_, err = st.Index(-1)
	assert.True(IsKind(err, IndexOutOfRange))
}

func TestArrayAccessors(t *testing.T) {
	assert := require.New(t)

	floats, err := AsFloatArray(Array{ChildType: spa.TypeFloat, Values: []Value{Float(0.5), Float(1)}})
	assert.NoError(err)
	assert.Equal([]float32{0.5, 1}, floats)

	ids, err := AsIDArray(Array{ChildType: spa.TypeID, Values: []Value{ID(3)}})
	assert.NoError(err)
	assert.Equal([]uint32{3}, ids)

	// the declared child type lies about the values
	_, err = AsFloatArray(Array{ChildType: spa.TypeFloat, Values: []Value{Int(1)}})
	assert.True(IsKind(err, WrongType))

	_, err = AsIDArray(Array{ChildType: spa.TypeID, Values: []Value{ID(1), Float(2)}})
	assert.True(IsKind(err, WrongType))

	_, err = AsIntArray(Array{ChildType: spa.TypeInt, Values: []Value{nil}})
	assert.True(IsKind(err, WrongType))

	_, err = AsIntArray(Array{ChildType: spa.TypeID, Values: []Value{ID(1)}})
	assert.True(IsKind(err, WrongType))

	_, err = AsIntArray(Int(1))
	assert.True(IsKind(err, WrongType))
}
