package pod

import (
	"fmt"

	"github.com/auroralaboratories/pipewire/spa"
)

type propSetter func(Value) error

// objectOf casts v to an object of the wanted type.
func objectOf(v Value, want spa.Type) (Object, error) {
	obj, err := AsObject(v)

	if err != nil {
		return Object{}, err
	}

	if obj.ObjectType != want {
		return Object{}, errorf(UnexpectedObjectType, "expected %v, got %v", want, obj.ObjectType)
	}

	return obj, nil
}

// decodeProps dispatches each property of obj to its setter and returns the
// properties nobody claimed.
func decodeProps(obj Object, setters map[uint32]propSetter) ([]Prop, error) {
	var extra []Prop

	for _, prop := range obj.Props {
		if setter, ok := setters[prop.Key]; ok {
			if err := setter(prop.Value); err != nil {
				return nil, fmt.Errorf("%v.%s: %w", obj.ObjectType, spa.KeyName(obj.ObjectType, prop.Key), err)
			}
		} else {
			extra = append(extra, prop)
		}
	}

	return extra, nil
}

func setInt(dst *int32) propSetter {
	return func(v Value) (err error) {
		*dst, err = AsInt(v)
		return
	}
}

func setLong(dst *int64) propSetter {
	return func(v Value) (err error) {
		*dst, err = AsLong(v)
		return
	}
}

func setFloat(dst *float32) propSetter {
	return func(v Value) (err error) {
		*dst, err = AsFloat(v)
		return
	}
}

func setBool(dst *bool) propSetter {
	return func(v Value) (err error) {
		*dst, err = AsBool(v)
		return
	}
}

func setString(dst *string) propSetter {
	return func(v Value) (err error) {
		*dst, err = AsString(v)
		return
	}
}

func setID(dst *uint32) propSetter {
	return func(v Value) (err error) {
		*dst, err = AsID(v)
		return
	}
}

func setValue(dst *Value) propSetter {
	return func(v Value) error {
		*dst = v
		return nil
	}
}

func setStruct(dst **Struct) propSetter {
	return func(v Value) error {
		s, err := AsStruct(v)

		if err == nil {
			*dst = &s
		}

		return err
	}
}

func setFloatPtr(dst **float32) propSetter {
	return func(v Value) error {
		f, err := AsFloat(v)

		if err == nil {
			*dst = &f
		}

		return err
	}
}

func setBoolPtr(dst **bool) propSetter {
	return func(v Value) error {
		b, err := AsBool(v)

		if err == nil {
			*dst = &b
		}

		return err
	}
}

func setFloats(dst *[]float32) propSetter {
	return func(v Value) (err error) {
		*dst, err = AsFloatArray(v)
		return
	}
}

func setInts(dst *[]int32) propSetter {
	return func(v Value) (err error) {
		*dst, err = AsIntArray(v)
		return
	}
}

// Props is the Props param of nodes and devices: volumes, mute state and the
// device the node is opened on. Nil and empty fields are left out when
// encoding.
type Props struct {
	Device            string             `json:"device,omitempty"`
	DeviceName        string             `json:"device_name,omitempty"`
	Card              string             `json:"card,omitempty"`
	CardName          string             `json:"card_name,omitempty"`
	Volume            *float32           `json:"volume,omitempty"`
	Mute              *bool              `json:"mute,omitempty"`
	ChannelVolumes    []float32          `json:"channel_volumes,omitempty"`
	ChannelMap        []spa.AudioChannel `json:"channel_map,omitempty"`
	VolumeBase        *float32           `json:"volume_base,omitempty"`
	VolumeStep        *float32           `json:"volume_step,omitempty"`
	MonitorMute       *bool              `json:"monitor_mute,omitempty"`
	MonitorVolumes    []float32          `json:"monitor_volumes,omitempty"`
	SoftMute          *bool              `json:"soft_mute,omitempty"`
	SoftVolumes       []float32          `json:"soft_volumes,omitempty"`
	LatencyOffsetNsec *int64             `json:"latency_offset_nsec,omitempty"`
	Params            *Struct            `json:"params,omitempty"`
	Extra             []Prop             `json:"-"`
}

// PropsFromPod decodes a Props object.
func PropsFromPod(v Value) (Props, error) {
	var props Props

	obj, err := objectOf(v, spa.TypeObjectProps)

	if err != nil {
		return props, err
	}

	props.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.PropDevice):         setString(&props.Device),
		uint32(spa.PropDeviceName):     setString(&props.DeviceName),
		uint32(spa.PropCard):           setString(&props.Card),
		uint32(spa.PropCardName):       setString(&props.CardName),
		uint32(spa.PropVolume):         setFloatPtr(&props.Volume),
		uint32(spa.PropMute):           setBoolPtr(&props.Mute),
		uint32(spa.PropChannelVolumes): setFloats(&props.ChannelVolumes),
		uint32(spa.PropChannelMap): func(v Value) error {
			ids, err := AsIDArray(v)

			for _, id := range ids {
				props.ChannelMap = append(props.ChannelMap, spa.AudioChannel(id))
			}

			return err
		},
		uint32(spa.PropVolumeBase):     setFloatPtr(&props.VolumeBase),
		uint32(spa.PropVolumeStep):     setFloatPtr(&props.VolumeStep),
		uint32(spa.PropMonitorMute):    setBoolPtr(&props.MonitorMute),
		uint32(spa.PropMonitorVolumes): setFloats(&props.MonitorVolumes),
		uint32(spa.PropSoftMute):       setBoolPtr(&props.SoftMute),
		uint32(spa.PropSoftVolumes):    setFloats(&props.SoftVolumes),
		uint32(spa.PropLatencyOffsetNsec): func(v Value) error {
			n, err := AsLong(v)

			if err == nil {
				props.LatencyOffsetNsec = &n
			}

			return err
		},
		uint32(spa.PropParams): setStruct(&props.Params),
	})

	return props, err
}

// ToPod encodes the props as an object with the given param id (normally
// spa.ParamProps).
func (self Props) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectProps, uint32(paramType))

	addString := func(key spa.PropKey, s string) {
		if s != `` {
			obj.Props = append(obj.Props, P(uint32(key), String(s)))
		}
	}

	addFloat := func(key spa.PropKey, f *float32) {
		if f != nil {
			obj.Props = append(obj.Props, P(uint32(key), Float(*f)))
		}
	}

	addBool := func(key spa.PropKey, b *bool) {
		if b != nil {
			obj.Props = append(obj.Props, P(uint32(key), Bool(*b)))
		}
	}

	addFloats := func(key spa.PropKey, values []float32) {
		if values != nil {
			obj.Props = append(obj.Props, P(uint32(key), FloatArray(values)))
		}
	}

	addString(spa.PropDevice, self.Device)
	addString(spa.PropDeviceName, self.DeviceName)
	addString(spa.PropCard, self.Card)
	addString(spa.PropCardName, self.CardName)
	addFloat(spa.PropVolume, self.Volume)
	addBool(spa.PropMute, self.Mute)
	addFloats(spa.PropChannelVolumes, self.ChannelVolumes)

	if self.ChannelMap != nil {
		ids := make([]uint32, len(self.ChannelMap))

		for i, ch := range self.ChannelMap {
			ids[i] = uint32(ch)
		}

		obj.Props = append(obj.Props, P(uint32(spa.PropChannelMap), IDArray(ids)))
	}

	addFloat(spa.PropVolumeBase, self.VolumeBase)
	addFloat(spa.PropVolumeStep, self.VolumeStep)
	addBool(spa.PropMonitorMute, self.MonitorMute)
	addFloats(spa.PropMonitorVolumes, self.MonitorVolumes)
	addBool(spa.PropSoftMute, self.SoftMute)
	addFloats(spa.PropSoftVolumes, self.SoftVolumes)

	if self.LatencyOffsetNsec != nil {
		obj.Props = append(obj.Props, P(uint32(spa.PropLatencyOffsetNsec), Long(*self.LatencyOffsetNsec)))
	}

	if self.Params != nil {
		obj.Props = append(obj.Props, P(uint32(spa.PropParams), *self.Params))
	}

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

// Name returns the first of card name, card, device name and device that is
// set.
func (self Props) Name() string {
	for _, name := range []string{self.CardName, self.Card, self.DeviceName, self.Device} {
		if name != `` {
			return name
		}
	}

	return ``
}

// PropInfo describes one property a node or device exposes in its Props.
type PropInfo struct {
	ID          spa.PropKey `json:"id"`
	Name        string      `json:"name,omitempty"`
	Type        Value       `json:"type,omitempty"`
	Labels      *Struct     `json:"labels,omitempty"`
	Container   spa.Type    `json:"container,omitempty"`
	Params      bool        `json:"params,omitempty"`
	Description string      `json:"description,omitempty"`
	Extra       []Prop      `json:"-"`
}

// PropInfoFromPod decodes a PropInfo object.
func PropInfoFromPod(v Value) (PropInfo, error) {
	var info PropInfo
	var id, container uint32

	obj, err := objectOf(v, spa.TypeObjectPropInfo)

	if err != nil {
		return info, err
	}

	info.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.PropInfoID):          setID(&id),
		uint32(spa.PropInfoName):        setString(&info.Name),
		uint32(spa.PropInfoType):        setValue(&info.Type),
		uint32(spa.PropInfoLabels):      setStruct(&info.Labels),
		uint32(spa.PropInfoContainer):   setID(&container),
		uint32(spa.PropInfoParams):      setBool(&info.Params),
		uint32(spa.PropInfoDescription): setString(&info.Description),
	})

	info.ID = spa.PropKey(id)
	info.Container = spa.Type(container)

	return info, err
}

func (self PropInfo) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectPropInfo, uint32(paramType),
		P(uint32(spa.PropInfoID), ID(self.ID)),
	)

	if self.Name != `` {
		obj.Props = append(obj.Props, P(uint32(spa.PropInfoName), String(self.Name)))
	}

	if self.Description != `` {
		obj.Props = append(obj.Props, P(uint32(spa.PropInfoDescription), String(self.Description)))
	}

	if self.Type != nil {
		obj.Props = append(obj.Props, P(uint32(spa.PropInfoType), self.Type))
	}

	if self.Labels != nil {
		obj.Props = append(obj.Props, P(uint32(spa.PropInfoLabels), *self.Labels))
	}

	if self.Container != 0 {
		obj.Props = append(obj.Props, P(uint32(spa.PropInfoContainer), ID(self.Container)))
	}

	if self.Params {
		obj.Props = append(obj.Props, P(uint32(spa.PropInfoParams), Bool(true)))
	}

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}
