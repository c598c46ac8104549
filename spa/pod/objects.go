package pod

import (
	"github.com/auroralaboratories/pipewire/spa"
)

// add appends a property unless value is nil.
func add(obj *Object, key uint32, value Value) {
	if value != nil {
		obj.Props = append(obj.Props, P(key, value))
	}
}

func optString(s string) Value {
	if s == `` {
		return nil
	}

	return String(s)
}

func optStruct(s *Struct) Value {
	if s == nil {
		return nil
	}

	return *s
}

func intArray(values []int32) Value {
	if values == nil {
		return nil
	}

	arr := Array{ChildType: spa.TypeInt, Values: make([]Value, len(values))}

	for i, v := range values {
		arr.Values[i] = Int(v)
	}

	return arr
}

// ParamBuffers is the Buffers param a port uses to negotiate buffer layout.
// Every field may be a fixed Int or a choice.
type ParamBuffers struct {
	Buffers  Value  `json:"buffers,omitempty"`
	Blocks   Value  `json:"blocks,omitempty"`
	Size     Value  `json:"size,omitempty"`
	Stride   Value  `json:"stride,omitempty"`
	Align    Value  `json:"align,omitempty"`
	DataType Value  `json:"data_type,omitempty"`
	Extra    []Prop `json:"-"`
}

func (self ParamBuffers) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectParamBuffers, uint32(paramType))

	add(&obj, uint32(spa.BuffersBuffers), self.Buffers)
	add(&obj, uint32(spa.BuffersBlocks), self.Blocks)
	add(&obj, uint32(spa.BuffersSize), self.Size)
	add(&obj, uint32(spa.BuffersStride), self.Stride)
	add(&obj, uint32(spa.BuffersAlign), self.Align)
	add(&obj, uint32(spa.BuffersDataType), self.DataType)

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

func ParamBuffersFromPod(v Value) (ParamBuffers, error) {
	var buffers ParamBuffers

	obj, err := objectOf(v, spa.TypeObjectParamBuffers)

	if err != nil {
		return buffers, err
	}

	buffers.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.BuffersBuffers):  setValue(&buffers.Buffers),
		uint32(spa.BuffersBlocks):   setValue(&buffers.Blocks),
		uint32(spa.BuffersSize):     setValue(&buffers.Size),
		uint32(spa.BuffersStride):   setValue(&buffers.Stride),
		uint32(spa.BuffersAlign):    setValue(&buffers.Align),
		uint32(spa.BuffersDataType): setValue(&buffers.DataType),
	})

	return buffers, err
}

// ParamMeta requests a metadata area on buffers.
type ParamMeta struct {
	Type  spa.MetaType `json:"type"`
	Size  Value        `json:"size,omitempty"`
	Extra []Prop       `json:"-"`
}

func (self ParamMeta) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectParamMeta, uint32(paramType),
		P(uint32(spa.MetaKeyType), ID(self.Type)),
	)

	add(&obj, uint32(spa.MetaKeySize), self.Size)
	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

func ParamMetaFromPod(v Value) (ParamMeta, error) {
	var meta ParamMeta
	var metaType uint32

	obj, err := objectOf(v, spa.TypeObjectParamMeta)

	if err != nil {
		return meta, err
	}

	meta.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.MetaKeyType): setID(&metaType),
		uint32(spa.MetaKeySize): setValue(&meta.Size),
	})

	meta.Type = spa.MetaType(metaType)

	return meta, err
}

// ParamIO describes an io area a node or port can use.
type ParamIO struct {
	ID    spa.IOType `json:"id"`
	Size  int32      `json:"size"`
	Extra []Prop     `json:"-"`
}

func (self ParamIO) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectParamIO, uint32(paramType),
		P(uint32(spa.IOKeyID), ID(self.ID)),
		P(uint32(spa.IOKeySize), Int(self.Size)),
	)

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

func ParamIOFromPod(v Value) (ParamIO, error) {
	var io ParamIO
	var id uint32

	obj, err := objectOf(v, spa.TypeObjectParamIO)

	if err != nil {
		return io, err
	}

	io.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.IOKeyID):   setID(&id),
		uint32(spa.IOKeySize): setInt(&io.Size),
	})

	io.ID = spa.IOType(id)

	return io, err
}

// ParamLatency reports the latency range of the graph upstream (Input) or
// downstream (Output) of a port.
type ParamLatency struct {
	Direction  spa.Direction `json:"direction"`
	MinQuantum float32       `json:"min_quantum"`
	MaxQuantum float32       `json:"max_quantum"`
	MinRate    int32         `json:"min_rate"`
	MaxRate    int32         `json:"max_rate"`
	MinNs      int64         `json:"min_ns"`
	MaxNs      int64         `json:"max_ns"`
	Extra      []Prop        `json:"-"`
}

func (self ParamLatency) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectParamLatency, uint32(paramType),
		P(uint32(spa.LatencyDirection), ID(self.Direction)),
		P(uint32(spa.LatencyMinQuantum), Float(self.MinQuantum)),
		P(uint32(spa.LatencyMaxQuantum), Float(self.MaxQuantum)),
		P(uint32(spa.LatencyMinRate), Int(self.MinRate)),
		P(uint32(spa.LatencyMaxRate), Int(self.MaxRate)),
		P(uint32(spa.LatencyMinNs), Long(self.MinNs)),
		P(uint32(spa.LatencyMaxNs), Long(self.MaxNs)),
	)

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

func ParamLatencyFromPod(v Value) (ParamLatency, error) {
	var latency ParamLatency
	var direction uint32

	obj, err := objectOf(v, spa.TypeObjectParamLatency)

	if err != nil {
		return latency, err
	}

	latency.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.LatencyDirection):  setID(&direction),
		uint32(spa.LatencyMinQuantum): setFloat(&latency.MinQuantum),
		uint32(spa.LatencyMaxQuantum): setFloat(&latency.MaxQuantum),
		uint32(spa.LatencyMinRate):    setInt(&latency.MinRate),
		uint32(spa.LatencyMaxRate):    setInt(&latency.MaxRate),
		uint32(spa.LatencyMinNs):      setLong(&latency.MinNs),
		uint32(spa.LatencyMaxNs):      setLong(&latency.MaxNs),
	})

	latency.Direction = spa.Direction(direction)

	return latency, err
}

// ParamProcessLatency is the latency a node adds while processing.
type ParamProcessLatency struct {
	Quantum float32 `json:"quantum"`
	Rate    int32   `json:"rate"`
	Ns      int64   `json:"ns"`
	Extra   []Prop  `json:"-"`
}

func (self ParamProcessLatency) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectParamProcessLatency, uint32(paramType),
		P(uint32(spa.ProcessLatencyQuantum), Float(self.Quantum)),
		P(uint32(spa.ProcessLatencyRate), Int(self.Rate)),
		P(uint32(spa.ProcessLatencyNs), Long(self.Ns)),
	)

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

func ParamProcessLatencyFromPod(v Value) (ParamProcessLatency, error) {
	var latency ParamProcessLatency

	obj, err := objectOf(v, spa.TypeObjectParamProcessLatency)

	if err != nil {
		return latency, err
	}

	latency.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.ProcessLatencyQuantum): setFloat(&latency.Quantum),
		uint32(spa.ProcessLatencyRate):    setInt(&latency.Rate),
		uint32(spa.ProcessLatencyNs):      setLong(&latency.Ns),
	})

	return latency, err
}

// ParamPortConfig configures the ports of an audio adapter node, e.g. to
// split it into one DSP port per channel.
type ParamPortConfig struct {
	Direction spa.Direction      `json:"direction"`
	Mode      spa.PortConfigMode `json:"mode"`
	Monitor   bool               `json:"monitor,omitempty"`
	Control   bool               `json:"control,omitempty"`
	Format    *AudioFormat       `json:"format,omitempty"`
	Extra     []Prop             `json:"-"`
}

func (self ParamPortConfig) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectParamPortConfig, uint32(paramType),
		P(uint32(spa.PortConfigKeyDirection), ID(self.Direction)),
		P(uint32(spa.PortConfigKeyMode), ID(self.Mode)),
	)

	if self.Monitor {
		obj.Props = append(obj.Props, P(uint32(spa.PortConfigKeyMonitor), Bool(true)))
	}

	if self.Control {
		obj.Props = append(obj.Props, P(uint32(spa.PortConfigKeyControl), Bool(true)))
	}

	if self.Format != nil {
		obj.Props = append(obj.Props, P(uint32(spa.PortConfigKeyFormat), self.Format.ToPod(spa.ParamFormat)))
	}

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

func ParamPortConfigFromPod(v Value) (ParamPortConfig, error) {
	var config ParamPortConfig
	var direction, mode uint32

	obj, err := objectOf(v, spa.TypeObjectParamPortConfig)

	if err != nil {
		return config, err
	}

	config.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.PortConfigKeyDirection): setID(&direction),
		uint32(spa.PortConfigKeyMode):      setID(&mode),
		uint32(spa.PortConfigKeyMonitor):   setBool(&config.Monitor),
		uint32(spa.PortConfigKeyControl):   setBool(&config.Control),
		uint32(spa.PortConfigKeyFormat): func(v Value) error {
			format, err := AudioFormatFromPod(v)

			if err == nil {
				config.Format = &format
			}

			return err
		},
	})

	config.Direction = spa.Direction(direction)
	config.Mode = spa.PortConfigMode(mode)

	return config, err
}

// ParamProfile is a device profile, as listed by EnumProfile and selected
// with Profile.
type ParamProfile struct {
	Index       int32            `json:"index"`
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Priority    int32            `json:"priority,omitempty"`
	Available   spa.Availability `json:"available"`
	Info        *Struct          `json:"info,omitempty"`
	Classes     *Struct          `json:"classes,omitempty"`
	Save        bool             `json:"save,omitempty"`
	Extra       []Prop           `json:"-"`
}

func (self ParamProfile) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectParamProfile, uint32(paramType),
		P(uint32(spa.ProfileIndex), Int(self.Index)),
	)

	add(&obj, uint32(spa.ProfileName), optString(self.Name))
	add(&obj, uint32(spa.ProfileDescription), optString(self.Description))

	if self.Priority != 0 {
		obj.Props = append(obj.Props, P(uint32(spa.ProfilePriority), Int(self.Priority)))
	}

	if self.Available != spa.AvailabilityUnknown {
		obj.Props = append(obj.Props, P(uint32(spa.ProfileAvailable), ID(self.Available)))
	}

	add(&obj, uint32(spa.ProfileInfo), optStruct(self.Info))
	add(&obj, uint32(spa.ProfileClasses), optStruct(self.Classes))

	if self.Save {
		obj.Props = append(obj.Props, P(uint32(spa.ProfileSave), Bool(true)))
	}

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

func ParamProfileFromPod(v Value) (ParamProfile, error) {
	var profile ParamProfile
	var available uint32

	obj, err := objectOf(v, spa.TypeObjectParamProfile)

	if err != nil {
		return profile, err
	}

	profile.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.ProfileIndex):       setInt(&profile.Index),
		uint32(spa.ProfileName):        setString(&profile.Name),
		uint32(spa.ProfileDescription): setString(&profile.Description),
		uint32(spa.ProfilePriority):    setInt(&profile.Priority),
		uint32(spa.ProfileAvailable):   setID(&available),
		uint32(spa.ProfileInfo):        setStruct(&profile.Info),
		uint32(spa.ProfileClasses):     setStruct(&profile.Classes),
		uint32(spa.ProfileSave):        setBool(&profile.Save),
	})

	profile.Available = spa.Availability(available)

	return profile, err
}

// ParamRoute is a device route (a port on a sound card such as headphones
// or speakers). Setting a Route with Props changes the volume of that route.
type ParamRoute struct {
	Index       int32            `json:"index"`
	Direction   spa.Direction    `json:"direction"`
	Device      int32            `json:"device"`
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Priority    int32            `json:"priority,omitempty"`
	Available   spa.Availability `json:"available"`
	Info        *Struct          `json:"info,omitempty"`
	Profiles    []int32          `json:"profiles,omitempty"`
	Props       *Props           `json:"props,omitempty"`
	Devices     []int32          `json:"devices,omitempty"`
	Profile     int32            `json:"profile,omitempty"`
	Save        bool             `json:"save,omitempty"`
	Extra       []Prop           `json:"-"`
}

func (self ParamRoute) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectParamRoute, uint32(paramType),
		P(uint32(spa.RouteIndex), Int(self.Index)),
		P(uint32(spa.RouteDirection), ID(self.Direction)),
		P(uint32(spa.RouteDevice), Int(self.Device)),
	)

	add(&obj, uint32(spa.RouteName), optString(self.Name))
	add(&obj, uint32(spa.RouteDescription), optString(self.Description))

	if self.Priority != 0 {
		obj.Props = append(obj.Props, P(uint32(spa.RoutePriority), Int(self.Priority)))
	}

	if self.Available != spa.AvailabilityUnknown {
		obj.Props = append(obj.Props, P(uint32(spa.RouteAvailable), ID(self.Available)))
	}

	add(&obj, uint32(spa.RouteInfo), optStruct(self.Info))
	add(&obj, uint32(spa.RouteProfiles), intArray(self.Profiles))

	if self.Props != nil {
		obj.Props = append(obj.Props, P(uint32(spa.RouteProps), self.Props.ToPod(spa.ParamRoute)))
	}

	add(&obj, uint32(spa.RouteDevices), intArray(self.Devices))

	if self.Profile != 0 {
		obj.Props = append(obj.Props, P(uint32(spa.RouteProfile), Int(self.Profile)))
	}

	if self.Save {
		obj.Props = append(obj.Props, P(uint32(spa.RouteSave), Bool(true)))
	}

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

func ParamRouteFromPod(v Value) (ParamRoute, error) {
	var route ParamRoute
	var direction, available uint32

	obj, err := objectOf(v, spa.TypeObjectParamRoute)

	if err != nil {
		return route, err
	}

	route.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.RouteIndex):       setInt(&route.Index),
		uint32(spa.RouteDirection):   setID(&direction),
		uint32(spa.RouteDevice):      setInt(&route.Device),
		uint32(spa.RouteName):        setString(&route.Name),
		uint32(spa.RouteDescription): setString(&route.Description),
		uint32(spa.RoutePriority):    setInt(&route.Priority),
		uint32(spa.RouteAvailable):   setID(&available),
		uint32(spa.RouteInfo):        setStruct(&route.Info),
		uint32(spa.RouteProfiles):    setInts(&route.Profiles),
		uint32(spa.RouteProps): func(v Value) error {
			props, err := PropsFromPod(v)

			if err == nil {
				route.Props = &props
			}

			return err
		},
		uint32(spa.RouteDevices): setInts(&route.Devices),
		uint32(spa.RouteProfile): setInt(&route.Profile),
		uint32(spa.RouteSave):    setBool(&route.Save),
	})

	route.Direction = spa.Direction(direction)
	route.Available = spa.Availability(available)

	return route, err
}

// Profiler is emitted by the profiler module once per graph cycle. The
// blocks are structs whose layout changes between PipeWire releases, so they
// are kept as pods.
type Profiler struct {
	Info           Value   `json:"info,omitempty"`
	Clock          Value   `json:"clock,omitempty"`
	DriverBlock    Value   `json:"driver_block,omitempty"`
	FollowerBlocks []Value `json:"follower_blocks,omitempty"`
	Extra          []Prop  `json:"-"`
}

func (self Profiler) ToPod(paramType spa.ParamType) Object {
	obj := NewObject(spa.TypeObjectProfiler, uint32(paramType))

	add(&obj, uint32(spa.ProfilerInfo), self.Info)
	add(&obj, uint32(spa.ProfilerClock), self.Clock)
	add(&obj, uint32(spa.ProfilerDriverBlock), self.DriverBlock)

	for _, block := range self.FollowerBlocks {
		add(&obj, uint32(spa.ProfilerFollowerBlock), block)
	}

	obj.Props = append(obj.Props, self.Extra...)

	return obj
}

func ProfilerFromPod(v Value) (Profiler, error) {
	var profiler Profiler

	obj, err := objectOf(v, spa.TypeObjectProfiler)

	if err != nil {
		return profiler, err
	}

	profiler.Extra, err = decodeProps(obj, map[uint32]propSetter{
		uint32(spa.ProfilerInfo):        setValue(&profiler.Info),
		uint32(spa.ProfilerClock):       setValue(&profiler.Clock),
		uint32(spa.ProfilerDriverBlock): setValue(&profiler.DriverBlock),
		uint32(spa.ProfilerFollowerBlock): func(v Value) error {
			profiler.FollowerBlocks = append(profiler.FollowerBlocks, v)
			return nil
		},
	})

	return profiler, err
}

// Param is implemented by every typed param object.
type Param interface {
	ToPod(paramType spa.ParamType) Object
}

// DecodeParam decodes a param into its typed form based on the object type,
// returning the object itself for types without a Go representation.
func DecodeParam(v Value) (interface{}, error) {
	obj, err := AsObject(v)

	if err != nil {
		return nil, err
	}

	switch obj.ObjectType {
	case spa.TypeObjectPropInfo:
		return PropInfoFromPod(obj)
	case spa.TypeObjectProps:
		return PropsFromPod(obj)
	case spa.TypeObjectFormat:
		mediaType, _, err := FormatMedia(obj)

		if err != nil {
			return obj, nil
		}

		switch mediaType {
		case spa.MediaTypeAudio:
			return AudioFormatFromPod(obj)
		case spa.MediaTypeVideo:
			return VideoFormatFromPod(obj)
		default:
			return obj, nil
		}
	case spa.TypeObjectParamBuffers:
		return ParamBuffersFromPod(obj)
	case spa.TypeObjectParamMeta:
		return ParamMetaFromPod(obj)
	case spa.TypeObjectParamIO:
		return ParamIOFromPod(obj)
	case spa.TypeObjectParamProfile:
		return ParamProfileFromPod(obj)
	case spa.TypeObjectParamPortConfig:
		return ParamPortConfigFromPod(obj)
	case spa.TypeObjectParamRoute:
		return ParamRouteFromPod(obj)
	case spa.TypeObjectProfiler:
		return ProfilerFromPod(obj)
	case spa.TypeObjectParamLatency:
		return ParamLatencyFromPod(obj)
	case spa.TypeObjectParamProcessLatency:
		return ParamProcessLatencyFromPod(obj)
	default:
		return obj, nil
	}
}
