package pipewire

import (
	"fmt"
	"strings"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
)

// An ObjectType is the interface type string of a global, as announced by
// the registry.
type ObjectType string

const (
	TypeCore     ObjectType = `PipeWire:Interface:Core`
	TypeRegistry ObjectType = `PipeWire:Interface:Registry`
	TypeNode     ObjectType = `PipeWire:Interface:Node`
	TypePort     ObjectType = `PipeWire:Interface:Port`
	TypeLink     ObjectType = `PipeWire:Interface:Link`
	TypeDevice   ObjectType = `PipeWire:Interface:Device`
	TypeClient   ObjectType = `PipeWire:Interface:Client`
	TypeFactory  ObjectType = `PipeWire:Interface:Factory`
	TypeModule   ObjectType = `PipeWire:Interface:Module`
	TypeMetadata ObjectType = `PipeWire:Interface:Metadata`
	TypeProfiler ObjectType = `PipeWire:Interface:Profiler`
)

// The interface versions this package speaks.
var objectVersions = map[ObjectType]uint32{
	TypeCore:     4,
	TypeRegistry: 3,
	TypeNode:     3,
	TypePort:     3,
	TypeLink:     3,
	TypeDevice:   3,
	TypeClient:   3,
	TypeFactory:  3,
	TypeModule:   3,
	TypeMetadata: 3,
	TypeProfiler: 3,
}

func (self ObjectType) String() string {
	return string(self)
}

// Short returns the last component of the type, e.g. `Node`.
func (self ObjectType) Short() string {
	if i := strings.LastIndex(string(self), `:`); i >= 0 {
		return string(self)[i+1:]
	}

	return string(self)
}

// Version returns the interface version used when binding this type.
func (self ObjectType) Version() uint32 {
	if v, ok := objectVersions[self]; ok {
		return v
	}

	return 0
}

// ParseObjectType accepts a full type string or its short name (`node`).
func ParseObjectType(s string) (ObjectType, error) {
	for t := range objectVersions {
		if string(t) == s || strings.EqualFold(t.Short(), s) {
			return t, nil
		}
	}

	return ``, fmt.Errorf("unknown object type %q", s)
}

type NodeState int

const (
	NodeStateError     NodeState = -1
	NodeStateCreating  NodeState = 0
	NodeStateSuspended NodeState = 1
	NodeStateIdle      NodeState = 2
	NodeStateRunning   NodeState = 3
)

func (self NodeState) String() string {
	switch self {
	case NodeStateError:
		return `error`
	case NodeStateCreating:
		return `creating`
	case NodeStateSuspended:
		return `suspended`
	case NodeStateIdle:
		return `idle`
	case NodeStateRunning:
		return `running`
	default:
		return fmt.Sprintf("state(%d)", int(self))
	}
}

type LinkState int

const (
	LinkStateError       LinkState = -2
	LinkStateUnlinked    LinkState = -1
	LinkStateInit        LinkState = 0
	LinkStateNegotiating LinkState = 1
	LinkStateAllocating  LinkState = 2
	LinkStatePaused      LinkState = 3
	LinkStateActive      LinkState = 4
)

func (self LinkState) String() string {
	switch self {
	case LinkStateError:
		return `error`
	case LinkStateUnlinked:
		return `unlinked`
	case LinkStateInit:
		return `init`
	case LinkStateNegotiating:
		return `negotiating`
	case LinkStateAllocating:
		return `allocating`
	case LinkStatePaused:
		return `paused`
	case LinkStateActive:
		return `active`
	default:
		return fmt.Sprintf("state(%d)", int(self))
	}
}

// Change mask bits of the info events.
const (
	CoreChangeProps uint64 = 1 << 0

	NodeChangeInputPorts  uint64 = 1 << 0
	NodeChangeOutputPorts uint64 = 1 << 1
	NodeChangeState       uint64 = 1 << 2
	NodeChangeProps       uint64 = 1 << 3
	NodeChangeParams      uint64 = 1 << 4

	PortChangeProps  uint64 = 1 << 0
	PortChangeParams uint64 = 1 << 1

	LinkChangeState  uint64 = 1 << 0
	LinkChangeFormat uint64 = 1 << 1
	LinkChangeProps  uint64 = 1 << 2

	DeviceChangeProps  uint64 = 1 << 0
	DeviceChangeParams uint64 = 1 << 1

	ClientChangeProps  uint64 = 1 << 0
	FactoryChangeProps uint64 = 1 << 0
)

// ParamInfo describes a param an object exposes and what may be done with it.
type ParamInfo struct {
	ID    spa.ParamType      `json:"id"`
	Flags spa.ParamInfoFlags `json:"flags"`
}

func (self ParamInfo) Readable() bool {
	return self.Flags.Has(spa.ParamInfoRead)
}

func (self ParamInfo) Writable() bool {
	return self.Flags.Has(spa.ParamInfoWrite)
}

// Serial reports whether the param changed since it was last announced.
func (self ParamInfo) Serial() bool {
	return self.Flags.Has(spa.ParamInfoSerial)
}

func (self ParamInfo) String() string {
	return fmt.Sprintf("%v(%v)", self.ID, self.Flags)
}

type CoreInfo struct {
	ID         uint32     `json:"id"`
	Cookie     uint32     `json:"cookie"`
	UserName   string     `json:"user_name"`
	HostName   string     `json:"host_name"`
	Version    string     `json:"version"`
	Name       string     `json:"name"`
	ChangeMask uint64     `json:"change_mask"`
	Props      Properties `json:"props"`
}

type NodeInfo struct {
	ID             uint32      `json:"id"`
	Name           string      `json:"name,omitempty"        key:"node.name"`
	Description    string      `json:"description,omitempty" key:"node.description"`
	MediaClass     string      `json:"media_class,omitempty" key:"media.class"`
	MaxInputPorts  uint32      `json:"max_input_ports"`
	MaxOutputPorts uint32      `json:"max_output_ports"`
	NInputPorts    uint32      `json:"n_input_ports"`
	NOutputPorts   uint32      `json:"n_output_ports"`
	State          NodeState   `json:"state"`
	Error          string      `json:"error,omitempty"`
	ChangeMask     uint64      `json:"change_mask"`
	Props          Properties  `json:"props"`
	Params         []ParamInfo `json:"params"`
}

type PortInfo struct {
	ID         uint32        `json:"id"`
	Name       string        `json:"name,omitempty"  key:"port.name"`
	Alias      string        `json:"alias,omitempty" key:"port.alias"`
	NodeID     uint32        `json:"node_id"         key:"node.id"`
	Direction  spa.Direction `json:"direction"`
	ChangeMask uint64        `json:"change_mask"`
	Props      Properties    `json:"props"`
	Params     []ParamInfo   `json:"params"`
}

type LinkInfo struct {
	ID           uint32     `json:"id"`
	OutputNodeID uint32     `json:"output_node_id"`
	OutputPortID uint32     `json:"output_port_id"`
	InputNodeID  uint32     `json:"input_node_id"`
	InputPortID  uint32     `json:"input_port_id"`
	State        LinkState  `json:"state"`
	Error        string     `json:"error,omitempty"`
	Format       pod.Value  `json:"format,omitempty"`
	ChangeMask   uint64     `json:"change_mask"`
	Props        Properties `json:"props"`
}

type DeviceInfo struct {
	ID          uint32      `json:"id"`
	Name        string      `json:"name,omitempty"        key:"device.name"`
	Description string      `json:"description,omitempty" key:"device.description"`
	API         string      `json:"api,omitempty"         key:"device.api"`
	ChangeMask  uint64      `json:"change_mask"`
	Props       Properties  `json:"props"`
	Params      []ParamInfo `json:"params"`
}

type ClientInfo struct {
	ID              uint32     `json:"id"`
	ApplicationName string     `json:"application_name,omitempty" key:"application.name"`
	ProcessID       int        `json:"pid,omitempty"              key:"application.process.id"`
	ChangeMask      uint64     `json:"change_mask"`
	Props           Properties `json:"props"`
}

type FactoryInfo struct {
	ID         uint32     `json:"id"`
	Name       string     `json:"name"`
	Type       ObjectType `json:"type"`
	Version    uint32     `json:"version"`
	ChangeMask uint64     `json:"change_mask"`
	Props      Properties `json:"props"`
}

// infoMap flattens an info struct for filtering and text output.
func infoMap(fields map[string]interface{}, props Properties) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+len(props))

	for k, v := range fields {
		out[k] = v
	}

	for k, v := range props {
		out[`props.`+k] = v
	}

	return out
}
