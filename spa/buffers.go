package spa

import (
	"fmt"
)

// MetaType identifies metadata attached to a buffer.
type MetaType uint32

const (
	MetaInvalid MetaType = iota
	MetaHeader
	MetaVideoCrop
	MetaVideoDamage
	MetaBitmap
	MetaCursor
	MetaControl
	MetaBusy
	MetaVideoTransform
)

var metaTypeNames = []string{
	`Invalid`, `Header`, `VideoCrop`, `VideoDamage`, `Bitmap`, `Cursor`, `Control`, `Busy`, `VideoTransform`,
}

func (self MetaType) String() string {
	if int(self) < len(metaTypeNames) {
		return metaTypeNames[self]
	}

	return fmt.Sprintf("meta(%d)", uint32(self))
}

// DataType is the kind of memory backing a buffer data block.
type DataType uint32

const (
	DataInvalid DataType = iota
	DataMemPtr
	DataMemFd
	DataDmaBuf
	DataMemID
)

var dataTypeNames = []string{`Invalid`, `MemPtr`, `MemFd`, `DmaBuf`, `MemId`}

func (self DataType) String() string {
	if int(self) < len(dataTypeNames) {
		return dataTypeNames[self]
	}

	return fmt.Sprintf("data(%d)", uint32(self))
}

// DataTypeMask converts a set of data types into the bitmask the Buffers
// dataType key expects.
func DataTypeMask(types ...DataType) int32 {
	var mask int32

	for _, t := range types {
		mask |= 1 << uint32(t)
	}

	return mask
}

// IOType identifies an io area shared between a node and the graph.
type IOType uint32

const (
	IOInvalid IOType = iota
	IOBuffers
	IORange
	IOClock
	IOLatency
	IOControl
	IONotify
	IOPosition
	IORateMatch
	IOMemory
)

var ioTypeNames = []string{
	`Invalid`, `Buffers`, `Range`, `Clock`, `Latency`, `Control`, `Notify`, `Position`, `RateMatch`, `Memory`,
}

func (self IOType) String() string {
	if int(self) < len(ioTypeNames) {
		return ioTypeNames[self]
	}

	return fmt.Sprintf("io(%d)", uint32(self))
}

// ControlType is the type of a control in a sequence pod.
type ControlType uint32

const (
	ControlInvalid ControlType = iota
	ControlProperties
	ControlMidi
	ControlOSC
)

func (self ControlType) String() string {
	switch self {
	case ControlProperties:
		return `Properties`
	case ControlMidi:
		return `Midi`
	case ControlOSC:
		return `OSC`
	default:
		return `Invalid`
	}
}

// NodeCommand is the id of a node command object.
type NodeCommand uint32

const (
	NodeCommandSuspend NodeCommand = iota
	NodeCommandPause
	NodeCommandStart
	NodeCommandEnable
	NodeCommandDisable
	NodeCommandFlush
	NodeCommandDrain
	NodeCommandMarker
	NodeCommandParamBegin
	NodeCommandParamEnd
	NodeCommandRequestProcess
)

var nodeCommandNames = map[uint32]string{
	0: `Suspend`, 1: `Pause`, 2: `Start`, 3: `Enable`, 4: `Disable`, 5: `Flush`,
	6: `Drain`, 7: `Marker`, 8: `ParamBegin`, 9: `ParamEnd`, 10: `RequestProcess`,
}

func (self NodeCommand) String() string {
	if name, ok := nodeCommandNames[uint32(self)]; ok {
		return name
	}

	return fmt.Sprintf("command(%d)", uint32(self))
}

// ParseNodeCommand converts a command name like `Suspend` into its id.
func ParseNodeCommand(s string) (NodeCommand, error) {
	if v, ok := lookupName(s, nodeCommandNames); ok {
		return NodeCommand(v), nil
	}

	return 0, fmt.Errorf("unknown node command %q", s)
}

// NodeEvent is the id of a node event object.
type NodeEvent uint32

const (
	NodeEventError NodeEvent = iota
	NodeEventBuffering
	NodeEventRequestRefresh
	NodeEventRequestProcess
)

func (self NodeEvent) String() string {
	switch self {
	case NodeEventError:
		return `Error`
	case NodeEventBuffering:
		return `Buffering`
	case NodeEventRequestRefresh:
		return `RequestRefresh`
	case NodeEventRequestProcess:
		return `RequestProcess`
	default:
		return fmt.Sprintf("event(%d)", uint32(self))
	}
}
