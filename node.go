package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"fmt"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// A Node is a processing element of the graph: a device endpoint, a stream
// of an application or a filter.
type Node struct {
	*Proxy
	events chan NodeInfo
}

// The last info announced for this node.
func (self *Node) Info() NodeInfo {
	info, _ := self.Proxy.Info().(NodeInfo)
	return info
}

func (self *Node) P(key string) typeutil.Variant {
	return maputil.M(self.Info().Props.Map()).Get(key)
}

func (self *Node) Map() map[string]interface{} {
	info := self.Info()

	return infoMap(map[string]interface{}{
		`id`:               info.ID,
		`name`:             info.Name,
		`description`:      info.Description,
		`media_class`:      info.MediaClass,
		`state`:            info.State.String(),
		`n_input_ports`:    info.NInputPorts,
		`n_output_ports`:   info.NOutputPorts,
		`max_input_ports`:  info.MaxInputPorts,
		`max_output_ports`: info.MaxOutputPorts,
		`error`:            info.Error,
	}, info.Props)
}

// OnNodeInfo registers a function called on the loop thread for every info
// update. It must not block.
func (self *Node) OnNodeInfo(handler func(NodeInfo)) {
	self.OnInfo(func(info interface{}) {
		if nodeInfo, ok := info.(NodeInfo); ok {
			handler(nodeInfo)
		}
	})
}

// Events returns a channel receiving every info update of the node.
func (self *Node) Events() <-chan NodeInfo {
	self.lock.Lock()

	if self.events != nil {
		defer self.lock.Unlock()
		return self.events
	}

	self.events = make(chan NodeInfo, DefaultEventBuffer)
	events := self.events
	self.lock.Unlock()

	self.OnNodeInfo(func(info NodeInfo) {
		select {
		case events <- info:
		default:
			log.Debugf("pipewire: event channel of node %d full, dropped info", info.ID)
		}
	})

	return events
}

// Enumerate the params of the given type, optionally narrowed by a filter pod.
func (self *Node) EnumParams(paramType spa.ParamType, filter pod.Value) ([]pod.Value, error) {
	return self.enumParams(paramType, filter)
}

// Ask the server to send param events whenever these params change.
func (self *Node) SubscribeParams(paramTypes ...spa.ParamType) error {
	return self.subscribeParams(paramTypes...)
}

func (self *Node) SetParam(paramType spa.ParamType, flags uint32, value pod.Value) error {
	return self.setParam(paramType, flags, value)
}

// Retrieve the current Props param of the node.
func (self *Node) Props() (pod.Props, error) {
	params, err := self.EnumParams(spa.ParamProps, nil)
	if err != nil {
		return pod.Props{}, err
	}

	if len(params) == 0 {
		return pod.Props{}, nil
	}

	return pod.PropsFromPod(params[0])
}

func (self *Node) SetProps(props pod.Props) error {
	return self.SetParam(spa.ParamProps, 0, props.ToPod(spa.ParamProps))
}

// SendCommand sends a command object to the node.
func (self *Node) SendCommand(command pod.Value) error {
	data, err := pod.Marshal(command)
	if err != nil {
		return err
	}

	return self.sendCommand(data)
}

func (self *Node) SendNodeCommand(command spa.NodeCommand) error {
	return self.SendCommand(pod.NewObject(spa.TypeCommandNode, uint32(command)))
}

func (self *Node) sendCommand(data []byte) error {
	cCommand := C.CBytes(data)
	defer C.free(cCommand)

	return self.Conn.invoke(func() (C.int, error) {
		if self.proxy == nil {
			return 0, fmt.Errorf("node is destroyed: %w", NotConnectedErr)
		}

		return C.pwgo_node_send_command(self.proxy, (*C.struct_spa_pod)(cCommand)), nil
	})
}
