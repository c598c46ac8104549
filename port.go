package pipewire

import (
	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// A Port is an input or output of a node.
type Port struct {
	*Proxy
}

func (self *Port) Info() PortInfo {
	info, _ := self.Proxy.Info().(PortInfo)
	return info
}

func (self *Port) P(key string) typeutil.Variant {
	return maputil.M(self.Info().Props.Map()).Get(key)
}

func (self *Port) Map() map[string]interface{} {
	info := self.Info()

	return infoMap(map[string]interface{}{
		`id`:        info.ID,
		`name`:      info.Name,
		`alias`:     info.Alias,
		`node_id`:   info.NodeID,
		`direction`: info.Direction.String(),
	}, info.Props)
}

func (self *Port) OnPortInfo(handler func(PortInfo)) {
	self.OnInfo(func(info interface{}) {
		if portInfo, ok := info.(PortInfo); ok {
			handler(portInfo)
		}
	})
}

func (self *Port) EnumParams(paramType spa.ParamType, filter pod.Value) ([]pod.Value, error) {
	return self.enumParams(paramType, filter)
}

func (self *Port) SubscribeParams(paramTypes ...spa.ParamType) error {
	return self.subscribeParams(paramTypes...)
}
