package pipewire

import (
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// A Link connects an output port to an input port.
type Link struct {
	*Proxy
}

func (self *Link) Info() LinkInfo {
	info, _ := self.Proxy.Info().(LinkInfo)
	return info
}

func (self *Link) P(key string) typeutil.Variant {
	return maputil.M(self.Info().Props.Map()).Get(key)
}

func (self *Link) Map() map[string]interface{} {
	info := self.Info()

	return infoMap(map[string]interface{}{
		`id`:             info.ID,
		`output_node_id`: info.OutputNodeID,
		`output_port_id`: info.OutputPortID,
		`input_node_id`:  info.InputNodeID,
		`input_port_id`:  info.InputPortID,
		`state`:          info.State.String(),
		`error`:          info.Error,
	}, info.Props)
}

func (self *Link) OnLinkInfo(handler func(LinkInfo)) {
	self.OnInfo(func(info interface{}) {
		if linkInfo, ok := info.(LinkInfo); ok {
			handler(linkInfo)
		}
	})
}
