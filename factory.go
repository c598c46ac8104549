package pipewire

import (
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// A Factory creates objects of one type on the server, see Conn.CreateObject.
type Factory struct {
	*Proxy
}

func (self *Factory) Info() FactoryInfo {
	info, _ := self.Proxy.Info().(FactoryInfo)
	return info
}

func (self *Factory) P(key string) typeutil.Variant {
	return maputil.M(self.Info().Props.Map()).Get(key)
}

func (self *Factory) Map() map[string]interface{} {
	info := self.Info()

	return infoMap(map[string]interface{}{
		`id`:      info.ID,
		`name`:    info.Name,
		`type`:    string(info.Type),
		`version`: info.Version,
	}, info.Props)
}
