package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"unsafe"

	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// A Client represents a program connected to the PipeWire daemon.
type Client struct {
	*Proxy
}

func (self *Client) Info() ClientInfo {
	info, _ := self.Proxy.Info().(ClientInfo)
	return info
}

func (self *Client) P(key string) typeutil.Variant {
	return maputil.M(self.Info().Props.Map()).Get(key)
}

func (self *Client) Map() map[string]interface{} {
	info := self.Info()

	return infoMap(map[string]interface{}{
		`id`:               info.ID,
		`application_name`: info.ApplicationName,
		`pid`:              info.ProcessID,
	}, info.Props)
}

func (self *Client) OnClientInfo(handler func(ClientInfo)) {
	self.OnInfo(func(info interface{}) {
		if clientInfo, ok := info.(ClientInfo); ok {
			handler(clientInfo)
		}
	})
}

// Update the properties of the client. Needs write permission on it.
func (self *Client) UpdateProperties(props Properties) error {
	return self.Conn.invoke(func() (C.int, error) {
		if self.proxy == nil {
			return 0, NotConnectedErr
		}

		nativeProps := props.toNative()
		defer C.pw_properties_free(nativeProps)

		return C.pwgo_client_update_properties(self.proxy, &nativeProps.dict), nil
	})
}

// Send an error to the client about one of its resources.
func (self *Client) Error(id uint32, res int, message string) error {
	cMessage := C.CString(message)
	defer C.free(unsafe.Pointer(cMessage))

	return self.Conn.invoke(func() (C.int, error) {
		if self.proxy == nil {
			return 0, NotConnectedErr
		}

		return C.pwgo_client_error(self.proxy, C.uint32_t(id), C.int(res), cMessage), nil
	})
}
