package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"unsafe"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/go-stockutil/log"
)

// Everything in this file runs on the loop thread with the loop lock held.

func podBytes(ptr unsafe.Pointer, size C.uint32_t) []byte {
	if ptr == nil || size == 0 {
		return nil
	}

	return C.GoBytes(ptr, C.int(size))
}

func paramInfos(params *C.struct_spa_param_info, n C.uint32_t) []ParamInfo {
	infos := make([]ParamInfo, 0, int(n))

	if params == nil || n == 0 {
		return infos
	}

	for _, param := range unsafe.Slice(params, int(n)) {
		infos = append(infos, ParamInfo{
			ID:    spa.ParamType(param.id),
			Flags: spa.ParamInfoFlags(param.flags),
		})
	}

	return infos
}

func proxyFor(handle C.uintptr_t) (*Proxy, bool) {
	proxy, ok := cgoget(uintptr(handle)).(*Proxy)
	return proxy, ok
}

//export go_coreInfo
func go_coreInfo(handle C.uintptr_t, info *C.struct_pw_core_info) {
	if conn, ok := cgoget(uintptr(handle)).(*Conn); ok && info != nil {
		conn.infoLock.Lock()
		defer conn.infoLock.Unlock()

		props := conn.info.Props

		if uint64(info.change_mask)&CoreChangeProps != 0 || props == nil {
			props = propertiesFromDict(info.props)
		}

		conn.info = CoreInfo{
			ID:         uint32(info.id),
			Cookie:     uint32(info.cookie),
			UserName:   goStringOrEmpty(info.user_name),
			HostName:   goStringOrEmpty(info.host_name),
			Version:    goStringOrEmpty(info.version),
			Name:       goStringOrEmpty(info.name),
			ChangeMask: uint64(info.change_mask),
			Props:      props,
		}
	}
}

//export go_coreDone
func go_coreDone(handle C.uintptr_t, id C.uint32_t, seq C.int) {
	if conn, ok := cgoget(uintptr(handle)).(*Conn); ok && uint32(id) == IDCore {
		conn.completeOperation(int(seq), nil)
	}
}

//export go_coreError
func go_coreError(handle C.uintptr_t, id C.uint32_t, seq C.int, res C.int, message *C.char) {
	if conn, ok := cgoget(uintptr(handle)).(*Conn); ok {
		coreErr := CoreError{
			ID:      uint32(id),
			Seq:     int(seq),
			Res:     ErrorCode(res),
			Message: goStringOrEmpty(message),
		}

		if conn.completeOperation(coreErr.Seq, coreErr) {
			return
		}

		log.Debugf("pipewire: core error: %v", coreErr)

		select {
		case conn.errors <- coreErr:
		default:
			log.Debugf("pipewire: error channel full, dropped error for object %d", coreErr.ID)
		}
	}
}

//export go_coreRemoveID
func go_coreRemoveID(handle C.uintptr_t, id C.uint32_t) {
	log.Debugf("pipewire: server released proxy id %d", uint32(id))
}

//export go_registryGlobal
func go_registryGlobal(handle C.uintptr_t, id C.uint32_t, permissions C.uint32_t, typ *C.char, version C.uint32_t, props *C.struct_spa_dict) {
	if registry, ok := cgoget(uintptr(handle)).(*Registry); ok {
		registry.addGlobal(Global{
			ID:          uint32(id),
			Permissions: Permission(permissions),
			Type:        ObjectType(goStringOrEmpty(typ)),
			Version:     uint32(version),
			Props:       propertiesFromDict(props),
		})
	}
}

//export go_registryGlobalRemove
func go_registryGlobalRemove(handle C.uintptr_t, id C.uint32_t) {
	if registry, ok := cgoget(uintptr(handle)).(*Registry); ok {
		registry.removeGlobal(uint32(id))
	}
}

//export go_proxyBound
func go_proxyBound(handle C.uintptr_t, globalID C.uint32_t) {
	if proxy, ok := proxyFor(handle); ok {
		proxy.signalBound(nil)
	}
}

//export go_proxyRemoved
func go_proxyRemoved(handle C.uintptr_t) {
	if proxy, ok := proxyFor(handle); ok {
		proxy.markRemoved()
	}
}

//export go_proxyError
func go_proxyError(handle C.uintptr_t, seq C.int, res C.int, message *C.char) {
	if proxy, ok := proxyFor(handle); ok {
		err := CoreError{
			ID:      uint32(C.pw_proxy_get_id(proxy.proxy)),
			Seq:     int(seq),
			Res:     ErrorCode(res),
			Message: goStringOrEmpty(message),
		}

		proxy.signalBound(err)
		proxy.failCollector(err)
	}
}

//export go_objectParam
func go_objectParam(handle C.uintptr_t, seq C.int, id C.uint32_t, index C.uint32_t, next C.uint32_t, param unsafe.Pointer, size C.uint32_t) {
	if proxy, ok := proxyFor(handle); ok {
		event := ParamEvent{
			Seq:   int(seq),
			ID:    spa.ParamType(id),
			Index: uint32(index),
			Next:  uint32(next),
			Data:  podBytes(param, size),
		}

		if len(event.Data) > 0 {
			if value, _, err := pod.Unmarshal(event.Data); err == nil {
				event.Pod = value
			} else {
				log.Debugf("pipewire: undecodable %v param: %v", event.ID, err)
			}
		}

		proxy.deliverParam(event)
	}
}

//export go_nodeInfo
func go_nodeInfo(handle C.uintptr_t, info *C.struct_pw_node_info) {
	if proxy, ok := proxyFor(handle); ok && info != nil {
		prev, _ := proxy.Info().(NodeInfo)
		mask := uint64(info.change_mask)

		node := NodeInfo{
			ID:             uint32(info.id),
			MaxInputPorts:  uint32(info.max_input_ports),
			MaxOutputPorts: uint32(info.max_output_ports),
			NInputPorts:    uint32(info.n_input_ports),
			NOutputPorts:   uint32(info.n_output_ports),
			State:          NodeState(info.state),
			Error:          goStringOrEmpty(info.error),
			ChangeMask:     mask,
			Props:          prev.Props,
			Params:         prev.Params,
		}

		if mask&NodeChangeProps != 0 || node.Props == nil {
			node.Props = propertiesFromDict(info.props)
		}

		if mask&NodeChangeParams != 0 || node.Params == nil {
			node.Params = paramInfos(info.params, info.n_params)
		}

		liftProps(node.Props, &node)
		proxy.deliverInfo(node)
	}
}

//export go_portInfo
func go_portInfo(handle C.uintptr_t, info *C.struct_pw_port_info) {
	if proxy, ok := proxyFor(handle); ok && info != nil {
		prev, _ := proxy.Info().(PortInfo)
		mask := uint64(info.change_mask)

		port := PortInfo{
			ID:         uint32(info.id),
			Direction:  spa.Direction(info.direction),
			ChangeMask: mask,
			Props:      prev.Props,
			Params:     prev.Params,
		}

		if mask&PortChangeProps != 0 || port.Props == nil {
			port.Props = propertiesFromDict(info.props)
		}

		if mask&PortChangeParams != 0 || port.Params == nil {
			port.Params = paramInfos(info.params, info.n_params)
		}

		liftProps(port.Props, &port)
		proxy.deliverInfo(port)
	}
}

//export go_linkInfo
func go_linkInfo(handle C.uintptr_t, info *C.struct_pw_link_info) {
	if proxy, ok := proxyFor(handle); ok && info != nil {
		prev, _ := proxy.Info().(LinkInfo)
		mask := uint64(info.change_mask)

		link := LinkInfo{
			ID:           uint32(info.id),
			OutputNodeID: uint32(info.output_node_id),
			OutputPortID: uint32(info.output_port_id),
			InputNodeID:  uint32(info.input_node_id),
			InputPortID:  uint32(info.input_port_id),
			State:        LinkState(info.state),
			Error:        goStringOrEmpty(info.error),
			ChangeMask:   mask,
			Format:       prev.Format,
			Props:        prev.Props,
		}

		if mask&LinkChangeFormat != 0 || link.Format == nil {
			link.Format = nil

			if data := podBytes(unsafe.Pointer(info.format), C.pwgo_pod_size(info.format)); len(data) > 0 {
				if value, _, err := pod.Unmarshal(data); err == nil {
					link.Format = value
				}
			}
		}

		if mask&LinkChangeProps != 0 || link.Props == nil {
			link.Props = propertiesFromDict(info.props)
		}

		proxy.deliverInfo(link)
	}
}

//export go_deviceInfo
func go_deviceInfo(handle C.uintptr_t, info *C.struct_pw_device_info) {
	if proxy, ok := proxyFor(handle); ok && info != nil {
		prev, _ := proxy.Info().(DeviceInfo)
		mask := uint64(info.change_mask)

		device := DeviceInfo{
			ID:         uint32(info.id),
			ChangeMask: mask,
			Props:      prev.Props,
			Params:     prev.Params,
		}

		if mask&DeviceChangeProps != 0 || device.Props == nil {
			device.Props = propertiesFromDict(info.props)
		}

		if mask&DeviceChangeParams != 0 || device.Params == nil {
			device.Params = paramInfos(info.params, info.n_params)
		}

		liftProps(device.Props, &device)
		proxy.deliverInfo(device)
	}
}

//export go_clientInfo
func go_clientInfo(handle C.uintptr_t, info *C.struct_pw_client_info) {
	if proxy, ok := proxyFor(handle); ok && info != nil {
		prev, _ := proxy.Info().(ClientInfo)
		mask := uint64(info.change_mask)

		client := ClientInfo{
			ID:         uint32(info.id),
			ChangeMask: mask,
			Props:      prev.Props,
		}

		if mask&ClientChangeProps != 0 || client.Props == nil {
			client.Props = propertiesFromDict(info.props)
		}

		liftProps(client.Props, &client)
		proxy.deliverInfo(client)
	}
}

//export go_factoryInfo
func go_factoryInfo(handle C.uintptr_t, info *C.struct_pw_factory_info) {
	if proxy, ok := proxyFor(handle); ok && info != nil {
		proxy.deliverInfo(FactoryInfo{
			ID:         uint32(info.id),
			Name:       goStringOrEmpty(info.name),
			Type:       ObjectType(goStringOrEmpty(info._type)),
			Version:    uint32(info.version),
			ChangeMask: uint64(info.change_mask),
			Props:      propertiesFromDict(info.props),
		})
	}
}
