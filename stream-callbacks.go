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

//export go_streamStateChanged
func go_streamStateChanged(handle C.uintptr_t, old C.int, state C.int, err *C.char) {
	if stream, ok := cgoget(uintptr(handle)).(*Stream); ok {
		stream.setState(StreamStateChange{
			Old:   StreamState(old),
			New:   StreamState(state),
			Error: goStringOrEmpty(err),
		})
	}
}

//export go_streamParamChanged
func go_streamParamChanged(handle C.uintptr_t, id C.uint32_t, param unsafe.Pointer, size C.uint32_t) {
	if stream, ok := cgoget(uintptr(handle)).(*Stream); ok {
		var value pod.Value

		if data := podBytes(param, size); len(data) > 0 {
			if v, _, err := pod.Unmarshal(data); err == nil {
				value = v
			} else {
				log.Debugf("pipewire: stream %q: undecodable %v param: %v", stream.Name, spa.ParamType(id), err)
				return
			}
		}

		stream.paramChanged(spa.ParamType(id), value)
	}
}

//export go_streamProcess
func go_streamProcess(handle C.uintptr_t) {
	if stream, ok := cgoget(uintptr(handle)).(*Stream); ok && stream.Process != nil {
		stream.Process(stream)
	}
}

//export go_streamDrained
func go_streamDrained(handle C.uintptr_t) {
	if stream, ok := cgoget(uintptr(handle)).(*Stream); ok {
		stream.signalDrained()
	}
}

//export go_filterStateChanged
func go_filterStateChanged(handle C.uintptr_t, old C.int, state C.int, err *C.char) {
	if filter, ok := cgoget(uintptr(handle)).(*DSPFilter); ok {
		filter.setState(FilterStateChange{
			Old:   FilterState(old),
			New:   FilterState(state),
			Error: goStringOrEmpty(err),
		})
	}
}

//export go_filterProcess
func go_filterProcess(handle C.uintptr_t, duration C.uint64_t, rate C.uint32_t) {
	if filter, ok := cgoget(uintptr(handle)).(*DSPFilter); ok {
		filter.process(FilterPosition{
			Duration: uint64(duration),
			Rate:     uint32(rate),
		})
	}
}
