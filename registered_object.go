package pipewire

import (
	"sync"
	"sync/atomic"
)

// Go objects that native code calls back into are kept here and handed to C
// as an integer handle, since Go pointers may not be retained by C.
var registeredObjects sync.Map
var lastHandle uint64

type Registerable interface {
	Handle() uintptr
}

func cgoregister(obj interface{}) uintptr {
	handle := uintptr(atomic.AddUint64(&lastHandle, 1))
	registeredObjects.Store(handle, obj)
	return handle
}

func cgoget(handle uintptr) interface{} {
	value, _ := registeredObjects.Load(handle)
	return value
}

func cgounregister(handle uintptr) {
	registeredObjects.Delete(handle)
}
