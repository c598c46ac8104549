// Golang bindings for PipeWire 0.3.x
//
// A Conn owns a thread loop, a context and a core connection to the PipeWire
// daemon. Everything else (the registry, bound proxies, streams and filters)
// hangs off of a Conn and is driven by its loop thread.
package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"sync"
	"unsafe"

	"github.com/auroralaboratories/pipewire/spa"
)

const Version = `0.1.0`

var initLock sync.Mutex
var initCount int

// Init initializes the native library. Calls are reference counted, so every
// Init must be paired with a Deinit.
func Init() {
	initLock.Lock()
	defer initLock.Unlock()

	if initCount == 0 {
		C.pw_init(nil, nil)
	}

	initCount++
}

// Deinit releases the native library once the last user is gone.
func Deinit() {
	initLock.Lock()
	defer initLock.Unlock()

	if initCount == 0 {
		return
	}

	initCount--

	if initCount == 0 {
		C.pw_deinit()
	}
}

func goStringOrEmpty(s *C.char) string {
	if s == nil {
		return ``
	}

	return C.GoString(s)
}

func UserName() string {
	return goStringOrEmpty(C.pw_get_user_name())
}

func HostName() string {
	return goStringOrEmpty(C.pw_get_host_name())
}

func ProgramName() string {
	return goStringOrEmpty(C.pw_get_prgname())
}

func ApplicationName() string {
	return goStringOrEmpty(C.pw_get_application_name())
}

func ClientName() string {
	return goStringOrEmpty(C.pw_get_client_name())
}

// Domain returns the support library domain, which is empty unless set.
func Domain() string {
	return goStringOrEmpty(C.pw_get_domain())
}

func SetDomain(domain string) error {
	cDomain := C.CString(domain)
	defer C.free(unsafe.Pointer(cDomain))

	return CheckResult(int(C.pw_set_domain(cDomain)))
}

func InValgrind() bool {
	return bool(C.pw_in_valgrind())
}

func DebugCategoryEnabled(name string) bool {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return bool(C.pw_debug_is_category_enabled(cName))
}

// The version of the library loaded at runtime.
func LibraryVersion() string {
	return goStringOrEmpty(C.pw_get_library_version())
}

// The version of the headers this package was compiled against.
func HeadersVersion() string {
	return goStringOrEmpty(C.pwgo_headers_version())
}

func DirectionReverse(direction spa.Direction) spa.Direction {
	return direction.Reverse()
}
