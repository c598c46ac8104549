package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"fmt"
	"syscall"
)

// createContext creates the local context on the Conn's loop. The context
// carries the Conn's properties, with `application.name` defaulting to the
// Conn's name.
func (self *Conn) createContext() error {
	if self.loop == nil {
		return fmt.Errorf("Uninitialized PipeWire thread loop")
	}

	contextProps := self.Properties.Merge(nil)

	if self.Name != `` {
		contextProps.SetDefault(KeyApplicationName, self.Name)
	}

	// the context takes ownership of the properties
	self.context = C.pw_context_new(C.pw_thread_loop_get_loop(self.loop), contextProps.toNative(), 0)

	if self.context == nil {
		return fmt.Errorf("Failed to create PipeWire context: %w", CannotCreateInstanceErr)
	}

	return nil
}

// connectCore connects the context to the daemon, or to Remote when set, and
// starts listening for core events. The loop lock must be held.
func (self *Conn) connectCore() error {
	if self.context == nil {
		return fmt.Errorf("Uninitialized PipeWire context")
	}

	connectProps := make(Properties)

	if self.Remote != `` {
		connectProps.Set(KeyRemoteName, self.Remote)
	}

	core, errno := C.pw_context_connect(self.context, connectProps.toNative(), 0)

	if core == nil {
		if errno != nil && errno != syscall.Errno(0) {
			return fmt.Errorf("Failed to connect to PipeWire: %v: %w", errno, NotConnectedErr)
		}

		return fmt.Errorf("Failed to connect to PipeWire: %w", NotConnectedErr)
	}

	self.core = core
	self.listener = C.pwgo_listener_new(C.uintptr_t(self.handle))
	C.pwgo_core_add_listener(self.core, self.listener)

	return nil
}

// destroyContext disconnects the core and frees the context. The loop must
// not be running.
func (self *Conn) destroyContext() {
	if self.listener != nil {
		C.pwgo_listener_free(self.listener)
		self.listener = nil
	}

	if self.core != nil {
		C.pw_core_disconnect(self.core)
		self.core = nil
	}

	if self.context != nil {
		C.pw_context_destroy(self.context)
		self.context = nil
	}
}
