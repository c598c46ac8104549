package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/maputil"
	"github.com/ghetzel/go-stockutil/typeutil"
)

// A Module is a plugin loaded into the local context, extending this client
// with factories or objects (a virtual sink, a network tunnel, ...).
//
type Module struct {
	Argument   string
	Index      uint32
	Name       string
	Filename   string
	Properties Properties
	conn       *Conn
	impl       *C.struct_pw_impl_module
}

func (self *Module) P(key string) typeutil.Variant {
	return maputil.M(self.Properties.Map()).Get(key)
}

func (self *Module) Map() map[string]interface{} {
	return infoMap(map[string]interface{}{
		`index`:    self.Index,
		`name`:     self.Name,
		`filename`: self.Filename,
		`argument`: self.Argument,
	}, self.Properties)
}

// Synchronize this module's data with its native state.
func (self *Module) Refresh() error {
	self.conn.Lock()
	defer self.conn.Unlock()

	if self.impl == nil {
		return fmt.Errorf("The '%s' module is not loaded", self.Name)
	}

	info := C.pw_impl_module_get_info(self.impl)
	if info == nil {
		return fmt.Errorf("Invalid module response: %w", NullPointerErr)
	}

	self.Index = uint32(info.id)
	self.Name = goStringOrEmpty(info.name)
	self.Filename = goStringOrEmpty(info.filename)
	self.Argument = goStringOrEmpty(info.args)
	self.Properties = propertiesFromDict(info.props)

	return nil
}

// Return whether the module is currently loaded or not
func (self *Module) IsLoaded() bool {
	return (self.impl != nil)
}

// Load the module if it is not currently loaded
func (self *Module) Load(props Properties) error {
	if self.IsLoaded() {
		return nil
	}

	cName := C.CString(self.Name)
	defer C.free(unsafe.Pointer(cName))

	var cArgs *C.char

	if self.Argument != `` {
		cArgs = C.CString(self.Argument)
		defer C.free(unsafe.Pointer(cArgs))
	}

	self.conn.Lock()

	if self.conn.context == nil {
		self.conn.Unlock()
		return NotConnectedErr
	}

	// the module takes ownership of the properties
	self.impl = C.pw_context_load_module(self.conn.context, cName, cArgs, props.toNative())
	self.conn.Unlock()

	if self.impl == nil {
		return fmt.Errorf("%s: %w", self.Name, NoSuchModuleErr)
	}

	self.conn.track(uintptr(unsafe.Pointer(self.impl)), self.release)
	log.Debugf("pipewire: loaded module %s", self.Name)

	return self.Refresh()
}

// Unload the module if it is currently loaded
func (self *Module) Unload() error {
	if !self.IsLoaded() {
		return fmt.Errorf("The '%s' module is already unloaded", self.Name)
	}

	self.conn.Lock()
	defer self.conn.Unlock()

	self.conn.untrack(uintptr(unsafe.Pointer(self.impl)))
	self.release()

	return nil
}

func (self *Module) release() {
	if self.impl != nil {
		C.pw_impl_module_destroy(self.impl)
		self.impl = nil
	}
}
