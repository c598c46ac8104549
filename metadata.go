package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"fmt"
	"unsafe"
)

const (
	DefaultMetadataName = `default`
	MetadataTypeJSON    = `Spa:String:JSON`
	MetadataTypeID      = `Spa:Id`
	KeyMetadataName     = `metadata.name`
	KeyTargetNode       = `target.node`
)

// Metadata is a shared key/value store attached to objects. The session
// manager reads `target.object` from the default metadata to route streams.
type Metadata struct {
	*Proxy
	Name string
}

func (self *Registry) BindMetadata(id uint32) (*Metadata, error) {
	global, ok := self.Global(id)
	if !ok {
		return nil, fmt.Errorf("global %d: %w", id, NoSuchObjectErr)
	}

	if proxy, err := self.bindAs(id, TypeMetadata); err == nil {
		return &Metadata{
			Proxy: proxy,
			Name:  global.Props.Get(KeyMetadataName),
		}, nil
	} else {
		return nil, err
	}
}

// Bind the metadata object with the given name.
func (self *Conn) GetMetadata(name string) (*Metadata, error) {
	globals, err := self.GetGlobals(`type` + FieldValueSeparator + string(TypeMetadata))
	if err != nil {
		return nil, err
	}

	for _, global := range globals {
		if global.Props.Get(KeyMetadataName) == name {
			return self.registry.BindMetadata(global.ID)
		}
	}

	return nil, fmt.Errorf("metadata %q: %w", name, NoSuchObjectErr)
}

// Set a key on the given subject. An empty value removes the key.
func (self *Metadata) SetProperty(subject uint32, key string, valueType string, value string) error {
	cKey := C.CString(key)
	defer C.free(unsafe.Pointer(cKey))

	var cType, cValue *C.char

	if value != `` {
		cValue = C.CString(value)
		defer C.free(unsafe.Pointer(cValue))

		if valueType != `` {
			cType = C.CString(valueType)
			defer C.free(unsafe.Pointer(cType))
		}
	}

	return self.Conn.invoke(func() (C.int, error) {
		if self.proxy == nil {
			return 0, NotConnectedErr
		}

		return C.pwgo_metadata_set_property(self.proxy, C.uint32_t(subject), cKey, cType, cValue), nil
	})
}

// Remove every key of every subject.
func (self *Metadata) Clear() error {
	return self.Conn.invoke(func() (C.int, error) {
		if self.proxy == nil {
			return 0, NotConnectedErr
		}

		return C.pwgo_metadata_clear(self.proxy), nil
	})
}

func (self *Metadata) Map() map[string]interface{} {
	return map[string]interface{}{
		`id`:   self.BoundID(),
		`name`: self.Name,
	}
}
