package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/ghetzel/go-stockutil/log"
)

type Permission uint32

const (
	PermissionRead     Permission = 0400
	PermissionWrite    Permission = 0200
	PermissionExecute  Permission = 0100
	PermissionMetadata Permission = 0010
	PermissionLink     Permission = 0020

	PermissionAll = PermissionRead | PermissionWrite | PermissionExecute | PermissionMetadata
)

func (self Permission) Has(perm Permission) bool {
	return self&perm == perm
}

// String renders the permissions like `rwxml`, with `-` for missing bits.
func (self Permission) String() string {
	var sb strings.Builder

	for _, bit := range []struct {
		perm Permission
		name byte
	}{
		{PermissionRead, 'r'},
		{PermissionWrite, 'w'},
		{PermissionExecute, 'x'},
		{PermissionMetadata, 'm'},
		{PermissionLink, 'l'},
	} {
		if self.Has(bit.perm) {
			sb.WriteByte(bit.name)
		} else {
			sb.WriteByte('-')
		}
	}

	return sb.String()
}

// A Global is an object announced by the registry.
type Global struct {
	ID          uint32     `json:"id"`
	Permissions Permission `json:"permissions"`
	Type        ObjectType `json:"type"`
	Version     uint32     `json:"version"`
	Props       Properties `json:"props"`
}

func (self Global) Map() map[string]interface{} {
	return infoMap(map[string]interface{}{
		`id`:          self.ID,
		`permissions`: self.Permissions.String(),
		`type`:        string(self.Type),
		`version`:     self.Version,
	}, self.Props)
}

// A Registry tracks the globals of the server and binds proxies to them.
type Registry struct {
	conn        *Conn
	registry    *C.struct_pw_registry
	listener    *C.pwgo_listener
	handle      uintptr
	globals     map[uint32]Global
	subscribers []*eventQueue
	lock        sync.RWMutex
}

func newRegistry(conn *Conn) (*Registry, error) {
	rv := &Registry{
		conn:    conn,
		globals: make(map[uint32]Global),
	}

	conn.Lock()
	defer conn.Unlock()

	if err := conn.connected(); err != nil {
		return nil, err
	}

	rv.registry = C.pwgo_core_get_registry(conn.core, C.uint32_t(TypeRegistry.Version()))
	if rv.registry == nil {
		return nil, fmt.Errorf("Failed to get registry: %w", NullPointerErr)
	}

	rv.handle = cgoregister(rv)
	rv.listener = C.pwgo_listener_new(C.uintptr_t(rv.handle))
	C.pwgo_registry_add_listener(rv.registry, rv.listener)

	return rv, nil
}

func (self *Registry) Handle() uintptr {
	return self.handle
}

// Globals returns a snapshot of all known globals ordered by id.
func (self *Registry) Globals() []Global {
	self.lock.RLock()
	defer self.lock.RUnlock()

	globals := make([]Global, 0, len(self.globals))

	for _, global := range self.globals {
		globals = append(globals, global)
	}

	sort.Slice(globals, func(i, j int) bool {
		return globals[i].ID < globals[j].ID
	})

	return globals
}

func (self *Registry) Global(id uint32) (Global, bool) {
	self.lock.RLock()
	defer self.lock.RUnlock()

	global, ok := self.globals[id]
	return global, ok
}

func (self *Registry) addGlobal(global Global) {
	self.lock.Lock()
	self.globals[global.ID] = global
	self.lock.Unlock()

	self.broadcast(RegistryEvent{
		Type:   GlobalAdded,
		Global: global,
	})
}

func (self *Registry) removeGlobal(id uint32) {
	self.lock.Lock()
	global, ok := self.globals[id]
	delete(self.globals, id)
	self.lock.Unlock()

	if !ok {
		global = Global{
			ID: id,
		}
	}

	self.broadcast(RegistryEvent{
		Type:   GlobalRemoved,
		Global: global,
	})
}

// Bind a proxy to the global with the given id, using the global's type.
func (self *Registry) Bind(id uint32) (*Proxy, error) {
	global, ok := self.Global(id)
	if !ok {
		return nil, fmt.Errorf("global %d: %w", id, NoSuchObjectErr)
	}

	return self.bindAs(global.ID, global.Type)
}

func (self *Registry) bindAs(id uint32, objectType ObjectType) (*Proxy, error) {
	global, ok := self.Global(id)
	if !ok {
		return nil, fmt.Errorf("global %d: %w", id, NoSuchObjectErr)
	}

	if global.Type != objectType {
		return nil, fmt.Errorf("global %d is a %s, not a %s: %w", id, global.Type.Short(), objectType.Short(), TypeMismatchErr)
	}

	version := objectType.Version()

	if version == 0 {
		return nil, fmt.Errorf("cannot bind %s objects: %w", global.Type, TypeMismatchErr)
	} else if global.Version < version {
		return nil, fmt.Errorf("global %d has version %d, need %d: %w", id, global.Version, version, VersionMismatchErr)
	}

	cType := C.CString(string(objectType))
	defer C.free(unsafe.Pointer(cType))

	self.conn.Lock()
	defer self.conn.Unlock()

	if self.registry == nil {
		return nil, NotConnectedErr
	}

	ptr := C.pwgo_registry_bind(self.registry, C.uint32_t(id), cType, C.uint32_t(version))
	if ptr == nil {
		return nil, fmt.Errorf("Failed to bind global %d: %w", id, CannotCreateInstanceErr)
	}

	proxy := newProxy(self.conn, (*C.struct_pw_proxy)(ptr), objectType, version)

	if err := proxy.attach(); err != nil {
		proxy.destroyLocked()
		return nil, err
	}

	log.Debugf("pipewire: bound %s %d", objectType.Short(), id)

	return proxy, nil
}

func (self *Registry) BindNode(id uint32) (*Node, error) {
	if proxy, err := self.bindAs(id, TypeNode); err == nil {
		return &Node{
			Proxy: proxy,
		}, nil
	} else {
		return nil, err
	}
}

func (self *Registry) BindPort(id uint32) (*Port, error) {
	if proxy, err := self.bindAs(id, TypePort); err == nil {
		return &Port{
			Proxy: proxy,
		}, nil
	} else {
		return nil, err
	}
}

func (self *Registry) BindLink(id uint32) (*Link, error) {
	if proxy, err := self.bindAs(id, TypeLink); err == nil {
		return &Link{
			Proxy: proxy,
		}, nil
	} else {
		return nil, err
	}
}

func (self *Registry) BindDevice(id uint32) (*Device, error) {
	if proxy, err := self.bindAs(id, TypeDevice); err == nil {
		return &Device{
			Proxy: proxy,
		}, nil
	} else {
		return nil, err
	}
}

func (self *Registry) BindClient(id uint32) (*Client, error) {
	if proxy, err := self.bindAs(id, TypeClient); err == nil {
		return &Client{
			Proxy: proxy,
		}, nil
	} else {
		return nil, err
	}
}

func (self *Registry) BindFactory(id uint32) (*Factory, error) {
	if proxy, err := self.bindAs(id, TypeFactory); err == nil {
		return &Factory{
			Proxy: proxy,
		}, nil
	} else {
		return nil, err
	}
}

// Destroy asks the server to destroy a global.
func (self *Registry) Destroy(id uint32) error {
	if _, ok := self.Global(id); !ok {
		return fmt.Errorf("global %d: %w", id, NoSuchObjectErr)
	}

	return self.conn.invoke(func() (C.int, error) {
		if self.registry == nil {
			return 0, NotConnectedErr
		}

		return C.pwgo_registry_destroy(self.registry, C.uint32_t(id)), nil
	})
}

// release frees the native registry. The loop must not be running.
func (self *Registry) release() {
	if self.listener != nil {
		C.pwgo_listener_free(self.listener)
		self.listener = nil
	}

	if self.registry != nil {
		C.pw_proxy_destroy((*C.struct_pw_proxy)(unsafe.Pointer(self.registry)))
		self.registry = nil
	}

	cgounregister(self.handle)

	self.lock.Lock()
	defer self.lock.Unlock()

	for _, sub := range self.subscribers {
		sub.close()
	}

	self.subscribers = nil
}
