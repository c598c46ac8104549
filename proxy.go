package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/go-stockutil/log"
)

// A ParamEvent is a param reported by a node, port or device, either as the
// answer to EnumParams or because the param changed after SubscribeParams.
type ParamEvent struct {
	Seq   int           `json:"seq"`
	ID    spa.ParamType `json:"id"`
	Index uint32        `json:"index"`
	Next  uint32        `json:"next"`
	Pod   pod.Value     `json:"pod"`
	Data  []byte        `json:"-"`
}

// A Proxy is the client side of a server object. Typed objects (Node, Port
// and so on) embed a Proxy.
type Proxy struct {
	Conn          *Conn
	Type          ObjectType
	Version       uint32
	proxy         *C.struct_pw_proxy
	listener      *C.pwgo_listener
	handle        uintptr
	lock          sync.Mutex
	info          interface{}
	infoHandlers  []func(interface{})
	paramHandlers []func(ParamEvent)
	params        chan ParamEvent
	collector     *Operation
	collectSeq    int
	enumLock      sync.Mutex
	removed       chan struct{}
	removedOnce   sync.Once
	bound         chan error
	destroyOnce   sync.Once
}

// newProxy wraps a native proxy. The loop lock must be held.
func newProxy(conn *Conn, ptr *C.struct_pw_proxy, objectType ObjectType, version uint32) *Proxy {
	rv := &Proxy{
		Conn:    conn,
		Type:    objectType,
		Version: version,
		proxy:   ptr,
		removed: make(chan struct{}),
		bound:   make(chan error, 1),
	}

	rv.handle = cgoregister(rv)
	rv.listener = C.pwgo_listener_new(C.uintptr_t(rv.handle))
	C.pwgo_proxy_add_listener(rv.proxy, rv.listener)

	conn.track(rv.handle, rv.release)

	return rv
}

// attach hooks up the interface events of the proxy's type. The loop lock
// must be held.
func (self *Proxy) attach() error {
	var res C.int

	switch self.Type {
	case TypeNode:
		res = C.pwgo_node_add_listener(self.proxy, self.listener)
	case TypePort:
		res = C.pwgo_port_add_listener(self.proxy, self.listener)
	case TypeLink:
		res = C.pwgo_link_add_listener(self.proxy, self.listener)
	case TypeDevice:
		res = C.pwgo_device_add_listener(self.proxy, self.listener)
	case TypeClient:
		res = C.pwgo_client_add_listener(self.proxy, self.listener)
	case TypeFactory:
		res = C.pwgo_factory_add_listener(self.proxy, self.listener)
	}

	return CheckResult(int(res))
}

func (self *Proxy) Handle() uintptr {
	return self.handle
}

// The local id of the proxy.
func (self *Proxy) ID() uint32 {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.proxy == nil {
		return IDAny
	}

	return uint32(C.pw_proxy_get_id(self.proxy))
}

// The id of the global this proxy is bound to.
func (self *Proxy) BoundID() uint32 {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.proxy == nil {
		return IDAny
	}

	return uint32(C.pw_proxy_get_bound_id(self.proxy))
}

// Removed is closed once the server removed the object or the proxy was
// destroyed.
func (self *Proxy) Removed() <-chan struct{} {
	return self.removed
}

func (self *Proxy) markRemoved() {
	self.removedOnce.Do(func() {
		close(self.removed)
	})
}

// waitBound blocks until the server bound the proxy to a global or reported
// an error for it.
func (self *Proxy) waitBound(timeout time.Duration) error {
	select {
	case err := <-self.bound:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("Timed out waiting for %s to be bound (timeout: %s)", self.Type.Short(), timeout)
	}
}

func (self *Proxy) signalBound(err error) {
	select {
	case self.bound <- err:
	default:
	}
}

// Info returns the last info reported for the object, or nil.
func (self *Proxy) Info() interface{} {
	self.lock.Lock()
	defer self.lock.Unlock()

	return self.info
}

// OnInfo registers a function called on the loop thread for every info
// update. It must not block.
func (self *Proxy) OnInfo(handler func(interface{})) {
	self.lock.Lock()
	self.infoHandlers = append(self.infoHandlers, handler)
	self.lock.Unlock()
}

// OnParam registers a function called on the loop thread for every param
// event. It must not block.
func (self *Proxy) OnParam(handler func(ParamEvent)) {
	self.lock.Lock()
	self.paramHandlers = append(self.paramHandlers, handler)
	self.lock.Unlock()
}

// Params returns a channel receiving every param event of the object.
func (self *Proxy) Params() <-chan ParamEvent {
	self.lock.Lock()
	defer self.lock.Unlock()

	if self.params == nil {
		self.params = make(chan ParamEvent, DefaultEventBuffer)
	}

	return self.params
}

func (self *Proxy) deliverInfo(info interface{}) {
	self.lock.Lock()
	self.info = info
	handlers := append([]func(interface{}){}, self.infoHandlers...)
	self.lock.Unlock()

	for _, handler := range handlers {
		handler(info)
	}
}

func (self *Proxy) deliverParam(event ParamEvent) {
	self.lock.Lock()
	collector := self.collector
	collectSeq := self.collectSeq
	handlers := append([]func(ParamEvent){}, self.paramHandlers...)
	params := self.params
	self.lock.Unlock()

	if collector != nil && event.Seq == collectSeq {
		payload := collector.AddPayload()
		payload.Data = event.Data
		payload.Properties[`id`] = event.ID
		payload.Properties[`index`] = event.Index
		payload.Properties[`next`] = event.Next
	}

	for _, handler := range handlers {
		handler(event)
	}

	if params != nil {
		select {
		case params <- event:
		default:
			log.Debugf("pipewire: param channel of %s %d full, dropped %v", self.Type.Short(), self.BoundID(), event.ID)
		}
	}
}

func (self *Proxy) failCollector(err error) {
	self.lock.Lock()
	collector := self.collector
	self.lock.Unlock()

	if collector != nil {
		collector.complete(err)
	}
}

// enumParams collects the params of the given type until the server has
// answered the request.
func (self *Proxy) enumParams(paramType spa.ParamType, filter pod.Value) ([]pod.Value, error) {
	if self.Conn.InLoopThread() {
		return nil, LoopThreadErr
	}

	var cFilter unsafe.Pointer

	if filter != nil {
		if data, err := pod.Marshal(filter); err == nil {
			cFilter = C.CBytes(data)
			defer C.free(cFilter)
		} else {
			return nil, err
		}
	}

	self.enumLock.Lock()
	defer self.enumLock.Unlock()

	operation := NewOperation(self.Conn)
	defer operation.Destroy()

	seq := self.Conn.nextSeq()

	self.lock.Lock()
	self.collector = operation
	self.collectSeq = seq
	self.lock.Unlock()

	defer func() {
		self.lock.Lock()
		self.collector = nil
		self.lock.Unlock()
	}()

	self.Conn.Lock()

	var res C.int
	var err error

	if self.proxy == nil {
		err = NotConnectedErr
	} else {
		switch self.Type {
		case TypeNode:
			res = C.pwgo_node_enum_params(self.proxy, C.int(seq), C.uint32_t(paramType), 0, 0, (*C.struct_spa_pod)(cFilter))
		case TypePort:
			res = C.pwgo_port_enum_params(self.proxy, C.int(seq), C.uint32_t(paramType), 0, 0, (*C.struct_spa_pod)(cFilter))
		case TypeDevice:
			res = C.pwgo_device_enum_params(self.proxy, C.int(seq), C.uint32_t(paramType), 0, 0, (*C.struct_spa_pod)(cFilter))
		default:
			err = fmt.Errorf("%s objects have no params: %w", self.Type.Short(), TypeMismatchErr)
		}
	}

	if err == nil {
		err = CheckResult(int(res))
	}

	if err == nil {
		self.Conn.trackOperation(operation, int(res))
		err = self.Conn.syncOperation(operation)
	}

	self.Conn.Unlock()

	if err != nil {
		return nil, err
	}

	values := make([]pod.Value, 0)

	return values, operation.WaitSuccess(func(op *Operation) error {
		op.lock.Lock()
		defer op.lock.Unlock()

		for _, payload := range op.Payloads {
			if value, _, err := pod.Unmarshal(payload.Data); err == nil {
				values = append(values, value)
			} else {
				return fmt.Errorf("param %v: %w", paramType, err)
			}
		}

		return nil
	})
}

func (self *Proxy) subscribeParams(paramTypes ...spa.ParamType) error {
	ids := make([]C.uint32_t, len(paramTypes)+1)

	for i, paramType := range paramTypes {
		ids[i] = C.uint32_t(paramType)
	}

	self.Conn.Lock()
	defer self.Conn.Unlock()

	if self.proxy == nil {
		return NotConnectedErr
	}

	var res C.int
	n := C.uint32_t(len(paramTypes))

	switch self.Type {
	case TypeNode:
		res = C.pwgo_node_subscribe_params(self.proxy, &ids[0], n)
	case TypePort:
		res = C.pwgo_port_subscribe_params(self.proxy, &ids[0], n)
	case TypeDevice:
		res = C.pwgo_device_subscribe_params(self.proxy, &ids[0], n)
	default:
		return fmt.Errorf("%s objects have no params: %w", self.Type.Short(), TypeMismatchErr)
	}

	return CheckResult(int(res))
}

func (self *Proxy) setParam(paramType spa.ParamType, flags uint32, value pod.Value) error {
	data, err := pod.Marshal(value)
	if err != nil {
		return err
	}

	cParam := C.CBytes(data)
	defer C.free(cParam)

	return self.Conn.invoke(func() (C.int, error) {
		if self.proxy == nil {
			return 0, NotConnectedErr
		}

		switch self.Type {
		case TypeNode:
			return C.pwgo_node_set_param(self.proxy, C.uint32_t(paramType), C.uint32_t(flags), (*C.struct_spa_pod)(cParam)), nil
		case TypeDevice:
			return C.pwgo_device_set_param(self.proxy, C.uint32_t(paramType), C.uint32_t(flags), (*C.struct_spa_pod)(cParam)), nil
		default:
			return 0, fmt.Errorf("%s params cannot be set: %w", self.Type.Short(), TypeMismatchErr)
		}
	})
}

// Destroy the proxy. The object on the server is left alone.
func (self *Proxy) Destroy() {
	self.Conn.Lock()
	defer self.Conn.Unlock()

	self.destroyLocked()
}

func (self *Proxy) destroyLocked() {
	self.destroyOnce.Do(func() {
		self.unhook()

		if self.proxy != nil {
			C.pw_proxy_destroy(self.proxy)
			self.proxy = nil
		}

		log.Debugf("pipewire: destroyed %s proxy", self.Type.Short())
	})
}

// release is run by the Conn on destroy; the native proxy goes away with
// the core.
func (self *Proxy) release() {
	self.destroyOnce.Do(func() {
		self.unhook()
		self.proxy = nil
	})
}

func (self *Proxy) unhook() {
	if self.listener != nil {
		C.pwgo_listener_free(self.listener)
		self.listener = nil
	}

	cgounregister(self.handle)
	self.Conn.untrack(self.handle)
	self.failCollector(NotConnectedErr)
	self.markRemoved()
}
