package pipewire

// #include "pipewire.go.h"
// #cgo pkg-config: libpipewire-0.3
import "C"

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/stringutil"
)

type ClientLockFunc func() error

const (
	IDCore uint32 = 0
	IDAny  uint32 = 0xffffffff
)

// The buffer size of event channels handed out by this package. Events are
// dropped rather than blocking the loop thread when a channel is full.
var DefaultEventBuffer = 256

var LoopThreadErr = fmt.Errorf("cannot wait for the server from the loop thread")

type ConnOptions struct {
	Name             string
	Remote           string
	OperationTimeout time.Duration
	Properties       Properties
}

// A PipeWire Conn represents a connection to a PipeWire daemon. A Conn owns a
// thread loop that dispatches all events; callbacks registered on any object
// belonging to the Conn run on that thread with the loop lock held. A Conn is
// the primary entry point for working with PipeWire objects and data.
type Conn struct {
	ID               string
	Name             string
	Remote           string
	OperationTimeout time.Duration
	Properties       Properties
	loop             *C.struct_pw_thread_loop
	context          *C.struct_pw_context
	core             *C.struct_pw_core
	listener         *C.pwgo_listener
	handle           uintptr
	registry         *Registry
	registryLock     sync.Mutex
	info             CoreInfo
	infoLock         sync.RWMutex
	pending          map[int]*Operation
	opLock           sync.Mutex
	errors           chan CoreError
	children         map[uintptr]func()
	childLock        sync.Mutex
	lastSeq          int32
	destroyOnce      sync.Once
}

func New(name string) (*Conn, error) {
	return NewWithOptions(ConnOptions{
		Name: name,
	})
}

func NewWithOptions(options ConnOptions) (*Conn, error) {
	if options.OperationTimeout == 0 {
		options.OperationTimeout = (time.Duration(DEFAULT_OPERATION_TIMEOUT_MSEC) * time.Millisecond)
	}

	rv := &Conn{
		ID:               stringutil.UUID().String(),
		Name:             options.Name,
		Remote:           options.Remote,
		OperationTimeout: options.OperationTimeout,
		Properties:       options.Properties,
		pending:          make(map[int]*Operation),
		errors:           make(chan CoreError, DefaultEventBuffer),
		children:         make(map[uintptr]func()),
	}

	if rv.Properties == nil {
		rv.Properties = make(Properties)
	}

	Init()
	rv.handle = cgoregister(rv)

	cName := C.CString(rv.Name)
	defer C.free(unsafe.Pointer(cName))

	rv.loop = C.pw_thread_loop_new(cName, nil)
	if rv.loop == nil {
		rv.Destroy()
		return nil, fmt.Errorf("Failed to create PipeWire thread loop: %w", NullPointerErr)
	}

	if err := rv.createContext(); err != nil {
		rv.Destroy()
		return nil, err
	}

	// lock the loop until the core is set up
	rv.Lock()

	// start the loop
	if err := rv.Start(); err != nil {
		rv.Unlock()
		rv.Destroy()
		return nil, err
	}

	if err := rv.connectCore(); err != nil {
		rv.Unlock()
		rv.Destroy()
		return nil, err
	}

	rv.Unlock()

	// the core info arrives before the first done event
	if err := rv.Roundtrip(); err != nil {
		rv.Destroy()
		return nil, err
	}

	log.Debugf("pipewire: connected %q (%s) to %v", rv.Name, rv.ID, rv.CoreInfo().Name)

	return rv, nil
}

func (self *Conn) Handle() uintptr {
	return self.handle
}

func (self *Conn) connected() error {
	if self.core == nil {
		return NotConnectedErr
	}

	return nil
}

// Errors returns core errors that no pending call was waiting for.
func (self *Conn) Errors() <-chan CoreError {
	return self.errors
}

// The most recently announced core info.
func (self *Conn) CoreInfo() CoreInfo {
	self.infoLock.RLock()
	defer self.infoLock.RUnlock()

	return self.info
}

// Retrieve information about the connected PipeWire daemon
//
func (self *Conn) GetCoreInfo() (CoreInfo, error) {
	if err := self.Roundtrip(); err != nil {
		return CoreInfo{}, err
	}

	return self.CoreInfo(), nil
}

func (self *Conn) nextSeq() int {
	return int(atomic.AddInt32(&self.lastSeq, 1))
}

// asyncSeq strips the async bit from method results and done events so they
// compare equal to the raw sequence numbers carried by error events.
func asyncSeq(seq int) int {
	return seq & 0x3fffffff
}

func (self *Conn) trackOperation(operation *Operation, seq int) {
	self.opLock.Lock()
	self.pending[asyncSeq(seq)] = operation
	self.opLock.Unlock()
}

func (self *Conn) forgetOperation(operation *Operation) {
	self.opLock.Lock()
	defer self.opLock.Unlock()

	for seq, op := range self.pending {
		if op == operation {
			delete(self.pending, seq)
		}
	}
}

func (self *Conn) completeOperation(seq int, err error) bool {
	self.opLock.Lock()
	operation, ok := self.pending[asyncSeq(seq)]
	self.opLock.Unlock()

	if ok {
		operation.complete(err)
	}

	return ok
}

func (self *Conn) failAllOperations(err error) {
	self.opLock.Lock()
	defer self.opLock.Unlock()

	for seq, operation := range self.pending {
		operation.complete(err)
		delete(self.pending, seq)
	}
}

// Sync asks the server to emit a done event carrying the returned sequence
// number once it has processed every request sent before it.
func (self *Conn) Sync(seq int) (int, error) {
	self.Lock()
	defer self.Unlock()

	if err := self.connected(); err != nil {
		return 0, err
	}

	res := int(C.pwgo_core_sync(self.core, C.uint32_t(IDCore), C.int(seq)))

	if err := CheckResult(res); err != nil {
		return 0, err
	}

	return res, nil
}

// syncOperation completes the operation when the server has caught up. The
// loop lock is held while the operation is registered so the done event
// cannot be missed.
func (self *Conn) syncOperation(operation *Operation) error {
	self.Lock()
	defer self.Unlock()

	seq, err := self.Sync(0)
	if err != nil {
		return err
	}

	operation.Seq = seq
	self.trackOperation(operation, seq)

	return nil
}

// Roundtrip blocks until the server has processed all pending requests.
func (self *Conn) Roundtrip() error {
	if self.InLoopThread() {
		return LoopThreadErr
	}

	operation := NewOperation(self)
	defer operation.Destroy()

	if err := self.syncOperation(operation); err != nil {
		return err
	}

	return operation.Wait()
}

// invoke calls a native method under the loop lock and waits until the
// server processed it. An error event for the method's sequence number fails
// the call.
func (self *Conn) invoke(method func() (C.int, error)) error {
	if self.InLoopThread() {
		return LoopThreadErr
	}

	operation := NewOperation(self)
	defer operation.Destroy()

	self.Lock()

	res, err := method()
	if err == nil {
		err = CheckResult(int(res))
	}

	if err == nil {
		self.trackOperation(operation, int(res))
		err = self.syncOperation(operation)
	}

	self.Unlock()

	if err != nil {
		return err
	}

	return operation.Wait()
}

// Retrieve the global registry, creating it on first use.
func (self *Conn) Registry() (*Registry, error) {
	self.registryLock.Lock()
	defer self.registryLock.Unlock()

	if self.registry != nil {
		return self.registry, nil
	}

	registry, err := newRegistry(self)
	if err != nil {
		return nil, err
	}

	self.registry = registry

	// wait for the initial burst of globals
	if err := self.Roundtrip(); err != nil {
		return nil, err
	}

	return registry, nil
}

// Retrieve all globals, optionally filtered.
func (self *Conn) GetGlobals(filters ...string) ([]Global, error) {
	registry, err := self.Registry()
	if err != nil {
		return nil, err
	}

	if err := self.Roundtrip(); err != nil {
		return nil, err
	}

	globals := make([]Global, 0)

	for _, global := range registry.Globals() {
		if F(filters).IsMatch(global) {
			globals = append(globals, global)
		}
	}

	return globals, nil
}

type boundObject interface {
	Destroy()
	Map() map[string]interface{}
}

// bindAll binds every global of the given type, waits for their info and
// keeps the ones matching the filters. The others are destroyed.
func (self *Conn) bindAll(objectType ObjectType, filters []string, bind func(*Registry, uint32) (boundObject, error)) ([]boundObject, error) {
	registry, err := self.Registry()
	if err != nil {
		return nil, err
	}

	if err := self.Roundtrip(); err != nil {
		return nil, err
	}

	bound := make([]boundObject, 0)

	for _, global := range registry.Globals() {
		if global.Type != objectType {
			continue
		}

		if obj, err := bind(registry, global.ID); err == nil {
			bound = append(bound, obj)
		} else if IsNoSuchObjectErr(err) {
			continue
		} else {
			for _, obj := range bound {
				obj.Destroy()
			}

			return nil, err
		}
	}

	// info events are sent right after binding
	if err := self.Roundtrip(); err != nil {
		for _, obj := range bound {
			obj.Destroy()
		}

		return nil, err
	}

	matched := make([]boundObject, 0, len(bound))

	for _, obj := range bound {
		if F(filters).IsMatch(obj) {
			matched = append(matched, obj)
		} else {
			obj.Destroy()
		}
	}

	return matched, nil
}

// Retrieve all nodes. The returned nodes stay bound until destroyed.
func (self *Conn) GetNodes(filters ...string) ([]*Node, error) {
	nodes := make([]*Node, 0)

	objects, err := self.bindAll(TypeNode, filters, func(registry *Registry, id uint32) (boundObject, error) {
		return registry.BindNode(id)
	})

	for _, obj := range objects {
		nodes = append(nodes, obj.(*Node))
	}

	return nodes, err
}

// Retrieve all ports.
func (self *Conn) GetPorts(filters ...string) ([]*Port, error) {
	ports := make([]*Port, 0)

	objects, err := self.bindAll(TypePort, filters, func(registry *Registry, id uint32) (boundObject, error) {
		return registry.BindPort(id)
	})

	for _, obj := range objects {
		ports = append(ports, obj.(*Port))
	}

	return ports, err
}

// Retrieve all links.
func (self *Conn) GetLinks(filters ...string) ([]*Link, error) {
	links := make([]*Link, 0)

	objects, err := self.bindAll(TypeLink, filters, func(registry *Registry, id uint32) (boundObject, error) {
		return registry.BindLink(id)
	})

	for _, obj := range objects {
		links = append(links, obj.(*Link))
	}

	return links, err
}

// Retrieve all devices.
func (self *Conn) GetDevices(filters ...string) ([]*Device, error) {
	devices := make([]*Device, 0)

	objects, err := self.bindAll(TypeDevice, filters, func(registry *Registry, id uint32) (boundObject, error) {
		return registry.BindDevice(id)
	})

	for _, obj := range objects {
		devices = append(devices, obj.(*Device))
	}

	return devices, err
}

// Retrieve all clients connected to PipeWire.
func (self *Conn) GetClients(filters ...string) ([]*Client, error) {
	clients := make([]*Client, 0)

	objects, err := self.bindAll(TypeClient, filters, func(registry *Registry, id uint32) (boundObject, error) {
		return registry.BindClient(id)
	})

	for _, obj := range objects {
		clients = append(clients, obj.(*Client))
	}

	return clients, err
}

// Retrieve all factories.
func (self *Conn) GetFactories(filters ...string) ([]*Factory, error) {
	factories := make([]*Factory, 0)

	objects, err := self.bindAll(TypeFactory, filters, func(registry *Registry, id uint32) (boundObject, error) {
		return registry.BindFactory(id)
	})

	for _, obj := range objects {
		factories = append(factories, obj.(*Factory))
	}

	return factories, err
}

// CreateObject asks a server-side factory to create an object and waits
// until it is bound to a global. A version of zero uses the default version
// for the type.
func (self *Conn) CreateObject(factory string, objectType ObjectType, version uint32, props Properties) (*Proxy, error) {
	if version == 0 {
		version = objectType.Version()
	}

	cFactory := C.CString(factory)
	defer C.free(unsafe.Pointer(cFactory))

	cType := C.CString(string(objectType))
	defer C.free(unsafe.Pointer(cType))

	self.Lock()

	if err := self.connected(); err != nil {
		self.Unlock()
		return nil, err
	}

	nativeProps := props.toNative()
	ptr := C.pwgo_core_create_object(self.core, cFactory, cType, C.uint32_t(version), &nativeProps.dict)
	C.pw_properties_free(nativeProps)

	if ptr == nil {
		self.Unlock()
		return nil, fmt.Errorf("Failed to create %s from factory %q: %w", objectType.Short(), factory, CannotCreateInstanceErr)
	}

	proxy := newProxy(self, (*C.struct_pw_proxy)(ptr), objectType, version)

	if err := proxy.attach(); err != nil {
		proxy.destroyLocked()
		self.Unlock()
		return nil, err
	}

	self.Unlock()

	if err := proxy.waitBound(self.OperationTimeout); err != nil {
		proxy.Destroy()
		return nil, err
	}

	return proxy, nil
}

// CreateLink links an output port to an input port. The link outlives this
// connection unless `object.linger` is set to false in props.
func (self *Conn) CreateLink(outputNode, outputPort, inputNode, inputPort uint32, props Properties) (*Link, error) {
	linkProps := Properties{
		KeyObjectLinger: `true`,
	}.Merge(props)

	linkProps.Set(KeyLinkOutputNode, outputNode)
	linkProps.Set(KeyLinkOutputPort, outputPort)
	linkProps.Set(KeyLinkInputNode, inputNode)
	linkProps.Set(KeyLinkInputPort, inputPort)

	proxy, err := self.CreateObject(`link-factory`, TypeLink, 0, linkProps)
	if err != nil {
		return nil, err
	}

	// pick up the initial info
	if err := self.Roundtrip(); err != nil {
		proxy.Destroy()
		return nil, err
	}

	return &Link{
		Proxy: proxy,
	}, nil
}

// Destroy the global with the given id.
func (self *Conn) DestroyObject(id uint32) error {
	registry, err := self.Registry()
	if err != nil {
		return err
	}

	return registry.Destroy(id)
}

// Update the properties of this client as seen by the server.
func (self *Conn) UpdateClientProperties(props Properties) error {
	return self.invoke(func() (C.int, error) {
		if err := self.connected(); err != nil {
			return 0, err
		}

		nativeProps := props.toNative()
		defer C.pw_properties_free(nativeProps)

		return C.pwgo_core_update_properties(self.core, &nativeProps.dict), nil
	})
}

// Load a module into the local context, optionally supplying it with the
// given arguments.
func (self *Conn) LoadModule(name string, arguments string, props Properties) (*Module, error) {
	module := &Module{
		conn:     self,
		Name:     name,
		Argument: arguments,
	}

	if err := module.Load(props); err != nil {
		return nil, err
	}

	return module, nil
}

// track registers a release function run when the Conn is destroyed.
func (self *Conn) track(handle uintptr, release func()) {
	self.childLock.Lock()
	self.children[handle] = release
	self.childLock.Unlock()
}

func (self *Conn) untrack(handle uintptr) {
	self.childLock.Lock()
	delete(self.children, handle)
	self.childLock.Unlock()
}

// Acquire the loop lock. The lock is recursive.
//
func (self *Conn) Lock() {
	if self.loop != nil {
		C.pw_thread_loop_lock(self.loop)
	}
}

// Release the loop lock.
//
func (self *Conn) Unlock() {
	if self.loop != nil {
		C.pw_thread_loop_unlock(self.loop)
	}
}

// Wraps a given function call with a lock
//
func (self *Conn) LockFunc(wrapLock ClientLockFunc) error {
	self.Lock()
	defer self.Unlock()

	return wrapLock()
}

// Whether the caller is running on the loop thread.
func (self *Conn) InLoopThread() bool {
	if self.loop == nil {
		return false
	}

	return bool(C.pw_thread_loop_in_thread(self.loop))
}

// Start the loop thread
//
func (self *Conn) Start() error {
	if self.loop != nil {
		if status := C.pw_thread_loop_start(self.loop); status < 0 {
			return fmt.Errorf("PipeWire thread loop start failed: %w", ErrorCode(status))
		}
	} else {
		return fmt.Errorf("Cannot operate on undefined PipeWire thread loop")
	}

	return nil
}

// Wait for a signalling event on the loop. The lock must be held.
//
func (self *Conn) Wait() error {
	if self.loop != nil {
		C.pw_thread_loop_wait(self.loop)
	} else {
		return fmt.Errorf("Cannot operate on undefined PipeWire thread loop")
	}

	return nil
}

// Send a signalling event to all waiting threads
//
func (self *Conn) SignalAll(waitForAccept bool) error {
	if self.loop != nil {
		C.pw_thread_loop_signal(self.loop, C.bool(waitForAccept))
	} else {
		return fmt.Errorf("Cannot operate on undefined PipeWire thread loop")
	}

	return nil
}

// Stop the loop thread. The lock must not be held.
//
func (self *Conn) Stop() error {
	if self.loop != nil {
		C.pw_thread_loop_stop(self.loop)
	} else {
		return fmt.Errorf("Cannot operate on undefined PipeWire thread loop")
	}

	return nil
}

// Disconnect from the server and free everything owned by this Conn. Objects
// created from this Conn are released and must not be used afterwards.
//
func (self *Conn) Destroy() {
	self.destroyOnce.Do(func() {
		if self.loop != nil {
			self.Stop()
		}

		// release children newest first, streams before the proxies they use
		self.childLock.Lock()
		handles := make([]uintptr, 0, len(self.children))

		for handle := range self.children {
			handles = append(handles, handle)
		}

		sort.Slice(handles, func(i, j int) bool {
			return handles[i] > handles[j]
		})

		releases := make([]func(), 0, len(handles))

		for _, handle := range handles {
			releases = append(releases, self.children[handle])
		}

		self.children = make(map[uintptr]func())
		self.childLock.Unlock()

		for _, release := range releases {
			release()
		}

		if self.registry != nil {
			self.registry.release()
		}

		self.destroyContext()

		if self.loop != nil {
			C.pw_thread_loop_destroy(self.loop)
			self.loop = nil
		}

		self.failAllOperations(NotConnectedErr)

		if self.handle != 0 {
			cgounregister(self.handle)
		}

		Deinit()
		log.Debugf("pipewire: destroyed connection %s", self.ID)
	})
}
