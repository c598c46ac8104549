package pipewire

import (
	"fmt"
	"sort"
	"sync"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/sliceutil"
)

type MessageKind int

const (
	MessageGlobalAdded MessageKind = iota
	MessageGlobalRemoved
	MessageAdded
	MessageRemoved
	MessageInfo
	MessageInputPorts
	MessageOutputPorts
	MessageState
	MessageProps
	MessageFormat
	MessageParam
)

func (self MessageKind) String() string {
	switch self {
	case MessageGlobalAdded:
		return `global-added`
	case MessageGlobalRemoved:
		return `global-removed`
	case MessageAdded:
		return `added`
	case MessageRemoved:
		return `removed`
	case MessageInfo:
		return `info`
	case MessageInputPorts:
		return `input-ports`
	case MessageOutputPorts:
		return `output-ports`
	case MessageState:
		return `state`
	case MessageProps:
		return `props`
	case MessageFormat:
		return `format`
	case MessageParam:
		return `param`
	default:
		return `unknown`
	}
}

// A Message reports a change of the tracked state. ParamType and Index are
// only set for MessageParam.
type Message struct {
	Kind      MessageKind   `json:"kind"`
	Type      ObjectType    `json:"type,omitempty"`
	ID        uint32        `json:"id"`
	ParamType spa.ParamType `json:"param_type,omitempty"`
	Index     uint32        `json:"index,omitempty"`
}

func (self Message) String() string {
	switch self.Kind {
	case MessageParam:
		return fmt.Sprintf("%v %s %d %v[%d]", self.Kind, self.Type.Short(), self.ID, self.ParamType, self.Index)
	case MessageGlobalAdded, MessageGlobalRemoved:
		return fmt.Sprintf("%v %d", self.Kind, self.ID)
	default:
		return fmt.Sprintf("%v %s %d", self.Kind, self.Type.Short(), self.ID)
	}
}

var TrackableTypes = []ObjectType{
	TypeNode,
	TypePort,
	TypeLink,
	TypeDevice,
	TypeClient,
}

func DefaultParamTypes() map[ObjectType][]spa.ParamType {
	return map[ObjectType][]spa.ParamType{
		TypeNode:   {spa.ParamProps, spa.ParamEnumFormat, spa.ParamFormat},
		TypeDevice: {spa.ParamRoute, spa.ParamProfile, spa.ParamEnumProfile},
		TypePort:   {spa.ParamEnumFormat, spa.ParamFormat},
	}
}

type StateOptions struct {
	Types      []ObjectType
	ParamTypes map[ObjectType][]spa.ParamType
	Buffer     int
}

// a trackedObject is a bound proxy as far as the State is concerned
type trackedObject interface {
	subscribeParams(paramTypes ...spa.ParamType) error
	Destroy()
}

type objectHandlers struct {
	bound func(trackedObject)
	info  func(interface{})
	param func(ParamEvent)
}

type stateBinder interface {
	Subscribe() <-chan RegistryEvent
	Unsubscribe(events <-chan RegistryEvent)
	bind(global Global, handlers objectHandlers) error
}

type registryBinder struct {
	conn     *Conn
	registry *Registry
}

func (self registryBinder) Subscribe() <-chan RegistryEvent {
	return self.registry.Subscribe()
}

func (self registryBinder) Unsubscribe(events <-chan RegistryEvent) {
	self.registry.Unsubscribe(events)
}

// bind holds the loop lock until the object is stored and its handlers are
// in place, so the first info event cannot be missed.
func (self registryBinder) bind(global Global, handlers objectHandlers) error {
	self.conn.Lock()
	defer self.conn.Unlock()

	proxy, err := self.registry.bindAs(global.ID, global.Type)
	if err != nil {
		return err
	}

	handlers.bound(proxy)
	proxy.OnInfo(handlers.info)
	proxy.OnParam(handlers.param)

	return nil
}

type paramKey struct {
	id        uint32
	paramType spa.ParamType
}

type indexedParam struct {
	index uint32
	value pod.Value
}

// A paramList holds one enumeration of a param, sorted by index.
type paramList []indexedParam

// set stores value at index. Index 0 starts a new enumeration, so entries
// left over from a longer previous one are dropped.
func (self paramList) set(index uint32, value pod.Value) paramList {
	if index == 0 {
		return paramList{{index: 0, value: value}}
	}

	i := sort.Search(len(self), func(i int) bool {
		return self[i].index >= index
	})

	if i < len(self) && self[i].index == index {
		self[i].value = value
		return self
	}

	self = append(self, indexedParam{})
	copy(self[i+1:], self[i:])
	self[i] = indexedParam{index: index, value: value}

	return self
}

func (self paramList) values() []pod.Value {
	out := make([]pod.Value, len(self))

	for i, param := range self {
		out[i] = param.value
	}

	return out
}

// A State follows the registry, binds every object of the tracked types and
// keeps their latest info and params.
type State struct {
	options  StateOptions
	binder   stateBinder
	events   <-chan RegistryEvent
	messages chan Message
	lock     sync.RWMutex
	msgLock  sync.Mutex
	closed   bool
	done     chan struct{}
	objects  map[uint32]trackedObject
	types    map[uint32]ObjectType
	nodes    map[uint32]NodeInfo
	ports    map[uint32]PortInfo
	links    map[uint32]LinkInfo
	devices  map[uint32]DeviceInfo
	clients  map[uint32]ClientInfo
	params   map[paramKey]paramList
}

func NewState(conn *Conn, options StateOptions) (*State, error) {
	registry, err := conn.Registry()
	if err != nil {
		return nil, err
	}

	return newState(registryBinder{
		conn:     conn,
		registry: registry,
	}, options)
}

func newState(binder stateBinder, options StateOptions) (*State, error) {
	if len(options.Types) == 0 {
		options.Types = TrackableTypes
	}

	for _, objectType := range options.Types {
		if !isTrackable(objectType) {
			return nil, fmt.Errorf("cannot track %s objects: %w", objectType, TypeMismatchErr)
		}
	}

	if options.ParamTypes == nil {
		options.ParamTypes = DefaultParamTypes()
	}

	if options.Buffer <= 0 {
		options.Buffer = DefaultEventBuffer
	}

	rv := &State{
		options:  options,
		binder:   binder,
		messages: make(chan Message, options.Buffer),
		done:     make(chan struct{}),
		objects:  make(map[uint32]trackedObject),
		types:    make(map[uint32]ObjectType),
		nodes:    make(map[uint32]NodeInfo),
		ports:    make(map[uint32]PortInfo),
		links:    make(map[uint32]LinkInfo),
		devices:  make(map[uint32]DeviceInfo),
		clients:  make(map[uint32]ClientInfo),
		params:   make(map[paramKey]paramList),
	}

	rv.events = binder.Subscribe()

	go rv.run()

	return rv, nil
}

func isTrackable(objectType ObjectType) bool {
	return sliceutil.Contains(TrackableTypes, objectType)
}

func (self *State) isTracked(objectType ObjectType) bool {
	return sliceutil.Contains(self.options.Types, objectType)
}

// Messages returns the channel state changes are reported on. It is closed
// by Close.
func (self *State) Messages() <-chan Message {
	return self.messages
}

func (self *State) run() {
	defer close(self.done)

	for event := range self.events {
		switch event.Type {
		case GlobalAdded:
			self.globalAdded(event.Global)
		case GlobalRemoved:
			self.globalRemoved(event.Global)
		}
	}
}

func (self *State) emit(message Message) {
	self.msgLock.Lock()
	defer self.msgLock.Unlock()

	if self.closed {
		return
	}

	select {
	case self.messages <- message:
	default:
		log.Debugf("pipewire: state message channel full, dropped %v", message)
	}
}

func (self *State) globalAdded(global Global) {
	self.emit(Message{
		Kind: MessageGlobalAdded,
		Type: global.Type,
		ID:   global.ID,
	})

	if !self.isTracked(global.Type) {
		return
	}

	id := global.ID
	objectType := global.Type

	err := self.binder.bind(global, objectHandlers{
		bound: func(object trackedObject) {
			self.lock.Lock()
			self.objects[id] = object
			self.types[id] = objectType
			self.lock.Unlock()

			self.emit(Message{
				Kind: MessageAdded,
				Type: objectType,
				ID:   id,
			})
		},
		info: func(info interface{}) {
			self.handleInfo(objectType, id, info)
		},
		param: func(event ParamEvent) {
			self.handleParam(objectType, id, event)
		},
	})

	if err != nil {
		log.Debugf("pipewire: state: cannot bind %s %d: %v", objectType.Short(), id, err)
	}
}

func (self *State) globalRemoved(global Global) {
	id := global.ID

	self.lock.Lock()
	object, tracked := self.objects[id]
	objectType := self.types[id]

	delete(self.objects, id)
	delete(self.types, id)
	delete(self.nodes, id)
	delete(self.ports, id)
	delete(self.links, id)
	delete(self.devices, id)
	delete(self.clients, id)

	for key := range self.params {
		if key.id == id {
			delete(self.params, key)
		}
	}

	self.lock.Unlock()

	if tracked {
		object.Destroy()

		self.emit(Message{
			Kind: MessageRemoved,
			Type: objectType,
			ID:   id,
		})
	}

	self.emit(Message{
		Kind: MessageGlobalRemoved,
		Type: global.Type,
		ID:   id,
	})
}

// handleInfo runs on the loop thread.
func (self *State) handleInfo(objectType ObjectType, id uint32, info interface{}) {
	var mask uint64
	var changes []MessageKind
	var paramsBit uint64
	var advertised []ParamInfo

	self.lock.Lock()

	if _, ok := self.types[id]; !ok {
		self.lock.Unlock()
		return
	}

	switch v := info.(type) {
	case NodeInfo:
		self.nodes[id] = v
		mask = v.ChangeMask
		paramsBit = NodeChangeParams
		advertised = v.Params

		changes = maskMessages(mask, map[uint64]MessageKind{
			NodeChangeInputPorts:  MessageInputPorts,
			NodeChangeOutputPorts: MessageOutputPorts,
			NodeChangeState:       MessageState,
			NodeChangeProps:       MessageProps,
		})
	case PortInfo:
		self.ports[id] = v
		mask = v.ChangeMask
		paramsBit = PortChangeParams
		advertised = v.Params

		changes = maskMessages(mask, map[uint64]MessageKind{
			PortChangeProps: MessageProps,
		})
	case LinkInfo:
		self.links[id] = v
		mask = v.ChangeMask

		changes = maskMessages(mask, map[uint64]MessageKind{
			LinkChangeFormat: MessageFormat,
			LinkChangeState:  MessageState,
			LinkChangeProps:  MessageProps,
		})
	case DeviceInfo:
		self.devices[id] = v
		mask = v.ChangeMask
		paramsBit = DeviceChangeParams
		advertised = v.Params

		changes = maskMessages(mask, map[uint64]MessageKind{
			DeviceChangeProps: MessageProps,
		})
	case ClientInfo:
		self.clients[id] = v
		mask = v.ChangeMask

		changes = maskMessages(mask, map[uint64]MessageKind{
			ClientChangeProps: MessageProps,
		})
	default:
		self.lock.Unlock()
		return
	}

	object := self.objects[id]
	self.lock.Unlock()

	self.emit(Message{
		Kind: MessageInfo,
		Type: objectType,
		ID:   id,
	})

	for _, kind := range changes {
		self.emit(Message{
			Kind: kind,
			Type: objectType,
			ID:   id,
		})
	}

	if paramTypes := readableParams(self.options.ParamTypes[objectType], advertised); paramsBit != 0 && mask&paramsBit != 0 && len(paramTypes) > 0 && object != nil {
		if err := object.subscribeParams(paramTypes...); err != nil {
			log.Debugf("pipewire: state: cannot subscribe to params of %s %d: %v", objectType.Short(), id, err)
		}
	}
}

// readableParams returns the wanted param types the object advertises as
// readable, in the order they were asked for.
func readableParams(wanted []spa.ParamType, advertised []ParamInfo) []spa.ParamType {
	out := make([]spa.ParamType, 0, len(wanted))

	for _, paramType := range wanted {
		for _, info := range advertised {
			if info.ID == paramType && info.Readable() {
				out = append(out, paramType)
				break
			}
		}
	}

	return out
}

// maskMessages returns the messages for the bits set in mask, in a stable
// order.
func maskMessages(mask uint64, bits map[uint64]MessageKind) []MessageKind {
	out := make([]MessageKind, 0)

	for bit := uint64(1); bit != 0 && bit <= mask; bit <<= 1 {
		if kind, ok := bits[bit]; ok && mask&bit != 0 {
			out = append(out, kind)
		}
	}

	return out
}

// handleParam runs on the loop thread.
func (self *State) handleParam(objectType ObjectType, id uint32, event ParamEvent) {
	if event.Pod == nil {
		return
	}

	key := paramKey{
		id:        id,
		paramType: event.ID,
	}

	self.lock.Lock()

	if _, ok := self.types[id]; !ok {
		self.lock.Unlock()
		return
	}

	self.params[key] = self.params[key].set(event.Index, event.Pod)
	self.lock.Unlock()

	self.emit(Message{
		Kind:      MessageParam,
		Type:      objectType,
		ID:        id,
		ParamType: event.ID,
		Index:     event.Index,
	})
}

func (self *State) Nodes() map[uint32]NodeInfo {
	self.lock.RLock()
	defer self.lock.RUnlock()

	out := make(map[uint32]NodeInfo, len(self.nodes))

	for id, info := range self.nodes {
		out[id] = info
	}

	return out
}

func (self *State) Ports() map[uint32]PortInfo {
	self.lock.RLock()
	defer self.lock.RUnlock()

	out := make(map[uint32]PortInfo, len(self.ports))

	for id, info := range self.ports {
		out[id] = info
	}

	return out
}

func (self *State) Links() map[uint32]LinkInfo {
	self.lock.RLock()
	defer self.lock.RUnlock()

	out := make(map[uint32]LinkInfo, len(self.links))

	for id, info := range self.links {
		out[id] = info
	}

	return out
}

func (self *State) Devices() map[uint32]DeviceInfo {
	self.lock.RLock()
	defer self.lock.RUnlock()

	out := make(map[uint32]DeviceInfo, len(self.devices))

	for id, info := range self.devices {
		out[id] = info
	}

	return out
}

func (self *State) Clients() map[uint32]ClientInfo {
	self.lock.RLock()
	defer self.lock.RUnlock()

	out := make(map[uint32]ClientInfo, len(self.clients))

	for id, info := range self.clients {
		out[id] = info
	}

	return out
}

// Params returns the stored params of an object, ordered by index.
func (self *State) Params(id uint32, paramType spa.ParamType) []pod.Value {
	self.lock.RLock()
	defer self.lock.RUnlock()

	return self.params[paramKey{id, paramType}].values()
}

func (self *State) NodeParams(id uint32, paramType spa.ParamType) []pod.Value {
	return self.typedParams(TypeNode, id, paramType)
}

func (self *State) PortParams(id uint32, paramType spa.ParamType) []pod.Value {
	return self.typedParams(TypePort, id, paramType)
}

func (self *State) DeviceParams(id uint32, paramType spa.ParamType) []pod.Value {
	return self.typedParams(TypeDevice, id, paramType)
}

func (self *State) typedParams(objectType ObjectType, id uint32, paramType spa.ParamType) []pod.Value {
	self.lock.RLock()
	known := self.types[id]
	self.lock.RUnlock()

	if known != objectType {
		return nil
	}

	return self.Params(id, paramType)
}

func (self *State) proxy(objectType ObjectType, id uint32) (*Proxy, bool) {
	self.lock.RLock()
	defer self.lock.RUnlock()

	if self.types[id] != objectType {
		return nil, false
	}

	proxy, ok := self.objects[id].(*Proxy)
	return proxy, ok
}

// The bound node with the given id. It stays owned by the State.
func (self *State) Node(id uint32) (*Node, bool) {
	if proxy, ok := self.proxy(TypeNode, id); ok {
		return &Node{
			Proxy: proxy,
		}, true
	}

	return nil, false
}

func (self *State) Port(id uint32) (*Port, bool) {
	if proxy, ok := self.proxy(TypePort, id); ok {
		return &Port{
			Proxy: proxy,
		}, true
	}

	return nil, false
}

func (self *State) Link(id uint32) (*Link, bool) {
	if proxy, ok := self.proxy(TypeLink, id); ok {
		return &Link{
			Proxy: proxy,
		}, true
	}

	return nil, false
}

func (self *State) Device(id uint32) (*Device, bool) {
	if proxy, ok := self.proxy(TypeDevice, id); ok {
		return &Device{
			Proxy: proxy,
		}, true
	}

	return nil, false
}

func (self *State) Client(id uint32) (*Client, bool) {
	if proxy, ok := self.proxy(TypeClient, id); ok {
		return &Client{
			Proxy: proxy,
		}, true
	}

	return nil, false
}

// Close stops following the registry, destroys every bound proxy and closes
// the message channel.
func (self *State) Close() {
	self.binder.Unsubscribe(self.events)
	<-self.done

	self.lock.Lock()
	objects := self.objects
	self.objects = make(map[uint32]trackedObject)
	self.types = make(map[uint32]ObjectType)
	self.lock.Unlock()

	for _, object := range objects {
		object.Destroy()
	}

	self.msgLock.Lock()
	defer self.msgLock.Unlock()

	if !self.closed {
		self.closed = true
		close(self.messages)
	}
}
