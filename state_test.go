package pipewire

import (
	"sync"
	"testing"
	"time"

	"github.com/auroralaboratories/pipewire/spa"
	"github.com/auroralaboratories/pipewire/spa/pod"
	"github.com/stretchr/testify/require"
)

type fakeObject struct {
	lock       sync.Mutex
	subscribed [][]spa.ParamType
	destroyed  bool
}

func (self *fakeObject) subscribeParams(paramTypes ...spa.ParamType) error {
	self.lock.Lock()
	defer self.lock.Unlock()

	self.subscribed = append(self.subscribed, paramTypes)
	return nil
}

func (self *fakeObject) Destroy() {
	self.lock.Lock()
	defer self.lock.Unlock()

	self.destroyed = true
}

func (self *fakeObject) isDestroyed() bool {
	self.lock.Lock()
	defer self.lock.Unlock()

	return self.destroyed
}

type fakeBinder struct {
	events   *eventQueue
	gate     chan struct{}
	lock     sync.Mutex
	handlers map[uint32]objectHandlers
	objects  map[uint32]*fakeObject
}

func newFakeBinder() *fakeBinder {
	return &fakeBinder{
		events:   newEventQueue(),
		handlers: make(map[uint32]objectHandlers),
		objects:  make(map[uint32]*fakeObject),
	}
}

func (self *fakeBinder) Subscribe() <-chan RegistryEvent {
	return self.events.out
}

func (self *fakeBinder) Unsubscribe(events <-chan RegistryEvent) {
	self.events.close()
}

func (self *fakeBinder) bind(global Global, handlers objectHandlers) error {
	if self.gate != nil {
		<-self.gate
	}

	object := &fakeObject{}

	self.lock.Lock()
	self.handlers[global.ID] = handlers
	self.objects[global.ID] = object
	self.lock.Unlock()

	handlers.bound(object)

	return nil
}

func (self *fakeBinder) object(id uint32) (*fakeObject, objectHandlers) {
	self.lock.Lock()
	defer self.lock.Unlock()

	return self.objects[id], self.handlers[id]
}

func (self *fakeBinder) add(id uint32, objectType ObjectType) {
	self.events.push(RegistryEvent{
		Type: GlobalAdded,
		Global: Global{
			ID:      id,
			Type:    objectType,
			Version: objectType.Version(),
		},
	})
}

func (self *fakeBinder) remove(id uint32) {
	self.events.push(RegistryEvent{
		Type: GlobalRemoved,
		Global: Global{
			ID: id,
		},
	})
}

func (self *fakeBinder) allDestroyed() bool {
	self.lock.Lock()
	defer self.lock.Unlock()

	for _, object := range self.objects {
		if !object.isDestroyed() {
			return false
		}
	}

	return true
}

func nextMessage(t *testing.T, state *State) Message {
	t.Helper()

	select {
	case message, ok := <-state.Messages():
		require.True(t, ok, "message channel closed")
		return message
	case <-time.After(time.Second):
		require.FailNow(t, "timed out waiting for a state message")
	}

	return Message{}
}

func expectMessages(t *testing.T, state *State, expected ...Message) {
	t.Helper()

	for _, want := range expected {
		require.Equal(t, want, nextMessage(t, state))
	}
}

func TestStateTracksObjects(t *testing.T) {
	assert := require.New(t)
	binder := newFakeBinder()

	state, err := newState(binder, StateOptions{})
	assert.NoError(err)
	defer state.Close()

	binder.add(30, TypeNode)

	expectMessages(t, state,
		Message{Kind: MessageGlobalAdded, Type: TypeNode, ID: 30},
		Message{Kind: MessageAdded, Type: TypeNode, ID: 30},
	)

	// factories are not tracked
	binder.add(5, TypeFactory)

	expectMessages(t, state,
		Message{Kind: MessageGlobalAdded, Type: TypeFactory, ID: 5},
	)

	object, handlers := binder.object(30)
	assert.NotNil(object)

	handlers.info(NodeInfo{
		ID:         30,
		State:      NodeStateRunning,
		ChangeMask: NodeChangeState | NodeChangeProps | NodeChangeParams,
		Props: Properties{
			KeyNodeName: `test-node`,
		},
		Params: []ParamInfo{
			{ID: spa.ParamEnumFormat, Flags: spa.ParamInfoRead},
			{ID: spa.ParamFormat, Flags: spa.ParamInfoReadWrite},
			{ID: spa.ParamProps, Flags: spa.ParamInfoReadWrite},
		},
	})

	expectMessages(t, state,
		Message{Kind: MessageInfo, Type: TypeNode, ID: 30},
		Message{Kind: MessageState, Type: TypeNode, ID: 30},
		Message{Kind: MessageProps, Type: TypeNode, ID: 30},
	)

	assert.Equal(NodeStateRunning, state.Nodes()[30].State)
	assert.Equal([][]spa.ParamType{
		{spa.ParamProps, spa.ParamEnumFormat, spa.ParamFormat},
	}, object.subscribed)

	handlers.param(ParamEvent{ID: spa.ParamEnumFormat, Index: 0, Pod: pod.Int(1)})
	handlers.param(ParamEvent{ID: spa.ParamEnumFormat, Index: 1, Pod: pod.Int(2)})

	expectMessages(t, state,
		Message{Kind: MessageParam, Type: TypeNode, ID: 30, ParamType: spa.ParamEnumFormat, Index: 0},
		Message{Kind: MessageParam, Type: TypeNode, ID: 30, ParamType: spa.ParamEnumFormat, Index: 1},
	)

	assert.Equal([]pod.Value{pod.Int(1), pod.Int(2)}, state.NodeParams(30, spa.ParamEnumFormat))

	// a new enumeration replaces the old one, even when it is shorter
	handlers.param(ParamEvent{ID: spa.ParamEnumFormat, Index: 0, Pod: pod.Int(3)})

	expectMessages(t, state,
		Message{Kind: MessageParam, Type: TypeNode, ID: 30, ParamType: spa.ParamEnumFormat, Index: 0},
	)

	assert.Equal([]pod.Value{pod.Int(3)}, state.NodeParams(30, spa.ParamEnumFormat))

	// out of order and sparse indices still come back ordered
	handlers.param(ParamEvent{ID: spa.ParamEnumFormat, Index: 4, Pod: pod.Int(5)})
	handlers.param(ParamEvent{ID: spa.ParamEnumFormat, Index: 2, Pod: pod.Int(4)})
	handlers.param(ParamEvent{ID: spa.ParamEnumFormat, Index: 4, Pod: pod.Int(6)})

	expectMessages(t, state,
		Message{Kind: MessageParam, Type: TypeNode, ID: 30, ParamType: spa.ParamEnumFormat, Index: 4},
		Message{Kind: MessageParam, Type: TypeNode, ID: 30, ParamType: spa.ParamEnumFormat, Index: 2},
		Message{Kind: MessageParam, Type: TypeNode, ID: 30, ParamType: spa.ParamEnumFormat, Index: 4},
	)

	assert.Equal([]pod.Value{pod.Int(3), pod.Int(4), pod.Int(6)}, state.NodeParams(30, spa.ParamEnumFormat))
	assert.Empty(state.DeviceParams(30, spa.ParamEnumFormat))

	binder.remove(30)

	expectMessages(t, state,
		Message{Kind: MessageRemoved, Type: TypeNode, ID: 30},
		Message{Kind: MessageGlobalRemoved, ID: 30},
	)

	assert.True(object.isDestroyed())
	assert.Empty(state.Nodes())
	assert.Empty(state.NodeParams(30, spa.ParamEnumFormat))

	// events for removed objects are ignored
	handlers.param(ParamEvent{ID: spa.ParamProps, Index: 0, Pod: pod.Int(4)})
	assert.Empty(state.Params(30, spa.ParamProps))
}

func TestStateLinkMessages(t *testing.T) {
	assert := require.New(t)
	binder := newFakeBinder()

	state, err := newState(binder, StateOptions{
		Types: []ObjectType{TypeLink},
	})

	assert.NoError(err)
	defer state.Close()

	binder.add(7, TypeLink)

	expectMessages(t, state,
		Message{Kind: MessageGlobalAdded, Type: TypeLink, ID: 7},
		Message{Kind: MessageAdded, Type: TypeLink, ID: 7},
	)

	object, handlers := binder.object(7)

	handlers.info(LinkInfo{
		ID:         7,
		State:      LinkStateActive,
		ChangeMask: LinkChangeState | LinkChangeFormat | LinkChangeProps,
	})

	expectMessages(t, state,
		Message{Kind: MessageInfo, Type: TypeLink, ID: 7},
		Message{Kind: MessageState, Type: TypeLink, ID: 7},
		Message{Kind: MessageFormat, Type: TypeLink, ID: 7},
		Message{Kind: MessageProps, Type: TypeLink, ID: 7},
	)

	assert.Equal(LinkStateActive, state.Links()[7].State)
	assert.Empty(object.subscribed)

	// nodes were not asked for
	binder.add(8, TypeNode)

	expectMessages(t, state,
		Message{Kind: MessageGlobalAdded, Type: TypeNode, ID: 8},
	)

	n, _ := binder.object(8)
	assert.Nil(n)
}

func TestStateRejectsUntrackableTypes(t *testing.T) {
	assert := require.New(t)

	_, err := newState(newFakeBinder(), StateOptions{
		Types: []ObjectType{TypeFactory},
	})

	assert.True(IsTypeMismatchErr(err))
}

func TestStateCloseClosesMessages(t *testing.T) {
	assert := require.New(t)
	binder := newFakeBinder()

	state, err := newState(binder, StateOptions{
		Buffer: 1,
	})

	assert.NoError(err)

	// the second message does not fit and is dropped
	binder.add(1, TypeFactory)
	binder.add(2, TypeFactory)

	assert.Eventually(func() bool {
		return len(state.Messages()) == 1
	}, time.Second, 5*time.Millisecond)

	state.Close()

	var received []Message

	for message := range state.Messages() {
		received = append(received, message)
	}

	assert.Len(received, 1)
	assert.EqualValues(1, received[0].ID)
}

func TestStateSubscribesAdvertisedParams(t *testing.T) {
	assert := require.New(t)
	binder := newFakeBinder()

	state, err := newState(binder, StateOptions{
		Types: []ObjectType{TypeNode},
	})

	assert.NoError(err)
	defer state.Close()

	binder.add(12, TypeNode)

	expectMessages(t, state,
		Message{Kind: MessageGlobalAdded, Type: TypeNode, ID: 12},
		Message{Kind: MessageAdded, Type: TypeNode, ID: 12},
	)

	object, handlers := binder.object(12)

	// props cannot be read and format is not offered at all
	handlers.info(NodeInfo{
		ID:         12,
		ChangeMask: NodeChangeParams,
		Params: []ParamInfo{
			{ID: spa.ParamEnumFormat, Flags: spa.ParamInfoRead},
			{ID: spa.ParamProps, Flags: spa.ParamInfoWrite},
			{ID: spa.ParamLatency, Flags: spa.ParamInfoRead},
		},
	})

	expectMessages(t, state,
		Message{Kind: MessageInfo, Type: TypeNode, ID: 12},
	)

	assert.Equal([][]spa.ParamType{
		{spa.ParamEnumFormat},
	}, object.subscribed)

	// nothing wanted is advertised, so nothing is subscribed
	handlers.info(NodeInfo{
		ID:         12,
		ChangeMask: NodeChangeParams,
		Params: []ParamInfo{
			{ID: spa.ParamLatency, Flags: spa.ParamInfoRead},
		},
	})

	expectMessages(t, state,
		Message{Kind: MessageInfo, Type: TypeNode, ID: 12},
	)

	assert.Len(object.subscribed, 1)
}

func TestStateAppliesEventsPastBacklog(t *testing.T) {
	assert := require.New(t)
	binder := newFakeBinder()
	binder.gate = make(chan struct{})

	state, err := newState(binder, StateOptions{
		Types: []ObjectType{TypeNode},
	})

	assert.NoError(err)
	defer state.Close()

	count := 2 * DefaultEventBuffer

	// the State is stuck binding the first node while the rest pile up
	for id := 1; id <= count; id++ {
		binder.add(uint32(id), TypeNode)
		binder.remove(uint32(id))
	}

	close(binder.gate)

	// every node was bound and every removal reached it
	assert.Eventually(func() bool {
		binder.lock.Lock()
		bound := len(binder.objects)
		binder.lock.Unlock()

		return bound == count && binder.allDestroyed()
	}, 5*time.Second, 10*time.Millisecond)

	state.lock.RLock()
	defer state.lock.RUnlock()

	assert.Empty(state.objects)
	assert.Empty(state.types)
}

func TestParamListOrdering(t *testing.T) {
	assert := require.New(t)

	var params paramList

	params = params.set(3, pod.Int(3))
	params = params.set(1, pod.Int(1))
	params = params.set(2, pod.Int(2))
	params = params.set(1, pod.Int(10))

	assert.Equal([]pod.Value{pod.Int(10), pod.Int(2), pod.Int(3)}, params.values())

	params = params.set(0, pod.Int(0))
	assert.Equal([]pod.Value{pod.Int(0)}, params.values())

	assert.Empty(paramList(nil).values())
}

func TestReadableParams(t *testing.T) {
	assert := require.New(t)

	advertised := []ParamInfo{
		{ID: spa.ParamFormat, Flags: spa.ParamInfoReadWrite},
		{ID: spa.ParamProps, Flags: spa.ParamInfoWrite},
		{ID: spa.ParamEnumFormat, Flags: spa.ParamInfoRead},
	}

	assert.Equal([]spa.ParamType{spa.ParamEnumFormat, spa.ParamFormat}, readableParams([]spa.ParamType{
		spa.ParamProps,
		spa.ParamEnumFormat,
		spa.ParamFormat,
		spa.ParamRoute,
	}, advertised))

	assert.Empty(readableParams(nil, advertised))
	assert.Empty(readableParams([]spa.ParamType{spa.ParamFormat}, nil))
}

func TestMaskMessages(t *testing.T) {
	assert := require.New(t)

	assert.Empty(maskMessages(0, map[uint64]MessageKind{
		NodeChangeState: MessageState,
	}))

	assert.Equal([]MessageKind{MessageInputPorts, MessageProps}, maskMessages(NodeChangeInputPorts|NodeChangeProps|NodeChangeParams, map[uint64]MessageKind{
		NodeChangeInputPorts:  MessageInputPorts,
		NodeChangeOutputPorts: MessageOutputPorts,
		NodeChangeProps:       MessageProps,
	}))
}
