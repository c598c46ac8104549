package pipewire

import (
	"sync"

	"github.com/ghetzel/go-stockutil/log"
)

type EventType int

const (
	GlobalAdded EventType = iota
	GlobalRemoved
)

func (self EventType) String() string {
	switch self {
	case GlobalAdded:
		return `added`
	case GlobalRemoved:
		return `removed`
	default:
		return `unknown`
	}
}

// A RegistryEvent reports a global appearing or disappearing. Removal events
// carry the last known state of the global.
type RegistryEvent struct {
	Type   EventType `json:"type"`
	Global Global    `json:"global"`
}

// An eventQueue hands registry events to one subscriber without ever blocking
// the producer. Events are held in an unbounded backlog and drained onto out
// by a goroutine of its own.
type eventQueue struct {
	out       chan RegistryEvent
	pending   []RegistryEvent
	wake      chan struct{}
	done      chan struct{}
	lock      sync.Mutex
	closeOnce sync.Once
}

func newEventQueue() *eventQueue {
	queue := &eventQueue{
		out:  make(chan RegistryEvent),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	go queue.run()

	return queue
}

func (self *eventQueue) push(event RegistryEvent) {
	self.lock.Lock()
	self.pending = append(self.pending, event)
	self.lock.Unlock()

	select {
	case self.wake <- struct{}{}:
	default:
	}
}

// close stops delivery. Events still in the backlog are discarded and out is
// closed once the drain goroutine exits.
func (self *eventQueue) close() {
	self.closeOnce.Do(func() {
		close(self.done)
	})
}

func (self *eventQueue) backlog() int {
	self.lock.Lock()
	defer self.lock.Unlock()

	return len(self.pending)
}

func (self *eventQueue) run() {
	defer close(self.out)

	for {
		self.lock.Lock()
		batch := self.pending
		self.pending = nil
		self.lock.Unlock()

		for _, event := range batch {
			select {
			case self.out <- event:
			case <-self.done:
				return
			}
		}

		select {
		case <-self.wake:
		case <-self.done:
			return
		}
	}
}

// Subscribe to registry events. The globals that already exist are replayed
// as GlobalAdded events first. Events queue up without limit until they are
// read, so a slow reader never loses one. The channel is closed when the
// registry goes away or Unsubscribe is called.
func (self *Registry) Subscribe() <-chan RegistryEvent {
	// hold the loop lock so no event slips in between the replay and the
	// registration
	self.conn.Lock()
	defer self.conn.Unlock()

	queue := newEventQueue()

	for _, global := range self.Globals() {
		queue.push(RegistryEvent{
			Type:   GlobalAdded,
			Global: global,
		})
	}

	self.lock.Lock()
	self.subscribers = append(self.subscribers, queue)
	self.lock.Unlock()

	return queue.out
}

// Stop delivering events to a channel returned by Subscribe.
func (self *Registry) Unsubscribe(events <-chan RegistryEvent) {
	self.lock.Lock()
	defer self.lock.Unlock()

	for i, sub := range self.subscribers {
		if (<-chan RegistryEvent)(sub.out) == events {
			sub.close()
			self.subscribers = append(self.subscribers[:i], self.subscribers[i+1:]...)
			return
		}
	}
}

// broadcast runs on the loop thread and never blocks.
func (self *Registry) broadcast(event RegistryEvent) {
	self.lock.RLock()
	defer self.lock.RUnlock()

	for _, sub := range self.subscribers {
		sub.push(event)

		if n := sub.backlog(); n > 0 && n%DefaultEventBuffer == 0 {
			log.Debugf("pipewire: registry subscriber is %d events behind", n)
		}
	}
}
