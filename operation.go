package pipewire

import (
	"fmt"
	"sync"
	"time"
)

const (
	DEFAULT_OPERATION_TIMEOUT_MSEC = 5000
)

type OperationSuccessFunc func(*Operation) error
type OperationErrorFunc func(*Operation, error) error

// A Payload represents a piece of data delivered to a pending Operation by
// the loop thread. Params are carried as encoded pods in Data, with the
// param id, index and next index in Properties.
type Payload struct {
	Operation  *Operation
	Properties map[string]interface{}
	Data       []byte
}

func NewPayload(operation *Operation) *Payload {
	return &Payload{
		Operation:  operation,
		Properties: make(map[string]interface{}),
		Data:       make([]byte, 0),
	}
}

// An Operation represents a request to the PipeWire daemon whose completion
// is signalled asynchronously, usually by the core `done` event matching the
// Operation's sequence number. Operations complete successfully (nil on the
// Done channel) or fail (an error on the Done channel, or a timeout).
type Operation struct {
	Conn     *Conn
	Done     chan error
	Seq      int
	Timeout  time.Duration
	Payloads []*Payload

	lock sync.Mutex
}

func NewOperation(conn *Conn) *Operation {
	rv := &Operation{
		Conn:     conn,
		Done:     make(chan error, 1),
		Seq:      -1,
		Timeout:  time.Duration(DEFAULT_OPERATION_TIMEOUT_MSEC) * time.Millisecond,
		Payloads: make([]*Payload, 0),
	}

	if conn != nil && conn.OperationTimeout > 0 {
		rv.Timeout = conn.OperationTimeout
	}

	return rv
}

// Create a new payload object and add it to the Payloads stack
func (self *Operation) AddPayload() *Payload {
	payload := NewPayload(self)

	self.lock.Lock()
	self.Payloads = append(self.Payloads, payload)
	self.lock.Unlock()

	return payload
}

// complete never blocks; only the first result is kept.
func (self *Operation) complete(err error) {
	select {
	case self.Done <- err:
	default:
	}
}

// Stop tracking the operation on its connection.
func (self *Operation) Destroy() {
	if self.Conn != nil {
		self.Conn.forgetOperation(self)
	}
}

// Block the current goroutine until the operation completes, calling the given functions
// on operation success or failure, respectively
func (self *Operation) WaitFunc(successFunc OperationSuccessFunc, errorFunc OperationErrorFunc) error {
	select {
	case err := <-self.Done:
		if err == nil {
			return successFunc(self)
		} else {
			return errorFunc(self, err)
		}
	case <-time.After(self.Timeout):
		return errorFunc(self, fmt.Errorf("Timed out waiting for operation to complete (timeout: %s)", self.Timeout))
	}
}

// Block the current goroutine until the operation completes, calling the given
// function if successful.  Errors will pass through and be returned.
func (self *Operation) WaitSuccess(successFunc OperationSuccessFunc) error {
	return self.WaitFunc(successFunc, func(op *Operation, err error) error {
		return err
	})
}

// Block the current goroutine until the operation completes, calling the given
// function on failure.  Successful operations will return nil.
func (self *Operation) WaitError(errorFunc OperationErrorFunc) error {
	return self.WaitFunc(func(op *Operation) error {
		return nil
	}, errorFunc)
}

// Block the current goroutine until the operation completes.
func (self *Operation) Wait() error {
	return self.WaitFunc(func(op *Operation) error {
		return nil
	}, func(op *Operation, err error) error {
		return err
	})
}
