package pipewire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventQueueKeepsOrderWithoutLimit(t *testing.T) {
	assert := require.New(t)
	queue := newEventQueue()
	defer queue.close()

	count := 4 * DefaultEventBuffer

	// nobody reads yet, so pushing must not block
	for id := 0; id < count; id++ {
		queue.push(RegistryEvent{
			Type: GlobalAdded,
			Global: Global{
				ID: uint32(id),
			},
		})
	}

	for id := 0; id < count; id++ {
		select {
		case event := <-queue.out:
			assert.EqualValues(id, event.Global.ID)
		case <-time.After(time.Second):
			assert.FailNow("timed out waiting for a queued event")
		}
	}

	assert.Zero(queue.backlog())
}

func TestEventQueueCloseClosesChannel(t *testing.T) {
	assert := require.New(t)
	queue := newEventQueue()

	queue.push(RegistryEvent{Type: GlobalRemoved})
	queue.close()
	queue.close()

	assert.Eventually(func() bool {
		select {
		case _, ok := <-queue.out:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestEventTypeString(t *testing.T) {
	assert := require.New(t)

	assert.Equal(`added`, GlobalAdded.String())
	assert.Equal(`removed`, GlobalRemoved.String())
	assert.Equal(`unknown`, EventType(9).String())
}
