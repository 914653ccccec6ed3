package mailbox

import (
	"fmt"
	"sync"

	"github.com/Workiva/go-datastructures/queue"
)

var errMailboxFull = fmt.Errorf("mailbox is full")

type ringQueue struct {
	rb *queue.RingBuffer

	mu sync.Mutex
	// spill keeps system messages that arrived while the buffer was full. Nothing goes
	// into rb until it's drained, so the two together stay FIFO.
	spill []interface{}
}

func newRingQueue(capacity uint64) *ringQueue {
	return &ringQueue{rb: queue.NewRingBuffer(capacity)}
}

// push never blocks. A user message that doesn't fit is rejected with errMailboxFull,
// a system message is spilled.
func (q *ringQueue) push(message interface{}, system bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.spill) == 0 {
		ok, err := q.rb.Offer(message)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	if !system {
		return errMailboxFull
	}
	q.spill = append(q.spill, message)
	return nil
}

func (q *ringQueue) pop() (interface{}, bool) {
	if q.rb.Len() > 0 {
		msg, err := q.rb.Get()
		if err != nil {
			return nil, false
		}
		return msg, true
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.spill) == 0 {
		return nil, false
	}
	msg := q.spill[0]
	q.spill[0] = nil
	q.spill = q.spill[1:]
	return msg, true
}

func (q *ringQueue) dispose() {
	q.rb.Dispose()
}
