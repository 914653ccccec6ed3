package mailbox

import (
	"fmt"
	"time"
)

const (
	DefaultCapacity = 1024
)

// Kind selects the queue implementation backing a process mailbox
type Kind string

const (
	// RingBuffer is a bounded queue. Sends never block, user messages that don't fit are
	// handed to the overflow handler and system messages are always kept.
	RingBuffer Kind = "ringbuffer"
	// MPSC is an unbounded linked queue with a lock-free consumer
	MPSC Kind = "mpsc"
)

var ErrDisposed = fmt.Errorf("mailbox is disposed")

type MessageHandler func(message interface{}) (loop bool)

type SystemMessageHandler interface {
	// HandleSystemMessage returns true if the (possibly translated) message should be passed to the user handler
	HandleSystemMessage(message interface{}) (passToUser bool, msg interface{})
}

type Mailbox interface {
	SendUserMessage(message interface{})
	SendSystemMessage(message interface{})
	Receive(handler MessageHandler)
	ReceiveWithTimeout(d time.Duration, handler MessageHandler)
	SetSystemMessageHandler(handler SystemMessageHandler)
	SetOverflowHandler(handler func(message interface{}))
	Dispose()
}

// New returns a mailbox of the given kind. capacity is only used by bounded kinds.
func New(kind Kind, capacity uint64) (Mailbox, error) {
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	switch kind {
	case RingBuffer, "":
		return newQueueMailbox(newRingQueue(capacity)), nil
	case MPSC:
		return newQueueMailbox(newMPSCQueue()), nil
	default:
		return nil, fmt.Errorf("unknown mailbox kind: %q", kind)
	}
}
