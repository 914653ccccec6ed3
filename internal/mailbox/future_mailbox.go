package mailbox

import (
	"sync"
	"time"

	"github.com/hedisam/backoffactor/sysmsg"
)

// FutureMailbox holds at most one message, it backs one-shot request/reply processes
type FutureMailbox struct {
	m           chan interface{}
	done        chan struct{}
	disposeOnce sync.Once
}

func NewFutureMailbox() *FutureMailbox {
	return &FutureMailbox{
		m:    make(chan interface{}, 1),
		done: make(chan struct{}),
	}
}

// SendUserMessage never blocks, only the first message is kept
func (f *FutureMailbox) SendUserMessage(message interface{}) {
	select {
	case <-f.done:
	case f.m <- message:
	default:
	}
}

func (f *FutureMailbox) SendSystemMessage(message interface{}) {
	f.SendUserMessage(message)
}

func (f *FutureMailbox) SetSystemMessageHandler(SystemMessageHandler) {}

// SetOverflowHandler is a no-op, extra replies are dropped
func (f *FutureMailbox) SetOverflowHandler(func(message interface{})) {}

func (f *FutureMailbox) Receive(handler MessageHandler) {
	select {
	case msg := <-f.m:
		handler(msg)
	case <-f.done:
		handler(ErrDisposed)
	}
}

func (f *FutureMailbox) ReceiveWithTimeout(d time.Duration, handler MessageHandler) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case msg := <-f.m:
		handler(msg)
	case <-timer.C:
		handler(sysmsg.Timeout{Duration: d})
	case <-f.done:
		handler(ErrDisposed)
	}
}

func (f *FutureMailbox) Dispose() {
	f.disposeOnce.Do(func() {
		close(f.done)
	})
}
