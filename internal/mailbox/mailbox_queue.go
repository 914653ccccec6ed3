package mailbox

import (
	"sync"
	"time"

	"github.com/hedisam/backoffactor/internal/logging"
	"github.com/hedisam/backoffactor/sysmsg"
)

// messageQueue is drained by exactly one goroutine, the process owning the mailbox
type messageQueue interface {
	push(message interface{}, system bool) error
	pop() (message interface{}, ok bool)
	dispose()
}

// queueMailbox delivers system and user messages through the same FIFO queue, so a
// process observes them in the order they were sent.
type queueMailbox struct {
	queue       messageQueue
	done        chan struct{}
	disposeOnce sync.Once
	// signal has a buffer of one, a pending signal is enough to wake the receiver
	signal     chan struct{}
	sysHandler SystemMessageHandler
	overflow   func(message interface{})
}

func newQueueMailbox(q messageQueue) *queueMailbox {
	return &queueMailbox{
		queue:  q,
		done:   make(chan struct{}),
		signal: make(chan struct{}, 1),
	}
}

func (m *queueMailbox) SetSystemMessageHandler(handler SystemMessageHandler) {
	m.sysHandler = handler
}

// SetOverflowHandler sets the callback receiving user messages rejected by a full mailbox.
// It runs on the sender's goroutine.
func (m *queueMailbox) SetOverflowHandler(handler func(message interface{})) {
	m.overflow = handler
}

func (m *queueMailbox) SendUserMessage(message interface{}) {
	m.send(message, false)
}

func (m *queueMailbox) SendSystemMessage(message interface{}) {
	m.send(message, true)
}

func (m *queueMailbox) send(message interface{}, system bool) {
	select {
	case <-m.done:
		return
	default:
	}

	if err := m.queue.push(message, system); err != nil {
		l := logging.WithComponent("mailbox")
		if err == errMailboxFull {
			l.Warn().Msg("mailbox full, dropping message")
			if m.overflow != nil {
				m.overflow(message)
			}
			return
		}
		l.Debug().Err(err).Msg("dropping message")
		return
	}

	select {
	case m.signal <- struct{}{}:
	default:
	}
}

func (m *queueMailbox) Receive(handler MessageHandler) {
	m.receive(handler, 0)
}

func (m *queueMailbox) ReceiveWithTimeout(d time.Duration, handler MessageHandler) {
	if d < 1 {
		m.receive(handler, 0)
		return
	}
	m.receive(handler, d)
}

func (m *queueMailbox) receive(handler MessageHandler, timeout time.Duration) {
	var timer *time.Timer
	var timeoutC <-chan time.Time
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	for {
		for {
			msg, ok := m.queue.pop()
			if !ok {
				break
			}
			if !m.dispatch(handler, msg) {
				return
			}
			if timer != nil {
				resetTimer(timer, timeout)
			}
		}

		select {
		case <-m.done:
			return
		case <-m.signal:
		case <-timeoutC:
			if !handler(sysmsg.Timeout{Duration: timeout}) {
				return
			}
			timer.Reset(timeout)
		}
	}
}

// dispatch filters system messages through the system handler before they reach the user
func (m *queueMailbox) dispatch(handler MessageHandler, message interface{}) (loop bool) {
	if _, ok := message.(sysmsg.SystemMessage); ok && m.sysHandler != nil {
		pass, msg := m.sysHandler.HandleSystemMessage(message)
		if !pass {
			return true
		}
		return handler(msg)
	}
	return handler(message)
}

func (m *queueMailbox) Dispose() {
	m.disposeOnce.Do(func() {
		close(m.done)
		m.queue.dispose()
	})
}

func resetTimer(timer *time.Timer, d time.Duration) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(d)
}
