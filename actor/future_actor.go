package actor

import (
	"fmt"
	"time"

	"github.com/hedisam/backoffactor/internal/mailbox"
	"github.com/hedisam/backoffactor/internal/pid"
	"github.com/hedisam/backoffactor/sysmsg"
)

var (
	ErrTimeout          = fmt.Errorf("timeout")
	ErrTargetTerminated = fmt.Errorf("target actor terminated before sending a response")
)

// FutureActor receives exactly one reply. It's not a running process, the caller blocks
// on Recv.
type FutureActor struct {
	pid    pid.PID
	target *pid.LocalPID
}

func NewFutureActor() *FutureActor {
	return &FutureActor{
		pid: pid.NewFuturePID(),
	}
}

func (f *FutureActor) Self() UserPID {
	return f.pid
}

// Send monitors the target so Recv returns early if it dies, then sends the request with
// the future as its sender
func (f *FutureActor) Send(to UserPID, message interface{}) {
	if target, ok := localPID(to); ok {
		target.Watch(f.pid, sysmsg.Monitored)
		f.target = target
	}
	SendFrom(to, message, f.pid)
}

func (f *FutureActor) Recv() (response interface{}, err error) {
	f.pid.Mailbox().Receive(func(message interface{}) (loop bool) {
		response, err = f.result(message)
		return false
	})
	f.release()
	return
}

func (f *FutureActor) RecvWithTimeout(d time.Duration) (response interface{}, err error) {
	f.pid.Mailbox().ReceiveWithTimeout(d, func(message interface{}) (loop bool) {
		response, err = f.result(message)
		return false
	})
	f.release()
	return
}

func (f *FutureActor) result(message interface{}) (interface{}, error) {
	switch msg := message.(type) {
	case Envelope:
		return msg.Message, nil
	case sysmsg.Exit:
		return nil, ErrTargetTerminated
	case sysmsg.Timeout:
		return nil, ErrTimeout
	case error:
		if msg == mailbox.ErrDisposed {
			return nil, msg
		}
		return msg, nil
	default:
		return msg, nil
	}
}

func (f *FutureActor) release() {
	if f.target != nil {
		f.target.Unwatch(f.pid, sysmsg.Monitored)
	}
	f.pid.Shutdown()
}

// Ask sends message to the target and waits for its reply
func Ask(to UserPID, message interface{}, timeout time.Duration) (interface{}, error) {
	f := NewFutureActor()
	f.Send(to, message)
	return f.RecvWithTimeout(timeout)
}
