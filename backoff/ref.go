package backoff

import (
	"fmt"
	"time"

	"github.com/hedisam/backoffactor/actor"
)

// callTimeout bounds the requests made through a Ref
const callTimeout = 5 * time.Second

func errInvalidResponse(resp interface{}) error {
	return fmt.Errorf("supervisor has sent invalid response: %v", resp)
}

// Ref is a client for a running backoff supervisor
type Ref struct {
	pid actor.UserPID
}

func NewRef(p actor.UserPID) *Ref {
	return &Ref{pid: p}
}

func (r *Ref) PID() actor.UserPID {
	return r.pid
}

// CurrentChild returns the live child, nil while it's being restarted
func (r *Ref) CurrentChild() (actor.UserPID, error) {
	result, err := actor.Ask(r.pid, GetCurrentChild{}, callTimeout)
	if err != nil {
		return nil, err
	}
	current, ok := result.(CurrentChild)
	if !ok {
		return nil, errInvalidResponse(result)
	}
	return current.Ref, nil
}

func (r *Ref) RestartCount() (int, error) {
	result, err := actor.Ask(r.pid, GetRestartCount{}, callTimeout)
	if err != nil {
		return 0, err
	}
	count, ok := result.(RestartCount)
	if !ok {
		return 0, errInvalidResponse(result)
	}
	return count.Count, nil
}

// Reset zeroes the restart counter of a supervisor using ManualReset
func (r *Ref) Reset() {
	actor.Send(r.pid, Reset{})
}

func (r *Ref) StartChild() {
	actor.Send(r.pid, StartChild{})
}

// Send hands message to the child without a sender
func (r *Ref) Send(message interface{}) {
	actor.Send(r.pid, message)
}

// SendFrom hands message to the child, the child replies to sender directly
func (r *Ref) SendFrom(message interface{}, sender actor.UserPID) {
	actor.SendFrom(r.pid, message, sender)
}

// Shutdown terminates the supervisor and its child
func (r *Ref) Shutdown() {
	actor.Shutdown(r.pid)
}
