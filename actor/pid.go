package actor

import (
	"github.com/hedisam/backoffactor/internal/pid"
)

type UserPID interface {
	ID() string
	SendUserMessage(message interface{})
	SendSystemMessage(message interface{})
}

// Envelope carries a message along with its logical sender. Actors see the bare message,
// the sender is available through Actor.Sender while the message is being handled.
type Envelope struct {
	Sender  UserPID
	Message interface{}
}

// SamePID reports whether a and b identify the same process
func SamePID(a, b UserPID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.ID() == b.ID()
}

func localPID(p UserPID) (*pid.LocalPID, bool) {
	l, ok := p.(*pid.LocalPID)
	return l, ok
}
