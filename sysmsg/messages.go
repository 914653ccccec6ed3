package sysmsg

import (
	"time"
)

// Exit describes an exit event emitted by a monitored/linked actor
type Exit struct {
	// Who is the actor that terminated
	Who interface{}
	// Parent is the actor that made "Who" to terminate
	Parent interface{}
	// Reason behind the termination
	Reason Reason
	// Relation describes the relationship between terminated actor and the one who received the message
	Relation Relation
}

func (e Exit) systemMessage() {}

// Shutdown is command omitted by a supervisor to terminate a supervised actor
type Shutdown struct {
	// Parent is the commanding actor/supervisor
	Parent interface{}
}

func (s Shutdown) systemMessage() {}

// Failure is reported by a supervised actor to its supervisor when its message handler panics.
// The failed actor is suspended until it receives a Directive.
type Failure struct {
	Who    interface{}
	Reason interface{}
}

func (f Failure) systemMessage() {}

type Timeout struct {
	Duration time.Duration
}

func (t Timeout) systemMessage() {}
