package backoff

import (
	"github.com/hedisam/backoffactor/sysmsg"
)

// Decider classifies a child's failure reason, the value it panicked with
type Decider func(reason interface{}) sysmsg.Directive

// DefaultDecider restarts the child on every failure
func DefaultDecider(interface{}) sysmsg.Directive {
	return sysmsg.Restart
}

// StoppingDecider stops the child on every failure
func StoppingDecider(interface{}) sysmsg.Directive {
	return sysmsg.Stop
}

// interceptor wraps the user's decider for the on-failure supervisor. A Restart is never
// handed to the child, it becomes a stop followed by a restart after the backoff.
type interceptor struct {
	decider Decider
}

func (i interceptor) decide(reason interface{}) (d sysmsg.Directive, backoff bool) {
	d = i.decider(reason)
	if d == sysmsg.Restart {
		return sysmsg.Stop, true
	}
	return d, false
}
