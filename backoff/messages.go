package backoff

import (
	"github.com/hedisam/backoffactor/actor"
)

// Control is implemented by the messages the supervisor interprets itself, anything else
// is routed between the child and the parent
type Control interface {
	control()
}

// StartChild spawns the child if there's none. Scheduled by the supervisor after a backoff.
type StartChild struct{}

// Reset zeroes the restart counter, only handled under ManualReset
type Reset struct{}

// GetRestartCount is answered with RestartCount
type GetRestartCount struct{}

type RestartCount struct {
	Count int
}

// GetCurrentChild is answered with CurrentChild
type GetCurrentChild struct{}

// CurrentChild carries the live child, Ref is nil while there's none
type CurrentChild struct {
	Ref actor.UserPID
}

// ResetRestartCount is scheduled by the supervisor itself under AutoReset. Current is the
// counter at the time the child was started.
type ResetRestartCount struct {
	Current int
}

func (StartChild) control()        {}
func (Reset) control()             {}
func (GetRestartCount) control()   {}
func (RestartCount) control()      {}
func (GetCurrentChild) control()   {}
func (CurrentChild) control()      {}
func (ResetRestartCount) control() {}
