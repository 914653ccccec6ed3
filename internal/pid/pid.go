package pid

import (
	"github.com/hedisam/backoffactor/internal/mailbox"
	"github.com/hedisam/backoffactor/sysmsg"
	"github.com/rs/xid"
)

type PID interface {
	ID() string
	Mailbox() mailbox.Mailbox
	SendUserMessage(message interface{})
	SendSystemMessage(message interface{})

	// Shutdown closes the process context's done channel.
	// used by supervisors when shutting down an actor
	Shutdown()
}

// LocalPID identifies a process running in this runtime
type LocalPID struct {
	id       string
	m        mailbox.Mailbox
	shutdown func()
	// directives is read by a suspended actor waiting for its supervisor's fault decision
	directives chan sysmsg.Directive
	watchers   watchers
}

func NewPID(m mailbox.Mailbox) *LocalPID {
	return &LocalPID{
		id:         xid.New().String(),
		m:          m,
		shutdown:   func() {},
		directives: make(chan sysmsg.Directive, 1),
	}
}

func (pid *LocalPID) ID() string {
	return pid.id
}

func (pid *LocalPID) String() string {
	return pid.id
}

func (pid *LocalPID) Mailbox() mailbox.Mailbox {
	return pid.m
}

func (pid *LocalPID) SendUserMessage(message interface{}) {
	pid.m.SendUserMessage(message)
}

func (pid *LocalPID) SendSystemMessage(message interface{}) {
	pid.m.SendSystemMessage(message)
}

func (pid *LocalPID) SetShutdownFn(shutdown func()) {
	pid.shutdown = shutdown
}

func (pid *LocalPID) Shutdown() {
	pid.shutdown()
}

// Direct hands a fault directive to the actor. Only the latest pending directive is kept.
func (pid *LocalPID) Direct(d sysmsg.Directive) {
	for {
		select {
		case pid.directives <- d:
			return
		default:
		}
		select {
		case <-pid.directives:
		default:
		}
	}
}

func (pid *LocalPID) Directives() <-chan sysmsg.Directive {
	return pid.directives
}
