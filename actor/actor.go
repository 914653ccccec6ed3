package actor

import (
	"sync/atomic"
	"time"

	"github.com/hedisam/backoffactor/internal/context"
	"github.com/hedisam/backoffactor/internal/logging"
	"github.com/hedisam/backoffactor/internal/mailbox"
	"github.com/hedisam/backoffactor/internal/metrics"
	"github.com/hedisam/backoffactor/internal/pid"
	"github.com/hedisam/backoffactor/sysmsg"
	"github.com/rs/zerolog"
)

const (
	flagNo int32 = iota
	flagYes
)

type Actor struct {
	*context.Context
	self         *pid.LocalPID
	trapExit     int32
	handleFaults int32
	// supervisedBy is set for actors spawned with SpawnChild
	supervisedBy UserPID
	// reportFaults makes a panicking message handler report to supervisedBy and wait for a directive
	reportFaults bool
	// children are only touched by the actor's own goroutine
	children map[string]*pid.LocalPID
	// sender of the message being handled, nil if it was sent anonymously
	sender UserPID
	// the dead letters process drops its own overflow instead of mailing it to itself
	dropOverflow bool
	logger       zerolog.Logger
}

func newActor(m mailbox.Mailbox, args []interface{}) *Actor {
	self := pid.NewPID(m)
	a := &Actor{
		Context:  context.NewContext(self, args),
		self:     self,
		children: make(map[string]*pid.LocalPID),
		logger:   logging.WithComponent("actor").With().Str("pid", self.ID()).Logger(),
	}
	m.SetSystemMessageHandler(&systemHandler{actor: a})
	m.SetOverflowHandler(a.overflow)
	return a
}

// overflow runs on the sender's goroutine with a message our full mailbox rejected
func (a *Actor) overflow(message interface{}) {
	if a.dropOverflow {
		a.logger.Warn().Interface("message", message).Msg("dead letters overflow, message lost")
		return
	}
	if env, ok := message.(Envelope); ok {
		SendDeadLetter(a.self, env.Message, env.Sender)
		return
	}
	SendDeadLetter(a.self, message, nil)
}

func (a *Actor) Self() UserPID {
	return a.self
}

// Sender returns the sender of the message currently being handled
func (a *Actor) Sender() UserPID {
	return a.sender
}

// Supervisor returns the actor that spawned us with SpawnChild, nil otherwise
func (a *Actor) Supervisor() UserPID {
	return a.supervisedBy
}

// Send delivers message to the target with this actor as its sender
func (a *Actor) Send(to UserPID, message interface{}) {
	SendFrom(to, message, a.self)
}

// Forward delivers message to the target keeping the sender of the message being handled
func (a *Actor) Forward(to UserPID, message interface{}) {
	SendFrom(to, message, a.sender)
}

// Reply answers the sender of the message being handled. Anonymous messages can't be
// answered, the reply ends up in the dead letters.
func (a *Actor) Reply(message interface{}) {
	if a.sender == nil {
		SendDeadLetter(nil, message, a.self)
		return
	}
	a.Send(a.sender, message)
}

func (a *Actor) TrapExit(trapExit bool) {
	atomic.StoreInt32(&a.trapExit, boolFlag(trapExit))
}

func (a *Actor) trapExited() bool {
	return atomic.LoadInt32(&a.trapExit) == flagYes
}

// HandleFaults makes children spawned afterwards with SpawnChild report their failures
// as sysmsg.Failure messages. The failed child is suspended until Direct is called for it.
func (a *Actor) HandleFaults(handle bool) {
	atomic.StoreInt32(&a.handleFaults, boolFlag(handle))
}

func (a *Actor) handlesFaults() bool {
	return atomic.LoadInt32(&a.handleFaults) == flagYes
}

func (a *Actor) Link(to UserPID) {
	target, ok := localPID(to)
	if !ok {
		a.logger.Debug().Str("target", to.ID()).Msg("link: not a local process")
		return
	}
	a.self.Watch(target, sysmsg.Linked)
	target.Watch(a.self, sysmsg.Linked)
}

func (a *Actor) Unlink(to UserPID) {
	target, ok := localPID(to)
	if !ok {
		return
	}
	a.self.Unwatch(target, sysmsg.Linked)
	target.Unwatch(a.self, sysmsg.Linked)
}

// Monitor asks for a sysmsg.Exit with Monitored relation once the target terminates
func (a *Actor) Monitor(target UserPID) {
	t, ok := localPID(target)
	if !ok {
		a.logger.Debug().Str("target", target.ID()).Msg("monitor: not a local process")
		return
	}
	t.Watch(a.self, sysmsg.Monitored)
}

func (a *Actor) Demonitor(target UserPID) {
	if t, ok := localPID(target); ok {
		t.Unwatch(a.self, sysmsg.Monitored)
	}
}

func (a *Actor) SpawnLink(fn Func, args ...interface{}) UserPID {
	child := createActor(args...)
	a.self.Watch(child.self, sysmsg.Linked)
	child.self.Watch(a.self, sysmsg.Linked)
	spawn(fn, child)
	return child.self
}

func (a *Actor) SpawnMonitor(fn Func, args ...interface{}) UserPID {
	child := createActor(args...)
	child.self.Watch(a.self, sysmsg.Monitored)
	spawn(fn, child)
	return child.self
}

// SpawnChild spawns a linked child supervised by this actor. Children are shut down when
// their supervisor terminates.
func (a *Actor) SpawnChild(fn Func, args ...interface{}) UserPID {
	child := createActor(args...)
	child.supervisedBy = a.self
	child.reportFaults = a.handlesFaults()
	a.self.Watch(child.self, sysmsg.Linked)
	child.self.Watch(a.self, sysmsg.Linked)
	a.children[child.self.ID()] = child.self
	spawn(fn, child)
	return child.self
}

// StopChild asks a child to shut down. It's asynchronous, the caller learns about the
// termination through the Exit message.
func (a *Actor) StopChild(child UserPID) {
	stop(child, a.self)
}

// Direct hands a fault directive to a child suspended after reporting a failure
func (a *Actor) Direct(child UserPID, d sysmsg.Directive) {
	if c, ok := localPID(child); ok {
		c.Direct(d)
	}
}

func (a *Actor) Receive(handler mailbox.MessageHandler) {
	a.Context.Receive(a.wrap(handler))
}

func (a *Actor) ReceiveWithTimeout(d time.Duration, handler mailbox.MessageHandler) {
	a.Context.ReceiveWithTimeout(d, a.wrap(handler))
}

// wrap unpacks envelopes so the handler only sees the message, and guards the handler
// when failures must be reported to a supervisor
func (a *Actor) wrap(handler mailbox.MessageHandler) mailbox.MessageHandler {
	return func(message interface{}) (loop bool) {
		a.sender = nil
		if env, ok := message.(Envelope); ok {
			a.sender = env.Sender
			message = env.Message
		}
		if !a.reportFaults {
			return handler(message)
		}
		return a.guard(handler, message)
	}
}

func (a *Actor) guard(handler mailbox.MessageHandler, message interface{}) (loop bool) {
	var failed bool
	var reason interface{}
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			switch r.(type) {
			case sysmsg.Exit, sysmsg.Shutdown:
				// termination requests are not faults
				panic(r)
			}
			failed, reason = true, r
		}()
		loop = handler(message)
	}()
	if !failed {
		return loop
	}
	return a.reportFailure(reason)
}

// reportFailure suspends the actor until its supervisor decides what to do with it
func (a *Actor) reportFailure(reason interface{}) (loop bool) {
	a.logger.Debug().Interface("reason", reason).Msg("reporting failure to supervisor")
	a.supervisedBy.SendSystemMessage(sysmsg.Failure{Who: a.self, Reason: reason})

	select {
	case d := <-a.self.Directives():
		if d == sysmsg.Resume {
			return true
		}
		panic(sysmsg.Exit{
			Who:    a.self,
			Parent: a.supervisedBy,
			Reason: sysmsg.Reason{Type: sysmsg.Panic, Details: reason},
		})
	case <-a.Done():
		panic(sysmsg.Shutdown{Parent: a.supervisedBy})
	}
}

func (a *Actor) handleTermination() {
	exit := a.exitFor(recover())

	// close the mailbox so it can't accept any further messages
	a.self.Mailbox().Dispose()
	// the name must be free before anyone learns about the exit
	unregisterPID(a.self)

	for _, child := range a.children {
		stop(child, a.self)
	}
	a.children = nil

	linked, monitors := a.self.Terminate(exit)
	exit.Relation = sysmsg.Linked
	for _, l := range linked {
		l.SendSystemMessage(exit)
	}
	exit.Relation = sysmsg.Monitored
	for _, m := range monitors {
		m.SendSystemMessage(exit)
	}

	// release the context
	a.self.Shutdown()

	metrics.ProcessExits.WithLabelValues(exit.Reason.Type).Inc()
	a.logger.Debug().Str("reason", exit.Reason.Type).Msg("actor terminated")
}

func (a *Actor) exitFor(r interface{}) sysmsg.Exit {
	switch msg := r.(type) {
	case sysmsg.Exit:
		msg.Who = a.self
		return msg
	case sysmsg.Shutdown:
		// a trapping actor can panic with the shutdown command it received
		return sysmsg.Exit{
			Who:    a.self,
			Parent: msg.Parent,
			Reason: sysmsg.Reason{Type: sysmsg.Kill, Details: "shutdown cmd received from supervisor"},
		}
	case nil:
		select {
		case <-a.Done():
			if !a.trapExited() {
				// shut down while busy, the command never reached the system handler
				return sysmsg.Exit{
					Who:    a.self,
					Parent: a.supervisedBy,
					Reason: sysmsg.Reason{Type: sysmsg.Kill, Details: "shutdown cmd received from supervisor"},
				}
			}
		default:
		}
		return sysmsg.Exit{Who: a.self, Reason: sysmsg.Reason{Type: sysmsg.Normal}}
	default:
		return sysmsg.Exit{Who: a.self, Reason: sysmsg.Reason{Type: sysmsg.Panic, Details: r}}
	}
}

func stop(target UserPID, parent UserPID) {
	target.SendSystemMessage(sysmsg.Shutdown{Parent: parent})
	if t, ok := localPID(target); ok {
		t.Shutdown()
	}
}

func boolFlag(b bool) int32 {
	if b {
		return flagYes
	}
	return flagNo
}
