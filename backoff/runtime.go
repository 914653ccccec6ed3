package backoff

import (
	"math/rand"
	"time"

	"github.com/hedisam/backoffactor/actor"
	"github.com/hedisam/backoffactor/sysmsg"
)

// Scheduler delivers message to the target once, no earlier than d
type Scheduler interface {
	ScheduleOnce(d time.Duration, to actor.UserPID, message interface{})
}

// TimerScheduler schedules with time.AfterFunc. Deliveries to a terminated process are dropped
// by its disposed mailbox.
type TimerScheduler struct{}

func (TimerScheduler) ScheduleOnce(d time.Duration, to actor.UserPID, message interface{}) {
	time.AfterFunc(d, func() {
		actor.Send(to, message)
	})
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// runtime is what the state machine needs from the actor it runs in
type runtime interface {
	self() actor.UserPID
	spawnChild() actor.UserPID
	stopChild(child actor.UserPID)
	direct(child actor.UserPID, d sysmsg.Directive)
	schedule(d time.Duration, message Control)
	send(to actor.UserPID, message interface{}, sender actor.UserPID)
	deadLetter(message interface{}, sender actor.UserPID)
}

type actorRuntime struct {
	a    *actor.Actor
	opts Options
}

func newActorRuntime(a *actor.Actor, opts Options) *actorRuntime {
	return &actorRuntime{a: a, opts: opts}
}

func (r *actorRuntime) self() actor.UserPID {
	return r.a.Self()
}

// spawnChild spawns a linked child under the child name, the previous holder has already
// released the name by the time its exit reached us
func (r *actorRuntime) spawnChild() actor.UserPID {
	child := r.a.SpawnChild(r.opts.ChildFn, r.opts.ChildArgs...)
	actor.Register(r.opts.ChildName, child)
	return child
}

func (r *actorRuntime) stopChild(child actor.UserPID) {
	r.a.StopChild(child)
}

func (r *actorRuntime) direct(child actor.UserPID, d sysmsg.Directive) {
	r.a.Direct(child, d)
}

func (r *actorRuntime) schedule(d time.Duration, message Control) {
	r.opts.Scheduler.ScheduleOnce(d, r.a.Self(), message)
}

func (r *actorRuntime) send(to actor.UserPID, message interface{}, sender actor.UserPID) {
	actor.SendFrom(to, message, sender)
}

func (r *actorRuntime) deadLetter(message interface{}, sender actor.UserPID) {
	actor.Send(r.opts.DeadLetters, actor.DeadLetter{Sender: sender, Message: message})
}
