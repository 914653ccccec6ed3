package backoff

import (
	"fmt"

	"github.com/hedisam/backoffactor/actor"
	"github.com/hedisam/backoffactor/internal/logging"
	"github.com/hedisam/backoffactor/internal/metrics"
	"github.com/hedisam/backoffactor/sysmsg"
	"github.com/rs/zerolog"
)

type event interface {
	event()
}

type controlEvent struct {
	sender actor.UserPID
	msg    Control
}

// terminatedEvent is the exit of a process linked to the supervisor
type terminatedEvent struct {
	who    actor.UserPID
	reason sysmsg.Reason
}

// failureEvent is a child's failure waiting for a directive
type failureEvent struct {
	who    actor.UserPID
	reason interface{}
}

type applicationEvent struct {
	sender actor.UserPID
	msg    interface{}
}

func (controlEvent) event()     {}
func (terminatedEvent) event()  {}
func (failureEvent) event()     {}
func (applicationEvent) event() {}

// toEvent classifies a message received by the supervisor
func toEvent(message interface{}, sender actor.UserPID) event {
	switch msg := message.(type) {
	case Control:
		return controlEvent{sender: sender, msg: msg}
	case sysmsg.Exit:
		who, _ := msg.Who.(actor.UserPID)
		return terminatedEvent{who: who, reason: msg.Reason}
	case sysmsg.Failure:
		who, _ := msg.Who.(actor.UserPID)
		return failureEvent{who: who, reason: msg.Reason}
	default:
		return applicationEvent{sender: sender, msg: message}
	}
}

type mode int

const (
	running mode = iota
	// awaitingTermination is entered when a failed child is being stopped to be restarted
	awaitingTermination
)

// state is owned by the supervisor's goroutine, the mailbox hands it one message at a time
// so it needs no locking
type state struct {
	opts         Options
	rt           runtime
	interceptor  interceptor
	child        actor.UserPID
	restartCount int
	mode         mode
	awaited      actor.UserPID
	// exit is set once the supervisor has to terminate
	exit   *sysmsg.Reason
	logger zerolog.Logger
}

func newState(opts Options, rt runtime) *state {
	return &state{
		opts:        opts,
		rt:          rt,
		interceptor: interceptor{decider: opts.Decider},
		logger: logging.WithComponent("backoff").With().
			Str("supervisor", opts.Name).
			Str("child", opts.ChildName).
			Logger(),
	}
}

// start spawns the first child
func (s *state) start() {
	s.spawnChild()
}

// handle applies one event, it returns false once the supervisor has to terminate
func (s *state) handle(ev event) (loop bool) {
	switch e := ev.(type) {
	case terminatedEvent:
		s.onTerminated(e)
	case failureEvent:
		s.onFailure(e)
	case controlEvent:
		s.onControl(e)
	case applicationEvent:
		s.route(e)
	}
	return s.exit == nil
}

func (s *state) onTerminated(e terminatedEvent) {
	if s.mode == awaitingTermination {
		if actor.SamePID(e.who, s.awaited) {
			s.mode = running
			s.awaited = nil
			s.scheduleRestart()
			return
		}
		s.unhandled(e)
		return
	}

	if s.opts.variant == onFailure {
		s.logger.Debug().Str("reason", e.reason.Type).Msg("terminating, child terminated itself")
		s.exit = &sysmsg.Reason{Type: sysmsg.ChildTerminated, Details: e.reason}
		return
	}

	if s.child != nil && actor.SamePID(e.who, s.child) {
		s.child = nil
		s.scheduleRestart()
		return
	}
	s.unhandled(e)
}

func (s *state) onFailure(e failureEvent) {
	if s.child == nil || !actor.SamePID(e.who, s.child) {
		// not ours anymore
		if e.who != nil {
			s.rt.direct(e.who, sysmsg.Stop)
		}
		return
	}

	var d sysmsg.Directive
	var backoff bool
	if s.opts.variant == onFailure {
		d, backoff = s.interceptor.decide(e.reason)
	} else {
		d = s.opts.Decider(e.reason)
	}
	s.logger.Debug().Interface("reason", e.reason).Str("directive", d.String()).
		Bool("backoff", backoff).Msg("child failed")

	switch {
	case backoff:
		s.rt.stopChild(s.child)
		s.awaited = s.child
		s.child = nil
		s.mode = awaitingTermination
	case d == sysmsg.Escalate:
		s.exit = &sysmsg.Reason{Type: sysmsg.Panic, Details: e.reason}
	case d == sysmsg.Stop && s.opts.variant == onFailure:
		s.rt.stopChild(s.child)
		s.child = nil
	default:
		s.rt.direct(s.child, d)
	}
}

func (s *state) onControl(e controlEvent) {
	switch msg := e.msg.(type) {
	case StartChild:
		if s.mode == awaitingTermination {
			// another one is scheduled once the awaited child is gone
			return
		}
		s.spawnChild()
		if r, ok := s.opts.Reset.(AutoReset); ok {
			s.rt.schedule(r.ResetBackoff, ResetRestartCount{Current: s.restartCount})
		}
	case Reset:
		if _, ok := s.opts.Reset.(ManualReset); !ok {
			s.unhandled(e)
			return
		}
		s.resetRestartCount()
	case ResetRestartCount:
		if _, ok := s.opts.Reset.(AutoReset); !ok {
			s.unhandled(e)
			return
		}
		// a restart is under way, the counter can't drop before it's scheduled
		if msg.Current != s.restartCount || s.mode == awaitingTermination {
			s.logger.Debug().Int("current", msg.Current).Int("restart_count", s.restartCount).
				Msg("stale reset ignored")
			return
		}
		s.resetRestartCount()
	case GetRestartCount:
		s.reply(e.sender, RestartCount{Count: s.restartCount})
	case GetCurrentChild:
		s.reply(e.sender, CurrentChild{Ref: s.child})
	default:
		s.unhandled(e)
	}
}

// route relays application messages. The child's messages go to the parent with the
// supervisor as sender, anybody else's go to the child with their sender kept.
func (s *state) route(e applicationEvent) {
	switch {
	case s.child != nil && actor.SamePID(e.sender, s.child):
		if s.opts.Parent == nil {
			s.rt.deadLetter(e.msg, s.rt.self())
			return
		}
		s.rt.send(s.opts.Parent, e.msg, s.rt.self())
	case s.child != nil:
		s.rt.send(s.child, e.msg, e.sender)
	default:
		s.rt.deadLetter(e.msg, e.sender)
	}
}

func (s *state) spawnChild() {
	if s.child != nil {
		return
	}
	s.child = s.rt.spawnChild()
	s.logger.Debug().Str("pid", s.child.ID()).Int("restart_count", s.restartCount).Msg("child started")
}

func (s *state) scheduleRestart() {
	delay := Delay(s.restartCount, s.opts.MinBackoff, s.opts.MaxBackoff, s.opts.RandomFactor, s.opts.Rand)
	s.rt.schedule(delay, StartChild{})
	s.restartCount++

	metrics.SupervisorRestarts.WithLabelValues(s.opts.ChildName).Inc()
	metrics.SupervisorRestartDelay.WithLabelValues(s.opts.ChildName).Observe(delay.Seconds())
	metrics.SupervisorRestartCount.WithLabelValues(s.opts.ChildName).Set(float64(s.restartCount))
	s.logger.Info().Dur("delay", delay).Int("restart_count", s.restartCount).Msg("child restart scheduled")
}

func (s *state) resetRestartCount() {
	s.restartCount = 0
	metrics.SupervisorResets.WithLabelValues(s.opts.ChildName, s.opts.Reset.String()).Inc()
	metrics.SupervisorRestartCount.WithLabelValues(s.opts.ChildName).Set(0)
	s.logger.Debug().Msg("restart count reset")
}

func (s *state) reply(to actor.UserPID, message interface{}) {
	if to == nil {
		s.rt.deadLetter(message, s.rt.self())
		return
	}
	s.rt.send(to, message, s.rt.self())
}

func (s *state) unhandled(ev event) {
	s.logger.Debug().Str("event", fmt.Sprintf("%T%+v", ev, ev)).Msg("unhandled")
}
