package backoff

import (
	"github.com/hedisam/backoffactor/actor"
	"github.com/hedisam/backoffactor/sysmsg"
)

// Start validates the options and spawns the supervisor, which spawns the first child right
// away. The supervisor is registered under opts.Name.
func Start(opts Options) (*Ref, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	p := actor.Spawn(func(a *actor.Actor) {
		supervise(a, opts)
	})
	actor.Register(opts.Name, p)
	return &Ref{pid: p}, nil
}

func supervise(a *actor.Actor, opts Options) {
	// children's exits and failures arrive as messages
	a.TrapExit(true)
	a.HandleFaults(true)

	s := newState(opts, newActorRuntime(a, opts))
	s.logger.Info().Str("variant", opts.variant.String()).Str("reset", opts.Reset.String()).
		Dur("min_backoff", opts.MinBackoff).Dur("max_backoff", opts.MaxBackoff).
		Msg("backoff supervisor started")
	s.start()

	a.Receive(func(message interface{}) (loop bool) {
		if shutdown, ok := message.(sysmsg.Shutdown); ok {
			panic(shutdown)
		}
		return s.handle(toEvent(message, a.Sender()))
	})

	if s.exit != nil {
		s.logger.Info().Str("reason", s.exit.Type).Msg("backoff supervisor terminating")
		panic(sysmsg.Exit{Reason: *s.exit})
	}
}
