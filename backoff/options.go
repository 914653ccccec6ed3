package backoff

import (
	"fmt"
	"math"
	"time"

	"github.com/hedisam/backoffactor/actor"
	"github.com/rs/xid"
)

var ErrInvalidOptions = fmt.Errorf("invalid backoff options")

// ConfigError reports an invalid option, it matches ErrInvalidOptions with errors.Is
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidOptions, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidOptions
}

type variant int32

const (
	// the child is restarted whenever it stops
	onStop variant = iota
	// the child is restarted when the decider says so, any other stop ends the supervisor
	onFailure
)

func (v variant) String() string {
	if v == onFailure {
		return "on_failure"
	}
	return "on_stop"
}

type Options struct {
	ChildFn   actor.Func
	ChildArgs []interface{}
	// ChildName is registered for every child instance
	ChildName    string
	MinBackoff   time.Duration
	MaxBackoff   time.Duration
	RandomFactor float64
	Reset        ResetPolicy
	Decider      Decider
	// Parent receives the messages sent by the child, nil sends them to the dead letters
	Parent      actor.UserPID
	DeadLetters actor.UserPID
	Rand        Random
	Scheduler   Scheduler
	// Name the supervisor is registered under
	Name    string
	variant variant
}

// OnStop returns options for a supervisor restarting the child, after a backoff, every
// time it stops. Failures stop the child unless another decider is set.
func OnStop(fn actor.Func, childName string, minBackoff, maxBackoff time.Duration, randomFactor float64) Options {
	return newOptions(onStop, fn, childName, minBackoff, maxBackoff, randomFactor).
		SetDecider(StoppingDecider)
}

// OnFailure returns options for a supervisor restarting the child, after a backoff, when
// the decider says Restart for its failure. The supervisor terminates if the child stops
// for any other reason.
func OnFailure(fn actor.Func, childName string, minBackoff, maxBackoff time.Duration, randomFactor float64) Options {
	return newOptions(onFailure, fn, childName, minBackoff, maxBackoff, randomFactor).
		SetDecider(DefaultDecider)
}

func newOptions(v variant, fn actor.Func, childName string, minBackoff, maxBackoff time.Duration, randomFactor float64) Options {
	return Options{
		ChildFn:      fn,
		ChildName:    childName,
		MinBackoff:   minBackoff,
		MaxBackoff:   maxBackoff,
		RandomFactor: randomFactor,
		Reset:        AutoReset{ResetBackoff: minBackoff},
		Name:         xid.New().String(),
		variant:      v,
	}
}

func (opt Options) SetChildArgs(args ...interface{}) Options {
	opt.ChildArgs = args
	return opt
}

// SetAutoReset resets the restart counter once a child survived d, zero means MinBackoff
func (opt Options) SetAutoReset(d time.Duration) Options {
	opt.Reset = AutoReset{ResetBackoff: d}
	return opt
}

func (opt Options) SetManualReset() Options {
	opt.Reset = ManualReset{}
	return opt
}

func (opt Options) SetDecider(decider Decider) Options {
	opt.Decider = decider
	return opt
}

// SetDefaultStoppingStrategy stops the child on any failure
func (opt Options) SetDefaultStoppingStrategy() Options {
	return opt.SetDecider(StoppingDecider)
}

func (opt Options) SetParent(parent actor.UserPID) Options {
	opt.Parent = parent
	return opt
}

func (opt Options) SetDeadLetters(deadLetters actor.UserPID) Options {
	opt.DeadLetters = deadLetters
	return opt
}

// SetRand sets the jitter source. It's only used by the supervisor's goroutine but must not
// be shared between supervisors.
func (opt Options) SetRand(rnd Random) Options {
	opt.Rand = rnd
	return opt
}

func (opt Options) SetScheduler(scheduler Scheduler) Options {
	opt.Scheduler = scheduler
	return opt
}

func (opt Options) SetName(name string) Options {
	opt.Name = name
	return opt
}

func (opt Options) Validate() error {
	switch {
	case opt.ChildFn == nil:
		return &ConfigError{Field: "ChildFn", Reason: "must not be nil"}
	case opt.ChildName == "":
		return &ConfigError{Field: "ChildName", Reason: "must not be empty"}
	case opt.Name == "":
		return &ConfigError{Field: "Name", Reason: "must not be empty"}
	case opt.MinBackoff <= 0:
		return &ConfigError{Field: "MinBackoff", Reason: "must be greater than 0"}
	case opt.MaxBackoff < opt.MinBackoff:
		return &ConfigError{Field: "MaxBackoff", Reason: "must be greater than or equal to MinBackoff"}
	case math.IsNaN(opt.RandomFactor) || opt.RandomFactor < 0 || opt.RandomFactor > 1:
		return &ConfigError{Field: "RandomFactor", Reason: "must be between 0.0 and 1.0"}
	}

	switch r := opt.Reset.(type) {
	case nil, ManualReset:
	case AutoReset:
		if r.ResetBackoff < 0 {
			return &ConfigError{Field: "Reset", Reason: "reset backoff must not be negative"}
		}
	default:
		return &ConfigError{Field: "Reset", Reason: fmt.Sprintf("unknown reset policy %T", r)}
	}
	return nil
}

// withDefaults fills what's left unset, it's applied to a validated copy by Start
func (opt Options) withDefaults() Options {
	if opt.Reset == nil {
		opt.Reset = AutoReset{ResetBackoff: opt.MinBackoff}
	}
	if r, ok := opt.Reset.(AutoReset); ok && r.ResetBackoff == 0 {
		opt.Reset = AutoReset{ResetBackoff: opt.MinBackoff}
	}
	if opt.Decider == nil {
		opt.Decider = DefaultDecider
		if opt.variant == onStop {
			opt.Decider = StoppingDecider
		}
	}
	if opt.DeadLetters == nil {
		opt.DeadLetters = actor.DeadLetters()
	}
	if opt.Rand == nil {
		opt.Rand = newRand()
	}
	if opt.Scheduler == nil {
		opt.Scheduler = TimerScheduler{}
	}
	return opt
}
