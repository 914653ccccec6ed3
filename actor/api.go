package actor

import (
	"github.com/hedisam/backoffactor/internal/logging"
	"github.com/hedisam/backoffactor/internal/metrics"
)

type Func func(a *Actor)

// Send delivers a message without a sender
func Send(to UserPID, message interface{}) {
	to.SendUserMessage(message)
}

// SendFrom delivers a message on behalf of sender, replies go to sender
func SendFrom(to UserPID, message interface{}, sender UserPID) {
	if sender == nil {
		Send(to, message)
		return
	}
	to.SendUserMessage(Envelope{Sender: sender, Message: message})
}

func SendNamed(name string, message interface{}) {
	namedPID := WhereIs(name)
	if namedPID == nil {
		l := logging.WithComponent("actor")
		l.Debug().Str("name", name).Msg("send named: pid not found")
		return
	}
	Send(namedPID, message)
}

func Spawn(fn Func, args ...interface{}) UserPID {
	a := createActor(args...)
	spawn(fn, a)
	return a.self
}

func createActor(args ...interface{}) *Actor {
	return newActor(newMailbox(), args)
}

func spawn(fn Func, a *Actor) {
	metrics.ProcessesSpawned.Inc()
	go func() {
		defer a.handleTermination()
		fn(a)
	}()
}

// Shutdown asks a process to terminate. It's asynchronous, monitor the process to learn
// when it's gone.
func Shutdown(p UserPID) {
	stop(p, nil)
}
