package actor

import (
	"sync"

	"github.com/hedisam/backoffactor/internal/metrics"
)

// DeadLetter wraps a message that couldn't be delivered to its recipient
type DeadLetter struct {
	// Recipient is nil when there was nobody to deliver to
	Recipient UserPID
	Sender    UserPID
	Message   interface{}
}

// SubscribeDeadLetters makes the dead letters process forward every DeadLetter to Subscriber
type SubscribeDeadLetters struct {
	Subscriber UserPID
}

var (
	deadLettersOnce sync.Once
	deadLettersPID  UserPID
)

// DeadLetters returns the process collecting undeliverable messages
func DeadLetters() UserPID {
	deadLettersOnce.Do(func() {
		a := createActor()
		a.dropOverflow = true
		spawn(deadLettersLoop, a)
		deadLettersPID = a.self
	})
	return deadLettersPID
}

func SendDeadLetter(recipient UserPID, message interface{}, sender UserPID) {
	Send(DeadLetters(), DeadLetter{Recipient: recipient, Sender: sender, Message: message})
}

func deadLettersLoop(a *Actor) {
	var subscribers []UserPID
	a.Receive(func(message interface{}) (loop bool) {
		switch msg := message.(type) {
		case SubscribeDeadLetters:
			subscribers = append(subscribers, msg.Subscriber)
		case DeadLetter:
			metrics.DeadLetters.Inc()
			l := a.logger.Info().Interface("message", msg.Message)
			if msg.Recipient != nil {
				l = l.Str("recipient", msg.Recipient.ID())
			}
			if msg.Sender != nil {
				l = l.Str("sender", msg.Sender.ID())
			}
			l.Msg("dead letter")

			for _, s := range subscribers {
				Send(s, msg)
			}
		default:
			a.logger.Debug().Interface("message", msg).Msg("dead letters: unknown message")
		}
		return true
	})
}
