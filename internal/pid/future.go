package pid

import (
	"github.com/hedisam/backoffactor/internal/mailbox"
	"github.com/rs/xid"
)

type futurePID struct {
	id      string
	mailbox *mailbox.FutureMailbox
}

func NewFuturePID() PID {
	return &futurePID{
		id:      xid.New().String(),
		mailbox: mailbox.NewFutureMailbox(),
	}
}

func (f *futurePID) ID() string {
	return f.id
}

func (f *futurePID) String() string {
	return f.id
}

func (f *futurePID) Mailbox() mailbox.Mailbox {
	return f.mailbox
}

func (f *futurePID) SendUserMessage(message interface{}) {
	f.mailbox.SendUserMessage(message)
}

func (f *futurePID) SendSystemMessage(message interface{}) {
	f.mailbox.SendSystemMessage(message)
}

func (f *futurePID) Shutdown() {
	f.mailbox.Dispose()
}
