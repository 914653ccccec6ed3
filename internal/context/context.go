package context

import (
	"context"
	"time"

	"github.com/hedisam/backoffactor/internal/mailbox"
	"github.com/hedisam/backoffactor/internal/pid"
)

type Context struct {
	pid  *pid.LocalPID
	args []interface{}
	ctx  context.Context
}

// NewContext binds a cancelable context to the pid, cancel is exposed through pid.Shutdown
func NewContext(p *pid.LocalPID, args []interface{}) *Context {
	ctx, cancel := context.WithCancel(context.Background())
	p.SetShutdownFn(cancel)
	return &Context{
		pid:  p,
		args: args,
		ctx:  ctx,
	}
}

func (ctx *Context) Args() []interface{} {
	return ctx.args
}

func (ctx *Context) Receive(handler mailbox.MessageHandler) {
	ctx.pid.Mailbox().Receive(handler)
}

func (ctx *Context) ReceiveWithTimeout(d time.Duration, handler mailbox.MessageHandler) {
	ctx.pid.Mailbox().ReceiveWithTimeout(d, handler)
}

// Done returns a channel that's closed once the actor has been shutdown,
// users should listen for the channel in case of long running tasks, if closed, terminate by returning.
func (ctx *Context) Done() <-chan struct{} {
	return ctx.ctx.Done()
}

// Context returns golang's context.Context that can be used and passed to inner function calls by the user.
func (ctx *Context) Context() context.Context {
	return ctx.ctx
}
