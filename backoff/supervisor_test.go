package backoff

import (
	"testing"
	"time"

	"github.com/hedisam/backoffactor/actor"
	"github.com/hedisam/backoffactor/sysmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// worker panics on "crash", returns on "quit", answers "ping" and says hello to its
// supervisor on "hello"
func worker(a *actor.Actor) {
	a.Receive(func(message interface{}) (loop bool) {
		switch message {
		case "crash":
			panic("boom")
		case "quit":
			return false
		case "ping":
			a.Reply("pong")
		case "hello":
			a.Send(a.Supervisor(), "hello from child")
		}
		return true
	})
}

func receiveOne(t *testing.T, a *actor.Actor) (msg interface{}, sender actor.UserPID) {
	t.Helper()
	a.ReceiveWithTimeout(waitFor, func(message interface{}) (loop bool) {
		msg, sender = message, a.Sender()
		return false
	})
	_, timedOut := msg.(sysmsg.Timeout)
	require.False(t, timedOut, "no message received")
	return
}

func currentChildOf(t *testing.T, ref *Ref) actor.UserPID {
	t.Helper()
	var child actor.UserPID
	require.Eventually(t, func() bool {
		c, err := ref.CurrentChild()
		child = c
		return err == nil && c != nil
	}, waitFor, tick)
	return child
}

func TestSupervisorRestartsFailedChild(t *testing.T) {
	ref, err := Start(OnFailure(worker, "restart-worker", 10*time.Millisecond, 50*time.Millisecond, 0.1).
		SetManualReset())
	require.NoError(t, err)
	defer ref.Shutdown()

	first := currentChildOf(t, ref)
	assert.True(t, actor.SamePID(first, actor.WhereIs("restart-worker")))

	actor.Send(first, "crash")
	require.Eventually(t, func() bool {
		c, err := ref.CurrentChild()
		return err == nil && c != nil && !actor.SamePID(c, first)
	}, waitFor, tick)

	count, err := ref.RestartCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	second := currentChildOf(t, ref)
	require.Eventually(t, func() bool {
		return actor.SamePID(second, actor.WhereIs("restart-worker"))
	}, waitFor, tick)

	ref.Reset()
	count, err = ref.RestartCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSupervisorForwardKeepsSender(t *testing.T) {
	observer, done := actor.NewParentActor()
	defer done()

	ref, err := Start(OnFailure(worker, "forward-worker", 10*time.Millisecond, 50*time.Millisecond, 0))
	require.NoError(t, err)
	defer ref.Shutdown()
	child := currentChildOf(t, ref)

	ref.SendFrom("ping", observer.Self())
	msg, sender := receiveOne(t, observer)
	assert.Equal(t, "pong", msg)
	// the reply didn't go through the supervisor
	assert.True(t, actor.SamePID(child, sender))
}

func TestSupervisorRelaysChildMessagesToParent(t *testing.T) {
	observer, done := actor.NewParentActor()
	defer done()

	ref, err := Start(OnStop(worker, "relay-worker", 10*time.Millisecond, 50*time.Millisecond, 0).
		SetParent(observer.Self()))
	require.NoError(t, err)
	defer ref.Shutdown()

	ref.Send("hello")
	msg, sender := receiveOne(t, observer)
	assert.Equal(t, "hello from child", msg)
	assert.True(t, actor.SamePID(ref.PID(), sender))
}

func TestSupervisorTerminatesOnSpontaneousStop(t *testing.T) {
	observer, done := actor.NewParentActor()
	defer done()

	ref, err := Start(OnFailure(worker, "quitting-worker", 10*time.Millisecond, 50*time.Millisecond, 0))
	require.NoError(t, err)
	observer.Monitor(ref.PID())

	actor.Send(currentChildOf(t, ref), "quit")

	msg, _ := receiveOne(t, observer)
	require.IsType(t, sysmsg.Exit{}, msg)
	exit := msg.(sysmsg.Exit)
	assert.True(t, actor.SamePID(ref.PID(), exit.Who.(actor.UserPID)))
	assert.Equal(t, sysmsg.ChildTerminated, exit.Reason.Type)
}

func TestSupervisorEscalates(t *testing.T) {
	observer, done := actor.NewParentActor()
	defer done()

	ref, err := Start(OnFailure(worker, "escalating-worker", 10*time.Millisecond, 50*time.Millisecond, 0).
		SetDecider(func(interface{}) sysmsg.Directive { return sysmsg.Escalate }))
	require.NoError(t, err)
	observer.Monitor(ref.PID())

	child := currentChildOf(t, ref)
	observer.Monitor(child)
	actor.Send(child, "crash")

	exits := make(map[string]sysmsg.Exit)
	for len(exits) < 2 {
		msg, _ := receiveOne(t, observer)
		require.IsType(t, sysmsg.Exit{}, msg)
		exit := msg.(sysmsg.Exit)
		exits[exit.Who.(actor.UserPID).ID()] = exit
	}

	supExit := exits[ref.PID().ID()]
	assert.Equal(t, sysmsg.Panic, supExit.Reason.Type)
	assert.Equal(t, "boom", supExit.Reason.Details)
	// the child went down with its supervisor
	assert.Equal(t, sysmsg.Kill, exits[child.ID()].Reason.Type)
}

func TestOnStopSupervisorRestartsQuittingChild(t *testing.T) {
	ref, err := Start(OnStop(worker, "on-stop-worker", 10*time.Millisecond, 50*time.Millisecond, 0).
		SetManualReset())
	require.NoError(t, err)
	defer ref.Shutdown()

	first := currentChildOf(t, ref)
	actor.Send(first, "quit")
	require.Eventually(t, func() bool {
		c, err := ref.CurrentChild()
		return err == nil && c != nil && !actor.SamePID(c, first)
	}, waitFor, tick)

	second := currentChildOf(t, ref)
	actor.Send(second, "crash")
	require.Eventually(t, func() bool {
		count, err := ref.RestartCount()
		return err == nil && count == 2
	}, waitFor, tick)
}

func TestSupervisorAutoReset(t *testing.T) {
	ref, err := Start(OnFailure(worker, "auto-reset-worker", 10*time.Millisecond, 50*time.Millisecond, 0).
		SetAutoReset(300 * time.Millisecond))
	require.NoError(t, err)
	defer ref.Shutdown()

	actor.Send(currentChildOf(t, ref), "crash")
	require.Eventually(t, func() bool {
		count, err := ref.RestartCount()
		return err == nil && count == 1
	}, waitFor, tick)

	// the new child lives long enough
	require.Eventually(t, func() bool {
		count, err := ref.RestartCount()
		return err == nil && count == 0
	}, waitFor, tick)
}

func TestSupervisorShutdown(t *testing.T) {
	observer, done := actor.NewParentActor()
	defer done()

	ref, err := Start(OnFailure(worker, "shutdown-worker", 10*time.Millisecond, 50*time.Millisecond, 0))
	require.NoError(t, err)
	child := currentChildOf(t, ref)
	observer.Monitor(child)

	ref.Shutdown()
	msg, _ := receiveOne(t, observer)
	require.IsType(t, sysmsg.Exit{}, msg)
	assert.Equal(t, sysmsg.Kill, msg.(sysmsg.Exit).Reason.Type)

	_, err = ref.RestartCount()
	assert.Error(t, err)
}

func TestSupervisorKeepsAnsweringWhenChildMailboxIsFull(t *testing.T) {
	stuck := make(chan struct{})
	defer close(stuck)
	stalled := func(a *actor.Actor) {
		<-stuck
	}

	// the shared processes keep their regular mailboxes
	actor.DeadLetters()
	actor.WhereIs("stalled-worker")
	require.NoError(t, actor.SetMailboxConfig(actor.MailboxConfig{Kind: "ringbuffer", Capacity: 4}))
	defer func() {
		require.NoError(t, actor.SetMailboxConfig(actor.MailboxConfig{Kind: "ringbuffer", Capacity: 1024}))
	}()

	ref, err := Start(OnFailure(stalled, "stalled-worker", 10*time.Millisecond, 50*time.Millisecond, 0))
	require.NoError(t, err)
	defer ref.Shutdown()
	currentChildOf(t, ref)

	sent := make(chan struct{})
	go func() {
		for i := 0; i < 16; i++ {
			ref.Send(i)
		}
		close(sent)
	}()
	select {
	case <-sent:
	case <-time.After(waitFor):
		t.Fatal("send to the supervisor blocked")
	}

	// the supervisor's own mailbox may have overflowed too, retry until it drained
	require.Eventually(t, func() bool {
		count, err := ref.RestartCount()
		return err == nil && count == 0
	}, 3*callTimeout, tick)
}
