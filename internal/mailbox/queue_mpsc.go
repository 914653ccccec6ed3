package mailbox

import (
	"sync"

	"github.com/t3rm1n4l/go-mpscqueue"
)

// mpsc.New starts every queue on the same package-level stub node. newMPSCQueue moves a
// fresh queue onto a stub of its own before anybody else can push into it.
var stubMu sync.Mutex

// item boxes messages so the per-queue stub can't be mistaken for a user message
type item struct {
	message interface{}
}

type mpscQueue struct {
	q *mpsc.MPSCQueue
	// producers are serialized, so a positive Size guarantees the next node is linked
	pushMu sync.Mutex
}

func newMPSCQueue() *mpscQueue {
	q := mpsc.New()

	stubMu.Lock()
	q.Push(&item{})
	q.Pop()
	stubMu.Unlock()

	return &mpscQueue{q: q}
}

func (q *mpscQueue) push(message interface{}, _ bool) error {
	q.pushMu.Lock()
	q.q.Push(&item{message: message})
	q.pushMu.Unlock()
	return nil
}

// pop never calls Pop on an empty queue, Pop spins until something shows up
func (q *mpscQueue) pop() (interface{}, bool) {
	if q.q.Size() == 0 {
		return nil, false
	}
	return q.q.Pop().(*item).message, true
}

// the queue is garbage collected with the mailbox
func (q *mpscQueue) dispose() {}
