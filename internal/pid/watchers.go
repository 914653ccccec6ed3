package pid

import (
	"sync"

	"github.com/hedisam/backoffactor/sysmsg"
)

// watchers keeps the processes to be notified when the owner terminates. It's guarded by a
// mutex rather than the owner's mailbox so that a watch added concurrently with the owner's
// termination is either notified by the termination or answered with the recorded exit.
type watchers struct {
	mu       sync.Mutex
	linked   map[string]PID
	monitors map[string]PID
	exit     *sysmsg.Exit
}

func (w *watchers) repo(relation sysmsg.Relation) map[string]PID {
	if relation == sysmsg.Linked {
		if w.linked == nil {
			w.linked = make(map[string]PID)
		}
		return w.linked
	}
	if w.monitors == nil {
		w.monitors = make(map[string]PID)
	}
	return w.monitors
}

// Watch registers watcher to receive an Exit once this process terminates. If the process
// has already terminated the watcher is notified right away.
func (pid *LocalPID) Watch(watcher PID, relation sysmsg.Relation) {
	pid.watchers.mu.Lock()
	if pid.watchers.exit == nil {
		pid.watchers.repo(relation)[watcher.ID()] = watcher
		pid.watchers.mu.Unlock()
		return
	}
	exit := *pid.watchers.exit
	pid.watchers.mu.Unlock()

	exit.Relation = relation
	watcher.SendSystemMessage(exit)
}

func (pid *LocalPID) Unwatch(watcher PID, relation sysmsg.Relation) {
	pid.watchers.mu.Lock()
	defer pid.watchers.mu.Unlock()
	delete(pid.watchers.repo(relation), watcher.ID())
}

// Terminate records the exit and returns the processes that must be notified about it.
// Only the first call has an effect.
func (pid *LocalPID) Terminate(exit sysmsg.Exit) (linked, monitors []PID) {
	pid.watchers.mu.Lock()
	defer pid.watchers.mu.Unlock()
	if pid.watchers.exit != nil {
		return nil, nil
	}
	pid.watchers.exit = &exit

	for _, l := range pid.watchers.linked {
		linked = append(linked, l)
	}
	for _, m := range pid.watchers.monitors {
		monitors = append(monitors, m)
	}
	pid.watchers.linked = nil
	pid.watchers.monitors = nil
	return
}

// Alive reports whether Terminate has not been called yet
func (pid *LocalPID) Alive() bool {
	pid.watchers.mu.Lock()
	defer pid.watchers.mu.Unlock()
	return pid.watchers.exit == nil
}
