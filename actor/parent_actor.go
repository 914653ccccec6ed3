package actor

// NewParentActor returns an Actor with its termination handler that should be deferred right away
// so the parent Actor can handle possible panics and the termination job properly
func NewParentActor(args ...interface{}) (*Actor, func()) {
	a := createActor(args...)
	return a, a.handleTermination
}
