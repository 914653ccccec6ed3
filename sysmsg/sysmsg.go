package sysmsg

type SystemMessage interface {
	systemMessage()
}

type Reason struct {
	Type    string
	Details interface{}
}

const (
	// Kill reason in case of a Shutdown message
	Kill   = "kill"
	Panic  = "panic"
	Normal = "normal"
	// ChildTerminated is used by a backoff supervisor that stops itself because its child
	// terminated without the supervisor asking for it
	ChildTerminated = "child_terminated"
)

type Relation string

const (
	Linked    Relation = "linked"
	Monitored Relation = "monitored"
)

// Directive is the outcome of a supervisor's fault decision for a failed child
type Directive int32

const (
	// Resume keeps the child running with its current state
	Resume Directive = iota
	// Restart replaces the child with a fresh instance
	Restart
	// Stop terminates the child for good
	Stop
	// Escalate fails the supervisor itself with the child's reason
	Escalate
)

func (d Directive) String() string {
	switch d {
	case Resume:
		return "resume"
	case Restart:
		return "restart"
	case Stop:
		return "stop"
	case Escalate:
		return "escalate"
	default:
		return "unknown"
	}
}
