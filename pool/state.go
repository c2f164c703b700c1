package pool

// State is a worker's lifecycle state. A worker is Idle while waiting for a job,
// Running while executing one and Stopped once the queue is closed and drained.
// There's no way back from Stopped.
type State uint32

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}
