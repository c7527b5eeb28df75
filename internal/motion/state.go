package motion

// State is the engine's position in its run loop.
type State int

const (
	StateStarting State = iota
	StateDrawing
	StateIdleWaiting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "Starting"
	case StateDrawing:
		return "Drawing"
	case StateIdleWaiting:
		return "IdleWaiting"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
