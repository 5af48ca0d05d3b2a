package window

// Phase is where an Owner is in its lifecycle. Phases only move forward.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseSubsystemReady
	PhaseWindowCreated
	PhaseContextActive
	PhaseCallbacksWired
	PhaseRunning
	PhaseDestroyed
)

var phaseNames = [...]string{
	PhaseUninitialized:  "uninitialized",
	PhaseSubsystemReady: "subsystem-ready",
	PhaseWindowCreated:  "window-created",
	PhaseContextActive:  "context-active",
	PhaseCallbacksWired: "callbacks-wired",
	PhaseRunning:        "running",
	PhaseDestroyed:      "destroyed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// failureKind is the error kind for a failure while leaving phase p.
func (p Phase) failureKind() Kind {
	switch p {
	case PhaseUninitialized:
		return KindSubsystemInit
	case PhaseWindowCreated:
		return KindContextActivation
	case PhaseContextActive:
		return KindFunctionLoad
	default:
		return KindWindowCreation
	}
}
