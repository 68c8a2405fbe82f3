package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseLobby    Phase = "lobby"    // Waiting for players to join and ready up
	PhasePlaying  Phase = "playing"  // A round is in progress
	PhaseFinished Phase = "finished" // Every player finished the current round
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo checks if a transition from current phase to target phase is valid.
// A room never goes back to the lobby; new rounds re-enter playing directly.
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:    {PhasePlaying},
		PhasePlaying:  {PhasePlaying, PhaseFinished},
		PhaseFinished: {PhasePlaying},
	}

	allowed, ok := validTransitions[p]
	if !ok {
		return false
	}

	for _, phase := range allowed {
		if phase == target {
			return true
		}
	}
	return false
}

// Started reports whether a round has been started at least once
func (p Phase) Started() bool {
	return p == PhasePlaying || p == PhaseFinished
}
