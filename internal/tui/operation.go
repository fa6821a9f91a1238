package tui

// opState tracks where the current operation is in its lifecycle. Exactly
// one operation exists at a time; submissions outside stateIdle are ignored.
type opState int

const (
	stateIdle opState = iota
	stateValidating
	stateAwaiting
	stateSucceeded
	stateFailed
	stateCooling
)

func (s opState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateValidating:
		return "validating"
	case stateAwaiting:
		return "awaiting response"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	case stateCooling:
		return "cooling down"
	default:
		return "unknown"
	}
}

// validTransitions is the full set of legal lifecycle edges. Terminal states
// always pass through the cooldown before the next operation can start.
var validTransitions = map[opState][]opState{
	stateIdle:       {stateValidating},
	stateValidating: {stateAwaiting, stateFailed},
	stateAwaiting:   {stateSucceeded, stateFailed},
	stateSucceeded:  {stateCooling},
	stateFailed:     {stateCooling},
	stateCooling:    {stateIdle},
}

func isValidTransition(from, to opState) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// failKind classifies a failed operation for presentation. VideoTooLong is
// split out because it is an offer (extract the audio instead), not a dead
// end, and gets warning styling plus the fallback affordance.
type failKind int

const (
	failNone failKind = iota
	failValidation
	failTransport
	failServer
	failTooLong
)

// opMode selects what a submission asks the server for.
type opMode int

const (
	// modeFullProcess is the default run: download, transcribe, summarize.
	modeFullProcess opMode = iota
	// modeExtractOnly fetches just the audio track, skipping the length cap.
	modeExtractOnly
	// modeProcessExtracted re-runs processing against audio a previous
	// extraction left on the server, after a too-long rejection.
	modeProcessExtracted
)

func (m opMode) String() string {
	switch m {
	case modeFullProcess:
		return "full process"
	case modeExtractOnly:
		return "extract audio"
	case modeProcessExtracted:
		return "process extracted audio"
	default:
		return "unknown"
	}
}
