package synth

// StateType represents the lifecycle state of one synthesis request.
type StateType int

const (
	// StateIdle indicates no request is in flight.
	StateIdle StateType = iota
	// StateTextPrepared indicates text has been stripped and sanitized.
	StateTextPrepared
	// StateSynthesizing indicates the engine is producing audio.
	StateSynthesizing
	// StateCompleted indicates audio was delivered in full.
	StateCompleted
	// StateCancelled indicates the request was stopped before completion.
	StateCancelled
	// StateFailed indicates preparation or the engine failed.
	StateFailed
)

// String returns the string representation of the state.
func (s StateType) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTextPrepared:
		return "text prepared"
	case StateSynthesizing:
		return "synthesizing"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends a request. Terminal states
// reset to idle when the next request begins.
func (s StateType) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// StateMachine manages state transitions for a synthesis request.
type StateMachine struct {
	current     StateType
	transitions map[StateType][]StateType
	onEnter     map[StateType]func()
	onExit      map[StateType]func()
}

// NewStateMachine creates a new state machine with valid transitions.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[StateType][]StateType{
			StateIdle:         {StateTextPrepared, StateFailed},
			StateTextPrepared: {StateSynthesizing, StateFailed, StateCancelled},
			StateSynthesizing: {StateCompleted, StateCancelled, StateFailed},
			StateCompleted:    {StateIdle},
			StateCancelled:    {StateIdle},
			StateFailed:       {StateIdle},
		},
		onEnter: make(map[StateType]func()),
		onExit:  make(map[StateType]func()),
	}
}

// Transition attempts to transition to the specified state.
func (sm *StateMachine) Transition(to StateType) bool {
	validTransitions, ok := sm.transitions[sm.current]
	if !ok {
		return false
	}

	valid := false
	for _, state := range validTransitions {
		if state == to {
			valid = true
			break
		}
	}

	if !valid {
		return false
	}

	if exitFn, ok := sm.onExit[sm.current]; ok && exitFn != nil {
		exitFn()
	}

	sm.current = to

	if enterFn, ok := sm.onEnter[to]; ok && enterFn != nil {
		enterFn()
	}

	return true
}

// Current returns the current state.
func (sm *StateMachine) Current() StateType {
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state StateType, fn func()) {
	sm.onEnter[state] = fn
}

// OnExit registers a callback for exiting a state.
func (sm *StateMachine) OnExit(state StateType, fn func()) {
	sm.onExit[state] = fn
}
