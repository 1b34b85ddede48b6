package session

import "fmt"

// State is the manager's authentication state.
type State string

const (
	Anonymous     State = "anonymous"
	Authenticated State = "authenticated"
)

// Event triggers a state transition.
type Event string

const (
	EventLogin   Event = "login"
	EventRestore Event = "restore"
	EventLogout  Event = "logout"
	EventExpire  Event = "expire"
)

// transitions is the full state table. Anything missing is rejected.
var transitions = map[State]map[Event]State{
	Anonymous: {
		EventLogin:   Authenticated,
		EventRestore: Authenticated,
		EventLogout:  Anonymous,
	},
	Authenticated: {
		EventLogin:  Authenticated,
		EventLogout: Anonymous,
		EventExpire: Anonymous,
	},
}

func nextState(from State, ev Event) (State, error) {
	to, ok := transitions[from][ev]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", ErrNoTransition, from, ev)
	}
	return to, nil
}

// Change describes a completed transition.
type Change struct {
	From    State
	To      State
	Event   Event
	Session *Session // nil when To is Anonymous
	Reason  error    // ErrSessionExpired for expiry, otherwise nil
}
