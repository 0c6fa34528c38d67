package store

import "fmt"

// Action is a named request to move the store to a new state. Domain
// packages define closed sets of typed actions; Descriptor covers actions
// that arrive untyped.
type Action interface {
	ActionName() string
}

// ActionCloner is implemented by actions that carry reference types. The
// store records a clone at dispatch and hands out clones from History, so
// the caller's value and the recorded one never share memory.
type ActionCloner interface {
	Action
	CloneAction() Action
}

func cloneAction(a Action) Action {
	if c, ok := a.(ActionCloner); ok {
		return c.CloneAction()
	}
	return a
}

// Descriptor is an untyped action: a name plus an opaque payload handed to
// the handler untouched.
type Descriptor struct {
	Name    string
	Payload any
}

// ActionName implements Action.
func (d Descriptor) ActionName() string {
	return d.Name
}

// Handler computes the next state from an action and the previous state.
// It must not mutate prev.
type Handler[S any] func(action Action, prev S) (S, error)

// Subscriber receives every committed state, in registration order.
type Subscriber[S any] func(state S) error

// On adapts a handler written against one concrete action type. The
// returned Handler fails when dispatched with any other type.
func On[S any, A Action](fn func(action A, prev S) (S, error)) Handler[S] {
	return func(action Action, prev S) (S, error) {
		typed, ok := action.(A)
		if !ok {
			var zero S
			return zero, fmt.Errorf("unexpected action type %T for %s", action, action.ActionName())
		}
		return fn(typed, prev)
	}
}
