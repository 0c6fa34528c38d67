package store

import (
	"errors"
	"fmt"
)

var (
	// ErrHandlerNotFound matches errors from dispatching an action whose
	// name has no handler.
	ErrHandlerNotFound = errors.New("action handler not found")

	// ErrHandlerFailed matches errors returned by a handler while computing
	// the next state.
	ErrHandlerFailed = errors.New("action handler failed")

	// ErrSubscriberFailed matches errors reported for a failing subscriber.
	ErrSubscriberFailed = errors.New("subscriber failed")
)

// HandlerNotFoundError reports an action name missing from the handler table.
type HandlerNotFoundError struct {
	Name string
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("action handler not found: %q", e.Name)
}

// Is matches ErrHandlerNotFound.
func (e *HandlerNotFoundError) Is(target error) bool {
	return target == ErrHandlerNotFound
}

// HandlerError wraps an error returned by the handler for Name.
type HandlerError struct {
	Name string
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handle %s: %v", e.Name, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Is matches ErrHandlerFailed.
func (e *HandlerError) Is(target error) bool {
	return target == ErrHandlerFailed
}

// SubscriberError describes one subscriber failing to accept the state
// committed at Seq. Subscription is the id assigned at Subscribe time.
type SubscriberError struct {
	Subscription uint64
	Seq          uint64
	Err          error
}

func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber %d failed at seq %d: %v", e.Subscription, e.Seq, e.Err)
}

func (e *SubscriberError) Unwrap() error {
	return e.Err
}

// Is matches ErrSubscriberFailed.
func (e *SubscriberError) Is(target error) bool {
	return target == ErrSubscriberFailed
}

// PanicError carries a value recovered from a panicking subscriber.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
