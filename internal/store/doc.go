// Package store provides tally's state container: an append-only history of
// immutable snapshots produced by dispatching actions.
//
// # Overview
//
// A Store is built from an initial state and a table of handlers keyed by
// action name. Dispatching an action looks up its handler, computes the next
// state from the current one, commits it to history and then tells every
// subscriber about it:
//
//	Caller:                     Store:                       Subscribers:
//	┌──────────────┐           ┌────────────────────┐       ┌────────────┐
//	│ Dispatch(a)  │──────────→│ handlers[name]     │       │            │
//	│              │           │      ↓             │       │            │
//	│              │           │ Current().TryMap() │       │            │
//	│              │           │      ↓             │       │            │
//	│              │           │ append to history  │──────→│ fn(state)  │
//	└──────────────┘           └────────────────────┘       └────────────┘
//
// History is the source of truth. It is committed before any subscriber
// runs and is never rolled back because of what a subscriber does.
//
// # Core Types
//
// Action:
//   - Anything with an ActionName
//   - Domain packages define closed sets of typed actions
//   - Descriptor carries untyped name/payload pairs from decoders
//
// Handler:
//   - func(Action, S) (S, error), pure
//   - On adapts a handler for one concrete action type
//
// Entry:
//   - Seq, Snapshot, Action and commit time
//   - Seq 0 is the initial state with a nil Action
//
// # Error Handling
//
// Three failure categories exist:
//
//	HandlerNotFoundError  returned (reported if queued), history unchanged
//	HandlerError          returned (reported if queued), history unchanged
//	SubscriberError       reported, delivery continues
//
// Use errors.Is with ErrHandlerNotFound, ErrHandlerFailed and
// ErrSubscriberFailed. A panicking subscriber is recovered and reported as a
// SubscriberError wrapping *PanicError. A panicking handler is not recovered;
// the panic reaches the caller and history stays as it was.
//
// Subscriber failures, and handler failures of queued dispatches, go to the
// reporter set with WithErrorReporter. The
// default reporter writes a line to the store's logger.
//
// # Concurrency Model
//
// Dispatch is a single-writer operation. The first caller becomes the
// dispatcher and drains a FIFO queue of pending actions. A Dispatch that
// arrives while it runs, whether from a subscriber inside a notification or
// from another goroutine, is queued and returns nil immediately. The
// dispatcher applies it after the current fan-out completes, so subscribers
// always see states in Seq order and no action is dropped. Failures of
// queued actions go to the reporter.
//
// Reads (Current, History, Len, Seq) take a read lock and are safe from any
// goroutine. Handlers and subscribers run without the lock held, so they may
// read the store.
//
// # Retention
//
// History is unbounded by default. WithRetention(n) keeps the newest n
// entries; Trim drops older entries on demand. Seq keeps counting across
// trims, so a dispatch always advances Seq by exactly one even when Len
// stays the same.
//
// # Usage Example
//
//	s := store.New(todo.Initial(), todo.Handlers(), store.WithRetention(500))
//	unsubscribe := s.Subscribe(func(st todo.State) error {
//		return render(st)
//	})
//	defer unsubscribe()
//
//	if err := s.Dispatch(todo.AddTodo{Text: "Buy milk"}); err != nil {
//		log.Printf("dispatch: %v", err)
//	}
package store
