package store

import (
	"errors"
	"log"
	"runtime/debug"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/five82/tally/internal/snapshot"
)

// Entry is one committed step in the history. The initial entry has Seq 0
// and a nil Action.
type Entry[S any] struct {
	Seq      uint64
	Snapshot snapshot.Snapshot[S]
	Action   Action
	At       time.Time
}

type pending struct {
	action Action
}

type subscription[S any] struct {
	id uint64
	fn Subscriber[S]
}

// Store keeps the history of states produced by dispatched actions and fans
// every committed state out to its subscribers.
type Store[S any] struct {
	mu          sync.RWMutex
	history     []Entry[S] // oldest first
	handlers    map[string]Handler[S]
	subs        []subscription[S]
	nextSub     uint64
	dispatching bool
	queue       []*pending

	retention int
	logger    *log.Logger
	report    func(error)
}

// New builds a store whose history holds a single entry wrapping initial.
// The handler table is copied; later changes to handlers are not seen.
func New[S any](initial S, handlers map[string]Handler[S], opts ...Option) *Store[S] {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	table := make(map[string]Handler[S], len(handlers))
	for name, h := range handlers {
		table[name] = h
	}

	s := &Store[S]{
		// Extract detaches initial from the caller when S is a Cloner.
		history:   []Entry[S]{{Snapshot: snapshot.New(snapshot.New(initial).Extract()), At: time.Now()}},
		handlers:  table,
		retention: o.retention,
		logger:    o.logger,
		report:    o.report,
	}
	if s.report == nil {
		s.report = s.logFailure
	}
	return s
}

// Current returns the snapshot of the most recent entry.
func (s *Store[S]) Current() snapshot.Snapshot[S] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history[len(s.history)-1].Snapshot
}

// Seq returns the sequence number of the current entry.
func (s *Store[S]) Seq() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history[len(s.history)-1].Seq
}

// Len returns the number of retained history entries.
func (s *Store[S]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// History returns a copy of the retained entries, most recent first.
func (s *Store[S]) History() []Entry[S] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry[S], len(s.history))
	for i, e := range s.history {
		e.Action = cloneAction(e.Action)
		out[len(out)-1-i] = e
	}
	return out
}

// Actions returns the sorted names the store has handlers for.
func (s *Store[S]) Actions() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch applies the handler registered for action to the current state,
// commits the result and notifies subscribers.
//
// A missing handler yields *HandlerNotFoundError and a failing handler
// yields *HandlerError; in both cases history is unchanged. Subscriber
// failures are reported, never returned.
//
// Dispatches are applied one at a time in arrival order. A Dispatch made
// while another is running, from a subscriber or from another goroutine, is
// queued and returns nil at once; the running Dispatch applies it before
// returning and reports its error, if any, instead of returning it.
func (s *Store[S]) Dispatch(action Action) error {
	if action == nil {
		return &HandlerNotFoundError{}
	}
	p := &pending{action: cloneAction(action)}

	s.mu.Lock()
	s.queue = append(s.queue, p)
	if s.dispatching {
		s.mu.Unlock()
		return nil
	}
	s.dispatching = true
	s.mu.Unlock()

	return s.drain(p)
}

// drain applies queued actions until the queue is empty and returns the
// error for own. Errors of other queued actions go to the reporter.
func (s *Store[S]) drain(own *pending) error {
	var ownErr error
	finished := false
	defer func() {
		// A panicking handler leaves the rest of the queue for the next
		// Dispatch.
		if !finished {
			s.mu.Lock()
			s.dispatching = false
			s.mu.Unlock()
		}
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			finished = true
			return ownErr
		}
		p := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		err := s.apply(p.action)
		switch {
		case p == own:
			ownErr = err
		case err != nil:
			s.report(err)
		}
	}
}

func (s *Store[S]) apply(action Action) error {
	name := action.ActionName()

	s.mu.RLock()
	handler, ok := s.handlers[name]
	current := s.history[len(s.history)-1]
	s.mu.RUnlock()
	if !ok {
		return &HandlerNotFoundError{Name: name}
	}

	next, err := snapshot.TryMap(current.Snapshot, func(prev S) (S, error) {
		return handler(action, prev)
	})
	if err != nil {
		return &HandlerError{Name: name, Err: err}
	}

	entry := Entry[S]{
		Seq:      current.Seq + 1,
		Snapshot: next,
		Action:   action,
		At:       time.Now(),
	}

	s.mu.Lock()
	s.history = append(s.history, entry)
	if s.retention > 0 {
		s.trimLocked(s.retention)
	}
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	s.notify(subs, entry)
	return nil
}

// Subscribe registers fn for every future commit. The same function may be
// registered more than once. The returned func removes this registration;
// calling it again is a no-op. A subscriber removed during a notification
// still receives that notification.
func (s *Store[S]) Subscribe(fn Subscriber[S]) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscription[S]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscription[S]) bool {
				return sub.id == id
			})
		})
	}
}

// Trim drops all but the newest keep entries and returns how many were
// dropped. keep is clamped to at least 1.
func (s *Store[S]) Trim(keep int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trimLocked(keep)
}

func (s *Store[S]) trimLocked(keep int) int {
	if keep < 1 {
		keep = 1
	}
	drop := len(s.history) - keep
	if drop <= 0 {
		return 0
	}
	// Copy so the dropped snapshots can be collected.
	s.history = append([]Entry[S](nil), s.history[drop:]...)
	return drop
}

func (s *Store[S]) notify(subs []subscription[S], entry Entry[S]) {
	for _, sub := range subs {
		if err := deliver(sub.fn, entry.Snapshot.Extract()); err != nil {
			s.report(&SubscriberError{Subscription: sub.id, Seq: entry.Seq, Err: err})
		}
	}
}

func deliver[S any](fn Subscriber[S], state S) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(state)
}

func (s *Store[S]) logFailure(err error) {
	var pe *PanicError
	if errors.As(err, &pe) {
		s.logger.Printf("%v\n%s", err, pe.Stack)
		return
	}
	s.logger.Printf("%v", err)
}
