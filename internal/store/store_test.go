package store

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type add struct{ N int }

func (add) ActionName() string { return "ADD" }

type fail struct{}

func (fail) ActionName() string { return "FAIL" }

type counter struct {
	Total int
	Log   []int
}

func (c counter) Clone() counter {
	c.Log = append([]int(nil), c.Log...)
	return c
}

var errFail = errors.New("handler refused")

func counterHandlers() map[string]Handler[counter] {
	return map[string]Handler[counter]{
		"ADD": On(func(a add, prev counter) (counter, error) {
			prev.Total += a.N
			prev.Log = append(prev.Log, a.N)
			return prev, nil
		}),
		"FAIL": func(Action, counter) (counter, error) {
			return counter{}, errFail
		},
	}
}

func newCounterStore(opts ...Option) *Store[counter] {
	return New(counter{}, counterHandlers(), opts...)
}

func TestNew_SingleInitialEntry(t *testing.T) {
	s := newCounterStore()

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	h := s.History()
	if h[0].Action != nil {
		t.Fatalf("initial Action = %v, want nil", h[0].Action)
	}
	if h[0].Seq != 0 {
		t.Fatalf("initial Seq = %d, want 0", h[0].Seq)
	}
	if got := s.Current().Extract().Total; got != 0 {
		t.Fatalf("Current().Total = %d, want 0", got)
	}
}

func TestNew_CopiesHandlerTable(t *testing.T) {
	handlers := counterHandlers()
	s := New(counter{}, handlers)
	delete(handlers, "ADD")

	if err := s.Dispatch(add{N: 1}); err != nil {
		t.Fatalf("Dispatch after caller mutated table: %v", err)
	}
}

func TestDispatch_AppendsOneEntry(t *testing.T) {
	s := newCounterStore()

	for i := 1; i <= 3; i++ {
		a := add{N: i}
		if err := s.Dispatch(a); err != nil {
			t.Fatalf("Dispatch(%v): %v", a, err)
		}
		if s.Len() != i+1 {
			t.Fatalf("Len() = %d, want %d", s.Len(), i+1)
		}
		head := s.History()[0]
		if head.Action != a {
			t.Fatalf("History()[0].Action = %v, want %v", head.Action, a)
		}
		if head.Seq != uint64(i) {
			t.Fatalf("History()[0].Seq = %d, want %d", head.Seq, i)
		}
	}

	want := counter{Total: 6, Log: []int{1, 2, 3}}
	if diff := cmp.Diff(want, s.Current().Extract()); diff != "" {
		t.Fatalf("Current() mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_HistoryEntriesAreNotAliased(t *testing.T) {
	s := newCounterStore()
	_ = s.Dispatch(add{N: 1})
	_ = s.Dispatch(add{N: 2})

	h := s.History()
	if diff := cmp.Diff([]int{1}, h[1].Snapshot.Extract().Log); diff != "" {
		t.Fatalf("older entry changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int(nil), h[2].Snapshot.Extract().Log); diff != "" {
		t.Fatalf("initial entry changed (-want +got):\n%s", diff)
	}
}

func TestDispatch_UnknownActionLeavesHistory(t *testing.T) {
	s := newCounterStore()
	_ = s.Dispatch(add{N: 1})
	notified := 0
	s.Subscribe(func(counter) error { notified++; return nil })

	err := s.Dispatch(Descriptor{Name: "NOT_A_REAL_ACTION"})

	var nf *HandlerNotFoundError
	if !errors.As(err, &nf) || nf.Name != "NOT_A_REAL_ACTION" {
		t.Fatalf("Dispatch error = %v, want HandlerNotFoundError for NOT_A_REAL_ACTION", err)
	}
	if !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("errors.Is(err, ErrHandlerNotFound) = false for %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if notified != 0 {
		t.Fatalf("subscriber notified %d times, want 0", notified)
	}
}

func TestDispatch_NilAction(t *testing.T) {
	s := newCounterStore()
	if err := s.Dispatch(nil); !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("Dispatch(nil) = %v, want ErrHandlerNotFound", err)
	}
}

func TestDispatch_HandlerErrorLeavesHistory(t *testing.T) {
	s := newCounterStore()
	notified := 0
	s.Subscribe(func(counter) error { notified++; return nil })

	err := s.Dispatch(fail{})
	if !errors.Is(err, ErrHandlerFailed) || !errors.Is(err, errFail) {
		t.Fatalf("Dispatch error = %v, want ErrHandlerFailed wrapping %v", err, errFail)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if notified != 0 {
		t.Fatalf("subscriber notified %d times, want 0", notified)
	}
}

func TestDispatch_HandlerTypeMismatch(t *testing.T) {
	s := newCounterStore()
	err := s.Dispatch(Descriptor{Name: "ADD", Payload: 1})
	if !errors.Is(err, ErrHandlerFailed) {
		t.Fatalf("Dispatch error = %v, want ErrHandlerFailed", err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestDispatch_HandlerPanicPropagates(t *testing.T) {
	panicked := false
	s := New(counter{}, map[string]Handler[counter]{
		"ADD": func(_ Action, prev counter) (counter, error) {
			if !panicked {
				panicked = true
				panic("boom")
			}
			return prev, nil
		},
	})

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected handler panic to propagate")
			}
		}()
		_ = s.Dispatch(add{N: 1})
	}()

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after panic", s.Len())
	}
	// The store must accept dispatches again once the panic unwound.
	if err := s.Dispatch(add{N: 1}); err != nil {
		t.Fatalf("Dispatch after panic = %v, want nil", err)
	}
}

func TestSubscribe_OrderPreserved(t *testing.T) {
	s := newCounterStore()
	var calls []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		s.Subscribe(func(counter) error {
			calls = append(calls, name)
			return nil
		})
	}

	_ = s.Dispatch(add{N: 1})
	_ = s.Dispatch(add{N: 1})

	want := []string{"a", "b", "c", "a", "b", "c"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribe_DuplicateRegistrations(t *testing.T) {
	s := newCounterStore()
	n := 0
	fn := func(counter) error { n++; return nil }
	s.Subscribe(fn)
	s.Subscribe(fn)

	_ = s.Dispatch(add{N: 1})
	if n != 2 {
		t.Fatalf("calls = %d, want 2", n)
	}
}

func TestSubscribe_IsolatesFailures(t *testing.T) {
	var reported []error
	s := newCounterStore(WithErrorReporter(func(err error) { reported = append(reported, err) }))

	firstCalls := 0
	s.Subscribe(func(counter) error {
		firstCalls++
		return errors.New("render failed")
	})
	s.Subscribe(func(counter) error { panic("exploded") })
	var got counter
	secondCalls := 0
	s.Subscribe(func(c counter) error {
		secondCalls++
		got = c
		return nil
	})

	if err := s.Dispatch(add{N: 5}); err != nil {
		t.Fatalf("Dispatch returned %v, want nil", err)
	}

	if firstCalls != 1 || secondCalls != 1 {
		t.Fatalf("calls = (%d, %d), want (1, 1)", firstCalls, secondCalls)
	}
	if got.Total != 5 {
		t.Fatalf("last subscriber got Total %d, want 5", got.Total)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if len(reported) != 2 {
		t.Fatalf("reported %d errors, want 2", len(reported))
	}
	for _, err := range reported {
		if !errors.Is(err, ErrSubscriberFailed) {
			t.Fatalf("reported %v, want ErrSubscriberFailed", err)
		}
	}
	var pe *PanicError
	if !errors.As(reported[1], &pe) || pe.Value != "exploded" {
		t.Fatalf("second report = %v, want PanicError(exploded)", reported[1])
	}
	var se *SubscriberError
	if !errors.As(reported[0], &se) || se.Seq != 1 || se.Subscription != 1 {
		t.Fatalf("first report = %#v, want subscription 1 seq 1", reported[0])
	}
}

func TestSubscribe_DefaultReporterLogs(t *testing.T) {
	var buf bytes.Buffer
	s := newCounterStore(WithLogger(log.New(&buf, "", 0)))
	s.Subscribe(func(counter) error { return errors.New("view offline") })

	_ = s.Dispatch(add{N: 1})

	if !strings.Contains(buf.String(), "view offline") {
		t.Fatalf("log = %q, want it to mention the subscriber error", buf.String())
	}
}

func TestSubscribe_ReceivesClone(t *testing.T) {
	s := newCounterStore()
	s.Subscribe(func(c counter) error {
		c.Log[0] = 100
		return nil
	})
	var seen []int
	s.Subscribe(func(c counter) error {
		seen = c.Log
		return nil
	})

	_ = s.Dispatch(add{N: 1})

	if seen[0] != 1 {
		t.Fatalf("second subscriber saw %v, want [1]", seen)
	}
	if got := s.Current().Extract().Log[0]; got != 1 {
		t.Fatalf("history Log[0] = %d, want 1", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	s := newCounterStore()
	n := 0
	unsubscribe := s.Subscribe(func(counter) error { n++; return nil })

	_ = s.Dispatch(add{N: 1})
	unsubscribe()
	unsubscribe()
	_ = s.Dispatch(add{N: 1})

	if n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestUnsubscribe_KeepsOtherRegistrationsOfSameFunc(t *testing.T) {
	s := newCounterStore()
	n := 0
	fn := func(counter) error { n++; return nil }
	first := s.Subscribe(fn)
	s.Subscribe(fn)

	first()
	_ = s.Dispatch(add{N: 1})

	if n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestDispatch_FromSubscriberIsQueued(t *testing.T) {
	s := newCounterStore()
	var (
		inner     error
		seen      []int
		seqInside uint64
	)
	s.Subscribe(func(c counter) error {
		seen = append(seen, c.Total)
		if c.Total == 1 {
			inner = s.Dispatch(add{N: 10})
			seqInside = s.Seq()
		}
		return nil
	})

	if err := s.Dispatch(add{N: 1}); err != nil {
		t.Fatalf("outer Dispatch: %v", err)
	}
	if inner != nil {
		t.Fatalf("inner Dispatch = %v, want nil", inner)
	}
	if seqInside != 1 {
		t.Fatalf("Seq() inside subscriber = %d, want 1", seqInside)
	}
	if diff := cmp.Diff([]int{1, 11}, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
}

func TestDispatch_QueuedFailureIsReported(t *testing.T) {
	var reported []error
	s := newCounterStore(WithErrorReporter(func(err error) {
		reported = append(reported, err)
	}))
	s.Subscribe(func(c counter) error {
		if c.Total == 1 {
			return s.Dispatch(fail{})
		}
		return nil
	})

	if err := s.Dispatch(add{N: 1}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(reported) != 1 || !errors.Is(reported[0], ErrHandlerFailed) {
		t.Fatalf("reported = %v, want one handler failure", reported)
	}
	if s.Seq() != 1 {
		t.Fatalf("Seq() = %d, want 1", s.Seq())
	}
}

func TestDispatch_ConcurrentCallersAreSerialized(t *testing.T) {
	const n = 50
	s := newCounterStore()

	var (
		mu     sync.Mutex
		totals []int
	)
	s.Subscribe(func(c counter) error {
		time.Sleep(time.Millisecond)
		mu.Lock()
		defer mu.Unlock()
		totals = append(totals, c.Total)
		return nil
	})

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Dispatch(add{N: 1})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
	}
	if s.Seq() != n {
		t.Fatalf("Seq() = %d, want %d", s.Seq(), n)
	}
	if s.Len() != n+1 {
		t.Fatalf("Len() = %d, want %d", s.Len(), n+1)
	}
	if got := s.Current().Extract().Total; got != n {
		t.Fatalf("Total = %d, want %d", got, n)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, total := range totals {
		if total != i+1 {
			t.Fatalf("notification %d saw Total %d, want %d", i, total, i+1)
		}
	}
}

func TestDispatch_ReadsInsideSubscriber(t *testing.T) {
	s := newCounterStore()
	var seq uint64
	s.Subscribe(func(counter) error {
		seq = s.Seq()
		return nil
	})
	_ = s.Dispatch(add{N: 1})
	_ = s.Dispatch(add{N: 1})
	if seq != 2 {
		t.Fatalf("Seq() inside subscriber = %d, want 2", seq)
	}
}

func TestRetention(t *testing.T) {
	s := newCounterStore(WithRetention(3))
	for i := 1; i <= 5; i++ {
		_ = s.Dispatch(add{N: i})
	}

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if s.Seq() != 5 {
		t.Fatalf("Seq() = %d, want 5", s.Seq())
	}
	var seqs []uint64
	for _, e := range s.History() {
		seqs = append(seqs, e.Seq)
	}
	if diff := cmp.Diff([]uint64{5, 4, 3}, seqs); diff != "" {
		t.Fatalf("retained seqs mismatch (-want +got):\n%s", diff)
	}
	if got := s.Current().Extract().Total; got != 15 {
		t.Fatalf("Current().Total = %d, want 15", got)
	}
}

func TestTrim(t *testing.T) {
	s := newCounterStore()
	for i := 0; i < 4; i++ {
		_ = s.Dispatch(add{N: 1})
	}

	if dropped := s.Trim(2); dropped != 3 {
		t.Fatalf("Trim(2) = %d, want 3", dropped)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if dropped := s.Trim(0); dropped != 1 {
		t.Fatalf("Trim(0) = %d, want 1", dropped)
	}
	if s.Len() != 1 || s.Current().Extract().Total != 4 {
		t.Fatalf("after Trim(0): Len=%d Total=%d, want 1 and 4", s.Len(), s.Current().Extract().Total)
	}
	if dropped := s.Trim(5); dropped != 0 {
		t.Fatalf("Trim(5) = %d, want 0", dropped)
	}
}

func TestActions(t *testing.T) {
	s := newCounterStore()
	if diff := cmp.Diff([]string{"ADD", "FAIL"}, s.Actions()); diff != "" {
		t.Fatalf("Actions() mismatch (-want +got):\n%s", diff)
	}
}
