// Package snapshot provides the immutable value wrapper stored in tally's
// state history.
//
// A Snapshot holds exactly one state value. It never hands out the value it
// holds when that value can alias: types implementing Cloner are cloned on
// every Extract, so a caller that mutates what it received cannot reach the
// copy recorded in history.
//
// # Transformations
//
// Every transformation returns a new Snapshot and leaves the receiver as it
// was:
//
//	next := snapshot.Map(cur, func(s State) State { ... })
//	next, err := snapshot.TryMap(cur, reduce)
//
// The laws callers can rely on:
//
//	Map(s, f).Extract() == f(s.Extract())
//	s.Extract() is unchanged by Map(s, f)
//
// When f panics or TryMap's function returns an error, no new Snapshot is
// produced. The store relies on this to keep history untouched by failed
// handlers.
package snapshot
