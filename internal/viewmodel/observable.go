// Package viewmodel holds per-screen state for the workout log. Each view-model
// calls the api.Service, keeps the latest result or error message, and
// publishes snapshots to subscribers.
package viewmodel

import (
	"sync"
)

// Status is embedded in every screen state.
type Status struct {
	// Err is the message of the last failed action, empty after a success.
	Err string
	// Loading is true while at least one action is in flight.
	Loading bool

	inflight int
}

// Observable is a mutex-guarded state value. Subscribers receive the latest
// snapshot on a channel with a buffer of one; a slow subscriber misses
// intermediate states but never blocks the writer.
type Observable[S any] struct {
	mu    sync.Mutex
	state S
	subs  map[int]chan S
	next  int
}

// Snapshot returns the current state. Slices in the snapshot are shared and
// must not be modified.
func (o *Observable[S]) Snapshot() S {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe returns a channel of state snapshots and a function that
// unsubscribes and closes it. The current state is delivered immediately.
func (o *Observable[S]) Subscribe() (<-chan S, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.subs == nil {
		o.subs = make(map[int]chan S)
	}
	id := o.next
	o.next++
	ch := make(chan S, 1)
	ch <- o.state
	o.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			close(ch)
		})
	}
}

func (o *Observable[S]) update(fn func(*S)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(&o.state)
	for _, ch := range o.subs {
		select {
		case <-ch:
		default:
		}
		ch <- o.state
	}
}

// do runs call with the loading flag raised. On success the error is cleared
// and apply stores the result; on failure Err is set and prior data is kept.
func do[S, T any](o *Observable[S], status func(*S) *Status, call func() (T, error), apply func(*S, T)) (T, error) {
	return track(o, status, call, func(s *S, v T, err error) {
		st := status(s)
		if err != nil {
			st.Err = err.Error()
			return
		}
		st.Err = ""
		if apply != nil {
			apply(s, v)
		}
	})
}

// track runs call with the loading flag raised and hands the outcome to
// settle in the same state update that lowers the flag.
func track[S, T any](o *Observable[S], status func(*S) *Status, call func() (T, error), settle func(*S, T, error)) (T, error) {
	o.update(func(s *S) {
		st := status(s)
		st.inflight++
		st.Loading = true
	})

	v, err := call()

	o.update(func(s *S) {
		st := status(s)
		st.inflight--
		st.Loading = st.inflight > 0
		settle(s, v, err)
	})
	return v, err
}
