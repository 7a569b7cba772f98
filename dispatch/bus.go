/*
Package dispatch implements the event delivery fabric described in
spec.md §4.H: a named-signal bus with at-most-once receiver registration
and isolated, concurrent receiver invocation bounded by a worker pool.

It is the Go-native reshaping (spec.md §9) of girclib's global
blinker-backed module-level signals (original_source/girclib/signals.py)
into a registry owned per-session rather than per-process.
*/
package dispatch

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultMaxConcurrentReceivers bounds how many receiver invocations may
// run at once across a single Signal.Send call, per spec.md §5's
// "task pool... capacity ≈ 500".
const DefaultMaxConcurrentReceivers = 500

// Receiver handles one emission of a signal. Panics inside a Receiver
// are recovered, logged, and do not affect sibling receivers or the
// emitter (spec.md §7: "Receiver exceptions are logged and swallowed").
type Receiver func(sender string, payload any)

// Bus is a per-session registry of named signals. The zero value is not
// usable; construct with NewBus.
type Bus struct {
	mu      sync.Mutex
	signals map[string]*Signal
	maxFanout int
}

// NewBus constructs a Bus. maxConcurrent bounds in-flight receiver
// invocations per Send call; 0 selects DefaultMaxConcurrentReceivers.
func NewBus(maxConcurrent int) *Bus {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentReceivers
	}
	return &Bus{signals: make(map[string]*Signal), maxFanout: maxConcurrent}
}

// Signal returns the named signal, creating and caching it on first use.
func (b *Bus) Signal(name string) *Signal {
	b.mu.Lock()
	defer b.mu.Unlock()
	sig, ok := b.signals[name]
	if !ok {
		sig = &Signal{name: name, maxFanout: b.maxFanout}
		b.signals[name] = sig
	}
	return sig
}

// receiverKey identifies a connected (receiver, sender) pair so
// reconnecting the same pair is a no-op, per spec.md's at-most-once
// registration invariant.
type receiverKey struct {
	id     string
	sender string
}

// AnySender is the sender filter of a receiver that accepts emissions
// from every sender. A Send whose sender is AnySender reaches only the
// receivers connected with AnySender, not those filtered on a specific
// sender.
const AnySender = ""

// Signal is a single named emitter: a set of receivers (each keyed by
// id+sender so the same pair can't double-register) and a concurrent,
// barrier-synchronized Send.
type Signal struct {
	name      string
	maxFanout int

	mu        sync.Mutex
	order     []receiverKey
	receivers map[receiverKey]Receiver
}

// Connect registers receiver under id, invoked only for emissions from
// sender (or every emission, if sender is AnySender). Connecting the
// same (id, sender) pair twice is a no-op — the first registration wins.
//
// weak documents intent only: in garbage-collected Go there is no
// reachability-based eviction to perform, matching spec.md §9's note
// that a `weak` flag is a no-op in languages without that feature.
func (s *Signal) Connect(id string, sender string, receiver Receiver, weak bool) {
	_ = weak
	key := receiverKey{id: id, sender: sender}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.receivers == nil {
		s.receivers = make(map[receiverKey]Receiver)
	}
	if _, exists := s.receivers[key]; exists {
		return
	}
	s.receivers[key] = receiver
	s.order = append(s.order, key)
}

// Disconnect removes a previously connected (id, sender) pair, if any.
func (s *Signal) Disconnect(id string, sender string) {
	key := receiverKey{id: id, sender: sender}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.receivers[key]; !ok {
		return
	}
	delete(s.receivers, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Send invokes every receiver whose sender filter matches sender (either
// AnySender or an exact match), passing payload. Receivers run
// concurrently, each isolated from the others' panics; Send blocks until
// all of them have returned (the barrier spec.md §4.H/§5 require) before
// returning itself.
func (s *Signal) Send(sender string, payload any) {
	s.mu.Lock()
	matched := make([]Receiver, 0, len(s.order))
	for _, key := range s.order {
		if key.sender == AnySender || key.sender == sender {
			matched = append(matched, s.receivers[key])
		}
	}
	s.mu.Unlock()

	if len(matched) == 0 {
		return
	}

	maxFanout := s.maxFanout
	if maxFanout <= 0 {
		maxFanout = DefaultMaxConcurrentReceivers
	}
	sem := make(chan struct{}, maxFanout)
	var wg sync.WaitGroup
	wg.Add(len(matched))
	for _, r := range matched {
		r := r
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if rec := recover(); rec != nil {
					logrus.WithFields(logrus.Fields{
						"signal": s.name,
						"sender": sender,
						"panic":  rec,
					}).Error("dispatch: receiver panicked")
				}
			}()
			r(sender, payload)
		}()
	}
	wg.Wait()
}

// Name returns the signal's registered name.
func (s *Signal) Name() string { return s.name }
