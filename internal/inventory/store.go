package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrSuperseded is returned by Load when a newer load was applied while this
// one was in flight. The newer snapshot stays in place.
var ErrSuperseded = errors.New("load superseded by a newer load")

// Source fetches the full device list from the discovery service.
type Source interface {
	List(ctx context.Context) ([]Record, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Record, error)

// List implements Source
func (f SourceFunc) List(ctx context.Context) ([]Record, error) {
	return f(ctx)
}

// Origin describes where the records of a snapshot came from.
type Origin int

const (
	// OriginNone means no load has completed yet.
	OriginNone Origin = iota
	// OriginLive means the records came from the data source.
	OriginLive
	// OriginPlaceholder means the source failed and demo records were substituted.
	OriginPlaceholder
	// OriginFailed means the source failed and no records are available.
	OriginFailed
)

// String returns a human-readable name for the origin
func (o Origin) String() string {
	switch o {
	case OriginNone:
		return "loading"
	case OriginLive:
		return "live"
	case OriginPlaceholder:
		return "placeholder"
	case OriginFailed:
		return "failed"
	default:
		return fmt.Sprintf("Origin(%d)", o)
	}
}

// FallbackPolicy selects what a failed load leaves behind.
type FallbackPolicy string

const (
	// FallbackPlaceholder substitutes the demo inventory so the view is never blank.
	FallbackPlaceholder FallbackPolicy = "placeholder"
	// FallbackError keeps no records and surfaces the failure.
	FallbackError FallbackPolicy = "error"
)

// ParseFallbackPolicy parses a policy name. Empty selects FallbackPlaceholder.
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "placeholder", "demo":
		return FallbackPlaceholder, nil
	case "error":
		return FallbackError, nil
	default:
		return "", fmt.Errorf("unknown fallback policy %q (expected placeholder or error)", s)
	}
}

// Snapshot is one complete, immutable view of the inventory.
// Callers must treat Records as read-only.
type Snapshot struct {
	Records    []Record
	Origin     Origin
	Err        error // cause of a placeholder or failed snapshot
	LoadedAt   time.Time
	Generation uint64
}

// Loaded reports whether at least one load has completed.
func (s Snapshot) Loaded() bool {
	return s.Origin != OriginNone
}

// Live reports whether the records came from the data source.
func (s Snapshot) Live() bool {
	return s.Origin == OriginLive
}

// Stats aggregates the full record set of the snapshot.
func (s Snapshot) Stats() Stats {
	return Aggregate(s.Records)
}

// Store holds the current snapshot and refreshes it wholesale from a Source.
type Store struct {
	source Source
	policy FallbackPolicy
	now    func() time.Time

	mu   sync.RWMutex
	snap Snapshot

	nextGen atomic.Uint64

	subMu       sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// NewStore creates a store reading from source.
func NewStore(source Source, policy FallbackPolicy) *Store {
	if policy == "" {
		policy = FallbackPlaceholder
	}
	return &Store{
		source:      source,
		policy:      policy,
		now:         time.Now,
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Policy returns the fallback policy in effect
func (s *Store) Policy() FallbackPolicy {
	return s.policy
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers fn to be called after every applied snapshot.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

// Load fetches the device list and replaces the snapshot.
//
// With FallbackPlaceholder a failed fetch still yields a snapshot (the demo
// inventory, Origin placeholder) and a nil error; the cause is kept in
// Snapshot.Err. With FallbackError the fetch error is returned and the
// snapshot holds no records.
//
// If a newer load has been applied while this one was running, nothing is
// replaced and ErrSuperseded is returned with the current snapshot.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	gen := s.nextGen.Add(1)

	records, err := s.source.List(ctx)
	if err == nil {
		err = validateAll(records)
	}

	snap := Snapshot{
		LoadedAt:   s.now(),
		Generation: gen,
	}

	var loadErr error
	switch {
	case err == nil:
		snap.Origin = OriginLive
		snap.Records = append([]Record(nil), records...)
	case s.policy == FallbackError:
		snap.Origin = OriginFailed
		snap.Err = err
		loadErr = err
	default:
		snap.Origin = OriginPlaceholder
		snap.Records = PlaceholderRecords(snap.LoadedAt)
		snap.Err = err
	}

	if !s.apply(snap) {
		return s.Snapshot(), ErrSuperseded
	}
	s.notify(snap)
	return snap, loadErr
}

// apply installs snap unless a newer generation is already in place.
func (s *Store) apply(snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Generation <= s.snap.Generation {
		return false
	}
	s.snap = snap
	return true
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func validateAll(records []Record) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return &InvalidRecordError{Index: i, Err: err}
		}
	}
	return nil
}

// InvalidRecordError reports a record that lacks a required field.
type InvalidRecordError struct {
	Index int
	Err   error
}

// Error implements the error interface
func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying validation error
func (e *InvalidRecordError) Unwrap() error {
	return e.Err
}
