package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/models"
	"github.com/dmitrijs2005/admindash/internal/logging"
)

// State is the load state of a Store.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
	Errored
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// Store mirrors one remote collection. The mutex guards local state only and
// is never held while a remote call is in flight.
type Store[T models.Record] struct {
	name   string
	remote client.Records[T]
	logger logging.Logger

	mu       sync.Mutex
	state    State
	records  []T
	loadErr  error
	loadGen  uint64
	pending  map[models.ID]*Intent[T]
	creating int
	closed   bool
}

// New returns an empty store for the collection name backed by remote.
func New[T models.Record](name string, remote client.Records[T], logger logging.Logger) *Store[T] {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store[T]{
		name:    name,
		remote:  remote,
		logger:  logger.With("collection", name),
		pending: make(map[models.ID]*Intent[T]),
	}
}

func (s *Store[T]) Name() string { return s.name }

func (s *Store[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error of the last failed load, or nil.
func (s *Store[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Records returns a copy of the mirror in display order.
func (s *Store[T]) Records() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store[T]) Get(id models.ID) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.records[i], true
	}
	var zero T
	return zero, false
}

// IsPending reports whether a delete or update of id is awaiting the backend.
func (s *Store[T]) IsPending(id models.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

// Creating reports whether at least one create is in flight.
func (s *Store[T]) Creating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creating > 0
}

// Close detaches the store. Results of calls still in flight are dropped.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Load fetches the whole collection and replaces the mirror, keeping server
// order. Later duplicates of an id are dropped. On failure the mirror is left
// as it was. When two loads overlap only the latest one is applied.
func (s *Store[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return &OpError{Op: OpLoad, Collection: s.name, Err: ErrClosed}
	}
	s.state = Loading
	s.loadGen++
	gen := s.loadGen
	s.mu.Unlock()

	started := time.Now()
	items, err := s.remote.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.loadGen {
		s.logger.Debug(ctx, "load result dropped", "superseded", gen != s.loadGen)
		return nil
	}

	if err != nil {
		opErr := &OpError{Op: OpLoad, Collection: s.name, Err: err}
		s.state = Errored
		s.loadErr = opErr
		s.logger.Error(ctx, "load failed", "error", err, "elapsed", time.Since(started))
		return opErr
	}

	s.records = dedupe(items)
	s.state = Ready
	s.loadErr = nil
	if dropped := len(items) - len(s.records); dropped > 0 {
		s.logger.Warn(ctx, "duplicate ids in collection", "dropped", dropped)
	}
	s.logger.Info(ctx, "collection loaded", "count", len(s.records), "elapsed", time.Since(started))
	return nil
}

// Create sends draft to the backend and appends the stored record, which
// carries the assigned id. Nothing is inserted before the backend answers.
func (s *Store[T]) Create(ctx context.Context, draft T) (T, error) {
	var zero T

	s.mu.Lock()
	if err := s.checkReady(); err != nil {
		s.mu.Unlock()
		return zero, &OpError{Op: OpCreate, Collection: s.name, Err: err}
	}
	s.creating++
	s.mu.Unlock()

	intent := newIntent[T](OpCreate, "")
	created, err := s.remote.Create(ctx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.creating--

	if err != nil {
		s.logger.Warn(ctx, "create failed", "intent", intent.ID, "error", err)
		return zero, &OpError{Op: OpCreate, Collection: s.name, Err: err}
	}
	if s.closed {
		return created, nil
	}

	if i := s.indexOf(created.RecordID()); i >= 0 {
		s.records[i] = created
	} else {
		s.records = append(s.records, created)
	}
	s.logger.Info(ctx, "create committed", "id", created.RecordID(), "intent", intent.ID,
		"elapsed", time.Since(intent.Started))
	return created, nil
}

// Remove drops id from the mirror at once and then deletes it remotely. If
// the backend refuses, the record is put back at its old position. An id the
// mirror does not hold is still sent to the backend.
func (s *Store[T]) Remove(ctx context.Context, id models.ID) error {
	s.mu.Lock()
	if err := s.checkReady(); err != nil {
		s.mu.Unlock()
		return &OpError{Op: OpDelete, Collection: s.name, ID: id, Err: err}
	}
	if _, busy := s.pending[id]; busy {
		s.mu.Unlock()
		return &OpError{Op: OpDelete, Collection: s.name, ID: id, Err: ErrPending}
	}

	intent := newIntent[T](OpDelete, id)
	if i := s.indexOf(id); i >= 0 {
		intent.Found = true
		intent.Index = i
		intent.Snapshot = s.records[i]
		s.records = slices.Delete(s.records, i, i+1)
	}
	s.pending[id] = intent
	s.mu.Unlock()

	err := s.remote.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)

	if err == nil {
		s.logger.Info(ctx, "delete committed", "id", id, "intent", intent.ID, "elapsed", time.Since(intent.Started))
		return nil
	}

	if !s.closed && intent.Found && s.indexOf(id) < 0 {
		at := min(intent.Index, len(s.records))
		s.records = slices.Insert(s.records, at, intent.Snapshot)
	}
	s.logger.Warn(ctx, "delete rolled back", "id", id, "intent", intent.ID, "error", err)
	return &OpError{Op: OpDelete, Collection: s.name, ID: id, Err: err}
}

// Update replaces the record with rec's id locally, then remotely. On success
// the backend's representation is kept; on failure the previous value returns.
func (s *Store[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T
	id := rec.RecordID()

	s.mu.Lock()
	if err := s.checkReady(); err != nil {
		s.mu.Unlock()
		return zero, &OpError{Op: OpUpdate, Collection: s.name, ID: id, Err: err}
	}
	if _, busy := s.pending[id]; busy {
		s.mu.Unlock()
		return zero, &OpError{Op: OpUpdate, Collection: s.name, ID: id, Err: ErrPending}
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return zero, &OpError{Op: OpUpdate, Collection: s.name, ID: id, Err: ErrNoRecord}
	}

	intent := newIntent[T](OpUpdate, id)
	intent.Found = true
	intent.Index = i
	intent.Snapshot = s.records[i]
	s.records[i] = rec
	s.pending[id] = intent
	s.mu.Unlock()

	updated, err := s.remote.Update(ctx, id, rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)

	if err != nil {
		if !s.closed {
			if j := s.indexOf(id); j >= 0 {
				s.records[j] = intent.Snapshot
			}
		}
		s.logger.Warn(ctx, "update rolled back", "id", id, "intent", intent.ID, "error", err)
		return zero, &OpError{Op: OpUpdate, Collection: s.name, ID: id, Err: err}
	}

	if !s.closed && updated.RecordID() == id {
		if j := s.indexOf(id); j >= 0 {
			s.records[j] = updated
		}
	}
	s.logger.Info(ctx, "update committed", "id", id, "intent", intent.ID, "elapsed", time.Since(intent.Started))
	return updated, nil
}

func (s *Store[T]) checkReady() error {
	if s.closed {
		return ErrClosed
	}
	if s.state != Ready {
		return ErrNotReady
	}
	return nil
}

func (s *Store[T]) indexOf(id models.ID) int {
	return slices.IndexFunc(s.records, func(r T) bool { return r.RecordID() == id })
}

func dedupe[T models.Record](items []T) []T {
	out := make([]T, 0, len(items))
	seen := make(map[models.ID]struct{}, len(items))
	for _, it := range items {
		id := it.RecordID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, it)
	}
	return out
}
