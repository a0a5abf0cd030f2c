// Package reports owns the ordered report collection and every mutation over
// it. All writes go through Store so the display indices always stay dense:
// for N reports the indices are exactly 0..N-1, each used once.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/ReportKeeper/internal/models"
)

// StorageKey is the fixed key the collection is persisted under.
const StorageKey = "report-storage"

var (
	// ErrPersist wraps failures to write the collection to the backend.
	ErrPersist = errors.New("persist reports")
	// ErrDuplicateID is returned by SetAll when two reports share an id.
	ErrDuplicateID = errors.New("duplicate report id")
	// ErrInvalidOrder is returned by Reorder when ids are not a permutation
	// of the current report ids.
	ErrInvalidOrder = errors.New("order must list every report exactly once")
)

// Backend is the key-value storage the collection is persisted to.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Observer is notified about store activity. See metrics.Collector.
type Observer interface {
	ObserveMutation(op string, size int)
	ObservePersistError()
}

type nopObserver struct{}

func (nopObserver) ObserveMutation(string, int) {}
func (nopObserver) ObservePersistError()        {}

// Store is the single source of truth for the report list.
type Store struct {
	mu       sync.Mutex
	reports  []models.Report
	backend  Backend
	log      *zap.Logger
	newID    func() string
	observer Observer
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the id source. Generated ids must be unique.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithObserver attaches an activity observer.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// newReportID returns a time-ordered UUIDv7, so ids sort in creation order.
func newReportID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// New loads the collection from backend. A missing or unreadable payload
// yields an empty collection; only backend read failures are returned.
func New(ctx context.Context, backend Backend, log *zap.Logger, opts ...Option) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		backend:  backend,
		log:      log,
		newID:    newReportID,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := backend.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load reports: %w", err)
	}
	if !ok {
		s.reports = []models.Report{}
		return s, nil
	}

	var loaded []models.Report
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warn("stored reports are unreadable, starting empty", zap.Error(err))
		s.reports = []models.Report{}
		return s, nil
	}
	// Storage order must match index order for Remove to renumber correctly.
	slices.SortStableFunc(loaded, byIndex)
	if !isDense(loaded) {
		log.Warn("stored report indices are not dense, reindexing", zap.Int("count", len(loaded)))
		Reindex(loaded)
	}
	if loaded == nil {
		loaded = []models.Report{}
	}
	s.reports = loaded
	log.Info("reports loaded", zap.Int("count", len(loaded)))
	return s, nil
}

// Add appends a new report at index len(collection). Empty strings are accepted.
func (s *Store) Add(ctx context.Context, title, content string) (models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := models.Report{
		ID:      s.newID(),
		Title:   title,
		Content: content,
		Index:   len(s.reports),
	}
	s.reports = append(s.reports, r)
	return r, s.persist(ctx, "add")
}

// Remove deletes the report with id and renumbers the rest in their current
// order. An unknown id is a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return nil
	}
	s.reports = slices.Delete(s.reports, i, i+1)
	Reindex(s.reports)
	return s.persist(ctx, "remove")
}

// Edit replaces the title and content of the report with id, leaving its id
// and index unchanged. An unknown id is a no-op.
func (s *Store) Edit(ctx context.Context, id, title, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(id)
	if i < 0 {
		return nil
	}
	s.reports[i].Title = title
	s.reports[i].Content = content
	return s.persist(ctx, "edit")
}

// SetAll replaces the whole collection with list, giving every element the
// index of its position in list. It is the primitive behind reordering.
func (s *Store) SetAll(ctx context.Context, list []models.Report) error {
	seen := make(map[string]struct{}, len(list))
	for _, r := range list {
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	next := slices.Clone(list)
	if next == nil {
		next = []models.Report{}
	}
	Reindex(next)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = next
	return s.persist(ctx, "set_all")
}

// Reorder puts the reports in the order given by ids, which must name every
// current report exactly once. The check and the write happen under one lock.
func (s *Store) Reorder(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) != len(s.reports) {
		return fmt.Errorf("%w: got %d ids for %d reports", ErrInvalidOrder, len(ids), len(s.reports))
	}
	byID := make(map[string]models.Report, len(s.reports))
	for _, r := range s.reports {
		byID[r.ID] = r
	}
	next := make([]models.Report, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown or repeated id %q", ErrInvalidOrder, id)
		}
		delete(byID, id)
		next = append(next, r)
	}
	Reindex(next)
	s.reports = next
	return s.persist(ctx, "reorder")
}

// Move drags the report at display position from to position to, shifting
// the reports in between by one.
func (s *Store) Move(ctx context.Context, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := slices.Clone(s.reports)
	slices.SortStableFunc(current, byIndex)
	next, err := Move(current, from, to)
	if err != nil {
		return err
	}
	s.reports = next
	return s.persist(ctx, "move")
}

// List returns a copy of the collection in storage order. Callers that render
// the list should use Sorted, the index is the authoritative order.
func (s *Store) List() []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.reports)
}

// Sorted returns a copy of the collection ordered by index.
func (s *Store) Sorted() []models.Report {
	out := s.List()
	slices.SortStableFunc(out, byIndex)
	return out
}

// Get returns the report with id.
func (s *Store) Get(id string) (models.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return models.Report{}, false
	}
	return s.reports[i], true
}

// Len returns the number of reports.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

func (s *Store) find(id string) int {
	return slices.IndexFunc(s.reports, func(r models.Report) bool { return r.ID == id })
}

// persist writes the full collection. It must be called with mu held. The
// in-memory change stays applied when the write fails.
func (s *Store) persist(ctx context.Context, op string) error {
	s.observer.ObserveMutation(op, len(s.reports))

	data, err := json.Marshal(s.reports)
	if err == nil {
		err = s.backend.Put(ctx, StorageKey, data)
	}
	if err != nil {
		s.observer.ObservePersistError()
		s.log.Error("failed to persist reports", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.log.Debug("reports persisted", zap.String("op", op), zap.Int("count", len(s.reports)))
	return nil
}
