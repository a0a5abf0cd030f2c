package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/ReportKeeper/internal/generate"
	"github.com/atinyakov/ReportKeeper/internal/models"
	"github.com/atinyakov/ReportKeeper/internal/reports"
	"github.com/atinyakov/ReportKeeper/internal/session"
)

var (
	// ErrEmptyTitle is returned when a report is saved without a title.
	ErrEmptyTitle = errors.New("title is required")
	// ErrEmptyContent is returned when a report is saved without content.
	ErrEmptyContent = errors.New("content is required")
	// ErrEmptyPrompt is returned when generation has neither a prompt nor a title.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrNotFound is returned when a report id does not exist.
	ErrNotFound = errors.New("report not found")
	// ErrInvalidOrder is returned when a reordering is not a permutation of the current ids.
	ErrInvalidOrder = reports.ErrInvalidOrder
)

// ReportStore defines the collection operations required by ReportService.
type ReportStore interface {
	// Add appends a report.
	Add(ctx context.Context, title, content string) (models.Report, error)
	// Remove deletes a report; unknown ids are ignored.
	Remove(ctx context.Context, id string) error
	// Edit replaces title and content; unknown ids are ignored.
	Edit(ctx context.Context, id, title, content string) error
	// Reorder puts the reports in the order of ids, a permutation of the current ids.
	Reorder(ctx context.Context, ids []string) error
	// Move drags the report at position from to position to.
	Move(ctx context.Context, from, to int) error
	// Sorted returns the collection ordered by index.
	Sorted() []models.Report
	// Get returns a single report.
	Get(id string) (models.Report, bool)
}

// SessionReader exposes the current session to the role check.
type SessionReader interface {
	Current() session.State
}

// GenerationObserver is notified about generation outcomes.
type GenerationObserver interface {
	ObserveGeneration(result string)
}

// ReportService gates every report operation behind session.Authorize and
// applies the form rules of the editor before touching the store.
type ReportService struct {
	store     ReportStore
	sessions  SessionReader
	generator generate.Client
	guard     generate.Guard
	log       *zap.Logger
	observer  GenerationObserver
}

// NewReportService constructs a ReportService. log and observer may be nil.
func NewReportService(store ReportStore, sessions SessionReader, generator generate.Client, log *zap.Logger, observer GenerationObserver) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{
		store:     store,
		sessions:  sessions,
		generator: generator,
		log:       log,
		observer:  observer,
	}
}

// authorize checks action against the snapshot carried by ctx, falling back
// to the live session when the caller attached none.
func (s *ReportService) authorize(ctx context.Context, action session.Action) error {
	st, ok := session.FromContext(ctx)
	if !ok {
		st = s.sessions.Current()
	}
	return session.Authorize(st.Role, action)
}

// List returns the reports in display order whose title contains query,
// case-insensitively. An empty query returns every report.
func (s *ReportService) List(ctx context.Context, query string) ([]models.Report, error) {
	if err := s.authorize(ctx, session.ActionView); err != nil {
		return nil, err
	}
	return FilterByTitle(s.store.Sorted(), query), nil
}

// Get returns a single report for viewing.
func (s *ReportService) Get(ctx context.Context, id string) (models.Report, error) {
	if err := s.authorize(ctx, session.ActionView); err != nil {
		return models.Report{}, err
	}
	r, ok := s.store.Get(id)
	if !ok {
		return models.Report{}, ErrNotFound
	}
	return r, nil
}

// Create validates and adds a report at the end of the list.
func (s *ReportService) Create(ctx context.Context, title, content string) (models.Report, error) {
	if err := s.authorize(ctx, session.ActionCreate); err != nil {
		return models.Report{}, err
	}
	if err := validate(title, content); err != nil {
		return models.Report{}, err
	}
	r, err := s.store.Add(ctx, title, content)
	if err != nil {
		return r, err
	}
	s.log.Info("report created", zap.String("id", r.ID), zap.Int("index", r.Index))
	return r, nil
}

// Update validates and replaces the title and content of a report.
// An unknown id is silently ignored.
func (s *ReportService) Update(ctx context.Context, id, title, content string) error {
	if err := s.authorize(ctx, session.ActionEdit); err != nil {
		return err
	}
	if err := validate(title, content); err != nil {
		return err
	}
	return s.store.Edit(ctx, id, title, content)
}

// Delete removes a report. An unknown id is silently ignored.
func (s *ReportService) Delete(ctx context.Context, id string) error {
	if err := s.authorize(ctx, session.ActionDelete); err != nil {
		return err
	}
	return s.store.Remove(ctx, id)
}

// Reorder puts the reports in the order given by ids, which must name every
// current report exactly once.
func (s *ReportService) Reorder(ctx context.Context, ids []string) error {
	if err := s.authorize(ctx, session.ActionReorder); err != nil {
		return err
	}
	return s.store.Reorder(ctx, ids)
}

// Move drags the report at display position from to position to.
func (s *ReportService) Move(ctx context.Context, from, to int) error {
	if err := s.authorize(ctx, session.ActionReorder); err != nil {
		return err
	}
	return s.store.Move(ctx, from, to)
}

// Generate requests content for prompt, falling back to title when prompt is
// blank. Only one request may be outstanding at a time; a concurrent call
// fails with generate.ErrInFlight.
func (s *ReportService) Generate(ctx context.Context, prompt, title string) (string, error) {
	if err := s.authorize(ctx, session.ActionGenerate); err != nil {
		return "", err
	}
	p := strings.TrimSpace(prompt)
	if p == "" {
		p = strings.TrimSpace(title)
	}
	if p == "" {
		return "", ErrEmptyPrompt
	}
	if s.generator == nil {
		s.observe("error")
		return "", generate.ErrGeneration
	}

	text, err := s.guard.Run(ctx, s.generator, p)
	switch {
	case errors.Is(err, generate.ErrInFlight):
		s.observe("in_flight")
		return "", err
	case err != nil:
		s.observe("error")
		s.log.Warn("content generation failed", zap.Error(err))
		return "", generate.ErrGeneration
	}
	s.observe("ok")
	return text, nil
}

// Generating reports whether a generation request is outstanding.
func (s *ReportService) Generating() bool {
	return s.guard.InFlight()
}

func (s *ReportService) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveGeneration(result)
	}
}

func validate(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}
