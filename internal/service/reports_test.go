package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/ReportKeeper/internal/generate"
	"github.com/atinyakov/ReportKeeper/internal/models"
	"github.com/atinyakov/ReportKeeper/internal/reports"
	"github.com/atinyakov/ReportKeeper/internal/session"
	"github.com/atinyakov/ReportKeeper/internal/storage"
)

type genCounter map[string]int

func (g genCounter) ObserveGeneration(result string) { g[result]++ }

type fixture struct {
	svc      *ReportService
	sessions *session.Session
	store    *reports.Store
	prompts  []string
	gen      genCounter
}

func newFixture(t *testing.T, gen generate.Client) *fixture {
	t.Helper()
	store, err := reports.New(context.Background(), storage.NewMemoryStorage(), nil)
	require.NoError(t, err)
	f := &fixture{sessions: session.New(), store: store, gen: genCounter{}}
	if gen == nil {
		gen = generate.ClientFunc(func(_ context.Context, prompt string) (string, error) {
			f.prompts = append(f.prompts, prompt)
			return "<p>generated</p>", nil
		})
	}
	f.svc = NewReportService(store, f.sessions, gen, nil, f.gen)
	return f
}

func (f *fixture) asAdmin() *fixture {
	f.sessions.Login("admin", "admin123")
	return f
}

func (f *fixture) asViewer() *fixture {
	f.sessions.Login("user", "user123")
	return f
}

func TestReportService_SignedOutIsRejected(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.List(ctx, "")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
	_, err = f.svc.Get(ctx, "x")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
	_, err = f.svc.Create(ctx, "T", "C")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
	_, err = f.svc.Generate(ctx, "p", "")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
	assert.Equal(t, 0, f.store.Len())
}

func TestReportService_ViewerIsReadOnly(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.store.Add(ctx, "Seed", "seed")
	require.NoError(t, err)
	f.asViewer()

	list, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.Create(ctx, "T", "C")
	assert.ErrorIs(t, err, session.ErrForbidden)
	assert.ErrorIs(t, f.svc.Update(ctx, list[0].ID, "T", "C"), session.ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, list[0].ID), session.ErrForbidden)
	assert.ErrorIs(t, f.svc.Reorder(ctx, []string{list[0].ID}), session.ErrForbidden)
	assert.ErrorIs(t, f.svc.Move(ctx, 0, 0), session.ErrForbidden)
	_, err = f.svc.Generate(ctx, "p", "")
	assert.ErrorIs(t, err, session.ErrForbidden)

	assert.Equal(t, "Seed", f.store.Sorted()[0].Title)
}

func TestReportService_UsesRequestSnapshot(t *testing.T) {
	f := newFixture(t, nil).asAdmin()
	viewerCtx := session.NewContext(context.Background(), session.State{User: "user", Role: models.RoleViewer})

	_, err := f.svc.Create(viewerCtx, "T", "C")
	assert.ErrorIs(t, err, session.ErrForbidden)
	_, err = f.svc.List(viewerCtx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.Len())

	// Admitted as admin, the request keeps its role after the live session signs out.
	adminCtx := session.NewContext(context.Background(), f.sessions.Current())
	f.sessions.Logout()
	_, err = f.svc.Create(adminCtx, "T", "C")
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), "T", "C")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
	assert.Equal(t, 1, f.store.Len())
}

func TestReportService_CreateValidates(t *testing.T) {
	f := newFixture(t, nil).asAdmin()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "", "C")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	_, err = f.svc.Create(ctx, "T", "  ")
	assert.ErrorIs(t, err, ErrEmptyContent)
	assert.Equal(t, 0, f.store.Len())

	r, err := f.svc.Create(ctx, "T", "C")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Index)
}

func TestReportService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t, nil).asAdmin()
	ctx := context.Background()
	r, err := f.svc.Create(ctx, "T", "C")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Update(ctx, r.ID, "", "C"), ErrEmptyTitle)
	require.NoError(t, f.svc.Update(ctx, r.ID, "T2", "C2"))
	got, err := f.svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Report{ID: r.ID, Title: "T2", Content: "C2", Index: 0}, got)

	// Missing ids are silent no-ops.
	require.NoError(t, f.svc.Update(ctx, "missing", "X", "Y"))
	require.NoError(t, f.svc.Delete(ctx, "missing"))

	require.NoError(t, f.svc.Delete(ctx, r.ID))
	_, err = f.svc.Get(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportService_ListFiltersAndSorts(t *testing.T) {
	f := newFixture(t, nil).asAdmin()
	ctx := context.Background()
	for _, title := range []string{"Weekly Sales", "Budget", "sales forecast"} {
		_, err := f.svc.Create(ctx, title, "c")
		require.NoError(t, err)
	}
	require.NoError(t, f.svc.Move(ctx, 2, 0))

	list, err := f.svc.List(ctx, "SALES")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "sales forecast", list[0].Title)
	assert.Equal(t, "Weekly Sales", list[1].Title)

	all, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestReportService_Reorder(t *testing.T) {
	f := newFixture(t, nil).asAdmin()
	ctx := context.Background()
	var ids []string
	for _, title := range []string{"A", "B", "C"} {
		r, err := f.svc.Create(ctx, title, "c")
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	require.NoError(t, f.svc.Reorder(ctx, []string{ids[2], ids[0], ids[1]}))
	list, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, titles(list))
	for i, r := range list {
		assert.Equal(t, i, r.Index)
	}

	bad := [][]string{
		{ids[0], ids[1]},
		{ids[0], ids[0], ids[1]},
		{ids[0], ids[1], "other"},
	}
	for _, order := range bad {
		assert.ErrorIs(t, f.svc.Reorder(ctx, order), ErrInvalidOrder, "%v", order)
	}
}

func TestReportService_MoveOutOfRange(t *testing.T) {
	f := newFixture(t, nil).asAdmin()
	_, err := f.svc.Create(context.Background(), "A", "a")
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Move(context.Background(), 0, 3), reports.ErrOutOfRange)
}

func TestReportService_GeneratePrompt(t *testing.T) {
	f := newFixture(t, nil).asAdmin()
	ctx := context.Background()

	text, err := f.svc.Generate(ctx, "  monthly recap ", "Title")
	require.NoError(t, err)
	assert.Equal(t, "<p>generated</p>", text)

	_, err = f.svc.Generate(ctx, "", "Budget 2024")
	require.NoError(t, err)

	_, err = f.svc.Generate(ctx, " ", "")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	assert.Equal(t, []string{"monthly recap", "Budget 2024"}, f.prompts)
	assert.Equal(t, 2, f.gen["ok"])
}

func TestReportService_GenerateFailureIsGeneric(t *testing.T) {
	failing := generate.ClientFunc(func(context.Context, string) (string, error) {
		return "", errors.New("dial tcp: connection refused")
	})
	f := newFixture(t, failing).asAdmin()

	_, err := f.svc.Generate(context.Background(), "p", "")
	assert.Equal(t, generate.ErrGeneration, err)
	assert.Equal(t, 1, f.gen["error"])
	assert.False(t, f.svc.Generating())
}

func TestReportService_GenerateInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	blocking := generate.ClientFunc(func(context.Context, string) (string, error) {
		close(started)
		<-release
		return "late", nil
	})
	f := newFixture(t, blocking).asAdmin()
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Generate(ctx, "p", "")
		done <- err
	}()
	<-started
	assert.True(t, f.svc.Generating())

	_, err := f.svc.Generate(ctx, "p", "")
	assert.ErrorIs(t, err, generate.ErrInFlight)

	// CRUD is not blocked by an outstanding generation.
	_, err = f.svc.Create(ctx, "T", "C")
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestFilterByTitle(t *testing.T) {
	list := []models.Report{{Title: "Alpha"}, {Title: "beta"}, {Title: "ALPHABET"}}

	assert.Equal(t, []string{"Alpha", "ALPHABET"}, titles(FilterByTitle(list, "alpha")))
	assert.Equal(t, []string{"beta", "ALPHABET"}, titles(FilterByTitle(list, "BET")))
	assert.Len(t, FilterByTitle(list, ""), 3)
	assert.Empty(t, FilterByTitle(list, "gamma"))
	assert.Empty(t, FilterByTitle(nil, ""))
}

func titles(list []models.Report) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.Title
	}
	return out
}
