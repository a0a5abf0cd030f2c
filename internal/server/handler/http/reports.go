package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/ReportKeeper/internal/generate"
	"github.com/atinyakov/ReportKeeper/internal/models"
	"github.com/atinyakov/ReportKeeper/internal/reports"
	"github.com/atinyakov/ReportKeeper/internal/service"
	"github.com/atinyakov/ReportKeeper/internal/session"
)

// ReportService defines the report operations required by the ReportHandler.
type ReportService interface {
	List(ctx context.Context, query string) ([]models.Report, error)
	Get(ctx context.Context, id string) (models.Report, error)
	Create(ctx context.Context, title, content string) (models.Report, error)
	Update(ctx context.Context, id, title, content string) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
	Move(ctx context.Context, from, to int) error
	Generate(ctx context.Context, prompt, title string) (string, error)
}

// ReportHandler handles HTTP requests for reports and content generation.
type ReportHandler struct {
	ReportService ReportService
}

// reportRequest is the body of create and update requests.
type reportRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// List handles GET /api/reports?q=. Reports come back ordered by index.
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.ReportService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /api/reports/{id}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.ReportService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Create handles POST /api/reports.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	rep, err := h.ReportService.Create(r.Context(), req.Title, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

// Update handles PUT /api/reports/{id}. Unknown ids succeed without effect.
func (h *ReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.ReportService.Update(r.Context(), chi.URLParam(r, "id"), req.Title, req.Content); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/reports/{id}. Unknown ids succeed without effect.
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ReportService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder handles PUT /api/reports/order with {"ids": [...]} listing every
// report in its new order.
func (h *ReportHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.ReportService.Reorder(r.Context(), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move handles POST /api/reports/move with {"from": i, "to": j}.
func (h *ReportHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From *int `json:"from"`
		To   *int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.From == nil || req.To == nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.ReportService.Move(r.Context(), *req.From, *req.To); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Generate handles POST /api/generate with {"prompt": "...", "title": "..."}.
// The title is used as the prompt when prompt is blank.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
		Title  string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	text, err := h.ReportService.Generate(r.Context(), req.Prompt, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": text})
}

// writeError maps service errors to status codes. Unknown errors are 500s.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		http.Error(w, "not signed in", http.StatusUnauthorized)
	case errors.Is(err, session.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "report not found", http.StatusNotFound)
	case errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrEmptyPrompt),
		errors.Is(err, service.ErrInvalidOrder),
		errors.Is(err, reports.ErrOutOfRange),
		errors.Is(err, reports.ErrDuplicateID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, generate.ErrInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, generate.ErrGeneration):
		http.Error(w, generate.ErrGeneration.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
