// Package server exposes the journal over an HTTP JSON API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/at-ishikawa/devnote/internal/clock"
	"github.com/at-ishikawa/devnote/internal/journal"
	"github.com/at-ishikawa/devnote/internal/review"
	"github.com/at-ishikawa/devnote/internal/statistics"
)

var errBadRequest = errors.New("bad request")

type Options struct {
	Clock       clock.Clock
	Sampler     *review.Sampler
	Stats       statistics.Options
	Location    *time.Location
	ReviewLimit int
	Logger      *slog.Logger
}

// Handler serves the journal. Requests are serialized because the store is not safe for concurrent use.
type Handler struct {
	mu          sync.Mutex
	store       *journal.Store
	clock       clock.Clock
	sampler     *review.Sampler
	stats       statistics.Options
	location    *time.Location
	reviewLimit int
	logger      *slog.Logger
}

func NewHandler(store *journal.Store, opts Options) *Handler {
	h := &Handler{
		store:       store,
		clock:       opts.Clock,
		sampler:     opts.Sampler,
		stats:       opts.Stats,
		location:    opts.Location,
		reviewLimit: opts.ReviewLimit,
		logger:      opts.Logger,
	}
	if h.clock == nil {
		h.clock = clock.System{}
	}
	if h.sampler == nil {
		h.sampler = review.NewSampler(nil)
	}
	if h.stats.Window == "" {
		h.stats = statistics.DefaultOptions()
	}
	if h.location == nil {
		h.location = time.Local
	}
	if h.reviewLimit <= 0 {
		h.reviewLimit = review.DefaultQueueLimit
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.logger = h.logger.With(slog.String("component", "server"))
	return h
}

// NewRouter registers the API routes behind the CORS and logging middleware.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))
	r.Use(corsMiddleware(allowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.GetStats)
		r.Get("/stats/projects", h.GetProjectBreakdown)
		r.Get("/report", h.GetReport)
		r.Get("/tags", h.ListTags)

		r.Get("/projects", h.ListProjects)
		r.Post("/projects", h.CreateProject)
		r.Delete("/projects/{id}", h.DeleteProject)
		r.Get("/projects/{id}/snippets", h.ListSnippets)

		r.Get("/logs", h.ListLogs)
		r.Post("/logs", h.CreateLog)
		r.Get("/logs/{id}", h.GetLog)
		r.Put("/logs/{id}", h.UpdateLog)
		r.Delete("/logs/{id}", h.DeleteLog)
		r.Post("/logs/{id}/review", h.SubmitReview)

		r.Get("/review/queue", h.GetReviewQueue)
		r.Get("/review/random", h.GetRandomLog)
		r.Get("/review/due", h.GetDueLogs)

		r.Post("/snippets", h.CreateSnippet)
		r.Put("/snippets/{id}", h.UpdateSnippet)
		r.Delete("/snippets/{id}", h.DeleteSnippet)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			h.logger.Error("Failed to write health check response", "error", err)
		}
	})
	return r
}

func (h *Handler) now() time.Time {
	return h.clock.Now().In(h.location)
}

func decodeBody(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", errBadRequest, err)
	}
	return nil
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	respondWithJSON(w, http.StatusOK, statistics.ComputeStatsWithOptions(h.store.Logs(), h.now(), h.stats))
}

func (h *Handler) GetProjectBreakdown(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	respondWithJSON(w, http.StatusOK, statistics.CountByProject(h.store.Projects(), h.store.Logs()))
}

// GetReport handles GET /api/report?year=&month=
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	respondWithJSON(w, http.StatusOK, statistics.CalculatePeriods(h.store.Logs(), h.location, year, month))
}

func queryInt(r *http.Request, name string) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return n, nil
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	respondWithJSON(w, http.StatusOK, h.store.AllTags())
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	respondWithJSON(w, http.StatusOK, h.store.Projects())
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	project, err := h.store.CreateProject(r.Context(), req.Name, req.Description)
	h.respondAfterMutation(w, r, http.StatusCreated, project, err)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	err := h.store.DeleteProject(r.Context(), chi.URLParam(r, "id"))
	h.respondAfterMutation(w, r, http.StatusNoContent, nil, err)
}

func (h *Handler) ListSnippets(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	snippets := h.store.SnippetsByProject(chi.URLParam(r, "id"))
	if snippets == nil {
		snippets = []journal.SnippetRecord{}
	}
	respondWithJSON(w, http.StatusOK, snippets)
}

// ListLogs handles GET /api/logs?projectId=&q=
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	h.mu.Lock()
	defer h.mu.Unlock()
	logs := h.store.Search(query.Get("projectId"), query.Get("q"))
	if logs == nil {
		logs = []journal.LogRecord{}
	}
	respondWithJSON(w, http.StatusOK, logs)
}

func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	h.mu.Lock()
	defer h.mu.Unlock()
	log, ok := h.store.Log(id)
	if !ok {
		h.respondWithError(w, r, fmt.Errorf("%w: %s", journal.ErrLogNotFound, id))
		return
	}
	respondWithJSON(w, http.StatusOK, log)
}

type CreateLogRequest struct {
	ProjectID string   `json:"projectId"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Level     int      `json:"level"`
}

func (h *Handler) CreateLog(w http.ResponseWriter, r *http.Request) {
	var req CreateLogRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	log, err := h.store.CreateLog(r.Context(), journal.NewLog{
		ProjectID: req.ProjectID,
		Type:      req.Type,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		Level:     req.Level,
	})
	h.respondAfterMutation(w, r, http.StatusCreated, log, err)
}

type UpdateLogRequest struct {
	Type    *string  `json:"type"`
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
	Level   *int     `json:"level"`
}

func (h *Handler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	var req UpdateLogRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	log, err := h.store.UpdateLog(r.Context(), chi.URLParam(r, "id"), journal.LogUpdate{
		Type:    req.Type,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Level:   req.Level,
	})
	h.respondAfterMutation(w, r, http.StatusOK, log, err)
}

func (h *Handler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	err := h.store.DeleteLog(r.Context(), chi.URLParam(r, "id"))
	h.respondAfterMutation(w, r, http.StatusNoContent, nil, err)
}

// ReviewRequest accepts the rating as a number or as the raw text of a form field.
type ReviewRequest struct {
	Understanding json.RawMessage `json:"understanding"`
}

func (req ReviewRequest) understanding() int {
	raw := bytes.TrimSpace(req.Understanding)
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return review.ParseUnderstanding(text)
	}
	return review.ParseUnderstanding(string(raw))
}

// SubmitReview handles POST /api/logs/{id}/review
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	understanding := req.understanding()

	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	log, err := h.store.ModifyLog(r.Context(), chi.URLParam(r, "id"), func(log journal.LogRecord) (journal.LogRecord, error) {
		return review.ApplyReview(log, understanding, now)
	})
	h.respondAfterMutation(w, r, http.StatusOK, log, err)
}

// GetReviewQueue handles GET /api/review/queue?limit=
func (h *Handler) GetReviewQueue(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	if limit <= 0 {
		limit = h.reviewLimit
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	respondWithJSON(w, http.StatusOK, review.ReviewQueue(h.store.Logs(), h.now(), limit))
}

// GetRandomLog handles GET /api/review/random?projectId=
// It responds 204 when there is nothing to review.
func (h *Handler) GetRandomLog(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("projectId")

	h.mu.Lock()
	defer h.mu.Unlock()
	logs := h.store.Logs()
	if projectID != "" {
		logs = h.store.LogsByProject(projectID)
	}
	log, ok := h.sampler.Pick(logs)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, review.ScoredLog{Log: log, ForgetScore: review.ForgetScore(log, h.now())})
}

func (h *Handler) GetDueLogs(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	due := review.Due(h.store.Logs(), h.now())
	if due == nil {
		due = []journal.LogRecord{}
	}
	respondWithJSON(w, http.StatusOK, due)
}

type CreateSnippetRequest struct {
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

func (h *Handler) CreateSnippet(w http.ResponseWriter, r *http.Request) {
	var req CreateSnippetRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	snippet, err := h.store.CreateSnippet(r.Context(), req.ProjectID, req.Title, req.Language, req.Code)
	h.respondAfterMutation(w, r, http.StatusCreated, snippet, err)
}

type UpdateSnippetRequest struct {
	Title    *string `json:"title"`
	Language *string `json:"language"`
	Code     *string `json:"code"`
}

func (h *Handler) UpdateSnippet(w http.ResponseWriter, r *http.Request) {
	var req UpdateSnippetRequest
	if err := decodeBody(r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	snippet, err := h.store.UpdateSnippet(r.Context(), chi.URLParam(r, "id"), journal.SnippetUpdate{
		Title:    req.Title,
		Language: req.Language,
		Code:     req.Code,
	})
	h.respondAfterMutation(w, r, http.StatusOK, snippet, err)
}

func (h *Handler) DeleteSnippet(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	err := h.store.DeleteSnippet(r.Context(), chi.URLParam(r, "id"))
	h.respondAfterMutation(w, r, http.StatusNoContent, nil, err)
}
