package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/aiact-classifier/internal/application/classifier"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/ai"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/citation"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/usecase"
	"github.com/bryanwahyu/aiact-classifier/internal/domain/workflow"
	"github.com/bryanwahyu/aiact-classifier/internal/middleware"
)

const maxBodyBytes = 1 << 20

type Options struct {
	Logger         *zap.Logger
	Metrics        *middleware.Metrics
	Limiter        *middleware.RateLimiter
	APIKeys        map[string]string
	AllowedOrigins []string
	Checkers       map[string]middleware.HealthChecker
}

type Router struct {
	svc *classifier.Service
	log *zap.Logger
}

func NewRouter(svc *classifier.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := &Router{svc: svc, log: opts.Logger}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(opts.Metrics.Middleware)
	mux.Use(middleware.LoggingMiddleware(opts.Logger))
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	if opts.Limiter != nil {
		mux.Use(middleware.RateLimitMiddleware(opts.Limiter))
	}

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", opts.Metrics.Handler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/use-cases", r.wrap(r.handleUseCases))
		rt.Post("/use-cases/optimize", r.wrap(r.handleOptimize))
		rt.Get("/steps", r.wrap(r.handleSteps))

		rt.Post("/sessions", r.wrap(r.handleCreate))
		rt.Route("/sessions/{id}", func(s chi.Router) {
			s.Get("/", r.wrap(r.handleGet))
			s.Delete("/", r.wrap(r.handleDelete))
			s.Post("/select", r.wrap(r.handleSelect))
			s.Post("/decision", r.wrap(r.handleDecision))
			s.Post("/rationale", r.wrap(r.handleRationale))
			s.Post("/override/cancel", r.wrap(r.handleCancelOverride))
			s.Post("/reset", r.wrap(r.handleReset))
			s.Get("/progress", r.wrap(r.handleProgress))
			s.Get("/report", r.wrap(r.handleReport))
			s.Post("/report/publish", r.wrap(r.handlePublish))
		})

		rt.Get("/citations", r.wrap(r.handleCitation))
		rt.Post("/citations/highlight", r.wrap(r.handleHighlight))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks malformed input.
type badRequest struct{ error }

func invalid(format string, args ...any) error {
	return badRequest{fmt.Errorf(format, args...)}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var bad badRequest
		switch {
		case errors.As(err, &bad), errors.Is(err, classifier.ErrUnknownFormat):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, classifier.ErrSessionNotFound):
			http.Error(w, "session not found", http.StatusNotFound)
		case errors.Is(err, usecase.ErrUnknownPreset),
			errors.Is(err, usecase.ErrEmptyDescription),
			errors.Is(err, workflow.ErrRationaleRequired):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, workflow.ErrInvalidPhase),
			errors.Is(err, workflow.ErrReportStarted),
			errors.Is(err, classifier.ErrBusy):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ai.ErrQuotaExceeded):
			http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
		case errors.Is(err, classifier.ErrPublishingDisabled), errors.Is(err, classifier.ErrExportDisabled):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			r.log.Error("request failed",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, req *http.Request, v any) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return invalid("invalid JSON body: %v", err)
	}
	return nil
}

func sessionID(req *http.Request) (string, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateSessionID(id); err != nil {
		return "", badRequest{err}
	}
	return id, nil
}

// GET /v1/use-cases
func (r *Router) handleUseCases(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, usecase.Presets())
}

// POST /v1/use-cases/optimize
// Body: {"description": "..."}
func (r *Router) handleOptimize(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Description string `json:"description"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	desc := middleware.SanitizeString(body.Description)
	if err := middleware.ValidateLength("description", desc, middleware.MaxDescriptionLen); err != nil {
		return badRequest{err}
	}
	out, err := r.svc.OptimizeDescription(req.Context(), desc)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, out)
}

// GET /v1/steps
func (r *Router) handleSteps(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, r.svc.Steps())
}

// POST /v1/sessions
func (r *Router) handleCreate(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusCreated, r.svc.Create())
}

// GET /v1/sessions/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	v, err := r.svc.Get(id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// DELETE /v1/sessions/{id}
func (r *Router) handleDelete(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	if err := r.svc.Delete(id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/sessions/{id}/select
// Body: {"use_case_id": 2} or {"description": "..."}
// Blocks until the first step has been assessed.
func (r *Router) handleSelect(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	var body struct {
		UseCaseID   int    `json:"use_case_id"`
		Description string `json:"description"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	desc := middleware.SanitizeString(body.Description)
	if err := middleware.ValidateLength("description", desc, middleware.MaxDescriptionLen); err != nil {
		return badRequest{err}
	}
	v, err := r.svc.Select(req.Context(), id, classifier.Selection{UseCaseID: body.UseCaseID, Description: desc})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// POST /v1/sessions/{id}/decision
// Body: {"decision": true, "rationale": "..."}
// An override without rationale leaves the session awaiting one.
func (r *Router) handleDecision(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	var body struct {
		Decision  *bool  `json:"decision"`
		Rationale string `json:"rationale"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	if body.Decision == nil {
		return invalid("decision is required")
	}
	rationale, err := cleanRationale(body.Rationale)
	if err != nil {
		return err
	}
	v, err := r.svc.Decide(req.Context(), id, *body.Decision, rationale)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// POST /v1/sessions/{id}/rationale
// Body: {"rationale": "..."}
func (r *Router) handleRationale(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	var body struct {
		Rationale string `json:"rationale"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	rationale, err := cleanRationale(body.Rationale)
	if err != nil {
		return err
	}
	v, err := r.svc.SubmitRationale(req.Context(), id, rationale)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

func cleanRationale(s string) (string, error) {
	s = middleware.SanitizeString(s)
	if err := middleware.ValidateLength("rationale", s, middleware.MaxRationaleLen); err != nil {
		return "", badRequest{err}
	}
	return s, nil
}

// POST /v1/sessions/{id}/override/cancel
func (r *Router) handleCancelOverride(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	v, err := r.svc.CancelOverride(id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// POST /v1/sessions/{id}/reset
func (r *Router) handleReset(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	v, err := r.svc.Reset(id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, v)
}

// GET /v1/sessions/{id}/progress
func (r *Router) handleProgress(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	p, err := r.svc.Progress(id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// GET /v1/sessions/{id}/report?format=markdown|json
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	format, err := middleware.ValidateFormat(req.URL.Query().Get("format"))
	if err != nil {
		return badRequest{err}
	}
	doc, err := r.svc.Report(id, format)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	_, err = w.Write(doc.Body)
	return err
}

// POST /v1/sessions/{id}/report/publish
func (r *Router) handlePublish(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	p, err := r.svc.Publish(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, p)
}

// GET /v1/citations?q=Article+5(1)
// Without q, lists every known entry.
func (r *Router) handleCitation(w http.ResponseWriter, req *http.Request) error {
	q := strings.TrimSpace(req.URL.Query().Get("q"))
	if q == "" {
		res := citation.Default()
		var all []citation.Entry
		for _, k := range res.Keys() {
			e, _ := res.Lookup(k)
			all = append(all, e)
		}
		return writeJSON(w, http.StatusOK, all)
	}
	if err := middleware.ValidateLength("q", q, 200); err != nil {
		return badRequest{err}
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"query":      q,
		"normalized": citation.Normalize(q),
		"entry":      citation.Resolve(q),
	})
}

// POST /v1/citations/highlight
// Body: {"text": "..."}
func (r *Router) handleHighlight(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	if err := middleware.ValidateLength("text", body.Text, middleware.MaxCitationLen); err != nil {
		return badRequest{err}
	}
	paras := citation.Highlight(body.Text)
	if paras == nil {
		paras = []citation.Paragraph{}
	}
	return writeJSON(w, http.StatusOK, paras)
}
