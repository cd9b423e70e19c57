package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formrules/internal/metrics"
	"github.com/goliatone/go-formrules/pkg/definition"
	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/rules"
	"github.com/goliatone/go-formrules/pkg/submission"
)

const defaultMaxBodyBytes = 1 << 20

// Server exposes form definitions, evaluation and submission over HTTP.
type Server struct {
	store        definition.Store
	gate         *submission.Gate
	metrics      *metrics.Collector
	gatherer     prometheus.Gatherer
	logger       *slog.Logger
	maxBodyBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGate sets the submission gate. The default gate keeps receipts nowhere.
func WithGate(gate *submission.Gate) Option {
	return func(s *Server) {
		if gate != nil {
			s.gate = gate
		}
	}
}

// WithMetrics records evaluations on collector and serves gatherer on
// /metrics.
func WithMetrics(collector *metrics.Collector, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = collector
		s.gatherer = gatherer
	}
}

// WithMaxBodyBytes limits request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// New builds a server over store.
func New(store definition.Store, options ...Option) *Server {
	s := &Server{
		store:        store,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.gate == nil {
		s.gate = submission.NewGate(submission.WithLogger(s.logger))
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.health)
	r.Route("/forms", func(r chi.Router) {
		r.Get("/", s.listForms)
		r.Route("/{formID}", func(r chi.Router) {
			r.Get("/", s.getForm)
			r.Put("/", s.putForm)
			r.Delete("/", s.deleteForm)
			r.Post("/evaluate", s.evaluate)
			r.Post("/submissions", s.submit)
		})
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type valuesRequest struct {
	Values model.FormData `json:"values"`
}

type putResponse struct {
	Form   definition.Form `json:"form"`
	Issues []rules.Issue   `json:"issues,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listForms(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"forms": ids})
}

func (s *Server) getForm(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (s *Server) putForm(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	var raw map[string]any
	if err := s.decode(w, r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if id, ok := raw["id"]; !ok || id == "" {
		raw["id"] = formID
	} else if id != formID {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("body id %v does not match path id %q", id, formID))
		return
	}

	form, err := definition.FromMap(raw, "request body")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Put(r.Context(), form); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("form stored", slog.String("form", form.ID), slog.Int("fields", len(form.Fields)), slog.Int("rules", len(form.Rules)))
	writeJSON(w, http.StatusOK, putResponse{Form: form, Issues: form.Lint()})
}

func (s *Server) deleteForm(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "formID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}
	var body valuesRequest
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	started := time.Now()
	result := form.Evaluate(body.Values)
	if s.metrics != nil {
		s.metrics.ObserveEvaluation(form.ID, result.CanSubmit, time.Since(started))
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	form, ok := s.loadForm(w, r)
	if !ok {
		return
	}
	var body valuesRequest
	if err := s.decode(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	receipt, err := s.gate.Accept(r.Context(), form, body.Values)
	if rejection, rejected := submission.IsRejected(err); rejected {
		writeJSON(w, http.StatusUnprocessableEntity, rejection)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *Server) loadForm(w http.ResponseWriter, r *http.Request) (definition.Form, bool) {
	form, err := s.store.Get(r.Context(), chi.URLParam(r, "formID"))
	if err != nil {
		s.fail(w, r, err)
		return definition.Form{}, false
	}
	return form, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, definition.ErrNotFound):
		writeError(w, http.StatusNotFound, "form not found")
	case errors.Is(err, definition.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(started)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
