package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/huiren/geoaudit/internal/app"
	"github.com/huiren/geoaudit/internal/fetcher"
	"github.com/huiren/geoaudit/internal/fixgen"
	"github.com/huiren/geoaudit/internal/history"
	"github.com/huiren/geoaudit/internal/logging"
	"github.com/huiren/geoaudit/internal/visibility"
)

const defaultHistoryLimit = 20

// Server is the HTTP + WebSocket API surface for geoaudit.
type Server struct {
	cfg      Config
	app      *app.Application
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
	metrics  *metrics
}

// NewServer creates a Server with its own Application.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	application, err := app.New(cfg.AppConfig, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		app:    application,
		router: chi.NewRouter(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger,
		metrics: newMetrics(),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.corsMiddleware)

	r.Post("/api/v1/audits", s.handleCreateAudit)
	r.Options("/api/v1/audits", s.optionsHandler("POST, GET, OPTIONS"))
	r.Get("/api/v1/audits", s.handleListAudits)
	r.Get("/api/v1/audits/compare", s.handleCompareAudits)
	r.Get("/api/v1/audits/{id}", s.handleGetAudit)

	r.Post("/api/v1/probes", s.handleCreateProbe)
	r.Options("/api/v1/probes", s.optionsHandler("POST, OPTIONS"))

	r.Post("/api/v1/fixes", s.handleCreateFix)
	r.Options("/api/v1/fixes", s.optionsHandler("POST, OPTIONS"))

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Get("/ws/probes", s.handleProbeWS)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close releases the underlying Application.
func (s *Server) Close() {
	if s.app != nil {
		s.app.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding response", logging.Field{Key: "error", Value: err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeFetchError maps a fetch failure to a status code. The target site
// being unreachable is the upstream's fault, not the caller's, except when
// the target itself cannot be parsed.
func (s *Server) writeFetchError(w http.ResponseWriter, err error) {
	var fe *fetcher.Error
	if errors.As(err, &fe) {
		s.writeError(w, http.StatusBadGateway, fe.Error())
		return
	}
	s.writeError(w, http.StatusBadRequest, err.Error())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Target == "" {
		s.writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	start := time.Now()
	report, err := s.app.Audit(r.Context(), req.Target)
	s.metrics.auditsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		s.logger.Warn("running audit", logging.Field{Key: "target", Value: req.Target}, logging.Field{Key: "error", Value: err.Error()})
		s.writeFetchError(w, err)
		return
	}
	s.metrics.auditDuration.Observe(time.Since(start).Seconds())

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		s.writeError(w, http.StatusBadRequest, "target query parameter is required")
		return
	}

	limit := defaultHistoryLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	entries, err := s.app.History(r.Context(), target, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := s.app.Entry(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "audit not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleCompareAudits(w http.ResponseWriter, r *http.Request) {
	idA := r.URL.Query().Get("a")
	idB := r.URL.Query().Get("b")
	if idA == "" || idB == "" {
		s.writeError(w, http.StatusBadRequest, "a and b query parameters are required")
		return
	}

	cmp, err := s.app.Compare(r.Context(), idA, idB)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "audit not found")
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleCreateProbe(w http.ResponseWriter, r *http.Request) {
	var req probeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Target == "" {
		s.writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	start := time.Now()
	report, err := s.app.ProbeStream(r.Context(), req.Target, req.Industry, s.countProviderCall)
	s.metrics.probesTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		if errors.Is(err, app.ErrNoProviders) {
			s.writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if errors.Is(err, visibility.ErrAllProvidersFailed) {
			s.writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		s.writeFetchError(w, err)
		return
	}
	s.metrics.probeDuration.Observe(time.Since(start).Seconds())

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) countProviderCall(resp visibility.ProviderResponse) {
	outcome := "ok"
	if resp.Failure != nil {
		outcome = string(resp.Failure.Kind)
	}
	s.metrics.providerRequests.WithLabelValues(resp.Provider, outcome).Inc()
}

func (s *Server) handleCreateFix(w http.ResponseWriter, r *http.Request) {
	var req fixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Target == "" {
		s.writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	opts := fixgen.Options{
		LlmsTxt:    req.LlmsTxt,
		Schema:     req.Schema,
		SchemaType: req.SchemaType,
	}

	artifacts, _, err := s.app.Fix(r.Context(), req.Target, opts)
	if err != nil {
		s.logger.Warn("generating fixes", logging.Field{Key: "target", Value: req.Target}, logging.Field{Key: "error", Value: err.Error()})
		s.writeFetchError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, artifacts)
}

// probeEvent is a single frame on the probe websocket. Type is "result"
// while providers are answering and "report" for the final frame.
type probeEvent struct {
	Type   string                       `json:"type"`
	Result *visibility.ProviderResponse `json:"result,omitempty"`
	Report *visibility.Report           `json:"report,omitempty"`
}

func (s *Server) handleProbeWS(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	if target == "" {
		s.writeError(w, http.StatusBadRequest, "target query parameter is required")
		return
	}
	industry := r.URL.Query().Get("industry")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	ctx := r.Context()

	report, err := s.app.ProbeStream(ctx, target, industry, func(resp visibility.ProviderResponse) {
		s.countProviderCall(resp)
		if werr := conn.WriteJSON(probeEvent{Type: "result", Result: &resp}); werr != nil {
			s.logger.Warn("writing probe result", logging.Field{Key: "error", Value: werr.Error()})
		}
	})
	s.metrics.probesTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	_ = conn.WriteJSON(probeEvent{Type: "report", Report: report})
}
