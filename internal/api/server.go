// Package api serves entity state and install requests over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/hassglue/internal/entity"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
	"github.com/MrSnakeDoc/hassglue/internal/metrics"
	"github.com/MrSnakeDoc/hassglue/internal/update"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 16

type Server struct {
	router     *mux.Router
	httpServer *http.Server
	registry   *entity.Registry
	metrics    *metrics.Metrics
}

type Config struct {
	Listen   string
	Registry *entity.Registry
	// Metrics may be nil; /metrics is then not served.
	Metrics *metrics.Metrics
	// AccessLog receives one line per request; nil disables it.
	AccessLog io.Writer
}

type installRequest struct {
	Version string `json:"version"`
	Backup  bool   `json:"backup"`
}

func NewServer(cfg Config) *Server {
	s := &Server{
		router:   mux.NewRouter().StrictSlash(true),
		registry: cfg.Registry,
		metrics:  cfg.Metrics,
	}
	s.setupRoutes()

	var h http.Handler = handlers.CORS(handlers.AllowedOrigins([]string{"*"}))(s.router)
	if cfg.AccessLog != nil {
		h = handlers.LoggingHandler(cfg.AccessLog, h)
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/entities", s.handleListEntities).Methods(http.MethodGet)
	api.HandleFunc("/entities/{id}", s.handleGetEntity).Methods(http.MethodGet)
	api.HandleFunc("/updates/{id}/install", s.handleInstall).Methods(http.MethodPost)
}

// Handler is the fully wrapped handler, as served by Start.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Addr() string { return s.httpServer.Addr }

// Start blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) Start() error {
	logger.Info("API listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListEntities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.States())
}

func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	e, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown entity "+id)
		return
	}
	writeJSON(w, http.StatusOK, entity.Snapshot(e))
}

func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	e, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown entity "+id)
		return
	}
	f, ok := e.(update.Facade)
	if !ok {
		writeError(w, http.StatusNotFound, id+" is not an update entity")
		return
	}

	var req installRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	logger.Info("installing %s (version=%q backup=%t)", id, req.Version, req.Backup)
	err := f.Install(r.Context(), req.Version, req.Backup)
	if s.metrics != nil {
		s.metrics.RecordInstall(id, err)
	}

	var ie *update.InstallError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.As(err, &ie):
		logger.LogError("%v", err)
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Warn("%v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
