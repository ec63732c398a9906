// Package server exposes a provider over HTTP so a viewer on another
// machine can browse this machine's disk.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lumipallolabs/spacemap/internal/logging"
	"github.com/lumipallolabs/spacemap/internal/metrics"
	"github.com/lumipallolabs/spacemap/internal/provider"
)

// maxBody caps request bodies; every request is a small JSON object
const maxBody = 1 << 20

// Server is the HTTP layout provider
type Server struct {
	prov provider.Provider
	log  *log.Logger
}

// New creates a server backed by p
func New(p provider.Provider, logger *log.Logger) *Server {
	return &Server{prov: p, log: logging.OrDiscard(logger)}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(metrics.Middleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/scan", s.handleScan)
		r.Post("/layout", s.handleLayout)
		r.Post("/reveal", s.handleReveal)
		r.Post("/mime", s.handleMime)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req provider.ScanRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Path == "" {
		s.sendError(w, provider.ErrBadRequest)
		return
	}
	info, err := s.prov.Scan(r.Context(), req.Path)
	if err != nil {
		s.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, info)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req provider.LayoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	rects, err := s.prov.Layout(r.Context(), req)
	if err != nil {
		s.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, provider.LayoutResponse{Rects: rects})
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req provider.RevealRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.prov.Reveal(r.Context(), req.Path); err != nil {
		s.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMime(w http.ResponseWriter, r *http.Request) {
	var req provider.MimeRequest
	if !s.decode(w, r, &req) {
		return
	}
	m, err := s.prov.Mime(r.Context(), req.Path)
	if err != nil {
		s.sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, provider.MimeResponse{Mime: m})
}

// decode reads a JSON body, answering 400 itself on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.log.Debug("bad request body", "path", r.URL.Path, "err", err)
		sendJSON(w, http.StatusBadRequest, provider.ErrorBody{Error: err.Error(), Code: provider.CodeBadRequest})
		return false
	}
	return true
}

// statusFor maps provider errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, provider.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, provider.ErrUnknownNode), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, provider.ErrNoRoot):
		return http.StatusConflict
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) sendError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.log.Error("request failed", "err", err)
	} else {
		s.log.Warn("request rejected", "status", status, "err", err)
	}
	sendJSON(w, status, provider.ErrorBody{Error: err.Error(), Code: provider.Code(err)})
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
