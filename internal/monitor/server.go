// Package monitor serves the remote's state, the latest frame and the
// command set over local HTTP.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"facecam/remote/internal/domain"
	"facecam/remote/internal/viewer"
)

// Controls is the operator surface the monitor drives.
type Controls interface {
	RequestMode(mode domain.Mode) error
	CaptureAs(name string) error
	Remove(name string) error
	DeleteAll() error
	Roster() []domain.FaceEntry
	Snapshot() viewer.Snapshot
}

// FrameSource returns a copy of the displayed frame.
type FrameSource interface {
	Latest() ([]byte, bool)
}

type handler struct {
	controls Controls
	frames   FrameSource
	log      zerolog.Logger
}

// NewRouter builds the monitor routes. gatherer may be nil to omit /metrics.
func NewRouter(controls Controls, frames FrameSource, gatherer prometheus.Gatherer) http.Handler {
	h := &handler{
		controls: controls,
		frames:   frames,
		log:      log.With().Str("component", "monitor").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/status", h.status)
	r.Get("/roster", h.roster)
	r.Get("/frame", h.frame)
	r.Post("/mode/{mode}", h.mode)
	r.Post("/faces", h.capture)
	r.Delete("/faces", h.deleteAll)
	r.Delete("/faces/{name}", h.remove)

	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controls.Snapshot())
}

func (h *handler) roster(w http.ResponseWriter, r *http.Request) {
	entries := h.controls.Roster()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *handler) frame(w http.ResponseWriter, r *http.Request) {
	data, ok := h.frames.Latest()
	if !ok {
		http.Error(w, "no frame yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (h *handler) mode(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.accepted(w, h.controls.RequestMode(mode))
}

type captureRequest struct {
	Name string `json:"name"`
}

func (h *handler) capture(w http.ResponseWriter, r *http.Request) {
	var name string
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		var req captureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		name = req.Name
	} else {
		name = r.FormValue("name")
	}
	h.accepted(w, h.controls.CaptureAs(name))
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	// chi matches on RawPath when it is set, leaving the segment escaped.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(name)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid name"})
			return
		}
		name = unescaped
	}
	h.accepted(w, h.controls.Remove(name))
}

func (h *handler) deleteAll(w http.ResponseWriter, r *http.Request) {
	h.accepted(w, h.controls.DeleteAll())
}

// accepted reports a fire-and-forget command: 202 means it was handed to the
// session, not that the device acted on it.
func (h *handler) accepted(w http.ResponseWriter, err error) {
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"result": "sent"})
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrCaptureDisabled):
		code = http.StatusConflict
	case errors.Is(err, domain.ErrNotConnected):
		code = http.StatusServiceUnavailable
	}
	if code == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("command failed")
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Server runs the monitor router.
type Server struct {
	srv *http.Server
	log zerolog.Logger
}

// NewServer creates a monitor server on addr.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log.With().Str("component", "monitor").Logger(),
	}
}

// Start serves in the background.
func (s *Server) Start() {
	go func() {
		s.log.Info().Str("addr", s.srv.Addr).Msg("monitor listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("monitor stopped")
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
