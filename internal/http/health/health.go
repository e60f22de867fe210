package health

import (
	"net/http"
	"sync/atomic"
)

// Handler serves liveness and readiness probes.
type Handler struct {
	ready atomic.Bool
	probe func() error
}

// New returns a health handler. probe, when non-nil, must succeed for the
// server to report ready.
func New(probe func() error) *Handler {
	return &Handler{probe: probe}
}

// Register mounts /healthz and /readyz on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.Healthz)
	mux.HandleFunc("/readyz", h.Readyz)
}

// SetReady marks the handler as ready.
func (h *Handler) SetReady() {
	h.ready.Store(true)
}

// SetNotReady marks the handler as not ready.
func (h *Handler) SetNotReady() {
	h.ready.Store(false)
}

// Healthz handles liveness probes.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz handles readiness probes.
func (h *Handler) Readyz(w http.ResponseWriter, _ *http.Request) {
	if !h.ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	if h.probe != nil {
		if err := h.probe(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(err.Error()))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
