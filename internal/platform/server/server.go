// Package server holds the boot plumbing shared by the mall and console
// binaries: a swappable root handler, the health endpoint and the chi root
// router.
package server

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/HsiaoHungKai/myDonut/internal/adapters/in/http/middleware"
	"github.com/HsiaoHungKai/myDonut/internal/infra/metrics"
)

// AtomicHandler allows swapping the underlying handler at runtime safely.
type AtomicHandler struct {
	v atomic.Value // stores http.Handler
}

func NewAtomicHandler(initial http.Handler) *AtomicHandler {
	ah := &AtomicHandler{}
	if initial == nil {
		initial = http.NotFoundHandler()
	}
	ah.v.Store(initial)
	return ah
}

func (h *AtomicHandler) Store(next http.Handler) {
	if next == nil {
		return
	}
	h.v.Store(next)
}

func (h *AtomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.v.Load().(http.Handler).ServeHTTP(w, r)
}

func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HealthOnly serves /healthz while the DI containers are still booting.
func HealthOnly() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", Healthz)
	return middleware.CORS(mux)
}

// NewRouter builds the full application router. reg may be nil.
func NewRouter(reg *metrics.Registry, mount func(r chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORS)
	r.Use(chimw.Timeout(8 * time.Second))

	r.Get("/healthz", Healthz)
	if reg != nil {
		r.Method(http.MethodGet, "/metrics", reg.Handler())
	}
	if mount != nil {
		mount(r)
	}
	return r
}
