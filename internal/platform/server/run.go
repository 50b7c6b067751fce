package server

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	shared "github.com/HsiaoHungKai/myDonut/internal/platform/di/shared"
)

// MountFunc builds a service's DI container and returns its route mounter.
type MountFunc func(ctx context.Context, infra *shared.Infra) (func(r chi.Router), error)

// Run starts listening immediately with /healthz only, builds infra and the
// service container in the background, then swaps in the full router.
// It blocks until SIGINT/SIGTERM shutdown completes.
func Run(name string, build MountFunc) {
	teeLog(name)

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	switcher := NewAtomicHandler(HealthOnly())
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      switcher,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var infraHolder atomic.Pointer[shared.Infra]
	shuttingDown := make(chan struct{})

	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c

		close(shuttingDown)
		log.Printf("[boot] received signal: %v; shutting down...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[boot] server shutdown error: %v", err)
		}

		if infra := infraHolder.Swap(nil); infra != nil {
			log.Printf("[boot] closing infra resources...")
			if err := infra.Close(); err != nil {
				log.Printf("[boot] infra close error: %v", err)
			}
		}
		close(idleConnsClosed)
	}()

	go func() {
		log.Printf("[boot] listening on :%s (%s)", port, name)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[boot] server error: %v", err)
		}
	}()

	go func() {
		initCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		infra, err := shared.NewInfra(initCtx)
		if err != nil {
			log.Printf("[boot] WARN: shared infra init failed: %v (serving /healthz only)", err)
			return
		}
		infraHolder.Store(infra)

		mount, err := build(initCtx, infra)
		if err != nil {
			if i := infraHolder.Swap(nil); i != nil {
				_ = i.Close()
			}
			log.Printf("[boot] WARN: %s di init failed: %v (serving /healthz only)", name, err)
			return
		}

		select {
		case <-shuttingDown:
			return
		default:
		}

		switcher.Store(NewRouter(infra.Metrics, mount))
		log.Printf("[boot] handler switched to %s router", name)
	}()

	<-idleConnsClosed
	log.Printf("[boot] server stopped")
}

// teeLog writes the standard logger to stdout and, best-effort, a file.
func teeLog(name string) {
	logPath := name + ".log"
	if _, ok := os.LookupEnv("K_SERVICE"); ok {
		logPath = "/tmp/" + logPath
	}
	f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("[boot] WARN: could not open %s: %v (stdout only)", logPath, err)
		return
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	log.Printf("[boot] log output = stdout + %s", logPath)
}
