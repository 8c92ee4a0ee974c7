package console

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/config"
	apierrors "github.com/ahmedbadawy4/llm-pii-shield/internal/errors"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/harness"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/httputil"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/upstream"
)

// Server is the operator console: it serves the page and runs harness
// operations for each connected browser.
type Server struct {
	httpServer *http.Server
	harness    *harness.Harness
	runtime    harness.RuntimeConfig

	// baseCtx is the parent of every session; Shutdown cancels it.
	baseCtx context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	wg       sync.WaitGroup
}

// New constructs a Server from the given config.
func New(cfg *config.Config) *Server {
	client := upstream.NewClient(cfg.RequestTimeout, cfg.ProxyURL)
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		harness:  harness.New(client),
		runtime:  cfg.Runtime,
		baseCtx:  ctx,
		cancel:   cancel,
		sessions: map[uuid.UUID]*session{},
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.servePage).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveSession).Methods(http.MethodGet)
	r.HandleFunc("/healthz", serveHealth).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apierrors.WriteJSONError(w, http.StatusNotFound, "no such console route: "+r.URL.Path)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apierrors.WriteJSONError(w, http.StatusMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
	})
	r.Use(requestIDMiddleware)

	var handler http.Handler = r
	handler = loggingMiddleware(handler)
	handler = recoveryMiddleware(handler)

	// No WriteTimeout: WebSocket sessions outlive a single request.
	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start begins listening and blocks until the server is stopped.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the underlying http.Handler (for use in tests with httptest.NewServer).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Shutdown stops accepting requests, closes every open session and waits for
// in-flight operations to unwind.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.cancel()

	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		s.harness.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	var form harness.Form
	harness.Seed(&form, s.runtime, httputil.Origin(r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{Form: form}); err != nil {
		apierrors.WriteJSONError(w, http.StatusInternalServerError, "render page: "+err.Error())
	}
}

func serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
