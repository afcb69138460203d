// Package fakeapi is an in-memory implementation of the backend REST
// contract for development and tests.
package fakeapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BasePath is where the API is mounted.
const BasePath = "/api/v1"

// Failure is an injected error response.
type Failure struct {
	Status  int
	Message string
}

// Server holds all backend state in memory.
type Server struct {
	mu       sync.Mutex
	projects []api.Project
	chats    []api.Chat
	messages map[string][]api.Message
	files    []api.ContextFile

	failures map[string]Failure
	holds    map[string]chan struct{}
	calls    map[string]int

	// Reply produces the assistant's answer. Defaults to an echo.
	Reply func(prompt string, files []api.ContextFile) string

	now    func() time.Time
	logger *zap.Logger
}

// New creates an empty backend.
func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		messages: make(map[string][]api.Message),
		failures: make(map[string]Failure),
		holds:    make(map[string]chan struct{}),
		calls:    make(map[string]int),
		Reply:    echoReply,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		logger:   logger,
	}
}

func echoReply(prompt string, files []api.ContextFile) string {
	if len(files) == 0 {
		return "Echo: " + prompt
	}
	return "Echo: " + prompt + "\n\n_Context: " + files[0].ContextName + "_"
}

// Handler returns the router with every route mounted under BasePath.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Route(BasePath, func(r chi.Router) {
		r.Get("/projects", s.guard("GET /projects", s.listProjects))
		r.Post("/projects", s.guard("POST /projects", s.createProject))
		r.Get("/projects/{id}/chats", s.guard("GET /projects/{id}/chats", s.listChats))
		r.Get("/projects/{id}/context-files", s.guard("GET /projects/{id}/context-files", s.listFiles))
		r.Post("/projects/{id}/context-files", s.guard("POST /projects/{id}/context-files", s.uploadFile))
		r.Post("/chats", s.guard("POST /chats", s.createChat))
		r.Get("/chats/{id}", s.guard("GET /chats/{id}", s.getChat))
		r.Get("/chats/{id}/messages", s.guard("GET /chats/{id}/messages", s.listMessages))
		r.Post("/generate", s.guard("POST /generate", s.generate))
		r.Delete("/context-files/{id}", s.guard("DELETE /context-files/{id}", s.deleteFile))
	})
	return r
}

// Fail makes every request to route (e.g. "POST /generate") fail until Recover.
// An empty message produces an envelope without an error string.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = Failure{Status: status, Message: message}
}

// Recover removes an injected failure.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Hold blocks requests to route until the returned release func is called.
func (s *Server) Hold(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[route] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, route)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

func (s *Server) guard(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		hold := s.holds[route]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		s.mu.Lock()
		f, failing := s.failures[route]
		s.mu.Unlock()
		if failing {
			writeError(w, f.Status, f.Message)
			return
		}
		next(w, r)
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", r.Header.Get("X-Request-ID")),
			)
		})
	}
}
