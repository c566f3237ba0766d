// ABOUTME: Reference REST backend for meetings served with chi
// ABOUTME: Wires middleware, bearer auth, and the meeting, lookup, and calendar routes
package web

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options configures the reference backend.
type Options struct {
	// Token, when set, must be presented as a bearer token on every request.
	Token string

	// TenantID is stamped on created meetings when the request carries no tenant header.
	TenantID string

	Logger *log.Logger
}

type Server struct {
	db       *sql.DB
	token    string
	tenantID string
	logger   *log.Logger
	now      func() time.Time
}

func NewServer(database *sql.DB, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		db:       database,
		token:    opts.Token,
		tenantID: opts.TenantID,
		logger:   logger,
		now:      time.Now,
	}
}

// Handler returns the router with every route mounted under /api.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/meetings", func(r chi.Router) {
			r.Get("/", s.handleListMeetings)
			r.Post("/", s.handleCreateMeeting)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetMeeting)
				r.Get("/edit", s.handleGetMeetingForEdit)
				r.Put("/", s.handleUpdateMeeting)
				r.Patch("/reschedule", s.handleRescheduleMeeting)
				r.Patch("/status", s.handleSetStatus)
				r.Delete("/", s.handleDeleteMeeting)
			})
		})

		r.Get("/clients", s.handleListClients)
		r.Get("/users", s.handleListUsers)
		r.Get("/client-contacts", s.handleListClientContacts)
		r.Get("/calendar/events", s.handleCalendarEvents)
	})

	return r
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting reference backend", "addr", "http://"+addr+"/api")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
