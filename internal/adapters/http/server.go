// Package httpadapter serves the dashboard JSON API.
package httpadapter

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"missioncontrol/internal/adapters/storage"
	"missioncontrol/internal/ports"
)

const (
	serviceName       = "mission-control"
	findingsLimit     = 200
	defaultDays       = 30
	cronRouteTimeout  = 5 * time.Minute
	readRouteTimeout  = 30 * time.Second
	maxPatchBodyBytes = 1 << 16
)

type Server struct {
	dashboard  ports.Dashboard
	runner     ports.AuditRunner
	reporter   ports.Reporter
	backend    storage.Backend
	cronSecret string
	now        func() time.Time
}

type Option func(*Server)

// WithReporter relays cron audit results after they are stored.
func WithReporter(r ports.Reporter) Option {
	return func(s *Server) { s.reporter = r }
}

// WithCronSecret requires "Authorization: Bearer <secret>" on the cron route.
func WithCronSecret(secret string) Option {
	return func(s *Server) { s.cronSecret = secret }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

func New(dashboard ports.Dashboard, runner ports.AuditRunner, backend storage.Backend, opts ...Option) *Server {
	s := &Server{dashboard: dashboard, runner: runner, backend: backend, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns a chi.Router with every API endpoint mounted under /api.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(readRouteTimeout))
			r.Get("/health", s.handleHealth)
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/audits", s.handleLatestAudit)
			r.Get("/audits/history", s.handleAuditHistory)
			r.Get("/findings", s.handleFindings)
			r.Get("/recommendations", s.handleRecommendations)
			r.Post("/recommendations/{id}", s.handleUpdateRecommendation)
			r.Patch("/recommendations/{id}", s.handleUpdateRecommendation)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cronRouteTimeout))
			r.Get("/cron/weekly-audit", s.handleWeeklyAudit)
			r.Post("/cron/weekly-audit", s.handleWeeklyAudit)
		})
	})
	return r
}
