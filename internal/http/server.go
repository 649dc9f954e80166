package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Semicile17/Campus-Connect/internal/access"
	"github.com/Semicile17/Campus-Connect/internal/auth"
	"github.com/Semicile17/Campus-Connect/internal/cache"
	"github.com/Semicile17/Campus-Connect/internal/config"
	"github.com/Semicile17/Campus-Connect/internal/metrics"
	"github.com/Semicile17/Campus-Connect/internal/model"
	"github.com/Semicile17/Campus-Connect/internal/repository"
	"github.com/Semicile17/Campus-Connect/internal/session"
	"github.com/Semicile17/Campus-Connect/internal/validation"
)

const tracerName = "github.com/Semicile17/Campus-Connect/internal/http"

type Server struct {
	cfg       config.Config
	store     *repository.Store
	auth      *auth.Service
	carrier   *session.Carrier
	gate      *access.Gate
	catalog   *cache.Catalog
	metrics   *metrics.Metrics
	validator *validation.Validator
	logger    *slog.Logger
	tracer    trace.Tracer
	pages     map[string]*template.Template
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func WithCatalog(c *cache.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// NewServer wires the session stack from cfg. The access policy comes from
// cfg.AccessPolicyPath when set.
func NewServer(cfg config.Config, store *repository.Store, opts ...Option) (*Server, error) {
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	s := &Server{
		cfg:       cfg,
		store:     store,
		carrier:   session.NewCarrier(cfg.Production(), issuer.TTL()),
		validator: validation.New(),
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = cache.NewCatalog(nil, cfg.CatalogCacheTTL)
	}

	policy := access.DefaultPolicy()
	if cfg.AccessPolicyPath != "" {
		loaded, err := access.LoadPolicy(cfg.AccessPolicyPath)
		if err != nil {
			return nil, err
		}
		policy = loaded
	}

	s.auth = auth.NewService(store, issuer)
	s.gate = access.NewGate(issuer, s.carrier, policy, s.logger, access.WithRecorder(s.metrics))

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	s.pages = pages
	return s, nil
}

func (s *Server) Issuer() *auth.Issuer {
	return s.auth.Issuer()
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)
	r.Use(s.gate.Handler)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", staticHandler()))
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/", s.page("home"))
	r.Get("/about", s.page("about"))
	r.Get("/contact", s.page("contact"))
	r.Get("/login", s.page("login"))
	r.Get("/unauthorized", s.page("unauthorized"))
	r.Get("/dashboard/{role}", s.handleDashboard)
	r.Get("/dashboard/{role}/*", s.handleDashboard)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/logout", s.handleLogout)
		r.Get("/courses", s.handlePublicCourses)
		r.With(s.authMiddleware).Get("/me", s.handleGetMe)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.authMiddleware, s.requireRole(model.RoleAdmin))
			r.Post("/add-student", s.handleAddStudent)
			r.Post("/add-faculty", s.handleAddFaculty)
			r.Post("/add-admin", s.handleAddAdmin)
			r.Get("/users", s.handleListUsers)
			r.Get("/get-users/{userID}", s.handleGetUser)
			r.Delete("/users/{userID}", s.handleDeleteUser)
			r.Get("/get-faculty", s.handleListFaculty)
			r.Get("/courses", s.handleListCourses)
			r.Post("/courses", s.handleCreateCourse)
			r.Get("/subjects", s.handleListSubjects)
			r.Post("/subjects", s.handleCreateSubject)
		})

		r.Route("/faculty", func(r chi.Router) {
			r.Use(s.authMiddleware, s.requireRole(model.RoleFaculty))
			r.Get("/subjects", s.handleFacultySubjects)
			r.Post("/attendance", s.handleMarkAttendance)
			r.Get("/attendance", s.handleSubjectAttendance)
			r.Get("/announcements", s.handleFacultyAnnouncements)
			r.Post("/announcements", s.handleCreateAnnouncement)
		})

		r.Route("/student", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.With(s.requireRole(model.RoleAdmin, model.RoleFaculty)).Get("/", s.handleListStudents)
			r.With(s.requireRole(model.RoleStudent)).Get("/attendance", s.handleStudentAttendance)
			r.With(s.requireRole(model.RoleStudent)).Get("/announcements", s.handleStudentAnnouncements)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
