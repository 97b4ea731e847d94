package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/childcare-management/childcare-ui/internal/logger"
	"github.com/childcare-management/childcare-ui/internal/ui/auth"
	"github.com/childcare-management/childcare-ui/internal/ui/client"
	"github.com/childcare-management/childcare-ui/internal/ui/config"
	"github.com/childcare-management/childcare-ui/internal/ui/handlers"
	"github.com/childcare-management/childcare-ui/internal/ui/session"
	"github.com/childcare-management/childcare-ui/web"
)

const (
	// ServerShutdownTimeout is the timeout for graceful server shutdown
	ServerShutdownTimeout = 10 * time.Second

	// RequestTimeout bounds the time spent on a single page, API calls included
	RequestTimeout = 60 * time.Second
)

type Server struct {
	router      *chi.Mux
	config      *config.Config
	logger      *slog.Logger
	authService *auth.AuthService
	apiClient   *client.Client
	csrfKey     []byte
}

// NewServer creates the UI server and registers its middleware and routes.
//
// One API client is shared by all requests, each request supplies its own token through the
// session RequireAuth places on the context.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	csrfKey, err := cfg.CSRFAuthKey()
	if err != nil {
		return nil, fmt.Errorf("could not load csrf key: %w", err)
	}

	s := &Server{
		router:      chi.NewRouter(),
		config:      cfg,
		logger:      logger,
		authService: auth.NewAuthService(cfg.Environment, cfg.SessionMaxAge),
		apiClient:   client.NewClient(cfg.APIBaseURL, session.ContextTokens{}, logger, client.WithTimeout(cfg.APITimeout)),
		csrfKey:     csrfKey,
	}

	s.setupMiddleware()
	s.RegisterRoutes(s.router)
	return s, nil
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// RegisterRoutes registers the UI routes on router
func (s *Server) RegisterRoutes(router chi.Router) {
	handlerService := &handlers.HandlerService{
		AuthService: s.authService,
		ApiClient:   s.apiClient,
		Environment: s.config.Environment,
	}

	// Static assets and health (no auth required)
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
	router.Get("/health/live", handlerService.HandleLiveness)

	// Public routes (no auth required)
	router.Get("/login", handlerService.HandleLogin)
	router.Post("/login", handlerService.HandleLoginPost)
	router.Get("/access-denied", handlerService.HandleAccessDenied)

	// redirects to the area dashboard if authenticated, login if not
	router.Get("/", handlerService.HandleHome)

	// Account routes (any authenticated user)
	router.Group(func(r chi.Router) {
		r.Use(s.authService.RequireAuth)

		r.Post("/logout", handlerService.HandleLogout)
		r.Get("/account/password", handlerService.HandleChangePassword)
		r.Post("/account/password", handlerService.HandleChangePasswordPost)
	})

	// Staff area (any authenticated user)
	router.Route(auth.StaffArea, func(r chi.Router) {
		r.Use(s.authService.RequireAuth)
		areaRoutes(r, handlerService)
	})

	// Admin area (require admin role)
	router.Route(auth.AdminArea, func(r chi.Router) {
		r.Use(s.authService.RequireAuth)
		r.Use(s.authService.RequireAdminRole)

		r.Get("/users", handlerService.HandleUsers)
		r.Get("/users/available-staff", handlerService.HandleAvailableStaff)
		r.Post("/users/{id}/password", handlerService.HandleAdminSetPassword)
		r.Post("/users/{id}/delete", handlerService.HandleUserDelete)

		areaRoutes(r, handlerService)
	})
}

// areaRoutes registers the pages shared by the admin and staff areas
func areaRoutes(r chi.Router, h *handlers.HandlerService) {
	r.Get("/", h.HandleDashboard)

	r.Get("/children", h.HandleChildrenList)
	r.Get("/children/new", h.HandleChildNew)
	r.Post("/children/new", h.HandleChildSave)
	r.Get("/children/{id}/edit", h.HandleChildEdit)
	r.Post("/children/{id}/edit", h.HandleChildSave)
	r.Post("/children/{id}/delete", h.HandleChildDelete)

	// staff, attendance, health-records, activities and billing
	r.Get("/{resource}", h.HandleRecordsList)
	r.Get("/{resource}/new", h.HandleRecordNew)
	r.Post("/{resource}/new", h.HandleRecordSave)
	r.Get("/{resource}/{id}", h.HandleRecordDetail)
	r.Get("/{resource}/{id}/edit", h.HandleRecordEdit)
	r.Post("/{resource}/{id}/edit", h.HandleRecordSave)
	r.Post("/{resource}/{id}/delete", h.HandleRecordDelete)
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(RequestTimeout))
	s.router.Use(SecurityHeaders(s.config.Environment))
	s.router.Use(RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(RequestSizeLimit(DefaultFormRequestSize))
	s.router.Use(CSRF(s.csrfKey, s.config.Environment))
}

// Start runs the UI server until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("UI server listening",
			slog.String("address", addr),
			slog.String("api", s.apiClient.BaseURL()),
			slog.String("environment", s.config.Environment),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down UI server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ServerShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
			return err
		}
	}

	return nil
}
