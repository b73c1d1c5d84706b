package http

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/domain/interfaces"
)

// UseCases bundles the use cases served over HTTP
type UseCases struct {
	mailing  interfaces.Mailing
	settings interfaces.SystemSettings
}

// NewUseCases creates a new UseCases
func NewUseCases(mailing interfaces.Mailing, settings interfaces.SystemSettings) *UseCases {
	return &UseCases{
		mailing:  mailing,
		settings: settings,
	}
}

type serverOptions struct {
	dispatchTimeout time.Duration
	frontend        fs.FS
}

// Option configures the server
type Option func(*serverOptions)

// WithDispatchTimeout bounds every mailing request. Zero disables the bound.
func WithDispatchTimeout(d time.Duration) Option {
	return func(o *serverOptions) {
		o.dispatchTimeout = d
	}
}

// WithFrontend serves a built frontend for every non API path
func WithFrontend(files fs.FS) Option {
	return func(o *serverOptions) {
		o.frontend = files
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, repo interfaces.Repository, uc *UseCases, opts ...Option) (*Server, error) {
	options := &serverOptions{}
	for _, opt := range opts {
		opt(options)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(CORS)

	router.Get("/health", handleHealth)

	mailing := &mailingHandler{mailing: uc.mailing}
	settings := &systemConfigHandler{settings: uc.settings, mailing: uc.mailing}

	router.Route("/api", func(r chi.Router) {
		mountEntities(r, repo)

		r.Route("/system-config", func(r chi.Router) {
			r.Get("/", settings.handleGet)
			r.Post("/", settings.handleSave)
			r.Put("/", settings.handleSave)
			r.With(DispatchTimeout(options.dispatchTimeout)).Post("/email/test", settings.handleTestEmail)
		})

		r.Route("/mailing", func(r chi.Router) {
			r.Post("/upload", mailing.handleUpload)
			r.Group(func(r chi.Router) {
				r.Use(DispatchTimeout(options.dispatchTimeout))
				r.Post("/email", mailing.handleEmail)
				r.Post("/whatsapp", mailing.handleWhatsApp)
			})
		})
	})

	if options.frontend != nil {
		spa, err := NewSPAHandler(options.frontend)
		if err != nil {
			return nil, err
		}
		ctxlog.From(ctx).Info("Serving frontend build")
		router.Handle("/*", spa)
	}

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "hermescad",
	})
}
