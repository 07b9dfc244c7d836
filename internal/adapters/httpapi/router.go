package httpapi

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	AllowedOrigins []string
	// Static holds index.html and its assets, served from /
	Static fs.FS
}

// NewRouter builds the chi router for the API and the static UI
func NewRouter(h *Handlers, opts RouterOptions, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", RestHandler(logger, h.Health))
	r.Route("/api", func(r chi.Router) {
		r.Post("/processar", RestHandler(logger, h.Process))
		r.Get("/historico", RestHandler(logger, h.History))
	})

	if opts.Static != nil {
		r.Handle("/*", http.FileServer(http.FS(opts.Static)))
	}

	return r
}
