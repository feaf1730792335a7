// Package app assembles the service: storage backend, resource handlers,
// middleware, documentation and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aanand-mishra/zoo-api/internal/config"
	"github.com/aanand-mishra/zoo-api/internal/docs"
	"github.com/aanand-mishra/zoo-api/internal/http/handlers/resource"
	"github.com/aanand-mishra/zoo-api/internal/http/middleware"
	"github.com/aanand-mishra/zoo-api/internal/http/router"
	"github.com/aanand-mishra/zoo-api/internal/utils/response"
)

// App is a fully wired service ready to serve.
type App struct {
	Server *http.Server
	Stores *Stores
}

// New opens the configured storage and builds the HTTP server.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	ids, err := NewIDs(cfg.IDScheme)
	if err != nil {
		return nil, fmt.Errorf("app.New: %w", err)
	}

	stores, err := OpenStores(ctx, cfg.Storage, ids, log)
	if err != nil {
		return nil, fmt.Errorf("app.New: open storage: %w", err)
	}

	handler, err := NewHandler(Routes(stores, log), cfg.CORS, log)
	if err != nil {
		_ = stores.Close(ctx)
		return nil, fmt.Errorf("app.New: %w", err)
	}

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPServer.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.HTTPServer.ReadTimeout,
			WriteTimeout: cfg.HTTPServer.WriteTimeout,
			IdleTimeout:  cfg.HTTPServer.IdleTimeout,
		},
		Stores: stores,
	}, nil
}

// Shutdown stops accepting requests, waits for in-flight ones and then
// releases the storage backend.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("app.Shutdown: server: %w", err)
	}
	if err := a.Stores.Close(ctx); err != nil {
		return fmt.Errorf("app.Shutdown: storage: %w", err)
	}
	return nil
}

// Routes returns the API table for the four resources.
func Routes(stores *Stores, log *slog.Logger) []router.Route {
	return router.Routes(
		resource.New(resource.Users, stores.Users, log),
		resource.New(resource.Zookeepers, stores.Zookeepers, log),
		resource.New(resource.Habitats, stores.Habitats, log),
		resource.New(resource.Animals, stores.Animals, log),
	)
}

// NewHandler wraps routes with middleware, the health check and the docs.
func NewHandler(routes []router.Route, cors config.CORS, log *slog.Logger) (http.Handler, error) {
	apiDocs, err := docs.NewHandlers(docs.Build(routes, docs.DefaultInfo))
	if err != nil {
		return nil, fmt.Errorf("render api docs: %w", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cors.AllowedOrigins}))
	r.Use(chimw.StripSlashes)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_ = response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	apiDocs.Mount(r)
	router.Mount(r, routes)

	return r, nil
}
