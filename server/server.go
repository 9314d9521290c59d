// Package server assembles the grammar registry's HTTP surface: it wires
// together the dao store, the llsvc business logic, llapi's endpoints, and
// llmiddle's auth middleware into a single chi.Router and runs it.
//
// Grounded on server/server.go and server/endpoints.go, replacing the
// bare http.ServeMux router the teacher's TunaQuestServer used (and the
// later, unfinished migration toward chi visible in server/endpoints.go and
// server/middle/middle.go) with a single, complete chi.Router wiring.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/llapi"
	"github.com/dekarrin/ll1gen/server/llmiddle"
	"github.com/dekarrin/ll1gen/server/llsvc"
)

// Server holds the running state of a grammar registry server: its store,
// its HTTP router, and the config it was built from.
type Server struct {
	db     dao.Store
	router chi.Router
	cfg    Config
}

// New builds a Server from cfg, connecting to its configured DB and wiring
// every llapi endpoint into a chi router with the appropriate auth
// middleware.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	api := llapi.API{
		Backend:     llsvc.Service{DB: store, TokenSecret: cfg.TokenSecret},
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	required := llmiddle.RequireAuth(store.Users(), cfg.TokenSecret, cfg.UnauthDelay())
	optional := llmiddle.OptionalAuth(store.Users(), cfg.TokenSecret, cfg.UnauthDelay())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(llmiddle.DontPanic())

	r.Route(llapi.PathPrefix, func(r chi.Router) {
		r.With(optional).Get("/info", api.HTTPGetInfo())

		r.With(optional).Post("/login", api.HTTPCreateLogin())
		r.With(required).Post("/tokens", api.HTTPCreateToken())
		r.With(required).Delete("/login/{id}", api.HTTPDeleteLogin())

		r.With(required).Get("/users", api.HTTPGetAllUsers())
		r.With(required).Post("/users", api.HTTPCreateUser())
		r.With(required).Get("/users/{id}", api.HTTPGetUser())
		r.With(required).Put("/users/{id}", api.HTTPUpdateUser())
		r.With(required).Delete("/users/{id}", api.HTTPDeleteUser())

		r.With(required).Get("/grammars", api.HTTPGetAllGrammars())
		r.With(required).Post("/grammars", api.HTTPCreateGrammar())
		r.With(required).Get("/grammars/{id}", api.HTTPGetGrammar())
		r.With(required).Delete("/grammars/{id}", api.HTTPDeleteGrammar())
		r.With(required).Post("/grammars/{id}/emit", api.HTTPEmitGrammar())
	})

	return &Server{db: store, router: r, cfg: cfg}, nil
}

// ServeForever listens on addr (empty host means all interfaces) and port,
// blocking until the server is shut down or an unrecoverable error occurs.
func (s *Server) ServeForever(addr string, port int) error {
	listenOn := fmt.Sprintf("%s:%d", addr, port)
	httpServer := &http.Server{
		Addr:              listenOn,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}

// Close releases the server's database connection.
func (s *Server) Close() error {
	return s.db.Close()
}

// CreateUser registers a new account directly against the server's backing
// store, bypassing the HTTP layer. Used to seed an initial admin account on
// startup.
func (s *Server) CreateUser(ctx context.Context, username, password string, role dao.Role) (dao.User, error) {
	svc := llsvc.Service{DB: s.db, TokenSecret: s.cfg.TokenSecret}
	return svc.CreateUser(ctx, username, password, role)
}
