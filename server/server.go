// Package server exposes the gateway over HTTP for the browser client.
package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evebay/evebay-api/auth"
	"github.com/evebay/evebay-api/contracts"
	"github.com/evebay/evebay-api/internal/config"
)

// Server wires the auth and contract services to their routes.
type Server struct {
	env       string
	router    *mux.Router
	config    config.Config
	auth      *auth.Service
	contracts *contracts.Service
}

func New(cfg config.Config, authService *auth.Service, contractService *contracts.Service) *Server {
	s := &Server{
		env:       cfg.GetEnv(),
		router:    mux.NewRouter(),
		config:    cfg,
		auth:      authService,
		contracts: contractService,
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
