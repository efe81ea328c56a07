package server

import "net/http"

// Route paths, kept compatible with the frontend the original API serves.
const (
	RouteHealth        = "/health"
	RouteLogin         = "/api/auth/login"
	RouteCallback      = "/api/auth/callback"
	RouteSession       = "/api/auth/session"
	RouteLogout        = "/api/auth/logout"
	RouteCharacter     = "/api/auth/character"
	RouteContracts     = "/api/contracts"
	RouteContract      = "/api/contracts/{id}"
	RouteContractItems = "/api/contracts/{id}/items"
)

func (s *Server) initRoutes() {
	s.router.Use(s.RecoverMiddleware, s.LoggingMiddleware, s.CorsMiddleware)

	s.router.HandleFunc(RouteHealth, s.HealthHandler()).Methods(http.MethodGet)

	s.router.HandleFunc(RouteLogin, s.LoginHandler()).Methods(http.MethodGet)
	s.router.HandleFunc(RouteCallback, s.CallbackHandler()).Methods(http.MethodGet)
	s.router.HandleFunc(RouteSession, s.SessionHandler()).Methods(http.MethodGet)
	s.router.HandleFunc(RouteLogout, s.LogoutHandler()).Methods(http.MethodPost)
	s.router.HandleFunc(RouteCharacter, s.CharacterHandler()).Methods(http.MethodGet)

	s.router.HandleFunc(RouteContracts, s.ContractsHandler()).Methods(http.MethodGet)
	s.router.HandleFunc(RouteContract, s.ContractDetailsHandler()).Methods(http.MethodGet)
	s.router.HandleFunc(RouteContractItems, s.ContractItemsHandler()).Methods(http.MethodGet)

	// CORS preflight; the middleware fills in the headers.
	s.router.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
