package server

import (
	"net/http"
	"strings"
)

func (s *Server) initRoutes() error {
	displayHandler, err := s.DisplayHandler()
	if err != nil {
		return err
	}

	// AUTH
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteGenerateOTP, ChainMiddleware(s.GenerateOTPHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireSession())...))

	// VAULT (session required)
	s.RegisterRouteHandler("POST "+RouteSavePassword, ChainMiddleware(s.SavePasswordHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteGetPasswords, ChainMiddleware(s.GetPasswordsHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteVerifyPassword, ChainMiddleware(s.VerifyPasswordHandler(), s.APIMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteDisplay, ChainMiddleware(displayHandler, s.HTMLMiddleWare(s.RequireSession())...))

	// Generator is a pure utility
	s.RegisterRouteHandler("POST "+RouteGeneratePassword, ChainMiddleware(s.GeneratePasswordHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	s.registerPreflight()
	return nil
}

// registerPreflight adds an OPTIONS handler for each registered path so
// unknown paths still fall through to 404
func (s *Server) registerPreflight() {
	preflight := ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {}, s.APIMiddleware()...)
	seen := map[string]bool{}
	for _, route := range s.Routes() {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) != 2 || seen[parts[1]] {
			continue
		}
		seen[parts[1]] = true
		s.RegisterRouteHandler(http.MethodOptions+" "+parts[1], preflight)
	}
}
