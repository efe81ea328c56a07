package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	sessionCookieName     = "evebay_session_id"
	sessionCookieLifetime = 24 * time.Hour
)

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// LoginHandler redirects the browser to the EVE SSO consent screen.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL := s.auth.AuthorizationURL()
		log.Info().Msg("redirecting to EVE Online login")
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// CallbackHandler finishes the login. The state must match one this process
// issued; the code is then exchanged and the session id handed back to the
// browser in a cookie.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")

		if code == "" {
			log.Warn().Msg("callback without authorization code")
			writeError(w, http.StatusBadRequest, "no authorization code provided")
			return
		}
		if !s.auth.ConsumeState(state) {
			log.Warn().Msg("callback with unknown or expired state")
			http.Redirect(w, r, s.config.GetFrontendURL()+"/auth/callback?error=invalid_state", http.StatusFound)
			return
		}

		sessionID, err := s.auth.HandleCallback(r.Context(), code)
		if err != nil {
			log.Error().Err(err).Msg("authentication failed")
			http.Redirect(w, r, s.config.GetFrontendURL()+"/auth/callback?error=auth_failed", http.StatusFound)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
			Expires:  time.Now().Add(sessionCookieLifetime),
		})
		http.Redirect(w, r, s.config.GetFrontendURL()+"/auth/callback", http.StatusFound)
	}
}

// SessionHandler reports whether the caller's session is still valid.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, ok := s.auth.AccessToken(s.sessionID(r))
		writeJSON(w, http.StatusOK, map[string]bool{"isValid": ok})
	}
}

// LogoutHandler drops the session and expires the cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessionID := s.sessionID(r); sessionID != "" {
			s.auth.Logout(sessionID)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
			MaxAge:   -1,
		})
		w.WriteHeader(http.StatusOK)
	}
}

// CharacterHandler returns the character behind the caller's session.
func (s *Server) CharacterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := s.sessionID(r)
		if sessionID == "" {
			writeError(w, http.StatusUnauthorized, "no session found")
			return
		}

		identity, err := s.auth.Identity(r.Context(), sessionID)
		if err != nil {
			log.Warn().Err(err).Msg("character lookup failed")
			writeError(w, http.StatusUnauthorized, "invalid session")
			return
		}
		writeJSON(w, http.StatusOK, identity)
	}
}

func (s *Server) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
