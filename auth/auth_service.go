// Package auth drives the OAuth2 authorization-code flow against the EVE
// SSO and owns the sessions that come out of it.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/evebay/evebay-api/esi"
	errs "github.com/evebay/evebay-api/internal/errors"
	"github.com/evebay/evebay-api/sessions"
)

// SSO is the slice of the identity provider the service needs.
type SSO interface {
	AuthorizationURL(state string) string
	Exchange(ctx context.Context, code string) (*esi.Token, error)
	Verify(ctx context.Context, accessToken string) (*esi.CharacterIdentity, error)
}

// Service orchestrates login callbacks and session-scoped identity lookups.
type Service struct {
	sso      SSO
	sessions sessions.Store
	states   *StateStore
	nowTime  func() time.Time
}

// ServiceOption modifies a Service.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(sso SSO, store sessions.Store, options ...ServiceOption) (*Service, error) {
	if sso == nil {
		return nil, errors.New("[NewService] sso client is required")
	}
	if store == nil {
		return nil, errors.New("[NewService] session store is required")
	}

	s := &Service{
		sso:      sso,
		sessions: store,
		states:   NewStateStore(),
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// AuthorizationURL returns the provider's authorize URL carrying a freshly
// issued state.
func (s *Service) AuthorizationURL() string {
	return s.sso.AuthorizationURL(s.states.Issue())
}

// ConsumeState reports whether the callback state belongs to a login this
// process started. Each state validates at most once.
func (s *Service) ConsumeState(state string) bool {
	return s.states.Consume(state)
}

// HandleCallback exchanges the authorization code and stores the tokens in
// a new session. The returned id is the only credential handed to the
// browser.
func (s *Service) HandleCallback(ctx context.Context, code string) (string, error) {
	token, err := s.sso.Exchange(ctx, code)
	if err != nil {
		log.Error().Err(err).Msg("authorization code exchange failed")
		return "", err
	}

	sessionID, err := s.sessions.Create(token.AccessToken, token.RefreshToken, token.Expiry.Sub(s.nowTime()))
	if err != nil {
		return "", errs.Wrapf(err, "creating session")
	}
	log.Info().Time("expires_at", token.Expiry).Msg("stored exchanged token in new session")
	return sessionID, nil
}

// AccessToken resolves a session to its live access token.
func (s *Service) AccessToken(sessionID string) (string, bool) {
	if sessionID == "" {
		return "", false
	}
	return s.sessions.Resolve(sessionID)
}

// Identity verifies the session's token upstream and returns the character
// behind it.
func (s *Service) Identity(ctx context.Context, sessionID string) (*esi.CharacterIdentity, error) {
	token, ok := s.AccessToken(sessionID)
	if !ok {
		return nil, errs.ErrUnauthorized
	}

	identity, err := s.sso.Verify(ctx, token)
	if err != nil {
		return nil, errs.Wrapf(err, "verifying access token")
	}
	return identity, nil
}

// Logout discards the session.
func (s *Service) Logout(sessionID string) {
	s.sessions.Delete(sessionID)
}
