package esi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	errs "github.com/evebay/evebay-api/internal/errors"
)

const (
	defaultAuthorizeURL = "https://login.eveonline.com/v2/oauth/authorize"
	defaultTokenURL     = "https://login.eveonline.com/v2/oauth/token"
	defaultVerifyURL    = "https://login.eveonline.com/oauth/verify"

	// The token endpoint always sends expires_in; this is the documented
	// access-token lifetime, used only if the field is ever absent.
	fallbackTokenLifetime = 20 * time.Minute
)

// Token is the outcome of an authorization-code exchange. The refresh token
// is stored with the session but not used for renewal.
type Token struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// SSOClient drives the authorization-code flow against the EVE SSO and the
// legacy verify endpoint.
type SSOClient struct {
	oauth      *oauth2.Config
	httpClient *http.Client
	verifyURL  string
}

// SSOOption modifies an SSOClient.
type SSOOption func(*SSOClient)

// WithEndpoints overrides the SSO endpoints (primarily for testing).
func WithEndpoints(authorizeURL, tokenURL, verifyURL string) SSOOption {
	return func(s *SSOClient) {
		s.oauth.Endpoint.AuthURL = authorizeURL
		s.oauth.Endpoint.TokenURL = tokenURL
		s.verifyURL = verifyURL
	}
}

// WithSSOHTTPClient overrides the HTTP client (primarily for testing).
func WithSSOHTTPClient(hc *http.Client) SSOOption {
	return func(s *SSOClient) { s.httpClient = hc }
}

func NewSSOClient(clientID, clientSecret, callbackURL string, scopes []string, options ...SSOOption) *SSOClient {
	s := &SSOClient{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  defaultAuthorizeURL,
				TokenURL: defaultTokenURL,
				// Credentials go in the form body, not a basic-auth header.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		verifyURL:  defaultVerifyURL,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// AuthorizationURL builds the authorize endpoint URL for the given state.
func (s *SSOClient) AuthorizationURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// Exchange swaps an authorization code for tokens. Any failure, including a
// token response without an access token, wraps ErrUpstreamAuth.
func (s *SSOClient) Exchange(ctx context.Context, code string) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrUpstreamAuth, "exchanging authorization code: %v", err)
	}
	if tok.AccessToken == "" {
		return nil, errs.Wrapf(errs.ErrUpstreamAuth, "token response did not contain an access token")
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(fallbackTokenLifetime)
	}
	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       expiry,
	}, nil
}

// Verify calls the token-verification endpoint and returns the character
// identity behind the access token.
func (s *SSOClient) Verify(ctx context.Context, accessToken string) (*CharacterIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.verifyURL, nil)
	if err != nil {
		return nil, errs.Wrapf(err, "building verify request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrUpstreamHTTP, "GET %s: %v", s.verifyURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("token verification failed")
		return nil, &errs.StatusError{Operation: "verify token", Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrUpstreamHTTP, "reading verify response: %v", err)
	}

	var identity CharacterIdentity
	if err := json.Unmarshal(body, &identity); err != nil {
		return nil, errs.Wrapf(errs.ErrDeserialization, "verify response: %v", err)
	}
	return &identity, nil
}
