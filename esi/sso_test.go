package esi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/evebay/evebay-api/esi"
	errs "github.com/evebay/evebay-api/internal/errors"
)

func newTestSSOClient(t *testing.T, handler http.HandlerFunc) *esi.SSOClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return esi.NewSSOClient(
		"client-id",
		"client-secret",
		"http://localhost:8080/api/auth/callback",
		[]string{"scope-a", "scope-b"},
		esi.WithEndpoints(server.URL+"/authorize", server.URL+"/token", server.URL+"/verify"),
		esi.WithSSOHTTPClient(server.Client()),
	)
}

func TestAuthorizationURL(t *testing.T) {
	client := newTestSSOClient(t, func(w http.ResponseWriter, r *http.Request) {})

	authURL, err := url.Parse(client.AuthorizationURL("state-123"))
	require.NoError(t, err)

	query := authURL.Query()
	require.Equal(t, "code", query.Get("response_type"))
	require.Equal(t, "client-id", query.Get("client_id"))
	require.Equal(t, "http://localhost:8080/api/auth/callback", query.Get("redirect_uri"))
	require.Equal(t, "scope-a scope-b", query.Get("scope"))
	require.Equal(t, "state-123", query.Get("state"))
}

func TestExchange(t *testing.T) {
	var gotForm url.Values
	client := newTestSSOClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token": "access-token",
			"token_type": "Bearer",
			"expires_in": 1199,
			"refresh_token": "refresh-token"
		}`))
	})

	token, err := client.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)

	require.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	require.Equal(t, "auth-code", gotForm.Get("code"))
	require.Equal(t, "client-id", gotForm.Get("client_id"))
	require.Equal(t, "client-secret", gotForm.Get("client_secret"))
	require.Equal(t, "http://localhost:8080/api/auth/callback", gotForm.Get("redirect_uri"))

	require.Equal(t, "access-token", token.AccessToken)
	require.Equal(t, "refresh-token", token.RefreshToken)
	require.True(t, token.Expiry.After(time.Now()))
}

func TestExchangeRejected(t *testing.T) {
	client := newTestSSOClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid_grant"}`))
	})

	_, err := client.Exchange(context.Background(), "bad-code")
	require.ErrorIs(t, err, errs.ErrUpstreamAuth)
}

func TestExchangeMissingAccessToken(t *testing.T) {
	client := newTestSSOClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type": "Bearer", "expires_in": 1199}`))
	})

	_, err := client.Exchange(context.Background(), "auth-code")
	require.ErrorIs(t, err, errs.ErrUpstreamAuth)
}

func TestVerify(t *testing.T) {
	client := newTestSSOClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify", r.URL.Path)
		require.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"CharacterID": 90000001,
			"CharacterName": "Test Pilot",
			"ExpiresOn": "2024-05-01T12:19:59",
			"Scopes": "scope-a scope-b",
			"TokenType": "Character",
			"CharacterOwnerHash": "abc123"
		}`))
	})

	identity, err := client.Verify(context.Background(), "access-token")
	require.NoError(t, err)
	require.Equal(t, 90000001, identity.CharacterID)
	require.Equal(t, "Test Pilot", identity.CharacterName)
	require.Equal(t, "abc123", identity.CharacterOwnerHash)
}

func TestVerifyRejected(t *testing.T) {
	client := newTestSSOClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Verify(context.Background(), "stale-token")
	require.ErrorIs(t, err, errs.ErrUpstreamHTTP)
}
