package auth_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/evebay/evebay-api/auth"
	"github.com/evebay/evebay-api/esi"
	errs "github.com/evebay/evebay-api/internal/errors"
	"github.com/evebay/evebay-api/sessions"
)

type fakeSSO struct {
	exchangeCalls int
	verifyCalls   int
	exchangeErr   error
	verifyErr     error
	token         *esi.Token
	identity      *esi.CharacterIdentity
	lastState     string
}

func (f *fakeSSO) AuthorizationURL(state string) string {
	f.lastState = state
	return "https://login.example.com/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeSSO) Exchange(ctx context.Context, code string) (*esi.Token, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.token, nil
}

func (f *fakeSSO) Verify(ctx context.Context, accessToken string) (*esi.CharacterIdentity, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.identity, nil
}

func newService(t *testing.T, sso *fakeSSO) *auth.Service {
	t.Helper()

	service, err := auth.NewService(sso, sessions.NewInMemoryStore())
	require.NoError(t, err)
	return service
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := auth.NewService(nil, sessions.NewInMemoryStore())
	require.Error(t, err)

	_, err = auth.NewService(&fakeSSO{}, nil)
	require.Error(t, err)
}

func TestHandleCallbackCreatesResolvableSession(t *testing.T) {
	sso := &fakeSSO{token: &esi.Token{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		Expiry:       time.Now().Add(20 * time.Minute),
	}}
	service := newService(t, sso)

	sessionID, err := service.HandleCallback(context.Background(), "auth-code")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	token, ok := service.AccessToken(sessionID)
	require.True(t, ok)
	require.Equal(t, "access-token", token)
}

func TestHandleCallbackExchangeFailure(t *testing.T) {
	sso := &fakeSSO{exchangeErr: errs.ErrUpstreamAuth}
	service := newService(t, sso)

	_, err := service.HandleCallback(context.Background(), "bad-code")
	require.ErrorIs(t, err, errs.ErrUpstreamAuth)
}

func TestAccessTokenUnknownSession(t *testing.T) {
	service := newService(t, &fakeSSO{})

	_, ok := service.AccessToken("no-such-session")
	require.False(t, ok)

	_, ok = service.AccessToken("")
	require.False(t, ok)
}

func TestExpiredSessionReturnsNoToken(t *testing.T) {
	sso := &fakeSSO{token: &esi.Token{AccessToken: "access-token", Expiry: time.Now()}}
	service := newService(t, sso)

	sessionID, err := service.HandleCallback(context.Background(), "auth-code")
	require.NoError(t, err)

	_, ok := service.AccessToken(sessionID)
	require.False(t, ok)
}

func TestAuthorizationURLCarriesConsumableState(t *testing.T) {
	sso := &fakeSSO{}
	service := newService(t, sso)

	authURL, err := url.Parse(service.AuthorizationURL())
	require.NoError(t, err)

	state := authURL.Query().Get("state")
	require.NotEmpty(t, state)
	require.Equal(t, sso.lastState, state)

	require.True(t, service.ConsumeState(state))
	require.False(t, service.ConsumeState(state), "state must validate at most once")
}

func TestConsumeStateUnknown(t *testing.T) {
	service := newService(t, &fakeSSO{})
	require.False(t, service.ConsumeState("never-issued"))
}

func TestIdentity(t *testing.T) {
	sso := &fakeSSO{
		token:    &esi.Token{AccessToken: "access-token", Expiry: time.Now().Add(time.Hour)},
		identity: &esi.CharacterIdentity{CharacterID: 90000001, CharacterName: "Test Pilot"},
	}
	service := newService(t, sso)

	sessionID, err := service.HandleCallback(context.Background(), "auth-code")
	require.NoError(t, err)

	identity, err := service.Identity(context.Background(), sessionID)
	require.NoError(t, err)
	require.Equal(t, "Test Pilot", identity.CharacterName)
}

func TestIdentityWithoutSession(t *testing.T) {
	sso := &fakeSSO{}
	service := newService(t, sso)

	_, err := service.Identity(context.Background(), "no-such-session")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.Zero(t, sso.verifyCalls, "no verify call without a live session")
}

func TestIdentityVerifyFailure(t *testing.T) {
	sso := &fakeSSO{
		token:     &esi.Token{AccessToken: "access-token", Expiry: time.Now().Add(time.Hour)},
		verifyErr: errors.New("verify blew up"),
	}
	service := newService(t, sso)

	sessionID, err := service.HandleCallback(context.Background(), "auth-code")
	require.NoError(t, err)

	_, err = service.Identity(context.Background(), sessionID)
	require.Error(t, err)
}

func TestLogout(t *testing.T) {
	sso := &fakeSSO{token: &esi.Token{AccessToken: "access-token", Expiry: time.Now().Add(time.Hour)}}
	service := newService(t, sso)

	sessionID, err := service.HandleCallback(context.Background(), "auth-code")
	require.NoError(t, err)

	service.Logout(sessionID)
	_, ok := service.AccessToken(sessionID)
	require.False(t, ok)
}
