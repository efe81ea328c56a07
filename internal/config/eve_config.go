package config

import (
	"strconv"
	"strings"
)

// EveConfig holds the EVE Online SSO credentials and the corporation whose
// contracts this deployment serves.
type EveConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetCallbackURL() string
	GetScopes() []string
	GetCorporationID() int
}

type Eve struct{}

var _ EveConfig = Eve{}

func (Eve) GetClientID() string {
	return GetEnv("EVE_CLIENT_ID", "")
}

func (Eve) GetClientSecret() string {
	return GetEnv("EVE_CLIENT_SECRET", "")
}

func (Eve) GetCallbackURL() string {
	return GetEnv("EVE_CALLBACK_URL", "http://localhost:8080/api/auth/callback")
}

// GetScopes returns the whitespace-separated scope list requested on login.
func (Eve) GetScopes() []string {
	return strings.Fields(GetEnv("EVE_SCOPES", "esi-contracts.read_corporation_contracts.v1"))
}

func (Eve) GetCorporationID() int {
	id, err := strconv.Atoi(GetEnv("EVE_CORPORATION_ID", "98665606"))
	if err != nil {
		return 0
	}
	return id
}
