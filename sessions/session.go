// Package sessions stores exchanged tokens behind opaque session ids so the
// browser never sees the real access token.
package sessions

import "time"

// Record holds the tokens exchanged for one login.
type Record struct {
	AccessToken  string
	RefreshToken string // kept for future renewal, unused today
	ExpiresAt    time.Time
}

// Store maps opaque session ids to token records. A session is valid only
// while the access token has not expired; expired records are evicted on
// the next Resolve rather than by a background sweep.
type Store interface {
	// Create stores a record and returns a new opaque session id.
	Create(accessToken, refreshToken string, ttl time.Duration) (string, error)

	// Resolve returns the access token of a live session.
	Resolve(sessionID string) (string, bool)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(sessionID string)
}
