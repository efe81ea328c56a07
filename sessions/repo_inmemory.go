package sessions

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// 256 bits of entropy; session ids double as bearer credentials.
const sessionIDBytes = 32

// InMemoryStore is a process-local Store guarded by a mutex.
type InMemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	nowTime func() time.Time
}

var _ Store = (*InMemoryStore)(nil)

// InMemoryStoreOption modifies an InMemoryStore.
type InMemoryStoreOption func(*InMemoryStore)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.nowTime = nowFunc
	}
}

func NewInMemoryStore(options ...InMemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{
		records: make(map[string]Record),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Create(accessToken, refreshToken string, ttl time.Duration) (string, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sessionID] = Record{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    s.nowTime().Add(ttl),
	}
	return sessionID, nil
}

// Resolve returns the access token when the session exists and has not
// expired. Expired records are removed on the way out.
func (s *InMemoryStore) Resolve(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[sessionID]
	if !ok {
		return "", false
	}
	if !s.nowTime().Before(record.ExpiresAt) {
		delete(s.records, sessionID)
		return "", false
	}
	return record.AccessToken, true
}

func (s *InMemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionID)
}

func generateSessionID() (string, error) {
	bytes := make([]byte, sessionIDBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}
