// internal/services/capture_token_store.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "kyc-verification-backend/pkg/errors"
)

// CaptureTokenTTL bounds how long a browser widget can keep a capture flow
// open after session creation.
const CaptureTokenTTL = 30 * time.Minute

// CaptureTokenStore maps short-lived capture tokens to session IDs. The
// browser widget authenticates every step with its token instead of the
// tenant's API key. Safe for concurrent use.
type CaptureTokenStore interface {
	// Store binds a token to a session ID for CaptureTokenTTL.
	Store(ctx context.Context, token, sessionID string) error

	// Resolve returns the session ID for a token, or an invalid-token error
	// when the token is unknown or expired.
	Resolve(ctx context.Context, token string) (string, error)

	// Remove deletes a token; tokens are removed when a session reaches a
	// terminal state.
	Remove(ctx context.Context, token string) error
}

type redisCaptureTokenStore struct {
	client    *redis.Client
	namespace string
}

func NewRedisCaptureTokenStore(client *redis.Client, namespace string) CaptureTokenStore {
	return &redisCaptureTokenStore{client: client, namespace: namespace}
}

func (s *redisCaptureTokenStore) key(token string) string {
	return fmt.Sprintf("%s:capture:%s", s.namespace, token)
}

func (s *redisCaptureTokenStore) Store(ctx context.Context, token, sessionID string) error {
	return s.client.Set(ctx, s.key(token), sessionID, CaptureTokenTTL).Err()
}

func (s *redisCaptureTokenStore) Resolve(ctx context.Context, token string) (string, error) {
	sessionID, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.NewInvalidCaptureTokenError()
		}
		return "", err
	}
	return sessionID, nil
}

func (s *redisCaptureTokenStore) Remove(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// InMemoryCaptureTokenStore backs tests and local development without Redis.
type InMemoryCaptureTokenStore struct {
	mutex  sync.Mutex
	tokens map[string]string
}

func NewInMemoryCaptureTokenStore() *InMemoryCaptureTokenStore {
	return &InMemoryCaptureTokenStore{
		tokens: make(map[string]string),
	}
}

func (s *InMemoryCaptureTokenStore) Store(ctx context.Context, token, sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tokens[token] = sessionID
	return nil
}

func (s *InMemoryCaptureTokenStore) Resolve(ctx context.Context, token string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if sessionID, ok := s.tokens[token]; ok {
		return sessionID, nil
	}
	return "", apperrors.NewInvalidCaptureTokenError()
}

func (s *InMemoryCaptureTokenStore) Remove(ctx context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.tokens, token)
	return nil
}
