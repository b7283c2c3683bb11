// AngelaMos | 2026
// store.go

package store

import (
	"context"
	"errors"
)

// Keys persisted by the durable store. These names are part of the on-disk
// contract and must stay stable across releases.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyRememberMe   = "rememberMe"
)

// Transient keys live only for the duration of a pending flow and are cleared
// as soon as the consuming step completes.
const (
	KeyPendingRegistrationEmail = "pendingRegistrationEmail"
	KeyPendingRegistrationUser  = "pendingRegistrationUser"
	KeyPendingResetEmail        = "pendingResetEmail"
)

// ErrNotFound is returned by Get for absent keys.
var ErrNotFound = errors.New("store: key not found")

// Store is a small durable key/value surface. Implementations must be safe
// for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var authKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser, KeyRememberMe}

// ClearAuth removes every persisted credential and the cached user record.
// Missing keys are not an error.
func ClearAuth(ctx context.Context, s Store) error {
	var firstErr error
	for _, key := range authKeys {
		if err := s.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
