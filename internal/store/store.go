// Package store persists the dashboard session: the access and refresh tokens
// and the cached identity. It performs no validation of what it stores.
package store

import (
	"encoding/json"
	"fmt"

	"oncology-dashboard/internal/models"
)

// Keys under which the session is persisted.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Saved is what a store hands back on Load.
type Saved struct {
	Pair     models.TokenPair
	Identity models.Identity
}

// Store is durable key-value storage for a single session.
type Store interface {
	Save(pair models.TokenPair, identity models.Identity) error
	Load() (Saved, bool)
	Clear() error
}

func encode(pair models.TokenPair, identity models.Identity) (map[string]string, error) {
	user, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to encode identity: %w", err)
	}
	return map[string]string{
		KeyAccessToken:  pair.Access,
		KeyRefreshToken: pair.Refresh,
		KeyUser:         string(user),
	}, nil
}

// decode rebuilds a saved session from raw entries. A session without an
// access token does not exist; an unreadable user entry is left zero and the
// token's claims stand alone.
func decode(entries map[string]string) (Saved, bool) {
	access := entries[KeyAccessToken]
	if access == "" {
		return Saved{}, false
	}
	saved := Saved{Pair: models.TokenPair{Access: access, Refresh: entries[KeyRefreshToken]}}
	if raw := entries[KeyUser]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &saved.Identity)
	}
	return saved, true
}
