// Package credstore owns the single persisted credential slot. Only the
// session store may touch it; every other component reasons about the
// in-memory session instead.
package credstore

import "errors"

// ErrNotFound means the slot is empty: the browser profile is anonymous.
var ErrNotFound = errors.New("credential not found")

// Store persists at most one signed credential per profile.
type Store interface {
	// Load returns the stored credential, or ErrNotFound.
	Load() (string, error)
	// Save replaces the slot with the given credential.
	Save(token string) error
	// Clear empties the slot; clearing an empty slot is a no-op.
	Clear() error
}
