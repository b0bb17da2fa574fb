// Package interfaces defines service contracts for finbot
package interfaces

import (
	"context"

	"github.com/bobmcallan/finbot/internal/models"
)

// StorageManager coordinates the storage backends
type StorageManager interface {
	// ProfileStorage returns the per-user adaptive state store
	ProfileStorage() ProfileStorage

	// Backend returns the configured backend name ("memory" or "badger")
	Backend() string

	// Lifecycle
	Close() error
}

// ProfileStorage persists user profiles keyed by user ID.
// Implementations must be safe for concurrent use.
type ProfileStorage interface {
	// GetProfile returns models.ErrProfileNotFound (wrapped) when absent
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
	DeleteProfile(ctx context.Context, userID string) error
	ListProfiles(ctx context.Context) ([]*models.UserProfile, error)
}

// ContentStore loads topic catalogs.
type ContentStore interface {
	// Load returns an empty catalog and a nil error for a missing source, and an
	// empty catalog with a non-nil error for a malformed one.
	Load(path string) (models.Catalog, error)
}
