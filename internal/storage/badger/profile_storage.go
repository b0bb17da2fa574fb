package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bobmcallan/finbot/internal/common"
	"github.com/bobmcallan/finbot/internal/interfaces"
	"github.com/bobmcallan/finbot/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

type profileStorage struct {
	store  *Store
	logger *common.Logger
}

// NewProfileStorage creates a ProfileStorage backed by BadgerHold.
func NewProfileStorage(store *Store, logger *common.Logger) *profileStorage {
	return &profileStorage{store: store, logger: logger}
}

func (s *profileStorage) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.store.db.Get(userID, &profile)
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("user '%s': %w", userID, models.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("failed to get profile '%s': %w", userID, err)
	}
	return &profile, nil
}

func (s *profileStorage) SaveProfile(_ context.Context, profile *models.UserProfile) error {
	profile.UpdatedAt = time.Now()
	if err := s.store.db.Upsert(profile.UserID, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	s.logger.Debug().
		Str("user_id", profile.UserID).
		Str("mode", string(profile.Mode)).
		Int("struggle_count", profile.StruggleCount).
		Msg("Profile saved")
	return nil
}

func (s *profileStorage) DeleteProfile(_ context.Context, userID string) error {
	err := s.store.db.Delete(userID, models.UserProfile{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete profile '%s': %w", userID, err)
	}
	s.logger.Debug().Str("user_id", userID).Msg("Profile deleted")
	return nil
}

func (s *profileStorage) ListProfiles(_ context.Context) ([]*models.UserProfile, error) {
	var profiles []models.UserProfile
	if err := s.store.db.Find(&profiles, nil); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	result := make([]*models.UserProfile, len(profiles))
	for i := range profiles {
		result[i] = &profiles[i]
	}
	return result, nil
}

var _ interfaces.ProfileStorage = (*profileStorage)(nil)
