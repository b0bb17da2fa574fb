// Package memory provides an in-process ProfileStorage.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bobmcallan/finbot/internal/interfaces"
	"github.com/bobmcallan/finbot/internal/models"
)

// ProfileStorage keeps profiles in a map guarded by a RWMutex. Values are
// copied on the way in and out so callers never share state with the store.
type ProfileStorage struct {
	mu       sync.RWMutex
	profiles map[string]models.UserProfile
}

// NewProfileStorage creates an empty in-memory store.
func NewProfileStorage() *ProfileStorage {
	return &ProfileStorage{profiles: make(map[string]models.UserProfile)}
}

func (s *ProfileStorage) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("user '%s': %w", userID, models.ErrProfileNotFound)
	}
	return &p, nil
}

func (s *ProfileStorage) SaveProfile(_ context.Context, profile *models.UserProfile) error {
	if profile == nil || profile.UserID == "" {
		return fmt.Errorf("profile requires a user ID")
	}
	profile.UpdatedAt = time.Now()
	s.mu.Lock()
	s.profiles[profile.UserID] = *profile
	s.mu.Unlock()
	return nil
}

func (s *ProfileStorage) DeleteProfile(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.profiles, userID)
	s.mu.Unlock()
	return nil
}

// ListProfiles returns profiles ordered by user ID.
func (s *ProfileStorage) ListProfiles(_ context.Context) ([]*models.UserProfile, error) {
	s.mu.RLock()
	result := make([]*models.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		p := p
		result = append(result, &p)
	}
	s.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

var _ interfaces.ProfileStorage = (*ProfileStorage)(nil)
