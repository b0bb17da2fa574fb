// Package personalization tracks the adaptive explanation mode of each user
package personalization

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bobmcallan/finbot/internal/common"
	"github.com/bobmcallan/finbot/internal/interfaces"
	"github.com/bobmcallan/finbot/internal/models"
)

// Compile-time interface check
var _ interfaces.PersonalizationService = (*Service)(nil)

// strugglePhrases trigger a struggle event when found in the latest question.
var strugglePhrases = []string{
	"explain simply",
	"i don't understand",
}

// Service implements PersonalizationService
type Service struct {
	profiles interfaces.ProfileStorage
	logger   *common.Logger

	mu    sync.Mutex
	locks map[string]*userLock
}

// userLock serializes updates for one user. refs counts holders and waiters;
// the entry is dropped from the map when it reaches zero.
type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewService creates a new personalization service
func NewService(profiles interfaces.ProfileStorage, logger *common.Logger) *Service {
	return &Service{
		profiles: profiles,
		logger:   logger,
		locks:    make(map[string]*userLock),
	}
}

// lockUser acquires the lock for userID and returns its release func.
func (s *Service) lockUser(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

// GetMode returns the stored mode, or the default for users without a profile
func (s *Service) GetMode(ctx context.Context, userID string) (models.Mode, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			return models.DefaultMode, nil
		}
		return models.DefaultMode, fmt.Errorf("failed to get mode: %w", err)
	}
	return profile.Mode, nil
}

// RecordFeedback applies signal to the user's profile and returns the resulting mode
func (s *Service) RecordFeedback(ctx context.Context, userID string, signal models.Signal) (models.Mode, error) {
	profile, err := s.ApplyFeedback(ctx, userID, signal)
	if profile == nil {
		return models.DefaultMode, err
	}
	return profile.Mode, err
}

// ApplyFeedback applies signal and returns a copy of the profile as it stood
// under the user lock. Unknown signals return the current profile, or an
// unsaved default one, without writing.
func (s *Service) ApplyFeedback(ctx context.Context, userID string, signal models.Signal) (*models.UserProfile, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, models.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		profile = models.NewUserProfile(userID)
	}

	if !profile.Apply(signal) {
		s.logger.Debug().Str("user_id", userID).Str("signal", string(signal)).Msg("Ignoring unknown feedback signal")
		return profile, nil
	}

	if err := s.profiles.SaveProfile(ctx, profile); err != nil {
		return profile, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("signal", string(signal)).
		Str("mode", string(profile.Mode)).
		Int("struggle_count", profile.StruggleCount).
		Msg("Feedback recorded")

	snapshot := *profile
	return &snapshot, nil
}

// RecordFeedbackString parses a raw feedback value (including the legacy
// switch_beginner/too_hard and switch_normal/too_easy spellings) and records it.
func (s *Service) RecordFeedbackString(ctx context.Context, userID, raw string) (models.Mode, error) {
	return s.RecordFeedback(ctx, userID, models.ParseSignal(raw))
}

// CheckStruggle looks for struggle phrases in the most recent question only.
// On a hit it records a struggle event and returns the new mode with true.
func (s *Service) CheckStruggle(ctx context.Context, userID string, history []string) (models.Mode, bool, error) {
	if len(history) == 0 {
		return "", false, nil
	}

	last := strings.ToLower(history[len(history)-1])
	for _, phrase := range strugglePhrases {
		if strings.Contains(last, phrase) {
			mode, err := s.RecordFeedback(ctx, userID, models.SignalStruggle)
			return mode, true, err
		}
	}
	return "", false, nil
}

// GetProfile returns the stored profile or an error wrapping models.ErrProfileNotFound
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

// ResetProfile deletes the stored profile; the user returns to the default mode
func (s *Service) ResetProfile(ctx context.Context, userID string) error {
	unlock := s.lockUser(userID)
	defer unlock()

	if err := s.profiles.DeleteProfile(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset profile: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("Profile reset")
	return nil
}
