package interfaces

import (
	"context"

	"github.com/bobmcallan/finbot/internal/models"
)

// PersonalizationService tracks the adaptive explanation mode per user
type PersonalizationService interface {
	// GetMode returns the stored mode, or the default mode for unknown users.
	// It never creates a profile.
	GetMode(ctx context.Context, userID string) (models.Mode, error)

	// RecordFeedback applies a feedback signal and returns the resulting mode.
	// Unknown signals leave state untouched.
	RecordFeedback(ctx context.Context, userID string, signal models.Signal) (models.Mode, error)

	// ApplyFeedback is RecordFeedback returning the profile as it stood after
	// the update, read under the same per-user lock.
	ApplyFeedback(ctx context.Context, userID string, signal models.Signal) (*models.UserProfile, error)

	// CheckStruggle inspects the latest question for struggle phrases and records
	// a struggle event on a hit. The bool reports whether a hit occurred.
	CheckStruggle(ctx context.Context, userID string, history []string) (models.Mode, bool, error)

	// GetProfile returns the stored profile
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)

	// ResetProfile removes the stored profile
	ResetProfile(ctx context.Context, userID string) error
}

// AnswerService runs the question pipeline
type AnswerService interface {
	// Answer always returns a result; failures surface in Response.
	Answer(ctx context.Context, userID, question, language string) *models.Answer

	// Topics returns the topic titles available for a language
	Topics(language string) []string
}
