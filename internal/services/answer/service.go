// Package answer runs the question pipeline: adaptive mode, topic matching,
// prompt construction and generation.
package answer

import (
	"context"
	"strings"

	"github.com/bobmcallan/finbot/internal/common"
	"github.com/bobmcallan/finbot/internal/interfaces"
	"github.com/bobmcallan/finbot/internal/models"
	"github.com/bobmcallan/finbot/internal/services/prompt"
	"github.com/bobmcallan/finbot/internal/services/topic"
)

// Compile-time interface check
var _ interfaces.AnswerService = (*Service)(nil)

// Service implements AnswerService. It holds no state of its own.
type Service struct {
	personalization interfaces.PersonalizationService
	catalogs        *models.CatalogSet
	generator       interfaces.TextGenerator
	logger          *common.Logger
}

// NewService creates a new answer service
func NewService(
	personalization interfaces.PersonalizationService,
	catalogs *models.CatalogSet,
	generator interfaces.TextGenerator,
	logger *common.Logger,
) *Service {
	return &Service{
		personalization: personalization,
		catalogs:        catalogs,
		generator:       generator,
		logger:          logger,
	}
}

// Answer returns the response for question. Unmatched questions are refused
// without calling the generator.
func (s *Service) Answer(ctx context.Context, userID, question, language string) *models.Answer {
	language = strings.ToLower(strings.TrimSpace(language))

	if _, _, err := s.personalization.CheckStruggle(ctx, userID, []string{question}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to record struggle signal")
	}

	mode, err := s.personalization.GetMode(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to read mode, using default")
		mode = models.DefaultMode
	}

	catalog := s.catalogs.For(language)

	match := topic.FindTopic(question, catalog)
	if match == nil {
		s.logger.Debug().
			Str("user_id", userID).
			Str("language", language).
			Msg("No topic matched, refusing")
		return &models.Answer{
			Response: prompt.Refusal(language),
			ModeUsed: mode,
			Language: language,
		}
	}

	p := prompt.Build(question, match, mode, language)
	response := s.generator.Generate(ctx, p)

	s.logger.Info().
		Str("user_id", userID).
		Str("topic", match.Topic).
		Str("mode", string(mode)).
		Str("language", language).
		Msg("Question answered")

	title := match.Topic
	return &models.Answer{
		Response:   response,
		ModeUsed:   mode,
		TopicFound: &title,
		Language:   language,
	}
}

// Topics returns the topic titles of the catalog used for language
func (s *Service) Topics(language string) []string {
	return s.catalogs.For(strings.ToLower(strings.TrimSpace(language))).Titles()
}
