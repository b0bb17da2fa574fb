package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/finbot/internal/common"
	"github.com/bobmcallan/finbot/internal/models"
)

// defaultLanguage returns the configured catalog language.
func (s *Server) defaultLanguage() string {
	if s.app.Catalogs != nil {
		return s.app.Catalogs.DefaultLanguage()
	}
	return models.LanguageEnglish
}

// handleAsk handles POST /api/ask.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var body struct {
		UserID   string `json:"user_id"`
		Question string `json:"question"`
		Language string `json:"language"`
	}
	if !DecodeJSON(w, r, &body) {
		return
	}

	if strings.TrimSpace(body.Question) == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "question is required", codeBadRequest)
		return
	}

	ctx := r.Context()
	userID := common.ResolveUserID(ctx, body.UserID)
	language := common.ResolveLanguage(ctx, body.Language, s.defaultLanguage())

	answer := s.app.AnswerService.Answer(ctx, userID, body.Question, language)
	WriteJSON(w, http.StatusOK, answer)
}

// handleTopics handles GET /api/topics?language=.
func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	language := common.ResolveLanguage(r.Context(), r.URL.Query().Get("language"), s.defaultLanguage())
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"language": language,
		"topics":   s.app.AnswerService.Topics(language),
	})
}

// feedbackResponse reports the state after a feedback event.
type feedbackResponse struct {
	UserID        string      `json:"user_id"`
	Mode          models.Mode `json:"mode"`
	StruggleCount int         `json:"struggle_count"`
	Applied       bool        `json:"applied"`
}

// handleFeedback handles POST /api/feedback.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var body struct {
		UserID string `json:"user_id"`
		Signal string `json:"signal"`
	}
	if !DecodeJSON(w, r, &body) {
		return
	}

	ctx := r.Context()
	userID := common.ResolveUserID(ctx, body.UserID)
	signal := models.ParseSignal(body.Signal)

	profile, err := s.app.PersonalizationService.ApplyFeedback(ctx, userID, signal)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to record feedback")
		WriteError(w, http.StatusInternalServerError, "Failed to record feedback")
		return
	}

	resp := feedbackResponse{
		UserID:        userID,
		Mode:          profile.Mode,
		StruggleCount: profile.StruggleCount,
		Applied:       signal != models.SignalUnknown,
	}
	WriteJSON(w, http.StatusOK, resp)
}

// handleUserMode handles GET /api/users/{id}/mode.
func (s *Server) handleUserMode(w http.ResponseWriter, r *http.Request, userID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	mode, err := s.app.PersonalizationService.GetMode(r.Context(), userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Failed to read mode")
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"mode":    mode,
	})
}

// handleUserProfileGet handles GET /api/users/{id}/profile.
func (s *Server) handleUserProfileGet(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := s.app.PersonalizationService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrProfileNotFound) {
			WriteErrorWithCode(w, http.StatusNotFound, "Profile not found", codeNotFound)
			return
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to get profile")
		WriteError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

// handleUserProfileDelete handles DELETE /api/users/{id}/profile.
func (s *Server) handleUserProfileDelete(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.app.PersonalizationService.ResetProfile(r.Context(), userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to reset profile")
		WriteError(w, http.StatusInternalServerError, "Failed to reset profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
