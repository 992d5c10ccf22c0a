package builder

import (
	"context"
	"errors"
	"strings"

	"site-builder/internal/history"
	"site-builder/internal/llm"
	"site-builder/internal/logging"
	"site-builder/internal/profile"
	"site-builder/internal/storage"
)

type chatReply struct {
	NextQuestion       string           `json:"nextQuestion"`
	UpdatedUserProfile *profile.Profile `json:"updatedUserProfile"`
}

func (r *chatReply) Validate() error {
	if strings.TrimSpace(r.NextQuestion) == "" {
		return errors.New("nextQuestion is missing")
	}
	if r.UpdatedUserProfile == nil {
		return errors.New("updatedUserProfile is missing")
	}
	return nil
}

// AdvanceConversation runs one conversation turn: the model sees the whole
// transcript plus the pending message and the current profile, and answers
// with the next question and a replacement profile. Nothing is persisted
// unless the reply has the expected shape.
func (s *Service) AdvanceConversation(ctx context.Context, userID, text string) (string, history.Log, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil, ErrEmptyMessage
	}
	unlock := s.locks.Lock(userID)
	defer unlock()

	lg := logging.ForUser(userID, "chat")
	current, turns, err := s.loadState(userID)
	if err != nil {
		return "", nil, err
	}

	pending := turns.Begin(text)
	prompt, err := chatPrompt(pending, current)
	if err != nil {
		return "", nil, err
	}

	resp, err := s.callModel(ctx, s.chat, "chat", []llm.Message{{Role: llm.RoleSystem, Content: prompt}})
	if err != nil {
		lg.Error().Err(err).Msg("model call failed")
		return "", nil, &llm.ModelResponseError{Err: err}
	}
	reply, err := llm.ParseStructuredReply[chatReply](resp.Content)
	if err != nil {
		modelCalls.WithLabelValues("chat", outcomeInvalid).Inc()
		lg.Error().Err(err).Str("raw", resp.Content).Msg("unusable model reply")
		return "", nil, err
	}
	modelCalls.WithLabelValues("chat", outcomeOK).Inc()

	updated := *reply.UpdatedUserProfile
	// Image records are owned by ingestion; the model cannot add or drop them.
	updated.Images = current.Images
	delete(updated.Extra, "images")

	next := pending.Complete(reply.NextQuestion)
	if err := s.commit(userID, turns, next, func() error {
		return s.store.SaveProfile(userID, updated)
	}); err != nil {
		return "", nil, err
	}

	s.record(storage.Event{UserID: userID, Kind: storage.KindChat, UserMessage: text, AssistantResponse: reply.NextQuestion})
	lg.Info().Int("turns", len(next)).Msg("conversation advanced")
	return reply.NextQuestion, next, nil
}
