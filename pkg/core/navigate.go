package core

import (
	"context"
	"log/slog"

	"github.com/evgsokolov/surveyflow/pkg/core/flow"
)

// SkipQuestion leaves the current question unanswered and moves on. Required
// questions cannot be skipped; the respondent is told so without disturbing
// the machine.
func (s *Service) SkipQuestion(ctx context.Context, userID string) (*Response, error) {
	r := s.session(ctx, userID)

	if r.Done() {
		return &Response{Message: completedMsg, Done: true}, nil
	}

	c := r.Context()
	if c.Question().Required {
		resp := s.buildResponse(flow.StateAnswering, c)
		resp.Message = requiredMsg + "\n\n" + resp.Message

		return resp, nil
	}

	state, c := r.Send(ctx, flow.Event{Type: flow.EventSkip})

	return s.buildResponse(state, c), nil
}

// GoBack returns to the previous visible question, crossing a section
// boundary when needed.
func (s *Service) GoBack(ctx context.Context, userID string) (*Response, error) {
	r := s.session(ctx, userID)

	if r.Done() {
		return &Response{Message: completedMsg, Done: true}, nil
	}

	state, c := r.Send(ctx, flow.Event{Type: flow.EventBack})

	return s.buildResponse(state, c), nil
}

// ResetSurvey discards the user's progress, durable snapshot included, and
// starts over.
func (s *Service) ResetSurvey(ctx context.Context, userID string) (*Response, error) {
	s.dropSession(userID)

	if err := s.store.Del(ctx, userID); err != nil {
		// Losing the old snapshot is the goal here; a failure only means a
		// stale record may be picked up if this reset races a crash.
		slog.WarnContext(ctx, "failed to delete session snapshot on reset",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	return s.StartSurvey(ctx, userID)
}
