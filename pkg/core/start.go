package core

import (
	"context"
	"fmt"
)

// StartSurvey begins or resumes the user's survey session. A respondent who
// already completed the survey gets a fresh session.
func (s *Service) StartSurvey(ctx context.Context, userID string) (*Response, error) {
	r := s.session(ctx, userID)

	if r.Done() {
		s.dropSession(userID)
		r = s.session(ctx, userID)
	}

	resp := s.buildResponse(r.State(), r.Context())
	resp.Message = fmt.Sprintf("👋 %s\n\nAnswer by tapping one of the buttons below. You can always use /back, /skip or /reset.\n\n%s", s.title, resp.Message)

	return resp, nil
}
