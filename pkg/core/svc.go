package core

import (
	"context"
	"log/slog"
	"sync"

	"github.com/evgsokolov/surveyflow/pkg/core/flow"
)

// SessionStore is the durable key/value store holding one navigation
// snapshot per respondent. Implemented by the Redis repo.
type SessionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Del(ctx context.Context, key string) error
}

// ResultsProv submits one finished section to the results API.
type ResultsProv interface {
	SubmitSection(ctx context.Context, respondentID, sectionLabel string, answers flow.Answers) error
}

// Service owns one navigation runner per respondent and translates chat
// messages into engine events.
type Service struct {
	title    string
	sections []flow.Section
	store    SessionStore
	prov     ResultsProv

	mu       sync.Mutex
	sessions map[string]*flow.Runner
}

// Response is what the front-end renders back to the respondent: a message
// and, when a question is being asked, the selectable answers.
type Response struct {
	Message string
	Answers []string
	Done    bool
}

// New creates a service serving the given survey.
func New(title string, sections []flow.Section, store SessionStore, prov ResultsProv) *Service {
	return &Service{
		title:    title,
		sections: sections,
		store:    store,
		prov:     prov,
		sessions: make(map[string]*flow.Runner),
	}
}

// Close stops every live runner.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.sessions {
		r.Stop()
	}

	s.sessions = make(map[string]*flow.Runner)
}

// session returns the live runner for the user, restoring it from its
// durable snapshot when none is in memory.
func (s *Service) session(ctx context.Context, userID string) *flow.Runner {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.sessions[userID]; ok {
		return r
	}

	r := flow.NewRunner(s.sections,
		flow.WithSnapshots(flow.NewSnapshots(s.store, userID)),
		flow.WithGateway(flow.GatewayFunc(func(ctx context.Context, sectionLabel string, answers flow.Answers) error {
			return s.prov.SubmitSection(ctx, userID, sectionLabel, answers)
		})),
		flow.WithObserver(func(ev flow.Event, state flow.State, c flow.Context) {
			slog.Debug("survey transition",
				slog.String("user_id", userID),
				slog.String("event", string(ev.Type)),
				slog.String("state", string(state)),
				slog.Int("section_idx", c.CurrentSectionIdx),
				slog.Int("question_idx", c.CurrentQuestionIdx),
			)
		}),
	)

	r.Start(ctx)
	s.sessions[userID] = r

	return r
}

// dropSession stops and forgets the user's live runner.
func (s *Service) dropSession(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.sessions[userID]; ok {
		r.Stop()
		delete(s.sessions, userID)
	}
}
