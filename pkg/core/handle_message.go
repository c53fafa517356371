package core

import (
	"context"
	"slices"
	"strings"

	"github.com/evgsokolov/surveyflow/pkg/core/flow"
)

// otherChoice is the choice label that accepts free text alongside the
// selection itself.
const otherChoice = "Other"

// HandleMessage processes a plain (non-command) message as an answer to the
// current question and returns what to render next.
func (s *Service) HandleMessage(ctx context.Context, userID, text string) (*Response, error) {
	r := s.session(ctx, userID)

	if r.Done() {
		return &Response{Message: completedMsg, Done: true}, nil
	}

	c := r.Context()
	q := c.Question()
	qid := c.QuestionID()
	text = strings.TrimSpace(text)

	choice := slices.Index(q.Choices, strings.TrimPrefix(text, selectedMark))

	switch {
	case choice >= 0 && q.Multiple:
		state, c := r.Send(ctx, flow.Event{
			Type:       flow.EventAnswerChange,
			QuestionID: qid,
			Value:      toggleSelection(c.Answers[qid], choice),
		})

		return s.buildResponse(state, c), nil

	case choice >= 0:
		r.Send(ctx, flow.Event{Type: flow.EventAnswerChange, QuestionID: qid, Value: choice})
		state, c := r.Send(ctx, flow.Event{Type: flow.EventNext})

		return s.buildResponse(state, c), nil

	case q.Multiple && text == doneAnswer:
		if c.Answers[qid] == nil {
			// Done without any selection records an intentionally empty
			// multi-choice answer.
			r.Send(ctx, flow.Event{Type: flow.EventAnswerChange, QuestionID: qid, Value: []int{}})
		}

		state, c := r.Send(ctx, flow.Event{Type: flow.EventNext})

		return s.buildResponse(state, c), nil

	case text != "" && slices.Contains(q.Choices, otherChoice):
		return s.handleOtherAnswer(ctx, r, q, qid, text)

	default:
		resp := s.buildResponse(flow.StateAnswering, c)
		resp.Message = chooseFromList + "\n\n" + resp.Message

		return resp, nil
	}
}

// handleOtherAnswer stores free text under the synthetic "-others" key and
// selects the Other choice itself.
func (s *Service) handleOtherAnswer(ctx context.Context, r *flow.Runner, q flow.Question, qid, text string) (*Response, error) {
	otherIdx := slices.Index(q.Choices, otherChoice)

	r.Send(ctx, flow.Event{
		Type:       flow.EventAnswerChange,
		QuestionID: qid + flow.OtherSuffix,
		Value:      text,
	})

	if q.Multiple {
		c := r.Context()

		state, c := r.Send(ctx, flow.Event{
			Type:       flow.EventAnswerChange,
			QuestionID: qid,
			Value:      addSelection(c.Answers[qid], otherIdx),
		})

		return s.buildResponse(state, c), nil
	}

	r.Send(ctx, flow.Event{Type: flow.EventAnswerChange, QuestionID: qid, Value: otherIdx})
	state, c := r.Send(ctx, flow.Event{Type: flow.EventNext})

	return s.buildResponse(state, c), nil
}

// toggleSelection adds the choice to a multi-choice selection or removes it
// when already selected.
func toggleSelection(answer any, choice int) []int {
	selected := selectedIndices(answer)

	if i := slices.Index(selected, choice); i >= 0 {
		return slices.Delete(slices.Clone(selected), i, i+1)
	}

	out := append(slices.Clone(selected), choice)
	slices.Sort(out)

	return out
}

func addSelection(answer any, choice int) []int {
	selected := selectedIndices(answer)
	if slices.Contains(selected, choice) {
		return selected
	}

	out := append(slices.Clone(selected), choice)
	slices.Sort(out)

	return out
}
