package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/evgsokolov/surveyflow/pkg/core/flow"
)

const (
	doneAnswer     = "✅ Done"
	selectedMark   = "☑ "
	completedMsg   = "🎉 That was the last question — thank you for taking part!\n\nYour answers have been recorded."
	requiredMsg    = "⚠️ This question is required. Please pick an answer before moving on."
	submissionMsg  = "⚠️ Your answers could not be saved right now. Please try again in a moment."
	optionalHint   = "(optional — /skip to leave it unanswered)"
	multipleHint   = "(pick any that apply, then tap \"" + doneAnswer + "\")"
	chooseFromList = "Please pick one of the answers below."
)

// buildResponse renders the machine's settled state into a chat response.
func (s *Service) buildResponse(state flow.State, c flow.Context) *Response {
	if state == flow.StateComplete {
		return &Response{Message: completedMsg, Done: true}
	}

	var b strings.Builder

	switch c.Error {
	case flow.ErrorRequired:
		b.WriteString(requiredMsg + "\n\n")
	case flow.ErrorSubmission:
		b.WriteString(submissionMsg + "\n\n")
	}

	sec := c.Section()
	q := c.Question()

	vis := flow.VisibleSectionIndices(c.Sections, c.Answers)
	if pos := slices.Index(vis, c.CurrentSectionIdx); pos >= 0 {
		fmt.Fprintf(&b, "%s (%d/%d)\n\n", sec.Title, pos+1, len(vis))
	} else {
		fmt.Fprintf(&b, "%s\n\n", sec.Title)
	}

	b.WriteString(q.Label)

	switch {
	case q.Multiple:
		b.WriteString("\n" + multipleHint)
	case !q.Required:
		b.WriteString("\n" + optionalHint)
	}

	return &Response{
		Message: b.String(),
		Answers: answerButtons(q, c.Answers[c.QuestionID()]),
	}
}

// answerButtons renders the choices, marking current selections of a
// multi-choice question and appending its Done control.
func answerButtons(q flow.Question, answer any) []string {
	buttons := make([]string, 0, len(q.Choices)+1)
	selected := selectedIndices(answer)

	for i, choice := range q.Choices {
		if q.Multiple && slices.Contains(selected, i) {
			buttons = append(buttons, selectedMark+choice)
			continue
		}

		buttons = append(buttons, choice)
	}

	if q.Multiple {
		buttons = append(buttons, doneAnswer)
	}

	return buttons
}

// selectedIndices extracts a multi-choice selection from an answer value.
// Selections restored from JSON storage arrive as []any of float64.
func selectedIndices(answer any) []int {
	switch v := answer.(type) {
	case []int:
		return v
	case []any:
		out := make([]int, 0, len(v))

		for _, item := range v {
			if n, ok := item.(float64); ok {
				out = append(out, int(n))
			}
		}

		return out
	default:
		return nil
	}
}
