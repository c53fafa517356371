package flow

import "maps"

// State identifies the machine's position in its lifecycle.
type State string

const (
	// StateAnswering is the interactive state: the respondent is on a
	// question and navigation events are accepted.
	StateAnswering State = "answering"
	// StateSubmitting means the current section's answers are being handed
	// to the submission gateway. Navigation events are not accepted until
	// the submission resolves, so at most one is ever in flight.
	StateSubmitting State = "submitting"
	// StateComplete is terminal.
	StateComplete State = "complete"
)

// User-visible error kinds. Both are recoverable in place: position and
// answers are never discarded.
const (
	ErrorRequired   = "required"
	ErrorSubmission = "submission"
)

// EventType names a machine event.
type EventType string

const (
	EventAnswerChange EventType = "ANSWER_CHANGE"
	EventNext         EventType = "NEXT"
	EventSkip         EventType = "SKIP"
	EventBack         EventType = "BACK"
	EventGoToSection  EventType = "GO_TO_SECTION"
	EventGoToQuestion EventType = "GO_TO_QUESTION"
	EventClearError   EventType = "CLEAR_ERROR"

	// Internal events raised by the runner when a submission resolves.
	eventSubmitDone   EventType = "submit.done"
	eventSubmitFailed EventType = "submit.failed"
)

// Event is a machine input with its payload.
type Event struct {
	Type        EventType
	QuestionID  string
	Value       any
	SectionIdx  int
	QuestionIdx int
}

// EffectType names a side effect requested by a transition. Transitions are
// pure; the runner executes effects after the new state has settled.
type EffectType string

const (
	EffectPersist            EffectType = "persist"
	EffectClearSnapshot      EffectType = "clearSnapshot"
	EffectSubmit             EffectType = "submit"
	EffectScrollTop          EffectType = "scrollTop"
	EffectRedirect           EffectType = "redirect"
	EffectScheduleErrorClear EffectType = "scheduleErrorClear"
)

// Effect is a side effect requested by a transition. Submit effects carry the
// normalized answers of the section being submitted.
type Effect struct {
	Type         EffectType
	SectionLabel string
	Answers      Answers
}

// Transition is the machine's pure transition function: given the current
// state, context and an event it returns the next state, the next context and
// the side effects the host must execute. It performs no I/O and never blocks.
func Transition(state State, c Context, ev Event) (State, Context, []Effect) {
	switch state {
	case StateAnswering:
		return transitionAnswering(c, ev)
	case StateSubmitting:
		return transitionSubmitting(c, ev)
	default:
		// complete is terminal; drop everything.
		return state, c, nil
	}
}

func transitionAnswering(c Context, ev Event) (State, Context, []Effect) {
	switch ev.Type {
	case EventAnswerChange:
		if c.Answers == nil {
			c.Answers = Answers{}
		} else {
			c.Answers = maps.Clone(c.Answers)
		}

		c.Answers[ev.QuestionID] = ev.Value
		c.Error = ""

		return settle(StateAnswering, c)

	case EventNext:
		q := c.Question()
		if q.Required && !isAnswered(c.Answers, c.QuestionID()) {
			c.Error = ErrorRequired
			return settle(StateAnswering, c)
		}

		return advance(c)

	case EventSkip:
		return advance(c)

	case EventBack:
		return back(c)

	case EventGoToSection:
		if ev.SectionIdx < 0 || ev.SectionIdx >= len(c.Sections) {
			return StateAnswering, c, nil
		}

		c.CurrentSectionIdx = ev.SectionIdx
		c.Error = ""
		c.VisibleSectionIdxs = VisibleSectionIndices(c.Sections, c.Answers)

		if first, ok := FirstVisibleQuestion(c.Section(), c.Answers); ok {
			c.CurrentQuestionIdx = first
		} else {
			c.CurrentQuestionIdx = 0
		}

		return settle(StateAnswering, c)

	case EventGoToQuestion:
		if ev.SectionIdx < 0 || ev.SectionIdx >= len(c.Sections) ||
			ev.QuestionIdx < 0 || ev.QuestionIdx >= len(c.Sections[ev.SectionIdx].Questions) {
			return StateAnswering, c, nil
		}

		c.CurrentSectionIdx = ev.SectionIdx
		c.CurrentQuestionIdx = ev.QuestionIdx
		c.Error = ""
		c.VisibleSectionIdxs = VisibleSectionIndices(c.Sections, c.Answers)

		return settle(StateAnswering, c)

	case EventClearError:
		c.Error = ""
		return settle(StateAnswering, c)

	default:
		return StateAnswering, c, nil
	}
}

// advance moves to the next visible question of the current section, or hands
// the section over for submission when none remains.
func advance(c Context) (State, Context, []Effect) {
	sec := c.Section()

	if next, ok := NextVisibleQuestion(sec, c.CurrentQuestionIdx, c.Answers); ok {
		c.CurrentQuestionIdx = next
		c.Error = ""
		c.VisibleSectionIdxs = VisibleSectionIndices(c.Sections, c.Answers)

		st, c, effects := settle(StateAnswering, c)

		return st, c, append(effects, Effect{Type: EffectScrollTop})
	}

	c.Error = ""

	return StateSubmitting, c, []Effect{{
		Type:         EffectSubmit,
		SectionLabel: sec.Label,
		Answers:      NormalizeSectionAnswers(sec, c.Answers),
	}}
}

func back(c Context) (State, Context, []Effect) {
	if prev, ok := PrevVisibleQuestion(c.Section(), c.CurrentQuestionIdx, c.Answers); ok {
		c.CurrentQuestionIdx = prev
		c.Error = ""

		return settle(StateAnswering, c)
	}

	// No earlier visible question in this section: go to the last visible
	// question of the previous visible section, if there is one.
	c.VisibleSectionIdxs = VisibleSectionIndices(c.Sections, c.Answers)

	prevSec := -1

	for _, idx := range c.VisibleSectionIdxs {
		if idx >= c.CurrentSectionIdx {
			break
		}

		prevSec = idx
	}

	if prevSec < 0 {
		// Already at the first visible question of the first visible
		// section.
		return StateAnswering, c, nil
	}

	c.CurrentSectionIdx = prevSec

	if last, ok := LastVisibleQuestion(c.Section(), c.Answers); ok {
		c.CurrentQuestionIdx = last
	} else {
		c.CurrentQuestionIdx = 0
	}

	c.Error = ""

	return settle(StateAnswering, c)
}

func transitionSubmitting(c Context, ev Event) (State, Context, []Effect) {
	switch ev.Type {
	case eventSubmitDone:
		return afterSubmit(c)

	case eventSubmitFailed:
		// Position preserved: the respondent retries by re-issuing NEXT.
		c.Error = ErrorSubmission
		return settle(StateAnswering, c)

	default:
		// A submission is in flight; navigation input is not accepted.
		return StateSubmitting, c, nil
	}
}

// afterSubmit advances to the next visible section, skipping sections that
// have become fully hidden, and completes when none remains.
func afterSubmit(c Context) (State, Context, []Effect) {
	c.VisibleSectionIdxs = VisibleSectionIndices(c.Sections, c.Answers)

	for _, idx := range c.VisibleSectionIdxs {
		if idx <= c.CurrentSectionIdx {
			continue
		}

		c.CurrentSectionIdx = idx

		if first, ok := FirstVisibleQuestion(c.Section(), c.Answers); ok {
			c.CurrentQuestionIdx = first
		} else {
			c.CurrentQuestionIdx = 0
		}

		c.Error = ""

		st, c, effects := settle(StateAnswering, c)

		return st, c, append(effects, Effect{Type: EffectScrollTop})
	}

	return StateComplete, c, []Effect{
		{Type: EffectClearSnapshot},
		{Type: EffectRedirect},
	}
}

// settle finalizes an answering-state transition: the context is persisted on
// every settled transition, and a non-empty error schedules its own timed
// dismissal.
func settle(st State, c Context) (State, Context, []Effect) {
	effects := []Effect{{Type: EffectPersist}}

	if c.Error != "" {
		effects = append(effects, Effect{Type: EffectScheduleErrorClear})
	}

	return st, c, effects
}
