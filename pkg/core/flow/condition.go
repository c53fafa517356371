package flow

import (
	"log/slog"
	"regexp"
)

// questionIDPattern is the shape of a synthesized question identity,
// "{sectionLabel}-q-{index}".
var questionIDPattern = regexp.MustCompile(`^[a-z0-9-]+-q-\d+$`)

// Evaluate decides whether the owner of the condition is currently visible
// given the answers collected so far. A nil condition is always visible.
//
// The definition loader guarantees well-formed, backward-only references, but
// the evaluator does not rely on that: a malformed reference or a missing
// operator fails open (a content bug must never hide a whole section), while
// an operator applied to a non-numeric answer fails closed (a miswired
// condition must not reveal content based on garbage data). Anomalies are
// logged as diagnostics and never surfaced to the respondent.
func Evaluate(cond *Condition, answers Answers) bool {
	if cond == nil {
		return true
	}

	if !questionIDPattern.MatchString(cond.Question) {
		slog.Warn("condition references malformed question id", slog.String("question", cond.Question))
		return true
	}

	v, ok := answers[cond.Question]
	if !ok || v == nil {
		// An unanswered prerequisite hides its dependents.
		return false
	}

	answer, ok := answerNumber(v)
	if !ok {
		slog.Warn("condition applied to non-numeric answer",
			slog.String("question", cond.Question),
			slog.Any("answer", v),
		)

		return false
	}

	switch {
	case cond.Equals != nil:
		return answer == float64(*cond.Equals)
	case cond.NotEquals != nil:
		return answer != float64(*cond.NotEquals)
	case cond.In != nil:
		return containsNumber(cond.In, answer)
	case cond.NotIn != nil:
		return !containsNumber(cond.NotIn, answer)
	default:
		slog.Warn("condition has no recognized operator", slog.String("question", cond.Question))
		return true
	}
}

// answerNumber converts a single-choice answer to a comparable number.
// Answers loaded back from JSON storage arrive as float64, in-memory ones
// as int.
func answerNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func containsNumber(set []int, n float64) bool {
	for _, v := range set {
		if float64(v) == n {
			return true
		}
	}

	return false
}
