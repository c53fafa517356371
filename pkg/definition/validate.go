package definition

import (
	"fmt"

	"github.com/evgsokolov/surveyflow/pkg/core/flow"
)

// validate enforces the semantic rules the JSON Schema cannot express:
// unique section labels and backward-only, well-formed condition references.
// A condition may only target a question that occurs in an earlier section or
// earlier in the same section, never itself and never a later question.
func validate(file fileSurvey) error {
	labels := make(map[string]struct{}, len(file.Sections))

	// Question IDs that conditions are allowed to reference at the point of
	// the walk: everything declared before the current element.
	seen := map[string]struct{}{}

	for _, sec := range file.Sections {
		if _, ok := labels[sec.Label]; ok {
			return fmt.Errorf("duplicate section label %q", sec.Label)
		}

		labels[sec.Label] = struct{}{}

		if err := validateCondition(sec.ShowIf, seen); err != nil {
			return fmt.Errorf("section %q: %w", sec.Label, err)
		}

		for j, q := range sec.Questions {
			if err := validateCondition(q.ShowIf, seen); err != nil {
				return fmt.Errorf("section %q question %d: %w", sec.Label, j, err)
			}

			seen[questionID(sec.Label, j)] = struct{}{}
		}
	}

	return nil
}

func validateCondition(cond *flow.Condition, seen map[string]struct{}) error {
	if cond == nil {
		return nil
	}

	operators := 0
	if cond.Equals != nil {
		operators++
	}

	if cond.NotEquals != nil {
		operators++
	}

	if cond.In != nil {
		operators++
	}

	if cond.NotIn != nil {
		operators++
	}

	if operators != 1 {
		return fmt.Errorf("condition must have exactly one operator, got %d", operators)
	}

	if _, ok := seen[cond.Question]; !ok {
		return fmt.Errorf("condition references %q, which is not an earlier question", cond.Question)
	}

	return nil
}

func questionID(sectionLabel string, idx int) string {
	return fmt.Sprintf("%s-q-%d", sectionLabel, idx)
}
