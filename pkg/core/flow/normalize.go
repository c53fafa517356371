package flow

import (
	"fmt"
	"unicode/utf8"
)

const (
	// OtherSuffix marks the synthetic key holding free text entered for an
	// "Other" choice, "{questionID}-others".
	OtherSuffix = "-others"

	// maxOtherLen caps free-text answers before submission, counted in
	// characters, not bytes.
	maxOtherLen = 200
)

// NormalizeSectionAnswers extracts the answers belonging to one section and
// normalizes them for submission: free-text values are coerced to string and
// truncated, a boolean (the artifact of a skipped multi-choice control
// reporting false) becomes an empty selection, nil and slices pass through
// unchanged. Questions never touched are included as nil so the submitted
// record always covers the whole section.
func NormalizeSectionAnswers(sec Section, answers Answers) Answers {
	out := Answers{}

	for i := range sec.Questions {
		id := sec.QuestionID(i)
		out[id] = normalizeValue(answers[id])

		other := id + OtherSuffix
		if v, ok := answers[other]; ok {
			out[other] = truncateOther(v)
		}
	}

	return out
}

func normalizeValue(v any) any {
	if _, ok := v.(bool); ok {
		return []int{}
	}

	return v
}

func truncateOther(v any) string {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}

	// Truncate on a rune boundary; a byte slice could split a multi-byte
	// character and submit invalid UTF-8.
	if utf8.RuneCountInString(s) > maxOtherLen {
		s = string([]rune(s)[:maxOtherLen])
	}

	return s
}
