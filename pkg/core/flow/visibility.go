package flow

// VisibleSectionIndices returns the indices of sections currently eligible to
// be shown, in traversal order. A section is visible iff its own condition
// holds and it contains at least one visible question; a section with no
// questions is excluded unconditionally.
//
// Visibility is recomputed on every call rather than cached: reacting to
// newly revealed or hidden branches matters more than the cost of a scan
// over a small question set.
func VisibleSectionIndices(sections []Section, answers Answers) []int {
	visible := make([]int, 0, len(sections))

	for i, sec := range sections {
		if len(sec.Questions) == 0 {
			continue
		}

		if !Evaluate(sec.ShowIf, answers) {
			continue
		}

		if _, ok := FirstVisibleQuestion(sec, answers); !ok {
			continue
		}

		visible = append(visible, i)
	}

	return visible
}

// NextVisibleQuestion scans forward from the question after `from` and
// returns the index of the first visible question, or false if none remain.
func NextVisibleQuestion(sec Section, from int, answers Answers) (int, bool) {
	for i := from + 1; i < len(sec.Questions); i++ {
		if Evaluate(sec.Questions[i].ShowIf, answers) {
			return i, true
		}
	}

	return 0, false
}

// PrevVisibleQuestion scans backward from the question before `from` and
// returns the index of the first visible question, or false if none remain.
func PrevVisibleQuestion(sec Section, from int, answers Answers) (int, bool) {
	for i := from - 1; i >= 0; i-- {
		if Evaluate(sec.Questions[i].ShowIf, answers) {
			return i, true
		}
	}

	return 0, false
}

// FirstVisibleQuestion returns the index of the first visible question of the
// section, or false if every question is hidden.
func FirstVisibleQuestion(sec Section, answers Answers) (int, bool) {
	return NextVisibleQuestion(sec, -1, answers)
}

// LastVisibleQuestion returns the index of the last visible question of the
// section, or false if every question is hidden.
func LastVisibleQuestion(sec Section, answers Answers) (int, bool) {
	return PrevVisibleQuestion(sec, len(sec.Questions), answers)
}

// HasNextVisibleQuestion reports whether any visible question remains after
// `from`.
func HasNextVisibleQuestion(sec Section, from int, answers Answers) bool {
	_, ok := NextVisibleQuestion(sec, from, answers)
	return ok
}

// HasPrevVisibleQuestion reports whether any visible question exists before
// `from`.
func HasPrevVisibleQuestion(sec Section, from int, answers Answers) bool {
	_, ok := PrevVisibleQuestion(sec, from, answers)
	return ok
}
