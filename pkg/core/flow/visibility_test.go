package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// demoSurvey builds a three-section survey with branching used across the
// visibility and machine tests:
//
//	screening: q0 (2 choices), q1 shown when screening-q-0 == 1
//	habits:    whole section shown when screening-q-0 == 1
//	feedback:  q0 required, q1 optional, q2 required
func demoSurvey() []Section {
	return []Section{
		{
			Label: "screening",
			Title: "Screening",
			Questions: []Question{
				{Label: "Do you use the product?", Choices: []string{"No", "Yes"}, Required: true},
				{
					Label:    "How often?",
					Choices:  []string{"Daily", "Weekly", "Rarely"},
					Required: true,
					ShowIf:   &Condition{Question: "screening-q-0", Equals: intPtr(1)},
				},
			},
		},
		{
			Label:  "habits",
			Title:  "Usage habits",
			ShowIf: &Condition{Question: "screening-q-0", Equals: intPtr(1)},
			Questions: []Question{
				{Label: "Where do you use it?", Choices: []string{"Home", "Work", "Other"}, Required: true},
			},
		},
		{
			Label: "feedback",
			Title: "Feedback",
			Questions: []Question{
				{Label: "Would you recommend it?", Choices: []string{"No", "Yes"}, Required: true},
				{Label: "Any complaints?", Choices: []string{"No", "Yes"}, Required: false},
				{Label: "Overall rating?", Choices: []string{"Bad", "OK", "Good"}, Required: true},
			},
		},
	}
}

func TestVisibleSectionIndices(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
		answers  Answers
		want     []int
	}{
		{
			name:     "conditional section hidden before its prerequisite is answered",
			sections: demoSurvey(),
			answers:  Answers{},
			want:     []int{0, 2},
		},
		{
			name:     "conditional section revealed by matching answer",
			sections: demoSurvey(),
			answers:  Answers{"screening-q-0": 1},
			want:     []int{0, 1, 2},
		},
		{
			name: "section with zero questions is always excluded",
			sections: []Section{
				{Label: "empty", Title: "Empty"},
				{Label: "real", Title: "Real", Questions: []Question{
					{Label: "Q", Choices: []string{"A", "B"}, Required: true},
				}},
			},
			answers: Answers{},
			want:    []int{1},
		},
		{
			name: "section whose questions are all hidden is excluded",
			sections: []Section{
				{Label: "a", Title: "A", Questions: []Question{
					{Label: "Q", Choices: []string{"A", "B"}, Required: true},
				}},
				{Label: "b", Title: "B", Questions: []Question{
					{
						Label:    "Q",
						Choices:  []string{"A", "B"},
						Required: true,
						ShowIf:   &Condition{Question: "a-q-0", Equals: intPtr(1)},
					},
				}},
			},
			answers: Answers{"a-q-0": 0},
			want:    []int{0},
		},
		{
			name: "section hidden by its own condition",
			sections: []Section{
				{Label: "a", Title: "A", Questions: []Question{
					{Label: "Q", Choices: []string{"A", "B"}, Required: true},
				}},
				{
					Label:  "b",
					Title:  "B",
					ShowIf: &Condition{Question: "a-q-0", NotEquals: intPtr(0)},
					Questions: []Question{
						{Label: "Q", Choices: []string{"A", "B"}, Required: true},
					},
				},
			},
			answers: Answers{"a-q-0": 0},
			want:    []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VisibleSectionIndices(tt.sections, tt.answers))
		})
	}
}

func TestQuestionScans(t *testing.T) {
	sec := demoSurvey()[0]

	t.Run("next skips hidden question", func(t *testing.T) {
		_, ok := NextVisibleQuestion(sec, 0, Answers{"screening-q-0": 0})
		assert.False(t, ok)

		next, ok := NextVisibleQuestion(sec, 0, Answers{"screening-q-0": 1})
		assert.True(t, ok)
		assert.Equal(t, 1, next)
	})

	t.Run("prev skips hidden question", func(t *testing.T) {
		prev, ok := PrevVisibleQuestion(sec, 1, Answers{"screening-q-0": 0})
		assert.True(t, ok)
		assert.Equal(t, 0, prev)

		_, ok = PrevVisibleQuestion(sec, 0, Answers{})
		assert.False(t, ok)
	})

	t.Run("first and last respect visibility", func(t *testing.T) {
		first, ok := FirstVisibleQuestion(sec, Answers{})
		assert.True(t, ok)
		assert.Equal(t, 0, first)

		last, ok := LastVisibleQuestion(sec, Answers{"screening-q-0": 0})
		assert.True(t, ok)
		assert.Equal(t, 0, last)

		last, ok = LastVisibleQuestion(sec, Answers{"screening-q-0": 1})
		assert.True(t, ok)
		assert.Equal(t, 1, last)
	})

	t.Run("has wrappers", func(t *testing.T) {
		assert.True(t, HasNextVisibleQuestion(sec, 0, Answers{"screening-q-0": 1}))
		assert.False(t, HasNextVisibleQuestion(sec, 0, Answers{"screening-q-0": 0}))
		assert.True(t, HasPrevVisibleQuestion(sec, 1, Answers{}))
		assert.False(t, HasPrevVisibleQuestion(sec, 0, Answers{}))
	})
}
