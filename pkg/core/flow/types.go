package flow

import "fmt"

// Section is a named, ordered group of questions presented together before a
// submission boundary. Navigation follows slice order; Position is metadata
// carried from the survey definition.
type Section struct {
	Label     string     `json:"label"`
	Title     string     `json:"title"`
	Position  int        `json:"position"`
	Questions []Question `json:"questions"`
	ShowIf    *Condition `json:"show_if,omitempty"`
}

// Question is a single choice question. Its externally visible identity is
// synthesized from the owning section, see Section.QuestionID.
type Question struct {
	Label    string     `json:"label"`
	Choices  []string   `json:"choices"`
	Required bool       `json:"required"`
	Multiple bool       `json:"multiple"`
	ShowIf   *Condition `json:"show_if,omitempty"`
}

// Condition controls visibility of a question or section based on an earlier
// answer. Exactly one operator is expected; the definition loader enforces
// that, the evaluator stays defensive about whatever it is given.
type Condition struct {
	Question  string `json:"question"`
	Equals    *int   `json:"equals,omitempty"`
	NotEquals *int   `json:"not_equals,omitempty"`
	In        []int  `json:"in,omitempty"`
	NotIn     []int  `json:"not_in,omitempty"`
}

// Answers maps a question ID to its answer. nil means unanswered or an
// intentionally skipped single-choice question, an empty slice a skipped
// multi-choice one, int a selected choice index, []int selected indices,
// and a string under a "-others" key holds free text for an "Other" choice.
// Values may be float64 or []any after a JSON round trip through storage.
type Answers map[string]any

// QuestionID returns the external identity of the i-th question of the
// section. It is used both as the answer map key and as the target of
// condition references.
func (s Section) QuestionID(i int) string {
	return fmt.Sprintf("%s-q-%d", s.Label, i)
}

// Context is the navigation machine's state. It is mutated only through
// machine transitions.
type Context struct {
	Sections           []Section
	CurrentSectionIdx  int
	CurrentQuestionIdx int
	Answers            Answers
	Error              string
	VisibleSectionIdxs []int
}

// NewContext creates a context positioned at the start of the survey.
func NewContext(sections []Section) Context {
	return Context{
		Sections: sections,
		Answers:  Answers{},
	}
}

// Section returns the current section.
func (c Context) Section() Section {
	return c.Sections[c.CurrentSectionIdx]
}

// Question returns the current question.
func (c Context) Question() Question {
	return c.Section().Questions[c.CurrentQuestionIdx]
}

// QuestionID returns the identity of the current question.
func (c Context) QuestionID() string {
	return c.Section().QuestionID(c.CurrentQuestionIdx)
}

// isAnswered reports whether the question has any answer at all. An empty
// slice counts as answered: it is the recorded result of skipping a
// multi-choice question.
func isAnswered(answers Answers, questionID string) bool {
	v, ok := answers[questionID]
	return ok && v != nil
}
