package definition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validJSON = `{
  "title": "Product survey",
  "sections": [
    {
      "label": "screening",
      "title": "Screening",
      "position": 1,
      "questions": [
        {"label": "Do you use the product?", "choices": ["No", "Yes"]},
        {
          "label": "How often?",
          "choices": ["Daily", "Weekly", "Rarely"],
          "required": false,
          "show_if": {"question": "screening-q-0", "equals": 1}
        }
      ]
    },
    {
      "label": "habits",
      "title": "Usage habits",
      "position": 2,
      "show_if": {"question": "screening-q-0", "equals": 1},
      "questions": [
        {"label": "Where?", "choices": ["Home", "Work", "Other"], "multiple": true}
      ]
    }
  ]
}`

const validYAML = `
title: Product survey
sections:
  - label: screening
    title: Screening
    position: 1
    questions:
      - label: Do you use the product?
        choices: ["No", "Yes"]
`

func TestParse_ValidJSON(t *testing.T) {
	survey, err := Parse([]byte(validJSON))
	require.NoError(t, err)

	assert.Equal(t, "Product survey", survey.Title)
	require.Len(t, survey.Sections, 2)

	screening := survey.Sections[0]
	assert.Equal(t, "screening", screening.Label)
	assert.True(t, screening.Questions[0].Required, "required must default to true")
	assert.False(t, screening.Questions[1].Required)
	require.NotNil(t, screening.Questions[1].ShowIf)
	assert.Equal(t, "screening-q-0", screening.Questions[1].ShowIf.Question)

	habits := survey.Sections[1]
	require.NotNil(t, habits.ShowIf)
	assert.True(t, habits.Questions[0].Multiple)
}

func TestParse_ValidYAML(t *testing.T) {
	survey, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	require.Len(t, survey.Sections, 1)
	assert.Equal(t, []string{"No", "Yes"}, survey.Sections[0].Questions[0].Choices)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "not parseable",
			body: `{"sections": [`,
		},
		{
			name: "missing sections",
			body: `{"title": "x"}`,
		},
		{
			name: "section without questions",
			body: `{"sections": [{"label": "a", "title": "A", "position": 1, "questions": []}]}`,
		},
		{
			name: "label not kebab case",
			body: `{"sections": [{"label": "Not Kebab", "title": "A", "position": 1,
				"questions": [{"label": "Q", "choices": ["A", "B"]}]}]}`,
		},
		{
			name: "fewer than two choices",
			body: `{"sections": [{"label": "a", "title": "A", "position": 1,
				"questions": [{"label": "Q", "choices": ["A"]}]}]}`,
		},
		{
			name: "position below one",
			body: `{"sections": [{"label": "a", "title": "A", "position": 0,
				"questions": [{"label": "Q", "choices": ["A", "B"]}]}]}`,
		},
		{
			name: "condition without operator",
			body: `{"sections": [{"label": "a", "title": "A", "position": 1,
				"questions": [
					{"label": "Q0", "choices": ["A", "B"]},
					{"label": "Q1", "choices": ["A", "B"], "show_if": {"question": "a-q-0"}}
				]}]}`,
		},
		{
			name: "condition with two operators",
			body: `{"sections": [{"label": "a", "title": "A", "position": 1,
				"questions": [
					{"label": "Q0", "choices": ["A", "B"]},
					{"label": "Q1", "choices": ["A", "B"], "show_if": {"question": "a-q-0", "equals": 1, "not_equals": 0}}
				]}]}`,
		},
		{
			name: "self reference",
			body: `{"sections": [{"label": "a", "title": "A", "position": 1,
				"questions": [
					{"label": "Q0", "choices": ["A", "B"], "show_if": {"question": "a-q-0", "equals": 1}}
				]}]}`,
		},
		{
			name: "forward reference",
			body: `{"sections": [{"label": "a", "title": "A", "position": 1,
				"questions": [
					{"label": "Q0", "choices": ["A", "B"], "show_if": {"question": "a-q-1", "equals": 1}},
					{"label": "Q1", "choices": ["A", "B"]}
				]}]}`,
		},
		{
			name: "section condition referencing own question",
			body: `{"sections": [{"label": "a", "title": "A", "position": 1,
				"show_if": {"question": "a-q-0", "equals": 1},
				"questions": [{"label": "Q0", "choices": ["A", "B"]}]}]}`,
		},
		{
			name: "duplicate section labels",
			body: `{"sections": [
				{"label": "a", "title": "A", "position": 1, "questions": [{"label": "Q", "choices": ["A", "B"]}]},
				{"label": "a", "title": "B", "position": 2, "questions": [{"label": "Q", "choices": ["A", "B"]}]}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.json")
	require.NoError(t, os.WriteFile(path, []byte(validJSON), 0o600))

	survey, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, survey.Sections, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
