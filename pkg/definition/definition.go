// Package definition loads and validates survey definition files. A file is
// checked against a JSON Schema first, then against the semantic rules the
// navigation engine relies on (backward-only condition references in
// particular), and finally mapped into the engine's section types with
// defaults applied. The engine itself never sees an invalid survey.
package definition

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/evgsokolov/surveyflow/pkg/core/flow"
)

// Survey is a validated, ordered survey definition ready to drive the engine.
type Survey struct {
	Title    string
	Sections []flow.Section
}

type fileSurvey struct {
	Title    string        `json:"title"`
	Sections []fileSection `json:"sections"`
}

type fileSection struct {
	Label     string          `json:"label"`
	Title     string          `json:"title"`
	Position  int             `json:"position"`
	Questions []fileQuestion  `json:"questions"`
	ShowIf    *flow.Condition `json:"show_if"`
}

type fileQuestion struct {
	Label    string          `json:"label"`
	Choices  []string        `json:"choices"`
	Required *bool           `json:"required"`
	Multiple bool            `json:"multiple"`
	ShowIf   *flow.Condition `json:"show_if"`
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Load reads a survey definition from a JSON or YAML file and validates it.
func Load(path string) (*Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read survey definition: %w", err)
	}

	return Parse(data)
}

// Parse validates raw definition bytes (JSON or YAML) and maps them into
// engine types.
func Parse(data []byte) (*Survey, error) {
	// YAML is a superset of JSON, so one decoder covers both formats. The
	// JSON round trip normalizes the parsed value for schema validation.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse survey definition: %w", err)
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize survey definition: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(normalized, &parsed); err != nil {
		return nil, fmt.Errorf("failed to normalize survey definition: %w", err)
	}

	schema, err := getCompiledSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile survey schema: %w", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("survey definition is not valid: %w", err)
	}

	var file fileSurvey
	if err := json.Unmarshal(normalized, &file); err != nil {
		return nil, fmt.Errorf("failed to decode survey definition: %w", err)
	}

	if err := validate(file); err != nil {
		return nil, err
	}

	return &Survey{
		Title:    file.Title,
		Sections: mapSections(file.Sections),
	}, nil
}

func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()

		if err := c.AddResource("schema://survey.json", surveySchema); err != nil {
			compileErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}

		compiledSchema, compileErr = c.Compile("schema://survey.json")
	})

	return compiledSchema, compileErr
}

// mapSections converts file sections into engine sections, applying the
// required-by-default rule.
func mapSections(sections []fileSection) []flow.Section {
	out := make([]flow.Section, len(sections))

	for i, s := range sections {
		questions := make([]flow.Question, len(s.Questions))

		for j, q := range s.Questions {
			required := true
			if q.Required != nil {
				required = *q.Required
			}

			questions[j] = flow.Question{
				Label:    q.Label,
				Choices:  q.Choices,
				Required: required,
				Multiple: q.Multiple,
				ShowIf:   q.ShowIf,
			}
		}

		out[i] = flow.Section{
			Label:     s.Label,
			Title:     s.Title,
			Position:  s.Position,
			Questions: questions,
			ShowIf:    s.ShowIf,
		}
	}

	return out
}
