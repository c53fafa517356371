package definition

// surveySchema is the JSON Schema every survey definition file must satisfy
// before the semantic checks run.
var surveySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{
			"type": "string",
		},
		"sections": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"$ref": "#/$defs/section"},
		},
	},
	"required":             []any{"sections"},
	"additionalProperties": false,
	"$defs": map[string]any{
		"section": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"label": map[string]any{
					"type":    "string",
					"pattern": "^[a-z0-9]+(-[a-z0-9]+)*$",
				},
				"title": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
				"position": map[string]any{
					"type":    "integer",
					"minimum": 1,
				},
				"show_if": map[string]any{"$ref": "#/$defs/condition"},
				"questions": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]any{"$ref": "#/$defs/question"},
				},
			},
			"required":             []any{"label", "title", "position", "questions"},
			"additionalProperties": false,
		},
		"question": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"label": map[string]any{
					"type":      "string",
					"minLength": 1,
				},
				"choices": map[string]any{
					"type":     "array",
					"minItems": 2,
					"items":    map[string]any{"type": "string", "minLength": 1},
				},
				"required": map[string]any{"type": "boolean"},
				"multiple": map[string]any{"type": "boolean"},
				"show_if":  map[string]any{"$ref": "#/$defs/condition"},
			},
			"required":             []any{"label", "choices"},
			"additionalProperties": false,
		},
		"condition": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question":   map[string]any{"type": "string"},
				"equals":     map[string]any{"type": "integer"},
				"not_equals": map[string]any{"type": "integer"},
				"in": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]any{"type": "integer"},
				},
				"not_in": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]any{"type": "integer"},
				},
			},
			"required":             []any{"question"},
			"additionalProperties": false,
		},
	},
}
