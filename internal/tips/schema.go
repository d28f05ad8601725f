package tips

import "github.com/abhisek/fjala/internal/llm"

// BatchSchema is the JSON schema for a batch of generated tips.
var BatchSchema = &llm.Schema{
	Name:        "culture-tips",
	Description: "A batch of short, factual notes on Albanian language and culture",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tips": map[string]any{
				"type":        "array",
				"minItems":    1,
				"maxItems":    12,
				"description": "Independent tips, one or two sentences each",
				"items": map[string]any{
					"type":      "string",
					"minLength": 10,
					"maxLength": MaxTipLength,
				},
			},
		},
		"required":             []any{"tips"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You write short, friendly notes about Albanian culture, history, food, music and language for people learning Albanian. Every note must be factually accurate. Prefer concrete details and include the Albanian word where there is one.`
