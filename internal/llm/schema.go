package llm

// BuildRosterJSONSchema returns the JSON-Schema (draft 2020-12 subset) a provider reply must
// satisfy once code fences are stripped: an array of objects. Values may be strings, numbers
// or null; they are coerced to strings afterwards.
func BuildRosterJSONSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"clock": scalarProp(),
				"name":  scalarProp(),
			},
		},
	}
}

func scalarProp() map[string]any {
	return map[string]any{"type": []string{"string", "number", "null"}}
}
