package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

// StripCodeFences removes every ```json and ``` marker and trims the result.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ParseRosterReply turns a provider's text reply into raw extractions.
// Malformed JSON, a non-array, or an array holding non-objects is an extraction error.
// Numeric values are coerced to their decimal text and nulls to "".
func ParseRosterReply(text string, log *zap.SugaredLogger) ([]roster.RawExtraction, []byte, error) {
	log = common.OrNop(log)

	cleaned := StripCodeFences(text)
	if cleaned == "" {
		return nil, nil, common.ExtractionError("empty reply")
	}
	v, err := decodeJSON([]byte(cleaned))
	if err != nil {
		return nil, []byte(cleaned), common.ExtractionError("reply is not JSON: %v", err)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, []byte(cleaned), common.ExtractionError("reply is a JSON %s, not a list", jsonKind(v))
	}
	if err := ValidateRoster(v); err != nil {
		return nil, []byte(cleaned), common.ExtractionError("%v", err)
	}

	out := make([]roster.RawExtraction, 0, len(items))
	var coerced int
	for _, it := range items {
		obj := it.(map[string]any)
		clock, c1 := coerceString(obj["clock"])
		name, c2 := coerceString(obj["name"])
		if c1 || c2 {
			coerced++
		}
		out = append(out, roster.RawExtraction{Clock: clock, Name: name})
	}
	if coerced > 0 {
		log.Warnw("llm.extract.lenient_coerce", "items", coerced)
	}
	return out, []byte(cleaned), nil
}

// coerceString reports whether v needed conversion.
func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, false
	case json.Number:
		return t.String(), true
	case float64:
		return fmt.Sprintf("%v", t), true
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", t), true
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
