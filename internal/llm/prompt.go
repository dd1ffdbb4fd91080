package llm

import "strings"

// RosterPrompt is the fixed instruction sent with every image.
var RosterPrompt = strings.Join([]string{
	"Extract all employee CLOCK NO and NAME from this image.",
	"RULES (VERY IMPORTANT):",
	"- RETURN ONLY JSON",
	"- NO COMMENT, NO CODE BLOCK, NO MARKDOWN, NO EXTRA TEXT",
	"- ALWAYS RETURN A LIST [] (even if empty)",
	"- JSON FORMAT EXACTLY LIKE:",
	`[`,
	`  {"clock": "A21646", "name": "Sanjay Kumar"}`,
	`]`,
	"Now return ONLY the JSON list:",
}, "\n")

// BuildUserPrompt appends the filename hint, when known, to the fixed prompt.
func BuildUserPrompt(req ExtractRequest) string {
	name := strings.TrimSpace(req.Filename)
	if name == "" {
		return RosterPrompt
	}
	return RosterPrompt + "\n\nFilename: " + name
}
