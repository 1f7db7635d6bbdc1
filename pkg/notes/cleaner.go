package notes

import "strings"

// Clean strips surrounding whitespace and code-fence artifacts from a raw
// model response. Each fence side is handled independently, so a response
// fenced on only one side is still cleaned. Clean is idempotent.
func Clean(text string) string {
	text = strings.TrimSpace(text)

	// Both prefix checks run in order on purpose: a ```markdown fence
	// immediately followed by a bare ``` is stripped in one pass.
	if strings.HasPrefix(text, "```markdown") {
		text = text[len("```markdown"):]
	}
	if strings.HasPrefix(text, "```") {
		text = text[3:]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-3]
	}

	return strings.TrimSpace(text)
}
