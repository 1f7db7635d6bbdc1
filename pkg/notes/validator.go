package notes

import "regexp"

// ValidationResult reports structural issues found in a formatted note.
// Issues are diagnostic only: callers log them but never block on them.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

var (
	doubledCornellRe   = regexp.MustCompile(`(?i)\[\[!cornell\]\]`)
	doubledSummaryRe   = regexp.MustCompile(`(?i)\[\[!summary\]\]`)
	doubledAdLibitumRe = regexp.MustCompile(`(?i)\[\[!ad-libitum\]\]`)

	hasCornellRe   = regexp.MustCompile(`(?i)\[!cornell\]`)
	hasSummaryRe   = regexp.MustCompile(`(?i)\[!summary\]`)
	hasAdLibitumRe = regexp.MustCompile(`(?i)\[!ad-libitum\]`)

	anyMarkerRe  = regexp.MustCompile(`(?i)\[!(?:summary|ad-libitum)\]`)
	subheadingRe = regexp.MustCompile(`(?m)^\s*(?:>\s*)*#{2,}\s+\S`)
)

// ValidateFormat checks a note for the canonical triple-callout structure.
// Every check runs independently; Valid is true iff no issue was found.
func ValidateFormat(markdown string) ValidationResult {
	var issues []string

	if doubledCornellRe.MatchString(markdown) {
		issues = append(issues, "Found [[!cornell]] instead of [!cornell]")
	}
	if doubledSummaryRe.MatchString(markdown) {
		issues = append(issues, "Found [[!summary]] instead of [!summary]")
	}
	if doubledAdLibitumRe.MatchString(markdown) {
		issues = append(issues, "Found [[!ad-libitum]] instead of [!ad-libitum]")
	}

	hasCornell := hasCornellRe.MatchString(markdown)
	if !hasCornell {
		issues = append(issues, "Missing [!cornell] section")
	}
	if !hasSummaryRe.MatchString(markdown) {
		issues = append(issues, "Missing [!summary] section")
	}
	if !hasAdLibitumRe.MatchString(markdown) {
		issues = append(issues, "Missing [!ad-libitum] section")
	}

	if hasCornell && !subheadingRe.MatchString(cornellSpan(markdown)) {
		issues = append(issues, "Cornell section is missing subsections")
	}

	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}

// cornellSpan extracts the text between the cornell marker and the next
// marker, or the end of the text when no other marker follows.
func cornellSpan(markdown string) string {
	loc := hasCornellRe.FindStringIndex(markdown)
	if loc == nil {
		return ""
	}
	span := markdown[loc[1]:]
	if next := anyMarkerRe.FindStringIndex(span); next != nil {
		span = span[:next[0]]
	}
	return span
}
