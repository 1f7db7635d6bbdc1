package notes

import (
	"regexp"
	"strings"
)

// Canonical callout markers for the three note sections.
const (
	MarkerCornell   = "[!cornell]"
	MarkerSummary   = "[!summary]"
	MarkerAdLibitum = "[!ad-libitum]"
)

var (
	cornellMarkerRe   = regexp.MustCompile(`(?i)\[{1,2}!cornell\]{1,2}`)
	summaryMarkerRe   = regexp.MustCompile(`(?i)\[{1,2}!summary\]{1,2}`)
	adLibitumMarkerRe = regexp.MustCompile(`(?i)\[{1,2}!ad[-_]?libitum\]{1,2}`)

	quotePrefixRe = regexp.MustCompile(`^[>\s]+`)
	headingRe     = regexp.MustCompile(`^(#+)\s+\S`)
)

// sectionType tracks where the cursor is inside the cornell block.
type sectionType int

const (
	sectionNone sectionType = iota
	sectionList
	sectionConcept
)

// FormatNote rewrites loosely formatted model output into the canonical
// triple-callout structure. The passes are ordered: later passes assume the
// normalizations of earlier ones already happened.
func FormatNote(markdown string) string {
	out := normalizeMarkers(markdown)
	out = restructureCornell(out)
	out = restructureSingleDepth(out, MarkerSummary, MarkerCornell, MarkerAdLibitum)
	out = restructureSingleDepth(out, MarkerAdLibitum, MarkerCornell, MarkerSummary)
	out = ensureSectionSpacing(out)
	out = cleanupWhitespace(out)
	return out
}

// normalizeMarkers collapses doubled brackets ([[!cornell]]), alternate
// ad-libitum spellings and case variants to the canonical marker forms.
func normalizeMarkers(text string) string {
	text = cornellMarkerRe.ReplaceAllString(text, MarkerCornell)
	text = summaryMarkerRe.ReplaceAllString(text, MarkerSummary)
	text = adLibitumMarkerRe.ReplaceAllString(text, MarkerAdLibitum)
	return text
}

func stripQuotePrefix(line string) string {
	return quotePrefixRe.ReplaceAllString(line, "")
}

// restructureCornell normalizes quote-marker depth inside the cornell block.
// Depth-2 headings open the cues/reference list section, depth >=3 headings
// open concept subsections; both are nested one level deeper than the block
// itself (two quote markers). Everything outside the block passes through.
func restructureCornell(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	inBlock := false
	section := sectionNone
	sawList := false

	for _, line := range lines {
		lower := strings.ToLower(line)

		if strings.Contains(lower, MarkerCornell) {
			inBlock = true
			section = sectionNone
			sawList = false
			out = append(out, "> "+stripQuotePrefix(line))
			continue
		}

		if inBlock && (strings.Contains(lower, MarkerSummary) || strings.Contains(lower, MarkerAdLibitum)) {
			inBlock = false
			section = sectionNone
			sawList = false
		}

		if !inBlock {
			out = append(out, line)
			continue
		}

		content := strings.TrimSpace(stripQuotePrefix(line))

		if content == "" {
			switch section {
			case sectionList:
				out = append(out, "> >")
			case sectionConcept:
				// blank lines are suppressed inside concept prose
			default:
				out = append(out, ">")
			}
			continue
		}

		if m := headingRe.FindStringSubmatch(content); m != nil {
			depth := len(m[1])
			switch {
			case depth == 1:
				// the block's own title line stays at callout depth
				out = append(out, "> "+content)
			case depth == 2:
				section = sectionList
				sawList = true
				out = append(out, "> > "+content)
			default:
				// separator before the first concept heading after the list
				if section != sectionConcept && sawList {
					out = append(out, ">")
				}
				section = sectionConcept
				out = append(out, "> > "+content)
			}
			continue
		}

		if section != sectionNone {
			out = append(out, "> > "+content)
		} else {
			out = append(out, "> "+content)
		}
	}

	return strings.Join(out, "\n")
}

// restructureSingleDepth re-emits every line of the block opened by marker
// with exactly one quote marker. The block ends at any of the exit markers.
func restructureSingleDepth(text, marker string, exits ...string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	inBlock := false

	for _, line := range lines {
		lower := strings.ToLower(line)

		if strings.Contains(lower, marker) {
			inBlock = true
			out = append(out, "> "+stripQuotePrefix(line))
			continue
		}

		if inBlock {
			for _, exit := range exits {
				if strings.Contains(lower, exit) {
					inBlock = false
					break
				}
			}
		}

		if !inBlock {
			out = append(out, line)
			continue
		}

		content := stripQuotePrefix(line)
		if strings.TrimSpace(content) == "" {
			out = append(out, ">")
		} else {
			out = append(out, "> "+content)
		}
	}

	return strings.Join(out, "\n")
}

func isMarkerLine(line string) bool {
	rest := strings.TrimPrefix(line, "> ")
	return strings.HasPrefix(rest, MarkerCornell) ||
		strings.HasPrefix(rest, MarkerSummary) ||
		strings.HasPrefix(rest, MarkerAdLibitum)
}

// ensureSectionSpacing inserts a bare quote-marker line before a callout
// marker that directly follows quoted content, so sections stay visually
// separated without breaking the blockquote chain.
func ensureSectionSpacing(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if isMarkerLine(line) && len(out) > 0 {
			prev := out[len(out)-1]
			if strings.HasPrefix(prev, ">") && strings.TrimSpace(strings.Trim(prev, "> ")) != "" {
				out = append(out, ">")
			}
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// cleanupWhitespace trims trailing whitespace and collapses runs of more
// than two consecutive blank or bare-quote-marker lines down to two.
func cleanupWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	blanks := 0
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" || line == ">" {
			blanks++
			if blanks <= 2 {
				out = append(out, line)
			}
			continue
		}
		blanks = 0
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
