package notes

import (
	"strings"
	"testing"
)

func TestNormalizeMarkerVariants(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"[[!cornell]]", "[!cornell]"},
		{"[[!CORNELL]]", "[!cornell]"},
		{"[!Cornell]", "[!cornell]"},
		{"[[!summary]]", "[!summary]"},
		{"[!SUMMARY]", "[!summary]"},
		{"[[!ad-libitum]]", "[!ad-libitum]"},
		{"[[!adlibitum]]", "[!ad-libitum]"},
		{"[[!ad_libitum]]", "[!ad-libitum]"},
		{"[!ADLIBITUM]", "[!ad-libitum]"},
		{"[!Ad_Libitum]", "[!ad-libitum]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizeMarkers(tt.input); got != tt.want {
				t.Errorf("normalizeMarkers(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatNoteScenarioA(t *testing.T) {
	input := "[!cornell]\n" +
		"## Questions\n" +
		"- q1\n" +
		"### Concept A\n" +
		"text\n" +
		"[!summary]\n" +
		"Sum text\n" +
		"[!ad-libitum]\n" +
		"Adv text"

	want := "> [!cornell]\n" +
		"> > ## Questions\n" +
		"> > - q1\n" +
		">\n" +
		"> > ### Concept A\n" +
		"> > text\n" +
		">\n" +
		"> [!summary]\n" +
		"> Sum text\n" +
		">\n" +
		"> [!ad-libitum]\n" +
		"> Adv text"

	if got := FormatNote(input); got != want {
		t.Errorf("FormatNote mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatNoteScenarioB(t *testing.T) {
	input := "[[!cornell]]\n" +
		"## Cues\n" +
		"- c1\n" +
		"[!summary]\n" +
		"s\n" +
		"[!ADLIBITUM]\n" +
		"a"

	got := FormatNote(input)

	if strings.Contains(got, "[[!cornell]]") {
		t.Error("doubled cornell marker survived formatting")
	}
	if strings.Contains(got, "[!ADLIBITUM]") || strings.Contains(got, "ADLIBITUM") {
		t.Error("ad-libitum marker was not normalized")
	}
	if !strings.Contains(got, "> [!cornell]") {
		t.Error("canonical cornell marker line missing")
	}
	if !strings.Contains(got, "> [!ad-libitum]") {
		t.Error("canonical ad-libitum marker line missing")
	}
}

// Every non-blank line between the cornell marker and the next marker must
// carry exactly two quote markers once a sub-section has started, and
// exactly one before that.
func TestFormatNoteStructuralInvariant(t *testing.T) {
	input := "intro outside the block\n" +
		"> > [!cornell] Some Topic\n" +
		"# Some Topic\n" +
		"## Questions\n" +
		"- what is X?\n" +
		"\n" +
		"## Reference Points\n" +
		"- slides 1-4\n" +
		"### X in detail\n" +
		"prose about X\n" +
		"#### even deeper\n" +
		"more prose\n" +
		"[!summary]\n" +
		"the gist\n" +
		"[!ad-libitum]\n" +
		"extras"

	lines := strings.Split(FormatNote(input), "\n")

	inCornell := false
	inSection := false
	for _, line := range lines {
		lower := strings.ToLower(line)
		if strings.Contains(lower, MarkerCornell) {
			inCornell = true
			inSection = false
			if !strings.HasPrefix(line, "> [") {
				t.Errorf("cornell marker line %q should carry exactly one quote marker", line)
			}
			continue
		}
		if strings.Contains(lower, MarkerSummary) || strings.Contains(lower, MarkerAdLibitum) {
			inCornell = false
			continue
		}
		if !inCornell {
			continue
		}
		trimmed := strings.TrimRight(line, " ")
		if trimmed == "" || trimmed == ">" || trimmed == "> >" {
			continue
		}
		if strings.HasPrefix(trimmed, "> > ") {
			inSection = true
			continue
		}
		if inSection {
			t.Errorf("line %q inside a sub-section lacks the double quote marker", line)
		} else if !strings.HasPrefix(trimmed, "> ") {
			t.Errorf("line %q inside the cornell block lacks a quote marker", line)
		}
	}
}

// A level-4 heading stays in the concept section at two quote markers.
func TestFormatNoteDeepHeadingStaysAtTwoMarkers(t *testing.T) {
	input := "[!cornell]\n### Concept\ntext\n#### Detail\nmore"
	got := FormatNote(input)
	if !strings.Contains(got, "> > #### Detail") {
		t.Errorf("level-4 heading not kept at two quote markers:\n%s", got)
	}
}

// Re-running the formatter on well-formed output must be
// validator-equivalent to the input (whitespace may still shift).
func TestFormatNoteRoundTripValidatorEquivalent(t *testing.T) {
	wellFormed := FormatNote("[!cornell]\n" +
		"## Questions\n" +
		"- q1\n" +
		"### Concept A\n" +
		"text\n" +
		"[!summary]\n" +
		"Sum text\n" +
		"[!ad-libitum]\n" +
		"Adv text")

	again := FormatNote(wellFormed)

	before := ValidateFormat(wellFormed)
	after := ValidateFormat(again)

	if before.Valid != after.Valid {
		t.Errorf("round trip changed validity: %v -> %v", before.Valid, after.Valid)
	}
	if len(before.Issues) != len(after.Issues) {
		t.Errorf("round trip changed issues: %v -> %v", before.Issues, after.Issues)
	}
}

// A missing marker means the corresponding pass never fires; the formatter
// must not invent blocks.
func TestFormatNoteMissingBlocksNotInvented(t *testing.T) {
	input := "[!cornell]\n## Cues\n- c"
	got := FormatNote(input)
	if strings.Contains(got, MarkerSummary) || strings.Contains(got, MarkerAdLibitum) {
		t.Errorf("formatter invented a missing block:\n%s", got)
	}
}

func TestFormatNoteCollapsesBlankRuns(t *testing.T) {
	input := "[!summary]\ntext\n\n\n\n\nmore"
	got := FormatNote(input)
	if strings.Contains(got, ">\n>\n>\n") {
		t.Errorf("blank run not collapsed:\n%s", got)
	}
}
