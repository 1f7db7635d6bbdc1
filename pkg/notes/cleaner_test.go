package notes

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "X", "X"},
		{"markdown fence", "```markdown\nX\n```", "X"},
		{"bare fence", "```\nX\n```", "X"},
		{"leading fence only", "```markdown\nX", "X"},
		{"trailing fence only", "X\n```", "X"},
		{"surrounding whitespace", "  \n\nX\n\n  ", "X"},
		{"fence with whitespace", "  ```markdown\nX\n```  ", "X"},
		{"empty", "", ""},
		{"only a fence", "```", ""},
		{"stacked leading fences", "```markdown```\nX", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"X",
		"```markdown\nX\n```",
		"```\nX\n```",
		"X\n```",
		"```markdown\nX",
		"   spaced   ",
		"",
		"```",
		"``` ```",
		"> [!cornell] Title\n> content",
	}

	for _, input := range inputs {
		once := Clean(input)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
