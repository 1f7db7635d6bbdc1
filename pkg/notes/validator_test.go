package notes

import "testing"

const validNote = "> [!cornell] Topic\n" +
	"> > ## Questions\n" +
	"> > - q1\n" +
	">\n" +
	"> > ### Concept\n" +
	"> > text\n" +
	">\n" +
	"> [!summary]\n" +
	"> the gist\n" +
	">\n" +
	"> [!ad-libitum]\n" +
	"> extras"

func TestValidateFormatValid(t *testing.T) {
	res := ValidateFormat(validNote)
	if !res.Valid {
		t.Errorf("expected valid, got issues: %v", res.Issues)
	}
	if len(res.Issues) != 0 {
		t.Errorf("expected no issues, got: %v", res.Issues)
	}
}

func TestValidateFormatMissingMarkers(t *testing.T) {
	tests := []struct {
		name      string
		markdown  string
		wantIssue string
	}{
		{
			"missing summary",
			"> [!cornell] T\n> > ## Cues\n> [!ad-libitum]\n> x",
			"Missing [!summary] section",
		},
		{
			"missing ad-libitum",
			"> [!cornell] T\n> > ## Cues\n> [!summary]\n> x",
			"Missing [!ad-libitum] section",
		},
		{
			"missing cornell",
			"> [!summary]\n> x\n> [!ad-libitum]\n> y",
			"Missing [!cornell] section",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateFormat(tt.markdown)
			if res.Valid {
				t.Fatal("expected invalid")
			}
			if len(res.Issues) != 1 {
				t.Fatalf("expected exactly one issue, got: %v", res.Issues)
			}
			if res.Issues[0] != tt.wantIssue {
				t.Errorf("issue = %q, want %q", res.Issues[0], tt.wantIssue)
			}
		})
	}
}

func TestValidateFormatDoubledMarkers(t *testing.T) {
	res := ValidateFormat("> [[!cornell]] T\n> > ## Cues\n> [!summary]\n> s\n> [!ad-libitum]\n> a")
	if res.Valid {
		t.Fatal("expected invalid")
	}
	found := false
	for _, issue := range res.Issues {
		if issue == "Found [[!cornell]] instead of [!cornell]" {
			found = true
		}
	}
	if !found {
		t.Errorf("doubled-marker issue not reported: %v", res.Issues)
	}
}

func TestValidateFormatMissingSubsections(t *testing.T) {
	res := ValidateFormat("> [!cornell] T\n> just prose\n> [!summary]\n> s\n> [!ad-libitum]\n> a")
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Issues) != 1 || res.Issues[0] != "Cornell section is missing subsections" {
		t.Errorf("unexpected issues: %v", res.Issues)
	}
}

func TestValidateFormatNeverMutates(t *testing.T) {
	input := validNote
	_ = ValidateFormat(input)
	if input != validNote {
		t.Error("input mutated")
	}
}
