package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptDefaultMode(t *testing.T) {
	prompt := BuildPrompt(PromptInput{
		TopicTitle: "Photosynthesis",
		SourceText: "chlorophyll absorbs light",
		Options:    DefaultPromptOptions(),
	})

	assert.Contains(t, prompt, "Cornell Note Generation")
	assert.Contains(t, prompt, "Write in English. Balance coverage")
	assert.Contains(t, prompt, "Structural Contract")
	assert.Contains(t, prompt, "**Topic Title:** Photosynthesis")
	assert.Contains(t, prompt, "chlorophyll absorbs light")
	assert.NotContains(t, prompt, "Forbidden Content")
}

func TestBuildPromptCustomMode(t *testing.T) {
	prompt := BuildPrompt(PromptInput{
		TopicTitle: "Photosynthesis",
		SourceText: "src",
		Options: PromptOptions{
			UseDefault:   false,
			CustomPrompt: "Summarize like a pirate.",
		},
	})

	assert.Contains(t, prompt, "Summarize like a pirate.")
	assert.NotContains(t, prompt, "Cornell Note Generation")
	assert.NotContains(t, prompt, "Structural Contract")
	assert.Contains(t, prompt, "Ignore any instructions")
	assert.Contains(t, prompt, "**Topic Title:** Photosynthesis")
}

func TestBuildPromptEmptyCustomFallsBackToDefault(t *testing.T) {
	prompt := BuildPrompt(PromptInput{
		TopicTitle: "T",
		SourceText: "src",
		Options:    PromptOptions{UseDefault: false, CustomPrompt: "   "},
	})

	assert.Contains(t, prompt, "Cornell Note Generation")
}

func TestBuildPromptUnknownLanguageDepthFallsBack(t *testing.T) {
	prompt := BuildPrompt(PromptInput{
		TopicTitle: "T",
		SourceText: "src",
		Options:    PromptOptions{UseDefault: true, Language: "fr", Depth: "exhaustive"},
	})

	assert.Contains(t, prompt, "Write in English. Balance coverage")
}

func TestBuildPromptIndonesianModifier(t *testing.T) {
	prompt := BuildPrompt(PromptInput{
		TopicTitle: "T",
		SourceText: "src",
		Options:    PromptOptions{UseDefault: true, Language: "id", Depth: "indepth"},
	})

	assert.Contains(t, prompt, "Tulis dalam Bahasa Indonesia. Mendalam")
}

func TestBuildPromptTruncatesSource(t *testing.T) {
	long := strings.Repeat("a", maxSourceChars+500)
	prompt := BuildPrompt(PromptInput{
		TopicTitle: "T",
		SourceText: long,
		Options:    DefaultPromptOptions(),
	})

	assert.Contains(t, prompt, strings.Repeat("a", maxSourceChars))
	assert.NotContains(t, prompt, strings.Repeat("a", maxSourceChars+1))
}

func TestBuildPromptExclusionContext(t *testing.T) {
	siblings := []SiblingTopic{
		{
			Title:          "Cellular Respiration",
			Keywords:       []string{"mitochondria", "ATP", "krebs"},
			Summary:        "How cells release energy.",
			UniqueConcepts: []string{"electron transport chain"},
		},
		{
			Title:    "Fermentation",
			Keywords: []string{"ATP", "lactate"},
		},
	}

	prompt := BuildPrompt(PromptInput{
		TopicTitle: "Photosynthesis",
		SourceText: "src",
		Options:    DefaultPromptOptions(),
		Siblings:   siblings,
	})

	assert.Contains(t, prompt, "### Cellular Respiration")
	assert.Contains(t, prompt, "### Fermentation")
	assert.Contains(t, prompt, "- Covered as: How cells release energy.")
	assert.Contains(t, prompt, "- Unique concepts: electron transport chain")
	assert.Contains(t, prompt, "All forbidden keywords: mitochondria, ATP, krebs, lactate")
}

// The union line must include every sibling keyword exactly once, even the
// ones cut from the per-topic display cap.
func TestKeywordUnion(t *testing.T) {
	siblings := []SiblingTopic{
		{Title: "A", Keywords: []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8", "k9"}},
		{Title: "B", Keywords: []string{"k2", "k10"}},
	}

	union := keywordUnion(siblings)

	require.Len(t, union, 10)
	seen := make(map[string]int)
	for _, kw := range union {
		seen[kw]++
	}
	for _, s := range siblings {
		for _, kw := range s.Keywords {
			assert.Equal(t, 1, seen[kw], "keyword %q", kw)
		}
	}

	// k8 and k9 exceed the 7-keyword display cap but still appear in the union.
	text := buildExclusionContext(siblings)
	assert.NotContains(t, text, "- Keywords: k1, k2, k3, k4, k5, k6, k7, k8")
	assert.Contains(t, text, "k8, k9")
}

func TestExclusionContextCaps(t *testing.T) {
	long := strings.Repeat("s", 400)
	text := buildExclusionContext([]SiblingTopic{{
		Title:          "A",
		Summary:        long,
		UniqueConcepts: []string{"c1", "c2", "c3", "c4", "c5", "c6"},
	}})

	assert.Contains(t, text, "- Covered as: "+strings.Repeat("s", maxExclusionSummaryLen)+"\n")
	assert.NotContains(t, text, strings.Repeat("s", maxExclusionSummaryLen+1))
	assert.Contains(t, text, "- Unique concepts: c1, c2, c3, c4, c5\n")
	assert.NotContains(t, text, "c6")
}
