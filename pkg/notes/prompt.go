package notes

import (
	"fmt"
	"strings"
)

const (
	maxSourceChars         = 30000
	maxExclusionKeywords   = 7
	maxExclusionConcepts   = 5
	maxExclusionSummaryLen = 150
)

// SiblingTopic carries the parts of another topic that feed the exclusion
// context. All fields except Title are optional.
type SiblingTopic struct {
	Title          string
	Keywords       []string
	Summary        string
	UniqueConcepts []string
}

// PromptOptions selects the prompt mode for a generation run.
type PromptOptions struct {
	UseDefault   bool   // false switches to CustomPrompt
	Language     string // "en" or "id"
	Depth        string // "concise", "balanced" or "indepth"
	CustomPrompt string
}

// DefaultPromptOptions returns the balanced English default.
func DefaultPromptOptions() PromptOptions {
	return PromptOptions{UseDefault: true, Language: "en", Depth: "balanced"}
}

// PromptInput is everything needed to assemble one generation prompt.
type PromptInput struct {
	TopicTitle string
	SourceText string
	Options    PromptOptions
	Siblings   []SiblingTopic
}

// BuildPrompt assembles the final prompt text. It is a pure string builder:
// missing optional fields are treated as empty and it never fails.
//
// Note that the exclusion context is only a prompt instruction; the model
// can still duplicate sibling content. Uniqueness across topics is
// best-effort by design.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	exclusion := buildExclusionContext(in.Siblings)

	if !in.Options.UseDefault && strings.TrimSpace(in.Options.CustomPrompt) != "" {
		b.WriteString(strings.TrimSpace(in.Options.CustomPrompt))
		b.WriteString("\n")
		b.WriteString(exclusion)
		b.WriteString(customFooter)
	} else {
		b.WriteString(baseTemplate)
		b.WriteString(modifierFor(in.Options.Language, in.Options.Depth))
		b.WriteString(exclusion)
		b.WriteString(sectionTokenFooter)
	}

	b.WriteString("\n---\n\n## Generate Notes for This Topic\n\n")
	fmt.Fprintf(&b, "**Topic Title:** %s\n\n", in.TopicTitle)
	b.WriteString("**Source Materials:**\n\n")
	b.WriteString(truncate(in.SourceText, maxSourceChars))
	b.WriteString("\n")

	return b.String()
}

func modifierFor(language, depth string) string {
	key := language + "-" + depth
	if m, ok := languageDepthModifiers[key]; ok {
		return m
	}
	return languageDepthModifiers[defaultModifierKey]
}

// buildExclusionContext lists, per sibling topic, the content the model
// must not elaborate on, followed by a deduplicated union of every sibling
// keyword. Returns "" when there are no siblings.
func buildExclusionContext(siblings []SiblingTopic) string {
	if len(siblings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(exclusionHeading)

	for _, s := range siblings {
		fmt.Fprintf(&b, "\n### %s\n", s.Title)
		if kw := capStrings(s.Keywords, maxExclusionKeywords); len(kw) > 0 {
			fmt.Fprintf(&b, "- Keywords: %s\n", strings.Join(kw, ", "))
		}
		if uc := capStrings(s.UniqueConcepts, maxExclusionConcepts); len(uc) > 0 {
			fmt.Fprintf(&b, "- Unique concepts: %s\n", strings.Join(uc, ", "))
		}
		if s.Summary != "" {
			fmt.Fprintf(&b, "- Covered as: %s\n", truncate(s.Summary, maxExclusionSummaryLen))
		}
	}

	if union := keywordUnion(siblings); len(union) > 0 {
		b.WriteString("\nAll forbidden keywords: ")
		b.WriteString(strings.Join(union, ", "))
		b.WriteString("\n")
	}

	return b.String()
}

// keywordUnion deduplicates all sibling keywords, preserving first-seen order.
func keywordUnion(siblings []SiblingTopic) []string {
	seen := make(map[string]struct{})
	var union []string
	for _, s := range siblings {
		for _, kw := range s.Keywords {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			union = append(union, kw)
		}
	}
	return union
}

func capStrings(values []string, max int) []string {
	if len(values) > max {
		return values[:max]
	}
	return values
}

func truncate(text string, max int) string {
	if len(text) > max {
		return text[:max]
	}
	return text
}
