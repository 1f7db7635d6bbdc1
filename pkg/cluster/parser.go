package cluster

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SourceRange points a topic back at the pages of one uploaded document.
type SourceRange struct {
	Source string `json:"source"`
	Pages  string `json:"pages,omitempty"`
}

// Topic is one cluster proposed by the model.
type Topic struct {
	ID                 string        `json:"id,omitempty"`
	Title              string        `json:"title"`
	Keywords           []string      `json:"keywords,omitempty"`
	SourceMapping      []SourceRange `json:"source_mapping,omitempty"`
	Summary            string        `json:"summary,omitempty"`
	EstimatedWordCount int           `json:"estimated_word_count,omitempty"`
	UniqueConcepts     []string      `json:"unique_concepts,omitempty"`
}

// Result is the parsed clustering response.
type Result struct {
	Clusters        []Topic `json:"clusters"`
	TotalClusters   int     `json:"total_clusters,omitempty"`
	ProcessingNotes string  `json:"processing_notes,omitempty"`
}

// ParseResponse extracts the JSON clustering payload from a raw model
// response. Models routinely wrap JSON in a markdown fence or add prose
// around it, so the parser first slices out the fenced block, then falls
// back to the outermost brace pair.
func ParseResponse(raw string) (*Result, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object found in clustering response")
	}

	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to parse clustering response: %w", err)
	}

	if len(result.Clusters) == 0 {
		return nil, fmt.Errorf("clustering response contains no clusters")
	}

	for i := range result.Clusters {
		result.Clusters[i].Title = strings.TrimSpace(result.Clusters[i].Title)
		if result.Clusters[i].Title == "" {
			return nil, fmt.Errorf("cluster %d has an empty title", i)
		}
	}

	if result.TotalClusters == 0 {
		result.TotalClusters = len(result.Clusters)
	}

	return &result, nil
}

func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		rest := text[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		// Unterminated fence, take what follows.
		text = strings.TrimSpace(rest)
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		text = strings.TrimSpace(rest)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// FallbackResult covers the case where the model reply is unusable: a
// single catch-all topic spanning every document, so generation can still
// proceed.
func FallbackResult(sources []string) *Result {
	mapping := make([]SourceRange, 0, len(sources))
	for _, s := range sources {
		mapping = append(mapping, SourceRange{Source: s})
	}
	return &Result{
		Clusters: []Topic{
			{
				Title:         "All Content",
				Summary:       "All uploaded material, unclustered.",
				SourceMapping: mapping,
			},
		},
		TotalClusters:   1,
		ProcessingNotes: "fallback: clustering response could not be parsed",
	}
}
