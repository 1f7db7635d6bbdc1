package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clusteringPayload = `{
	"clusters": [
		{
			"title": "Photosynthesis",
			"keywords": ["chlorophyll", "light"],
			"source_mapping": [{"source": "bio.pdf", "pages": "1-4"}],
			"summary": "How plants make energy.",
			"estimated_word_count": 600,
			"unique_concepts": ["light-dependent reactions"]
		},
		{
			"title": "Cellular Respiration",
			"keywords": ["mitochondria"]
		}
	],
	"total_clusters": 2
}`

func TestParseResponsePlainJSON(t *testing.T) {
	res, err := ParseResponse(clusteringPayload)
	require.NoError(t, err)

	require.Len(t, res.Clusters, 2)
	assert.Equal(t, 2, res.TotalClusters)
	assert.Equal(t, "Photosynthesis", res.Clusters[0].Title)
	assert.Equal(t, []string{"chlorophyll", "light"}, res.Clusters[0].Keywords)
	require.Len(t, res.Clusters[0].SourceMapping, 1)
	assert.Equal(t, "bio.pdf", res.Clusters[0].SourceMapping[0].Source)
	assert.Equal(t, "1-4", res.Clusters[0].SourceMapping[0].Pages)
}

func TestParseResponseFencedJSON(t *testing.T) {
	raw := "Here are the clusters:\n```json\n" + clusteringPayload + "\n```\nDone."
	res, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Len(t, res.Clusters, 2)
}

func TestParseResponseBareFence(t *testing.T) {
	raw := "```\n" + clusteringPayload + "\n```"
	res, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Len(t, res.Clusters, 2)
}

func TestParseResponseUnterminatedFence(t *testing.T) {
	raw := "```json\n" + clusteringPayload
	res, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Len(t, res.Clusters, 2)
}

func TestParseResponseSurroundingProse(t *testing.T) {
	raw := "Sure! " + clusteringPayload + " Let me know if you need changes."
	res, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Len(t, res.Clusters, 2)
}

func TestParseResponseDefaultsTotal(t *testing.T) {
	res, err := ParseResponse(`{"clusters":[{"title":"A"}]}`)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalClusters)
}

func TestParseResponseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json at all", "I could not cluster this."},
		{"invalid json", "{clusters: oops}"},
		{"empty clusters", `{"clusters":[]}`},
		{"empty title", `{"clusters":[{"title":"  "}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestFallbackResult(t *testing.T) {
	res := FallbackResult([]string{"a.pdf", "b.pdf"})

	require.Len(t, res.Clusters, 1)
	assert.Equal(t, "All Content", res.Clusters[0].Title)
	require.Len(t, res.Clusters[0].SourceMapping, 2)
	assert.Equal(t, "a.pdf", res.Clusters[0].SourceMapping[0].Source)
	assert.Equal(t, 1, res.TotalClusters)
	assert.NotEmpty(t, res.ProcessingNotes)
}
