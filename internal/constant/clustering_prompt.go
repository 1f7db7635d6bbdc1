package constant

// ClusteringPrompt asks the model to segment the combined sources into
// study topics. The response contract matches pkg/cluster.Result.
const ClusteringPrompt = `# Topic Clustering

You are an expert academic content analyst. Segment the source materials
below into coherent study topics suitable for Cornell-style notes.

Respond with ONLY a JSON object of this exact shape:

{
  "clusters": [
    {
      "title": "Topic title",
      "keywords": ["keyword1", "keyword2"],
      "source_mapping": [{"source": "filename.pdf", "pages": "1-4"}],
      "summary": "One or two sentences on what this topic covers.",
      "estimated_word_count": 600,
      "unique_concepts": ["concept only this topic covers"]
    }
  ],
  "total_clusters": 1,
  "processing_notes": "optional remarks"
}

Rules:
- 2 to 12 clusters; merge fragments that cannot stand alone as a note.
- Every source document must appear in at least one source_mapping.
- Keywords and unique_concepts must come from the sources, not invented.
- No text outside the JSON object.

## Source Materials

`

// SourceSeparator marks document boundaries inside the clustering prompt so
// the model can attribute content to filenames.
const SourceSeparator = "=== SOURCE: %s ===\n\n"
