package service

import "github.com/reletz/cornelius/pkg/llm"

// ProviderSource resolves an LLM provider for a per-request credential.
// *factory.Cache is the production implementation.
type ProviderSource interface {
	Provider(apiKey, baseURL string) (llm.LLMProvider, error)

	// Probe builds a provider without touching the cached entry; used for
	// credential validation.
	Probe(apiKey, baseURL string) (llm.LLMProvider, error)
}
