package factory

import (
	"sync"

	"github.com/reletz/cornelius/pkg/llm"
	"github.com/reletz/cornelius/pkg/llm/openai"
)

// Cache hands out one provider per (credential, endpoint) pair. The API key
// arrives with every request and is never persisted, so the cache is the
// only place a live provider exists between requests.
type Cache struct {
	mu         sync.Mutex
	key        string
	provider   llm.LLMProvider
	model      string
	defaultURL string
}

// NewCache builds a cache for the given model. defaultURL is used when a
// caller does not pin an endpoint; empty means the provider's default.
func NewCache(model, defaultURL string) *Cache {
	return &Cache{model: model, defaultURL: defaultURL}
}

// Provider returns the cached provider when the credential and endpoint
// match the previous call, otherwise it builds a fresh one.
func (c *Cache) Provider(apiKey, baseURL string) (llm.LLMProvider, error) {
	if apiKey == "" {
		return nil, &llm.ConfigurationError{Reason: "api key is required"}
	}
	if baseURL == "" {
		baseURL = c.defaultURL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cacheKey := apiKey + "|" + baseURL
	if c.provider != nil && c.key == cacheKey {
		return c.provider, nil
	}

	c.provider = openai.NewOpenAIProvider(apiKey, baseURL, c.model)
	c.key = cacheKey
	return c.provider, nil
}

// Probe builds a throwaway provider for credential checks. It never reads
// or replaces the cached entry, so probing a candidate key cannot evict the
// provider an active session is using.
func (c *Cache) Probe(apiKey, baseURL string) (llm.LLMProvider, error) {
	if apiKey == "" {
		return nil, &llm.ConfigurationError{Reason: "api key is required"}
	}
	if baseURL == "" {
		baseURL = c.defaultURL
	}
	return openai.NewOpenAIProvider(apiKey, baseURL, c.model), nil
}

// Reset drops the cached provider and its credential.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provider = nil
	c.key = ""
}
