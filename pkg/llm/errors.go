package llm

import (
	"fmt"
	"time"
)

// ConfigurationError means the provider cannot be built at all, typically a
// missing API key. Callers should fail the whole request rather than retry.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("llm configuration error: %s", e.Reason)
}

// TimeoutError means the model did not finish within the request deadline.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("llm request timed out after %s", e.Timeout)
}

// MalformedResponseError means the model replied with something too short to
// be a real note. Only non-streaming calls perform this check.
type MalformedResponseError struct {
	Length    int
	MinLength int
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("llm response too short: %d chars, expected at least %d", e.Length, e.MinLength)
}

// NetworkError wraps transport failures so callers can distinguish them from
// model-level errors.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("llm network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
