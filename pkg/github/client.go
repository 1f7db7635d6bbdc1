package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"

	requestTimeout = 30 * time.Second
)

// Client talks to the GitHub REST v3 API with a personal access token. The
// token arrives per request from the caller and lives only as long as the
// client built for that request.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		token:   token,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

type Repo struct {
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
}

// APIError carries a non-2xx GitHub response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api error (status %d): %s", e.StatusCode, e.Message)
}

// User returns the account the token belongs to. A 401 means the token is
// invalid or expired.
func (c *Client) User(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Repo fetches a repository by its owner/name pair.
func (c *Client) Repo(ctx context.Context, fullName string) (*Repo, error) {
	var repo Repo
	if err := c.do(ctx, http.MethodGet, "/repos/"+fullName, nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

type contentResponse struct {
	Sha string `json:"sha"`
}

type pushRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Sha     string `json:"sha,omitempty"`
}

// PushFile creates or updates one file in the repository. The contents API
// requires the current blob sha when updating, so an existing file is
// looked up first; a 404 there just means this push creates it.
func (c *Client) PushFile(ctx context.Context, fullName, path, message string, content []byte) error {
	contentPath := fmt.Sprintf("/repos/%s/contents/%s", fullName, escapePath(path))

	var existing contentResponse
	err := c.do(ctx, http.MethodGet, contentPath, nil, &existing)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
			return err
		}
	}

	body := pushRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Sha:     existing.Sha,
	}
	return c.do(ctx, http.MethodPut, contentPath, &body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.token == "" {
		return &APIError{StatusCode: http.StatusUnauthorized, Message: "personal access token is required"}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiBody struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(bodyBytes, &apiBody)
		if apiBody.Message == "" {
			apiBody.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiBody.Message}
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// escapePath encodes each segment while keeping the separators, so note
// titles with spaces survive the contents API URL.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
