package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserReturnsLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{"login":"octocat","name":"Octo Cat"}`)
	}))
	defer srv.Close()

	c := NewClient("test-token", srv.URL)
	user, err := c.User(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, "Octo Cat", user.Name)
}

func TestUserMissingToken(t *testing.T) {
	c := NewClient("", "http://localhost:1")
	_, err := c.User(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestUserInvalidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Bad credentials"}`)
	}))
	defer srv.Close()

	c := NewClient("bad-token", srv.URL)
	_, err := c.User(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Bad credentials", apiErr.Message)
}

func TestRepoFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/notes", r.URL.Path)
		fmt.Fprint(w, `{"full_name":"octocat/notes","private":true,"default_branch":"main"}`)
	}))
	defer srv.Close()

	c := NewClient("test-token", srv.URL)
	repo, err := c.Repo(context.Background(), "octocat/notes")
	require.NoError(t, err)
	assert.Equal(t, "octocat/notes", repo.FullName)
	assert.True(t, repo.Private)
	assert.Equal(t, "main", repo.DefaultBranch)
}

func TestPushFileCreatesWhenAbsent(t *testing.T) {
	var put pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/notes/contents/01%20-%20Cells.md", r.URL.RequestURI())
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		case http.MethodPut:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&put))
			fmt.Fprint(w, `{}`)
		}
	}))
	defer srv.Close()

	c := NewClient("test-token", srv.URL)
	err := c.PushFile(context.Background(), "octocat/notes", "01 - Cells.md",
		"Update Cornell notes: 01 - Cells.md", []byte("# Cells"))
	require.NoError(t, err)

	assert.Equal(t, "Update Cornell notes: 01 - Cells.md", put.Message)
	assert.Empty(t, put.Sha)

	decoded, err := base64.StdEncoding.DecodeString(put.Content)
	require.NoError(t, err)
	assert.Equal(t, "# Cells", string(decoded))
}

func TestPushFileUpdatesWithSha(t *testing.T) {
	var put pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"sha":"abc123"}`)
		case http.MethodPut:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&put))
			fmt.Fprint(w, `{}`)
		}
	}))
	defer srv.Close()

	c := NewClient("test-token", srv.URL)
	err := c.PushFile(context.Background(), "octocat/notes", "notes.md", "update", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", put.Sha)
}

func TestPushFilePropagatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message":"Resource not accessible by personal access token"}`)
		}
	}))
	defer srv.Close()

	c := NewClient("test-token", srv.URL)
	err := c.PushFile(context.Background(), "octocat/notes", "notes.md", "update", []byte("x"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "not accessible")
}
