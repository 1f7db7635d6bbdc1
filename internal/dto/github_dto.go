package dto

import (
	"github.com/google/uuid"
)

type GithubValidateRequest struct {
	Repo string `json:"repo" validate:"required,max=255"`
}

type GithubValidateResponse struct {
	Valid       bool   `json:"valid"`
	Username    string `json:"username"`
	RepoName    string `json:"repo_name"`
	RepoPrivate bool   `json:"repo_private"`
}

// GithubSyncRequest pushes a session's notes to a repository. NoteIds limits
// the sync to a subset; empty means every note in the session.
type GithubSyncRequest struct {
	Repo    string      `json:"repo" validate:"required,max=255"`
	Path    string      `json:"path" validate:"omitempty,max=512"`
	NoteIds []uuid.UUID `json:"note_ids"`
}

type GithubSyncResponse struct {
	Success     bool     `json:"success"`
	SyncedFiles []string `json:"synced_files"`
	Message     string   `json:"message"`
}
