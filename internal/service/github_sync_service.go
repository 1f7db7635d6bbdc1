package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/pkg/logger"
	"github.com/reletz/cornelius/internal/repository/specification"
	"github.com/reletz/cornelius/internal/repository/unitofwork"
	"github.com/reletz/cornelius/pkg/github"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGithubSyncService interface {
	// ValidateConfig checks that the token works and the repository is
	// reachable. The token arrives per request and is never persisted.
	ValidateConfig(ctx context.Context, token string, req *dto.GithubValidateRequest) (*dto.GithubValidateResponse, error)

	// SyncSession pushes the session's notes to the repository as markdown
	// files, one per topic. A failing file is skipped, not fatal.
	SyncSession(ctx context.Context, sessionId uuid.UUID, token string, req *dto.GithubSyncRequest) (*dto.GithubSyncResponse, error)
}

type githubSyncService struct {
	uowFactory unitofwork.RepositoryFactory
	baseURL    string
	logger     logger.ILogger
}

func NewGithubSyncService(uowFactory unitofwork.RepositoryFactory, baseURL string, log logger.ILogger) IGithubSyncService {
	return &githubSyncService{
		uowFactory: uowFactory,
		baseURL:    baseURL,
		logger:     log,
	}
}

func (c *githubSyncService) ValidateConfig(ctx context.Context, token string, req *dto.GithubValidateRequest) (*dto.GithubValidateResponse, error) {
	client := github.NewClient(token, c.baseURL)

	user, err := client.User(ctx)
	if err != nil {
		var apiErr *github.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == fiber.StatusUnauthorized {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid GitHub token")
		}
		return nil, err
	}

	repo, err := client.Repo(ctx, req.Repo)
	if err != nil {
		var apiErr *github.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == fiber.StatusNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound,
				fmt.Sprintf("Repository '%s' not found or not accessible", req.Repo))
		}
		return nil, err
	}

	return &dto.GithubValidateResponse{
		Valid:       true,
		Username:    user.Login,
		RepoName:    repo.FullName,
		RepoPrivate: repo.Private,
	}, nil
}

func (c *githubSyncService) SyncSession(ctx context.Context, sessionId uuid.UUID, token string, req *dto.GithubSyncRequest) (*dto.GithubSyncResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	topics, err := uow.TopicRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderByOrderIndex{},
	)
	if err != nil {
		return nil, err
	}

	noteSpecs := []specification.Specification{specification.BySessionID{SessionID: sessionId}}
	if len(req.NoteIds) > 0 {
		noteSpecs = append(noteSpecs, specification.ByIDs{IDs: req.NoteIds})
	}
	notes, err := uow.NoteRepository().FindAll(ctx, noteSpecs...)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Session has no notes to sync")
	}

	titleByTopic := make(map[uuid.UUID]string, len(topics))
	orderByTopic := make(map[uuid.UUID]int, len(topics))
	for _, t := range topics {
		titleByTopic[t.Id] = t.Title
		orderByTopic[t.Id] = t.OrderIndex
	}

	// Push in topic order so the repo history reads like the session.
	sort.SliceStable(notes, func(i, j int) bool {
		return orderByTopic[notes[i].TopicId] < orderByTopic[notes[j].TopicId]
	})

	prefix := strings.Trim(req.Path, "/")
	client := github.NewClient(token, c.baseURL)

	var synced []string
	for _, note := range notes {
		title := titleByTopic[note.TopicId]
		if title == "" {
			title = "Untitled Topic"
		}
		filename := fmt.Sprintf("%02d - %s.md", orderByTopic[note.TopicId]+1, sanitizeFilename(title))

		filePath := filename
		if prefix != "" {
			filePath = prefix + "/" + filename
		}

		err := client.PushFile(ctx, req.Repo, filePath,
			"Update Cornell notes: "+filename, []byte(note.Content))
		if err != nil {
			c.logger.Error("GithubSync", "Failed to push note", map[string]interface{}{
				"session_id": sessionId,
				"file":       filePath,
				"error":      err.Error(),
			})
			continue
		}
		synced = append(synced, filePath)
	}

	return &dto.GithubSyncResponse{
		Success:     len(synced) > 0,
		SyncedFiles: synced,
		Message:     fmt.Sprintf("Synced %d of %d notes", len(synced), len(notes)),
	}, nil
}
