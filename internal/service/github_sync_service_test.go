package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/entity"
	"github.com/reletz/cornelius/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	svc       IGithubSyncService
	sessionId uuid.UUID
	noteIds   []uuid.UUID
}

func newSyncFixture(t *testing.T, baseURL string, noteCount int) *syncFixture {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)
	uowFactory := unitofwork.NewRepositoryFactory(db)
	uow := uowFactory.NewUnitOfWork(ctx)

	session := &entity.Session{Id: uuid.New(), Title: "Bio 101", Status: entity.SessionStatusReady, CreatedAt: time.Now()}
	require.NoError(t, uow.SessionRepository().Create(ctx, session))

	noteIds := make([]uuid.UUID, 0, noteCount)
	for i := 0; i < noteCount; i++ {
		topic := &entity.Topic{
			Id:         uuid.New(),
			SessionId:  session.Id,
			Title:      fmt.Sprintf("Topic %d", i+1),
			Keywords:   []string{fmt.Sprintf("kw%d", i+1)},
			OrderIndex: i,
			CreatedAt:  time.Now(),
		}
		require.NoError(t, uow.TopicRepository().Create(ctx, topic))

		note := &entity.Note{
			Id:        uuid.New(),
			TopicId:   topic.Id,
			SessionId: session.Id,
			Content:   fmt.Sprintf("> [!cornell] Topic %d\nbody", i+1),
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.NoteRepository().Upsert(ctx, note))
		noteIds = append(noteIds, note.Id)
	}

	return &syncFixture{
		svc:       NewGithubSyncService(uowFactory, baseURL, nopLogger{}),
		sessionId: session.Id,
		noteIds:   noteIds,
	}
}

// fakeGithub accepts contents API calls and records pushed paths.
type fakeGithub struct {
	mu       sync.Mutex
	pushed   []string
	failPath string
}

func (g *fakeGithub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/contents/") {
			fmt.Fprint(w, `{}`)
			return
		}
		path := strings.SplitN(r.URL.Path, "/contents/", 2)[1]
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		case http.MethodPut:
			if g.failPath != "" && strings.Contains(path, g.failPath) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				fmt.Fprint(w, `{"message":"invalid content"}`)
				return
			}
			g.mu.Lock()
			g.pushed = append(g.pushed, path)
			g.mu.Unlock()
			fmt.Fprint(w, `{}`)
		}
	}
}

func TestSyncSessionPushesNotesInTopicOrder(t *testing.T) {
	gh := &fakeGithub{}
	srv := httptest.NewServer(gh.handler())
	defer srv.Close()

	f := newSyncFixture(t, srv.URL, 2)

	res, err := f.svc.SyncSession(context.Background(), f.sessionId, "test-token", &dto.GithubSyncRequest{
		Repo: "octocat/notes",
		Path: "/cornell/",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, []string{"cornell/01 - Topic 1.md", "cornell/02 - Topic 2.md"}, res.SyncedFiles)
	assert.Equal(t, "Synced 2 of 2 notes", res.Message)
	assert.Len(t, gh.pushed, 2)
}

func TestSyncSessionSkipsFailedFile(t *testing.T) {
	gh := &fakeGithub{failPath: "Topic 1"}
	srv := httptest.NewServer(gh.handler())
	defer srv.Close()

	f := newSyncFixture(t, srv.URL, 2)

	res, err := f.svc.SyncSession(context.Background(), f.sessionId, "test-token", &dto.GithubSyncRequest{
		Repo: "octocat/notes",
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, []string{"02 - Topic 2.md"}, res.SyncedFiles)
	assert.Equal(t, "Synced 1 of 2 notes", res.Message)
}

func TestSyncSessionSubsetByNoteIds(t *testing.T) {
	gh := &fakeGithub{}
	srv := httptest.NewServer(gh.handler())
	defer srv.Close()

	f := newSyncFixture(t, srv.URL, 3)

	res, err := f.svc.SyncSession(context.Background(), f.sessionId, "test-token", &dto.GithubSyncRequest{
		Repo:    "octocat/notes",
		NoteIds: []uuid.UUID{f.noteIds[1]},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"02 - Topic 2.md"}, res.SyncedFiles)
}

func TestSyncSessionWithoutNotes(t *testing.T) {
	f := newSyncFixture(t, "http://localhost:1", 0)

	_, err := f.svc.SyncSession(context.Background(), f.sessionId, "test-token", &dto.GithubSyncRequest{
		Repo: "octocat/notes",
	})

	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
}

func TestValidateConfigMapsBadToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Bad credentials"}`)
	}))
	defer srv.Close()

	f := newSyncFixture(t, srv.URL, 0)

	_, err := f.svc.ValidateConfig(context.Background(), "bad-token", &dto.GithubValidateRequest{Repo: "octocat/notes"})

	var fiberErr *fiber.Error
	require.ErrorAs(t, err, &fiberErr)
	assert.Equal(t, fiber.StatusUnauthorized, fiberErr.Code)
}

func TestValidateConfigReportsRepo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user":
			fmt.Fprint(w, `{"login":"octocat"}`)
		case "/repos/octocat/notes":
			fmt.Fprint(w, `{"full_name":"octocat/notes","private":true}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := newSyncFixture(t, srv.URL, 0)

	res, err := f.svc.ValidateConfig(context.Background(), "test-token", &dto.GithubValidateRequest{Repo: "octocat/notes"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "octocat", res.Username)
	assert.Equal(t, "octocat/notes", res.RepoName)
	assert.True(t, res.RepoPrivate)
}
