package service

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/reletz/cornelius/internal/repository/specification"
	"github.com/reletz/cornelius/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IExportService interface {
	// ExportSession bundles every generated note into a ZIP of markdown
	// files named after their topics.
	ExportSession(ctx context.Context, sessionId uuid.UUID) (filename string, archive []byte, err error)
}

type exportService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewExportService(uowFactory unitofwork.RepositoryFactory) IExportService {
	return &exportService{
		uowFactory: uowFactory,
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9 _\-]+`)

func (c *exportService) ExportSession(ctx context.Context, sessionId uuid.UUID) (string, []byte, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return "", nil, err
	}
	if session == nil {
		return "", nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	topics, err := uow.TopicRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderByOrderIndex{},
	)
	if err != nil {
		return "", nil, err
	}

	notes, err := uow.NoteRepository().FindAll(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return "", nil, err
	}
	if len(notes) == 0 {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "Session has no notes to export")
	}

	titleByTopic := make(map[uuid.UUID]string, len(topics))
	orderByTopic := make(map[uuid.UUID]int, len(topics))
	for _, t := range topics {
		titleByTopic[t.Id] = t.Title
		orderByTopic[t.Id] = t.OrderIndex
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	used := make(map[string]int)
	for _, note := range notes {
		title := titleByTopic[note.TopicId]
		if title == "" {
			title = "Untitled Topic"
		}
		name := fmt.Sprintf("%02d - %s", orderByTopic[note.TopicId]+1, sanitizeFilename(title))
		if n := used[name]; n > 0 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		used[name]++

		w, err := zw.Create(name + ".md")
		if err != nil {
			zw.Close()
			return "", nil, err
		}
		if _, err := w.Write([]byte(note.Content)); err != nil {
			zw.Close()
			return "", nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return "", nil, err
	}

	archiveName := sanitizeFilename(session.Title)
	if archiveName == "" {
		archiveName = "notes"
	}
	return archiveName + ".zip", buf.Bytes(), nil
}

func sanitizeFilename(title string) string {
	clean := unsafeFilenameChars.ReplaceAllString(title, "")
	clean = strings.TrimSpace(clean)
	if len(clean) > 120 {
		clean = clean[:120]
	}
	return clean
}
