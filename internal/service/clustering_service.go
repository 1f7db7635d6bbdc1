package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/reletz/cornelius/internal/constant"
	"github.com/reletz/cornelius/internal/dto"
	"github.com/reletz/cornelius/internal/entity"
	"github.com/reletz/cornelius/internal/pkg/logger"
	"github.com/reletz/cornelius/internal/repository/specification"
	"github.com/reletz/cornelius/internal/repository/unitofwork"
	"github.com/reletz/cornelius/pkg/cluster"
	"github.com/reletz/cornelius/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// maxClusteringChars caps the combined source text sent for clustering.
const maxClusteringChars = 50000

type IClusteringService interface {
	Analyze(ctx context.Context, sessionId uuid.UUID, apiKey string) (*dto.AnalyzeResponse, error)
}

type clusteringService struct {
	uowFactory      unitofwork.RepositoryFactory
	providerCache   ProviderSource
	clusteringModel string
	logger          logger.ILogger
}

func NewClusteringService(
	uowFactory unitofwork.RepositoryFactory,
	providerCache ProviderSource,
	clusteringModel string,
	log logger.ILogger,
) IClusteringService {
	return &clusteringService{
		uowFactory:      uowFactory,
		providerCache:   providerCache,
		clusteringModel: clusteringModel,
		logger:          log,
	}
}

// Analyze clusters the session's documents into topics and replaces any
// previous topic set. An unparseable model reply degrades to a single
// catch-all topic instead of failing.
func (c *clusteringService) Analyze(ctx context.Context, sessionId uuid.UUID, apiKey string) (*dto.AnalyzeResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.Filter("status", entity.DocumentStatusExtracted),
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Session has no documents to analyze")
	}

	provider, err := c.providerCache.Provider(apiKey, "")
	if err != nil {
		return nil, err
	}

	session.Status = entity.SessionStatusClustering
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	prompt := c.buildClusteringPrompt(documents)

	response, err := provider.Generate(ctx, prompt,
		llm.WithModel(c.clusteringModel),
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(4096),
	)
	if err != nil {
		return nil, err
	}

	usedFallback := false
	result, parseErr := cluster.ParseResponse(response)
	if parseErr != nil {
		c.logger.Warn("Clustering", "Falling back to single topic", map[string]interface{}{
			"session_id": sessionId,
			"error":      parseErr.Error(),
		})
		sources := make([]string, 0, len(documents))
		for _, d := range documents {
			sources = append(sources, d.Filename)
		}
		result = cluster.FallbackResult(sources)
		usedFallback = true
	}

	topics := make([]*entity.Topic, 0, len(result.Clusters))
	now := time.Now()
	for i, cl := range result.Clusters {
		sources := make([]entity.TopicSource, 0, len(cl.SourceMapping))
		for _, sm := range cl.SourceMapping {
			sources = append(sources, entity.TopicSource{Source: sm.Source, Pages: sm.Pages})
		}
		topics = append(topics, &entity.Topic{
			Id:                 uuid.New(),
			SessionId:          sessionId,
			Title:              cl.Title,
			Keywords:           cl.Keywords,
			Sources:            sources,
			UniqueConcepts:     cl.UniqueConcepts,
			Summary:            cl.Summary,
			EstimatedWordCount: cl.EstimatedWordCount,
			OrderIndex:         i,
			CreatedAt:          now,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	// Re-analysis replaces the topic set and the notes hanging off it.
	if err := uow.NoteRepository().DeleteAllBySessionId(ctx, sessionId); err != nil {
		return nil, err
	}
	if err := uow.TopicRepository().DeleteAllBySessionId(ctx, sessionId); err != nil {
		return nil, err
	}
	if err := uow.TopicRepository().CreateBatch(ctx, topics); err != nil {
		return nil, err
	}

	session.Status = entity.SessionStatusReady
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	c.logger.Info("Clustering", "Session analyzed", map[string]interface{}{
		"session_id":    sessionId,
		"topic_count":   len(topics),
		"used_fallback": usedFallback,
	})

	responses := make([]dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		responses = append(responses, toTopicResponse(t))
	}

	return &dto.AnalyzeResponse{
		Topics:          responses,
		TotalClusters:   result.TotalClusters,
		ProcessingNotes: result.ProcessingNotes,
		UsedFallback:    usedFallback,
	}, nil
}

func (c *clusteringService) buildClusteringPrompt(documents []*entity.Document) string {
	var b strings.Builder
	b.WriteString(constant.ClusteringPrompt)

	remaining := maxClusteringChars
	for _, d := range documents {
		if remaining <= 0 {
			break
		}
		fmt.Fprintf(&b, constant.SourceSeparator, d.Filename)
		text := d.ContentText
		if len(text) > remaining {
			text = text[:remaining]
		}
		b.WriteString(text)
		b.WriteString("\n\n")
		remaining -= len(text)
	}

	return b.String()
}
