package mapper

import (
	"encoding/json"
	"time"

	"github.com/reletz/cornelius/internal/entity"
	"github.com/reletz/cornelius/internal/model"

	"gorm.io/datatypes"
)

type TopicMapper struct{}

func NewTopicMapper() *TopicMapper {
	return &TopicMapper{}
}

func (m *TopicMapper) ToEntity(t *model.Topic) *entity.Topic {
	if t == nil {
		return nil
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		ts := t.UpdatedAt
		updatedAt = &ts
	}

	var keywords []string
	unmarshalJSON(t.Keywords, &keywords)

	var sources []entity.TopicSource
	unmarshalJSON(t.Sources, &sources)

	var concepts []string
	unmarshalJSON(t.UniqueConcepts, &concepts)

	return &entity.Topic{
		Id:                 t.Id,
		SessionId:          t.SessionId,
		Title:              t.Title,
		Keywords:           keywords,
		Sources:            sources,
		UniqueConcepts:     concepts,
		Summary:            t.Summary,
		EstimatedWordCount: t.EstimatedWordCount,
		OrderIndex:         t.OrderIndex,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *TopicMapper) ToModel(t *entity.Topic) *model.Topic {
	if t == nil {
		return nil
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Topic{
		Id:                 t.Id,
		SessionId:          t.SessionId,
		Title:              t.Title,
		Keywords:           marshalJSON(t.Keywords),
		Sources:            marshalJSON(t.Sources),
		UniqueConcepts:     marshalJSON(t.UniqueConcepts),
		Summary:            t.Summary,
		EstimatedWordCount: t.EstimatedWordCount,
		OrderIndex:         t.OrderIndex,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          updatedAt,
	}
}

func (m *TopicMapper) ToEntities(topics []*model.Topic) []*entity.Topic {
	entities := make([]*entity.Topic, len(topics))
	for i, t := range topics {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

func marshalJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}

func unmarshalJSON(data datatypes.JSON, out interface{}) {
	if len(data) == 0 {
		return
	}
	// Corrupt rows degrade to empty slices rather than failing the read.
	_ = json.Unmarshal(data, out)
}
