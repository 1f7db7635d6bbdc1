package mapper

import (
	"github.com/reletz/cornelius/internal/entity"
	"github.com/reletz/cornelius/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:          d.Id,
		SessionId:   d.SessionId,
		Filename:    d.Filename,
		ContentText: d.ContentText,
		PageCount:   d.PageCount,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:          d.Id,
		SessionId:   d.SessionId,
		Filename:    d.Filename,
		ContentText: d.ContentText,
		PageCount:   d.PageCount,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
	}
}

func (m *DocumentMapper) ToEntities(documents []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(documents))
	for i, d := range documents {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
