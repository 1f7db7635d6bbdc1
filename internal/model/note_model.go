package model

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	TopicId          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SessionId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Content          string    `gorm:"type:text;not null"`
	UsedCustomPrompt bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}
