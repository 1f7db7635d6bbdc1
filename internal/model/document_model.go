package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId   uuid.UUID `gorm:"type:uuid;not null;index"`
	Filename    string    `gorm:"type:varchar(512);not null"`
	ContentText string    `gorm:"type:text;not null"`
	PageCount   int       `gorm:"not null;default:0"`
	Status      string    `gorm:"type:varchar(16);not null;default:'extracted'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}
