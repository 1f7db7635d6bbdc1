package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Topic struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title              string         `gorm:"type:varchar(512);not null"`
	Keywords           datatypes.JSON `gorm:"type:jsonb"`
	Sources            datatypes.JSON `gorm:"type:jsonb"`
	UniqueConcepts     datatypes.JSON `gorm:"type:jsonb"`
	Summary            string         `gorm:"type:text"`
	EstimatedWordCount int            `gorm:"not null;default:0"`
	OrderIndex         int            `gorm:"not null;default:0;index"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
}

func (Topic) TableName() string {
	return "topics"
}
