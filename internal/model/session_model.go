package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Session struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Status    string         `gorm:"type:varchar(32);not null;default:created"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Session) TableName() string {
	return "sessions"
}
