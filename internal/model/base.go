package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UUIDModel gives a table a string uuid primary key assigned on create.
type UUIDModel struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`
}

func (m *UUIDModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
