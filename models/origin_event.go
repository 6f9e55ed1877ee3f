package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OriginEvent records one origin-validation decision made for an incoming
// cross-origin connection attempt.
type OriginEvent struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Origin  string    `gorm:"size:500;index" json:"origin"`
	Pattern string    `gorm:"size:500" json:"pattern,omitempty"`
	Allowed bool      `json:"allowed"`

	Meta datatypes.JSON `json:"meta,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (e *OriginEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
