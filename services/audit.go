package services

import (
	"encoding/json"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"embedgate/models"
)

// OriginAudit persists origin-validation decisions so rejected embedders can
// be diagnosed after the fact. Writes are best-effort: a broken audit store
// must never block connection handling.
type OriginAudit struct {
	db *gorm.DB
}

func NewOriginAudit(db *gorm.DB) *OriginAudit {
	return &OriginAudit{db: db}
}

// Record stores one decision. pattern is the allow-pattern that matched, or
// "" when the origin was rejected.
func (a *OriginAudit) Record(origin, pattern string, allowed bool, meta map[string]string) {
	if a == nil || a.db == nil {
		return
	}

	event := models.OriginEvent{
		Origin:  origin,
		Pattern: pattern,
		Allowed: allowed,
	}
	if len(meta) > 0 {
		if raw, err := json.Marshal(meta); err == nil {
			event.Meta = datatypes.JSON(raw)
		}
	}

	if err := a.db.Create(&event).Error; err != nil {
		log.Printf("[Audit] Failed to record origin event: %v", err)
	}
}

// Recent returns the latest decisions, newest first.
func (a *OriginAudit) Recent(limit int) ([]models.OriginEvent, error) {
	var events []models.OriginEvent
	err := a.db.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}
