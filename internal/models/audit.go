package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Audit action tags.
const (
	ActionAutoMatch      = "auto-match"
	ActionManualOverride = "manual-override"
	ActionPIIMasking     = "pii-masking"
)

// ActorSystem identifies pipeline-originated audit entries. Manual
// overrides carry the operator id instead.
const ActorSystem = "system"

// AuditEntry is one immutable line of the session's decision log.
// Entries are appended in pipeline stage order and never edited.
type AuditEntry struct {
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"`
	Actor      string         `json:"actor"`
	Payload    map[string]any `json:"payload,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// AuditTrail is the persisted, append-only form of an AuditEntry. The
// pipeline and the manual-override path both insert here; nothing
// updates or deletes rows.
type AuditTrail struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID string    `gorm:"index"`
	EntityType string
	EntityID   string
	Action     string `gorm:"index"`
	Actor      string
	Payload    datatypes.JSON
	CreatedAt  time.Time
}
