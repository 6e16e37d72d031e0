package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bank-reconciliation-backend/internal/models"
)

// AuditRepository is insert-only. The pipeline and the manual-override
// path both append through it; no update or delete methods exist, so
// interleaved writers cannot step on each other's entries.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append writes one audit entry for a customer.
func (r *AuditRepository) Append(tx *gorm.DB, customerID string, entry models.AuditEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return err
	}
	row := &models.AuditTrail{
		ID:         uuid.New(),
		CustomerID: customerID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		Actor:      entry.Actor,
		Payload:    payload,
		CreatedAt:  time.Now(),
	}
	return tx.Create(row).Error
}
