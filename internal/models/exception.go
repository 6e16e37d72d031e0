package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity kinds an exception can reference.
const (
	KindInvoice = "invoice"
	KindPayment = "payment"
)

// Exception severities. Driven solely by invoice age.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

// ExceptionRecord is an unresolved item left over after matching. It is
// a first-class pipeline output, not an error.
type ExceptionRecord struct {
	EntityID   string  `json:"entity_id"`
	EntityKind string  `json:"entity_kind"`
	Amount     float64 `json:"amount"`
	Reason     string  `json:"reason"`
	Severity   string  `json:"severity"`
}

// ReconciliationException is the persisted form of an ExceptionRecord.
type ReconciliationException struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RunID      uuid.UUID `gorm:"index"`
	CustomerID string    `gorm:"index"`
	EntityID   string
	EntityKind string `gorm:"index"`
	Amount     float64
	Reason     string
	Severity   string `gorm:"index"`
	CreatedAt  time.Time
}
