package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Match types produced by the pipeline and the manual-override path.
const (
	MatchExact1x1       = "exact-1-1"
	MatchBulkNx1        = "bulk-n-1"
	MatchSplit1xN       = "split-1-n"
	MatchManualOverride = "manual-override"
)

// StatusProposed marks a match cleared for auto-acceptance by the
// decision gate. Matches below the confidence threshold keep an empty
// status and wait for human review.
const StatusProposed = "proposed"

// Lifecycle statuses for persisted invoice/payment rows.
const (
	LifecycleOpen     = "open"
	LifecycleMatched  = "matched"
	LifecycleResolved = "resolved"
)

// MatchGroup pairs one or more invoices with one or more payments.
// At most one side ever has more than one member.
type MatchGroup struct {
	InvoiceIDs []string `json:"invoice_ids"`
	PaymentIDs []string `json:"payment_ids"`
	Confidence float64  `json:"confidence"`
	MatchType  string   `json:"match_type"`
	Reasons    []string `json:"reasons"`
	Status     string   `json:"status,omitempty"`
}

// ReconciliationMatch is the persisted form of a MatchGroup.
type ReconciliationMatch struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RunID      uuid.UUID `gorm:"index"`
	CustomerID string    `gorm:"index"`
	InvoiceIDs datatypes.JSON
	PaymentIDs datatypes.JSON
	MatchType  string `gorm:"index"`
	Confidence float64
	Status     string `gorm:"index"`
	Reasons    datatypes.JSON
	CreatedAt  time.Time
}
