package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment is the in-memory record a reconciliation session works on.
// Immutable once loaded, except RemittanceRaw which the compliance
// stage redacts in place.
type Payment struct {
	PaymentID     string    `json:"payment_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	SenderName    string    `json:"sender_name"`
	TraceID       string    `json:"trace_id,omitempty"`
	RemittanceRaw string    `json:"remittance_raw"`
	PaymentDate   time.Time `json:"payment_date"`
}

// PaymentRow is the persisted form, scoped to one customer.
type PaymentRow struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID    string    `gorm:"index;uniqueIndex:ux_payment_customer"`
	PaymentID     string    `gorm:"uniqueIndex:ux_payment_customer"`
	Amount        float64   `gorm:"index"`
	Currency      string
	SenderName    string
	TraceID       string
	RemittanceRaw string
	PaymentDate   time.Time
	Status        string `gorm:"index"`
	CreatedAt     time.Time
}

func (r PaymentRow) Domain() Payment {
	return Payment{
		PaymentID:     r.PaymentID,
		Amount:        r.Amount,
		Currency:      r.Currency,
		SenderName:    r.SenderName,
		TraceID:       r.TraceID,
		RemittanceRaw: r.RemittanceRaw,
		PaymentDate:   r.PaymentDate,
	}
}
