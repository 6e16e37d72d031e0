package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is the in-memory record a reconciliation session works on.
// Immutable once loaded into a session.
type Invoice struct {
	InvoiceID   string    `json:"invoice_id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	VendorName  string    `json:"vendor_name"`
	PONumber    string    `json:"po_number,omitempty"`
	InvoiceDate time.Time `json:"invoice_date"`
}

// InvoiceRow is the persisted form, scoped to one customer.
type InvoiceRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID  string    `gorm:"index;uniqueIndex:ux_invoice_customer"`
	InvoiceID   string    `gorm:"uniqueIndex:ux_invoice_customer"`
	Amount      float64   `gorm:"index"`
	Currency    string
	VendorName  string `gorm:"index"`
	PONumber    string
	InvoiceDate time.Time
	Status      string `gorm:"index"`
	CreatedAt   time.Time
}

func (r InvoiceRow) Domain() Invoice {
	return Invoice{
		InvoiceID:   r.InvoiceID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		VendorName:  r.VendorName,
		PONumber:    r.PONumber,
		InvoiceDate: r.InvoiceDate,
	}
}
