package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bank-reconciliation-backend/internal/models"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}

// ListByCustomer returns one customer's invoices in insertion order.
func (r *InvoiceRepository) ListByCustomer(customerID string) ([]models.InvoiceRow, error) {
	var rows []models.InvoiceRow
	err := r.db.
		Where("customer_id = ?", customerID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// Create inserts an invoice row, ignoring duplicates on
// (customer_id, invoice_id).
func (r *InvoiceRepository) Create(customerID string, inv models.Invoice) (*models.InvoiceRow, error) {
	row := &models.InvoiceRow{
		ID:          uuid.New(),
		CustomerID:  customerID,
		InvoiceID:   inv.InvoiceID,
		Amount:      inv.Amount,
		Currency:    inv.Currency,
		VendorName:  inv.VendorName,
		PONumber:    inv.PONumber,
		InvoiceDate: inv.InvoiceDate,
		Status:      models.LifecycleOpen,
		CreatedAt:   time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
	return row, err
}

// MarkStatus flips the lifecycle status of the given invoices.
func (r *InvoiceRepository) MarkStatus(tx *gorm.DB, customerID string, invoiceIDs []string, status string) error {
	if len(invoiceIDs) == 0 {
		return nil
	}
	return tx.Model(&models.InvoiceRow{}).
		Where("customer_id = ? AND invoice_id IN ?", customerID, invoiceIDs).
		Update("status", status).Error
}
