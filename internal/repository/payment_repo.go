package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bank-reconciliation-backend/internal/models"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListByCustomer returns one customer's payments in insertion order.
func (r *PaymentRepository) ListByCustomer(customerID string) ([]models.PaymentRow, error) {
	var rows []models.PaymentRow
	err := r.db.
		Where("customer_id = ?", customerID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// Create inserts a payment row, ignoring duplicates on
// (customer_id, payment_id).
func (r *PaymentRepository) Create(customerID string, pay models.Payment) (*models.PaymentRow, error) {
	row := &models.PaymentRow{
		ID:            uuid.New(),
		CustomerID:    customerID,
		PaymentID:     pay.PaymentID,
		Amount:        pay.Amount,
		Currency:      pay.Currency,
		SenderName:    pay.SenderName,
		TraceID:       pay.TraceID,
		RemittanceRaw: pay.RemittanceRaw,
		PaymentDate:   pay.PaymentDate,
		Status:        models.LifecycleOpen,
		CreatedAt:     time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
	return row, err
}

// MarkStatus flips the lifecycle status of the given payments.
func (r *PaymentRepository) MarkStatus(tx *gorm.DB, customerID string, paymentIDs []string, status string) error {
	if len(paymentIDs) == 0 {
		return nil
	}
	return tx.Model(&models.PaymentRow{}).
		Where("customer_id = ? AND payment_id IN ?", customerID, paymentIDs).
		Update("status", status).Error
}

// UpdateRemittance stores the masked remittance text for one payment.
func (r *PaymentRepository) UpdateRemittance(tx *gorm.DB, customerID, paymentID, remittance string) error {
	return tx.Model(&models.PaymentRow{}).
		Where("customer_id = ? AND payment_id = ?", customerID, paymentID).
		Update("remittance_raw", remittance).Error
}
