package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bank-reconciliation-backend/internal/models"
)

// Store is the gorm-backed implementation of the pipeline's intake and
// persistence collaborators.
type Store struct {
	db       *gorm.DB
	invoices *InvoiceRepository
	payments *PaymentRepository
	audit    *AuditRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		invoices: NewInvoiceRepository(db),
		payments: NewPaymentRepository(db),
		audit:    NewAuditRepository(db),
	}
}

func (s *Store) Invoices() *InvoiceRepository { return s.invoices }
func (s *Store) Payments() *PaymentRepository { return s.payments }

func (s *Store) FetchInvoices(_ context.Context, customerID string) ([]models.Invoice, error) {
	rows, err := s.invoices.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Invoice, len(rows))
	for i, r := range rows {
		out[i] = r.Domain()
	}
	return out, nil
}

func (s *Store) FetchPayments(_ context.Context, customerID string) ([]models.Payment, error) {
	rows, err := s.payments.ListByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Payment, len(rows))
	for i, r := range rows {
		out[i] = r.Domain()
	}
	return out, nil
}

// SaveRun persists a finished session in one transaction: match rows,
// exception rows, audit entries, lifecycle flips and masked remittance
// text all commit together or not at all.
func (s *Store) SaveRun(ctx context.Context, runID uuid.UUID, sess *models.ReconciliationSession) error {
	customerID := sess.Context.CustomerID

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range sess.Matches {
			row, err := matchRow(runID, customerID, m)
			if err != nil {
				return err
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			if err := s.invoices.MarkStatus(tx, customerID, m.InvoiceIDs, models.LifecycleMatched); err != nil {
				return err
			}
			if err := s.payments.MarkStatus(tx, customerID, m.PaymentIDs, models.LifecycleMatched); err != nil {
				return err
			}
		}

		for _, ex := range sess.Exceptions {
			row := &models.ReconciliationException{
				ID:         uuid.New(),
				RunID:      runID,
				CustomerID: customerID,
				EntityID:   ex.EntityID,
				EntityKind: ex.EntityKind,
				Amount:     ex.Amount,
				Reason:     ex.Reason,
				Severity:   ex.Severity,
				CreatedAt:  time.Now(),
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}

		for _, pay := range sess.Payments {
			if err := s.payments.UpdateRemittance(tx, customerID, pay.PaymentID, pay.RemittanceRaw); err != nil {
				return err
			}
		}

		for _, entry := range sess.AuditTrail {
			if err := s.audit.Append(tx, customerID, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveManualOverride persists an operator match: one match row, both
// items marked resolved, one audit entry — atomically.
func (s *Store) SaveManualOverride(ctx context.Context, customerID string, match models.MatchGroup, entry models.AuditEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := matchRow(uuid.Nil, customerID, match)
		if err != nil {
			return err
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		if err := s.invoices.MarkStatus(tx, customerID, match.InvoiceIDs, models.LifecycleResolved); err != nil {
			return err
		}
		if err := s.payments.MarkStatus(tx, customerID, match.PaymentIDs, models.LifecycleResolved); err != nil {
			return err
		}
		return s.audit.Append(tx, customerID, entry)
	})
}

func matchRow(runID uuid.UUID, customerID string, m models.MatchGroup) (*models.ReconciliationMatch, error) {
	invoiceIDs, err := json.Marshal(m.InvoiceIDs)
	if err != nil {
		return nil, err
	}
	paymentIDs, err := json.Marshal(m.PaymentIDs)
	if err != nil {
		return nil, err
	}
	reasons, err := json.Marshal(m.Reasons)
	if err != nil {
		return nil, err
	}
	return &models.ReconciliationMatch{
		ID:         uuid.New(),
		RunID:      runID,
		CustomerID: customerID,
		InvoiceIDs: invoiceIDs,
		PaymentIDs: paymentIDs,
		MatchType:  m.MatchType,
		Confidence: m.Confidence,
		Status:     m.Status,
		Reasons:    reasons,
		CreatedAt:  time.Now(),
	}, nil
}
