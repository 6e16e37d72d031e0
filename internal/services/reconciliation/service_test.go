package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/services/matching"
)

type fakeIntake struct {
	invoices []models.Invoice
	payments []models.Payment
	err      error
	calls    int
}

func (f *fakeIntake) FetchInvoices(_ context.Context, _ string) ([]models.Invoice, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Invoice, len(f.invoices))
	copy(out, f.invoices)
	return out, nil
}

func (f *fakeIntake) FetchPayments(_ context.Context, _ string) ([]models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Payment, len(f.payments))
	copy(out, f.payments)
	return out, nil
}

type fakePersister struct {
	saved     *models.ReconciliationSession
	overrides []models.AuditEntry
	err       error
}

func (f *fakePersister) SaveRun(_ context.Context, _ uuid.UUID, s *models.ReconciliationSession) error {
	if f.err != nil {
		return f.err
	}
	f.saved = s
	return nil
}

func (f *fakePersister) SaveManualOverride(_ context.Context, _ string, _ models.MatchGroup, entry models.AuditEntry) error {
	if f.err != nil {
		return f.err
	}
	f.overrides = append(f.overrides, entry)
	return nil
}

func fixtureIntake() *fakeIntake {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return &fakeIntake{
		invoices: []models.Invoice{
			{InvoiceID: "INV-1", Amount: 1000, InvoiceDate: base},
			{InvoiceID: "INV-2", Amount: 400, InvoiceDate: base},
			{InvoiceID: "INV-3", Amount: 600, InvoiceDate: base},
			{InvoiceID: "INV-4", Amount: 900, InvoiceDate: base.AddDate(0, 0, -60)},
		},
		payments: []models.Payment{
			{PaymentID: "PAY-1", Amount: 1000, RemittanceRaw: "Full payment for INV-1"},
			{PaymentID: "PAY-2", Amount: 1000, RemittanceRaw: "Settling INV-2 and INV-3, acct 12345678901"},
			{PaymentID: "PAY-9", Amount: 77.7, RemittanceRaw: "wire, no reference"},
		},
	}
}

func newTestService(intake Intake, persister Persister) *Service {
	svc := NewService(intake, persister, matching.NullSimilarity{})
	svc.now = func() time.Time { return evalTime }
	return svc
}

func TestReconcileRejectsMissingCustomer(t *testing.T) {
	intake := fixtureIntake()
	svc := newTestService(intake, &fakePersister{})

	_, err := svc.Reconcile(context.Background(), "  ", "acme")

	assert.ErrorIs(t, err, ErrMissingCustomer)
	assert.Zero(t, intake.calls, "intake ran despite missing customer context")
}

func TestReconcileEndToEnd(t *testing.T) {
	persister := &fakePersister{}
	svc := newTestService(fixtureIntake(), persister)

	sess, err := svc.Reconcile(context.Background(), "CUST-001", "acme")
	require.NoError(t, err)

	// one exact match, one bulk match
	require.Len(t, sess.Matches, 2)
	assert.Equal(t, models.MatchExact1x1, sess.Matches[0].MatchType)
	assert.Equal(t, models.MatchBulkNx1, sess.Matches[1].MatchType)

	// both above threshold, both proposed
	for _, m := range sess.Matches {
		assert.Equal(t, models.StatusProposed, m.Status)
	}

	// INV-4 (aged) and PAY-9 fall through to exceptions
	require.Len(t, sess.Exceptions, 2)
	assert.Equal(t, "INV-4", sess.Exceptions[0].EntityID)
	assert.Equal(t, models.SeverityHigh, sess.Exceptions[0].Severity)
	assert.Equal(t, "PAY-9", sess.Exceptions[1].EntityID)
	assert.Equal(t, models.SeverityMedium, sess.Exceptions[1].Severity)

	// remittances masked before persistence
	assert.Equal(t, "Settling INV-2 and INV-3, acct ********", sess.Payments[1].RemittanceRaw)

	// audit order follows stage order: masking entry, then matches
	require.Len(t, sess.AuditTrail, 3)
	assert.Equal(t, models.ActionPIIMasking, sess.AuditTrail[0].Action)
	assert.Equal(t, models.ActionAutoMatch, sess.AuditTrail[1].Action)
	assert.Equal(t, models.ActionAutoMatch, sess.AuditTrail[2].Action)

	require.NotNil(t, persister.saved)
	assert.Equal(t, sess, persister.saved)
}

func TestReconcileDeterministic(t *testing.T) {
	svc := newTestService(fixtureIntake(), &fakePersister{})

	first, err := svc.Reconcile(context.Background(), "CUST-001", "acme")
	require.NoError(t, err)
	second, err := svc.Reconcile(context.Background(), "CUST-001", "acme")
	require.NoError(t, err)

	assert.Equal(t, first.Matches, second.Matches)
	assert.Equal(t, first.Exceptions, second.Exceptions)
}

func TestReconcileSurfacesIntakeFault(t *testing.T) {
	intake := fixtureIntake()
	intake.err = errors.New("connection refused")
	persister := &fakePersister{}
	svc := newTestService(intake, persister)

	_, err := svc.Reconcile(context.Background(), "CUST-001", "acme")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "intake stage")
	assert.Nil(t, persister.saved, "failed run must not persist")
}

func TestReconcileSurfacesPersistenceFault(t *testing.T) {
	persister := &fakePersister{err: errors.New("deadlock detected")}
	svc := newTestService(fixtureIntake(), persister)

	_, err := svc.Reconcile(context.Background(), "CUST-001", "acme")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistence")
}

func TestManualOverride(t *testing.T) {
	persister := &fakePersister{}
	svc := newTestService(fixtureIntake(), persister)

	match, err := svc.ManualOverride(context.Background(), "INV-7", "PAY-7", "CUST-001", "OP-42", "operator confirmed over phone")
	require.NoError(t, err)

	assert.Equal(t, models.MatchManualOverride, match.MatchType)
	assert.Equal(t, 1.0, match.Confidence)
	assert.Equal(t, []string{"INV-7"}, match.InvoiceIDs)
	assert.Equal(t, []string{"PAY-7"}, match.PaymentIDs)

	require.Len(t, persister.overrides, 1)
	entry := persister.overrides[0]
	assert.Equal(t, models.ActionManualOverride, entry.Action)
	assert.Equal(t, "OP-42", entry.Actor)
	assert.Equal(t, "INV-7:PAY-7", entry.EntityID)
}

func TestManualOverrideValidation(t *testing.T) {
	svc := newTestService(fixtureIntake(), &fakePersister{})

	_, err := svc.ManualOverride(context.Background(), "INV-7", "PAY-7", "", "OP-42", "")
	assert.ErrorIs(t, err, ErrMissingCustomer)

	_, err = svc.ManualOverride(context.Background(), "", "PAY-7", "CUST-001", "OP-42", "")
	assert.ErrorIs(t, err, ErrInvalidOverride)
}
