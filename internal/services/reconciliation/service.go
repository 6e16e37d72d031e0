package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/services/matching"
)

// ErrMissingCustomer rejects a run before any stage executes.
var ErrMissingCustomer = errors.New("customer context missing, specify customer/session scope")

// ErrInvalidOverride rejects a manual override without both item ids.
var ErrInvalidOverride = errors.New("invoice_id and payment_id are required")

// Intake loads tenant-scoped invoices and payments in input order.
// Tenant scoping is the collaborator's responsibility; the pipeline
// trusts it.
type Intake interface {
	FetchInvoices(ctx context.Context, customerID string) ([]models.Invoice, error)
	FetchPayments(ctx context.Context, customerID string) ([]models.Payment, error)
}

// Persister durably stores a finished run, all-or-nothing, and records
// manual overrides. Both paths append to the same audit trail, so the
// store must tolerate interleaved appends.
type Persister interface {
	SaveRun(ctx context.Context, runID uuid.UUID, s *models.ReconciliationSession) error
	SaveManualOverride(ctx context.Context, customerID string, match models.MatchGroup, entry models.AuditEntry) error
}

// Service runs the reconciliation pipeline. Each call builds its own
// session and orchestrator; nothing process-wide is mutated, so
// concurrent runs for different tenants cannot see each other's data.
type Service struct {
	intake     Intake
	persister  Persister
	similarity matching.SimilaritySearcher

	// now is injected for deterministic tests.
	now func() time.Time
}

func NewService(intake Intake, persister Persister, similarity matching.SimilaritySearcher) *Service {
	return &Service{
		intake:     intake,
		persister:  persister,
		similarity: similarity,
		now:        time.Now,
	}
}

// Reconcile executes the full pipeline for one customer and returns
// the finished session. A stage failure aborts the run and nothing is
// persisted for it.
func (s *Service) Reconcile(ctx context.Context, customerID, tenantName string) (*models.ReconciliationSession, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrMissingCustomer
	}

	log.Println("starting reconciliation workflow for customer:", customerID)

	sess := &models.ReconciliationSession{
		Context: models.CustomerContext{CustomerID: customerID, TenantName: tenantName},
	}

	engine := matching.NewEngine(s.similarity)
	evaluatedAt := s.now()

	orch := NewOrchestrator([]stage{
		{name: "intake", run: s.intakeStage},
		{name: "extraction", run: extractionStage},
		{name: "matching", run: func(_ context.Context, sess *models.ReconciliationSession) error {
			engine.Run(sess)
			return nil
		}},
		{name: "exceptions", run: func(_ context.Context, sess *models.ReconciliationSession) error {
			classifyExceptions(sess, evaluatedAt)
			return nil
		}},
		{name: "compliance", run: func(_ context.Context, sess *models.ReconciliationSession) error {
			maskRemittances(sess, evaluatedAt)
			return nil
		}},
		{name: "decision", run: func(_ context.Context, sess *models.ReconciliationSession) error {
			applyDecisions(sess)
			return nil
		}},
		{name: "audit", run: func(_ context.Context, sess *models.ReconciliationSession) error {
			recordAuditTrail(sess, evaluatedAt)
			return nil
		}},
	})

	if err := orch.Run(ctx, sess); err != nil {
		return nil, err
	}

	if s.persister != nil {
		if err := s.persister.SaveRun(ctx, uuid.New(), sess); err != nil {
			return nil, fmt.Errorf("persistence: %w", err)
		}
	}

	log.Printf("reconciliation completed for %s: %d matches, %d exceptions",
		customerID, len(sess.Matches), len(sess.Exceptions))
	return sess, nil
}

func (s *Service) intakeStage(ctx context.Context, sess *models.ReconciliationSession) error {
	invoices, err := s.intake.FetchInvoices(ctx, sess.Context.CustomerID)
	if err != nil {
		return err
	}
	payments, err := s.intake.FetchPayments(ctx, sess.Context.CustomerID)
	if err != nil {
		return err
	}
	sess.Invoices = invoices
	sess.Payments = payments
	return nil
}

// extractionStage is a reserved extension point between intake and
// matching. Reference extraction currently happens inline in the
// matching phases.
func extractionStage(context.Context, *models.ReconciliationSession) error {
	return nil
}

// ManualOverride records an operator-decided match outside the
// automatic pipeline. It does not rerun matching and does not
// re-validate the pairing's amounts; it marks both items resolved and
// appends a manual-override audit entry carrying the operator id.
func (s *Service) ManualOverride(ctx context.Context, invoiceID, paymentID, customerID, operator, reason string) (models.MatchGroup, error) {
	if strings.TrimSpace(customerID) == "" {
		return models.MatchGroup{}, ErrMissingCustomer
	}
	if invoiceID == "" || paymentID == "" {
		return models.MatchGroup{}, ErrInvalidOverride
	}
	if operator == "" {
		operator = "USER-01"
	}

	match := models.MatchGroup{
		InvoiceIDs: []string{invoiceID},
		PaymentIDs: []string{paymentID},
		Confidence: 1.0,
		MatchType:  models.MatchManualOverride,
		Reasons:    []string{reason},
	}
	entry := models.AuditEntry{
		EntityType: "match",
		EntityID:   invoiceID + ":" + paymentID,
		Action:     models.ActionManualOverride,
		Actor:      operator,
		Payload:    map[string]any{"reason": reason},
		Timestamp:  s.now(),
	}

	if err := s.persister.SaveManualOverride(ctx, customerID, match, entry); err != nil {
		return models.MatchGroup{}, fmt.Errorf("persistence: %w", err)
	}
	log.Printf("persisted manual match %s -> %s by %s", invoiceID, paymentID, operator)
	return match, nil
}
