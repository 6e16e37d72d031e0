package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-reconciliation-backend/internal/models"
)

func pay(id string, amount float64, remittance string) models.Payment {
	return models.Payment{
		PaymentID:     id,
		Amount:        amount,
		Currency:      "USD",
		SenderName:    "Acme",
		RemittanceRaw: remittance,
		PaymentDate:   time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
}

func session(invoices []models.Invoice, payments []models.Payment) *models.ReconciliationSession {
	return &models.ReconciliationSession{
		Context:  models.CustomerContext{CustomerID: "CUST-001", TenantName: "acme"},
		Invoices: invoices,
		Payments: payments,
	}
}

func TestExactMatch(t *testing.T) {
	s := session(
		[]models.Invoice{inv("INV-1", 1000, "")},
		[]models.Payment{pay("PAY-1", 1000, "Full payment for INV-1")},
	)
	NewEngine(nil).Run(s)

	require.Len(t, s.Matches, 1)
	m := s.Matches[0]
	assert.Equal(t, models.MatchExact1x1, m.MatchType)
	assert.Equal(t, 1.0, m.Confidence)
	assert.Equal(t, []string{"INV-1"}, m.InvoiceIDs)
	assert.Equal(t, []string{"PAY-1"}, m.PaymentIDs)
}

func TestExactMatchByPONumber(t *testing.T) {
	s := session(
		[]models.Invoice{inv("INV-1", 500, "PO-42")},
		[]models.Payment{pay("PAY-1", 500, "per order PO-42")},
	)
	NewEngine(nil).Run(s)

	require.Len(t, s.Matches, 1)
	assert.Equal(t, models.MatchExact1x1, s.Matches[0].MatchType)
}

func TestExactMatchRequiresReference(t *testing.T) {
	// amount matches, remittance never mentions the invoice
	s := session(
		[]models.Invoice{inv("INV-1", 1000, "")},
		[]models.Payment{pay("PAY-1", 1000, "wire transfer")},
	)
	NewEngine(nil).Run(s)
	assert.Empty(t, s.Matches)
}

func TestExactMatchTieBreakInputOrder(t *testing.T) {
	s := session(
		[]models.Invoice{inv("INV-1", 300, ""), inv("INV-2", 300, "")},
		[]models.Payment{pay("PAY-1", 300, "covers INV-1 INV-2")},
	)
	NewEngine(nil).Run(s)

	require.Len(t, s.Matches, 1)
	// first eligible invoice in bucket order wins
	assert.Equal(t, []string{"INV-1"}, s.Matches[0].InvoiceIDs)
}

func TestEmptyRemittanceIsNotAFault(t *testing.T) {
	s := session(
		[]models.Invoice{inv("INV-1", 100, "")},
		[]models.Payment{pay("PAY-1", 100, "")},
	)
	NewEngine(nil).Run(s)
	assert.Empty(t, s.Matches)
}

func TestBulkMatch(t *testing.T) {
	s := session(
		[]models.Invoice{inv("INV-2", 400, ""), inv("INV-3", 600, "")},
		[]models.Payment{pay("PAY-2", 1000, "Paying INV-2 and INV-3 together")},
	)
	NewEngine(nil).Run(s)

	require.Len(t, s.Matches, 1)
	m := s.Matches[0]
	assert.Equal(t, models.MatchBulkNx1, m.MatchType)
	assert.Equal(t, 0.95, m.Confidence)
	assert.Equal(t, []string{"INV-2", "INV-3"}, m.InvoiceIDs)
	assert.Equal(t, []string{"PAY-2"}, m.PaymentIDs)
}

func TestBulkMatchRejectsSumOutsideTolerance(t *testing.T) {
	s := session(
		[]models.Invoice{inv("INV-2", 400, ""), inv("INV-3", 600, "")},
		[]models.Payment{pay("PAY-2", 1000.02, "Paying INV-2 and INV-3")},
	)
	NewEngine(nil).Run(s)
	assert.Empty(t, s.Matches)
}

func TestBulkMatchAcceptsSumAtTolerance(t *testing.T) {
	s := session(
		[]models.Invoice{inv("INV-2", 400, ""), inv("INV-3", 600, "")},
		[]models.Payment{pay("PAY-2", 1000.01, "Paying INV-2 and INV-3")},
	)
	NewEngine(nil).Run(s)
	require.Len(t, s.Matches, 1)
	assert.Equal(t, models.MatchBulkNx1, s.Matches[0].MatchType)
}

func TestSplitMatch(t *testing.T) {
	s := session(
		[]models.Invoice{inv("INV-4", 900, "")},
		[]models.Payment{
			pay("PAY-4a", 300, "Part 1 for INV-4"),
			pay("PAY-4b", 600, "Part 2 for INV-4"),
		},
	)
	NewEngine(nil).Run(s)

	require.Len(t, s.Matches, 1)
	m := s.Matches[0]
	assert.Equal(t, models.MatchSplit1xN, m.MatchType)
	assert.Equal(t, 0.95, m.Confidence)
	assert.Equal(t, []string{"INV-4"}, m.InvoiceIDs)
	assert.Equal(t, []string{"PAY-4a", "PAY-4b"}, m.PaymentIDs)
}

func TestEarlierPhaseClaimsWin(t *testing.T) {
	// PAY-1 claims INV-1 exactly in phase 1; PAY-2 also references
	// INV-1 but phase 2 only sees what is left unclaimed.
	s := session(
		[]models.Invoice{inv("INV-1", 100, ""), inv("INV-2", 200, ""), inv("INV-3", 100, "")},
		[]models.Payment{
			pay("PAY-1", 100, "settles INV-1"),
			pay("PAY-2", 300, "settles INV-1, INV-2 and INV-3"),
		},
	)
	NewEngine(nil).Run(s)

	require.Len(t, s.Matches, 2)
	assert.Equal(t, models.MatchExact1x1, s.Matches[0].MatchType)
	assert.Equal(t, []string{"INV-1"}, s.Matches[0].InvoiceIDs)
	// phase 2 sums only the unclaimed INV-2 and INV-3
	assert.Equal(t, models.MatchBulkNx1, s.Matches[1].MatchType)
	assert.Equal(t, []string{"INV-2", "INV-3"}, s.Matches[1].InvoiceIDs)
}

func TestEachItemClaimedAtMostOnce(t *testing.T) {
	s := session(
		[]models.Invoice{
			inv("INV-1", 1000, "PO-1"),
			inv("INV-2", 400, ""),
			inv("INV-3", 600, ""),
			inv("INV-4", 900, ""),
		},
		[]models.Payment{
			pay("PAY-1", 1000, "Full payment for INV-1"),
			pay("PAY-2", 1000, "bulk INV-2 INV-3"),
			pay("PAY-4a", 300, "INV-4 part one"),
			pay("PAY-4b", 600, "INV-4 part two"),
		},
	)
	NewEngine(nil).Run(s)

	seenInv := map[string]int{}
	seenPay := map[string]int{}
	for _, m := range s.Matches {
		for _, id := range m.InvoiceIDs {
			seenInv[id]++
		}
		for _, id := range m.PaymentIDs {
			seenPay[id]++
		}
	}
	for id, n := range seenInv {
		assert.Equal(t, 1, n, "invoice %s claimed %d times", id, n)
	}
	for id, n := range seenPay {
		assert.Equal(t, 1, n, "payment %s claimed %d times", id, n)
	}
}

type failingSimilarity struct{}

func (failingSimilarity) TopCandidates(context.Context, models.Payment, string) ([]SimilarityCandidate, error) {
	return nil, errors.New("vector store unavailable")
}

type rankedSimilarity struct{ out []SimilarityCandidate }

func (r rankedSimilarity) TopCandidates(context.Context, models.Payment, string) ([]SimilarityCandidate, error) {
	return r.out, nil
}

func TestSemanticCandidatesDegradeOnFailure(t *testing.T) {
	e := NewEngine(failingSimilarity{})
	got := e.SemanticCandidates(context.Background(), pay("PAY-1", 10, "x"), "CUST-001")
	assert.Empty(t, got)
}

func TestSemanticCandidatesCappedAtThree(t *testing.T) {
	e := NewEngine(rankedSimilarity{out: []SimilarityCandidate{
		{InvoiceID: "INV-1", Distance: 0.1},
		{InvoiceID: "INV-2", Distance: 0.2},
		{InvoiceID: "INV-3", Distance: 0.3},
		{InvoiceID: "INV-4", Distance: 0.4},
	}})
	got := e.SemanticCandidates(context.Background(), pay("PAY-1", 10, "x"), "CUST-001")
	require.Len(t, got, 3)
	assert.Equal(t, "INV-1", got[0].InvoiceID)
}

func TestSimilarityPortUnusedByPhases(t *testing.T) {
	// the deterministic phases must not consult the port
	s := session(
		[]models.Invoice{inv("INV-1", 1000, "")},
		[]models.Payment{pay("PAY-1", 1000, "Full payment for INV-1")},
	)
	NewEngine(failingSimilarity{}).Run(s)
	require.Len(t, s.Matches, 1)
}
