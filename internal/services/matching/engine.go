package matching

import (
	"strings"

	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/money"
)

// Per-phase confidence constants. Fixed by design, not learned.
const (
	confidenceExact = 1.0
	confidenceBulk  = 0.95
	confidenceSplit = 0.95
)

// Engine runs the three ordered matching phases over one session.
// It is a pure function of the session's invoices and payments: no
// I/O, no retries, deterministic tie-break by input order. The
// similarity port is injected for future phases; the shipped phases
// never consult it.
type Engine struct {
	similarity SimilaritySearcher
}

func NewEngine(similarity SimilaritySearcher) *Engine {
	if similarity == nil {
		similarity = NullSimilarity{}
	}
	return &Engine{similarity: similarity}
}

// Run appends match groups to the session. Each invoice and each
// payment is claimed by at most one group; later phases only see what
// earlier phases left unclaimed.
func (e *Engine) Run(s *models.ReconciliationSession) {
	ix := BuildIndexes(s.Invoices)

	claimedInvoices := make(map[string]bool)
	claimedPayments := make(map[string]bool)

	e.phaseExact(s, ix, claimedInvoices, claimedPayments)
	e.phaseBulk(s, ix, claimedInvoices, claimedPayments)
	e.phaseSplit(s, ix, claimedInvoices, claimedPayments)
}

// Phase 1: exact 1:1. Amount bucket lookup, first invoice in bucket
// order whose reference appears in the remittance wins.
func (e *Engine) phaseExact(s *models.ReconciliationSession, ix *Indexes, claimedInv, claimedPay map[string]bool) {
	for i := range s.Payments {
		pay := &s.Payments[i]

		bucket := ix.ByAmount[money.Key(pay.Amount)]
		for _, inv := range bucket {
			if claimedInv[inv.InvoiceID] {
				continue
			}
			if !referencedBy(inv, pay.RemittanceRaw) {
				continue
			}
			s.Matches = append(s.Matches, models.MatchGroup{
				InvoiceIDs: []string{inv.InvoiceID},
				PaymentIDs: []string{pay.PaymentID},
				Confidence: confidenceExact,
				MatchType:  models.MatchExact1x1,
				Reasons:    []string{"exact 1:1 match on amount and remittance reference"},
			})
			claimedInv[inv.InvoiceID] = true
			claimedPay[pay.PaymentID] = true
			break
		}
	}
}

// Phase 2: bulk N:1. One payment settles several invoices whose
// references all appear in its remittance and whose amounts sum to the
// payment amount.
func (e *Engine) phaseBulk(s *models.ReconciliationSession, ix *Indexes, claimedInv, claimedPay map[string]bool) {
	for i := range s.Payments {
		pay := &s.Payments[i]
		if claimedPay[pay.PaymentID] {
			continue
		}

		var candidates []*models.Invoice
		seen := make(map[string]bool)
		for _, ref := range ix.RefOrder {
			inv := ix.ByReference[ref]
			if claimedInv[inv.InvoiceID] || seen[inv.InvoiceID] {
				continue
			}
			if strings.Contains(pay.RemittanceRaw, ref) {
				candidates = append(candidates, inv)
				seen[inv.InvoiceID] = true
			}
		}
		if len(candidates) == 0 {
			continue
		}

		total := money.Sum(invoiceAmounts(candidates))
		if !money.WithinTolerance(total, pay.Amount) {
			continue
		}

		group := models.MatchGroup{
			PaymentIDs: []string{pay.PaymentID},
			Confidence: confidenceBulk,
			MatchType:  models.MatchBulkNx1,
			Reasons:    []string{"bulk N:1 match: invoice amounts sum to payment amount"},
		}
		for _, inv := range candidates {
			group.InvoiceIDs = append(group.InvoiceIDs, inv.InvoiceID)
			claimedInv[inv.InvoiceID] = true
		}
		claimedPay[pay.PaymentID] = true
		s.Matches = append(s.Matches, group)
	}
}

// Phase 3: split 1:N. Several payments together settle one invoice
// they all reference.
func (e *Engine) phaseSplit(s *models.ReconciliationSession, ix *Indexes, claimedInv, claimedPay map[string]bool) {
	for _, ref := range ix.RefOrder {
		inv := ix.ByReference[ref]
		if claimedInv[inv.InvoiceID] {
			continue
		}

		var candidates []*models.Payment
		for i := range s.Payments {
			pay := &s.Payments[i]
			if claimedPay[pay.PaymentID] {
				continue
			}
			if strings.Contains(pay.RemittanceRaw, ref) {
				candidates = append(candidates, pay)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		total := money.Sum(paymentAmounts(candidates))
		if !money.WithinTolerance(total, inv.Amount) {
			continue
		}

		group := models.MatchGroup{
			InvoiceIDs: []string{inv.InvoiceID},
			Confidence: confidenceSplit,
			MatchType:  models.MatchSplit1xN,
			Reasons:    []string{"split 1:N match: payment amounts sum to invoice amount"},
		}
		for _, pay := range candidates {
			group.PaymentIDs = append(group.PaymentIDs, pay.PaymentID)
			claimedPay[pay.PaymentID] = true
		}
		claimedInv[inv.InvoiceID] = true
		s.Matches = append(s.Matches, group)
	}
}

// referencedBy reports whether the invoice's id or PO number appears
// literally in the remittance text. Empty remittance is a valid state,
// never a fault.
func referencedBy(inv *models.Invoice, remittance string) bool {
	if strings.Contains(remittance, inv.InvoiceID) {
		return true
	}
	return inv.PONumber != "" && strings.Contains(remittance, inv.PONumber)
}

func invoiceAmounts(invoices []*models.Invoice) []float64 {
	out := make([]float64, len(invoices))
	for i, inv := range invoices {
		out[i] = inv.Amount
	}
	return out
}

func paymentAmounts(payments []*models.Payment) []float64 {
	out := make([]float64, len(payments))
	for i, p := range payments {
		out[i] = p.Amount
	}
	return out
}
