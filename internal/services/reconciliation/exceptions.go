package reconciliation

import (
	"time"

	"bank-reconciliation-backend/internal/models"
)

// agingThreshold is the invoice age past which an unmatched invoice
// escalates from medium to high severity.
const agingThreshold = 30 * 24 * time.Hour

const (
	reasonUnmatchedInvoice = "no payment found with matching identifier or amount"
	reasonUnmatchedPayment = "payment received without clear reference to an invoice"
)

// classifyExceptions emits exactly one ExceptionRecord for every
// invoice and payment not claimed by any match group. Together with
// the matching stage this partitions the session: matched or
// excepted, never both, never neither.
func classifyExceptions(s *models.ReconciliationSession, now time.Time) {
	claimedInv := make(map[string]bool)
	claimedPay := make(map[string]bool)
	for _, m := range s.Matches {
		for _, id := range m.InvoiceIDs {
			claimedInv[id] = true
		}
		for _, id := range m.PaymentIDs {
			claimedPay[id] = true
		}
	}

	for _, inv := range s.Invoices {
		if claimedInv[inv.InvoiceID] {
			continue
		}
		severity := models.SeverityMedium
		if now.Sub(inv.InvoiceDate) > agingThreshold {
			severity = models.SeverityHigh
		}
		s.Exceptions = append(s.Exceptions, models.ExceptionRecord{
			EntityID:   inv.InvoiceID,
			EntityKind: models.KindInvoice,
			Amount:     inv.Amount,
			Reason:     reasonUnmatchedInvoice,
			Severity:   severity,
		})
	}

	for _, pay := range s.Payments {
		if claimedPay[pay.PaymentID] {
			continue
		}
		s.Exceptions = append(s.Exceptions, models.ExceptionRecord{
			EntityID:   pay.PaymentID,
			EntityKind: models.KindPayment,
			Amount:     pay.Amount,
			Reason:     reasonUnmatchedPayment,
			Severity:   models.SeverityMedium,
		})
	}
}
