package reconciliation

import (
	"regexp"
	"time"

	"bank-reconciliation-backend/internal/models"
)

// Runs of 8-12 consecutive digits look like bank account numbers and
// must not persist downstream of the pipeline.
var accountNumberPattern = regexp.MustCompile(`\d{8,12}`)

const redactionMarker = "********"

// maskRemittance redacts qualifying digit runs. Idempotent: the marker
// contains no digits, so a second pass is a no-op.
func maskRemittance(text string) string {
	return accountNumberPattern.ReplaceAllString(text, redactionMarker)
}

// maskRemittances redacts every payment's remittance text, regardless
// of matching outcome, and appends one audit entry recording that
// masking completed for the session.
func maskRemittances(s *models.ReconciliationSession, now time.Time) {
	for i := range s.Payments {
		s.Payments[i].RemittanceRaw = maskRemittance(s.Payments[i].RemittanceRaw)
	}

	s.AuditTrail = append(s.AuditTrail, models.AuditEntry{
		EntityType: "session",
		EntityID:   s.Context.CustomerID,
		Action:     models.ActionPIIMasking,
		Actor:      models.ActorSystem,
		Payload:    map[string]any{"status": "completed", "payments": len(s.Payments)},
		Timestamp:  now,
	})
}
