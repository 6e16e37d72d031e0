package reconciliation

import (
	"fmt"
	"strings"
	"time"

	"bank-reconciliation-backend/internal/models"
)

// recordAuditTrail appends one entry per match group produced this
// session. Entries land after the compliance entry, preserving stage
// order in the log. The trail is append-only: nothing in the core
// edits or removes entries once written.
func recordAuditTrail(s *models.ReconciliationSession, now time.Time) {
	for _, m := range s.Matches {
		s.AuditTrail = append(s.AuditTrail, models.AuditEntry{
			EntityType: "match",
			EntityID:   matchEntityID(m),
			Action:     models.ActionAutoMatch,
			Actor:      models.ActorSystem,
			Payload: map[string]any{
				"confidence": m.Confidence,
				"match_type": m.MatchType,
			},
			Timestamp: now,
		})
	}
}

func matchEntityID(m models.MatchGroup) string {
	return fmt.Sprintf("%s:%s",
		strings.Join(m.InvoiceIDs, ","),
		strings.Join(m.PaymentIDs, ","))
}
