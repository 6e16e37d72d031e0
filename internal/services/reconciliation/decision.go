package reconciliation

import "bank-reconciliation-backend/internal/models"

// confidenceThreshold is the fixed cutoff for auto-acceptance.
const confidenceThreshold = 0.8

// applyDecisions marks every match at or above the threshold as
// proposed. Matches below it keep an empty status: they go to human
// review, not auto-acceptance.
func applyDecisions(s *models.ReconciliationSession) {
	for i := range s.Matches {
		if s.Matches[i].Confidence >= confidenceThreshold {
			s.Matches[i].Status = models.StatusProposed
		}
	}
}
