package matching

import (
	"context"
	"log"

	"bank-reconciliation-backend/internal/models"
)

// maxSimilarityCandidates caps the ranked list a searcher may return.
const maxSimilarityCandidates = 3

// SimilarityCandidate is one semantically ranked invoice for a payment.
type SimilarityCandidate struct {
	InvoiceID string  `json:"invoice_id"`
	Distance  float64 `json:"distance"`
}

// SimilaritySearcher ranks invoices semantically close to a payment's
// remittance. It is an extension point: the deterministic phases do
// not call it, and implementations may back it with any vector store.
type SimilaritySearcher interface {
	TopCandidates(ctx context.Context, payment models.Payment, customerID string) ([]SimilarityCandidate, error)
}

// NullSimilarity always returns no candidates.
type NullSimilarity struct{}

func (NullSimilarity) TopCandidates(context.Context, models.Payment, string) ([]SimilarityCandidate, error) {
	return nil, nil
}

// SemanticCandidates consults the similarity port for a payment. An
// unavailable or failing searcher degrades to an empty list; it never
// aborts a run.
func (e *Engine) SemanticCandidates(ctx context.Context, payment models.Payment, customerID string) []SimilarityCandidate {
	candidates, err := e.similarity.TopCandidates(ctx, payment, customerID)
	if err != nil {
		log.Println("similarity lookup failed, continuing without candidates:", err)
		return nil
	}
	if len(candidates) > maxSimilarityCandidates {
		candidates = candidates[:maxSimilarityCandidates]
	}
	return candidates
}
