package matching

import (
	"bank-reconciliation-backend/internal/models"
	"bank-reconciliation-backend/internal/money"
)

// Indexes are the lookup structures the engine phases run on, built
// once per session from the invoice set.
type Indexes struct {
	// ByAmount buckets invoices under their 2-decimal amount key, in
	// original input order.
	ByAmount map[string][]*models.Invoice

	// ByReference maps every textual reference (invoice id, and the PO
	// number when present) to its invoice. When two invoices share a
	// reference string the later one overwrites the earlier: last
	// writer wins. That is the documented collision rule, not an
	// accident to repair here.
	ByReference map[string]*models.Invoice

	// RefOrder lists reference keys in first-insertion order so scans
	// over ByReference stay deterministic.
	RefOrder []string
}

// BuildIndexes runs once over the invoice set. O(n), no error cases.
func BuildIndexes(invoices []models.Invoice) *Indexes {
	ix := &Indexes{
		ByAmount:    make(map[string][]*models.Invoice),
		ByReference: make(map[string]*models.Invoice),
	}

	for i := range invoices {
		inv := &invoices[i]

		key := money.Key(inv.Amount)
		ix.ByAmount[key] = append(ix.ByAmount[key], inv)

		ix.putRef(inv.InvoiceID, inv)
		if inv.PONumber != "" {
			ix.putRef(inv.PONumber, inv)
		}
	}
	return ix
}

func (ix *Indexes) putRef(ref string, inv *models.Invoice) {
	if _, seen := ix.ByReference[ref]; !seen {
		ix.RefOrder = append(ix.RefOrder, ref)
	}
	ix.ByReference[ref] = inv
}
