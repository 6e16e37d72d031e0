package models

// CustomerContext scopes a session to one tenant. Every query and
// every persisted row carries the customer id; sessions never mix
// tenants.
type CustomerContext struct {
	CustomerID string `json:"customer_id"`
	TenantName string `json:"tenant_name"`
}

// ReconciliationSession is the single shared state one pipeline run
// reads and augments. It is owned exclusively by that run.
type ReconciliationSession struct {
	Context    CustomerContext   `json:"context"`
	Invoices   []Invoice         `json:"invoices"`
	Payments   []Payment         `json:"payments"`
	Matches    []MatchGroup      `json:"matches"`
	Exceptions []ExceptionRecord `json:"exceptions"`
	AuditTrail []AuditEntry      `json:"audit_trail"`
}
