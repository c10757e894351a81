package integration

import "context"

// BulkFields is the flat string-keyed record an ERP save endpoint accepts.
// Absent keys signal "no value"; values are never empty strings.
type BulkFields map[string]string

// PrimaryIdentifier returns the master product code field of the record
func (f BulkFields) PrimaryIdentifier() string {
	return f["PROD_CD"]
}

// SaveResult carries the outcome of a successful ERP save call. Response holds
// the full parsed remote response for audit persistence.
type SaveResult struct {
	Response any
}

// PayloadBuilder maps a product snapshot to the flat record an ERP system
// accepts. Implementations are pure functions.
type PayloadBuilder func(snapshot ProductSnapshot) BulkFields

// ErpClient is the port through which product records are pushed to an ERP
// system. Implementations own the authentication lifecycle and perform at most
// one session-refresh retry per call; all other failures surface to the caller
// as errors from the taxonomy in errors.go.
type ErpClient interface {
	// SaveBasicProduct pushes a single flat product record. The record's
	// primary identifier must be present and non-blank.
	SaveBasicProduct(ctx context.Context, fields BulkFields) (*SaveResult, error)
}
