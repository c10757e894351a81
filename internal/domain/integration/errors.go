package integration

import "errors"

var (
	// Connector errors
	ErrConnectorNotConfigured = errors.New("integration: erp connector not configured")
	ErrSnapshotInvalid        = errors.New("integration: product snapshot missing required field")
	ErrLoginFailed            = errors.New("integration: erp login failed")
	ErrSessionRejected        = errors.New("integration: erp session rejected")
	ErrRemoteRejected         = errors.New("integration: erp rejected product record")
	ErrRequestTimeout         = errors.New("integration: erp request timed out")
	ErrErpUnavailable         = errors.New("integration: erp temporarily unavailable")
	ErrInvalidResponse        = errors.New("integration: invalid erp response")

	// Sync record errors
	ErrExternalRefNotFound       = errors.New("integration: external reference not found")
	ErrExternalRefInvalidProduct = errors.New("integration: invalid product ID")
	ErrExternalRefInvalidSystem  = errors.New("integration: invalid system code")
)
