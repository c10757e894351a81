package erp

import (
	"context"

	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/integration"
)

// MockEcountClient is a stand-in ERP client for local development and staging
// environments without ECount credentials. It logs each push and reports
// success without performing any network calls.
type MockEcountClient struct {
	logger *zap.Logger
}

// NewMockEcountClient creates a mock ECount client
func NewMockEcountClient(logger *zap.Logger) *MockEcountClient {
	return &MockEcountClient{logger: logger}
}

// SaveBasicProduct logs the push and returns a synthetic success response
func (c *MockEcountClient) SaveBasicProduct(_ context.Context, fields integration.BulkFields) (*integration.SaveResult, error) {
	c.logger.Info("mock ecount push",
		zap.String("prod_cd", fields.PrimaryIdentifier()),
		zap.Int("field_count", len(fields)))

	success := true
	resp := &EcountSaveResponse{
		Status: ecountStatus("200"),
		Data: &EcountSaveData{
			ResultDetails: []EcountResultDetail{
				{IsSuccess: &success},
			},
		},
	}
	return &integration.SaveResult{Response: resp}, nil
}

var _ integration.ErpClient = (*MockEcountClient)(nil)
