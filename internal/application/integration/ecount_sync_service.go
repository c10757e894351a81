package integration

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/integration"
)

// EcountSyncService pushes product snapshots to the ECount ERP and maintains
// the local sync record for each pushed product. A nil client is a supported
// deployment mode (no ECount credentials configured): every push is skipped
// and reported as such, never as an error.
type EcountSyncService struct {
	client integration.ErpClient
	build  integration.PayloadBuilder
	logger *zap.Logger
}

// NewEcountSyncService creates a new ECount sync service. client may be nil
// when the connector is not configured.
func NewEcountSyncService(client integration.ErpClient, build integration.PayloadBuilder, logger *zap.Logger) *EcountSyncService {
	return &EcountSyncService{
		client: client,
		build:  build,
		logger: logger,
	}
}

// Enabled reports whether a connector is configured
func (s *EcountSyncService) Enabled() bool {
	return s.client != nil
}

// productSource is the slice of the product aggregate the sync service needs:
// its identity and a point-in-time snapshot of its synced fields
type productSource interface {
	GetID() uuid.UUID
	Snapshot() integration.ProductSnapshot
}

// PushProduct pushes the product's current snapshot to ECount and upserts its
// sync record through refRepo. The caller decides the transactional boundary
// by choosing which repository to pass: handing in a transaction-scoped
// repository couples a failed push to the surrounding rollback.
func (s *EcountSyncService) PushProduct(ctx context.Context, refRepo integration.ExternalRefRepository, product productSource) (integration.SyncOutcome, error) {
	if s.client == nil {
		s.logger.Debug("ecount sync skipped: connector not configured",
			zap.String("product_id", product.GetID().String()))
		return integration.SyncOutcome{Skipped: true}, nil
	}

	snapshot := product.Snapshot()
	if err := snapshot.Validate(); err != nil {
		return integration.SyncOutcome{}, err
	}

	fields := s.build(snapshot)
	result, err := s.client.SaveBasicProduct(ctx, fields)
	if err != nil {
		s.logger.Warn("ecount push failed",
			zap.String("product_id", product.GetID().String()),
			zap.String("master_code", snapshot.MasterCode),
			zap.Error(err))
		return integration.SyncOutcome{}, err
	}

	ref, err := refRepo.FindByProductAndSystem(ctx, product.GetID(), integration.SystemCodeEcount)
	if err != nil {
		if !errors.Is(err, integration.ErrExternalRefNotFound) {
			return integration.SyncOutcome{}, err
		}
		ref, err = integration.NewExternalRef(product.GetID(), integration.SystemCodeEcount)
		if err != nil {
			return integration.SyncOutcome{}, err
		}
	}

	ref.RecordPush(snapshot.MasterCode, auditBlob(fields, result.Response))
	if err := refRepo.Save(ctx, ref); err != nil {
		return integration.SyncOutcome{}, err
	}

	s.logger.Info("ecount push succeeded",
		zap.String("product_id", product.GetID().String()),
		zap.String("master_code", snapshot.MasterCode))
	return integration.SyncOutcome{}, nil
}

// auditBlob renders the request/response pair as a JSON document for the sync
// record. Halves that cannot be serialized degrade to null rather than
// failing the sync.
func auditBlob(request, response any) string {
	blob := struct {
		Request  json.RawMessage `json:"request"`
		Response json.RawMessage `json:"response"`
	}{
		Request:  marshalOrNull(request),
		Response: marshalOrNull(response),
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return `{"request":null,"response":null}`
	}
	return string(data)
}

func marshalOrNull(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return data
}
