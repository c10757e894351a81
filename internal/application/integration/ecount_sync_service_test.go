package integration

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/integration"
)

type fakeErpClient struct {
	calls  int
	fields integration.BulkFields
	result *integration.SaveResult
	err    error
}

func (c *fakeErpClient) SaveBasicProduct(_ context.Context, fields integration.BulkFields) (*integration.SaveResult, error) {
	c.calls++
	c.fields = fields
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

type fakeRefRepo struct {
	refs    map[uuid.UUID]*integration.ExternalRef
	saveErr error
	findErr error
}

func newFakeRefRepo() *fakeRefRepo {
	return &fakeRefRepo{refs: make(map[uuid.UUID]*integration.ExternalRef)}
}

func (r *fakeRefRepo) FindByProductAndSystem(_ context.Context, productID uuid.UUID, _ integration.SystemCode) (*integration.ExternalRef, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	ref, ok := r.refs[productID]
	if !ok {
		return nil, integration.ErrExternalRefNotFound
	}
	return ref, nil
}

func (r *fakeRefRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]integration.ExternalRef, error) {
	if ref, ok := r.refs[productID]; ok {
		return []integration.ExternalRef{*ref}, nil
	}
	return nil, nil
}

func (r *fakeRefRepo) Save(_ context.Context, ref *integration.ExternalRef) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.refs[ref.ProductID] = ref
	return nil
}

func (r *fakeRefRepo) DeleteByProduct(_ context.Context, productID uuid.UUID) error {
	delete(r.refs, productID)
	return nil
}

func passthroughBuilder(snapshot integration.ProductSnapshot) integration.BulkFields {
	return integration.BulkFields{"PROD_CD": snapshot.MasterCode}
}

func testProduct(t *testing.T) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("cate9-00042", "Vinyl", decimal.NewFromInt(38000),
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return product
}

func TestEcountSyncService_PushProduct(t *testing.T) {
	t.Run("nil client skips without error", func(t *testing.T) {
		service := NewEcountSyncService(nil, passthroughBuilder, zap.NewNop())
		repo := newFakeRefRepo()

		outcome, err := service.PushProduct(context.Background(), repo, testProduct(t))
		require.NoError(t, err)
		assert.True(t, outcome.Skipped)
		assert.False(t, service.Enabled())
		assert.Empty(t, repo.refs)
	})

	t.Run("first push creates the sync record", func(t *testing.T) {
		client := &fakeErpClient{result: &integration.SaveResult{Response: map[string]string{"Status": "200"}}}
		service := NewEcountSyncService(client, passthroughBuilder, zap.NewNop())
		repo := newFakeRefRepo()
		product := testProduct(t)

		outcome, err := service.PushProduct(context.Background(), repo, product)
		require.NoError(t, err)
		assert.False(t, outcome.Skipped)
		assert.Equal(t, 1, client.calls)
		assert.Equal(t, "CATE9-00042", client.fields.PrimaryIdentifier())

		ref := repo.refs[product.ID]
		require.NotNil(t, ref)
		assert.Equal(t, product.ID, ref.ProductID)
		assert.Equal(t, integration.SystemCodeEcount, ref.System)
		assert.Equal(t, "CATE9-00042", ref.ExternalProductID)
		assert.Equal(t, integration.SyncDirectionPush, ref.LastSyncDirection)
		assert.Equal(t, integration.SourceOfTruthMaster, ref.SourceOfTruth)
		assert.False(t, ref.LastSyncedAt.IsZero())
	})

	t.Run("repeat push updates the existing record", func(t *testing.T) {
		client := &fakeErpClient{result: &integration.SaveResult{}}
		service := NewEcountSyncService(client, passthroughBuilder, zap.NewNop())
		repo := newFakeRefRepo()
		product := testProduct(t)

		_, err := service.PushProduct(context.Background(), repo, product)
		require.NoError(t, err)
		firstID := repo.refs[product.ID].ID

		_, err = service.PushProduct(context.Background(), repo, product)
		require.NoError(t, err)
		assert.Equal(t, firstID, repo.refs[product.ID].ID, "record identity is stable")
		assert.Equal(t, 2, client.calls)
	})

	t.Run("audit blob holds the request and response", func(t *testing.T) {
		client := &fakeErpClient{result: &integration.SaveResult{Response: map[string]any{"Status": "200"}}}
		service := NewEcountSyncService(client, passthroughBuilder, zap.NewNop())
		repo := newFakeRefRepo()
		product := testProduct(t)

		_, err := service.PushProduct(context.Background(), repo, product)
		require.NoError(t, err)

		var audit struct {
			Request  map[string]string `json:"request"`
			Response map[string]any    `json:"response"`
		}
		require.NoError(t, json.Unmarshal([]byte(repo.refs[product.ID].AuditJSON), &audit))
		assert.Equal(t, "CATE9-00042", audit.Request["PROD_CD"])
		assert.Equal(t, "200", audit.Response["Status"])
	})

	t.Run("push failure leaves no sync record", func(t *testing.T) {
		client := &fakeErpClient{err: integration.ErrRemoteRejected}
		service := NewEcountSyncService(client, passthroughBuilder, zap.NewNop())
		repo := newFakeRefRepo()

		_, err := service.PushProduct(context.Background(), repo, testProduct(t))
		assert.ErrorIs(t, err, integration.ErrRemoteRejected)
		assert.Empty(t, repo.refs)
	})

	t.Run("repository lookup failure surfaces", func(t *testing.T) {
		client := &fakeErpClient{result: &integration.SaveResult{}}
		service := NewEcountSyncService(client, passthroughBuilder, zap.NewNop())
		repo := newFakeRefRepo()
		repo.findErr = errors.New("db down")

		_, err := service.PushProduct(context.Background(), repo, testProduct(t))
		assert.EqualError(t, err, "db down")
	})

	t.Run("save failure surfaces", func(t *testing.T) {
		client := &fakeErpClient{result: &integration.SaveResult{}}
		service := NewEcountSyncService(client, passthroughBuilder, zap.NewNop())
		repo := newFakeRefRepo()
		repo.saveErr = errors.New("constraint violation")

		_, err := service.PushProduct(context.Background(), repo, testProduct(t))
		assert.EqualError(t, err, "constraint violation")
	})
}

func TestAuditBlob(t *testing.T) {
	t.Run("unserializable halves degrade to null", func(t *testing.T) {
		blob := auditBlob(func() {}, map[string]string{"ok": "yes"})
		var parsed struct {
			Request  json.RawMessage   `json:"request"`
			Response map[string]string `json:"response"`
		}
		require.NoError(t, json.Unmarshal([]byte(blob), &parsed))
		assert.Equal(t, "null", string(parsed.Request))
		assert.Equal(t, "yes", parsed.Response["ok"])
	})
}
