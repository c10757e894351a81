package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// ExternalRef Entity
// ---------------------------------------------------------------------------

// ExternalRef is the local sync record for one (product, external system)
// pair. It is created on the first successful push for a product and updated
// in place on subsequent pushes; a unique index on (product_id, system)
// guarantees one row per pair.
type ExternalRef struct {
	// ID is the unique identifier of this record
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// ProductID is our internal product ID
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_external_refs_product_system"`
	// System identifies which external system this record is for
	System SystemCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_external_refs_product_system"`
	// ExternalProductID is the product identifier on the external system
	ExternalProductID string `gorm:"type:varchar(100)"`
	// LastSyncDirection records which way the last sync moved data
	LastSyncDirection SyncDirection `gorm:"type:varchar(10)"`
	// LastSyncedAt is when the last sync completed
	LastSyncedAt time.Time
	// SourceOfTruth marks which side is authoritative
	SourceOfTruth SourceOfTruth `gorm:"type:varchar(10)"`
	// AuditJSON holds the {request, response} blob of the last sync
	AuditJSON string `gorm:"type:jsonb;column:audit_json"`
	// CreatedAt is when this record was created
	CreatedAt time.Time
	// UpdatedAt is when this record was last updated
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (ExternalRef) TableName() string {
	return "external_refs"
}

// NewExternalRef creates a new sync record for a product and external system
func NewExternalRef(productID uuid.UUID, system SystemCode) (*ExternalRef, error) {
	if productID == uuid.Nil {
		return nil, ErrExternalRefInvalidProduct
	}
	if !system.IsValid() {
		return nil, ErrExternalRefInvalidSystem
	}

	now := time.Now()
	return &ExternalRef{
		ID:        uuid.New(),
		ProductID: productID,
		System:    system,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// RecordPush updates the record after a successful outbound push. The master
// record stays the source of truth for pushed field sets.
func (r *ExternalRef) RecordPush(externalProductID, auditJSON string) {
	now := time.Now()
	r.ExternalProductID = externalProductID
	r.LastSyncDirection = SyncDirectionPush
	r.LastSyncedAt = now
	r.SourceOfTruth = SourceOfTruthMaster
	r.AuditJSON = auditJSON
	r.UpdatedAt = now
}

// ---------------------------------------------------------------------------
// ExternalRefRepository Interface
// ---------------------------------------------------------------------------

// ExternalRefRepository defines the persistence port for sync records
type ExternalRefRepository interface {
	// FindByProductAndSystem finds the sync record for a (product, system)
	// pair. Returns ErrExternalRefNotFound when no record exists yet.
	FindByProductAndSystem(ctx context.Context, productID uuid.UUID, system SystemCode) (*ExternalRef, error)

	// FindByProduct returns all sync records for a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ExternalRef, error)

	// Save creates or updates a sync record
	Save(ctx context.Context, ref *ExternalRef) error

	// DeleteByProduct removes all sync records for a product
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}
