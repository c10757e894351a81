package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/catalog/backend/internal/domain/integration"
)

// GormExternalRefRepository implements ExternalRefRepository using GORM
type GormExternalRefRepository struct {
	db *gorm.DB
}

// NewGormExternalRefRepository creates a new GormExternalRefRepository
func NewGormExternalRefRepository(db *gorm.DB) *GormExternalRefRepository {
	return &GormExternalRefRepository{db: db}
}

// FindByProductAndSystem finds the sync record for a (product, system) pair
func (r *GormExternalRefRepository) FindByProductAndSystem(ctx context.Context, productID uuid.UUID, system integration.SystemCode) (*integration.ExternalRef, error) {
	var ref integration.ExternalRef
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND system = ?", productID, system).
		First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrExternalRefNotFound
		}
		return nil, err
	}
	return &ref, nil
}

// FindByProduct returns all sync records for a product
func (r *GormExternalRefRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]integration.ExternalRef, error) {
	var refs []integration.ExternalRef
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("system ASC").
		Find(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

// Save creates or updates a sync record
func (r *GormExternalRefRepository) Save(ctx context.Context, ref *integration.ExternalRef) error {
	return r.db.WithContext(ctx).Save(ref).Error
}

// DeleteByProduct removes all sync records for a product
func (r *GormExternalRefRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&integration.ExternalRef{}, "product_id = ?", productID).Error
}

// Ensure GormExternalRefRepository implements ExternalRefRepository
var _ integration.ExternalRefRepository = (*GormExternalRefRepository)(nil)
