package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByMasterCode finds a product by its master code
func (r *GormProductRepository) FindByMasterCode(ctx context.Context, masterCode string) (*catalog.Product, error) {
	var product catalog.Product
	code := strings.ToUpper(strings.TrimSpace(masterCode))
	if err := r.db.WithContext(ctx).
		Where("master_code = ?", code).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// List returns a page of products ordered by master code
func (r *GormProductRepository) List(ctx context.Context, offset, limit int) ([]catalog.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Order("master_code ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
