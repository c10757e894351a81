package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appintegration "github.com/catalog/backend/internal/application/integration"
	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/integration"
	"github.com/catalog/backend/internal/domain/shared"
)

// ProductService handles product lifecycle operations. Every state-changing
// operation runs inside a transaction scope together with the outbound ECount
// push: when the push fails, the local write rolls back and the catalog and
// the ERP stay consistent.
type ProductService struct {
	scope       TransactionScope
	productRepo catalog.ProductRepository
	refRepo     integration.ExternalRefRepository
	sync        *appintegration.EcountSyncService
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	scope TransactionScope,
	productRepo catalog.ProductRepository,
	refRepo integration.ExternalRefRepository,
	sync *appintegration.EcountSyncService,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		scope:       scope,
		productRepo: productRepo,
		refRepo:     refRepo,
		sync:        sync,
		logger:      logger,
	}
}

// Create creates a new product and pushes it to ECount
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	// Check if master code already exists
	_, err := s.productRepo.FindByMasterCode(ctx, req.MasterCode)
	if err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this master code already exists")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := catalog.NewProduct(req.MasterCode, req.Name, req.PriceKRW, req.ReleaseDate)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Label, req.Barcode, req.PriceKRW, req.ReleaseDate); err != nil {
		return nil, err
	}
	product.SetDescription(req.DescriptionHTML)
	if req.DisplayStatus != nil {
		product.SetDisplayStatus(*req.DisplayStatus)
	}
	if err := product.SetInventoryTracking(req.InventoryTrack, req.StockQty); err != nil {
		return nil, err
	}
	if req.Unit != "" {
		product.SetUnit(req.Unit)
	}
	if req.CategoryIDs != nil {
		if err := product.SetCategoryIDs(req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}
		_, err := s.sync.PushProduct(ctx, repos.ExternalRefRepo(), product)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByMasterCode retrieves a product by its master code
func (s *ProductService) GetByMasterCode(ctx context.Context, masterCode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByMasterCode(ctx, masterCode)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a page of products ordered by master code
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	products, total, err := s.productRepo.List(ctx, offset, filter.PageSize)
	if err != nil {
		return nil, 0, err
	}

	return ToProductListResponses(products), total, nil
}

// Update updates a product and pushes the new state to ECount
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	label := product.Label
	if req.Label != nil {
		label = *req.Label
	}
	barcode := product.Barcode
	if req.Barcode != nil {
		barcode = *req.Barcode
	}
	price := product.PriceKRW
	if req.PriceKRW != nil {
		price = *req.PriceKRW
	}
	releaseDate := product.ReleaseDate
	if req.ReleaseDate != nil {
		releaseDate = *req.ReleaseDate
	}
	if err := product.Update(name, label, barcode, price, releaseDate); err != nil {
		return nil, err
	}

	if req.DescriptionHTML != nil {
		product.SetDescription(*req.DescriptionHTML)
	}
	if req.DisplayStatus != nil {
		product.SetDisplayStatus(*req.DisplayStatus)
	}
	if req.InventoryTrack != nil || req.StockQty != nil {
		track := product.InventoryTrack
		if req.InventoryTrack != nil {
			track = *req.InventoryTrack
		}
		qty := product.StockQty
		if req.StockQty != nil {
			qty = req.StockQty
		}
		if err := product.SetInventoryTracking(track, qty); err != nil {
			return nil, err
		}
	}
	if req.Unit != nil {
		product.SetUnit(*req.Unit)
	}
	if req.CategoryIDs != nil {
		if err := product.SetCategoryIDs(req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}
		_, err := s.sync.PushProduct(ctx, repos.ExternalRefRepo(), product)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product and its sync records
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}

	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ExternalRefRepo().DeleteByProduct(ctx, productID); err != nil {
			return err
		}
		return repos.ProductRepo().Delete(ctx, productID)
	})
}

// SyncToEcount re-pushes a product's current state to ECount on demand
func (s *ProductService) SyncToEcount(ctx context.Context, productID uuid.UUID) (*SyncResultResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	var outcome integration.SyncOutcome
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		outcome, err = s.sync.PushProduct(ctx, repos.ExternalRefRepo(), product)
		return err
	})
	if err != nil {
		return nil, err
	}

	refs, err := s.refRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &SyncResultResponse{
		Skipped: outcome.Skipped,
		Records: ToSyncRecordResponses(refs),
	}, nil
}

// GetSyncRecords returns the sync records of a product
func (s *ProductService) GetSyncRecords(ctx context.Context, productID uuid.UUID) ([]SyncRecordResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	refs, err := s.refRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToSyncRecordResponses(refs), nil
}
