package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/integration"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	MasterCode      string           `json:"master_code" binding:"required,min=1,max=50"`
	Name            string           `json:"name" binding:"required,min=1,max=200"`
	Label           string           `json:"label" binding:"max=200"`
	Barcode         string           `json:"barcode" binding:"max=50"`
	PriceKRW        decimal.Decimal  `json:"price_krw"`
	ReleaseDate     time.Time        `json:"release_date" binding:"required"`
	DescriptionHTML string           `json:"description_html"`
	DisplayStatus   *bool            `json:"display_status"`
	InventoryTrack  bool             `json:"inventory_track"`
	StockQty        *decimal.Decimal `json:"stock_qty"`
	Unit            string           `json:"unit" binding:"max=20"`
	CategoryIDs     []string         `json:"category_ids"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Label           *string          `json:"label" binding:"omitempty,max=200"`
	Barcode         *string          `json:"barcode" binding:"omitempty,max=50"`
	PriceKRW        *decimal.Decimal `json:"price_krw"`
	ReleaseDate     *time.Time       `json:"release_date"`
	DescriptionHTML *string          `json:"description_html"`
	DisplayStatus   *bool            `json:"display_status"`
	InventoryTrack  *bool            `json:"inventory_track"`
	StockQty        *decimal.Decimal `json:"stock_qty"`
	Unit            *string          `json:"unit" binding:"omitempty,max=20"`
	CategoryIDs     []string         `json:"category_ids"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID        `json:"id"`
	MasterCode      string           `json:"master_code"`
	Name            string           `json:"name"`
	Label           string           `json:"label"`
	Barcode         string           `json:"barcode"`
	PriceKRW        decimal.Decimal  `json:"price_krw"`
	ReleaseDate     time.Time        `json:"release_date"`
	DescriptionHTML string           `json:"description_html"`
	DisplayStatus   bool             `json:"display_status"`
	InventoryTrack  bool             `json:"inventory_track"`
	StockQty        *decimal.Decimal `json:"stock_qty,omitempty"`
	Unit            string           `json:"unit"`
	CategoryIDs     []string         `json:"category_ids"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ProductListResponse represents a list item for products
type ProductListResponse struct {
	ID            uuid.UUID       `json:"id"`
	MasterCode    string          `json:"master_code"`
	Name          string          `json:"name"`
	Label         string          `json:"label"`
	Barcode       string          `json:"barcode"`
	PriceKRW      decimal.Decimal `json:"price_krw"`
	ReleaseDate   time.Time       `json:"release_date"`
	DisplayStatus bool            `json:"display_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Page     int `form:"page" binding:"min=0"`
	PageSize int `form:"page_size" binding:"min=0,max=100"`
}

// SyncRecordResponse represents one sync record in API responses
type SyncRecordResponse struct {
	System            string     `json:"system"`
	ExternalProductID string     `json:"external_product_id"`
	LastSyncDirection string     `json:"last_sync_direction"`
	LastSyncedAt      *time.Time `json:"last_synced_at,omitempty"`
	SourceOfTruth     string     `json:"source_of_truth"`
}

// SyncResultResponse reports the outcome of a manual sync request
type SyncResultResponse struct {
	Skipped bool                 `json:"skipped"`
	Records []SyncRecordResponse `json:"records"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		MasterCode:      p.MasterCode,
		Name:            p.Name,
		Label:           p.Label,
		Barcode:         p.Barcode,
		PriceKRW:        p.PriceKRW,
		ReleaseDate:     p.ReleaseDate,
		DescriptionHTML: p.DescriptionHTML,
		DisplayStatus:   p.DisplayStatus,
		InventoryTrack:  p.InventoryTrack,
		StockQty:        p.StockQty,
		Unit:            p.Unit,
		CategoryIDs:     p.CategoryIDs(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProductListResponse converts a domain Product to ProductListResponse
func ToProductListResponse(p *catalog.Product) ProductListResponse {
	return ProductListResponse{
		ID:            p.ID,
		MasterCode:    p.MasterCode,
		Name:          p.Name,
		Label:         p.Label,
		Barcode:       p.Barcode,
		PriceKRW:      p.PriceKRW,
		ReleaseDate:   p.ReleaseDate,
		DisplayStatus: p.DisplayStatus,
		CreatedAt:     p.CreatedAt,
	}
}

// ToProductListResponses converts a slice of domain Products to ProductListResponses
func ToProductListResponses(products []catalog.Product) []ProductListResponse {
	responses := make([]ProductListResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductListResponse(&p)
	}
	return responses
}

// ToSyncRecordResponse converts a domain ExternalRef to SyncRecordResponse
func ToSyncRecordResponse(ref *integration.ExternalRef) SyncRecordResponse {
	response := SyncRecordResponse{
		System:            ref.System.String(),
		ExternalProductID: ref.ExternalProductID,
		LastSyncDirection: string(ref.LastSyncDirection),
		SourceOfTruth:     string(ref.SourceOfTruth),
	}
	if !ref.LastSyncedAt.IsZero() {
		syncedAt := ref.LastSyncedAt
		response.LastSyncedAt = &syncedAt
	}
	return response
}

// ToSyncRecordResponses converts a slice of domain ExternalRefs
func ToSyncRecordResponses(refs []integration.ExternalRef) []SyncRecordResponse {
	responses := make([]SyncRecordResponse, len(refs))
	for i, ref := range refs {
		responses[i] = ToSyncRecordResponse(&ref)
	}
	return responses
}
