package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/catalog/backend/internal/domain/integration"
	"github.com/catalog/backend/internal/domain/shared"
)

// Product represents a catalog product and is the aggregate root for
// product-related operations. The master code is the identifier shared with
// downstream systems and never changes after issuance.
type Product struct {
	shared.BaseEntity
	MasterCode      string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string           `gorm:"type:varchar(200);not null"`
	Label           string           `gorm:"type:varchar(200)"`
	Barcode         string           `gorm:"type:varchar(50);index"`
	PriceKRW        decimal.Decimal  `gorm:"type:decimal(18,0);not null;default:0"`
	ReleaseDate     time.Time        `gorm:"not null"`
	DescriptionHTML string           `gorm:"type:text;column:description_html"`
	DisplayStatus   bool             `gorm:"not null;default:true"`
	InventoryTrack  bool             `gorm:"not null;default:false"`
	StockQty        *decimal.Decimal `gorm:"type:decimal(18,0)"`
	Unit            string           `gorm:"type:varchar(20);not null;default:'EA'"`
	CategoryIDsRaw  string           `gorm:"type:jsonb;column:category_ids"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(masterCode, name string, priceKRW decimal.Decimal, releaseDate time.Time) (*Product, error) {
	if err := validateMasterCode(masterCode); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if priceKRW.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Product{
		BaseEntity:     shared.NewBaseEntity(),
		MasterCode:     strings.ToUpper(strings.TrimSpace(masterCode)),
		Name:           name,
		PriceKRW:       priceKRW,
		ReleaseDate:    releaseDate,
		DisplayStatus:  true,
		Unit:           "EA",
		CategoryIDsRaw: "[]",
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, label, barcode string, priceKRW decimal.Decimal, releaseDate time.Time) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if priceKRW.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if barcode != "" && len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	p.Name = name
	p.Label = label
	p.Barcode = barcode
	p.PriceKRW = priceKRW
	p.ReleaseDate = releaseDate
	p.UpdatedAt = time.Now()
	return nil
}

// SetDescription sets the rich-text description markup
func (p *Product) SetDescription(html string) {
	p.DescriptionHTML = html
	p.UpdatedAt = time.Now()
}

// SetDisplayStatus toggles whether the product is shown on sales surfaces
func (p *Product) SetDisplayStatus(display bool) {
	p.DisplayStatus = display
	p.UpdatedAt = time.Now()
}

// SetInventoryTracking enables or disables stock tracking. Quantity is only
// retained while tracking is enabled.
func (p *Product) SetInventoryTracking(track bool, qty *decimal.Decimal) error {
	if qty != nil && qty.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}
	p.InventoryTrack = track
	if track {
		p.StockQty = qty
	} else {
		p.StockQty = nil
	}
	p.UpdatedAt = time.Now()
	return nil
}

// SetUnit sets the sales unit, defaulting to EA when blank
func (p *Product) SetUnit(unit string) {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "EA"
	}
	p.Unit = unit
	p.UpdatedAt = time.Now()
}

// SetCategoryIDs replaces the ordered category assignment
func (p *Product) SetCategoryIDs(ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return shared.NewDomainError("INVALID_CATEGORIES", "Category IDs could not be encoded")
	}
	p.CategoryIDsRaw = string(raw)
	p.UpdatedAt = time.Now()
	return nil
}

// CategoryIDs returns the ordered category assignment. Malformed stored data
// degrades to an empty list rather than failing reads.
func (p *Product) CategoryIDs() []string {
	if p.CategoryIDsRaw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(p.CategoryIDsRaw), &ids); err != nil {
		return nil
	}
	return ids
}

// Snapshot returns the immutable view of this product handed to outbound
// sync connectors.
func (p *Product) Snapshot() integration.ProductSnapshot {
	var stock *decimal.Decimal
	if p.InventoryTrack {
		if p.StockQty != nil {
			q := *p.StockQty
			stock = &q
		} else {
			zero := decimal.Zero
			stock = &zero
		}
	}

	return integration.ProductSnapshot{
		MasterCode:      p.MasterCode,
		Name:            p.Name,
		Label:           p.Label,
		Barcode:         p.Barcode,
		PriceKRW:        p.PriceKRW,
		ReleaseDate:     p.ReleaseDate,
		DescriptionHTML: p.DescriptionHTML,
		DisplayStatus:   p.DisplayStatus,
		InventoryTrack:  p.InventoryTrack,
		StockQty:        stock,
		Unit:            p.Unit,
		CategoryIDs:     p.CategoryIDs(),
	}
}

func validateMasterCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_MASTER_CODE", "Master code is required")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_MASTER_CODE", "Master code cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
