package integration

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductSnapshot is the caller-supplied, immutable view of a product's fields
// to be pushed to an external system. All fields except free-form text are
// assumed validated by the caller; MasterCode must be non-empty.
type ProductSnapshot struct {
	MasterCode      string
	Name            string
	Label           string
	Barcode         string
	PriceKRW        decimal.Decimal
	ReleaseDate     time.Time
	DescriptionHTML string
	DisplayStatus   bool
	InventoryTrack  bool
	// StockQty is meaningful only when InventoryTrack is set
	StockQty    *decimal.Decimal
	Unit        string
	CategoryIDs []string
}

// Validate checks the snapshot invariants enforced before a push
func (s *ProductSnapshot) Validate() error {
	if strings.TrimSpace(s.MasterCode) == "" {
		return ErrSnapshotInvalid
	}
	return nil
}

// PrimaryCategoryID returns the first non-empty category entry, or "" if none
func (s *ProductSnapshot) PrimaryCategoryID() string {
	for _, id := range s.CategoryIDs {
		if strings.TrimSpace(id) != "" {
			return id
		}
	}
	return ""
}
