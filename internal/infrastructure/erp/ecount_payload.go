package erp

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/catalog/backend/internal/domain/integration"
)

// Character limits of the SaveBasicProduct field contract
const (
	maxProdCodeLen = 20
	maxProdDescLen = 100
	maxSizeDescLen = 60
	maxBarcodeLen  = 30
	maxRemarksLen  = 200
	ellipsis       = "..."
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// BuildBulkFields maps a product snapshot to the flat record the
// SaveBasicProduct endpoint accepts. It is a total function: snapshot fields
// are pre-validated by the caller, free-form text is sanitized here. Keys
// whose value would be empty are omitted entirely; the remote treats absence,
// not empty string, as "no value".
//
// Several fields are emitted twice: the remote schema predates its own API
// and keeps legacy alias columns (including the Korean-named ones) that must
// stay populated alongside their modern counterparts.
func BuildBulkFields(snapshot integration.ProductSnapshot) integration.BulkFields {
	description := sanitizeDescription(snapshot.DescriptionHTML)
	label := snapshot.Label
	if label == "" {
		label = snapshot.Name
	}
	unit := strings.TrimSpace(snapshot.Unit)
	if unit == "" {
		unit = "EA"
	}
	price := flooredInteger(snapshot.PriceKRW)

	fields := integration.BulkFields{
		"PROD_CD":      truncate(snapshot.MasterCode, maxProdCodeLen),
		"PROD_DES":     truncate(snapshot.Name, maxProdDescLen),
		"SIZE_FLAG":    "1",
		"SIZE_DES":     truncate(label, maxSizeDescLen),
		"UNIT":         strings.ToUpper(unit),
		"BAL_FLAG":     boolFlag(snapshot.InventoryTrack, "1", "0"),
		"STOCK_YN":     boolFlag(snapshot.InventoryTrack, "Y", "N"),
		"DISPLAY_YN":   boolFlag(snapshot.DisplayStatus, "Y", "N"),
		"BAR_CODE":     truncate(snapshot.Barcode, maxBarcodeLen),
		"OUT_PRICE":    price,
		"REMARKS":      description,
		"REMARKS_WIN":  description,
		"VAT_YN":       "Y",
		"RELEASE_DATE": snapshot.ReleaseDate.UTC().Format("20060102"),
		"title":        snapshot.Name,
		"format":       snapshot.PrimaryCategoryID(),
		"출고단가":         price,
		"품목코드":         snapshot.Barcode,
		"발매일":          snapshot.ReleaseDate.UTC().Format("2006/01/02"),
		"구매처":          snapshot.Label,
	}

	if snapshot.StockQty != nil {
		fields["SAFE_STOCK_Q"] = flooredInteger(*snapshot.StockQty)
	}

	return pruneEmpty(fields)
}

// truncate shortens s to at most n characters. Short limits are hard-cut;
// longer ones end in an ellipsis marker so the total length is exactly n.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return string(runes[:n])
	}
	return string(runes[:n-len(ellipsis)]) + ellipsis
}

// sanitizeDescription strips markup tags, collapses whitespace runs and caps
// the result at the remarks limit
func sanitizeDescription(html string) string {
	if html == "" {
		return ""
	}
	text := htmlTagPattern.ReplaceAllString(html, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > maxRemarksLen {
		return string(runes[:maxRemarksLen])
	}
	return text
}

// flooredInteger renders d as a non-negative decimal-integer string,
// truncating toward zero
func flooredInteger(d decimal.Decimal) string {
	d = d.Truncate(0)
	if d.IsNegative() {
		return "0"
	}
	return d.String()
}

func boolFlag(v bool, on, off string) string {
	if v {
		return on
	}
	return off
}

// pruneEmpty drops every key whose value is empty; absence signals "no value"
func pruneEmpty(fields integration.BulkFields) integration.BulkFields {
	pruned := make(integration.BulkFields, len(fields))
	for key, value := range fields {
		if value != "" {
			pruned[key] = value
		}
	}
	return pruned
}
