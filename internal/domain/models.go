package domain

import (
	"fmt"
	"strings"
	"time"
)

// Product is a catalog entry. Code is the identity and never changes once
// created. PriceCents holds the unit price in cents; the catalog file stores
// it as a two-decimal string.
type Product struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Category   string `json:"category"`
	Stock      int    `json:"stock"`
}

// NewProduct validates and builds a Product. Invalid input is rejected here,
// not at the presentation layer.
func NewProduct(code, name string, priceCents int64, category string, stock int) (Product, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)

	if code == "" || name == "" {
		return Product{}, fmt.Errorf("%w: code and name are required", ErrInvalidProduct)
	}
	if priceCents < 0 {
		return Product{}, ErrInvalidPrice
	}
	if stock < 0 {
		return Product{}, fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}

	return Product{
		Code:       code,
		Name:       name,
		PriceCents: priceCents,
		Category:   category,
		Stock:      stock,
	}, nil
}

// LineItem is one sale entry within an open session. It carries a denormalized
// snapshot of the product at add-time, so later catalog edits never rewrite a
// recorded sale. ID is a per-session monotonically increasing handle used for
// removal; it is never an index into the line list.
type LineItem struct {
	ID             int64         `json:"id"`
	Code           string        `json:"code"`
	Name           string        `json:"name"`
	Quantity       int           `json:"quantity"`
	UnitPriceCents int64         `json:"unit_price_cents"`
	SubtotalCents  int64         `json:"subtotal_cents"`
	Method         PaymentMethod `json:"payment_method"`
	Category       string        `json:"category"`

	// StockApplied records whether the stock ledger actually decremented
	// stock for this line, so removal and discard reverse only what was
	// applied.
	StockApplied bool `json:"stock_applied"`
}

// SaleRecord is a LineItem stamped with the close date and time. Once written
// to a day log it is never rewritten.
type SaleRecord struct {
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Code           string        `json:"code"`
	Name           string        `json:"name"`
	Quantity       int           `json:"quantity"`
	UnitPriceCents int64         `json:"unit_price_cents"`
	SubtotalCents  int64         `json:"subtotal_cents"`
	Method         PaymentMethod `json:"payment_method"`
	Category       string        `json:"category"`
}

// Stamp converts a line item into a day-log record.
func (li LineItem) Stamp(at time.Time) SaleRecord {
	return SaleRecord{
		Date:           at.Format(DateLayout),
		Time:           at.Format(TimeLayout),
		Code:           li.Code,
		Name:           li.Name,
		Quantity:       li.Quantity,
		UnitPriceCents: li.UnitPriceCents,
		SubtotalCents:  li.SubtotalCents,
		Method:         li.Method,
		Category:       li.Category,
	}
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Totals splits the running session total by payment bucket. CashCents plus
// VirtualCents always equals GeneralCents.
type Totals struct {
	GeneralCents int64 `json:"general_cents"`
	CashCents    int64 `json:"cash_cents"`
	VirtualCents int64 `json:"virtual_cents"`
}

// ClosingSummary is returned by a successful register close.
type ClosingSummary struct {
	ReceiptID string `json:"receipt_id"`
	Totals    Totals `json:"totals"`
	ItemCount int    `json:"item_count"`
	LogPath   string `json:"log_path"`
}

// RecoverySummary describes a session restored from the temporary snapshot.
type RecoverySummary struct {
	ItemCount int    `json:"item_count"`
	Totals    Totals `json:"totals"`
	SavedAt   string `json:"saved_at"`
}

// StockWarning is the non-blocking low-stock notice attached to a successful
// decrement.
type StockWarning struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
}

func (w StockWarning) String() string {
	return fmt.Sprintf("low stock for %q: %d remaining", w.Name, w.Remaining)
}

// ProductSales is one row of an inventory-sold aggregation.
type ProductSales struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	TotalQuantity int    `json:"total_quantity"`
	RevenueCents  int64  `json:"revenue_cents"`
}

// DayReportProduct groups a day's records for a single product, with the
// per-method quantity breakdown rendered for display.
type DayReportProduct struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
	MethodsDisplay string `json:"methods_display"`
}

// DayReport is the specific-date report: grouped products, totals keyed by
// payment-method label, the percentage mix, and the grand total.
type DayReport struct {
	Date           string             `json:"date"`
	Products       []DayReportProduct `json:"products"`
	MethodTotals   map[string]int64   `json:"method_totals_cents"`
	MethodPercents map[string]float64 `json:"method_percents"`
	TotalCents     int64              `json:"total_cents"`
	RecordCount    int                `json:"record_count"`
}
