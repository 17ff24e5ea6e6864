// Package report computes read-side aggregations over closed day logs. It
// never writes; it consumes the day-log contract only.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rebeatle/sistema-ventas/internal/daylog"
	"github.com/rebeatle/sistema-ventas/internal/domain"
)

// Aggregator reads closed day logs and rolls them up.
type Aggregator struct {
	logs *daylog.Store
}

func New(logs *daylog.Store) *Aggregator {
	return &Aggregator{logs: logs}
}

// Filter narrows an inventory-sold aggregation. Zero values mean no filter.
type Filter struct {
	Category string
	Code     string
}

// InventorySold aggregates quantity and revenue per product over a date
// range, sorted by quantity sold descending.
func (a *Aggregator) InventorySold(from, to time.Time, filter Filter) ([]domain.ProductSales, error) {
	records, err := a.logs.ReadRange(from, to)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]*domain.ProductSales)
	for _, r := range records {
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		if filter.Code != "" && r.Code != filter.Code {
			continue
		}

		row, ok := byCode[r.Code]
		if !ok {
			row = &domain.ProductSales{Code: r.Code, Name: r.Name, Category: r.Category}
			byCode[r.Code] = row
		}
		row.TotalQuantity += r.Quantity
		row.RevenueCents += r.SubtotalCents
	}

	out := make([]domain.ProductSales, 0, len(byCode))
	for _, row := range byCode {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// TopProducts returns the top n products by quantity, or by revenue when
// byRevenue is set.
func (a *Aggregator) TopProducts(from, to time.Time, n int, byRevenue bool) ([]domain.ProductSales, error) {
	rows, err := a.InventorySold(from, to, Filter{})
	if err != nil {
		return nil, err
	}

	if byRevenue {
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].RevenueCents != rows[j].RevenueCents {
				return rows[i].RevenueCents > rows[j].RevenueCents
			}
			return rows[i].Code < rows[j].Code
		})
	}
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// DayReport builds the single-date report: products grouped with their
// payment-method breakdown, totals per method label, the percentage mix and
// the grand total. A date with no sales yields nil.
func (a *Aggregator) DayReport(date string) (*domain.DayReport, error) {
	records, err := a.logs.Read(date)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	type group struct {
		product   domain.DayReportProduct
		methodQty map[domain.PaymentMethod]int
	}

	groups := make(map[string]*group)
	keys := make([]string, 0)
	for _, r := range records {
		key := r.Code + "|" + r.Name
		g, ok := groups[key]
		if !ok {
			g = &group{
				product: domain.DayReportProduct{
					Code:           r.Code,
					Name:           r.Name,
					UnitPriceCents: r.UnitPriceCents,
				},
				methodQty: make(map[domain.PaymentMethod]int),
			}
			groups[key] = g
			keys = append(keys, key)
		}
		g.product.Quantity += r.Quantity
		g.product.SubtotalCents += r.SubtotalCents
		g.methodQty[r.Method] += r.Quantity
	}

	products := make([]domain.DayReportProduct, 0, len(groups))
	for _, key := range keys {
		g := groups[key]
		parts := make([]string, 0, len(g.methodQty))
		for _, m := range domain.PaymentMethods() {
			if qty, ok := g.methodQty[m]; ok {
				parts = append(parts, fmt.Sprintf("%s (%d)", m.Label(), qty))
			}
		}
		g.product.MethodsDisplay = strings.Join(parts, ", ")
		products = append(products, g.product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	methodTotals := make(map[string]int64, 4)
	for _, m := range domain.PaymentMethods() {
		methodTotals[m.Label()] = 0
	}
	var total int64
	for _, r := range records {
		methodTotals[r.Method.Label()] += r.SubtotalCents
		total += r.SubtotalCents
	}

	percents := make(map[string]float64, len(methodTotals))
	for label, cents := range methodTotals {
		if total > 0 {
			percents[label] = float64(cents) / float64(total) * 100
		} else {
			percents[label] = 0
		}
	}

	return &domain.DayReport{
		Date:           date,
		Products:       products,
		MethodTotals:   methodTotals,
		MethodPercents: percents,
		TotalCents:     total,
		RecordCount:    len(records),
	}, nil
}
