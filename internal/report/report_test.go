package report

import (
	"testing"
	"time"

	"github.com/rebeatle/sistema-ventas/internal/daylog"
	"github.com/rebeatle/sistema-ventas/internal/domain"
)

func seededAggregator(t *testing.T) *Aggregator {
	t.Helper()
	logs, err := daylog.New(t.TempDir())
	if err != nil {
		t.Fatalf("new daylog: %v", err)
	}

	batches := [][]domain.SaleRecord{
		{
			{Date: "2026-08-27", Time: "10:00:00", Code: "001", Name: "Coca Cola", Quantity: 2, UnitPriceCents: 350, SubtotalCents: 700, Method: domain.MethodCash, Category: "Bebidas"},
			{Date: "2026-08-27", Time: "10:05:00", Code: "004", Name: "Galletas Oreo", Quantity: 1, UnitPriceCents: 450, SubtotalCents: 450, Method: domain.MethodYape, Category: "Snacks"},
		},
		{
			{Date: "2026-08-28", Time: "09:00:00", Code: "001", Name: "Coca Cola", Quantity: 4, UnitPriceCents: 350, SubtotalCents: 1400, Method: domain.MethodCash, Category: "Bebidas"},
			{Date: "2026-08-28", Time: "11:00:00", Code: "001", Name: "Coca Cola", Quantity: 1, UnitPriceCents: 350, SubtotalCents: 350, Method: domain.MethodPlin, Category: "Bebidas"},
			{Date: "2026-08-28", Time: "12:00:00", Code: "005", Name: "Papas Lays", Quantity: 1, UnitPriceCents: 500, SubtotalCents: 500, Method: domain.MethodCash, Category: "Snacks"},
		},
	}
	for _, batch := range batches {
		if _, err := logs.Append(batch); err != nil {
			t.Fatalf("seed append: %v", err)
		}
	}
	return New(logs)
}

func dateRange(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	from, _ := time.Parse(domain.DateLayout, "2026-08-27")
	to, _ := time.Parse(domain.DateLayout, "2026-08-28")
	return from, to
}

func TestInventorySoldSortsByQuantity(t *testing.T) {
	agg := seededAggregator(t)
	from, to := dateRange(t)

	rows, err := agg.InventorySold(from, to, Filter{})
	if err != nil {
		t.Fatalf("inventory sold failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 products, got %d", len(rows))
	}
	if rows[0].Code != "001" || rows[0].TotalQuantity != 7 || rows[0].RevenueCents != 2450 {
		t.Fatalf("unexpected top row: %+v", rows[0])
	}
}

func TestInventorySoldFilters(t *testing.T) {
	agg := seededAggregator(t)
	from, to := dateRange(t)

	rows, err := agg.InventorySold(from, to, Filter{Category: "Snacks"})
	if err != nil {
		t.Fatalf("inventory sold failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 snack products, got %d", len(rows))
	}

	rows, err = agg.InventorySold(from, to, Filter{Code: "005"})
	if err != nil {
		t.Fatalf("inventory sold failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Code != "005" {
		t.Fatalf("expected only 005, got %v", rows)
	}
}

func TestTopProductsByRevenue(t *testing.T) {
	agg := seededAggregator(t)
	from, to := dateRange(t)

	rows, err := agg.TopProducts(from, to, 2, true)
	if err != nil {
		t.Fatalf("top products failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Code != "001" {
		t.Fatalf("expected 001 to lead by revenue, got %s", rows[0].Code)
	}
}

func TestDayReport(t *testing.T) {
	agg := seededAggregator(t)

	day, err := agg.DayReport("2026-08-28")
	if err != nil {
		t.Fatalf("day report failed: %v", err)
	}
	if day == nil {
		t.Fatalf("expected a report for 2026-08-28")
	}
	if day.RecordCount != 3 {
		t.Fatalf("expected 3 records, got %d", day.RecordCount)
	}
	if day.TotalCents != 2250 {
		t.Fatalf("expected total 2250, got %d", day.TotalCents)
	}
	if day.MethodTotals["Efectivo"] != 1900 {
		t.Fatalf("expected Efectivo 1900, got %d", day.MethodTotals["Efectivo"])
	}
	if day.MethodTotals["Plin"] != 350 {
		t.Fatalf("expected Plin 350, got %d", day.MethodTotals["Plin"])
	}

	var percentSum float64
	for _, pct := range day.MethodPercents {
		percentSum += pct
	}
	if percentSum < 99.9 || percentSum > 100.1 {
		t.Fatalf("expected percentages to sum to 100, got %f", percentSum)
	}

	// Two products on the 28th, grouped and sorted by name.
	if len(day.Products) != 2 {
		t.Fatalf("expected 2 grouped products, got %d", len(day.Products))
	}
	coca := day.Products[0]
	if coca.Name != "Coca Cola" || coca.Quantity != 5 || coca.SubtotalCents != 1750 {
		t.Fatalf("unexpected grouped row: %+v", coca)
	}
	if coca.MethodsDisplay != "Efectivo (4), Plin (1)" {
		t.Fatalf("unexpected methods display: %q", coca.MethodsDisplay)
	}
}

func TestDayReportNoSales(t *testing.T) {
	agg := seededAggregator(t)

	day, err := agg.DayReport("2026-01-01")
	if err != nil {
		t.Fatalf("day report failed: %v", err)
	}
	if day != nil {
		t.Fatalf("expected nil report for a day without sales")
	}
}
