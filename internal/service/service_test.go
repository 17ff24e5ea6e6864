package service

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rebeatle/sistema-ventas/internal/audit"
	"github.com/rebeatle/sistema-ventas/internal/catalog"
	"github.com/rebeatle/sistema-ventas/internal/daylog"
	"github.com/rebeatle/sistema-ventas/internal/domain"
	"github.com/rebeatle/sistema-ventas/internal/session"
)

type fixture struct {
	register *Register
	catalog  *catalog.Store
	stock    *catalog.Ledger
	logs     *daylog.Store
	dir      string
}

func newFixture(t *testing.T, tracking bool) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	dir := t.TempDir()

	cat, err := catalog.Load(filepath.Join(dir, "productos.csv"), logger)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	stock := catalog.NewLedger(cat, filepath.Join(dir, "config_stock.txt"), 5, logger)
	if tracking {
		if err := stock.SetEnabled(true); err != nil {
			t.Fatalf("enable tracking: %v", err)
		}
	}
	sess := session.New(filepath.Join(dir, "ventas_temp.json"), logger)
	logs, err := daylog.New(filepath.Join(dir, "ventas_diarias"))
	if err != nil {
		t.Fatalf("new daylog: %v", err)
	}
	trail := audit.New(filepath.Join(dir, "auditoria.jsonl"), logger)

	return &fixture{
		register: New(cat, stock, sess, logs, trail, logger),
		catalog:  cat,
		stock:    stock,
		logs:     logs,
		dir:      dir,
	}
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	f := newFixture(t, true)

	line, warning, err := f.register.RecordSale("001", 2, domain.MethodCash)
	if err != nil {
		t.Fatalf("record sale failed: %v", err)
	}
	if line.SubtotalCents != 700 {
		t.Fatalf("expected subtotal 700, got %d", line.SubtotalCents)
	}
	if warning != nil {
		t.Fatalf("expected no warning at 48 remaining")
	}
	if !line.StockApplied {
		t.Fatalf("expected line to record the applied decrement")
	}

	p, _ := f.catalog.Find("001")
	if p.Stock != 48 {
		t.Fatalf("expected stock 48, got %d", p.Stock)
	}
}

func TestRecordSaleBlocksOversellWithoutLeavingALine(t *testing.T) {
	f := newFixture(t, true)

	_, _, err := f.register.RecordSale("008", 999, domain.MethodCash)
	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Available != 15 {
		t.Fatalf("expected 15 available, got %d", insufficient.Available)
	}
	if len(f.register.Lines()) != 0 {
		t.Fatalf("a failed stock check must not leave a line item")
	}

	p, _ := f.catalog.Find("008")
	if p.Stock != 15 {
		t.Fatalf("failed sale must leave stock unchanged, got %d", p.Stock)
	}
}

func TestRecordSaleUnknownProductAndBadInput(t *testing.T) {
	f := newFixture(t, false)

	if _, _, err := f.register.RecordSale("999", 1, domain.MethodCash); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := f.register.RecordSale("001", 0, domain.MethodCash); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, _, err := f.register.RecordSale("001", 1, domain.PaymentMethod("Z")); !errors.Is(err, domain.ErrInvalidMethod) {
		t.Fatalf("expected ErrInvalidMethod, got %v", err)
	}
}

func TestRecordSaleWithTrackingDisabledLeavesStock(t *testing.T) {
	f := newFixture(t, false)

	line, _, err := f.register.RecordSale("001", 10, domain.MethodCash)
	if err != nil {
		t.Fatalf("record sale failed: %v", err)
	}
	if line.StockApplied {
		t.Fatalf("line must not claim a decrement while tracking is off")
	}
	p, _ := f.catalog.Find("001")
	if p.Stock != 50 {
		t.Fatalf("expected frozen stock 50, got %d", p.Stock)
	}
}

func TestRemoveLineRestoresStockOnlyWhenApplied(t *testing.T) {
	f := newFixture(t, true)

	line, _, err := f.register.RecordSale("001", 5, domain.MethodCash)
	if err != nil {
		t.Fatalf("record sale failed: %v", err)
	}
	if _, err := f.register.RemoveLine(line.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	p, _ := f.catalog.Find("001")
	if p.Stock != 50 {
		t.Fatalf("expected stock restored to 50, got %d", p.Stock)
	}

	if _, err := f.register.RemoveLine(line.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown handle, got %v", err)
	}
}

func TestVariableSaleEnrollsProduct(t *testing.T) {
	f := newFixture(t, true)

	line, err := f.register.RecordVariableSale("Bolsa de hielo", 250, 2, domain.MethodYape)
	if err != nil {
		t.Fatalf("variable sale failed: %v", err)
	}
	if line.Code != "VAR001" {
		t.Fatalf("expected VAR001, got %s", line.Code)
	}
	if line.StockApplied {
		t.Fatalf("variable products carry no stock")
	}

	p, ok := f.catalog.Find("VAR001")
	if !ok {
		t.Fatalf("expected variable product enrolled in catalog")
	}
	if p.Category != "Varios" || p.PriceCents != 250 {
		t.Fatalf("unexpected enrolled product: %+v", p)
	}

	second, err := f.register.RecordVariableSale("Otra cosa", 100, 1, domain.MethodCash)
	if err != nil {
		t.Fatalf("second variable sale failed: %v", err)
	}
	if second.Code != "VAR002" {
		t.Fatalf("expected VAR002, got %s", second.Code)
	}
}

func TestCloseAppendsClearsAndFailsWhenEmpty(t *testing.T) {
	f := newFixture(t, true)
	f.register.now = func() time.Time {
		return time.Date(2026, 8, 28, 14, 30, 0, 0, time.Local)
	}

	if _, _, err := f.register.RecordSale("001", 2, domain.MethodCash); err != nil {
		t.Fatalf("record sale failed: %v", err)
	}
	if _, _, err := f.register.RecordSale("004", 1, domain.MethodYape); err != nil {
		t.Fatalf("record sale failed: %v", err)
	}

	summary, err := f.register.Close()
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if summary.ItemCount != 2 {
		t.Fatalf("expected 2 items closed, got %d", summary.ItemCount)
	}
	if summary.Totals.GeneralCents != 1150 {
		t.Fatalf("expected general 1150, got %d", summary.Totals.GeneralCents)
	}
	if len(f.register.Lines()) != 0 {
		t.Fatalf("expected empty session after close")
	}

	records, err := f.logs.Read("2026-08-28")
	if err != nil {
		t.Fatalf("read day log: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 stamped records, got %d", len(records))
	}
	if records[0].Date != "2026-08-28" || records[0].Time != "14:30:00" {
		t.Fatalf("expected close-time stamp, got %s %s", records[0].Date, records[0].Time)
	}

	if _, err := f.register.Close(); !errors.Is(err, domain.ErrEmptySession) {
		t.Fatalf("expected ErrEmptySession on immediate second close, got %v", err)
	}
}

func TestCloseAppendsToExistingDayLog(t *testing.T) {
	f := newFixture(t, false)
	f.register.now = func() time.Time {
		return time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	}

	if _, _, err := f.register.RecordSale("001", 1, domain.MethodCash); err != nil {
		t.Fatalf("record sale failed: %v", err)
	}
	if _, err := f.register.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}

	if _, _, err := f.register.RecordSale("002", 1, domain.MethodPlin); err != nil {
		t.Fatalf("record sale failed: %v", err)
	}
	if _, err := f.register.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}

	records, err := f.logs.Read("2026-08-28")
	if err != nil {
		t.Fatalf("read day log: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected both closes in the same day log, got %d records", len(records))
	}
}

func TestDiscardReversesOnlyAppliedDecrements(t *testing.T) {
	f := newFixture(t, false)

	// First line added while tracking is off: no decrement to reverse.
	if _, _, err := f.register.RecordSale("001", 10, domain.MethodCash); err != nil {
		t.Fatalf("record sale failed: %v", err)
	}

	if err := f.register.SetStockTracking(true); err != nil {
		t.Fatalf("enable tracking: %v", err)
	}
	if _, _, err := f.register.RecordSale("002", 5, domain.MethodCash); err != nil {
		t.Fatalf("record sale failed: %v", err)
	}

	if err := f.register.Discard(true); err != nil {
		t.Fatalf("discard failed: %v", err)
	}
	if len(f.register.Lines()) != 0 {
		t.Fatalf("expected empty session after discard")
	}

	p1, _ := f.catalog.Find("001")
	if p1.Stock != 50 {
		t.Fatalf("untracked line must not be incremented, got %d", p1.Stock)
	}
	p2, _ := f.catalog.Find("002")
	if p2.Stock != 40 {
		t.Fatalf("tracked line must be restored to 40, got %d", p2.Stock)
	}
}

func TestSessionSurvivesRestartViaSnapshot(t *testing.T) {
	f := newFixture(t, true)

	if _, _, err := f.register.RecordSale("001", 2, domain.MethodCash); err != nil {
		t.Fatalf("record sale failed: %v", err)
	}
	before := f.register.Totals()

	// Simulate a crash and restart on the same data dir.
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cat, err := catalog.Load(filepath.Join(f.dir, "productos.csv"), logger)
	if err != nil {
		t.Fatalf("reload catalog: %v", err)
	}
	stock := catalog.NewLedger(cat, filepath.Join(f.dir, "config_stock.txt"), 5, logger)
	sess := session.New(filepath.Join(f.dir, "ventas_temp.json"), logger)
	logs, err := daylog.New(filepath.Join(f.dir, "ventas_diarias"))
	if err != nil {
		t.Fatalf("reload daylog: %v", err)
	}
	trail := audit.New(filepath.Join(f.dir, "auditoria.jsonl"), logger)
	register := New(cat, stock, sess, logs, trail, logger)
	summary, err := register.Open()
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if summary == nil || summary.ItemCount != 1 {
		t.Fatalf("expected the crashed session to be recovered, got %v", summary)
	}
	if register.Totals() != before {
		t.Fatalf("expected identical totals after restart")
	}

	// The prior decrement is assumed applied; recovery must not decrement again.
	p, _ := cat.Find("001")
	if p.Stock != 48 {
		t.Fatalf("expected stock still 48 after recovery, got %d", p.Stock)
	}
}

func TestStockTrackingToggle(t *testing.T) {
	f := newFixture(t, false)

	if f.register.StockTracking() {
		t.Fatalf("expected tracking off initially")
	}
	if err := f.register.SetStockTracking(true); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !f.register.StockTracking() {
		t.Fatalf("expected tracking on")
	}
	if got := f.register.LowStock(15); len(got) != 1 {
		t.Fatalf("expected one low-stock product at threshold 15, got %v", got)
	}
}

func TestProductCRUDThroughRegister(t *testing.T) {
	f := newFixture(t, false)

	product, err := f.register.AddProduct("100", "Yogurt Gloria", 650, "Lacteos", 12)
	if err != nil {
		t.Fatalf("add product failed: %v", err)
	}
	if product.Code != "100" {
		t.Fatalf("unexpected product: %+v", product)
	}

	if _, err := f.register.AddProduct("100", "Duplicado", 100, "Lacteos", 0); !errors.Is(err, domain.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}

	if err := f.register.EditProduct("100", "Yogurt Gloria 1L", 700, "Lacteos", nil); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	p, _ := f.register.FindProduct("100")
	if p.Name != "Yogurt Gloria 1L" || p.PriceCents != 700 {
		t.Fatalf("edit not applied: %+v", p)
	}

	if err := f.register.RemoveProduct("100"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok := f.register.FindProduct("100"); ok {
		t.Fatalf("expected product removed")
	}
}
