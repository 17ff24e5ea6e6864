// Package service is the register orchestration layer: it sequences the
// catalog, stock ledger, session and day log so the invariants hold end to
// end (no oversell, no line item without a passed stock check, exactly-once
// append per close).
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rebeatle/sistema-ventas/internal/audit"
	"github.com/rebeatle/sistema-ventas/internal/catalog"
	"github.com/rebeatle/sistema-ventas/internal/daylog"
	"github.com/rebeatle/sistema-ventas/internal/domain"
	"github.com/rebeatle/sistema-ventas/internal/session"
	"github.com/rebeatle/sistema-ventas/internal/xid"
)

// Register ties the single till together.
type Register struct {
	catalog *catalog.Store
	stock   *catalog.Ledger
	session *session.Session
	logs    *daylog.Store
	trail   *audit.Trail
	log     *logrus.Entry

	now func() time.Time
}

func New(cat *catalog.Store, stock *catalog.Ledger, sess *session.Session, logs *daylog.Store, trail *audit.Trail, logger *logrus.Logger) *Register {
	return &Register{
		catalog: cat,
		stock:   stock,
		session: sess,
		logs:    logs,
		trail:   trail,
		log:     logger.WithField("component", "register"),
		now:     time.Now,
	}
}

// Open recovers a same-day session snapshot, if one exists. Called once at
// process start before any other operation.
func (r *Register) Open() (*domain.RecoverySummary, error) {
	summary, err := r.session.Recover(r.now())
	if err != nil {
		return nil, err
	}
	if summary != nil {
		r.log.WithField("items", summary.ItemCount).Info("previous session recovered")
	}
	return summary, nil
}

// RecordSale validates the product and quantity, decrements stock first, and
// only then appends the line item. A failed stock check therefore never
// leaves a line behind; a failed append rolls the decrement back. The
// returned warning, when set, is informational only.
func (r *Register) RecordSale(code string, qty int, method domain.PaymentMethod) (domain.LineItem, *domain.StockWarning, error) {
	code = strings.TrimSpace(code)
	product, ok := r.catalog.Find(code)
	if !ok {
		return domain.LineItem{}, nil, fmt.Errorf("%w: %s", domain.ErrNotFound, code)
	}
	if qty < 1 {
		return domain.LineItem{}, nil, domain.ErrInvalidQuantity
	}
	if !method.Valid() {
		return domain.LineItem{}, nil, fmt.Errorf("%w: %q", domain.ErrInvalidMethod, string(method))
	}

	stockApplied := r.stock.Enabled()
	warning, err := r.stock.Decrement(code, qty)
	if err != nil {
		return domain.LineItem{}, nil, err
	}

	line, err := r.session.AddLine(product, qty, method, stockApplied)
	if err != nil {
		if stockApplied {
			if incErr := r.stock.Increment(code, qty); incErr != nil {
				r.log.WithError(incErr).WithField("code", code).Error("cannot roll back stock decrement")
			}
		}
		return domain.LineItem{}, nil, err
	}

	r.session.Autosave()
	return line, warning, nil
}

// RecordVariableSale enrolls an ad-hoc, user-named product into the catalog
// under the next reserved VAR code and records the sale. Variable products
// carry no stock, so the ledger is never touched.
func (r *Register) RecordVariableSale(name string, priceCents int64, qty int, method domain.PaymentMethod) (domain.LineItem, error) {
	product, err := domain.NewProduct(r.catalog.NextVariableCode(), name, priceCents, "Varios", 0)
	if err != nil {
		return domain.LineItem{}, err
	}
	if err := r.catalog.Add(product); err != nil {
		return domain.LineItem{}, err
	}
	r.trail.Record("variable_product_enrolled", "product", product.Code, product.Name)

	line, err := r.session.AddLine(product, qty, method, false)
	if err != nil {
		return domain.LineItem{}, err
	}

	r.session.Autosave()
	return line, nil
}

// RemoveLine deletes a line item by its session handle and reverses the stock
// decrement, but only when that line actually decremented stock when it was
// added.
func (r *Register) RemoveLine(id int64) (domain.LineItem, error) {
	line, ok := r.session.RemoveLine(id)
	if !ok {
		return domain.LineItem{}, fmt.Errorf("%w: line %d", domain.ErrNotFound, id)
	}

	if line.StockApplied {
		if err := r.stock.Increment(line.Code, line.Quantity); err != nil {
			r.log.WithError(err).WithField("code", line.Code).Error("cannot restore stock for removed line")
		}
	}

	r.session.Autosave()
	return line, nil
}

// Totals returns the running session totals.
func (r *Register) Totals() domain.Totals {
	return r.session.Totals()
}

// Lines returns the open session's line items in insertion order.
func (r *Register) Lines() []domain.LineItem {
	return r.session.Lines()
}

// Close stamps every line item with the current date and time, appends the
// batch to today's day log, and only then clears the session and deletes the
// snapshot. A failed append leaves the session and the snapshot untouched, so
// unsaved sales stay recoverable.
func (r *Register) Close() (domain.ClosingSummary, error) {
	lines := r.session.Lines()
	if len(lines) == 0 {
		return domain.ClosingSummary{}, domain.ErrEmptySession
	}

	at := r.now()
	records := make([]domain.SaleRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, line.Stamp(at))
	}

	path, err := r.logs.Append(records)
	if err != nil {
		return domain.ClosingSummary{}, fmt.Errorf("close register: %w", err)
	}

	totals := r.session.Totals()
	r.session.Clear()
	if err := r.session.DeleteSnapshot(); err != nil {
		r.log.WithError(err).Warn("day log written but snapshot not deleted")
	}

	summary := domain.ClosingSummary{
		ReceiptID: xid.New("close"),
		Totals:    totals,
		ItemCount: len(lines),
		LogPath:   path,
	}
	r.trail.Record("register_close", "day_log", summary.ReceiptID,
		fmt.Sprintf("items=%d,total=%s,path=%s", summary.ItemCount, domain.FormatPrice(totals.GeneralCents), path))
	r.log.WithFields(logrus.Fields{"items": summary.ItemCount, "path": path}).Info("register closed")

	return summary, nil
}

// Discard clears the session without logging anything. When reverseStock is
// set, stock is restored for the discarded lines, but only for lines whose
// decrement was actually applied.
func (r *Register) Discard(reverseStock bool) error {
	lines := r.session.Lines()
	if reverseStock {
		for _, line := range lines {
			if !line.StockApplied {
				continue
			}
			if err := r.stock.Increment(line.Code, line.Quantity); err != nil {
				r.log.WithError(err).WithField("code", line.Code).Error("cannot restore stock for discarded line")
			}
		}
	}

	r.session.Clear()
	if err := r.session.DeleteSnapshot(); err != nil {
		r.log.WithError(err).Warn("cannot delete snapshot after discard")
	}
	r.trail.Record("session_discard", "session", "", fmt.Sprintf("items=%d,reverse_stock=%t", len(lines), reverseStock))
	return nil
}

// AddProduct validates and creates a catalog entry.
func (r *Register) AddProduct(code, name string, priceCents int64, category string, stock int) (domain.Product, error) {
	product, err := domain.NewProduct(code, name, priceCents, category, stock)
	if err != nil {
		return domain.Product{}, err
	}
	if err := r.catalog.Add(product); err != nil {
		return domain.Product{}, err
	}
	r.trail.Record("product_create", "product", product.Code, product.Name)
	return product, nil
}

// EditProduct replaces the mutable fields of a product. A nil stock leaves
// the stored stock unchanged (stock tracking disabled).
func (r *Register) EditProduct(code, name string, priceCents int64, category string, stock *int) error {
	if err := r.catalog.Edit(code, name, priceCents, category, stock); err != nil {
		return err
	}
	r.trail.Record("product_edit", "product", code, name)
	return nil
}

// RemoveProduct deletes a catalog entry.
func (r *Register) RemoveProduct(code string) error {
	if err := r.catalog.Remove(code); err != nil {
		return err
	}
	r.trail.Record("product_delete", "product", code, "")
	return nil
}

// Products returns the catalog in file order.
func (r *Register) Products() []domain.Product {
	return r.catalog.List()
}

// Categories returns the distinct catalog categories.
func (r *Register) Categories() []string {
	return r.catalog.Categories()
}

// FindProduct looks up one product by code.
func (r *Register) FindProduct(code string) (domain.Product, bool) {
	return r.catalog.Find(code)
}

// StockTracking reports whether the stock subsystem is enabled.
func (r *Register) StockTracking() bool {
	return r.stock.Enabled()
}

// SetStockTracking flips and persists the tracking toggle.
func (r *Register) SetStockTracking(enabled bool) error {
	if err := r.stock.SetEnabled(enabled); err != nil {
		return err
	}
	r.trail.Record("stock_tracking_toggle", "config", "", fmt.Sprintf("enabled=%t", enabled))
	return nil
}

// LowStock lists products at or below the threshold; empty while tracking is
// disabled.
func (r *Register) LowStock(threshold int) []domain.Product {
	return r.stock.LowStock(threshold)
}
