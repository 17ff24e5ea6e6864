package catalog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rebeatle/sistema-ventas/internal/domain"
)

// Ledger is the invariant-bearing stock subset of the catalog: it blocks
// oversell, reverses decrements, and raises low-stock warnings. The whole
// subsystem sits behind a process-wide tracking toggle persisted in a small
// flag file; while the toggle is off, stock values freeze in place and every
// mutation is a no-op success.
type Ledger struct {
	catalog  *Store
	flagPath string
	warnAt   int
	log      *logrus.Entry

	mu      sync.RWMutex
	enabled bool
}

// NewLedger loads the tracking flag and wraps the catalog. A missing flag
// file means tracking is disabled; an unreadable one is treated the same,
// logged at warn level.
func NewLedger(catalog *Store, flagPath string, warnAt int, logger *logrus.Logger) *Ledger {
	l := &Ledger{
		catalog:  catalog,
		flagPath: flagPath,
		warnAt:   warnAt,
		log:      logger.WithField("component", "stock"),
	}

	data, err := os.ReadFile(flagPath)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.WithError(err).Warn("cannot read stock flag file, tracking disabled")
		}
		return l
	}
	enabled, err := strconv.ParseBool(strings.TrimSpace(string(data)))
	if err != nil {
		l.log.WithField("path", flagPath).Warn("malformed stock flag file, tracking disabled")
		return l
	}
	l.enabled = enabled
	return l
}

// Enabled reports the current tracking toggle.
func (l *Ledger) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

// SetEnabled flips the toggle and persists it. Enabling does not revalidate
// existing stock values; disabling freezes them without clearing.
func (l *Ledger) SetEnabled(enabled bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.WriteFile(l.flagPath, []byte(strconv.FormatBool(enabled)), 0o644); err != nil {
		return fmt.Errorf("write stock flag %s: %w", l.flagPath, err)
	}
	l.enabled = enabled
	l.log.WithField("enabled", enabled).Info("stock tracking toggled")
	return nil
}

// Decrement consumes stock for a sale. With tracking disabled it is a no-op
// success. An oversell fails with InsufficientStockError and leaves stock
// unchanged. A successful decrement that lands at or below the warning
// threshold returns a non-blocking StockWarning alongside success.
func (l *Ledger) Decrement(code string, qty int) (*domain.StockWarning, error) {
	if qty < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	if !l.Enabled() {
		return nil, nil
	}

	product, err := l.catalog.mutateStock(code, -qty)
	if err != nil {
		return nil, err
	}

	if product.Stock <= l.warnAt {
		warning := &domain.StockWarning{Code: product.Code, Name: product.Name, Remaining: product.Stock}
		l.log.WithFields(logrus.Fields{"code": product.Code, "remaining": product.Stock}).Warn("low stock")
		return warning, nil
	}
	return nil, nil
}

// Increment reverses a decrement when a line item is deleted or a session is
// discarded. It always succeeds if the product exists.
func (l *Ledger) Increment(code string, qty int) error {
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}
	if !l.Enabled() {
		return nil
	}

	_, err := l.catalog.mutateStock(code, qty)
	return err
}

// LowStock lists products at or below the threshold. Empty while tracking is
// disabled.
func (l *Ledger) LowStock(threshold int) []domain.Product {
	if !l.Enabled() {
		return nil
	}

	var out []domain.Product
	for _, p := range l.catalog.List() {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out
}
