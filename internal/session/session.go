package session

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rebeatle/sistema-ventas/internal/domain"
)

// Session is the in-memory ledger of line items for the currently open
// register: Empty until the first add, Open while it holds lines, and reset
// to Empty by a close or discard. Line items are identified by a per-session
// monotonically increasing id; removal is by id, never by position.
type Session struct {
	mu           sync.Mutex
	nextID       int64
	lines        []domain.LineItem
	snapshotPath string
	log          *logrus.Entry
}

// New returns an empty session whose snapshot lives at snapshotPath.
func New(snapshotPath string, logger *logrus.Logger) *Session {
	return &Session{
		nextID:       1,
		snapshotPath: snapshotPath,
		log:          logger.WithField("component", "session"),
	}
}

// AddLine validates and appends a line item built from the product snapshot.
// Stock is not touched here; the orchestration layer decrements first and
// rolls this back if it must.
func (s *Session) AddLine(product domain.Product, qty int, method domain.PaymentMethod, stockApplied bool) (domain.LineItem, error) {
	if qty < 1 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}
	if !method.Valid() {
		return domain.LineItem{}, fmt.Errorf("%w: %q", domain.ErrInvalidMethod, string(method))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := domain.LineItem{
		ID:             s.nextID,
		Code:           product.Code,
		Name:           product.Name,
		Quantity:       qty,
		UnitPriceCents: product.PriceCents,
		SubtotalCents:  product.PriceCents * int64(qty),
		Method:         method,
		Category:       product.Category,
		StockApplied:   stockApplied,
	}
	s.nextID++
	s.lines = append(s.lines, line)
	return line, nil
}

// RemoveLine removes the line with the given id and returns it. An unknown id
// is a no-op returning false, not an error.
func (s *Session) RemoveLine(id int64) (domain.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, line := range s.lines {
		if line.ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return line, true
		}
	}
	return domain.LineItem{}, false
}

// Lines returns the line items in insertion order.
func (s *Session) Lines() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.LineItem, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len reports the number of line items.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Totals sums the current line items: general over everything, cash over the
// cash method, virtual over the wallet methods.
func (s *Session) Totals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalsOf(s.lines)
}

func totalsOf(lines []domain.LineItem) domain.Totals {
	var t domain.Totals
	for _, line := range lines {
		t.GeneralCents += line.SubtotalCents
		if line.Method.Virtual() {
			t.VirtualCents += line.SubtotalCents
		} else {
			t.CashCents += line.SubtotalCents
		}
	}
	return t
}

// Clear resets the session to Empty. The id counter keeps climbing so handles
// from a previous batch can never alias a new line.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// replace swaps in recovered line items and bumps the id counter past them.
func (s *Session) replace(lines []domain.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = lines
	for _, line := range lines {
		if line.ID >= s.nextID {
			s.nextID = line.ID + 1
		}
	}
}
