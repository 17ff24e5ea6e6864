package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rebeatle/sistema-ventas/internal/domain"
)

// VariableCodePrefix is the reserved code prefix for ad-hoc variable-price
// products enrolled at sale time.
const VariableCodePrefix = "VAR"

var catalogHeader = []string{"code", "name", "price", "category", "stock"}

// Store owns the product catalog and its CSV file. Every mutation persists
// synchronously: the in-memory list is updated first, then the whole file is
// rewritten. If the rewrite fails the in-memory change is not rolled back;
// memory and disk diverge until the next successful save. Known limitation.
type Store struct {
	mu       sync.RWMutex
	path     string
	products []domain.Product
	log      *logrus.Entry
}

// Load reads the catalog file, seeding it with the example catalog when it
// does not exist yet. A file that exists but cannot be read or parsed fails
// the load.
func Load(path string, logger *logrus.Logger) (*Store, error) {
	s := &Store{
		path: path,
		log:  logger.WithField("component", "catalog"),
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		s.products = seedProducts()
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		s.log.WithField("path", path).Info("catalog seeded with example products")
		return s, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(rows) == 0 {
		return s, nil
	}

	for i, row := range rows[1:] {
		if len(row) < 4 {
			return nil, fmt.Errorf("catalog %s: row %d has %d columns, want at least 4", path, i+2, len(row))
		}
		price, err := domain.ParsePrice(row[2])
		if err != nil {
			return nil, fmt.Errorf("catalog %s: row %d: %w", path, i+2, err)
		}

		// The stock column is optional for backward compatibility. A
		// missing or unparsable value defaults to 0 rather than failing
		// the whole load.
		stock := 0
		if len(row) > 4 {
			if parsed, err := strconv.Atoi(strings.TrimSpace(row[4])); err == nil && parsed >= 0 {
				stock = parsed
			}
		}

		s.products = append(s.products, domain.Product{
			Code:       strings.TrimSpace(row[0]),
			Name:       strings.TrimSpace(row[1]),
			PriceCents: price,
			Category:   strings.TrimSpace(row[3]),
			Stock:      stock,
		})
	}

	return s, nil
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{Code: "001", Name: "Coca Cola 500ml", PriceCents: 350, Category: "Bebidas", Stock: 50},
		{Code: "002", Name: "Inca Kola 500ml", PriceCents: 350, Category: "Bebidas", Stock: 40},
		{Code: "003", Name: "Agua San Luis 625ml", PriceCents: 200, Category: "Bebidas", Stock: 60},
		{Code: "004", Name: "Galletas Oreo", PriceCents: 450, Category: "Snacks", Stock: 30},
		{Code: "005", Name: "Papas Lays", PriceCents: 500, Category: "Snacks", Stock: 25},
		{Code: "006", Name: "Chocolate Sublime", PriceCents: 250, Category: "Dulces", Stock: 45},
		{Code: "007", Name: "Chicles Trident", PriceCents: 150, Category: "Dulces", Stock: 100},
		{Code: "008", Name: "Pan Integral", PriceCents: 600, Category: "Panadería", Stock: 15},
	}
}

// save rewrites the catalog file from the in-memory list. Caller holds the
// lock.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("write catalog %s: %w", s.path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(catalogHeader); err != nil {
		return fmt.Errorf("write catalog header: %w", err)
	}
	for _, p := range s.products {
		row := []string{p.Code, p.Name, domain.FormatPrice(p.PriceCents), p.Category, strconv.Itoa(p.Stock)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write catalog row %s: %w", p.Code, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush catalog %s: %w", s.path, err)
	}
	return nil
}

// Save rewrites the catalog file.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// Add appends a new product and persists. Codes are unique.
func (s *Store) Add(product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Code == product.Code {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateCode, product.Code)
		}
	}

	s.products = append(s.products, product)
	return s.save()
}

// Edit replaces the mutable fields of an existing product and persists. A nil
// stock leaves the stored stock untouched, used when stock tracking is
// disabled.
func (s *Store) Edit(code, name string, priceCents int64, category string, stock *int) error {
	if priceCents < 0 {
		return domain.ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].Code != code {
			continue
		}
		s.products[i].Name = name
		s.products[i].PriceCents = priceCents
		s.products[i].Category = category
		if stock != nil {
			if *stock < 0 {
				return fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidProduct)
			}
			s.products[i].Stock = *stock
		}
		return s.save()
	}

	return fmt.Errorf("%w: %s", domain.ErrNotFound, code)
}

// Remove deletes every entry with the given code (expected exactly one) and
// persists.
func (s *Store) Remove(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.products[:0]
	removed := 0
	for _, p := range s.products {
		if p.Code == code {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	if removed == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, code)
	}

	s.products = kept
	return s.save()
}

// Find returns a copy of the product with the given code.
func (s *Store) Find(code string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Code == code {
			return p, true
		}
	}
	return domain.Product{}, false
}

// List returns the catalog in file order.
func (s *Store) List() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Categories returns the distinct categories, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.products))
	for _, p := range s.products {
		seen[p.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// NextVariableCode returns the next free code under the reserved VAR prefix,
// zero-padded to three digits: VAR001, VAR003 present yields VAR004, an empty
// catalog yields VAR001.
func (s *Store) NextVariableCode() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := 0
	for _, p := range s.products {
		if !strings.HasPrefix(p.Code, VariableCodePrefix) {
			continue
		}
		suffix, err := strconv.Atoi(p.Code[len(VariableCodePrefix):])
		if err != nil {
			continue
		}
		if suffix > max {
			max = suffix
		}
	}
	return fmt.Sprintf("%s%03d", VariableCodePrefix, max+1)
}

// mutateStock applies a delta to one product under the write lock and
// persists. Used only by the stock ledger.
func (s *Store) mutateStock(code string, delta int) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].Code != code {
			continue
		}
		next := s.products[i].Stock + delta
		if next < 0 {
			return domain.Product{}, &domain.InsufficientStockError{
				Code:      code,
				Available: s.products[i].Stock,
			}
		}
		s.products[i].Stock = next
		if err := s.save(); err != nil {
			return domain.Product{}, err
		}
		return s.products[i], nil
	}

	return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrNotFound, code)
}
