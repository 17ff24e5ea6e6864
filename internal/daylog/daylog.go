// Package daylog owns the append-only per-date sales logs. One CSV file per
// calendar date holds every line item ever closed on that date; closing only
// appends, records are never rewritten.
package daylog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rebeatle/sistema-ventas/internal/domain"
)

var header = []string{
	"date", "time", "code", "name", "quantity",
	"unit_price", "subtotal", "payment_method", "category",
}

// Store reads and appends day logs under a single directory.
type Store struct {
	dir string
}

// New makes sure the sales directory exists.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sales dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// PathFor returns the log file path for a calendar date (YYYY-MM-DD).
func (s *Store) PathFor(date string) string {
	return filepath.Join(s.dir, fmt.Sprintf("ventas_%s.csv", date))
}

// Append writes the stamped records to their date's file, creating it with a
// header on first write. All records of one close carry the same date. The
// file is opened append-only so prior content is never touched.
func (s *Store) Append(records []domain.SaleRecord) (string, error) {
	if len(records) == 0 {
		return "", domain.ErrEmptySession
	}

	path := s.PathFor(records[0].Date)
	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open day log %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if writeHeader {
		if err := writer.Write(header); err != nil {
			return "", fmt.Errorf("write day log header: %w", err)
		}
	}
	for _, r := range records {
		row := []string{
			r.Date,
			r.Time,
			r.Code,
			r.Name,
			strconv.Itoa(r.Quantity),
			domain.FormatPrice(r.UnitPriceCents),
			domain.FormatPrice(r.SubtotalCents),
			string(r.Method),
			r.Category,
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("write day log row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush day log %s: %w", path, err)
	}

	return path, nil
}

// Read returns the ordered records of one date. A date with no log file is an
// empty day, not an error; a file that exists but does not parse is an error.
func (s *Store) Read(date string) ([]domain.SaleRecord, error) {
	path := s.PathFor(date)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open day log %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(header)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse day log %s: %w", path, err)
	}

	var records []domain.SaleRecord
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], "date") {
			continue
		}
		record, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("day log %s: row %d: %w", path, i+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// ReadRange concatenates the records of every date in [from, to], in date
// order. Dates without a log file are silently skipped.
func (s *Store) ReadRange(from, to time.Time) ([]domain.SaleRecord, error) {
	var records []domain.SaleRecord

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		dayRecords, err := s.Read(day.Format(domain.DateLayout))
		if err != nil {
			return nil, err
		}
		records = append(records, dayRecords...)
	}
	return records, nil
}

func parseRow(row []string) (domain.SaleRecord, error) {
	qty, err := strconv.Atoi(row[4])
	if err != nil {
		return domain.SaleRecord{}, fmt.Errorf("parse quantity %q: %w", row[4], err)
	}
	unitPrice, err := domain.ParsePrice(row[5])
	if err != nil {
		return domain.SaleRecord{}, err
	}
	subtotal, err := domain.ParsePrice(row[6])
	if err != nil {
		return domain.SaleRecord{}, err
	}

	return domain.SaleRecord{
		Date:           row[0],
		Time:           row[1],
		Code:           row[2],
		Name:           row[3],
		Quantity:       qty,
		UnitPriceCents: unitPrice,
		SubtotalCents:  subtotal,
		Method:         domain.PaymentMethod(row[7]),
		Category:       row[8],
	}, nil
}
