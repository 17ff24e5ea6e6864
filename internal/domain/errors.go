package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCode   = errors.New("product code already exists")
	ErrNotFound        = errors.New("product not found")
	ErrEmptySession    = errors.New("session has no line items")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidMethod   = errors.New("unknown payment method")
)

// InsufficientStockError blocks an oversell and carries the quantity still
// available so the caller can surface it.
type InsufficientStockError struct {
	Code      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.Code, e.Available)
}
