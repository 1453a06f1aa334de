package service

import "errors"

var (
	// ErrProductNotFound maps to a 404 at the API edge.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock rejects a decrement that would take stock below
	// zero. The row is left unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")
)
