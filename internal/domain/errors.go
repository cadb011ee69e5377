package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("value must be non-negative with at most two decimal places")
	ErrInvalidType       = errors.New("type must be income or outcome")
	ErrInvalidRequest    = errors.New("invalid request")
)
