package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrPayloadTooLarge  = &AppError{http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInsufficientFunds = &AppError{http.StatusBadRequest, "INSUFFICIENT_FUNDS", "Do not have enough balance for this transaction"}
	ErrInvalidAmount     = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Value must be non-negative with at most two decimal places"}
	ErrInvalidType       = &AppError{http.StatusBadRequest, "INVALID_TYPE", "Type must be income or outcome"}
)
