package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
	"github.com/josh-kwaku/ledger-write-service/internal/logging"
	"github.com/josh-kwaku/ledger-write-service/internal/service/ledger"
)

const maxImportBytes = 5 << 20

type ledgerService interface {
	CreateTransaction(ctx context.Context, req ledger.CreateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	ListTransactions(ctx context.Context) (*domain.Statement, error)
	GetBalance(ctx context.Context) (domain.Balance, error)
	ImportTransactions(ctx context.Context, r io.Reader) ([]domain.Transaction, error)
}

type TransactionHandler struct {
	ledger ledgerService
}

func NewTransactionHandler(svc ledgerService) *TransactionHandler {
	return &TransactionHandler{ledger: svc}
}

type createTransactionRequest struct {
	Title    string           `json:"title"`
	Value    *decimal.Decimal `json:"value"`
	Type     string           `json:"type"`
	Category string           `json:"category"`
}

func (r createTransactionRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}
	if r.Value == nil {
		errs = append(errs, FieldError{Field: "value", Message: "required"})
	} else if !domain.ValidValue(*r.Value) {
		errs = append(errs, FieldError{Field: "value", Message: "must be non-negative with at most two decimal places"})
	}
	if r.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	} else if !domain.TransactionType(r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be income or outcome"})
	}
	if strings.TrimSpace(r.Category) == "" {
		errs = append(errs, FieldError{Field: "category", Message: "required"})
	}
	return errs
}

type categoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type transactionDTO struct {
	ID         uuid.UUID       `json:"id"`
	Title      string          `json:"title"`
	Value      decimal.Decimal `json:"value"`
	Type       string          `json:"type"`
	CategoryID uuid.UUID       `json:"category_id"`
	Category   *categoryDTO    `json:"category,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type balanceDTO struct {
	Income  decimal.Decimal `json:"income"`
	Outcome decimal.Decimal `json:"outcome"`
	Total   decimal.Decimal `json:"total"`
}

type statementDTO struct {
	Transactions []transactionDTO `json:"transactions"`
	Balance      balanceDTO       `json:"balance"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	dto := transactionDTO{
		ID:         t.ID,
		Title:      t.Title,
		Value:      t.Value,
		Type:       string(t.Type),
		CategoryID: t.CategoryID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
	if t.Category != nil {
		dto.Category = &categoryDTO{
			ID:        t.Category.ID,
			Title:     t.Category.Title,
			CreatedAt: t.Category.CreatedAt,
			UpdatedAt: t.Category.UpdatedAt,
		}
	}
	return dto
}

func toTransactionDTOs(ts []domain.Transaction) []transactionDTO {
	dtos := make([]transactionDTO, len(ts))
	for i := range ts {
		dtos[i] = toTransactionDTO(&ts[i])
	}
	return dtos
}

func toBalanceDTO(b domain.Balance) balanceDTO {
	return balanceDTO{Income: b.Income, Outcome: b.Outcome, Total: b.Total}
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	t, err := h.ledger.CreateTransaction(r.Context(), ledger.CreateTransactionRequest{
		Title:         req.Title,
		Value:         *req.Value,
		Type:          domain.TransactionType(req.Type),
		CategoryTitle: req.Category,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create transaction", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTO(t))
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	stmt, err := h.ledger.ListTransactions(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, statementDTO{
		Transactions: toTransactionDTOs(stmt.Transactions),
		Balance:      toBalanceDTO(stmt.Balance),
	})
}

func (h *TransactionHandler) Balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.ledger.GetBalance(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to compute balance", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toBalanceDTO(b))
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	if err := h.ledger.DeleteTransaction(r.Context(), id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(r.Context()).Error("failed to delete transaction", "error", err, "transaction_id", id)
		}
		RespondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import accepts either a multipart form with a "file" field or a raw CSV body.
func (h *TransactionHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	src, appErr := importSource(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	defer src.Close()

	imported, err := h.ledger.ImportTransactions(r.Context(), src)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondAppError(w, ErrPayloadTooLarge, nil)
			return
		}
		logging.FromContext(r.Context()).Error("failed to import transactions",
			"error", err,
			"imported", len(imported),
		)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransactionDTOs(imported))
}

func importSource(r *http.Request) (io.ReadCloser, *AppError) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, nil
	}

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrPayloadTooLarge
		}
		return nil, ErrInvalidRequest
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, ErrInvalidRequest
	}
	return file, nil
}
