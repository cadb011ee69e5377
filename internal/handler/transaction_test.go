package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
	"github.com/josh-kwaku/ledger-write-service/internal/service/ledger"
)

type mockLedger struct {
	createReq  *ledger.CreateTransactionRequest
	createErr  error
	deletedID  uuid.UUID
	deleteErr  error
	statement  *domain.Statement
	balance    domain.Balance
	readErr    error
	importBody string
	importErr  error
}

func (m *mockLedger) CreateTransaction(_ context.Context, req ledger.CreateTransactionRequest) (*domain.Transaction, error) {
	m.createReq = &req
	if m.createErr != nil {
		return nil, m.createErr
	}
	cat := &domain.Category{ID: uuid.New(), Title: req.CategoryTitle}
	return &domain.Transaction{
		ID:         uuid.New(),
		Title:      req.Title,
		Value:      req.Value,
		Type:       req.Type,
		CategoryID: cat.ID,
		Category:   cat,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}, nil
}

func (m *mockLedger) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	m.deletedID = id
	return m.deleteErr
}

func (m *mockLedger) ListTransactions(context.Context) (*domain.Statement, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.statement, nil
}

func (m *mockLedger) GetBalance(context.Context) (domain.Balance, error) {
	if m.readErr != nil {
		return domain.Balance{}, m.readErr
	}
	return m.balance, nil
}

func (m *mockLedger) ImportTransactions(_ context.Context, r io.Reader) ([]domain.Transaction, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.importBody = string(b)
	if m.importErr != nil {
		return nil, m.importErr
	}
	return []domain.Transaction{{ID: uuid.New(), Title: "Imported", Value: decimal.NewFromInt(1), Type: domain.TransactionTypeIncome}}, nil
}

func newTestMux(svc ledgerService) *http.ServeMux {
	h := NewTransactionHandler(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /transactions", h.Create)
	mux.HandleFunc("GET /transactions", h.List)
	mux.HandleFunc("GET /transactions/balance", h.Balance)
	mux.HandleFunc("DELETE /transactions/{id}", h.Delete)
	mux.HandleFunc("POST /transactions/import", h.Import)
	return mux
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decodeResponse(t, rec)
	e, ok := resp["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", rec.Body.String())
	return e["code"].(string)
}

func TestCreateTransaction_Handler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "created",
			body:       `{"title":"Salary","value":1000.5,"type":"income","category":"Job"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "value as string",
			body:       `{"title":"Salary","value":"1000.50","type":"income","category":"Job"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "missing fields",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "negative value",
			body:       `{"title":"Salary","value":-1,"type":"income","category":"Job"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "sub-cent value",
			body:       `{"title":"Salary","value":"100.004","type":"income","category":"Job"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "bad type",
			body:       `{"title":"Salary","value":1,"type":"transfer","category":"Job"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "insufficient funds",
			body:       `{"title":"Rent","value":1200,"type":"outcome","category":"Housing"}`,
			serviceErr: fmt.Errorf("CreateTransaction: %w", domain.ErrInsufficientFunds),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INSUFFICIENT_FUNDS",
		},
		{
			name:       "storage failure",
			body:       `{"title":"Rent","value":12,"type":"outcome","category":"Housing"}`,
			serviceErr: errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockLedger{createErr: tc.serviceErr}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(tc.body))

			newTestMux(svc).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, errorCode(t, rec))
				return
			}

			resp := decodeResponse(t, rec)
			assert.Equal(t, true, resp["success"])
			data := resp["data"].(map[string]any)
			assert.Equal(t, "Salary", data["title"])
			assert.Equal(t, "1000.5", data["value"])
			assert.Equal(t, "income", data["type"])
			assert.Equal(t, "Job", data["category"].(map[string]any)["title"])
		})
	}
}

func TestListTransactions_Handler(t *testing.T) {
	cat := &domain.Category{ID: uuid.New(), Title: "Job"}
	svc := &mockLedger{statement: &domain.Statement{
		Transactions: []domain.Transaction{
			{ID: uuid.New(), Title: "Salary", Value: decimal.NewFromInt(1000), Type: domain.TransactionTypeIncome, CategoryID: cat.ID, Category: cat},
		},
		Balance: domain.NewBalance(decimal.NewFromInt(1000), decimal.NewFromInt(800)),
	}}

	rec := httptest.NewRecorder()
	newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeResponse(t, rec)["data"].(map[string]any)
	assert.Len(t, data["transactions"], 1)
	balance := data["balance"].(map[string]any)
	assert.Equal(t, "1000", balance["income"])
	assert.Equal(t, "800", balance["outcome"])
	assert.Equal(t, "200", balance["total"])
}

func TestBalance_Handler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := &mockLedger{balance: domain.NewBalance(decimal.NewFromInt(5), decimal.NewFromInt(2))}
		rec := httptest.NewRecorder()
		newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/balance", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeResponse(t, rec)["data"].(map[string]any)
		assert.Equal(t, "3", data["total"])
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := &mockLedger{readErr: errors.New("timeout")}
		rec := httptest.NewRecorder()
		newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/balance", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestDeleteTransaction_Handler(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		path       string
		serviceErr error
		wantStatus int
	}{
		{name: "deleted", path: "/transactions/" + id.String(), wantStatus: http.StatusNoContent},
		{name: "not found", path: "/transactions/" + id.String(), serviceErr: fmt.Errorf("DeleteTransaction: %w", domain.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "malformed id", path: "/transactions/not-a-uuid", wantStatus: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockLedger{deleteErr: tc.serviceErr}
			rec := httptest.NewRecorder()
			newTestMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, tc.path, nil))

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.name != "malformed id" {
				assert.Equal(t, id, svc.deletedID)
			}
		})
	}
}

func TestImport_Handler(t *testing.T) {
	const csvBody = "title,type,value,category\nSalary,income,1000,Job\n"

	t.Run("raw csv body", func(t *testing.T) {
		svc := &mockLedger{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/transactions/import", strings.NewReader(csvBody))
		req.Header.Set("Content-Type", "text/csv")

		newTestMux(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, csvBody, svc.importBody)
	})

	t.Run("multipart file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "import.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(csvBody))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		svc := &mockLedger{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/transactions/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		newTestMux(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, csvBody, svc.importBody)
	})

	t.Run("multipart without file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("other", "x"))
		require.NoError(t, mw.Close())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/transactions/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		newTestMux(&mockLedger{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_REQUEST", errorCode(t, rec))
	})

	t.Run("row fails", func(t *testing.T) {
		svc := &mockLedger{importErr: fmt.Errorf("ImportTransactions: row 2: %w", domain.ErrInsufficientFunds)}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/transactions/import", strings.NewReader(csvBody))

		newTestMux(svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INSUFFICIENT_FUNDS", errorCode(t, rec))
	})
}
