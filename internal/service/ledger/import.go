package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/ledger-write-service/internal/domain"
	"github.com/josh-kwaku/ledger-write-service/internal/logging"
)

var importHeader = []string{"title", "type", "value", "category"}

// ImportTransactions reads CSV rows of title, type, value, category and
// creates them in file order. A header row matching importHeader is skipped.
// Import stops at the first failing row; rows before it stay persisted.
func (s *Service) ImportTransactions(ctx context.Context, r io.Reader) ([]domain.Transaction, error) {
	reqs, err := parseImport(r)
	if err != nil {
		return nil, fmt.Errorf("ImportTransactions: %w", err)
	}

	imported := make([]domain.Transaction, 0, len(reqs))
	for _, row := range reqs {
		t, err := s.CreateTransaction(ctx, row.req)
		if err != nil {
			return imported, fmt.Errorf("ImportTransactions: row %d: %w", row.line, err)
		}
		imported = append(imported, *t)
	}

	logging.FromContext(ctx).Info("transactions imported", "count", len(imported))
	return imported, nil
}

type importRow struct {
	line int
	req  CreateTransactionRequest
}

func parseImport(r io.Reader) ([]importRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(importHeader)
	cr.TrimLeadingSpace = true

	var rows []importRow
	for first := true; ; first = false {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parseImport: %w: %w", domain.ErrInvalidRequest, err)
		}

		line, _ := cr.FieldPos(0)
		if first && isImportHeader(record) {
			continue
		}

		value, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("parseImport: row %d: value %q: %w", line, record[2], domain.ErrInvalidRequest)
		}
		if !domain.ValidValue(value) {
			return nil, fmt.Errorf("parseImport: row %d: value %q: %w", line, record[2], domain.ErrInvalidAmount)
		}

		rows = append(rows, importRow{
			line: line,
			req: CreateTransactionRequest{
				Title:         record[0],
				Type:          domain.TransactionType(strings.ToLower(strings.TrimSpace(record[1]))),
				Value:         value,
				CategoryTitle: record[3],
			},
		})
	}
	return rows, nil
}

func isImportHeader(record []string) bool {
	for i, h := range importHeader {
		if !strings.EqualFold(strings.TrimSpace(record[i]), h) {
			return false
		}
	}
	return true
}
