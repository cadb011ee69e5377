package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeOutcome TransactionType = "outcome"
)

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeOutcome:
		return true
	}
	return false
}

// ValueScale is the number of decimal places a stored value keeps; values
// are stored as NUMERIC(14,2).
const ValueScale = 2

var maxValue = decimal.New(1, 14-ValueScale)

// ValidValue reports whether v is non-negative, has at most ValueScale
// significant decimal places and fits the stored column.
func ValidValue(v decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThan(maxValue) && v.Equal(v.Round(ValueScale))
}

// Transaction is immutable once persisted. Category is populated on reads
// that join the category and by CreateTransaction.
type Transaction struct {
	ID         uuid.UUID
	Title      string
	Value      decimal.Decimal
	Type       TransactionType
	CategoryID uuid.UUID
	Category   *Category
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Balance struct {
	Income  decimal.Decimal
	Outcome decimal.Decimal
	Total   decimal.Decimal
}

func NewBalance(income, outcome decimal.Decimal) Balance {
	return Balance{
		Income:  income,
		Outcome: outcome,
		Total:   income.Sub(outcome),
	}
}

type Statement struct {
	Transactions []Transaction
	Balance      Balance
}
