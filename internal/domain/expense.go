package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single business expense record.
// Amount is a positive decimal; money is never represented as float64.
// Expenses are immutable after creation.
type Expense struct {
	ID          int64
	ExpenseDate time.Time
	Category    Category
	Description string
	Amount      decimal.Decimal

	// Receipt holds the receipt photo bytes on create only.
	// Reads never populate it; use HasReceipt and the receipt endpoint instead.
	Receipt    []byte
	HasReceipt bool

	CreatedAt time.Time
}
