package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/drivebook/backend/internal/domain"
)

// expenseColumns are the columns every expense read returns. The receipt blob
// is fetched separately via GetReceipt.
const expenseColumns = `id, expense_date, category, description, amount,
	(receipt_image IS NOT NULL) AS has_receipt, created_at`

// ExpenseRepo defines the persistence operations for Expenses.
// Expenses are insert-only, mirroring TripRepo.
type ExpenseRepo interface {
	// Create inserts a new expense and returns the persisted record.
	// expense.Receipt, when non-empty, is stored as the receipt image.
	Create(ctx context.Context, expense domain.Expense) (domain.Expense, error)

	// GetByID retrieves a single expense by primary key.
	// Returns domain.ErrNotFound if no expense with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Expense, error)

	// List returns all expenses ordered by expense_date descending, then id
	// descending.
	List(ctx context.Context) ([]domain.Expense, error)

	// ListPaged returns one page of expenses in the same order as List, plus
	// the total row count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int64, error)

	// GetReceipt returns the receipt image bytes for an expense.
	// Returns domain.ErrNotFound when the expense does not exist or has no receipt.
	GetReceipt(ctx context.Context, id int64) ([]byte, error)
}

// pgExpenseRepo is the Postgres implementation of ExpenseRepo.
type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

// Create inserts a new expense row and returns the full persisted record.
func (r *pgExpenseRepo) Create(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	const q = `
		INSERT INTO expenses (expense_date, category, description, amount, receipt_image)
		VALUES (@expense_date, @category, @description, @amount, @receipt_image)
		RETURNING ` + expenseColumns

	var receipt []byte
	if len(expense.Receipt) > 0 {
		receipt = expense.Receipt
	}

	args := pgx.NamedArgs{
		"expense_date":  expense.ExpenseDate,
		"category":      string(expense.Category),
		"description":   expense.Description,
		"amount":        expense.Amount,
		"receipt_image": receipt,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves an expense by primary key.
func (r *pgExpenseRepo) GetByID(ctx context.Context, id int64) (domain.Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all expenses, most recent date first, newest id first within a date.
func (r *pgExpenseRepo) List(ctx context.Context) ([]domain.Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses ORDER BY expense_date DESC, id DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.List: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExpenseRepo.List: scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.List: rows: %w", err)
	}

	return expenses, nil
}

// ListPaged returns one page of expenses plus the total expense count.
func (r *pgExpenseRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM expenses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListPaged: count: %w", err)
	}

	const q = `SELECT ` + expenseColumns + ` FROM expenses
		ORDER BY expense_date DESC, id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListPaged: scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListPaged: rows: %w", err)
	}

	return expenses, total, nil
}

// GetReceipt returns the raw receipt image for an expense.
func (r *pgExpenseRepo) GetReceipt(ctx context.Context, id int64) ([]byte, error) {
	const q = `SELECT receipt_image FROM expenses WHERE id = @id`

	var receipt []byte
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&receipt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.ExpenseRepo.GetReceipt: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.ExpenseRepo.GetReceipt: %w", err)
	}
	if len(receipt) == 0 {
		return nil, fmt.Errorf("repo.ExpenseRepo.GetReceipt: %w", domain.ErrNotFound)
	}
	return receipt, nil
}

// scanExpense maps a single database row into a domain.Expense.
// The amount NUMERIC arrives as a decimal via the codec registered in NewPool.
func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e           domain.Expense
		expenseDate pgtype.Date
		category    string
		amount      decimal.Decimal
	)

	err := s.Scan(&e.ID, &expenseDate, &category, &e.Description, &amount, &e.HasReceipt, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	e.ExpenseDate = expenseDate.Time
	e.Category = domain.Category(category)
	e.Amount = amount

	return e, nil
}
