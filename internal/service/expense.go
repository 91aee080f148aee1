package service

import (
	"context"
	"fmt"

	"github.com/drivebook/backend/internal/domain"
	"github.com/drivebook/backend/internal/repo"
)

// ExpenseService implements business logic for Expense operations.
type ExpenseService struct {
	repo repo.ExpenseRepo
}

// NewExpenseService constructs an ExpenseService backed by the provided ExpenseRepo.
func NewExpenseService(r repo.ExpenseRepo) *ExpenseService {
	return &ExpenseService{repo: r}
}

// Create validates and persists a new expense.
// Returns domain.ErrValidation if input violates business rules.
func (s *ExpenseService) Create(ctx context.Context, expense domain.Expense) (domain.Expense, error) {
	if err := validateExpense(expense); err != nil {
		return domain.Expense{}, err
	}
	result, err := s.repo.Create(ctx, expense)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single expense by ID.
// Returns domain.ErrNotFound if no expense with that ID exists.
func (s *ExpenseService) GetByID(ctx context.Context, id int64) (domain.Expense, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of expenses, newest expense date first, plus the
// total record count. Always returns a non-nil slice so callers can safely
// range over it.
func (s *ExpenseService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	expenses, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ExpenseService.ListPaged: %w", err)
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}
	return expenses, total, nil
}

// GetReceipt returns the receipt image stored with an expense.
// Returns domain.ErrNotFound if the expense does not exist or has no receipt.
func (s *ExpenseService) GetReceipt(ctx context.Context, id int64) ([]byte, error) {
	receipt, err := s.repo.GetReceipt(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.GetReceipt: %w", err)
	}
	return receipt, nil
}

// validateExpense enforces the expense business rules.
//   - expense_date must be set.
//   - category must be one of the fixed set.
//   - amount must be greater than zero.
func validateExpense(expense domain.Expense) error {
	if expense.ExpenseDate.IsZero() {
		return fmt.Errorf("%w: expense_date is required", domain.ErrValidation)
	}
	if !expense.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, expense.Category)
	}
	if !expense.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrValidation)
	}
	return nil
}
