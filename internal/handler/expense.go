package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/drivebook/backend/internal/domain"
)

// CreateExpense handles POST /expenses.
// Accepts a JSON body, or multipart/form-data when attaching a receipt
// image. The stored record is returned with 201.
func (s *Server) CreateExpense(w http.ResponseWriter, r *http.Request) {
	expense, ok := readExpenseRequest(w, r)
	if !ok {
		return
	}

	created, err := s.expenses.Create(r.Context(), expense)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeValidation(w, err)
			return
		}
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, expenseToResponse(created))
}

// ListExpenses handles GET /expenses.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	params := queryPagination(r)
	expenses, total, err := s.expenses.ListPaged(r.Context(), params)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	data := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		data[i] = expenseToResponse(e)
	}
	writeJSON(w, http.StatusOK, listExpensesResponse{
		Data: data,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetExpense handles GET /expenses/{expenseID}.
func (s *Server) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "expenseID", "expense")
	if !ok {
		return
	}

	expense, err := s.expenses.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "expense not found")
			return
		}
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, expenseToResponse(expense))
}

// GetExpenseReceipt handles GET /expenses/{expenseID}/receipt.
func (s *Server) GetExpenseReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "expenseID", "expense")
	if !ok {
		return
	}

	receipt, err := s.expenses.GetReceipt(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "expense receipt not found")
			return
		}
		writeInternal(w, r, err)
		return
	}

	writeImage(w, receipt)
}

// --- request parsing and mapping ---------------------------------------------

// createExpenseRequest is the JSON shape accepted by POST /expenses.
// Amount accepts both a JSON string ("12.34") and a bare number.
type createExpenseRequest struct {
	ExpenseDate string          `json:"expense_date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// expenseResponse is the JSON shape of a stored expense. Amount marshals as
// a string to keep cents exact on the wire.
type expenseResponse struct {
	ID          int64           `json:"id"`
	ExpenseDate string          `json:"expense_date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	HasReceipt  bool            `json:"has_receipt"`
	CreatedAt   time.Time       `json:"created_at"`
}

type listExpensesResponse struct {
	Data       []expenseResponse `json:"data"`
	Pagination pagination        `json:"pagination"`
}

// readExpenseRequest parses either request form of POST /expenses into a
// domain.Expense. On failure it writes the error response and reports false.
func readExpenseRequest(w http.ResponseWriter, r *http.Request) (domain.Expense, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return readExpenseMultipart(w, r)
	}

	var req createExpenseRequest
	if !decodeJSON(w, r, &req) {
		return domain.Expense{}, false
	}
	if req.ExpenseDate == "" {
		writeRequestError(w, "expense_date is required")
		return domain.Expense{}, false
	}
	date, err := parseDate(req.ExpenseDate)
	if err != nil {
		writeRequestError(w, "expense_date must be a YYYY-MM-DD date")
		return domain.Expense{}, false
	}

	return domain.Expense{
		ExpenseDate: date,
		Category:    domain.Category(req.Category),
		Amount:      req.Amount,
		Description: req.Description,
	}, true
}

// readExpenseMultipart parses the multipart form of POST /expenses, used
// when a receipt image rides along with the record fields.
func readExpenseMultipart(w http.ResponseWriter, r *http.Request) (domain.Expense, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeInternal(w, r, err)
			return domain.Expense{}, false
		}
		writeRequestError(w, "request body must be valid multipart form data")
		return domain.Expense{}, false
	}

	if r.FormValue("expense_date") == "" {
		writeRequestError(w, "expense_date is required")
		return domain.Expense{}, false
	}
	date, err := parseDate(r.FormValue("expense_date"))
	if err != nil {
		writeRequestError(w, "expense_date must be a YYYY-MM-DD date")
		return domain.Expense{}, false
	}

	amount, err := formDecimal(r, "amount")
	if err != nil {
		writeRequestError(w, err.Error())
		return domain.Expense{}, false
	}

	expense := domain.Expense{
		ExpenseDate: date,
		Category:    domain.Category(r.FormValue("category")),
		Amount:      amount,
		Description: r.FormValue("description"),
	}

	receipt, err := formFileBytes(r, "receipt")
	if err != nil {
		writeRequestError(w, err.Error())
		return domain.Expense{}, false
	}
	if receipt != nil {
		if err := requireImage(receipt, "receipt"); err != nil {
			writeRequestError(w, err.Error())
			return domain.Expense{}, false
		}
		expense.Receipt = receipt
	}

	return expense, true
}

// expenseToResponse converts a stored domain.Expense into its JSON shape.
func expenseToResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		ExpenseDate: e.ExpenseDate.Format(time.DateOnly),
		Category:    e.Category.String(),
		Amount:      e.Amount,
		Description: e.Description,
		HasReceipt:  e.HasReceipt,
		CreatedAt:   e.CreatedAt,
	}
}
