// Package handler implements the HTTP handlers for the DriveBook API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/drivebook/backend/internal/auth"
	"github.com/drivebook/backend/internal/domain"
	"github.com/drivebook/backend/internal/middleware"
	"github.com/drivebook/backend/internal/report"
)

// Login attempts refill at one per second per client, with a small burst.
// Requests carrying an issued token are not rate limited.
const (
	loginRefillRate = rate.Limit(1)
	loginBurst      = 5
)

// AuthServicer defines the authentication operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without real bcrypt or token signing work.
type AuthServicer interface {
	Login(username, password string) (auth.Session, error)
	Verify(token string) (string, error)
}

// TripServicer defines the business operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id int64) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	GetPhoto(ctx context.Context, id int64) ([]byte, error)
}

// ExpenseServicer defines the business operations the expense handlers depend on.
type ExpenseServicer interface {
	Create(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	GetByID(ctx context.Context, id int64) (domain.Expense, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Expense, int64, error)
	GetReceipt(ctx context.Context, id int64) ([]byte, error)
}

// ReportServicer defines the reporting operations the report and dashboard
// handlers depend on.
type ReportServicer interface {
	QuickRanges() []report.QuickRange
	BuildReport(ctx context.Context, token string, custom domain.DateRange) (domain.Report, error)
	ExportPDF(ctx context.Context, token string, custom domain.DateRange) ([]byte, error)
	ExportCSV(ctx context.Context, token string, custom domain.DateRange) ([]byte, error)
	Dashboard(ctx context.Context) (domain.Dashboard, error)
}

// Server holds the handler dependencies for all API endpoints.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	auth     AuthServicer
	trips    TripServicer
	expenses ExpenseServicer
	reports  ReportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(auth AuthServicer, trips TripServicer, expenses ExpenseServicer, reports ReportServicer) *Server {
	return &Server{auth: auth, trips: trips, expenses: expenses, reports: reports}
}

// Routes assembles the API routing table. Everything except the health check,
// the OpenAPI document, and login itself sits behind bearer authentication;
// login additionally sits behind a per-IP rate limit.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.With(middleware.NewRateLimitHandler(loginRefillRate, loginBurst)).Post("/auth/login", s.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewBearerAuthHandler(s.auth))

		r.Post("/trips", s.CreateTrip)
		r.Get("/trips", s.ListTrips)
		r.Get("/trips/{tripID}", s.GetTrip)
		r.Get("/trips/{tripID}/photo", s.GetTripPhoto)

		r.Post("/expenses", s.CreateExpense)
		r.Get("/expenses", s.ListExpenses)
		r.Get("/expenses/{expenseID}", s.GetExpense)
		r.Get("/expenses/{expenseID}/receipt", s.GetExpenseReceipt)

		r.Get("/dashboard", s.GetDashboard)
		r.Get("/reports/quick-ranges", s.ListQuickRanges)
		r.Get("/reports/summary", s.GetReportSummary)
		r.Get("/reports/export", s.ExportReport)
	})

	return r
}
