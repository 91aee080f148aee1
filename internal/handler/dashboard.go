package handler

import (
	"net/http"

	"github.com/shopspring/decimal"
)

type dashboardResponse struct {
	Summary        summaryResponse   `json:"summary"`
	MileageRate    decimal.Decimal   `json:"mileage_rate"`
	RecentTrips    []tripResponse    `json:"recent_trips"`
	RecentExpenses []expenseResponse `json:"recent_expenses"`
}

// GetDashboard handles GET /dashboard.
// Returns the all-time summary figures plus the most recent trips and
// expenses, enough to paint the landing page with a single request.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.reports.Dashboard(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	resp := dashboardResponse{
		Summary:        summaryToResponse(d.Summary),
		MileageRate:    d.Rate,
		RecentTrips:    make([]tripResponse, 0, len(d.RecentTrips)),
		RecentExpenses: make([]expenseResponse, 0, len(d.RecentExpenses)),
	}
	for _, t := range d.RecentTrips {
		resp.RecentTrips = append(resp.RecentTrips, tripToResponse(t))
	}
	for _, e := range d.RecentExpenses {
		resp.RecentExpenses = append(resp.RecentExpenses, expenseToResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}
