package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/drivebook/backend/internal/domain"
)

// CreateTrip handles POST /trips.
// Accepts a JSON body, or multipart/form-data when attaching an odometer
// photo. The stored record is returned with 201.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := readTripRequest(w, r)
	if !ok {
		return
	}

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeValidation(w, err)
			return
		}
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := queryPagination(r)
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, listTripsResponse{
		Data: data,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tripID", "trip")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "trip not found")
			return
		}
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// GetTripPhoto handles GET /trips/{tripID}/photo.
// Serves the stored odometer photo bytes; the Content-Type is sniffed from
// the data rather than trusted from upload time.
func (s *Server) GetTripPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tripID", "trip")
	if !ok {
		return
	}

	photo, err := s.trips.GetPhoto(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeNotFound(w, "trip photo not found")
			return
		}
		writeInternal(w, r, err)
		return
	}

	writeImage(w, photo)
}

// --- request parsing and mapping ---------------------------------------------

// createTripRequest is the JSON shape accepted by POST /trips.
type createTripRequest struct {
	TripDate      string   `json:"trip_date"`
	Miles         float64  `json:"miles"`
	StartOdometer *float64 `json:"start_odometer"`
	EndOdometer   *float64 `json:"end_odometer"`
	Notes         string   `json:"notes"`
}

// tripResponse is the JSON shape of a stored trip.
type tripResponse struct {
	ID            int64     `json:"id"`
	TripDate      string    `json:"trip_date"`
	StartOdometer *float64  `json:"start_odometer,omitempty"`
	EndOdometer   *float64  `json:"end_odometer,omitempty"`
	Miles         float64   `json:"miles"`
	Notes         string    `json:"notes,omitempty"`
	HasPhoto      bool      `json:"has_photo"`
	CreatedAt     time.Time `json:"created_at"`
}

type listTripsResponse struct {
	Data       []tripResponse `json:"data"`
	Pagination pagination     `json:"pagination"`
}

// readTripRequest parses either request form of POST /trips into a
// domain.Trip. On failure it writes the error response and reports false.
func readTripRequest(w http.ResponseWriter, r *http.Request) (domain.Trip, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return readTripMultipart(w, r)
	}

	var req createTripRequest
	if !decodeJSON(w, r, &req) {
		return domain.Trip{}, false
	}
	if req.TripDate == "" {
		writeRequestError(w, "trip_date is required")
		return domain.Trip{}, false
	}
	date, err := parseDate(req.TripDate)
	if err != nil {
		writeRequestError(w, "trip_date must be a YYYY-MM-DD date")
		return domain.Trip{}, false
	}

	return domain.Trip{
		TripDate:      date,
		Miles:         req.Miles,
		StartOdometer: req.StartOdometer,
		EndOdometer:   req.EndOdometer,
		Notes:         req.Notes,
	}, true
}

// readTripMultipart parses the multipart form of POST /trips, used when a
// photo rides along with the record fields.
func readTripMultipart(w http.ResponseWriter, r *http.Request) (domain.Trip, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeInternal(w, r, err)
			return domain.Trip{}, false
		}
		writeRequestError(w, "request body must be valid multipart form data")
		return domain.Trip{}, false
	}

	if r.FormValue("trip_date") == "" {
		writeRequestError(w, "trip_date is required")
		return domain.Trip{}, false
	}
	date, err := parseDate(r.FormValue("trip_date"))
	if err != nil {
		writeRequestError(w, "trip_date must be a YYYY-MM-DD date")
		return domain.Trip{}, false
	}

	trip := domain.Trip{TripDate: date, Notes: r.FormValue("notes")}

	miles, err := formFloat(r, "miles")
	if err != nil {
		writeRequestError(w, err.Error())
		return domain.Trip{}, false
	}
	if miles != nil {
		trip.Miles = *miles
	}
	if trip.StartOdometer, err = formFloat(r, "start_odometer"); err != nil {
		writeRequestError(w, err.Error())
		return domain.Trip{}, false
	}
	if trip.EndOdometer, err = formFloat(r, "end_odometer"); err != nil {
		writeRequestError(w, err.Error())
		return domain.Trip{}, false
	}

	photo, err := formFileBytes(r, "photo")
	if err != nil {
		writeRequestError(w, err.Error())
		return domain.Trip{}, false
	}
	if photo != nil {
		if err := requireImage(photo, "photo"); err != nil {
			writeRequestError(w, err.Error())
			return domain.Trip{}, false
		}
		trip.Photo = photo
	}

	return trip, true
}

// tripToResponse converts a stored domain.Trip into its JSON shape.
func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:            t.ID,
		TripDate:      t.TripDate.Format(time.DateOnly),
		StartOdometer: t.StartOdometer,
		EndOdometer:   t.EndOdometer,
		Miles:         t.Miles,
		Notes:         t.Notes,
		HasPhoto:      t.HasPhoto,
		CreatedAt:     t.CreatedAt,
	}
}
