package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/drivebook/backend/internal/domain"
)

// maxMultipartMemory is how much of a multipart body is held in memory while
// parsing; the rest spills to temp files. The body size itself is capped by
// the MaxBodySize middleware.
const maxMultipartMemory = 8 << 20

// pathID parses the named integer path parameter.
// A non-integer value cannot reference any record, so it reports not found.
func pathID(w http.ResponseWriter, r *http.Request, name, resource string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		writeNotFound(w, resource+" not found")
		return 0, false
	}
	return id, true
}

// queryPagination reads ?page= and ?limit= with the standard defaults.
// Non-numeric values fall back to the defaults rather than erroring.
func queryPagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.NewPaginationParams(page, limit)
}

// parseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func parseDate(value string) (time.Time, error) {
	return time.Parse(time.DateOnly, value)
}

// formFloat parses an optional float form field. Returns nil when the field
// is absent or empty.
func formFloat(r *http.Request, field string) (*float64, error) {
	value := r.FormValue(field)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", field)
	}
	return &f, nil
}

// formDecimal parses a required decimal form field.
func formDecimal(r *http.Request, field string) (decimal.Decimal, error) {
	value := r.FormValue(field)
	if value == "" {
		return decimal.Zero, fmt.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal number", field)
	}
	return d, nil
}

// formFileBytes reads an optional uploaded file from an already-parsed
// multipart form. Returns nil bytes when the field was not supplied.
func formFileBytes(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s must be a file field", field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", field, err)
	}
	return data, nil
}

// requireImage checks by content, not by client-sent headers, that data is a
// JPEG or PNG image.
func requireImage(data []byte, field string) error {
	mtype := mimetype.Detect(data)
	if !mtype.Is("image/jpeg") && !mtype.Is("image/png") {
		return fmt.Errorf("%s must be a JPEG or PNG image", field)
	}
	return nil
}

// writeImage serves stored image bytes with a sniffed Content-Type.
func writeImage(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // nothing useful to do with a failed response write
	w.Write(data)
}

// pagination is the page metadata attached to every list response.
type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
