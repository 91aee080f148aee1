// Package repo contains all database access logic for the DriveBook API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/drivebook/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// tripColumns are the columns every trip read returns. The photo blob itself
// is never listed; has_photo tells callers whether the photo endpoint will
// return anything.
const tripColumns = `id, trip_date, start_odometer, end_odometer, miles, notes,
	(odometer_image IS NOT NULL) AS has_photo, created_at`

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
// Trips are insert-only; there are no update or delete operations.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id and created_at populated). trip.Photo, when non-empty,
	// is stored as the odometer image.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Trip, error)

	// List returns all trips ordered by trip_date descending, then id
	// descending. The reporting engine consumes this full snapshot.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListPaged returns one page of trips in the same order as List, plus the
	// total row count for pagination.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// GetPhoto returns the odometer image bytes for a trip.
	// Returns domain.ErrNotFound when the trip does not exist or has no photo.
	GetPhoto(ctx context.Context, id int64) ([]byte, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (trip_date, start_odometer, end_odometer, miles, notes, odometer_image)
		VALUES (@trip_date, @start_odometer, @end_odometer, @miles, @notes, @odometer_image)
		RETURNING ` + tripColumns

	var photo []byte
	if len(trip.Photo) > 0 {
		photo = trip.Photo
	}

	args := pgx.NamedArgs{
		"trip_date":      trip.TripDate,
		"start_odometer": trip.StartOdometer, // nil becomes NULL
		"end_odometer":   trip.EndOdometer,
		"miles":          trip.Miles,
		"notes":          trip.Notes,
		"odometer_image": photo,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips, most recent date first, newest id first within a date.
func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips ORDER BY trip_date DESC, id DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	return trips, nil
}

// ListPaged returns one page of trips plus the total trip count.
func (r *pgTripRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	const q = `SELECT ` + tripColumns + ` FROM trips
		ORDER BY trip_date DESC, id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}

	return trips, total, nil
}

// GetPhoto returns the raw odometer image for a trip.
func (r *pgTripRepo) GetPhoto(ctx context.Context, id int64) ([]byte, error) {
	const q = `SELECT odometer_image FROM trips WHERE id = @id`

	var photo []byte
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&photo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.TripRepo.GetPhoto: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.TripRepo.GetPhoto: %w", err)
	}
	if len(photo) == 0 {
		// Trip exists but no photo was uploaded.
		return nil, fmt.Errorf("repo.TripRepo.GetPhoto: %w", domain.ErrNotFound)
	}
	return photo, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip and
// scanExpense to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the DATE and nullable odometer conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t        domain.Trip
		tripDate pgtype.Date
		startOdo pgtype.Float8
		endOdo   pgtype.Float8
	)

	err := s.Scan(&t.ID, &tripDate, &startOdo, &endOdo, &t.Miles, &t.Notes, &t.HasPhoto, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.TripDate = tripDate.Time
	if startOdo.Valid {
		v := startOdo.Float64
		t.StartOdometer = &v
	}
	if endOdo.Valid {
		v := endOdo.Float64
		t.EndOdometer = &v
	}

	return t, nil
}
