// Package domain contains the core data types for the DriveBook application.
// It is imported by every other internal package (repo, service, handler) and
// carries no knowledge of SQL, HTTP, or rendering.
package domain

import "time"

// Trip represents a single day's driving record.
// Miles is the figure the deduction is computed from; the odometer readings
// are informational once miles has been resolved at create time.
// Trips are immutable after creation: never updated or deleted in-app.
type Trip struct {
	ID            int64
	TripDate      time.Time
	StartOdometer *float64 // nil when not recorded
	EndOdometer   *float64 // nil when not recorded
	Miles         float64
	Notes         string

	// Photo holds the odometer photo bytes on create only.
	// Reads never populate it; use HasPhoto and the photo endpoint instead.
	Photo    []byte
	HasPhoto bool

	CreatedAt time.Time
}
