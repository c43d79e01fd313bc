package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// GetByID retrieves an attendance record by ID
	GetByID(ctx context.Context, id string) (AttendanceRecord, error)

	// GetOpenSession retrieves the employee's record with no clock-out.
	// Returns nil when the employee has no open session.
	GetOpenSession(ctx context.Context, employeeID string) (*AttendanceRecord, error)

	// HasCompletedBetween reports whether the employee has any completed
	// record (clock-out set) with clock-in inside [from, to).
	// Used to reject a second shift on the same calendar day.
	HasCompletedBetween(ctx context.Context, employeeID string, from, to time.Time) (bool, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, record AttendanceRecord) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceRecord, int64, error)

	// ListApprovedInRange retrieves the employee's approved records with
	// clock-in inside [from, to). Payroll's source of hours.
	ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error)

	// GetStaleOpenSessions retrieves open records whose clock-in is before
	// the cutoff, for the auto-close job.
	GetStaleOpenSessions(ctx context.Context, cutoff time.Time) ([]AttendanceRecord, error)
}
