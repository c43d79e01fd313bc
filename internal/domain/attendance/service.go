package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn opens a shift for the employee after PIN verification
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes the employee's open shift and computes paid hours
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// AdminUpdate corrects a record's clock times and recomputes hours
	AdminUpdate(ctx context.Context, req AdminUpdateRequest) (AttendanceResponse, error)

	// Approve marks a record approved; approving twice is a no-op success
	Approve(ctx context.Context, req ApproveRequest) (AttendanceResponse, error)

	// Reject marks a record rejected; rejecting twice is a no-op success
	Reject(ctx context.Context, req RejectRequest) (AttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// ListPending retrieves records awaiting approval
	ListPending(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
