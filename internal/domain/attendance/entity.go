package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type AttendanceRecord struct {
	ID            string
	EmployeeID    string
	ClockIn       time.Time
	ClockOut      *time.Time
	TotalHours    *decimal.Decimal
	OvertimeHours decimal.Decimal
	Status        Status
	IsEdited      bool
	ApprovedBy    *string
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	EmployeeName *string
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsOpen reports whether the record is an active session (no clock-out yet).
func (a AttendanceRecord) IsOpen() bool {
	return a.ClockOut == nil
}

// RegularHours is derived, not persisted: total minus overtime, floored at 0.
func (a AttendanceRecord) RegularHours() decimal.Decimal {
	if a.TotalHours == nil {
		return decimal.Zero
	}
	regular := a.TotalHours.Sub(a.OvertimeHours)
	if regular.IsNegative() {
		return decimal.Zero
	}
	return regular
}
