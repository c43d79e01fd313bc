package attendance

import (
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// CLOCK TERMINAL DTOs
// ========================================

type ClockInRequest struct {
	EmployeeID string  `json:"employee_id"`
	Pin        *string `json:"pin,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid employee id"})
	}
	if r.Pin != nil && !validator.IsValidPin(*r.Pin) {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "must be 4 to 6 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	EmployeeID string  `json:"employee_id"`
	Pin        *string `json:"pin,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid employee id"})
	}
	if r.Pin != nil && !validator.IsValidPin(*r.Pin) {
		errs = append(errs, validator.ValidationError{Field: "pin", Message: "must be 4 to 6 digits"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// ADMIN DTOs
// ========================================

// AdminUpdateRequest corrects the clock times of a record. Hours are
// recomputed and the record is flagged as edited; approval status is
// left untouched.
type AdminUpdateRequest struct {
	ID       string  `json:"-"`
	ClockIn  string  `json:"clock_in"`
	ClockOut *string `json:"clock_out,omitempty"`

	parsedClockIn  time.Time
	parsedClockOut *time.Time
}

func (r *AdminUpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}

	clockIn, ok := validator.IsValidDateTime(r.ClockIn)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "clock_in", Message: "must be an ISO8601 timestamp"})
	}
	r.parsedClockIn = clockIn

	if r.ClockOut != nil {
		clockOut, ok := validator.IsValidDateTime(*r.ClockOut)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "clock_out", Message: "must be an ISO8601 timestamp"})
		} else {
			r.parsedClockOut = &clockOut
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedTimes returns the validated timestamps. Validate must be called first.
func (r *AdminUpdateRequest) ParsedTimes() (time.Time, *time.Time) {
	return r.parsedClockIn, r.parsedClockOut
}

type ApproveRequest struct {
	ID string `json:"-"`
}

type RejectRequest struct {
	ID string `json:"-"`
}

// ========================================
// FILTERS
// ========================================

type AttendanceFilter struct {
	EmployeeID *string
	Status     *string
	StartDate  *string // "2006-01-02"
	EndDate    *string
	Page       int
	Limit      int
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be pending, approved or rejected"})
	}
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSES
// ========================================

type AttendanceResponse struct {
	ID            string           `json:"id"`
	EmployeeID    string           `json:"employee_id"`
	EmployeeName  string           `json:"employee_name,omitempty"`
	ClockIn       string           `json:"clock_in"`
	ClockOut      *string          `json:"clock_out,omitempty"`
	TotalHours    *decimal.Decimal `json:"total_hours,omitempty"`
	OvertimeHours decimal.Decimal  `json:"overtime_hours"`
	Status        string           `json:"status"`
	IsEdited      bool             `json:"is_edited"`
	ApprovedBy    *string          `json:"approved_by,omitempty"`
	ApprovedAt    *string          `json:"approved_at,omitempty"`
	CreatedAt     string           `json:"created_at"`
	UpdatedAt     string           `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
