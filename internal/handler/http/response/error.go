package response

import (
	"errors"
	"net/http"

	"github.com/bistrohq/timeclock-backend-go/internal/domain/attendance"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/employee"
	"github.com/bistrohq/timeclock-backend-go/internal/domain/payroll"
	"github.com/bistrohq/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var dup *payroll.DuplicatePayrollError
	if errors.As(err, &dup) {
		Conflict(w, "Employee "+dup.EmployeeID+" already has a payslip overlapping this period")
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidPin):
		Unauthorized(w, "Invalid PIN")
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Employee already has an open attendance session")
	case errors.Is(err, attendance.ErrAlreadyCompletedToday):
		Conflict(w, "Employee already completed attendance today")
	case errors.Is(err, attendance.ErrNoActiveSession):
		Conflict(w, "Employee has no open attendance session")
	case errors.Is(err, attendance.ErrInvalidClockRange):
		BadRequest(w, "Clock-out must be after clock-in", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")
	case errors.Is(err, payroll.ErrPayrollAlreadyPaid):
		Conflict(w, "Payroll is already marked as paid")
	case errors.Is(err, payroll.ErrNotEligibleForPayroll):
		NotFound(w, "No payable attendance for this employee in the period")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "End date must not be before start date", nil)
	case errors.Is(err, payroll.ErrDuplicatePayroll):
		Conflict(w, "A payroll already covers part of this period")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
