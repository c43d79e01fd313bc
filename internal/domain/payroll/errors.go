package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPayrollNotFound       = errors.New("payroll not found")
	ErrPayrollAlreadyPaid    = errors.New("payroll has already been marked paid")
	ErrNotEligibleForPayroll = errors.New("employee has no payable hours in this period")
	ErrInvalidPeriod         = errors.New("invalid payroll period")

	// ErrDuplicatePayroll is the errors.Is target for DuplicatePayrollError.
	ErrDuplicatePayroll = errors.New("payroll period overlaps an existing payroll")
)

// DuplicatePayrollError reports which employee already has a payslip in an
// overlapping period. The whole generation batch is rejected on the first
// conflict found.
type DuplicatePayrollError struct {
	EmployeeID string
}

func (e *DuplicatePayrollError) Error() string {
	return fmt.Sprintf("employee %s already has a payslip in an overlapping period", e.EmployeeID)
}

func (e *DuplicatePayrollError) Is(target error) bool {
	return target == ErrDuplicatePayroll
}
