package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is owned by the directory component; this service reads it for
// PIN verification and compensation figures only.
type Employee struct {
	ID               string
	LocationID       *string
	EmployeeCode     string
	FullName         string
	PinHash          *string
	HourlyRate       decimal.Decimal
	BasicSalary      decimal.Decimal
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// HasCompensationProfile reports whether the employee can be paid at all.
// Employees without an hourly rate are skipped by payroll, not errored on.
func (e Employee) HasCompensationProfile() bool {
	return e.HourlyRate.IsPositive()
}
