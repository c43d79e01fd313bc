package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusDraft Status = "draft"
	StatusPaid  Status = "paid"
)

// Deduction keys persisted in the payslip deductions mapping.
const (
	DeductionSSS        = "sss"
	DeductionPhilhealth = "philhealth"
	DeductionPagibig    = "pagibig"
	DeductionTax        = "tax"
)

// Payroll is one pay-period batch covering possibly many employees.
// The date range is immutable after creation; payslips are cascade-deleted
// with their payroll.
type Payroll struct {
	ID          string
	StartDate   time.Time
	EndDate     time.Time
	Status      Status
	TotalAmount decimal.Decimal
	PaymentDate *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Payslips []Payslip
}

// Payslip is one employee's frozen pay figures within a payroll.
type Payslip struct {
	ID              string
	PayrollID       string
	EmployeeID      string
	DaysWorked      int
	HoursWorked     decimal.Decimal
	OvertimeHours   decimal.Decimal
	GrossPay        decimal.Decimal
	Deductions      map[string]decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	CreatedAt       time.Time

	// Joined fields
	EmployeeName *string
}

// PayrollFigures is the calculator output for one employee over one period.
// All monetary values are decimal; rounding happens only where the payroll
// policy specifies it.
type PayrollFigures struct {
	EmployeeID      string
	DaysWorked      int
	TotalHours      decimal.Decimal
	RegularHours    decimal.Decimal
	OvertimeHours   decimal.Decimal
	HourlyRate      decimal.Decimal
	RegularPay      decimal.Decimal
	OvertimePay     decimal.Decimal
	GrossPay        decimal.Decimal
	Deductions      map[string]decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}
