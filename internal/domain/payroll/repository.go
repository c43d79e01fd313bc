package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access methods for payrolls and payslips.
type PayrollRepository interface {
	// AcquirePeriodLocks takes transaction-scoped advisory locks for the
	// given employees, in a stable order. Serializes concurrent Generate
	// calls that touch the same employee; released on commit or rollback.
	AcquirePeriodLocks(ctx context.Context, employeeIDs []string) error

	// FindOverlappingEmployee returns the first of the given employees that
	// already has a payslip whose parent payroll's date range intersects
	// [startDate, endDate]. found is false when there is no conflict.
	FindOverlappingEmployee(ctx context.Context, employeeIDs []string, startDate, endDate time.Time) (employeeID string, found bool, err error)

	// CreatePayroll inserts a draft payroll header
	CreatePayroll(ctx context.Context, p Payroll) (Payroll, error)

	// CreatePayslip inserts one payslip row
	CreatePayslip(ctx context.Context, slip Payslip) (Payslip, error)

	// UpdatePayrollTotal sets the header's total_amount
	UpdatePayrollTotal(ctx context.Context, payrollID string, total decimal.Decimal) error

	// GetPayrollByID retrieves a payroll with its payslips
	GetPayrollByID(ctx context.Context, id string) (Payroll, error)

	// ListPayrolls retrieves payroll headers with pagination
	ListPayrolls(ctx context.Context, filter PayrollListFilter) ([]Payroll, int64, error)

	// MarkPaid sets status=paid and the payment date. Figures are frozen at
	// generation time; nothing is recomputed here. Returns ErrPayrollAlreadyPaid
	// when the payroll exists but was paid before, ErrPayrollNotFound otherwise.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
}

// PayrollService defines business logic for payroll administration.
type PayrollService interface {
	// Preview computes pay figures without persisting anything
	Preview(ctx context.Context, req PreviewRequest) (PayrollFiguresResponse, error)

	// Generate creates a payroll with one payslip per eligible employee,
	// atomically, rejecting periods that overlap existing payslips
	Generate(ctx context.Context, req GeneratePayrollRequest) (PayrollResponse, error)

	// GetPayroll retrieves a payroll with its payslips
	GetPayroll(ctx context.Context, id string) (PayrollResponse, error)

	// ListPayrolls retrieves payroll history
	ListPayrolls(ctx context.Context, filter PayrollListFilter) (ListPayrollResponse, error)

	// MarkPaid finalizes a payroll
	MarkPaid(ctx context.Context, id string) (PayrollResponse, error)
}
