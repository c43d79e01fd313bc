package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/bistrohq/timeclock-backend-go/internal/domain/payroll"
	"github.com/bistrohq/timeclock-backend-go/internal/repository/postgresql"
	payrollService "github.com/bistrohq/timeclock-backend-go/internal/service/payroll"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPayrollService(clock clockwork.Clock) payroll.PayrollService {
	testInit()
	policy := testPayrollPolicy()
	return payrollService.NewPayrollService(
		testDB,
		postgresql.NewPayrollRepository(testDB),
		postgresql.NewAttendanceRepository(testDB),
		postgresql.NewEmployeeRepository(testDB),
		payrollService.NewCalculator(policy),
		clock,
		time.UTC,
	)
}

// seedWorkedPeriod inserts approved 8h days from March 1 to March 15.
func seedWorkedPeriod(t *testing.T, ctx context.Context, employeeID string) {
	t.Helper()
	for day := 1; day <= 15; day++ {
		createApprovedAttendance(t, ctx, employeeID, time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC), 8)
	}
}

func TestPreviewPayroll(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	employeeID := createTestEmployee(t, ctx, "P100", nil)
	seedWorkedPeriod(t, ctx, employeeID)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC))
	svc := newPayrollService(clock)

	figures, err := svc.Preview(ctx, payroll.PreviewRequest{
		EmployeeID: employeeID,
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-15",
	})
	require.NoError(t, err)

	assert.Equal(t, 15, figures.DaysWorked)
	assert.True(t, figures.TotalHours.Equal(decimal.NewFromInt(120)), "total hours: %s", figures.TotalHours)
	// 120h * 100/h, half monthly contributions on a 15000 basic salary
	assert.True(t, figures.GrossPay.Equal(decimal.NewFromInt(12000)), "gross pay: %s", figures.GrossPay)
	assert.True(t, figures.TotalDeductions.Equal(decimal.NewFromInt(625)), "deductions: %s", figures.TotalDeductions)
	assert.True(t, figures.NetPay.Equal(decimal.NewFromInt(11375)), "net pay: %s", figures.NetPay)

	// Nothing approved in the window
	_, err = svc.Preview(ctx, payroll.PreviewRequest{
		EmployeeID: employeeID,
		StartDate:  "2026-04-01",
		EndDate:    "2026-04-15",
	})
	assert.ErrorIs(t, err, payroll.ErrNotEligibleForPayroll)

	// Preview persists nothing
	var payrollCount int
	require.NoError(t, testDB.QueryRow(ctx, "SELECT COUNT(*) FROM payrolls").Scan(&payrollCount))
	assert.Equal(t, 0, payrollCount)
}

func TestGeneratePayrollForAllEmployees(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	first := createTestEmployee(t, ctx, "P200", nil)
	second := createTestEmployee(t, ctx, "P201", nil)
	idle := createTestEmployee(t, ctx, "P202", nil)
	_ = idle

	seedWorkedPeriod(t, ctx, first)
	seedWorkedPeriod(t, ctx, second)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC))
	svc := newPayrollService(clock)

	generated, err := svc.Generate(ctx, payroll.GeneratePayrollRequest{
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-15",
		EmployeeID: payroll.EmployeeFilterAll,
	})
	require.NoError(t, err)

	assert.Equal(t, string(payroll.StatusDraft), generated.Status)
	// Employees with no payable hours are skipped, not zero-slipped
	require.Len(t, generated.Payslips, 2)
	assert.True(t, generated.TotalAmount.Equal(decimal.NewFromInt(22750)), "total: %s", generated.TotalAmount)

	for _, slip := range generated.Payslips {
		assert.True(t, slip.NetPay.Equal(decimal.NewFromInt(11375)), "net pay: %s", slip.NetPay)
		assert.True(t, slip.Deductions[payroll.DeductionTax].IsZero(), "tax: %s", slip.Deductions[payroll.DeductionTax])
	}

	fetched, err := svc.GetPayroll(ctx, generated.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Payslips, 2)
}

func TestGeneratePayrollRejectsOverlap(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	employeeID := createTestEmployee(t, ctx, "P300", nil)
	seedWorkedPeriod(t, ctx, employeeID)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC))
	svc := newPayrollService(clock)

	_, err := svc.Generate(ctx, payroll.GeneratePayrollRequest{
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-15",
		EmployeeID: employeeID,
	})
	require.NoError(t, err)

	// Identical period
	_, err = svc.Generate(ctx, payroll.GeneratePayrollRequest{
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-15",
		EmployeeID: employeeID,
	})
	assert.ErrorIs(t, err, payroll.ErrDuplicatePayroll)

	// Partial overlap on the boundary day
	_, err = svc.Generate(ctx, payroll.GeneratePayrollRequest{
		StartDate:  "2026-03-15",
		EndDate:    "2026-03-31",
		EmployeeID: employeeID,
	})
	assert.ErrorIs(t, err, payroll.ErrDuplicatePayroll)

	var dup *payroll.DuplicatePayrollError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, employeeID, dup.EmployeeID)

	// Failed generations leave no extra rows behind
	var payrollCount int
	require.NoError(t, testDB.QueryRow(ctx, "SELECT COUNT(*) FROM payrolls").Scan(&payrollCount))
	assert.Equal(t, 1, payrollCount)

	// Adjacent, non-overlapping period is fine once there is work in it
	createApprovedAttendance(t, ctx, employeeID, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), 8)
	_, err = svc.Generate(ctx, payroll.GeneratePayrollRequest{
		StartDate:  "2026-03-16",
		EndDate:    "2026-03-31",
		EmployeeID: employeeID,
	})
	assert.NoError(t, err)
}

func TestGeneratePayrollWithNoEligibleEmployees(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	createTestEmployee(t, ctx, "P400", nil)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC))
	svc := newPayrollService(clock)

	generated, err := svc.Generate(ctx, payroll.GeneratePayrollRequest{
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-15",
		EmployeeID: payroll.EmployeeFilterAll,
	})
	require.NoError(t, err)

	// An empty payroll is still created, with nothing in it
	assert.Empty(t, generated.Payslips)
	assert.True(t, generated.TotalAmount.IsZero(), "total: %s", generated.TotalAmount)
}

func TestMarkPaidLifecycle(t *testing.T) {
	ctx := context.Background()
	truncateTables(t, ctx)

	employeeID := createTestEmployee(t, ctx, "P500", nil)
	seedWorkedPeriod(t, ctx, employeeID)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC))
	svc := newPayrollService(clock)

	generated, err := svc.Generate(ctx, payroll.GeneratePayrollRequest{
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-15",
		EmployeeID: employeeID,
	})
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, generated.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payroll.StatusPaid), paid.Status)
	require.NotNil(t, paid.PaymentDate)

	_, err = svc.MarkPaid(ctx, generated.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollAlreadyPaid)

	_, err = svc.MarkPaid(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)

	list, err := svc.ListPayrolls(ctx, payroll.PayrollListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)

	paidStatus := string(payroll.StatusPaid)
	list, err = svc.ListPayrolls(ctx, payroll.PayrollListFilter{Status: &paidStatus})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
}
